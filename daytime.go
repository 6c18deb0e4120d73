package tempus

import (
	"fmt"
	"math/big"
	"math/bits"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

const (
	// DaytickPerSecond is the resolution of the universal daytick, the common
	// currency between Daytime variants.
	DaytickPerSecond = 1 << 47
	// DaytickPerDay is the number of dayticks in a day.
	DaytickPerDay = 86400 * DaytickPerSecond
)

type daytimeLayout[O constraints.Unsigned] struct {
	name      string
	bits      int
	den       uint64
	invalid   O
	missing   O
	precision int
}

func newDaytimeLayout[O constraints.Unsigned](name string, bits int, den uint64) *daytimeLayout[O] {
	return &daytimeLayout[O]{
		name:      name,
		bits:      bits,
		den:       den,
		invalid:   ^O(0),
		missing:   ^O(0) - 1,
		precision: ceilLog10(den),
	}
}

// ceilLog10 returns the number of decimal places needed to tell apart ticks
// of 1/den seconds.
func ceilLog10(den uint64) int {
	p := 0
	for pow := uint64(1); pow < den; pow *= 10 {
		p++
	}
	return p
}

// pow10 holds the powers of ten below 2^63.
var pow10 = func() (p [19]uint64) {
	p[0] = 1
	for i := 1; i < len(p); i++ {
		p[i] = p[i-1] * 10
	}
	return p
}()

// mulDivRound returns a*b/c rounded half up. It requires a*b < 2^127,
// c < 2^63 and a quotient that fits in 64 bits.
func mulDivRound(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	hi, lo = hi<<1|lo>>63, lo<<1
	lo, carry := bits.Add64(lo, c, 0)
	q, _ := bits.Div64(hi+carry, lo, c<<1)
	return q
}

// decimalTicks converts whole seconds plus the decimal digits of a fraction
// of a second to ticks of 1/den seconds, rounding halves up.
func decimalTicks(whole uint64, frac string, den uint64) uint64 {
	ticks := whole * den
	if frac == "" {
		return ticks
	}
	num, ok := new(big.Int).SetString(frac, 10)
	if !ok || num.Sign() < 0 {
		panic(errors.AssertionFailedf("malformed fraction %q", frac))
	}
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(len(frac))), nil)
	num.Mul(num, new(big.Int).SetUint64(2*den))
	num.Add(num, pow)
	num.Quo(num, pow.Lsh(pow, 1))
	return ticks + num.Uint64()
}

// secondTicks quantizes a non-negative number of seconds to ticks of 1/den
// seconds. The shortest decimal that reads back as second is what gets
// rounded, so 0.1 is one tenth of a second exactly.
func secondTicks(second float64, den uint64) uint64 {
	whole, frac, _ := strings.Cut(strconv.FormatFloat(second, 'f', -1, 64), ".")
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "seconds %g", second))
	}
	return decimalTicks(w, frac, den)
}

func (l *daytimeLayout[O]) ticksPerDay() uint64 {
	return 86400 * l.den
}

type daytimeTraits[O constraints.Unsigned] interface {
	daytimeLayout() *daytimeLayout[O]
}

type (
	stdDaytime  struct{}
	usecDaytime struct{}
	daytime32   struct{}
)

var (
	stdDaytimeLayout  = newDaytimeLayout[uint64]("Daytime", 64, 1<<47)
	usecDaytimeLayout = newDaytimeLayout[uint64]("UsecDaytime", 64, 1000000)
	daytime32Layout   = newDaytimeLayout[uint32]("Daytime32", 32, 1<<15)
)

func (stdDaytime) daytimeLayout() *daytimeLayout[uint64]  { return stdDaytimeLayout }
func (usecDaytime) daytimeLayout() *daytimeLayout[uint64] { return usecDaytimeLayout }
func (daytime32) daytimeLayout() *daytimeLayout[uint32]   { return daytime32Layout }

// DaytimeOf is a time of day stored as a fixed-point tick count since
// midnight. The offset type O and the traits T fix the width and the number
// of ticks per second; use one of the named variants below.
//
// The zero value is midnight.
type DaytimeOf[O constraints.Unsigned, T daytimeTraits[O]] struct {
	offset O
}

type (
	// Daytime is the default variant: 2^47 ticks per second in 64 bits.
	Daytime = DaytimeOf[uint64, stdDaytime]
	// UsecDaytime has microsecond resolution in 64 bits.
	UsecDaytime = DaytimeOf[uint64, usecDaytime]
	// Daytime32 has 2^15 ticks per second in 32 bits.
	Daytime32 = DaytimeOf[uint32, daytime32]
)

var (
	// DaytimeMin is midnight, the earliest daytime.
	DaytimeMin = Daytime{}
	// DaytimeMax is the last tick before midnight of the next day.
	DaytimeMax = Daytime{offset: DaytickPerDay - 1}
	// DaytimeInvalid is the INVALID sentinel of the default variant.
	DaytimeInvalid = Daytime{offset: stdDaytimeLayout.invalid}
	// DaytimeMissing is the MISSING sentinel of the default variant.
	DaytimeMissing = Daytime{offset: stdDaytimeLayout.missing}
)

// AnyDaytime is implemented by every Daytime variant.
type AnyDaytime interface {
	Kind() Kind
	ElementType() ElementType
	// Daytick returns the time of day in universal dayticks.
	Daytick() (uint64, error)
	String() string
}

// DaytimeType constrains generic functions to the Daytime variants.
type DaytimeType[D any] interface {
	AnyDaytime
	fromDaytick(daytick uint64) D
	fromParts(hour, minute int, second float64) (D, error)
	fromSSM(ssm float64) (D, error)
	fromOffset(offset uint64) (D, bool)
	withKind(k Kind) D
}

var (
	_ DaytimeType[Daytime]     = Daytime{}
	_ DaytimeType[UsecDaytime] = UsecDaytime{}
	_ DaytimeType[Daytime32]   = Daytime32{}
)

// DaytimeParts is the decomposition of a valid daytime.
type DaytimeParts struct {
	Hour   int
	Minute int
	Second float64
}

// NewDaytime returns the default-variant daytime for the given fields.
func NewDaytime(hour, minute int, second float64) (Daytime, error) {
	return NewDaytimeOf[Daytime](hour, minute, second)
}

// DaytimeFromSSM returns the default-variant daytime for a number of seconds
// since midnight.
func DaytimeFromSSM(ssm float64) (Daytime, error) {
	return DaytimeFromSSMOf[Daytime](ssm)
}

// DaytimeFromDaytick returns the default-variant daytime for a daytick.
func DaytimeFromDaytick(daytick uint64) (Daytime, error) {
	return DaytimeFromDaytickOf[Daytime](daytick)
}

// NewDaytimeOf returns the daytime of variant D for hour, minute and a
// possibly fractional second. Fields must satisfy 0 <= hour < 24,
// 0 <= minute < 60 and 0 <= second < 60.
//
// The second is quantized to the nearest tick, rounding halves up. A result
// that would reach midnight of the next day is clamped to the last tick of
// the day.
func NewDaytimeOf[D DaytimeType[D]](hour, minute int, second float64) (D, error) {
	var zero D
	return zero.fromParts(hour, minute, second)
}

// DaytimeFromSSMOf returns the daytime of variant D for ssm seconds since
// midnight. Values in [86400, 86401) are accepted and clamped to the last
// tick of the day, which accommodates a leap second; anything else outside
// [0, 86400) is an error.
func DaytimeFromSSMOf[D DaytimeType[D]](ssm float64) (D, error) {
	var zero D
	return zero.fromSSM(ssm)
}

// DaytimeFromDaytickOf converts a universal daytick to variant D.
func DaytimeFromDaytickOf[D DaytimeType[D]](daytick uint64) (D, error) {
	var zero D
	if daytick >= DaytickPerDay {
		return zero.withKind(KindInvalid), errors.Wrapf(ErrInvalidDaytime, "daytick %d", daytick)
	}
	return zero.fromDaytick(daytick), nil
}

// DaytimeFromOffsetOf returns the daytime of variant D with the given raw
// tick count.
func DaytimeFromOffsetOf[D DaytimeType[D], I constraints.Integer](offset I) (D, error) {
	var zero D
	if offset >= 0 {
		if d, ok := zero.fromOffset(uint64(offset)); ok {
			return d, nil
		}
	}
	return zero.withKind(KindInvalid), errors.Wrapf(ErrInvalidDaytime, "offset %d", offset)
}

func (d DaytimeOf[O, T]) layout() *daytimeLayout[O] {
	var t T
	return t.daytimeLayout()
}

// Kind reports whether d is valid, invalid or missing.
func (d DaytimeOf[O, T]) Kind() Kind {
	l := d.layout()
	switch {
	case d.offset == l.missing:
		return KindMissing
	case uint64(d.offset) < l.ticksPerDay():
		return KindValid
	default:
		return KindInvalid
	}
}

// IsValid reports whether d is a real time of day.
func (d DaytimeOf[O, T]) IsValid() bool { return d.Kind() == KindValid }

// IsInvalid reports whether d is the INVALID sentinel.
func (d DaytimeOf[O, T]) IsInvalid() bool { return d.Kind() == KindInvalid }

// IsMissing reports whether d is the MISSING sentinel.
func (d DaytimeOf[O, T]) IsMissing() bool { return d.Kind() == KindMissing }

func (d DaytimeOf[O, T]) withKind(k Kind) DaytimeOf[O, T] {
	switch k {
	case KindInvalid:
		return DaytimeOf[O, T]{offset: d.layout().invalid}
	case KindMissing:
		return DaytimeOf[O, T]{offset: d.layout().missing}
	}
	return d
}

// Min returns midnight in the variant of d.
func (d DaytimeOf[O, T]) Min() DaytimeOf[O, T] {
	return DaytimeOf[O, T]{}
}

// Max returns the last tick of the day in the variant of d.
func (d DaytimeOf[O, T]) Max() DaytimeOf[O, T] {
	return DaytimeOf[O, T]{offset: O(d.layout().ticksPerDay() - 1)}
}

// Denominator returns the number of ticks per second of the variant of d.
func (d DaytimeOf[O, T]) Denominator() uint64 {
	return d.layout().den
}

// Resolution returns the tick length in seconds of the variant of d.
func (d DaytimeOf[O, T]) Resolution() float64 {
	return 1 / float64(d.layout().den)
}

// ElementType describes the binary layout of the variant of d.
func (d DaytimeOf[O, T]) ElementType() ElementType {
	l := d.layout()
	return ElementType{
		Name:        l.name,
		Bits:        l.bits,
		Unit:        UnitDaytick,
		Denominator: l.den,
		Invalid:     uint64(l.invalid),
		Missing:     uint64(l.missing),
	}
}

// Raw returns the stored tick count, including sentinel markers.
func (d DaytimeOf[O, T]) Raw() O {
	return d.offset
}

func (d DaytimeOf[O, T]) check() error {
	if k := d.Kind(); k != KindValid {
		return errors.Wrapf(ErrInvalidDaytime, "%s daytime", k)
	}
	return nil
}

// Offset returns the tick count since midnight.
func (d DaytimeOf[O, T]) Offset() (O, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	return d.offset, nil
}

func (d DaytimeOf[O, T]) fromOffset(offset uint64) (DaytimeOf[O, T], bool) {
	if offset >= d.layout().ticksPerDay() {
		return d.withKind(KindInvalid), false
	}
	return DaytimeOf[O, T]{offset: O(offset)}, true
}

// clamp builds a daytime from a tick count that may have been rounded up to
// the end of the day.
func (d DaytimeOf[O, T]) clamp(ticks uint64) DaytimeOf[O, T] {
	if tpd := d.layout().ticksPerDay(); ticks >= tpd {
		ticks = tpd - 1
	}
	return DaytimeOf[O, T]{offset: O(ticks)}
}

func (d DaytimeOf[O, T]) fromDaytick(daytick uint64) DaytimeOf[O, T] {
	// ticks = round(daytick * den / 2^47)
	hi, lo := bits.Mul64(daytick, d.layout().den)
	ticks := hi<<17 | lo>>47
	if lo&(1<<46) != 0 {
		ticks++
	}
	return d.clamp(ticks)
}

func (d DaytimeOf[O, T]) fromParts(hour, minute int, second float64) (DaytimeOf[O, T], error) {
	if hour < 0 || hour >= 24 || minute < 0 || minute >= 60 || !(second >= 0 && second < 60) {
		return d.withKind(KindInvalid), errors.Wrapf(ErrInvalidDaytime, "%02d:%02d:%g", hour, minute, second)
	}
	den := d.layout().den
	ticks := uint64(hour)*3600*den + uint64(minute)*60*den + secondTicks(second, den)
	return d.clamp(ticks), nil
}

func (d DaytimeOf[O, T]) fromSSM(ssm float64) (DaytimeOf[O, T], error) {
	if !(ssm >= 0 && ssm < 86401) {
		return d.withKind(KindInvalid), errors.Wrapf(ErrInvalidDaytime, "ssm %g", ssm)
	}
	return d.clamp(secondTicks(ssm, d.layout().den)), nil
}

// Daytick returns d in universal dayticks.
func (d DaytimeOf[O, T]) Daytick() (uint64, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	den := d.layout().den
	hi, lo := bits.Mul64(uint64(d.offset), DaytickPerSecond)
	q, r := bits.Div64(hi, lo, den)
	if 2*r >= den {
		q++
	}
	if q >= DaytickPerDay {
		q = DaytickPerDay - 1
	}
	return q, nil
}

// SSM returns the number of seconds since midnight, derived from the stored
// tick count.
func (d DaytimeOf[O, T]) SSM() (float64, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	den := d.layout().den
	t := uint64(d.offset)
	return float64(t/den) + float64(t%den)/float64(den), nil
}

// Parts returns the hour, minute and second of d.
func (d DaytimeOf[O, T]) Parts() (DaytimeParts, error) {
	if err := d.check(); err != nil {
		return DaytimeParts{}, err
	}
	den := d.layout().den
	t := uint64(d.offset)
	p := DaytimeParts{
		Hour:   int(t / (3600 * den)),
		Minute: int(t % (3600 * den) / (60 * den)),
	}
	s := t % (60 * den)
	p.Second = float64(s/den) + float64(s%den)/float64(den)
	return p, nil
}

// Equal reports whether d and o hold the same tick count or the same
// sentinel.
func (d DaytimeOf[O, T]) Equal(o DaytimeOf[O, T]) bool {
	return d.offset == o.offset
}

// Compare orders two valid daytimes. ok is false if either is a sentinel.
func (d DaytimeOf[O, T]) Compare(o DaytimeOf[O, T]) (cmp int, ok bool) {
	if d.Kind() != KindValid || o.Kind() != KindValid {
		return 0, false
	}
	switch {
	case d.offset < o.offset:
		return -1, true
	case d.offset > o.offset:
		return 1, true
	}
	return 0, true
}

// Before reports whether both daytimes are valid and d precedes o.
func (d DaytimeOf[O, T]) Before(o DaytimeOf[O, T]) bool {
	c, ok := d.Compare(o)
	return ok && c < 0
}

// After reports whether both daytimes are valid and d follows o.
func (d DaytimeOf[O, T]) After(o DaytimeOf[O, T]) bool {
	c, ok := d.Compare(o)
	return ok && c > 0
}

// String formats d as HH:MM:SS with as many fractional digits as the
// variant resolves, trailing zeros removed.
func (d DaytimeOf[O, T]) String() string {
	switch d.Kind() {
	case KindInvalid:
		return "INVALID"
	case KindMissing:
		return "MISSING"
	}
	l := d.layout()
	t := uint64(d.offset)
	secs := t / l.den
	var b strings.Builder
	fmt.Fprintf(&b, "%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
	writeFraction(&b, t%l.den, l.den, l.precision)
	return b.String()
}

// writeFraction appends the shortest decimal fraction, of at most digits
// places, that rounds back to num/den at den ticks per second. Nothing is
// written for a zero fraction. With digits at least ceilLog10(den) every
// tick has such a decimal.
func writeFraction(b *strings.Builder, num, den uint64, digits int) {
	if num == 0 {
		return
	}
	for k := 1; k <= digits && k < len(pow10); k++ {
		pow := pow10[k]
		f := mulDivRound(num, pow, den)
		if f >= pow || mulDivRound(f, den, pow) != num {
			continue
		}
		s := strconv.FormatUint(f, 10)
		b.WriteByte('.')
		for i := len(s); i < k; i++ {
			b.WriteByte('0')
		}
		b.WriteString(strings.TrimRight(s, "0"))
		return
	}
}
