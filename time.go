package tempus

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// An exact instant is a count of dayticks (2^-47 s) since
// 0001-01-01T00:00:00 UTC. Every Time variant converts to and from it without
// loss, since each variant's denominator divides DaytickPerSecond.
var (
	bigDaytickPerSecond = new(big.Int).SetUint64(DaytickPerSecond)
	bigDaytickPerDay    = new(big.Int).SetUint64(DaytickPerDay)
	bigHalf             = big.NewFloat(0.5)
)

type timeLayout[O constraints.Integer] struct {
	name      string
	bits      int
	signed    bool
	base      int
	den       uint64
	min, max  O
	invalid   O
	missing   O
	precision int

	bigMin, bigMax *big.Int
	// baseExact is the exact instant of offset zero.
	baseExact *big.Int
	// scale is the number of dayticks per tick.
	scale *big.Int
}

func newTimeLayout[O constraints.Integer](
	name string, bits int, signed bool, base int, den uint64, min, max, invalid, missing O,
) *timeLayout[O] {
	if DaytickPerSecond%den != 0 {
		panic(errors.AssertionFailedf("denominator %d of %s does not divide the daytick", den, name))
	}
	l := &timeLayout[O]{
		name:      name,
		bits:      bits,
		signed:    signed,
		base:      base,
		den:       den,
		min:       min,
		max:       max,
		invalid:   invalid,
		missing:   missing,
		precision: ceilLog10(den),
		bigMin:    offsetToBig(min),
		bigMax:    offsetToBig(max),
		scale:     new(big.Int).SetUint64(DaytickPerSecond / den),
	}
	l.baseExact = new(big.Int).Mul(big.NewInt(int64(base)), bigDaytickPerDay)
	return l
}

func offsetToBig[I constraints.Integer](o I) *big.Int {
	if o < 0 {
		return big.NewInt(int64(o))
	}
	return new(big.Int).SetUint64(uint64(o))
}

// offsetFromBig converts b, which must lie in [l.min, l.max], to O.
func (l *timeLayout[O]) offsetFromBig(b *big.Int) O {
	if l.signed {
		return O(b.Int64())
	}
	return O(b.Uint64())
}

func (l *timeLayout[O]) inRange(b *big.Int) bool {
	return b.Cmp(l.bigMin) >= 0 && b.Cmp(l.bigMax) <= 0
}

type timeTraits[O constraints.Integer] interface {
	timeLayout() *timeLayout[O]
}

type (
	stdTime    struct{}
	nsecTime   struct{}
	smallTime  struct{}
	unix32Time struct{}
	unix64Time struct{}
)

const (
	datenum1900 = 693595
	// unix64Min and unix64Max are 0001-01-01T00:00:00 and 9999-12-31T23:59:59
	// in seconds since the Unix epoch.
	unix64Min = -DatenumUnixEpoch * 86400
	unix64Max = (DatenumMax+1-DatenumUnixEpoch)*86400 - 1
)

var (
	stdTimeLayout = newTimeLayout[uint64](
		"Time", 64, false, 0, 1<<26,
		0, math.MaxUint64-2, math.MaxUint64, math.MaxUint64-1)
	nsecTimeLayout = newTimeLayout[uint64](
		"NsecTime", 64, false, datenum1900, 1<<30,
		0, math.MaxUint64-2, math.MaxUint64, math.MaxUint64-1)
	smallTimeLayout = newTimeLayout[uint32](
		"SmallTime", 32, false, DatenumUnixEpoch, 1,
		0, math.MaxUint32-2, math.MaxUint32, math.MaxUint32-1)
	unix32TimeLayout = newTimeLayout[int32](
		"Unix32Time", 32, true, DatenumUnixEpoch, 1,
		math.MinInt32, math.MaxInt32-2, math.MaxInt32, math.MaxInt32-1)
	unix64TimeLayout = newTimeLayout[int64](
		"Unix64Time", 64, true, DatenumUnixEpoch, 1,
		unix64Min, unix64Max, unix64Max+1, unix64Max+2)
)

func (stdTime) timeLayout() *timeLayout[uint64]   { return stdTimeLayout }
func (nsecTime) timeLayout() *timeLayout[uint64]  { return nsecTimeLayout }
func (smallTime) timeLayout() *timeLayout[uint32] { return smallTimeLayout }
func (unix32Time) timeLayout() *timeLayout[int32] { return unix32TimeLayout }
func (unix64Time) timeLayout() *timeLayout[int64] { return unix64TimeLayout }

// TimeOf is an absolute instant stored as a tick count from a variant
// specific base day. The offset type O and the traits T fix the width, the
// number of ticks per second and the base; use one of the named variants.
//
// Instants outside a variant's range are never wrapped: arithmetic and casts
// that leave the range fail, or yield INVALID in the batch functions of
// package vec.
type TimeOf[O constraints.Integer, T timeTraits[O]] struct {
	offset O
}

type (
	// Time is the default variant: 2^26 ticks per second from 0001-01-01,
	// reaching into the year 8711.
	Time = TimeOf[uint64, stdTime]
	// NsecTime has 2^30 ticks per second from 1900-01-01, reaching into the
	// year 2444.
	NsecTime = TimeOf[uint64, nsecTime]
	// SmallTime counts whole seconds from 1970-01-01 in 32 unsigned bits.
	SmallTime = TimeOf[uint32, smallTime]
	// Unix32Time counts whole seconds from 1970-01-01 in 32 signed bits.
	Unix32Time = TimeOf[int32, unix32Time]
	// Unix64Time counts whole seconds from 1970-01-01 in 64 signed bits,
	// limited to years 1 through 9999.
	Unix64Time = TimeOf[int64, unix64Time]
)

var (
	// TimeMin is the earliest instant of the default variant,
	// 0001-01-01T00:00:00Z.
	TimeMin = Time{offset: stdTimeLayout.min}
	// TimeMax is the latest instant of the default variant.
	TimeMax = Time{offset: stdTimeLayout.max}
	// TimeInvalid is the INVALID sentinel of the default variant.
	TimeInvalid = Time{offset: stdTimeLayout.invalid}
	// TimeMissing is the MISSING sentinel of the default variant.
	TimeMissing = Time{offset: stdTimeLayout.missing}
)

// AnyTime is implemented by every Time variant.
type AnyTime interface {
	Kind() Kind
	ElementType() ElementType
	String() string
	// exact returns the instant in dayticks since 0001-01-01T00:00:00 UTC,
	// or nil for a sentinel.
	exact() *big.Int
}

// TimeType constrains generic functions to the Time variants.
type TimeType[T any] interface {
	AnyTime
	Min() T
	Max() T
	Add(seconds float64) (T, error)
	fromExact(e *big.Int) (T, bool)
	fromOffset(o *big.Int) (T, bool)
	withKind(k Kind) T
}

var (
	_ TimeType[Time]       = Time{}
	_ TimeType[NsecTime]   = NsecTime{}
	_ TimeType[SmallTime]  = SmallTime{}
	_ TimeType[Unix32Time] = Unix32Time{}
	_ TimeType[Unix64Time] = Unix64Time{}
)

// TimeFromOffset returns the default-variant time with the given raw tick
// count.
func TimeFromOffset(offset uint64) (Time, error) {
	return TimeFromOffsetOf[Time](offset)
}

// TimeFromOffsetOf returns the time of variant T with the given raw tick
// count, which must lie within the variant's range.
func TimeFromOffsetOf[T TimeType[T], I constraints.Integer](offset I) (T, error) {
	var zero T
	t, ok := zero.fromOffset(offsetToBig(offset))
	if !ok {
		return zero.withKind(KindInvalid), newRangeError("offset", zero.ElementType().Name, fmt.Sprint(offset))
	}
	return t, nil
}

func (t TimeOf[O, T]) layout() *timeLayout[O] {
	var tr T
	return tr.timeLayout()
}

// Kind reports whether t is valid, invalid or missing.
func (t TimeOf[O, T]) Kind() Kind {
	l := t.layout()
	switch {
	case t.offset == l.missing:
		return KindMissing
	case t.offset == l.invalid:
		return KindInvalid
	case l.min <= t.offset && t.offset <= l.max:
		return KindValid
	default:
		return KindInvalid
	}
}

// IsValid reports whether t is a real instant.
func (t TimeOf[O, T]) IsValid() bool { return t.Kind() == KindValid }

// IsInvalid reports whether t is the INVALID sentinel.
func (t TimeOf[O, T]) IsInvalid() bool { return t.Kind() == KindInvalid }

// IsMissing reports whether t is the MISSING sentinel.
func (t TimeOf[O, T]) IsMissing() bool { return t.Kind() == KindMissing }

func (t TimeOf[O, T]) withKind(k Kind) TimeOf[O, T] {
	switch k {
	case KindInvalid:
		return TimeOf[O, T]{offset: t.layout().invalid}
	case KindMissing:
		return TimeOf[O, T]{offset: t.layout().missing}
	}
	return t
}

// Min returns the earliest instant of the variant of t.
func (t TimeOf[O, T]) Min() TimeOf[O, T] {
	return TimeOf[O, T]{offset: t.layout().min}
}

// Max returns the latest instant of the variant of t.
func (t TimeOf[O, T]) Max() TimeOf[O, T] {
	return TimeOf[O, T]{offset: t.layout().max}
}

// Denominator returns the number of ticks per second of the variant of t.
func (t TimeOf[O, T]) Denominator() uint64 {
	return t.layout().den
}

// Resolution returns the tick length in seconds of the variant of t.
func (t TimeOf[O, T]) Resolution() float64 {
	return 1 / float64(t.layout().den)
}

// ElementType describes the binary layout of the variant of t.
func (t TimeOf[O, T]) ElementType() ElementType {
	l := t.layout()
	return ElementType{
		Name:        l.name,
		Bits:        l.bits,
		Signed:      l.signed,
		Unit:        UnitTick,
		Base:        l.base,
		Denominator: l.den,
		Invalid:     uint64(l.invalid),
		Missing:     uint64(l.missing),
	}
}

// Raw returns the stored tick count, including sentinel markers.
func (t TimeOf[O, T]) Raw() O {
	return t.offset
}

func (t TimeOf[O, T]) check() error {
	if k := t.Kind(); k != KindValid {
		return errors.Wrapf(ErrInvalidTime, "%s time", k)
	}
	return nil
}

// Offset returns the tick count since the variant's base.
func (t TimeOf[O, T]) Offset() (O, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	return t.offset, nil
}

func (t TimeOf[O, T]) fromOffset(o *big.Int) (TimeOf[O, T], bool) {
	l := t.layout()
	if !l.inRange(o) {
		return t.withKind(KindInvalid), false
	}
	return TimeOf[O, T]{offset: l.offsetFromBig(o)}, true
}

func (t TimeOf[O, T]) exact() *big.Int {
	if t.Kind() != KindValid {
		return nil
	}
	l := t.layout()
	e := offsetToBig(t.offset)
	e.Mul(e, l.scale)
	return e.Add(e, l.baseExact)
}

// fromExact returns the tick nearest to the exact instant e, rounding halves
// up. It fails if that tick lies outside the variant's range.
func (t TimeOf[O, T]) fromExact(e *big.Int) (TimeOf[O, T], bool) {
	l := t.layout()
	// floor((2(e - base) + scale) / 2scale)
	n := new(big.Int).Sub(e, l.baseExact)
	n.Lsh(n, 1).Add(n, l.scale)
	d := new(big.Int).Lsh(l.scale, 1)
	n.Div(n, d)
	return t.fromOffset(n)
}

// secondsToTicks converts seconds to the nearest whole number of ticks at
// den ticks per second, rounding halves away from zero.
func secondsToTicks(seconds float64, den uint64) *big.Int {
	f := new(big.Float).SetPrec(256).SetFloat64(seconds)
	f.Mul(f, new(big.Float).SetUint64(den))
	if f.Sign() < 0 {
		f.Sub(f, bigHalf)
	} else {
		f.Add(f, bigHalf)
	}
	i, _ := f.Int(nil)
	return i
}

// Add returns t shifted by a possibly fractional number of seconds, rounded
// to the nearest tick. Sentinels are returned unchanged. A result outside the
// variant's range is a *RangeError.
func (t TimeOf[O, T]) Add(seconds float64) (TimeOf[O, T], error) {
	if t.Kind() != KindValid {
		return t, nil
	}
	l := t.layout()
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return t.withKind(KindInvalid), newRangeError("add", l.name, fmt.Sprintf("%s + %gs", t, seconds))
	}
	n := secondsToTicks(seconds, l.den)
	n.Add(n, offsetToBig(t.offset))
	r, ok := t.fromOffset(n)
	if !ok {
		return r, newRangeError("add", l.name, fmt.Sprintf("%s + %gs", t, seconds))
	}
	return r, nil
}

// Sub returns the number of seconds from o to t. ok is false if either is a
// sentinel.
func (t TimeOf[O, T]) Sub(o TimeOf[O, T]) (seconds float64, ok bool) {
	if t.Kind() != KindValid || o.Kind() != KindValid {
		return 0, false
	}
	n := offsetToBig(t.offset)
	n.Sub(n, offsetToBig(o.offset))
	f := new(big.Float).SetInt(n)
	f.Quo(f, new(big.Float).SetUint64(t.layout().den))
	seconds, _ = f.Float64()
	return seconds, true
}

// Seconds returns the number of seconds since 0001-01-01T00:00:00 UTC.
func (t TimeOf[O, T]) Seconds() (float64, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	f := new(big.Float).SetInt(t.exact())
	f.Quo(f, new(big.Float).SetInt(bigDaytickPerSecond))
	s, _ := f.Float64()
	return s, nil
}

// Equal reports whether t and o hold the same instant or the same sentinel.
func (t TimeOf[O, T]) Equal(o TimeOf[O, T]) bool {
	return t.offset == o.offset
}

// Compare orders two valid times. ok is false if either is a sentinel.
func (t TimeOf[O, T]) Compare(o TimeOf[O, T]) (cmp int, ok bool) {
	if t.Kind() != KindValid || o.Kind() != KindValid {
		return 0, false
	}
	switch {
	case t.offset < o.offset:
		return -1, true
	case t.offset > o.offset:
		return 1, true
	}
	return 0, true
}

// Before reports whether both times are valid and t precedes o.
func (t TimeOf[O, T]) Before(o TimeOf[O, T]) bool {
	c, ok := t.Compare(o)
	return ok && c < 0
}

// After reports whether both times are valid and t follows o.
func (t TimeOf[O, T]) After(o TimeOf[O, T]) bool {
	c, ok := t.Compare(o)
	return ok && c > 0
}

// String formats t in UTC as YYYY-MM-DDTHH:MM:SSZ, with as many fractional
// digits as the variant resolves and trailing zeros removed.
func (t TimeOf[O, T]) String() string {
	switch t.Kind() {
	case KindInvalid:
		return "INVALID"
	case KindMissing:
		return "MISSING"
	}
	datenum, daytick := splitExact(t.exact())
	var b strings.Builder
	y, m, d := DatenumToYMD(datenum)
	secs := daytick / DaytickPerSecond
	fmt.Fprintf(&b, "%04d-%02d-%02dT%02d:%02d:%02d", y, m, d, secs/3600, secs/60%60, secs%60)
	l := t.layout()
	writeFraction(&b, daytick%DaytickPerSecond/(DaytickPerSecond/l.den), l.den, l.precision)
	b.WriteByte('Z')
	return b.String()
}

// splitExact splits an exact instant into a datenum and the daytick within
// that day.
func splitExact(e *big.Int) (datenum int, daytick uint64) {
	q, r := new(big.Int).DivMod(e, bigDaytickPerDay, new(big.Int))
	return int(q.Int64()), r.Uint64()
}

// joinExact is the inverse of splitExact, less an offset in seconds.
func joinExact(datenum int, daytick uint64, offset int) *big.Int {
	e := big.NewInt(int64(datenum))
	e.Mul(e, bigDaytickPerDay)
	e.Add(e, new(big.Int).SetUint64(daytick))
	o := big.NewInt(int64(offset))
	o.Mul(o, bigDaytickPerSecond)
	return e.Sub(e, o)
}

// unixSeconds returns the whole seconds since the Unix epoch of e, rounded
// down.
func unixSeconds(e *big.Int) int64 {
	q := new(big.Int).Div(e, bigDaytickPerSecond)
	return q.Int64() - DatenumUnixEpoch*86400
}
