// Package vec applies tempus operations element-wise over slices, the form
// in which array runtimes hand over columns of dates and times.
//
// Nothing here fails per element. An element whose result is undefined or
// out of range becomes INVALID, and sentinel inputs propagate as they do in
// the scalar operations. The only error is ErrShape, for operands whose
// lengths do not broadcast: a length-one operand applies to every element
// of the other operands, any other lengths must agree.
package vec

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tempus"
	"golang.org/x/exp/constraints"
)

// ErrShape is returned for operands whose lengths do not broadcast.
var ErrShape = errors.New("operand lengths do not broadcast")

// broadcast returns the length of the result of an operation over operands
// of the given lengths.
func broadcast(lens ...int) (int, error) {
	n := 1
	for _, l := range lens {
		switch {
		case l == n || l == 1:
		case n == 1:
			n = l
		default:
			return 0, errors.Wrapf(ErrShape, "lengths %v", lens)
		}
	}
	return n, nil
}

// at returns element i of s, or its only element.
func at[E any](s []E, i int) E {
	if len(s) == 1 {
		return s[0]
	}
	return s[i]
}

// ElementTypeOf returns the layout descriptor of V.
func ElementTypeOf[V interface{ ElementType() tempus.ElementType }]() tempus.ElementType {
	var zero V
	return zero.ElementType()
}

// IsValid reports, for each value, whether it is neither INVALID nor
// MISSING.
func IsValid[V interface{ Kind() tempus.Kind }](vals []V) []bool {
	ret := make([]bool, len(vals))
	for i, v := range vals {
		ret[i] = v.Kind() == tempus.KindValid
	}
	return ret
}

// AddDays shifts each date forward by the corresponding number of days.
func AddDays(dates []tempus.Date, days []int) ([]tempus.Date, error) {
	n, err := broadcast(len(dates), len(days))
	if err != nil {
		return nil, err
	}
	ret := make([]tempus.Date, n)
	for i := range ret {
		ret[i] = at(dates, i).Add(at(days, i))
	}
	return ret, nil
}

// SubDays shifts each date back by the corresponding number of days.
func SubDays(dates []tempus.Date, days []int) ([]tempus.Date, error) {
	n, err := broadcast(len(dates), len(days))
	if err != nil {
		return nil, err
	}
	ret := make([]tempus.Date, n)
	for i := range ret {
		ret[i] = at(dates, i).Sub(at(days, i))
	}
	return ret, nil
}

// DateDiff returns the number of days from b to a for each pair. ok[i] is
// false, and days[i] zero, where either date is a sentinel.
func DateDiff(a, b []tempus.Date) (days []int, ok []bool, err error) {
	n, err := broadcast(len(a), len(b))
	if err != nil {
		return nil, nil, err
	}
	days, ok = make([]int, n), make([]bool, n)
	for i := range days {
		days[i], ok[i] = at(a, i).DaysSince(at(b, i))
	}
	return days, ok, nil
}

// AddSeconds shifts each time by the corresponding number of seconds.
// Results outside the range of T are INVALID.
func AddSeconds[T tempus.TimeType[T]](times []T, seconds []float64) ([]T, error) {
	n, err := broadcast(len(times), len(seconds))
	if err != nil {
		return nil, err
	}
	ret := make([]T, n)
	for i := range ret {
		r, err := at(times, i).Add(at(seconds, i))
		if err != nil {
			r = tempus.Invalid[T]()
		}
		ret[i] = r
	}
	return ret, nil
}

// SubSeconds shifts each time back by the corresponding number of seconds.
func SubSeconds[T tempus.TimeType[T]](times []T, seconds []float64) ([]T, error) {
	neg := make([]float64, len(seconds))
	for i, s := range seconds {
		neg[i] = -s
	}
	return AddSeconds(times, neg)
}

// CastTimes converts each time to variant T. Instants outside the range of
// T are INVALID.
func CastTimes[T tempus.TimeType[T], S tempus.AnyTime](times []S) []T {
	ret := make([]T, len(times))
	for i, t := range times {
		r, err := tempus.CastTime[T](t)
		if err != nil {
			r = tempus.Invalid[T]()
		}
		ret[i] = r
	}
	return ret
}

// CastDaytimes converts each daytime to variant D, rounding to its nearest
// tick.
func CastDaytimes[D tempus.DaytimeType[D], S tempus.AnyDaytime](daytimes []S) []D {
	ret := make([]D, len(daytimes))
	for i, d := range daytimes {
		switch k := d.Kind(); k {
		case tempus.KindValid:
			daytick, _ := d.Daytick()
			ret[i], _ = tempus.DaytimeFromDaytickOf[D](daytick)
		case tempus.KindMissing:
			ret[i] = tempus.Missing[D]()
		default:
			ret[i] = tempus.Invalid[D]()
		}
	}
	return ret
}

// Op is a comparison operator applied element-wise.
type Op uint8

const (
	OpEqual Op = iota
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

// apply evaluates op given whether the operands are equal and, when ok, how
// they order. Sentinels are equal only to the same sentinel and order
// nothing, so every ordering operator is false when a sentinel is involved.
func (op Op) apply(equal bool, cmp int, ok bool) bool {
	switch op {
	case OpEqual:
		return equal
	case OpNotEqual:
		return !equal
	}
	if !ok {
		return false
	}
	switch op {
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	}
	panic(errors.AssertionFailedf("unknown comparison operator %d", op))
}

// Ordered is implemented by Date and by every Daytime and Time variant,
// against values of the same type.
type Ordered[V any] interface {
	Compare(o V) (cmp int, ok bool)
	Equal(o V) bool
}

// CompareValues applies op pairwise to dates, daytimes or times of a single
// variant.
func CompareValues[V Ordered[V]](op Op, a, b []V) ([]bool, error) {
	n, err := broadcast(len(a), len(b))
	if err != nil {
		return nil, err
	}
	ret := make([]bool, n)
	for i := range ret {
		x, y := at(a, i), at(b, i)
		cmp, ok := x.Compare(y)
		ret[i] = op.apply(x.Equal(y), cmp, ok)
	}
	return ret, nil
}

// CompareTimes applies op pairwise to instants of possibly different
// variants.
func CompareTimes[A, B tempus.AnyTime](op Op, a []A, b []B) ([]bool, error) {
	n, err := broadcast(len(a), len(b))
	if err != nil {
		return nil, err
	}
	ret := make([]bool, n)
	for i := range ret {
		x, y := at(a, i), at(b, i)
		cmp, ok := tempus.Compare(x, y)
		ret[i] = op.apply(tempus.Equal(x, y), cmp, ok)
	}
	return ret, nil
}

// Compare orders instants pairwise across variants. ok[i] is false, and
// cmp[i] zero, where either instant is a sentinel.
func Compare[A, B tempus.AnyTime](a []A, b []B) (cmp []int, ok []bool, err error) {
	n, err := broadcast(len(a), len(b))
	if err != nil {
		return nil, nil, err
	}
	cmp, ok = make([]int, n), make([]bool, n)
	for i := range cmp {
		cmp[i], ok[i] = tempus.Compare(at(a, i), at(b, i))
	}
	return cmp, ok, nil
}

// Equal compares instants pairwise across variants. Sentinels are equal only
// to the same sentinel.
func Equal[A, B tempus.AnyTime](a []A, b []B) ([]bool, error) {
	return CompareTimes(OpEqual, a, b)
}

// NotEqual is the negation of Equal.
func NotEqual[A, B tempus.AnyTime](a []A, b []B) ([]bool, error) {
	return CompareTimes(OpNotEqual, a, b)
}

// Less reports pairwise whether a precedes b. Any comparison involving a
// sentinel is false.
func Less[A, B tempus.AnyTime](a []A, b []B) ([]bool, error) {
	return CompareTimes(OpLess, a, b)
}

// LessEqual reports pairwise whether a precedes or equals b. Any comparison
// involving a sentinel is false, even against the same sentinel.
func LessEqual[A, B tempus.AnyTime](a []A, b []B) ([]bool, error) {
	return CompareTimes(OpLessEqual, a, b)
}

// Greater reports pairwise whether a follows b.
func Greater[A, B tempus.AnyTime](a []A, b []B) ([]bool, error) {
	return CompareTimes(OpGreater, a, b)
}

// GreaterEqual reports pairwise whether a follows or equals b.
func GreaterEqual[A, B tempus.AnyTime](a []A, b []B) ([]bool, error) {
	return CompareTimes(OpGreaterEqual, a, b)
}

// TimesFromOffsets interprets raw tick counts as times of variant T. Offsets
// outside the range of T, including the raw patterns of the sentinels, are
// INVALID.
func TimesFromOffsets[T tempus.TimeType[T], I constraints.Integer](offsets []I) []T {
	ret := make([]T, len(offsets))
	for i, o := range offsets {
		r, err := tempus.TimeFromOffsetOf[T](o)
		if err != nil {
			r = tempus.Invalid[T]()
		}
		ret[i] = r
	}
	return ret
}

// DatesFromYMD builds dates from year, month and day columns. Invalid
// fields yield INVALID.
func DatesFromYMD(years, months, days []int) ([]tempus.Date, error) {
	n, err := broadcast(len(years), len(months), len(days))
	if err != nil {
		return nil, err
	}
	ret := make([]tempus.Date, n)
	for i := range ret {
		ret[i] = orInvalid(tempus.NewDate(at(years, i), at(months, i), at(days, i)))
	}
	return ret, nil
}

// DatesFromOrdinalDate builds dates from year and day-of-year columns.
func DatesFromOrdinalDate(years, ordinals []int) ([]tempus.Date, error) {
	n, err := broadcast(len(years), len(ordinals))
	if err != nil {
		return nil, err
	}
	ret := make([]tempus.Date, n)
	for i := range ret {
		ret[i] = orInvalid(tempus.DateFromOrdinalDate(at(years, i), at(ordinals, i)))
	}
	return ret, nil
}

// DatesFromWeekDate builds dates from ISO week-year, week and weekday
// columns.
func DatesFromWeekDate(weekYears, weeks []int, weekdays []tempus.Weekday) ([]tempus.Date, error) {
	n, err := broadcast(len(weekYears), len(weeks), len(weekdays))
	if err != nil {
		return nil, err
	}
	ret := make([]tempus.Date, n)
	for i := range ret {
		ret[i] = orInvalid(tempus.DateFromWeekDate(at(weekYears, i), at(weeks, i), at(weekdays, i)))
	}
	return ret, nil
}

// DatesFromYMDI builds dates from YYYYMMDD-encoded integers.
func DatesFromYMDI(ymdis []int) []tempus.Date {
	ret := make([]tempus.Date, len(ymdis))
	for i, ymdi := range ymdis {
		ret[i] = orInvalid(tempus.DateFromYMDI(ymdi))
	}
	return ret
}

func orInvalid(d tempus.Date, err error) tempus.Date {
	if err != nil {
		return tempus.DateInvalid
	}
	return d
}

// ToLocal decomposes each time on the wall clock of tz.
func ToLocal[T tempus.AnyTime](times []T, tz tempus.TimeZone) (dates []tempus.Date, daytimes []tempus.Daytime) {
	dates, daytimes = make([]tempus.Date, len(times)), make([]tempus.Daytime, len(times))
	for i, t := range times {
		lt := tempus.ToLocal(t, tz)
		dates[i], daytimes[i] = lt.Date, lt.Daytime
	}
	return dates, daytimes
}
