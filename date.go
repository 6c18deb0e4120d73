package tempus

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

// Date is a day between 0001-01-01 and 9999-12-31 in the proleptic Gregorian
// calendar, or one of the sentinels DateInvalid and DateMissing.
//
// A Date is stored as a single unsigned 32-bit day offset from 0001-01-01;
// sentinels use out-of-band offsets. The zero value is 0001-01-01.
type Date struct {
	offset uint32
}

const (
	dateInvalidOffset = math.MaxUint32
	dateMissingOffset = math.MaxUint32 - 1
)

var (
	// DateMin is 0001-01-01.
	DateMin = Date{offset: DatenumMin}
	// DateMax is 9999-12-31.
	DateMax = Date{offset: DatenumMax}
	// DateInvalid is the result of an undefined date computation.
	DateInvalid = Date{offset: dateInvalidOffset}
	// DateMissing represents an absent date.
	DateMissing = Date{offset: dateMissingOffset}
)

var dateElementType = ElementType{
	Name:        "Date",
	Bits:        32,
	Unit:        UnitDay,
	Denominator: 1,
	Invalid:     dateInvalidOffset,
	Missing:     dateMissingOffset,
}

// DateParts holds every calendar field of a valid date.
type DateParts struct {
	Year     int
	Month    int
	Day      int
	Ordinal  int
	WeekYear int
	Week     int
	Weekday  Weekday
}

// YMDI returns the date encoded as YYYYMMDD.
func (p DateParts) YMDI() int {
	return p.Year*10000 + p.Month*100 + p.Day
}

// NewDate returns the date with the given year, month and day.
func NewDate(year, month, day int) (Date, error) {
	n, err := YMDToDatenum(year, month, day)
	if err != nil {
		return DateInvalid, err
	}
	return Date{offset: uint32(n)}, nil
}

// DateFromDatenum returns the date for a datenum in [DatenumMin, DatenumMax].
func DateFromDatenum(datenum int) (Date, error) {
	if datenum < DatenumMin || datenum > DatenumMax {
		return DateInvalid, errors.Wrapf(ErrInvalidDate, "datenum %d", datenum)
	}
	return Date{offset: uint32(datenum)}, nil
}

// DateFromOrdinalDate returns the date for a year and 1-based day of year.
func DateFromOrdinalDate(year, ordinal int) (Date, error) {
	n, err := OrdinalDateToDatenum(year, ordinal)
	if err != nil {
		return DateInvalid, err
	}
	return Date{offset: uint32(n)}, nil
}

// DateFromWeekDate returns the date for an ISO 8601 week date.
func DateFromWeekDate(weekYear, week int, weekday Weekday) (Date, error) {
	n, err := WeekDateToDatenum(weekYear, week, weekday)
	if err != nil {
		return DateInvalid, err
	}
	return Date{offset: uint32(n)}, nil
}

// DateFromYMDI returns the date for a YYYYMMDD-encoded integer.
func DateFromYMDI(ymdi int) (Date, error) {
	n, err := YMDIToDatenum(ymdi)
	if err != nil {
		return DateInvalid, err
	}
	return Date{offset: uint32(n)}, nil
}

// DateFromRaw reinterprets a raw offset, as stored by an array runtime.
// Offsets that are neither valid nor a sentinel yield DateInvalid.
func DateFromRaw(raw uint32) Date {
	if raw > DatenumMax && raw != dateMissingOffset {
		return DateInvalid
	}
	return Date{offset: raw}
}

// Raw returns the stored offset, including sentinel markers.
func (d Date) Raw() uint32 {
	return d.offset
}

// ElementType describes the binary layout of Date.
func (d Date) ElementType() ElementType {
	return dateElementType
}

// Kind reports whether d is valid, invalid or missing.
func (d Date) Kind() Kind {
	switch {
	case d.offset <= DatenumMax:
		return KindValid
	case d.offset == dateMissingOffset:
		return KindMissing
	default:
		return KindInvalid
	}
}

// IsValid reports whether d is a real date.
func (d Date) IsValid() bool { return d.Kind() == KindValid }

// IsInvalid reports whether d is DateInvalid.
func (d Date) IsInvalid() bool { return d.Kind() == KindInvalid }

// IsMissing reports whether d is DateMissing.
func (d Date) IsMissing() bool { return d.Kind() == KindMissing }

func (d Date) withKind(k Kind) Date {
	switch k {
	case KindInvalid:
		return DateInvalid
	case KindMissing:
		return DateMissing
	}
	return d
}

func (d Date) check() error {
	if k := d.Kind(); k != KindValid {
		return errors.Wrapf(ErrInvalidDate, "%s date", k)
	}
	return nil
}

// Datenum returns the number of days since 0001-01-01.
func (d Date) Datenum() (int, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	return int(d.offset), nil
}

// Parts returns the calendar fields of d.
func (d Date) Parts() (DateParts, error) {
	if err := d.check(); err != nil {
		return DateParts{}, err
	}
	n := int(d.offset)
	var p DateParts
	p.Year, p.Month, p.Day = DatenumToYMD(n)
	_, p.Ordinal = DatenumToOrdinal(n)
	p.WeekYear, p.Week, p.Weekday = DatenumToWeekDate(n)
	return p, nil
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() (Weekday, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	return DatenumToWeekday(int(d.offset)), nil
}

// YMDI returns d encoded as YYYYMMDD.
func (d Date) YMDI() (int, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	return DatenumToYMDI(int(d.offset)), nil
}

// Add returns d shifted by days. Sentinels are returned unchanged, and a
// result outside [DateMin, DateMax] is DateInvalid.
func (d Date) Add(days int) Date {
	if d.Kind() != KindValid {
		return d
	}
	if days < -DatenumMax || days > DatenumMax {
		return DateInvalid
	}
	n := int(d.offset) + days
	if n < DatenumMin || n > DatenumMax {
		return DateInvalid
	}
	return Date{offset: uint32(n)}
}

// Sub returns d shifted back by days; see Add.
func (d Date) Sub(days int) Date {
	if days < -DatenumMax || days > DatenumMax {
		if d.Kind() != KindValid {
			return d
		}
		return DateInvalid
	}
	return d.Add(-days)
}

// DaysSince returns the number of days from o to d. The result is absent
// (ok is false) when either operand is a sentinel.
func (d Date) DaysSince(o Date) (days int, ok bool) {
	if d.Kind() != KindValid || o.Kind() != KindValid {
		return 0, false
	}
	return int(d.offset) - int(o.offset), true
}

// Equal reports whether d and o are the same valid date, or the same
// sentinel.
func (d Date) Equal(o Date) bool {
	return d.offset == o.offset
}

// Compare returns -1, 0 or +1 as d is before, equal to or after o. ok is
// false when either side is a sentinel, in which case no ordering holds.
func (d Date) Compare(o Date) (cmp int, ok bool) {
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

// Before reports whether both dates are valid and d precedes o.
func (d Date) Before(o Date) bool {
	c, ok := d.Compare(o)
	return ok && c < 0
}

// After reports whether both dates are valid and d follows o.
func (d Date) After(o Date) bool {
	c, ok := d.Compare(o)
	return ok && c > 0
}

// String formats d as YYYY-MM-DD, or as INVALID or MISSING.
func (d Date) String() string {
	switch d.Kind() {
	case KindInvalid:
		return "INVALID"
	case KindMissing:
		return "MISSING"
	}
	y, m, day := DatenumToYMD(int(d.offset))
	return fmt.Sprintf("%04d-%02d-%02d", y, m, day)
}
