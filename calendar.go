package tempus

import "github.com/cockroachdb/errors"

// Weekday is a day of the week, numbered from Monday as in ISO 8601.
type Weekday int

//go:generate stringer -type=Weekday

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// ISO returns the ISO 8601 weekday number, 1 for Monday through 7 for Sunday.
func (w Weekday) ISO() int {
	return int(w) + 1
}

const (
	// DatenumMin is the datenum of 0001-01-01.
	DatenumMin = 0
	// DatenumMax is the datenum of 9999-12-31.
	DatenumMax = 3652058
	// DatenumUnixEpoch is the datenum of 1970-01-01.
	DatenumUnixEpoch = 719162

	minYear = 1
	maxYear = 9999

	daysPer400Years = 146097
	daysPer100Years = 36524
	daysPer4Years   = 1461
)

// daysBeforeMonth[m] is the number of days in a common year before month m+1.
var daysBeforeMonth = [13]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

// IsLeapYear reports whether year is a leap year in the proleptic Gregorian
// calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DaysInMonth returns the number of days in month (1-12) of year.
func DaysInMonth(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysBeforeMonth[month] - daysBeforeMonth[month-1]
}

func daysBeforeYear(year int) int {
	y := year - 1
	return 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400)
}

func daysBeforeMonthOf(year, month int) int {
	n := daysBeforeMonth[month-1]
	if month > 2 && IsLeapYear(year) {
		n++
	}
	return n
}

// YMDIsValid reports whether year, month and day name a date between
// 0001-01-01 and 9999-12-31.
func YMDIsValid(year, month, day int) bool {
	return minYear <= year && year <= maxYear &&
		1 <= month && month <= 12 &&
		1 <= day && day <= DaysInMonth(year, month)
}

// OrdinalDateIsValid reports whether ordinal is a day of year in year.
func OrdinalDateIsValid(year, ordinal int) bool {
	return minYear <= year && year <= maxYear && 1 <= ordinal && ordinal <= DaysInYear(year)
}

// WeekDateIsValid reports whether the ISO week date exists and lies in the
// supported range.
func WeekDateIsValid(weekYear, week int, weekday Weekday) bool {
	if !(minYear <= weekYear && weekYear <= maxYear) || week < 1 || week > WeeksInYear(weekYear) {
		return false
	}
	if weekday < Monday || weekday > Sunday {
		return false
	}
	n := weekDateToDatenum(weekYear, week, weekday)
	return DatenumMin <= n && n <= DatenumMax
}

// YMDIIsValid reports whether ymdi is a valid YYYYMMDD-encoded date.
func YMDIIsValid(ymdi int) bool {
	return YMDIsValid(ymdi/10000, ymdi/100%100, ymdi%100)
}

func ymdToDatenum(year, month, day int) int {
	return daysBeforeYear(year) + daysBeforeMonthOf(year, month) + day - 1
}

// YMDToDatenum converts a calendar date to a datenum.
func YMDToDatenum(year, month, day int) (int, error) {
	if !YMDIsValid(year, month, day) {
		return 0, errors.Wrapf(ErrInvalidDate, "%04d-%02d-%02d", year, month, day)
	}
	return ymdToDatenum(year, month, day), nil
}

// DatenumToYMD converts a datenum to year, month and day. It is defined for
// any datenum, including ones outside the supported range.
func DatenumToYMD(datenum int) (year, month, day int) {
	year, ordinal := DatenumToOrdinal(datenum)
	ordinal--
	leap := IsLeapYear(year)
	if leap {
		switch {
		case ordinal == 31+28:
			return year, 2, 29
		case ordinal > 31+28:
			// Pretend the leap day wasn't there.
			ordinal--
		}
	}
	// Estimate assuming 31 days per month; the estimate is low by at most one.
	month = ordinal / 31
	if ordinal >= daysBeforeMonth[month+1] {
		month++
	}
	return year, month + 1, ordinal - daysBeforeMonth[month] + 1
}

// DatenumToOrdinal returns the year and the 1-based day of year for datenum.
func DatenumToOrdinal(datenum int) (year, ordinal int) {
	n := floorDiv(datenum, daysPer400Years)
	d := datenum - n*daysPer400Years
	year = 400*n + 1

	// The last century of a 400-year cycle has an extra leap day, so on its
	// last day d/daysPer100Years is 4 rather than 3.
	c := d / daysPer100Years
	if c == 4 {
		c = 3
	}
	d -= c * daysPer100Years
	year += 100 * c

	q := d / daysPer4Years
	d -= q * daysPer4Years
	year += 4 * q

	y := d / 365
	if y == 4 {
		y = 3
	}
	d -= 365 * y
	year += y

	return year, d + 1
}

// OrdinalDateToDatenum converts a year and 1-based day of year to a datenum.
func OrdinalDateToDatenum(year, ordinal int) (int, error) {
	if !OrdinalDateIsValid(year, ordinal) {
		return 0, errors.Wrapf(ErrInvalidDate, "%04d-%03d", year, ordinal)
	}
	return daysBeforeYear(year) + ordinal - 1, nil
}

// DatenumToWeekday returns the day of the week of datenum. 0001-01-01 was a
// Monday.
func DatenumToWeekday(datenum int) Weekday {
	return Weekday(floorMod(datenum, 7))
}

// DatenumToWeekDate returns the ISO 8601 week date of datenum. Week 1 is the
// week containing the year's first Thursday, so the week year may differ from
// the calendar year for days near January 1.
func DatenumToWeekDate(datenum int) (weekYear, week int, weekday Weekday) {
	weekday = DatenumToWeekday(datenum)
	// The Thursday of the same week decides the week year.
	thursday := datenum - int(weekday) + int(Thursday)
	weekYear, ordinal := DatenumToOrdinal(thursday)
	return weekYear, (ordinal-1)/7 + 1, weekday
}

// WeeksInYear returns the number of ISO weeks, 52 or 53, in weekYear.
func WeeksInYear(weekYear int) int {
	_, week, _ := DatenumToWeekDate(ymdToDatenum(weekYear, 12, 28))
	return week
}

func weekDateToDatenum(weekYear, week int, weekday Weekday) int {
	jan4 := ymdToDatenum(weekYear, 1, 4)
	monday := jan4 - int(DatenumToWeekday(jan4))
	return monday + (week-1)*7 + int(weekday)
}

// WeekDateToDatenum converts an ISO 8601 week date to a datenum.
func WeekDateToDatenum(weekYear, week int, weekday Weekday) (int, error) {
	if !WeekDateIsValid(weekYear, week, weekday) {
		return 0, errors.Wrapf(ErrInvalidDate, "%04d-W%02d-%d", weekYear, week, weekday.ISO())
	}
	return weekDateToDatenum(weekYear, week, weekday), nil
}

// YMDIToDatenum converts a YYYYMMDD-encoded date to a datenum.
func YMDIToDatenum(ymdi int) (int, error) {
	if !YMDIIsValid(ymdi) {
		return 0, errors.Wrapf(ErrInvalidDate, "%d", ymdi)
	}
	return ymdToDatenum(ymdi/10000, ymdi/100%100, ymdi%100), nil
}

// DatenumToYMDI returns datenum encoded as YYYYMMDD.
func DatenumToYMDI(datenum int) int {
	y, m, d := DatenumToYMD(datenum)
	return y*10000 + m*100 + d
}
