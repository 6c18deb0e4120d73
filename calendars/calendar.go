// Package calendars provides sets of dates, such as business days, and
// navigation over them.
package calendars

import "github.com/cockroachdb/tempus"

// Calendar is a set of dates defined over an inclusive range.
type Calendar interface {
	// Range returns the first and last dates over which the calendar is
	// defined.
	Range() (min, max tempus.Date)
	// Contains reports whether d is in the calendar. It is false for dates
	// outside the range and for sentinels.
	Contains(d tempus.Date) bool
}

func inRange(cal Calendar, d tempus.Date) bool {
	min, max := cal.Range()
	return d.IsValid() && !d.Before(min) && !d.After(max)
}

// step moves d by one day in direction dir until cal contains it. It yields
// INVALID on leaving the calendar's range.
func step(cal Calendar, d tempus.Date, dir int) tempus.Date {
	for inRange(cal, d) {
		if cal.Contains(d) {
			return d
		}
		d = d.Add(dir)
	}
	return tempus.DateInvalid
}

// Before returns the latest date in cal on or before d. Sentinels are
// returned unchanged.
func Before(cal Calendar, d tempus.Date) tempus.Date {
	if !d.IsValid() {
		return d
	}
	return step(cal, d, -1)
}

// After returns the earliest date in cal on or after d.
func After(cal Calendar, d tempus.Date) tempus.Date {
	if !d.IsValid() {
		return d
	}
	return step(cal, d, 1)
}

// Prev returns the latest date in cal strictly before d.
func Prev(cal Calendar, d tempus.Date) tempus.Date {
	if !d.IsValid() {
		return d
	}
	return step(cal, d.Sub(1), -1)
}

// Next returns the earliest date in cal strictly after d.
func Next(cal Calendar, d tempus.Date) tempus.Date {
	if !d.IsValid() {
		return d
	}
	return step(cal, d.Add(1), 1)
}

// Shift moves d by n dates of cal, forward for positive n. d itself need not
// be in cal. Leaving the calendar's range yields INVALID.
func Shift(cal Calendar, d tempus.Date, n int) tempus.Date {
	if !d.IsValid() {
		return d
	}
	if _, ok := cal.(allCalendar); ok {
		return d.Add(n)
	}
	for ; n > 0; n-- {
		if d = Next(cal, d); !d.IsValid() {
			return d
		}
	}
	for ; n < 0; n++ {
		if d = Prev(cal, d); !d.IsValid() {
			return d
		}
	}
	return d
}

type allCalendar struct{}

// All contains every valid date.
var All Calendar = allCalendar{}

func (allCalendar) Range() (min, max tempus.Date) { return tempus.DateMin, tempus.DateMax }
func (allCalendar) Contains(d tempus.Date) bool    { return d.IsValid() }

type weekdaysCalendar struct {
	mask [7]bool
}

// Weekdays returns the calendar of dates falling on any of the given
// weekdays.
func Weekdays(weekdays ...tempus.Weekday) Calendar {
	var c weekdaysCalendar
	for _, w := range weekdays {
		if 0 <= w && int(w) < len(c.mask) {
			c.mask[w] = true
		}
	}
	return c
}

func (weekdaysCalendar) Range() (min, max tempus.Date) { return tempus.DateMin, tempus.DateMax }

func (c weekdaysCalendar) Contains(d tempus.Date) bool {
	w, err := d.Weekday()
	return err == nil && c.mask[w]
}

type notCalendar struct {
	cal Calendar
}

// Not returns the dates in the range of cal that cal does not contain.
func Not(cal Calendar) Calendar {
	return notCalendar{cal: cal}
}

func (c notCalendar) Range() (min, max tempus.Date) { return c.cal.Range() }

func (c notCalendar) Contains(d tempus.Date) bool {
	return inRange(c.cal, d) && !c.cal.Contains(d)
}

// commonRange returns the intersection of the ranges of a and b.
func commonRange(a, b Calendar) (min, max tempus.Date) {
	amin, amax := a.Range()
	bmin, bmax := b.Range()
	min, max = amin, amax
	if bmin.After(min) {
		min = bmin
	}
	if bmax.Before(max) {
		max = bmax
	}
	return min, max
}

type unionCalendar struct {
	a, b Calendar
}

// Union returns the dates in either calendar, over the range common to both.
func Union(a, b Calendar) Calendar {
	return unionCalendar{a: a, b: b}
}

func (c unionCalendar) Range() (min, max tempus.Date) { return commonRange(c.a, c.b) }

func (c unionCalendar) Contains(d tempus.Date) bool {
	return inRange(c, d) && (c.a.Contains(d) || c.b.Contains(d))
}

type intersectionCalendar struct {
	a, b Calendar
}

// Intersection returns the dates in both calendars.
func Intersection(a, b Calendar) Calendar {
	return intersectionCalendar{a: a, b: b}
}

func (c intersectionCalendar) Range() (min, max tempus.Date) { return commonRange(c.a, c.b) }

func (c intersectionCalendar) Contains(d tempus.Date) bool {
	return c.a.Contains(d) && c.b.Contains(d)
}

// Workdays returns the dates falling on the given weekdays that are not
// holidays, over the range of holidays.
func Workdays(weekdays []tempus.Weekday, holidays Calendar) Calendar {
	return Intersection(Weekdays(weekdays...), Not(holidays))
}
