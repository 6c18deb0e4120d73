package calendars

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tempus"
)

// ErrOutOfRange is returned when adding or removing a date outside the range
// of a holiday calendar.
var ErrOutOfRange = errors.New("date out of calendar range")

// Holidays is a calendar of explicitly listed dates within a fixed range.
// It is not safe for concurrent modification.
type Holidays struct {
	min  tempus.Date
	days []bool
}

var _ Calendar = (*Holidays)(nil)

// NewHolidays returns an empty holiday calendar over [min, max].
func NewHolidays(min, max tempus.Date) (*Holidays, error) {
	n, ok := max.DaysSince(min)
	if !ok || n < 0 {
		return nil, errors.Newf("invalid calendar range %s to %s", min, max)
	}
	return &Holidays{min: min, days: make([]bool, n+1)}, nil
}

// Range implements Calendar.
func (h *Holidays) Range() (min, max tempus.Date) {
	return h.min, h.min.Add(len(h.days) - 1)
}

func (h *Holidays) index(d tempus.Date) (int, bool) {
	i, ok := d.DaysSince(h.min)
	return i, ok && 0 <= i && i < len(h.days)
}

// Contains implements Calendar.
func (h *Holidays) Contains(d tempus.Date) bool {
	i, ok := h.index(d)
	return ok && h.days[i]
}

func (h *Holidays) set(d tempus.Date, holiday bool) error {
	i, ok := h.index(d)
	if !ok {
		min, max := h.Range()
		return errors.Wrapf(ErrOutOfRange, "%s not in %s to %s", d, min, max)
	}
	h.days[i] = holiday
	return nil
}

// Add marks d as a holiday.
func (h *Holidays) Add(d tempus.Date) error {
	return h.set(d, true)
}

// Remove unmarks d.
func (h *Holidays) Remove(d tempus.Date) error {
	return h.set(d, false)
}

// Len returns the number of holidays.
func (h *Holidays) Len() int {
	n := 0
	for _, b := range h.days {
		if b {
			n++
		}
	}
	return n
}
