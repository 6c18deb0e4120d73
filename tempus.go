// Package tempus provides exact, range-checked calendar dates, times of day
// and absolute instants, and a format-driven parser that builds instants
// from text using time zone rules.
//
// Every value type has two sentinels besides its valid values: INVALID, the
// result of an undefined or out-of-range computation, and MISSING, an absent
// value. Sentinels propagate through arithmetic without raising errors.
package tempus

import (
	"bytes"
	"fmt"
	"strings"
)

// Order refers to the order of the date.
type Order uint8

//go:generate stringer -type=Order -trimprefix=Order

const (
	OrderMDY Order = iota
	OrderDMY
	OrderYMD
)

// Style refers to the style of the date.
type Style uint8

//go:generate stringer -type=Style -trimprefix=Style

const (
	StyleISO Style = iota
	StyleSQL
	StylePostgres
	StyleGerman
)

// DateStyle refers to an output style for dates and times, following the
// styles of PostgreSQL.
// See also: https://www.postgresql.org/docs/current/datatype-datetime.html#DATATYPE-DATETIME-OUTPUT
type DateStyle struct {
	Order Order
	Style Style

	// FixedZonePrefix is set if we should ignore printing out the shorthand
	// timezone if it begins with this prefix.
	// Leave blank to always output timezone name.
	FixedZonePrefix string
}

var shortWeekdayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var shortMonthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// writeNumericDate writes the date with the given separator in ds.Order.
func writeNumericDate(buf *bytes.Buffer, ds DateStyle, p DateParts, sep byte) {
	switch ds.Order {
	case OrderYMD:
		fmt.Fprintf(buf, "%04d%c%02d%c%02d", p.Year, sep, p.Month, sep, p.Day)
	case OrderDMY:
		fmt.Fprintf(buf, "%02d%c%02d%c%04d", p.Day, sep, p.Month, sep, p.Year)
	default:
		fmt.Fprintf(buf, "%02d%c%02d%c%04d", p.Month, sep, p.Day, sep, p.Year)
	}
}

func writeDateToBuffer(buf *bytes.Buffer, ds DateStyle, p DateParts) {
	switch ds.Style {
	case StyleSQL:
		writeNumericDate(buf, ds, p, '/')
	case StyleGerman:
		// Always DMY for German.
		fmt.Fprintf(buf, "%02d.%02d.%04d", p.Day, p.Month, p.Year)
	case StylePostgres:
		if ds.Order == OrderYMD {
			// PostgreSQL falls back to MDY here.
			ds.Order = OrderMDY
		}
		writeNumericDate(buf, ds, p, '-')
	default:
		// Always YMD for ISO.
		fmt.Fprintf(buf, "%04d-%02d-%02d", p.Year, p.Month, p.Day)
	}
}

// writeTimeToBuffer writes a daytick rounded to the microsecond. A daytick
// that rounds up to midnight is written as the day's last microsecond.
func writeTimeToBuffer(buf *bytes.Buffer, daytick uint64) {
	const usecPerDay = 86400 * 1000000
	usec := mulDivRound(daytick, 1000000, DaytickPerSecond)
	if usec >= usecPerDay {
		usec = usecPerDay - 1
	}
	secs := usec / 1000000
	fmt.Fprintf(buf, "%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
	if frac := usec % 1000000; frac != 0 {
		buf.WriteString(strings.TrimRight(fmt.Sprintf(".%06d", frac), "0"))
	}
}

func writeTextTimeZoneToBuffer(buf *bytes.Buffer, ds DateStyle, z ZoneParts) {
	// Only write zone name if it exists.
	if ds.FixedZonePrefix == "" || !strings.HasPrefix(z.Abbreviation, ds.FixedZonePrefix) {
		buf.WriteRune(' ')
		buf.WriteString(z.Abbreviation)
	}
}

func writeOffsetToBuffer(buf *bytes.Buffer, offset int) {
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	buf.WriteByte(sign)
	fmt.Fprintf(buf, "%02d", offset/3600)
	// Only print the minute/second offset if it exists.
	switch {
	case offset%60 != 0:
		fmt.Fprintf(buf, ":%02d:%02d", offset/60%60, offset%60)
	case offset%3600 != 0:
		fmt.Fprintf(buf, ":%02d", offset/60%60)
	}
}

// WriteToBuffer writes the given local time into the given buffer.
func WriteToBuffer(buf *bytes.Buffer, ds DateStyle, lt LocalTime, includeTimeZone bool) {
	p, err := lt.Date.Parts()
	if err != nil {
		buf.WriteString(lt.Date.String())
		return
	}
	daytick, err := lt.Daytime.Daytick()
	if err != nil {
		buf.WriteString(lt.Daytime.String())
		return
	}
	switch ds.Style {
	case StylePostgres:
		if ds.Order == OrderDMY {
			fmt.Fprintf(buf, "%s %02d %s ", shortWeekdayNames[p.Weekday], p.Day, shortMonthNames[p.Month-1])
		} else {
			fmt.Fprintf(buf, "%s %s %02d ", shortWeekdayNames[p.Weekday], shortMonthNames[p.Month-1], p.Day)
		}
		writeTimeToBuffer(buf, daytick)
		fmt.Fprintf(buf, " %04d", p.Year)
		if includeTimeZone {
			writeTextTimeZoneToBuffer(buf, ds, lt.Zone)
		}
	case StyleSQL, StyleGerman:
		writeDateToBuffer(buf, ds, p)
		buf.WriteByte(' ')
		writeTimeToBuffer(buf, daytick)
		if includeTimeZone {
			writeTextTimeZoneToBuffer(buf, ds, lt.Zone)
		}
	default:
		writeDateToBuffer(buf, ds, p)
		buf.WriteByte(' ')
		writeTimeToBuffer(buf, daytick)
		if includeTimeZone {
			writeOffsetToBuffer(buf, lt.Zone.Offset)
		}
	}
}

// Format formats t on the wall clock of tz in the given DateStyle.
func Format(ds DateStyle, t AnyTime, tz TimeZone, includeTimeZone bool) string {
	if t.Kind() != KindValid {
		return t.String()
	}
	var b bytes.Buffer
	WriteToBuffer(&b, ds, ToLocal(t, tz), includeTimeZone)
	return b.String()
}

// FormatDate formats d in the given DateStyle.
func FormatDate(ds DateStyle, d Date) string {
	p, err := d.Parts()
	if err != nil {
		return d.String()
	}
	var b bytes.Buffer
	writeDateToBuffer(&b, ds, p)
	return b.String()
}
