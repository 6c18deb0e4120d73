package starlarktempus

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tempus"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

// Date is a Starlark representation of a calendar date.
type Date tempus.Date

var (
	_ starlark.HasAttrs   = Date{}
	_ starlark.HasBinary  = Date{}
	_ starlark.Comparable = Date{}
)

func (d Date) String() string { return tempus.Date(d).String() }

// Type returns "tempus.date".
func (d Date) Type() string { return "tempus.date" }

// Freeze is a no-op; dates are immutable.
func (d Date) Freeze() {}

func (d Date) Hash() (uint32, error) { return tempus.Date(d).Raw(), nil }

// Truth reports whether d is a valid date.
func (d Date) Truth() starlark.Bool { return starlark.Bool(tempus.Date(d).IsValid()) }

var dateAttrNames = sortedNames(kindAttrNames, []string{
	"datenum", "day", "month", "ordinal", "week", "week_year", "weekday", "year", "ymdi",
})

// Attr gets a value for a string attribute. Calendar fields of a sentinel
// are errors.
func (d Date) Attr(name string) (starlark.Value, error) {
	x := tempus.Date(d)
	if v, ok := kindAttr(x.Kind(), name); ok {
		return v, nil
	}
	switch name {
	case "datenum":
		n, err := x.Datenum()
		if err != nil {
			return nil, err
		}
		return starlark.MakeInt(n), nil
	case "ymdi":
		n, err := x.YMDI()
		if err != nil {
			return nil, err
		}
		return starlark.MakeInt(n), nil
	}
	var field func(tempus.DateParts) int
	switch name {
	case "year":
		field = func(p tempus.DateParts) int { return p.Year }
	case "month":
		field = func(p tempus.DateParts) int { return p.Month }
	case "day":
		field = func(p tempus.DateParts) int { return p.Day }
	case "ordinal":
		field = func(p tempus.DateParts) int { return p.Ordinal }
	case "week_year":
		field = func(p tempus.DateParts) int { return p.WeekYear }
	case "week":
		field = func(p tempus.DateParts) int { return p.Week }
	case "weekday":
		field = func(p tempus.DateParts) int { return int(p.Weekday) }
	default:
		return nil, nil
	}
	p, err := x.Parts()
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(field(p)), nil
}

func (d Date) AttrNames() []string { return dateAttrNames }

// CompareSameType compares two dates. Sentinels equal only themselves and
// are neither before nor after anything.
func (d Date) CompareSameType(op syntax.Token, yV starlark.Value, depth int) (bool, error) {
	x, y := tempus.Date(d), tempus.Date(yV.(Date))
	cmp, ok := x.Compare(y)
	return compare(op, x.Equal(y), cmp, ok), nil
}

// Binary implements binary operators:
//
//	date + int = date
//	int + date = date
//	date - int = date
//	date - date = int, or None if either is a sentinel
func (d Date) Binary(op syntax.Token, yV starlark.Value, side starlark.Side) (starlark.Value, error) {
	x := tempus.Date(d)

	switch op {
	case syntax.PLUS:
		if y, ok := yV.(starlark.Int); ok {
			return Date(x.Add(asDays(y))), nil
		}
	case syntax.MINUS:
		switch y := yV.(type) {
		case starlark.Int:
			if side == starlark.Right {
				return nil, unsupported(yV, op, d)
			}
			return Date(x.Sub(asDays(y))), nil
		case Date:
			a, b := x, tempus.Date(y)
			if side == starlark.Right {
				a, b = b, a
			}
			days, ok := a.DaysSince(b)
			if !ok {
				return starlark.None, nil
			}
			return starlark.MakeInt(days), nil
		}
	}
	return nil, nil
}

// Daytime is a Starlark representation of a time of day.
type Daytime tempus.Daytime

var (
	_ starlark.HasAttrs   = Daytime{}
	_ starlark.Comparable = Daytime{}
)

func (d Daytime) String() string { return tempus.Daytime(d).String() }

// Type returns "tempus.daytime".
func (d Daytime) Type() string { return "tempus.daytime" }

func (d Daytime) Freeze() {}

func (d Daytime) Hash() (uint32, error) {
	raw := tempus.Daytime(d).Raw()
	return uint32(raw) ^ uint32(raw>>32), nil
}

func (d Daytime) Truth() starlark.Bool { return starlark.Bool(tempus.Daytime(d).IsValid()) }

var daytimeAttrNames = sortedNames(kindAttrNames, []string{
	"daytick", "hour", "minute", "second", "ssm",
})

func (d Daytime) Attr(name string) (starlark.Value, error) {
	x := tempus.Daytime(d)
	if v, ok := kindAttr(x.Kind(), name); ok {
		return v, nil
	}
	switch name {
	case "daytick":
		n, err := x.Daytick()
		if err != nil {
			return nil, err
		}
		return starlark.MakeUint64(n), nil
	case "ssm":
		s, err := x.SSM()
		if err != nil {
			return nil, err
		}
		return starlark.Float(s), nil
	case "hour", "minute", "second":
		p, err := x.Parts()
		if err != nil {
			return nil, err
		}
		switch name {
		case "hour":
			return starlark.MakeInt(p.Hour), nil
		case "minute":
			return starlark.MakeInt(p.Minute), nil
		}
		return starlark.Float(p.Second), nil
	}
	return nil, nil
}

func (d Daytime) AttrNames() []string { return daytimeAttrNames }

func (d Daytime) CompareSameType(op syntax.Token, yV starlark.Value, depth int) (bool, error) {
	x, y := tempus.Daytime(d), tempus.Daytime(yV.(Daytime))
	cmp, ok := x.Compare(y)
	return compare(op, x.Equal(y), cmp, ok), nil
}

// Time is a Starlark representation of an instant.
type Time tempus.Time

var (
	_ starlark.HasAttrs   = Time{}
	_ starlark.HasBinary  = Time{}
	_ starlark.Comparable = Time{}
)

func (t Time) String() string { return tempus.Time(t).String() }

// Type returns "tempus.time".
func (t Time) Type() string { return "tempus.time" }

func (t Time) Freeze() {}

func (t Time) Hash() (uint32, error) {
	raw := tempus.Time(t).Raw()
	return uint32(raw) ^ uint32(raw>>32), nil
}

func (t Time) Truth() starlark.Bool { return starlark.Bool(tempus.Time(t).IsValid()) }

// Attr gets a value for a string attribute: "offset" is the raw tick count
// and "seconds" counts from 0001-01-01T00:00:00Z.
func (t Time) Attr(name string) (starlark.Value, error) {
	x := tempus.Time(t)
	if v, ok := kindAttr(x.Kind(), name); ok {
		return v, nil
	}
	switch name {
	case "offset":
		o, err := x.Offset()
		if err != nil {
			return nil, err
		}
		return starlark.MakeUint64(o), nil
	case "seconds":
		s, err := x.Seconds()
		if err != nil {
			return nil, err
		}
		return starlark.Float(s), nil
	}
	return builtinAttr(t, name, timeMethods)
}

func (t Time) AttrNames() []string {
	return sortedNames(builtinAttrNames(timeMethods), kindAttrNames, []string{"offset", "seconds"})
}

func (t Time) CompareSameType(op syntax.Token, yV starlark.Value, depth int) (bool, error) {
	x, y := tempus.Time(t), tempus.Time(yV.(Time))
	cmp, ok := x.Compare(y)
	return compare(op, x.Equal(y), cmp, ok), nil
}

// Binary implements binary operators:
//
//	time + number = time
//	number + time = time
//	time - number = time
//	time - time = float seconds, or None if either is a sentinel
//
// Results outside the representable range are errors.
func (t Time) Binary(op syntax.Token, yV starlark.Value, side starlark.Side) (starlark.Value, error) {
	x := tempus.Time(t)

	switch op {
	case syntax.PLUS:
		if s, ok := asSeconds(yV); ok {
			r, err := x.Add(s)
			if err != nil {
				return nil, err
			}
			return Time(r), nil
		}
	case syntax.MINUS:
		if s, ok := asSeconds(yV); ok {
			if side == starlark.Right {
				return nil, unsupported(yV, op, t)
			}
			r, err := x.Add(-s)
			if err != nil {
				return nil, err
			}
			return Time(r), nil
		}
		if y, ok := yV.(Time); ok {
			a, b := x, tempus.Time(y)
			if side == starlark.Right {
				a, b = b, a
			}
			s, ok := a.Sub(b)
			if !ok {
				return starlark.None, nil
			}
			return starlark.Float(s), nil
		}
	}
	return nil, nil
}

var timeMethods = map[string]builtinMethod{
	"to_local": timeToLocal,
	"format":   timeFormat,
}

// timeToLocal returns a struct with the date, daytime and zone parts shown
// by a zone's wall clock at the receiver.
func timeToLocal(thread *starlark.Thread, fnname string, recV starlark.Value, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	zone := zoneArg{resolver: zones(thread)}
	if err := starlark.UnpackPositionalArgs(fnname, args, kwargs, 1, &zone); err != nil {
		return nil, err
	}
	lt := tempus.ToLocal(tempus.Time(recV.(Time)), zone.tz)
	return starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{
		"date":         Date(lt.Date),
		"daytime":      Daytime(lt.Daytime),
		"offset":       starlark.MakeInt(lt.Zone.Offset),
		"abbreviation": starlark.String(lt.Zone.Abbreviation),
		"dst":          starlark.Bool(lt.Zone.IsDST),
	}), nil
}

// timeFormat renders the receiver in ISO style on a zone's wall clock.
func timeFormat(thread *starlark.Thread, fnname string, recV starlark.Value, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		zone        = zoneArg{resolver: zones(thread), tz: tempus.UTC}
		includeZone = true
	)
	if err := starlark.UnpackArgs(fnname, args, kwargs, "zone?", &zone, "include_zone?", &includeZone); err != nil {
		return nil, err
	}
	ds := tempus.DateStyle{Order: tempus.OrderYMD, Style: tempus.StyleISO}
	return starlark.String(tempus.Format(ds, tempus.Time(recV.(Time)), zone.tz, includeZone)), nil
}

// TimeZone is a Starlark representation of a resolved time zone.
type TimeZone struct {
	tz tempus.TimeZone
}

var _ starlark.HasAttrs = TimeZone{}

func (z TimeZone) String() string { return z.tz.Name() }

// Type returns "tempus.time_zone".
func (z TimeZone) Type() string { return "tempus.time_zone" }

func (z TimeZone) Freeze() {}

func (z TimeZone) Hash() (uint32, error) { return starlark.String(z.tz.Name()).Hash() }

func (z TimeZone) Truth() starlark.Bool { return true }

func (z TimeZone) Attr(name string) (starlark.Value, error) {
	if name == "name" {
		return starlark.String(z.tz.Name()), nil
	}
	return builtinAttr(z, name, zoneMethods)
}

func (z TimeZone) AttrNames() []string {
	return append(builtinAttrNames(zoneMethods), "name")
}

var zoneMethods = map[string]builtinMethod{
	"at": zoneAt,
}

// zoneAt returns the offset in seconds east of UTC in effect at an instant.
func zoneAt(_ *starlark.Thread, fnname string, recV starlark.Value, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var t Time
	if err := starlark.UnpackPositionalArgs(fnname, args, kwargs, 1, &t); err != nil {
		return nil, err
	}
	if !tempus.Time(t).IsValid() {
		return nil, errors.Newf("%s: %s has no offset", fnname, t)
	}
	lt := tempus.ToLocal(tempus.Time(t), recV.(TimeZone).tz)
	return starlark.MakeInt(lt.Zone.Offset), nil
}
