// Package starlarktempus exposes tempus dates, daytimes and instants to
// Starlark scripts.
//
// Values behave like the Go types they wrap: sentinels propagate through
// arithmetic, out-of-range instants raise range errors, and comparisons
// involving a sentinel order nothing.
package starlarktempus

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tempus"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

// ModuleName defines the expected name for this Module when used in the
// starlark runtime.
const ModuleName = "tempus"

// Module tempus is a Starlark module of calendar and time functions.
var Module = &starlarkstruct.Module{
	Name: ModuleName,
	Members: starlark.StringDict{
		"date":              starlark.NewBuiltin("date", newDate),
		"date_from_datenum": starlark.NewBuiltin("date_from_datenum", dateFromDatenum),
		"daytime":           starlark.NewBuiltin("daytime", newDaytime),
		"daytime_from_ssm":  starlark.NewBuiltin("daytime_from_ssm", daytimeFromSSM),
		"time":              starlark.NewBuiltin("time", newTime),
		"from_local":        starlark.NewBuiltin("from_local", fromLocal),
		"parse_time":        starlark.NewBuiltin("parse_time", parseTime),
		"time_zone":         starlark.NewBuiltin("time_zone", timeZone),

		"DATE_MIN":     Date(tempus.DateMin),
		"DATE_MAX":     Date(tempus.DateMax),
		"DATE_INVALID": Date(tempus.DateInvalid),
		"DATE_MISSING": Date(tempus.DateMissing),

		"DAYTIME_MIN":     Daytime(tempus.DaytimeMin),
		"DAYTIME_MAX":     Daytime(tempus.DaytimeMax),
		"DAYTIME_INVALID": Daytime(tempus.DaytimeInvalid),
		"DAYTIME_MISSING": Daytime(tempus.DaytimeMissing),

		"TIME_MIN":     Time(tempus.TimeMin),
		"TIME_MAX":     Time(tempus.TimeMax),
		"TIME_INVALID": Time(tempus.TimeInvalid),
		"TIME_MISSING": Time(tempus.TimeMissing),

		"UTC": TimeZone{tempus.UTC},
	},
}

// LoadModule loads the tempus module.
// It is concurrency-safe and idempotent.
func LoadModule() (starlark.StringDict, error) {
	return starlark.StringDict{
		ModuleName: Module,
	}, nil
}

// defaultZones resolves zone names on threads without a resolver of their
// own.
var defaultZones tempus.Resolver = tempus.NewZoneDB(nil)

const zonesKey = "tempus.zones"

// SetZones sets the resolver for zone names passed to the module's builtins
// on thread. Threads without one share a process-wide ZoneDB.
func SetZones(thread *starlark.Thread, r tempus.Resolver) {
	thread.SetLocal(zonesKey, r)
}

// zones returns the resolver for thread.
func zones(thread *starlark.Thread) tempus.Resolver {
	if thread != nil {
		if r, ok := thread.Local(zonesKey).(tempus.Resolver); ok && r != nil {
			return r
		}
	}
	return defaultZones
}

func unsupported(x starlark.Value, op syntax.Token, y starlark.Value) error {
	return errors.Wrapf(tempus.ErrUnsupportedOperand, "%s %s %s", x.Type(), op, y.Type())
}

// seconds unpacks an int or float argument.
type seconds float64

var _ starlark.Unpacker = (*seconds)(nil)

func (s *seconds) Unpack(v starlark.Value) error {
	f, ok := starlark.AsFloat(v)
	if !ok {
		return errors.Newf("got %s, want int or float", v.Type())
	}
	*s = seconds(f)
	return nil
}

func asSeconds(v starlark.Value) (float64, bool) {
	switch v.(type) {
	case starlark.Int, starlark.Float:
		return starlark.AsFloat(v)
	}
	return 0, false
}

// asDays converts a day count, saturating counts that leave every date
// range.
func asDays(v starlark.Int) int {
	i, ok := v.Int64()
	if !ok || i > math.MaxInt32 || i < -math.MaxInt32 {
		return math.MaxInt32
	}
	return int(i)
}

// zoneArg unpacks a zone name or a time_zone value. Names resolve through
// resolver.
type zoneArg struct {
	resolver tempus.Resolver
	tz       tempus.TimeZone
}

var _ starlark.Unpacker = (*zoneArg)(nil)

func (z *zoneArg) Unpack(v starlark.Value) error {
	switch x := v.(type) {
	case TimeZone:
		z.tz = x.tz
		return nil
	case starlark.String:
		r := z.resolver
		if r == nil {
			r = defaultZones
		}
		tz, err := r.Resolve(string(x))
		if err != nil {
			return err
		}
		z.tz = tz
		return nil
	}
	return errors.Newf("got %s, want string or %s", v.Type(), TimeZone{}.Type())
}

func ambiguity(first bool) tempus.Ambiguity {
	if first {
		return tempus.AmbiguityEarliest
	}
	return tempus.AmbiguityLatest
}

func newDate(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var year, month, day int
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "year", &year, "month", &month, "day", &day); err != nil {
		return nil, err
	}
	d, err := tempus.NewDate(year, month, day)
	if err != nil {
		return nil, err
	}
	return Date(d), nil
}

func dateFromDatenum(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var datenum int
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &datenum); err != nil {
		return nil, err
	}
	d, err := tempus.DateFromDatenum(datenum)
	if err != nil {
		return nil, err
	}
	return Date(d), nil
}

func newDaytime(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		hour, minute int
		second       seconds
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "hour", &hour, "minute", &minute, "second?", &second); err != nil {
		return nil, err
	}
	d, err := tempus.NewDaytime(hour, minute, float64(second))
	if err != nil {
		return nil, err
	}
	return Daytime(d), nil
}

func daytimeFromSSM(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var ssm seconds
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &ssm); err != nil {
		return nil, err
	}
	d, err := tempus.DaytimeFromSSM(float64(ssm))
	if err != nil {
		return nil, err
	}
	return Daytime(d), nil
}

func newTime(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		year, month, day, hour, minute int
		second                         seconds
		zone                           = zoneArg{tz: tempus.UTC}
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"year", &year, "month", &month, "day", &day,
		"hour?", &hour, "minute?", &minute, "second?", &second, "zone?", &zone,
	); err != nil {
		return nil, err
	}
	t, err := tempus.TimeFromParts[tempus.Time](year, month, day, hour, minute, float64(second), zone.tz)
	if err != nil {
		return nil, err
	}
	return Time(t), nil
}

func fromLocal(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		date    Date
		daytime Daytime
		zone    = zoneArg{resolver: zones(thread)}
		first   = true
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"date", &date, "daytime", &daytime, "zone", &zone, "first?", &first,
	); err != nil {
		return nil, err
	}
	t, err := tempus.TimeFromLocal[tempus.Time](tempus.Date(date), tempus.Daytime(daytime), zone.tz, ambiguity(first))
	if err != nil {
		return nil, err
	}
	return Time(t), nil
}

func parseTime(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		format, text string
		zone         starlark.Value = starlark.None
		first                       = true
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"format", &format, "text", &text, "zone?", &zone, "first?", &first,
	); err != nil {
		return nil, err
	}
	opts := tempus.ParseOptions{Resolver: zones(thread), Ambiguity: ambiguity(first)}
	if zone != starlark.None {
		z := zoneArg{resolver: opts.Resolver}
		if err := z.Unpack(zone); err != nil {
			return nil, errors.Wrapf(err, "%s: for parameter zone", b.Name())
		}
		opts.DefaultZone = z.tz
	}
	t, err := tempus.ParseTime(format, text, opts)
	if err != nil {
		return nil, err
	}
	return Time(t), nil
}

func timeZone(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	tz, err := zones(thread).Resolve(name)
	if err != nil {
		return nil, err
	}
	return TimeZone{tz}, nil
}

// kindAttr answers the attributes every value type shares.
func kindAttr(k tempus.Kind, name string) (starlark.Value, bool) {
	switch name {
	case "valid":
		return starlark.Bool(k == tempus.KindValid), true
	case "invalid":
		return starlark.Bool(k == tempus.KindInvalid), true
	case "missing":
		return starlark.Bool(k == tempus.KindMissing), true
	}
	return nil, false
}

var kindAttrNames = []string{"invalid", "missing", "valid"}

func sortedNames(names ...[]string) []string {
	var all []string
	for _, n := range names {
		all = append(all, n...)
	}
	sort.Strings(all)
	return all
}

// compare applies op to an ordering that is absent when a sentinel is
// involved. Sentinels are equal only to themselves and order nothing.
func compare(op syntax.Token, equal bool, cmp int, ok bool) bool {
	switch op {
	case syntax.EQL:
		return equal
	case syntax.NEQ:
		return !equal
	}
	return ok && threeway(op, cmp)
}

type builtinMethod func(thread *starlark.Thread, fnname string, recv starlark.Value, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

func builtinAttr(recv starlark.Value, name string, methods map[string]builtinMethod) (starlark.Value, error) {
	method := methods[name]
	if method == nil {
		return nil, nil // no such method
	}

	impl := func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return method(thread, b.Name(), b.Receiver(), args, kwargs)
	}
	return starlark.NewBuiltin(name, impl).BindReceiver(recv), nil
}

func builtinAttrNames(methods map[string]builtinMethod) []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// threeway interprets a three-way comparison value cmp (-1, 0, +1)
// as a boolean comparison (e.g. x < y).
func threeway(op syntax.Token, cmp int) bool {
	switch op {
	case syntax.EQL:
		return cmp == 0
	case syntax.NEQ:
		return cmp != 0
	case syntax.LE:
		return cmp <= 0
	case syntax.LT:
		return cmp < 0
	case syntax.GE:
		return cmp >= 0
	case syntax.GT:
		return cmp > 0
	}
	panic(op)
}
