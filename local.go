package tempus

import (
	"math/big"

	"github.com/cockroachdb/errors"
)

// Ambiguity selects among the instants that a local date and daytime denote
// when a zone transition repeats it.
type Ambiguity uint8

//go:generate stringer -type=Ambiguity -trimprefix=Ambiguity

const (
	// AmbiguityEarliest picks the earliest instant.
	AmbiguityEarliest Ambiguity = iota
	// AmbiguityLatest picks the latest instant.
	AmbiguityLatest
)

// LocalTime is an instant decomposed against a time zone.
type LocalTime struct {
	Date    Date
	Daytime Daytime
	Zone    ZoneParts
}

// TimeFromLocal returns the instant of variant T at which the wall clock of
// tz shows date and daytime.
//
// The offset is resolved at the candidate instant itself, so zones whose
// offset changes over time are honored. A local time repeated by a backward
// transition is resolved by amb; one skipped by a forward transition fails
// with ErrNonexistentLocalTime. If either input is a sentinel, the result is
// the corresponding sentinel, INVALID taking precedence.
func TimeFromLocal[T TimeType[T]](date Date, daytime AnyDaytime, tz TimeZone, amb Ambiguity) (T, error) {
	var zero T
	dk, tk := date.Kind(), daytime.Kind()
	switch {
	case dk == KindInvalid || tk == KindInvalid:
		return zero.withKind(KindInvalid), nil
	case dk == KindMissing || tk == KindMissing:
		return zero.withKind(KindMissing), nil
	}
	datenum, _ := date.Datenum()
	daytick, _ := daytime.Daytick()
	e, err := resolveLocal(datenum, daytick, tz, amb)
	if err != nil {
		return zero.withKind(KindInvalid), errors.Wrapf(err, "%s %s in %s", date, daytime, tz.Name())
	}
	t, ok := zero.fromExact(e)
	if !ok {
		return t, newRangeError("local", zero.ElementType().Name, date.String()+"T"+daytime.String())
	}
	return t, nil
}

// resolveLocal returns the exact instant of a local datenum and daytick in
// tz. Any offset in force at that instant must also be in force within a day
// of the local reading, so the candidates are the offsets a day either side
// and at the reading itself.
func resolveLocal(datenum int, daytick uint64, tz TimeZone, amb Ambiguity) (*big.Int, error) {
	local := unixSeconds(joinExact(datenum, daytick, 0))
	var (
		best  int
		found bool
	)
	for _, at := range [...]int64{local - 86400, local, local + 86400} {
		o := tz.At(at).Offset
		if tz.At(local-int64(o)).Offset != o {
			continue
		}
		// A larger offset is an earlier instant.
		if !found || (amb == AmbiguityEarliest && o > best) || (amb == AmbiguityLatest && o < best) {
			best, found = o, true
		}
	}
	if !found {
		return nil, ErrNonexistentLocalTime
	}
	return joinExact(datenum, daytick, best), nil
}

// TimeFromParts returns the instant of variant T for the given calendar
// fields read on the wall clock of tz, resolving repeated local times to the
// earliest instant.
func TimeFromParts[T TimeType[T]](
	year, month, day, hour, minute int, second float64, tz TimeZone,
) (T, error) {
	var zero T
	date, err := NewDate(year, month, day)
	if err != nil {
		return zero.withKind(KindInvalid), err
	}
	daytime, err := NewDaytime(hour, minute, second)
	if err != nil {
		return zero.withKind(KindInvalid), err
	}
	return TimeFromLocal[T](date, daytime, tz, AmbiguityEarliest)
}

// ToLocal decomposes t into the date and daytime shown by the wall clock of
// tz. A sentinel t yields sentinel parts. A valid instant whose local date
// falls outside 0001-01-01 through 9999-12-31 yields an invalid date.
func ToLocal(t AnyTime, tz TimeZone) LocalTime {
	if k := t.Kind(); k != KindValid {
		return LocalTime{Date: DateInvalid.withKind(k), Daytime: DaytimeInvalid.withKind(k)}
	}
	e := t.exact()
	zone := tz.At(unixSeconds(e))
	datenum, daytick := splitExact(e.Add(e, joinExact(0, 0, -zone.Offset)))
	lt := LocalTime{Daytime: Daytime{offset: daytick}, Zone: zone}
	if datenum < DatenumMin || datenum > DatenumMax {
		lt.Date = DateInvalid
	} else {
		lt.Date = Date{offset: uint32(datenum)}
	}
	return lt
}
