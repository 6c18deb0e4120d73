package tempus

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	// The embedded database makes zone resolution independent of the host.
	_ "time/tzdata"
)

// ZoneParts describes a zone's rules in force at an instant.
type ZoneParts struct {
	// Offset is the UTC offset in seconds, east positive.
	Offset       int
	Abbreviation string
	IsDST        bool
}

// TimeZone maps an instant to the offset in force at it.
type TimeZone interface {
	Name() string
	// At returns the zone rules in force at unixSeconds seconds since the
	// Unix epoch.
	At(unixSeconds int64) ZoneParts
}

// Resolver looks up time zones by identifier.
type Resolver interface {
	Resolve(name string) (TimeZone, error)
}

type fixedZone struct {
	name   string
	offset int
}

// FixedZone returns a zone with a constant offset in seconds east of UTC.
func FixedZone(name string, offset int) TimeZone {
	return fixedZone{name: name, offset: offset}
}

// UTC is the zone with offset zero.
var UTC = FixedZone("UTC", 0)

func (z fixedZone) Name() string { return z.name }

func (z fixedZone) At(int64) ZoneParts {
	return ZoneParts{Offset: z.offset, Abbreviation: z.name}
}

type locationZone struct {
	loc *time.Location
}

func (z locationZone) Name() string { return z.loc.String() }

func (z locationZone) At(unixSeconds int64) ZoneParts {
	t := time.Unix(unixSeconds, 0).In(z.loc)
	abbr, offset := t.Zone()
	return ZoneParts{Offset: offset, Abbreviation: abbr, IsDST: t.IsDST()}
}

// militaryOffsets holds the offsets in hours of the single-letter military
// zones. J denotes local time and is not a zone.
var militaryOffsets = func() map[byte]int {
	m := map[byte]int{'Z': 0}
	for i, c := range "ABCDEFGHIKLM" {
		m[byte(c)] = i + 1
	}
	for i, c := range "NOPQRSTUVWXY" {
		m[byte(c)] = -(i + 1)
	}
	return m
}()

// MilitaryZone returns the fixed zone of a military time zone letter. The
// letter is case-insensitive.
func MilitaryZone(letter byte) (TimeZone, bool) {
	if 'a' <= letter && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	h, ok := militaryOffsets[letter]
	if !ok {
		return nil, false
	}
	if h == 0 {
		return UTC, true
	}
	return FixedZone(string(letter), h*3600), true
}

// parseOffsetZone parses the literal zone names "UTC" and "Z" and the
// offsets "+HH", "+HHMM" and "+HH:MM", with either sign.
func parseOffsetZone(name string) (TimeZone, bool) {
	switch name {
	case "UTC", "Z", "z":
		return UTC, true
	}
	if len(name) < 3 || (name[0] != '+' && name[0] != '-') {
		return nil, false
	}
	digits := name[1:]
	switch {
	case len(digits) == 5 && digits[2] == ':':
		digits = digits[:2] + digits[3:]
	case len(digits) == 2 || len(digits) == 4:
	default:
		return nil, false
	}
	if len(digits) == 2 {
		digits += "00"
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return nil, false
	}
	h, m := n/100, n%100
	if h > 23 || m > 59 {
		return nil, false
	}
	offset := h*3600 + m*60
	if name[0] == '-' {
		offset = -offset
	}
	return FixedZone(name, offset), true
}

type offsetResolver struct{}

func (offsetResolver) Resolve(name string) (TimeZone, error) {
	if z, ok := parseOffsetZone(name); ok {
		return z, nil
	}
	return nil, &ZoneError{Name: name}
}

// OffsetResolver resolves only "UTC", "Z" and literal UTC offsets.
var OffsetResolver Resolver = offsetResolver{}

// ZoneDB resolves IANA zone names against the embedded tz database, as well
// as the names accepted by OffsetResolver. Resolved zones are cached for the
// lifetime of the ZoneDB. It is safe for concurrent use.
type ZoneDB struct {
	logger *slog.Logger
	cache  sync.Map // string -> TimeZone
}

var discardLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// NewZoneDB returns an empty ZoneDB. Debug records for zone loads go to
// logger; a nil logger discards them.
func NewZoneDB(logger *slog.Logger) *ZoneDB {
	if logger == nil {
		logger = discardLogger
	}
	return &ZoneDB{logger: logger}
}

// Resolve implements Resolver.
func (db *ZoneDB) Resolve(name string) (TimeZone, error) {
	if z, ok := db.cache.Load(name); ok {
		return z.(TimeZone), nil
	}
	z, err := db.load(name)
	if err != nil {
		db.logger.LogAttrs(context.Background(), slog.LevelDebug, "time zone lookup failed",
			slog.String("zone", name), slog.String("err", err.Error()))
		return nil, err
	}
	actual, _ := db.cache.LoadOrStore(name, z)
	return actual.(TimeZone), nil
}

func (db *ZoneDB) load(name string) (TimeZone, error) {
	if z, ok := parseOffsetZone(name); ok {
		return z, nil
	}
	// LoadLocation maps "" to UTC and "Local" to the host zone; neither is a
	// zone name here.
	if name == "" || name == "Local" || strings.ContainsAny(name, " \t") {
		return nil, &ZoneError{Name: name}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &ZoneError{Name: name}
	}
	db.logger.LogAttrs(context.Background(), slog.LevelDebug, "loaded time zone", slog.String("zone", name))
	return locationZone{loc: loc}, nil
}
