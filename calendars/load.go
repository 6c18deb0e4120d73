package calendars

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tempus"
	"gopkg.in/yaml.v3"
)

const dateFormat = "%Y-%m-%d"

// Loader reads holiday calendars. The zero value is ready to use and logs
// nothing.
type Loader struct {
	// Logger receives a Debug record for each calendar loaded.
	Logger *slog.Logger
}

// Parse reads a holiday calendar in the line format with the zero Loader.
func Parse(r io.Reader) (*Holidays, error) {
	return Loader{}.Parse(r)
}

// LoadYAML reads a holiday calendar in YAML with the zero Loader.
func LoadYAML(r io.Reader) (*Holidays, error) {
	return Loader{}.LoadYAML(r)
}

type holiday struct {
	date tempus.Date
	line int
}

// Parse reads a holiday calendar in the line format:
//
//	# U.S. holidays for the year 2010.
//	MIN 2010-01-01
//	MAX 2011-01-01
//
//	2010-01-01 New Year's Day
//	2010-01-18 Birthday of Martin Luther King, Jr.
//
// Surrounding whitespace and blank lines are ignored, as are lines starting
// with '#'. MIN and MAX give the range, MAX being the first date after it;
// each bound defaults to the extreme holiday. Every other line starts with a
// holiday; the rest of the line names it and is ignored.
func (l Loader) Parse(r io.Reader) (*Holidays, error) {
	var (
		min, max *tempus.Date
		holidays []holiday
	)
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "MIN", "MAX":
			if len(fields) != 2 {
				return nil, errors.Newf("line %d: expected %s <date>", n, fields[0])
			}
			d, err := tempus.ParseDate(dateFormat, fields[1])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", n)
			}
			if fields[0] == "MIN" {
				min = &d
			} else {
				d = d.Sub(1)
				max = &d
			}
		default:
			d, err := tempus.ParseDate(dateFormat, fields[0])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", n)
			}
			holidays = append(holidays, holiday{date: d, line: n})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading holiday calendar")
	}
	return l.build(min, max, holidays)
}

type yamlDate struct {
	tempus.Date
	line int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *yamlDate) UnmarshalYAML(value *yaml.Node) error {
	date, err := tempus.ParseDate(dateFormat, value.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", value.Line)
	}
	d.Date, d.line = date, value.Line
	return nil
}

type yamlCalendar struct {
	Min      *yamlDate `yaml:"min"`
	Max      *yamlDate `yaml:"max"`
	Holidays []struct {
		Date yamlDate `yaml:"date"`
		Name string   `yaml:"name"`
	} `yaml:"holidays"`
}

// LoadYAML reads a holiday calendar from a YAML document of the form
//
//	min: 2010-01-01
//	max: 2011-01-01
//	holidays:
//	  - date: 2010-01-01
//	    name: New Year's Day
//
// with the same meaning of min and max as in the line format.
func (l Loader) LoadYAML(r io.Reader) (*Holidays, error) {
	var doc yamlCalendar
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding holiday calendar")
	}
	var min, max *tempus.Date
	if doc.Min != nil {
		min = &doc.Min.Date
	}
	if doc.Max != nil {
		d := doc.Max.Date.Sub(1)
		max = &d
	}
	holidays := make([]holiday, len(doc.Holidays))
	for i, h := range doc.Holidays {
		holidays[i] = holiday{date: h.Date.Date, line: h.Date.line}
	}
	return l.build(min, max, holidays)
}

func (l Loader) build(min, max *tempus.Date, holidays []holiday) (*Holidays, error) {
	if (min == nil || max == nil) && len(holidays) == 0 {
		return nil, errors.New("holiday calendar has no range and no holidays")
	}
	lo, hi := tempus.DateMax, tempus.DateMin
	for _, h := range holidays {
		if h.date.Before(lo) {
			lo = h.date
		}
		if h.date.After(hi) {
			hi = h.date
		}
	}
	if min != nil {
		lo = *min
	}
	if max != nil {
		hi = *max
	}
	cal, err := NewHolidays(lo, hi)
	if err != nil {
		return nil, err
	}
	for _, h := range holidays {
		if err := cal.Add(h.date); err != nil {
			return nil, errors.Wrapf(err, "line %d", h.line)
		}
	}
	logger := l.Logger
	if logger == nil {
		return cal, nil
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, "loaded holiday calendar",
		slog.String("min", lo.String()), slog.String("max", hi.String()), slog.Int("holidays", cal.Len()))
	return cal, nil
}
