package calendars

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tempus"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) tempus.Date {
	t.Helper()
	d, err := tempus.ParseDate("%Y-%m-%d", s)
	require.NoError(t, err)
	return d
}

func loadUS2010(t *testing.T) *Holidays {
	t.Helper()
	f, err := os.Open("testdata/us2010.txt")
	require.NoError(t, err)
	defer f.Close()
	h, err := Parse(f)
	require.NoError(t, err)
	return h
}

var weekdays = []tempus.Weekday{tempus.Monday, tempus.Tuesday, tempus.Wednesday, tempus.Thursday, tempus.Friday}

func TestParse(t *testing.T) {
	h := loadUS2010(t)
	min, max := h.Range()
	require.Equal(t, "2010-01-01", min.String())
	require.Equal(t, "2010-12-31", max.String())
	require.Equal(t, 11, h.Len())
	require.True(t, h.Contains(mustDate(t, "2010-07-05")))
	require.False(t, h.Contains(mustDate(t, "2010-07-06")))
	require.False(t, h.Contains(mustDate(t, "2011-01-01")))
	require.False(t, h.Contains(tempus.DateInvalid))
}

func TestParseInferredRange(t *testing.T) {
	h, err := Parse(strings.NewReader(`
		2020-12-25 Christmas Day
		2020-01-01 New Year's Day
	`))
	require.NoError(t, err)
	min, max := h.Range()
	require.Equal(t, "2020-01-01", min.String())
	require.Equal(t, "2020-12-25", max.String())
	require.Equal(t, 2, h.Len())
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		in  string
		err string
	}{
		{"MIN\n", "line 1: expected MIN <date>"},
		{"# comment\nMAX 2010-01-01 2011-01-01\n", "line 2: expected MAX <date>"},
		{"2010-02-30 Nonexistent\n", "line 1: error parsing datetime at index 0: 2010-02-30: invalid date"},
		{"", "holiday calendar has no range and no holidays"},
	} {
		_, err := Parse(strings.NewReader(tc.in))
		require.EqualError(t, err, tc.err)
	}

	_, err := Parse(strings.NewReader("MIN 2010-01-01\nMAX 2011-01-01\n2011-01-01 Too late\n"))
	require.True(t, errors.Is(err, ErrOutOfRange))
	require.Contains(t, err.Error(), "line 3")
}

func TestLoadYAML(t *testing.T) {
	f, err := os.Open("testdata/us2010.yaml")
	require.NoError(t, err)
	defer f.Close()
	h, err := LoadYAML(f)
	require.NoError(t, err)
	require.Equal(t, loadUS2010(t), h)

	_, err = LoadYAML(strings.NewReader("holidays:\n  - date: 2010-13-01\n"))
	require.True(t, errors.Is(err, tempus.ErrInvalidDate))
}

func TestLoaderLogs(t *testing.T) {
	var buf bytes.Buffer
	l := Loader{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	_, err := l.Parse(strings.NewReader("2010-01-01\n2010-12-31\n"))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "loaded holiday calendar")
	require.Contains(t, buf.String(), "holidays=2")
}

func TestHolidays(t *testing.T) {
	h, err := NewHolidays(mustDate(t, "2020-01-01"), mustDate(t, "2020-01-31"))
	require.NoError(t, err)
	d := mustDate(t, "2020-01-15")
	require.NoError(t, h.Add(d))
	require.True(t, h.Contains(d))
	require.NoError(t, h.Remove(d))
	require.False(t, h.Contains(d))
	require.Equal(t, 0, h.Len())

	err = h.Add(mustDate(t, "2020-02-01"))
	require.True(t, errors.Is(err, ErrOutOfRange))
	require.True(t, errors.Is(h.Add(tempus.DateMissing), ErrOutOfRange))

	_, err = NewHolidays(mustDate(t, "2020-01-31"), mustDate(t, "2020-01-01"))
	require.Error(t, err)
	_, err = NewHolidays(tempus.DateInvalid, mustDate(t, "2020-01-01"))
	require.Error(t, err)
}

func TestWorkdays(t *testing.T) {
	work := Workdays(weekdays, loadUS2010(t))
	for _, tc := range []struct {
		name string
		f    func(tempus.Date) tempus.Date
		in   string
		exp  string
	}{
		{"next over weekend and holiday", func(d tempus.Date) tempus.Date { return Next(work, d) }, "2010-07-02", "2010-07-06"},
		{"prev over holiday and weekend", func(d tempus.Date) tempus.Date { return Prev(work, d) }, "2010-07-06", "2010-07-02"},
		{"after workday", func(d tempus.Date) tempus.Date { return After(work, d) }, "2010-07-06", "2010-07-06"},
		{"after holiday", func(d tempus.Date) tempus.Date { return After(work, d) }, "2010-01-01", "2010-01-04"},
		{"before weekend", func(d tempus.Date) tempus.Date { return Before(work, d) }, "2010-01-10", "2010-01-08"},
		{"shift forward", func(d tempus.Date) tempus.Date { return Shift(work, d, 1) }, "2010-11-24", "2010-11-26"},
		{"shift over christmas", func(d tempus.Date) tempus.Date { return Shift(work, d, 1) }, "2010-12-23", "2010-12-27"},
		{"shift a week", func(d tempus.Date) tempus.Date { return Shift(work, d, 5) }, "2010-03-01", "2010-03-08"},
		{"shift back", func(d tempus.Date) tempus.Date { return Shift(work, d, -2) }, "2010-07-07", "2010-07-02"},
		{"shift zero", func(d tempus.Date) tempus.Date { return Shift(work, d, 0) }, "2010-07-03", "2010-07-03"},
		{"shift out of range", func(d tempus.Date) tempus.Date { return Shift(work, d, 1) }, "2010-12-30", "INVALID"},
		{"before out of range", func(d tempus.Date) tempus.Date { return Before(work, d) }, "2010-01-03", "INVALID"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.exp, tc.f(mustDate(t, tc.in)).String())
		})
	}

	require.Equal(t, tempus.DateMissing, Next(work, tempus.DateMissing))
	require.Equal(t, tempus.DateInvalid, Shift(work, tempus.DateInvalid, 3))
}

func TestAll(t *testing.T) {
	d := mustDate(t, "2010-07-05")
	require.True(t, All.Contains(d))
	require.False(t, All.Contains(tempus.DateMissing))
	require.Equal(t, d, Before(All, d))
	require.Equal(t, "2010-07-15", Shift(All, d, 10).String())
	require.Equal(t, "2010-07-04", Prev(All, d).String())
	require.Equal(t, tempus.DateInvalid, Next(All, tempus.DateMax))
	require.Equal(t, tempus.DateInvalid, Prev(All, tempus.DateMin))
}

func TestCombinators(t *testing.T) {
	holidays := loadUS2010(t)
	weekend := Weekdays(tempus.Saturday, tempus.Sunday)
	off := Union(weekend, holidays)

	min, max := off.Range()
	hmin, hmax := holidays.Range()
	require.Equal(t, hmin, min)
	require.Equal(t, hmax, max)

	for s, exp := range map[string]bool{
		"2010-07-03": true,
		"2010-07-05": true,
		"2010-07-06": false,
		"2011-01-01": false,
	} {
		require.Equal(t, exp, off.Contains(mustDate(t, s)), s)
	}

	not := Not(holidays)
	require.True(t, not.Contains(mustDate(t, "2010-07-06")))
	require.False(t, not.Contains(mustDate(t, "2010-07-05")))
	require.False(t, not.Contains(mustDate(t, "2009-12-31")))

	both := Intersection(weekend, holidays)
	require.False(t, both.Contains(mustDate(t, "2010-07-05")))
	require.False(t, both.Contains(mustDate(t, "2010-07-03")))
	require.Equal(t, "2010-07-05", Next(Not(weekend), mustDate(t, "2010-07-02")).String())
}
