package tempus

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, y, m, d int) Date {
	t.Helper()
	date, err := NewDate(y, m, d)
	require.NoError(t, err)
	return date
}

func TestDateArithmetic(t *testing.T) {
	d := mustDate(t, 1973, 12, 3)
	for _, tc := range []struct {
		days int
		exp  string
	}{
		{-100000, "1700-02-17"},
		{-10000, "1946-07-18"},
		{-1000, "1971-03-09"},
		{0, "1973-12-03"},
		{100, "1974-03-13"},
		{1000, "1976-08-29"},
		{10000, "2001-04-20"},
		{100000, "2247-09-18"},
		{1000000, "4711-10-31"},
		{2931464, "9999-12-31"},
		{2931465, "INVALID"},
		{-720594, "0001-01-01"},
		{-720595, "INVALID"},
		{1 << 40, "INVALID"},
		{-1 << 40, "INVALID"},
	} {
		r := d.Add(tc.days)
		require.Equal(t, tc.exp, r.String(), "%s + %d", d, tc.days)
		require.Equal(t, r, d.Sub(-tc.days), "%s - %d", d, -tc.days)
		if r.IsValid() {
			require.Equal(t, d, r.Sub(tc.days))
			n, err := r.Datenum()
			require.NoError(t, err)
			require.Equal(t, 720594+tc.days, n)
		}
	}
}

func TestDateBoundaries(t *testing.T) {
	n, err := DateMin.Datenum()
	require.NoError(t, err)
	require.Equal(t, 0, n)
	n, err = DateMax.Datenum()
	require.NoError(t, err)
	require.Equal(t, 3652058, n)

	require.Equal(t, DateMax, DateMin.Add(3652058))
	require.Equal(t, DateInvalid, DateMin.Add(3652059))
	require.Equal(t, DateInvalid, DateMin.Sub(1))
	require.Equal(t, DateMin, Date{})

	days, ok := DateMax.DaysSince(DateMin)
	require.True(t, ok)
	require.Equal(t, 3652058, days)
	days, ok = mustDate(t, 1973, 12, 3).DaysSince(mustDate(t, 1, 1, 1))
	require.True(t, ok)
	require.Equal(t, 720594, days)
}

func TestDateSentinels(t *testing.T) {
	d := mustDate(t, 2021, 3, 14)
	for _, s := range []Date{DateInvalid, DateMissing} {
		require.Equal(t, s, s.Add(1))
		require.Equal(t, s, s.Sub(1))
		require.Equal(t, s, s.Add(1<<40))
		require.Equal(t, s, s.Sub(1<<40))

		_, ok := s.DaysSince(d)
		require.False(t, ok)
		_, ok = d.DaysSince(s)
		require.False(t, ok)

		require.True(t, s.Equal(s))
		require.False(t, s.Equal(d))
		require.False(t, s.Before(d))
		require.False(t, s.After(d))
		require.False(t, d.Before(s))

		_, err := s.Datenum()
		require.True(t, errors.Is(err, ErrInvalidDate))
		_, err = s.Parts()
		require.True(t, errors.Is(err, ErrInvalidDate))
		_, err = s.Weekday()
		require.True(t, errors.Is(err, ErrInvalidDate))
	}
	_, ok := DateInvalid.DaysSince(DateMissing)
	require.False(t, ok)
	require.False(t, DateInvalid.Equal(DateMissing))

	require.Equal(t, KindInvalid, DateInvalid.Kind())
	require.Equal(t, KindMissing, DateMissing.Kind())
	require.Equal(t, "MISSING", DateMissing.String())
	require.Equal(t, DateInvalid, Invalid[Date]())
	require.Equal(t, DateMissing, Missing[Date]())
}

func TestDateOrdering(t *testing.T) {
	a, b := mustDate(t, 2020, 2, 29), mustDate(t, 2020, 3, 1)
	require.True(t, a.Before(b))
	require.True(t, b.After(a))
	c, ok := a.Compare(b)
	require.True(t, ok)
	require.Equal(t, -1, c)
	c, ok = a.Compare(a)
	require.True(t, ok)
	require.Equal(t, 0, c)
	_, ok = a.Compare(DateMissing)
	require.False(t, ok)
}

func TestDateParts(t *testing.T) {
	p, err := mustDate(t, 2010, 1, 3).Parts()
	require.NoError(t, err)
	exp := DateParts{
		Year: 2010, Month: 1, Day: 3, Ordinal: 3,
		WeekYear: 2009, Week: 53, Weekday: Sunday,
	}
	if diff := cmp.Diff(exp, p); diff != "" {
		t.Fatalf("unexpected parts (-want +got):\n%s", diff)
	}
	require.Equal(t, 20100103, p.YMDI())
}

func TestDateConstructors(t *testing.T) {
	exp := mustDate(t, 2004, 12, 31)

	d, err := DateFromDatenum(731945)
	require.NoError(t, err)
	require.Equal(t, exp, d)

	d, err = DateFromOrdinalDate(2004, 366)
	require.NoError(t, err)
	require.Equal(t, exp, d)

	d, err = DateFromWeekDate(2004, 53, Friday)
	require.NoError(t, err)
	require.Equal(t, exp, d)

	d, err = DateFromYMDI(20041231)
	require.NoError(t, err)
	require.Equal(t, exp, d)

	for _, f := range []func() (Date, error){
		func() (Date, error) { return NewDate(2021, 2, 29) },
		func() (Date, error) { return DateFromDatenum(-1) },
		func() (Date, error) { return DateFromDatenum(3652059) },
		func() (Date, error) { return DateFromOrdinalDate(2021, 0) },
		func() (Date, error) { return DateFromWeekDate(2021, 0, Monday) },
		func() (Date, error) { return DateFromYMDI(99991232) },
	} {
		d, err := f()
		require.True(t, errors.Is(err, ErrInvalidDate))
		require.Equal(t, DateInvalid, d)
	}

	require.Equal(t, DateMissing, DateFromRaw(DateMissing.Raw()))
	require.Equal(t, DateInvalid, DateFromRaw(DatenumMax+1))
	require.Equal(t, exp, DateFromRaw(exp.Raw()))
}
