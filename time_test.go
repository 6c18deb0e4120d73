package tempus

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func mustTime[T TimeType[T]](
	t *testing.T, year, month, day, hour, minute int, second float64,
) T {
	t.Helper()
	r, err := TimeFromParts[T](year, month, day, hour, minute, second, UTC)
	require.NoError(t, err)
	return r
}

func TestTimeOffsets(t *testing.T) {
	tm := mustTime[Time](t, 2018, 2, 20, 22, 49, 42)
	require.Equal(t, "2018-02-20T22:49:42Z", tm.String())
	off, err := tm.Offset()
	require.NoError(t, err)
	require.Equal(t, uint64(4271798885598363648), off)

	u := mustTime[Unix64Time](t, 2018, 2, 20, 22, 49, 42)
	require.Equal(t, int64(1519166982), u.Raw())

	n := mustTime[NsecTime](t, 2018, 2, 20, 22, 49, 42)
	require.Equal(t, uint64(3728155782)<<30, n.Raw())

	tm2, err := TimeFromOffset(off)
	require.NoError(t, err)
	require.Equal(t, tm, tm2)

	u2, err := TimeFromOffsetOf[Unix32Time](1519166982)
	require.NoError(t, err)
	require.Equal(t, "2018-02-20T22:49:42Z", u2.String())

	_, err = TimeFromOffsetOf[SmallTime](-1)
	require.True(t, errors.Is(err, ErrRange))
	_, err = TimeFromOffsetOf[Unix32Time](uint64(math.MaxInt32))
	require.True(t, errors.Is(err, ErrRange))
}

func TestTimeRanges(t *testing.T) {
	for _, tc := range []struct {
		v        AnyTime
		min, max string
		den      uint64
	}{
		{Time{}, "0001-01-01T00:00:00Z", "8711-", 1 << 26},
		{NsecTime{}, "1900-01-01T00:00:00Z", "2444-", 1 << 30},
		{SmallTime{}, "1970-01-01T00:00:00Z", "2106-02-07T06:28:13Z", 1},
		{Unix32Time{}, "1901-12-13T20:45:52Z", "2038-01-19T03:14:05Z", 1},
		{Unix64Time{}, "0001-01-01T00:00:00Z", "9999-12-31T23:59:59Z", 1},
	} {
		t.Run(tc.v.ElementType().Name, func(t *testing.T) {
			var min, max AnyTime
			switch v := tc.v.(type) {
			case Time:
				min, max = v.Min(), v.Max()
			case NsecTime:
				min, max = v.Min(), v.Max()
			case SmallTime:
				min, max = v.Min(), v.Max()
			case Unix32Time:
				min, max = v.Min(), v.Max()
			case Unix64Time:
				min, max = v.Min(), v.Max()
			}
			require.Equal(t, tc.min, min.String())
			require.Contains(t, max.String(), tc.max)
			require.Equal(t, tc.den, tc.v.ElementType().Denominator)
			require.True(t, Less(min, max))
		})
	}
}

func TestTimeAdd(t *testing.T) {
	tm := mustTime[Time](t, 2018, 2, 20, 22, 49, 42)
	for _, tc := range []struct {
		seconds float64
		exp     string
	}{
		{0, "2018-02-20T22:49:42Z"},
		{0.5, "2018-02-20T22:49:42.5Z"},
		{-0.25, "2018-02-20T22:49:41.75Z"},
		{3600, "2018-02-20T23:49:42Z"},
		{-86400, "2018-02-19T22:49:42Z"},
		{86400 * 365, "2019-02-20T22:49:42Z"},
	} {
		r, err := tm.Add(tc.seconds)
		require.NoError(t, err)
		require.Equal(t, tc.exp, r.String(), "%g", tc.seconds)

		back, err := r.Add(-tc.seconds)
		require.NoError(t, err)
		require.Equal(t, tm, back)

		d, ok := r.Sub(tm)
		require.True(t, ok)
		require.Equal(t, tc.seconds, d)
	}

	// Whole-second variants round to the nearest second, halves away from
	// zero.
	s := mustTime[SmallTime](t, 2018, 2, 20, 22, 49, 42)
	r, err := s.Add(0.5)
	require.NoError(t, err)
	require.Equal(t, "2018-02-20T22:49:43Z", r.String())
	r, err = s.Add(-0.5)
	require.NoError(t, err)
	require.Equal(t, "2018-02-20T22:49:41Z", r.String())
	r, err = s.Add(0.49)
	require.NoError(t, err)
	require.Equal(t, s, r)
}

func TestTimeAddOutOfRange(t *testing.T) {
	for _, tc := range []struct {
		name string
		add  func() (AnyTime, error)
	}{
		{"max", func() (AnyTime, error) { return TimeMax.Add(1) }},
		{"min", func() (AnyTime, error) { return TimeMin.Add(-1) }},
		{"huge", func() (AnyTime, error) { return TimeMin.Add(1e300) }},
		{"nan", func() (AnyTime, error) { return TimeMin.Add(math.NaN()) }},
		{"inf", func() (AnyTime, error) { return TimeMin.Add(math.Inf(-1)) }},
		{"small", func() (AnyTime, error) { return SmallTime{}.Add(-1) }},
		{"unix32", func() (AnyTime, error) { return Unix32Time{}.Max().Add(1) }},
		{"unix64", func() (AnyTime, error) { return Unix64Time{}.Max().Add(1) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, err := tc.add()
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrRange))
			var re *RangeError
			require.True(t, errors.As(err, &re))
			require.Equal(t, "add", re.Op)
			require.Equal(t, KindInvalid, r.Kind())
		})
	}
}

func TestTimeSentinels(t *testing.T) {
	tm := mustTime[Time](t, 2018, 2, 20, 22, 49, 42)
	for _, s := range []Time{TimeInvalid, TimeMissing} {
		r, err := s.Add(1)
		require.NoError(t, err)
		require.Equal(t, s, r)
		r, err = s.Add(math.NaN())
		require.NoError(t, err)
		require.Equal(t, s, r)

		_, ok := s.Sub(tm)
		require.False(t, ok)
		_, ok = tm.Sub(s)
		require.False(t, ok)

		require.True(t, s.Equal(s))
		require.False(t, s.Equal(tm))
		require.False(t, s.Before(tm))
		require.False(t, tm.After(s))

		_, err = s.Offset()
		require.True(t, errors.Is(err, ErrInvalidTime))
		_, err = s.Seconds()
		require.True(t, errors.Is(err, ErrInvalidTime))
	}
	require.False(t, TimeInvalid.Equal(TimeMissing))
	require.Equal(t, "INVALID", TimeInvalid.String())
	require.Equal(t, "MISSING", Missing[Unix32Time]().String())
	require.Equal(t, Unix64Time{}.ElementType().Missing, uint64(Missing[Unix64Time]().Raw()))
}

func TestTimeSeconds(t *testing.T) {
	tm := mustTime[Unix32Time](t, 1970, 1, 1, 0, 0, 0)
	s, err := tm.Seconds()
	require.NoError(t, err)
	require.Equal(t, float64(DatenumUnixEpoch*86400), s)
}

func TestTimeStringFraction(t *testing.T) {
	require.Equal(t, "2018-02-20T22:49:42.1Z", mustTime[Time](t, 2018, 2, 20, 22, 49, 42.1).String())
	require.Equal(t, "2018-02-20T22:49:42.1Z", mustTime[NsecTime](t, 2018, 2, 20, 22, 49, 42.1).String())
	require.Equal(t, "2018-02-20T22:49:42.123456Z", mustTime[Time](t, 2018, 2, 20, 22, 49, 42.123456).String())
	require.Equal(t, "2018-02-20T22:49:42.999999Z", mustTime[NsecTime](t, 2018, 2, 20, 22, 49, 42.999999).String())
	require.Equal(t, "2018-02-20T22:49:42Z", mustTime[Unix64Time](t, 2018, 2, 20, 22, 49, 42.1).String())

	tm, err := mustTime[Time](t, 2018, 2, 20, 22, 49, 42).Add(0.3)
	require.NoError(t, err)
	require.Equal(t, "2018-02-20T22:49:42.3Z", tm.String())

	// The last tick of a second needs every digit the variant resolves.
	last, err := TimeFromOffset(mustTime[Time](t, 2018, 2, 20, 22, 49, 43).Raw() - 1)
	require.NoError(t, err)
	require.Equal(t, "2018-02-20T22:49:42.99999999Z", last.String())
}
