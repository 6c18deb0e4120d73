package vec

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tempus"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, y, m, d int) tempus.Date {
	t.Helper()
	r, err := tempus.NewDate(y, m, d)
	require.NoError(t, err)
	return r
}

func mustTime[T tempus.TimeType[T]](t *testing.T, y, m, d, hh, mm int, ss float64) T {
	t.Helper()
	r, err := tempus.TimeFromParts[T](y, m, d, hh, mm, ss, tempus.UTC)
	require.NoError(t, err)
	return r
}

func TestBroadcast(t *testing.T) {
	for _, tc := range []struct {
		lens []int
		n    int
		ok   bool
	}{
		{[]int{3, 3}, 3, true},
		{[]int{1, 4}, 4, true},
		{[]int{4, 1, 4}, 4, true},
		{[]int{1, 1}, 1, true},
		{[]int{0, 1}, 0, true},
		{[]int{2, 3}, 0, false},
		{[]int{0, 2}, 0, false},
	} {
		n, err := broadcast(tc.lens...)
		if !tc.ok {
			require.True(t, errors.Is(err, ErrShape), "%v", tc.lens)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.n, n, "%v", tc.lens)
	}
}

func TestElementTypeOf(t *testing.T) {
	require.Equal(t, tempus.DateMin.ElementType(), ElementTypeOf[tempus.Date]())
	et := ElementTypeOf[tempus.Unix32Time]()
	require.Equal(t, "Unix32Time", et.Name)
	require.Equal(t, 32, et.Bits)
	require.True(t, et.Signed)
	require.Equal(t, uint64(1), et.Denominator)
	require.Equal(t, tempus.DatenumUnixEpoch, et.Base)
	et = ElementTypeOf[tempus.Daytime32]()
	require.Equal(t, 32, et.Bits)
	require.Equal(t, uint64(math.MaxUint32), et.Invalid)
}

func TestDateArithmetic(t *testing.T) {
	dates := []tempus.Date{
		mustDate(t, 2018, 2, 20),
		tempus.DateMax,
		tempus.DateInvalid,
		tempus.DateMissing,
	}
	r, err := AddDays(dates, []int{9})
	require.NoError(t, err)
	require.Equal(t, []tempus.Date{
		mustDate(t, 2018, 3, 1), tempus.DateInvalid, tempus.DateInvalid, tempus.DateMissing,
	}, r)

	r, err = SubDays(dates, []int{20, -1, 0, 0})
	require.NoError(t, err)
	require.Equal(t, []tempus.Date{
		mustDate(t, 2018, 1, 31), tempus.DateInvalid, tempus.DateInvalid, tempus.DateMissing,
	}, r)

	_, err = AddDays(dates, []int{1, 2})
	require.True(t, errors.Is(err, ErrShape))

	days, ok, err := DateDiff(dates, []tempus.Date{mustDate(t, 2018, 1, 1)})
	require.NoError(t, err)
	require.Equal(t, []bool{true, true, false, false}, ok)
	require.Equal(t, 50, days[0])
	require.Equal(t, 0, days[2])

	require.Equal(t, []bool{true, true, false, false}, IsValid(dates))
}

func TestTimeArithmetic(t *testing.T) {
	times := []tempus.SmallTime{
		mustTime[tempus.SmallTime](t, 2018, 2, 20, 22, 49, 42),
		tempus.SmallTime{}.Max(),
		tempus.Missing[tempus.SmallTime](),
	}
	r, err := AddSeconds(times, []float64{60})
	require.NoError(t, err)
	require.Equal(t, "2018-02-20T22:50:42Z", r[0].String())
	require.True(t, r[1].IsInvalid())
	require.True(t, r[2].IsMissing())

	r, err = SubSeconds(times, []float64{60, -1, 1})
	require.NoError(t, err)
	require.Equal(t, "2018-02-20T22:48:42Z", r[0].String())
	require.True(t, r[1].IsInvalid())
	require.True(t, r[2].IsMissing())

	r, err = AddSeconds(times[:1], []float64{math.NaN(), 0.5})
	require.NoError(t, err)
	require.True(t, r[0].IsInvalid())
	require.Equal(t, "2018-02-20T22:49:43Z", r[1].String())
}

func TestCastTimes(t *testing.T) {
	src := []tempus.Time{
		mustTime[tempus.Time](t, 2018, 2, 20, 22, 49, 42),
		mustTime[tempus.Time](t, 1969, 12, 31, 23, 59, 59),
		tempus.TimeInvalid,
		tempus.TimeMissing,
	}
	r := CastTimes[tempus.SmallTime](src)
	require.Equal(t, "2018-02-20T22:49:42Z", r[0].String())
	require.True(t, r[1].IsInvalid())
	require.True(t, r[2].IsInvalid())
	require.True(t, r[3].IsMissing())

	eq, err := Equal(src, r)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true, true}, eq)

	back := CastTimes[tempus.Time](r)
	require.Equal(t, src[0], back[0])
}

func TestCastDaytimes(t *testing.T) {
	d, err := tempus.NewDaytime(14, 31, 25)
	require.NoError(t, err)
	src := []tempus.Daytime{d, tempus.DaytimeInvalid, tempus.DaytimeMissing}
	r := CastDaytimes[tempus.Daytime32](src)
	require.Equal(t, "14:31:25", r[0].String())
	require.True(t, r[1].IsInvalid())
	require.True(t, r[2].IsMissing())
	require.Equal(t, src, CastDaytimes[tempus.Daytime](r))
}

func TestCompare(t *testing.T) {
	base := mustTime[tempus.Unix64Time](t, 2018, 2, 20, 22, 49, 42)
	times := []tempus.Time{
		mustTime[tempus.Time](t, 2018, 2, 20, 22, 49, 41),
		mustTime[tempus.Time](t, 2018, 2, 20, 22, 49, 42),
		mustTime[tempus.Time](t, 2018, 2, 20, 22, 49, 42.5),
		tempus.TimeInvalid,
		tempus.TimeMissing,
	}
	other := []tempus.Unix64Time{base}
	for _, tc := range []struct {
		name string
		fn   func([]tempus.Time, []tempus.Unix64Time) ([]bool, error)
		exp  []bool
	}{
		{"Equal", Equal[tempus.Time, tempus.Unix64Time], []bool{false, true, false, false, false}},
		{"NotEqual", NotEqual[tempus.Time, tempus.Unix64Time], []bool{true, false, true, true, true}},
		{"Less", Less[tempus.Time, tempus.Unix64Time], []bool{true, false, false, false, false}},
		{"LessEqual", LessEqual[tempus.Time, tempus.Unix64Time], []bool{true, true, false, false, false}},
		{"Greater", Greater[tempus.Time, tempus.Unix64Time], []bool{false, false, true, false, false}},
		{"GreaterEqual", GreaterEqual[tempus.Time, tempus.Unix64Time], []bool{false, true, true, false, false}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, err := tc.fn(times, other)
			require.NoError(t, err)
			require.Equal(t, tc.exp, r)
		})
	}

	cmp, ok, err := Compare(times, other)
	require.NoError(t, err)
	require.Equal(t, []int{-1, 0, 1, 0, 0}, cmp)
	require.Equal(t, []bool{true, true, true, false, false}, ok)

	_, _, err = Compare(times, []tempus.Unix64Time{base, base})
	require.True(t, errors.Is(err, ErrShape))
}

func TestCompareSentinelPairs(t *testing.T) {
	a := []tempus.Time{tempus.TimeInvalid, tempus.TimeInvalid, tempus.TimeMissing, tempus.TimeMissing}
	b := []tempus.NsecTime{
		tempus.Invalid[tempus.NsecTime](),
		tempus.Missing[tempus.NsecTime](),
		tempus.Missing[tempus.NsecTime](),
		tempus.Invalid[tempus.NsecTime](),
	}
	for _, tc := range []struct {
		op  Op
		exp []bool
	}{
		{OpEqual, []bool{true, false, true, false}},
		{OpNotEqual, []bool{false, true, false, true}},
		{OpLess, []bool{false, false, false, false}},
		{OpLessEqual, []bool{false, false, false, false}},
		{OpGreater, []bool{false, false, false, false}},
		{OpGreaterEqual, []bool{false, false, false, false}},
	} {
		r, err := CompareTimes(tc.op, a, b)
		require.NoError(t, err)
		require.Equal(t, tc.exp, r, "op %d", tc.op)
	}
}

func TestCompareValues(t *testing.T) {
	d := mustDate(t, 2018, 2, 20)
	dates := []tempus.Date{d.Sub(1), d, d.Add(1), tempus.DateInvalid, tempus.DateMissing}
	for _, tc := range []struct {
		op  Op
		exp []bool
	}{
		{OpEqual, []bool{false, true, false, false, false}},
		{OpNotEqual, []bool{true, false, true, true, true}},
		{OpLess, []bool{true, false, false, false, false}},
		{OpLessEqual, []bool{true, true, false, false, false}},
		{OpGreater, []bool{false, false, true, false, false}},
		{OpGreaterEqual, []bool{false, true, true, false, false}},
	} {
		r, err := CompareValues(tc.op, dates, []tempus.Date{d})
		require.NoError(t, err)
		require.Equal(t, tc.exp, r, "op %d", tc.op)
	}

	noon, err := tempus.NewDaytime(12, 0, 0)
	require.NoError(t, err)
	daytimes := []tempus.Daytime{tempus.DaytimeMin, noon, tempus.DaytimeMax, tempus.DaytimeInvalid, tempus.DaytimeMissing}
	r, err := CompareValues(OpGreaterEqual, daytimes, []tempus.Daytime{noon})
	require.NoError(t, err)
	require.Equal(t, []bool{false, true, true, false, false}, r)

	// A sentinel is equal to itself but neither before nor after it.
	sentinels := []tempus.Daytime{tempus.DaytimeInvalid, tempus.DaytimeMissing}
	r, err = CompareValues(OpEqual, sentinels, sentinels)
	require.NoError(t, err)
	require.Equal(t, []bool{true, true}, r)
	r, err = CompareValues(OpLessEqual, sentinels, sentinels)
	require.NoError(t, err)
	require.Equal(t, []bool{false, false}, r)

	_, err = CompareValues(OpLess, dates, dates[:2])
	require.True(t, errors.Is(err, ErrShape))
}

func TestTimesFromOffsets(t *testing.T) {
	r := TimesFromOffsets[tempus.Unix32Time]([]int64{0, 1519166982, math.MaxInt32, -1})
	require.Equal(t, "1970-01-01T00:00:00Z", r[0].String())
	require.Equal(t, "2018-02-20T22:49:42Z", r[1].String())
	require.True(t, r[2].IsInvalid())
	require.Equal(t, "1969-12-31T23:59:59Z", r[3].String())

	s := TimesFromOffsets[tempus.SmallTime]([]int{-1, 60})
	require.True(t, s[0].IsInvalid())
	require.Equal(t, "1970-01-01T00:01:00Z", s[1].String())
}

func TestDatesFrom(t *testing.T) {
	exp := []tempus.Date{mustDate(t, 2018, 2, 20), mustDate(t, 2018, 2, 28), tempus.DateInvalid}

	r, err := DatesFromYMD([]int{2018}, []int{2}, []int{20, 28, 29})
	require.NoError(t, err)
	require.Equal(t, exp, r)

	r, err = DatesFromOrdinalDate([]int{2018}, []int{51, 59, 366})
	require.NoError(t, err)
	require.Equal(t, exp, r)

	// 2018-02-20 is the Tuesday of ISO week 8.
	r, err = DatesFromWeekDate([]int{2018}, []int{8, 9, 53}, []tempus.Weekday{tempus.Tuesday, tempus.Wednesday, tempus.Monday})
	require.NoError(t, err)
	require.Equal(t, exp, r)

	require.Equal(t, exp, DatesFromYMDI([]int{20180220, 20180228, 20180229}))

	_, err = DatesFromYMD([]int{2018, 2019}, []int{1, 2, 3}, []int{1})
	require.True(t, errors.Is(err, ErrShape))
}

func TestToLocal(t *testing.T) {
	times := []tempus.Unix64Time{
		mustTime[tempus.Unix64Time](t, 2018, 2, 20, 22, 49, 42),
		tempus.Missing[tempus.Unix64Time](),
	}
	dates, daytimes := ToLocal(times, tempus.FixedZone("+05:30", 19800))
	require.Equal(t, "2018-02-21", dates[0].String())
	require.Equal(t, "04:19:42", daytimes[0].String())
	require.True(t, dates[1].IsMissing())
	require.True(t, daytimes[1].IsMissing())
}
