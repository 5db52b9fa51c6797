package types

// Interval is the sampling granularity of candles within a period.
type Interval string

const (
	IntervalOneMinute      Interval = "1m"
	IntervalTwoMinutes     Interval = "2m"
	IntervalFiveMinutes    Interval = "5m"
	IntervalFifteenMinutes Interval = "15m"
	IntervalThirtyMinutes  Interval = "30m"
	IntervalSixtyMinutes   Interval = "60m"
	IntervalNinetyMinutes  Interval = "90m"
	IntervalOneHour        Interval = "1h"
	IntervalOneDay         Interval = "1d"
	IntervalFiveDays       Interval = "5d"
	IntervalOneWeek        Interval = "1wk"
	IntervalOneMonth       Interval = "1mo"
	IntervalThreeMonths    Interval = "3mo"
)

// Intervals returns all recognized interval values.
func Intervals() []Interval {
	return []Interval{
		IntervalOneMinute,
		IntervalTwoMinutes,
		IntervalFiveMinutes,
		IntervalFifteenMinutes,
		IntervalThirtyMinutes,
		IntervalSixtyMinutes,
		IntervalNinetyMinutes,
		IntervalOneHour,
		IntervalOneDay,
		IntervalFiveDays,
		IntervalOneWeek,
		IntervalOneMonth,
		IntervalThreeMonths,
	}
}

// Valid reports whether i is a recognized interval value.
func (i Interval) Valid() bool {
	for _, known := range Intervals() {
		if i == known {
			return true
		}
	}

	return false
}

// Intraday reports whether the interval samples within a trading day. Intraday
// series carry a time component on their timestamps.
func (i Interval) Intraday() bool {
	switch i {
	case IntervalOneMinute, IntervalTwoMinutes, IntervalFiveMinutes,
		IntervalFifteenMinutes, IntervalThirtyMinutes, IntervalSixtyMinutes,
		IntervalNinetyMinutes, IntervalOneHour:
		return true
	default:
		return false
	}
}

// TimeLayout returns the time format used when rendering dates for this
// interval: date-only for daily and coarser data, date plus time for intraday.
func (i Interval) TimeLayout() string {
	if i.Intraday() {
		return "2006-01-02 15:04:05"
	}

	return "2006-01-02"
}
