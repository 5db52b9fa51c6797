package types

import "time"

// Period is the total historical span of data requested.
type Period string

const (
	PeriodOneDay      Period = "1d"
	PeriodFiveDays    Period = "5d"
	PeriodOneMonth    Period = "1mo"
	PeriodThreeMonths Period = "3mo"
	PeriodSixMonths   Period = "6mo"
	PeriodOneYear     Period = "1y"
	PeriodTwoYears    Period = "2y"
	PeriodFiveYears   Period = "5y"
	PeriodTenYears    Period = "10y"
	PeriodYTD         Period = "ytd"
	PeriodMax         Period = "max"
)

// Periods returns all recognized period values.
func Periods() []Period {
	return []Period{
		PeriodOneDay,
		PeriodFiveDays,
		PeriodOneMonth,
		PeriodThreeMonths,
		PeriodSixMonths,
		PeriodOneYear,
		PeriodTwoYears,
		PeriodFiveYears,
		PeriodTenYears,
		PeriodYTD,
		PeriodMax,
	}
}

// Valid reports whether p is a recognized period value.
func (p Period) Valid() bool {
	for _, known := range Periods() {
		if p == known {
			return true
		}
	}

	return false
}

// Start derives the start of the requested range relative to now. Providers
// that take explicit date ranges (Polygon, Binance) use this to translate a
// period into a start timestamp.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case PeriodOneDay:
		return now.AddDate(0, 0, -1)
	case PeriodFiveDays:
		return now.AddDate(0, 0, -5)
	case PeriodOneMonth:
		return now.AddDate(0, -1, 0)
	case PeriodThreeMonths:
		return now.AddDate(0, -3, 0)
	case PeriodSixMonths:
		return now.AddDate(0, -6, 0)
	case PeriodOneYear:
		return now.AddDate(-1, 0, 0)
	case PeriodTwoYears:
		return now.AddDate(-2, 0, 0)
	case PeriodFiveYears:
		return now.AddDate(-5, 0, 0)
	case PeriodTenYears:
		return now.AddDate(-10, 0, 0)
	case PeriodYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case PeriodMax:
		return time.Unix(0, 0).UTC()
	default:
		return now.AddDate(0, -1, 0)
	}
}
