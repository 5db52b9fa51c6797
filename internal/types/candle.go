package types

import "time"

// Canonical column names for a normalized candle table.
const (
	ColumnDate     = "Date"
	ColumnOpen     = "Open"
	ColumnHigh     = "High"
	ColumnLow      = "Low"
	ColumnClose    = "Close"
	ColumnVolume   = "Volume"
	ColumnAdjClose = "Adj Close"
)

// RequiredColumns lists the columns every normalized table is expected to carry.
func RequiredColumns() []string {
	return []string{ColumnDate, ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}
}

// Candle represents a single OHLCV observation.
type Candle struct {
	Date     time.Time `csv:"date"`
	Open     float64   `csv:"open"`
	High     float64   `csv:"high"`
	Low      float64   `csv:"low"`
	Close    float64   `csv:"close"`
	AdjClose float64   `csv:"adj_close"`
	Volume   int64     `csv:"volume"`
}

// Table is an ordered candle series for one ticker over one period/interval.
// After normalization the rows are strictly ascending by Date and contain no
// missing values.
type Table struct {
	Ticker string
	// Columns is the output column order: the canonical six, plus any extra
	// provider columns (e.g. "Adj Close") preserved after them.
	Columns  []string
	Interval Interval
	Candles  []Candle
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Candles) == 0
}

// HasColumn reports whether the table carries the given column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}

	return false
}
