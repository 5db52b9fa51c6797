package candles

import (
	"sort"

	"go.uber.org/zap"

	"github.com/naveensanjula975/candlestick-downloader/internal/logger"
	"github.com/naveensanjula975/candlestick-downloader/internal/types"
	"github.com/naveensanjula975/candlestick-downloader/pkg/candles/provider"
)

// normalize converts a raw provider series into a canonical candle table:
// the time column becomes a leading "Date" column, rows with missing values
// are dropped, and the remainder is sorted ascending by date. Missing
// canonical columns are logged but do not fail the operation. A series that
// loses every row to dropping still yields a valid empty table.
func normalize(series *provider.Series, interval types.Interval, log *logger.Logger) types.Table {
	columns := make([]string, len(series.Columns))
	copy(columns, series.Columns)

	// Rename the provider's time column label ("Datetime" for intraday data)
	// to the canonical "Date".
	if len(columns) > 0 && columns[0] != types.ColumnDate {
		columns[0] = types.ColumnDate
	}

	if missing := missingColumns(columns); len(missing) > 0 {
		log.Warn("missing columns",
			zap.String("ticker", series.Ticker),
			zap.Strings("columns", missing),
		)
	}

	kept := make([]provider.Bar, 0, len(series.Bars))

	for _, bar := range series.Bars {
		if barComplete(bar, columns) {
			kept = append(kept, bar)
		}
	}

	if dropped := len(series.Bars) - len(kept); dropped > 0 {
		log.Info("removed rows with missing data",
			zap.String("ticker", series.Ticker),
			zap.Int("rows", dropped),
		)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Timestamp.Before(kept[j].Timestamp)
	})

	candles := make([]types.Candle, 0, len(kept))
	for _, bar := range kept {
		candles = append(candles, toCandle(bar))
	}

	return types.Table{
		Ticker:   series.Ticker,
		Columns:  columns,
		Interval: interval,
		Candles:  candles,
	}
}

// missingColumns returns the canonical columns absent from the series.
func missingColumns(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var missing []string

	for _, required := range types.RequiredColumns() {
		if !present[required] {
			missing = append(missing, required)
		}
	}

	return missing
}

// barComplete reports whether the bar has a value for every present column.
func barComplete(bar provider.Bar, columns []string) bool {
	for _, column := range columns {
		if bar.Missing(column) {
			return false
		}
	}

	return true
}

// toCandle dereferences a complete bar into a candle. Absent columns leave
// their fields at zero.
func toCandle(bar provider.Bar) types.Candle {
	candle := types.Candle{
		Date:     bar.Timestamp,
		Open:     0,
		High:     0,
		Low:      0,
		Close:    0,
		AdjClose: 0,
		Volume:   0,
	}

	if bar.Open != nil {
		candle.Open = *bar.Open
	}

	if bar.High != nil {
		candle.High = *bar.High
	}

	if bar.Low != nil {
		candle.Low = *bar.Low
	}

	if bar.Close != nil {
		candle.Close = *bar.Close
	}

	if bar.AdjClose != nil {
		candle.AdjClose = *bar.AdjClose
	}

	if bar.Volume != nil {
		candle.Volume = *bar.Volume
	}

	return candle
}
