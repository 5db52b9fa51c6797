package candles

import (
	"context"
	"log"

	"github.com/moznion/go-optional"

	"github.com/naveensanjula975/candlestick-downloader/internal/types"
	"github.com/naveensanjula975/candlestick-downloader/pkg/candles/provider"
	"github.com/naveensanjula975/candlestick-downloader/pkg/candles/writer"
)

// Legacy convenience functions kept for backward compatibility with the
// original script-style API. They print status with the standard library
// logger, skip ticker validation and the cleaning steps of the Downloader
// path, and share no implementation with it.

// DownloadCandlestickData downloads candle data from Yahoo Finance. Rows are
// returned as delivered by the provider: missing values are coerced to zero
// and no column validation is performed.
func DownloadCandlestickData(ticker, period, interval string) optional.Option[types.Table] {
	if period == "" {
		period = DefaultPeriod
	}

	if interval == "" {
		interval = DefaultInterval
	}

	yahoo := provider.NewYahooClient()

	series, err := yahoo.Fetch(context.Background(), provider.FetchRequest{
		Ticker:     ticker,
		Period:     period,
		Interval:   interval,
		AutoAdjust: true,
	}, nil)
	if err != nil {
		log.Printf("Error downloading %s: %v", ticker, err)

		return optional.None[types.Table]()
	}

	if series.Empty() {
		log.Printf("No data found for %s", ticker)

		return optional.None[types.Table]()
	}

	columns := make([]string, len(series.Columns))
	copy(columns, series.Columns)

	if len(columns) > 0 {
		columns[0] = types.ColumnDate
	}

	candles := make([]types.Candle, 0, len(series.Bars))

	for _, bar := range series.Bars {
		candles = append(candles, types.Candle{
			Date:     bar.Timestamp,
			Open:     nullToZero(bar.Open),
			High:     nullToZero(bar.High),
			Low:      nullToZero(bar.Low),
			Close:    nullToZero(bar.Close),
			AdjClose: nullToZero(bar.AdjClose),
			Volume:   nullToZeroInt(bar.Volume),
		})
	}

	log.Printf("Downloaded %d records for %s", len(candles), ticker)

	return optional.Some(types.Table{
		Ticker:   ticker,
		Columns:  columns,
		Interval: types.Interval(interval),
		Candles:  candles,
	})
}

// SaveToCSV saves a downloaded table to a CSV file. The filename is used as
// given, with missing parent directories created.
func SaveToCSV(table optional.Option[types.Table], filename string) bool {
	t, err := table.Take()
	if err != nil || t.Empty() {
		log.Printf("No data to save")

		return false
	}

	w := writer.NewCSVWriter(filename, true)
	if err := w.Write(&t); err != nil {
		log.Printf("Error saving to CSV: %v", err)

		return false
	}

	log.Printf("Saved %d records to %s", len(t.Candles), filename)

	return true
}

func nullToZero(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}

func nullToZeroInt(v *int64) int64 {
	if v == nil {
		return 0
	}

	return *v
}
