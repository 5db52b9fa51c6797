package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/naveensanjula975/candlestick-downloader/internal/types"
	"github.com/naveensanjula975/candlestick-downloader/pkg/errors"
)

// Binance caps a single klines request at 1000 rows.
const binanceKlinesLimit = 1000

// BinanceClient fetches candle series from the Binance public klines API.
// No authentication is required for public market data.
type BinanceClient struct {
	client *binance.Client
}

// NewBinanceClient creates a Binance provider.
func NewBinanceClient() (Provider, error) {
	return &BinanceClient{
		client: binance.NewClient("", ""),
	}, nil
}

// Name implements Provider.
func (c *BinanceClient) Name() string {
	return string(TypeBinance)
}

// Fetch implements Provider. The period is translated into a start timestamp
// and klines are paginated until the range is exhausted. Binance prices are
// never split-adjusted, so AutoAdjust is a no-op here.
func (c *BinanceClient) Fetch(ctx context.Context, req FetchRequest, onProgress OnProgress) (*Series, error) {
	interval := types.Interval(req.Interval)

	binanceInterval, err := binanceIntervalFor(interval)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	startMillis := types.Period(req.Period).Start(now).UnixMilli()
	endMillis := now.UnixMilli()

	series := &Series{
		Ticker: req.Ticker,
		Columns: []string{
			timeColumnFor(interval),
			types.ColumnOpen,
			types.ColumnHigh,
			types.ColumnLow,
			types.ColumnClose,
			types.ColumnVolume,
		},
		Bars: nil,
	}

	currentStart := startMillis

	for {
		klines, err := c.client.NewKlinesService().
			Symbol(req.Ticker).
			Interval(binanceInterval).
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binanceKlinesLimit).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch klines for %s", req.Ticker)
		}

		if onProgress != nil && endMillis > startMillis {
			onProgress(float64(currentStart-startMillis), float64(endMillis-startMillis), fmt.Sprintf("Downloading %s klines", req.Ticker))
		}

		bars, err := convertKlines(klines)
		if err != nil {
			return nil, err
		}

		series.Bars = append(series.Bars, bars...)

		// Last page: no data or a short page.
		if len(klines) < binanceKlinesLimit {
			break
		}

		// Use the close time of the last kline + 1ms to avoid duplicates.
		currentStart = klines[len(klines)-1].CloseTime + 1
		if currentStart >= endMillis {
			break
		}
	}

	return series, nil
}

// convertKlines parses Binance's string-encoded kline prices into bars.
func convertKlines(klines []*binance.Kline) ([]Bar, error) {
	bars := make([]Bar, 0, len(klines))

	for _, k := range klines {
		open, err := strconv.ParseFloat(k.Open, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParseFailed, "failed to parse kline open price", err)
		}

		high, err := strconv.ParseFloat(k.High, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParseFailed, "failed to parse kline high price", err)
		}

		low, err := strconv.ParseFloat(k.Low, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParseFailed, "failed to parse kline low price", err)
		}

		closePrice, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParseFailed, "failed to parse kline close price", err)
		}

		volume, err := strconv.ParseFloat(k.Volume, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParseFailed, "failed to parse kline volume", err)
		}

		volumeCount := int64(volume)

		bars = append(bars, Bar{
			// OpenTime is the timestamp of the bar.
			Timestamp: time.UnixMilli(k.OpenTime).UTC(),
			Open:      &open,
			High:      &high,
			Low:       &low,
			Close:     &closePrice,
			AdjClose:  nil,
			Volume:    &volumeCount,
		})
	}

	return bars, nil
}

// binanceIntervalFor converts an interval to a Binance kline interval string.
// Binance intervals: 1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 8h, 12h, 1d, 3d, 1w, 1M
// Ref: https://binance-docs.github.io/apidocs/spot/en/#kline-candlestick-data
func binanceIntervalFor(i types.Interval) (string, error) {
	switch i {
	case types.IntervalOneMinute, types.IntervalFiveMinutes,
		types.IntervalFifteenMinutes, types.IntervalThirtyMinutes:
		return string(i), nil
	case types.IntervalSixtyMinutes, types.IntervalOneHour:
		return "1h", nil
	case types.IntervalOneDay:
		return "1d", nil
	case types.IntervalOneWeek:
		return "1w", nil
	case types.IntervalOneMonth:
		return "1M", nil
	case types.IntervalTwoMinutes, types.IntervalNinetyMinutes,
		types.IntervalFiveDays, types.IntervalThreeMonths:
		return "", errors.Newf(errors.ErrCodeUnsupportedInterval, "interval %s has no Binance equivalent", i)
	default:
		return "", errors.Newf(errors.ErrCodeUnsupportedInterval, "unsupported interval for Binance: %s", i)
	}
}
