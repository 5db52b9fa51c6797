package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/naveensanjula975/candlestick-downloader/internal/types"
	"github.com/naveensanjula975/candlestick-downloader/pkg/errors"
)

// PolygonClient fetches candle series from the Polygon.io aggregates API.
type PolygonClient struct {
	client *polygon.Client
}

// NewPolygonClient creates a Polygon provider. An API key is required.
func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon apiKey is required")
	}

	return &PolygonClient{
		client: polygon.New(apiKey),
	}, nil
}

// Name implements Provider.
func (c *PolygonClient) Name() string {
	return string(TypePolygon)
}

// Fetch implements Provider. The period is translated into an absolute date
// range ending now, and the interval into a multiplier/timespan aggregation.
func (c *PolygonClient) Fetch(ctx context.Context, req FetchRequest, onProgress OnProgress) (*Series, error) {
	interval := types.Interval(req.Interval)
	multiplier, timespan := polygonAggregation(interval)

	now := time.Now().UTC()
	start := types.Period(req.Period).Start(now)
	totalMillis := float64(now.Sub(start).Milliseconds())

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     req.Ticker,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(start),
		To:         models.Millis(now),
	}.WithLimit(50000).WithAdjusted(req.AutoAdjust)

	iter := c.client.ListAggs(ctx, params)

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

	for iter.Next() {
		agg := iter.Item()

		barTime := time.Time(agg.Timestamp)
		open, high, low, close, volume := agg.Open, agg.High, agg.Low, agg.Close, int64(agg.Volume)

		series.Bars = append(series.Bars, Bar{
			Timestamp: barTime,
			Open:      &open,
			High:      &high,
			Low:       &low,
			Close:     &close,
			AdjClose:  nil,
			Volume:    &volume,
		})

		if onProgress != nil && totalMillis > 0 {
			elapsed := float64(barTime.Sub(start).Milliseconds())
			onProgress(elapsed, totalMillis, fmt.Sprintf("Downloading %s", req.Ticker))
		}
	}

	if iter.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, "error iterating polygon aggregates", iter.Err())
	}

	return series, nil
}

// polygonAggregation maps an interval onto Polygon's multiplier/timespan pair.
func polygonAggregation(i types.Interval) (int, models.Timespan) {
	switch i {
	case types.IntervalOneMinute:
		return 1, models.Minute
	case types.IntervalTwoMinutes:
		return 2, models.Minute
	case types.IntervalFiveMinutes:
		return 5, models.Minute
	case types.IntervalFifteenMinutes:
		return 15, models.Minute
	case types.IntervalThirtyMinutes:
		return 30, models.Minute
	case types.IntervalSixtyMinutes, types.IntervalOneHour:
		return 1, models.Hour
	case types.IntervalNinetyMinutes:
		return 90, models.Minute
	case types.IntervalOneDay:
		return 1, models.Day
	case types.IntervalFiveDays:
		return 5, models.Day
	case types.IntervalOneWeek:
		return 1, models.Week
	case types.IntervalOneMonth:
		return 1, models.Month
	case types.IntervalThreeMonths:
		return 3, models.Month
	default:
		return 1, models.Day
	}
}
