package provider

import (
	"context"
	"time"

	"github.com/naveensanjula975/candlestick-downloader/internal/types"
	"github.com/naveensanjula975/candlestick-downloader/pkg/errors"
)

// Type defines the type of market data provider.
type Type string

const (
	TypeYahoo   Type = "yahoo"
	TypePolygon Type = "polygon"
	TypeBinance Type = "binance"
)

// OnProgress reports download progress. current and total are in
// provider-defined units; message is a human readable status line.
type OnProgress = func(current float64, total float64, message string)

// FetchRequest describes one candle series request. Period and interval travel
// as opaque strings: each provider maps them onto its own request vocabulary.
type FetchRequest struct {
	Ticker     string
	Period     string
	Interval   string
	AutoAdjust bool
}

// Bar is a single raw observation as returned by a provider. Nil fields mark
// missing values (JSON nulls); the normalizer decides what to do with them.
type Bar struct {
	Timestamp time.Time
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	AdjClose  *float64
	Volume    *int64
}

// Missing reports whether the bar lacks a value for the named column.
func (b Bar) Missing(column string) bool {
	switch column {
	case types.ColumnOpen:
		return b.Open == nil
	case types.ColumnHigh:
		return b.High == nil
	case types.ColumnLow:
		return b.Low == nil
	case types.ColumnClose:
		return b.Close == nil
	case types.ColumnAdjClose:
		return b.AdjClose == nil
	case types.ColumnVolume:
		return b.Volume == nil
	default:
		return false
	}
}

// Series is the raw time-indexed result of one fetch.
type Series struct {
	Ticker string
	// Columns is the provider's column order, time column first. The time
	// column keeps the provider's own label ("Datetime" for intraday data).
	Columns []string
	Bars    []Bar
}

// Empty reports whether the provider returned no observations at all.
func (s *Series) Empty() bool {
	return s == nil || len(s.Bars) == 0
}

// TimeColumn returns the provider's label for the time column.
func (s *Series) TimeColumn() string {
	if len(s.Columns) == 0 {
		return types.ColumnDate
	}

	return s.Columns[0]
}

// Provider fetches raw candle series from an external market data source.
type Provider interface {
	// Name returns the provider identifier used in logs.
	Name() string
	// Fetch issues a single blocking request for the given ticker, period and
	// interval. An unknown ticker or an empty range yields an empty series,
	// not an error. onProgress may be nil.
	Fetch(ctx context.Context, req FetchRequest, onProgress OnProgress) (*Series, error)
}

// NewProvider creates a new market data provider based on the provider type.
func NewProvider(providerType Type, config any) (Provider, error) {
	switch providerType {
	case TypeYahoo:
		return NewYahooClient(), nil
	case TypeBinance:
		return NewBinanceClient()
	case TypePolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon provider requires API key string config")
		}

		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// timeColumnFor returns the provider-facing time column label for an interval.
func timeColumnFor(interval types.Interval) string {
	if interval.Intraday() {
		return "Datetime"
	}

	return types.ColumnDate
}
