package candles

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/naveensanjula975/candlestick-downloader/pkg/errors"
)

// Default request parameters, matching the most common use of daily data over
// one month.
const (
	DefaultPeriod   = "1mo"
	DefaultInterval = "1d"
)

// DownloadConfig holds the parameters for one candle download request. Period
// and interval are carried as strings because the provider APIs accept them as
// opaque values; the recognized sets are documented on types.Period and
// types.Interval and checked advisorily at download time.
type DownloadConfig struct {
	Ticker     string `json:"ticker" jsonschema:"title=Ticker,description=The ticker symbol to download data for (e.g. AAPL or BTC-USD),required" validate:"required"`
	Period     string `json:"period" jsonschema:"title=Period,description=Total historical span,enum=1d,enum=5d,enum=1mo,enum=3mo,enum=6mo,enum=1y,enum=2y,enum=5y,enum=10y,enum=ytd,enum=max"`
	Interval   string `json:"interval" jsonschema:"title=Interval,description=Candle sampling granularity,enum=1m,enum=2m,enum=5m,enum=15m,enum=30m,enum=60m,enum=90m,enum=1h,enum=1d,enum=5d,enum=1wk,enum=1mo,enum=3mo"`
	AutoAdjust bool   `json:"autoAdjust" jsonschema:"title=Auto Adjust,description=Adjust OHLC values for splits and dividends"`
	Progress   bool   `json:"progress" jsonschema:"title=Progress,description=Show a progress bar while downloading"`
}

// NewDownloadConfig builds a validated download configuration. The ticker is
// trimmed and uppercased; an empty ticker after trimming is the only
// construction failure. Empty period or interval fall back to the defaults.
func NewDownloadConfig(ticker, period, interval string, autoAdjust bool) (DownloadConfig, error) {
	if period == "" {
		period = DefaultPeriod
	}

	if interval == "" {
		interval = DefaultInterval
	}

	config := DownloadConfig{
		Ticker:     strings.ToUpper(strings.TrimSpace(ticker)),
		Period:     period,
		Interval:   interval,
		AutoAdjust: autoAdjust,
		Progress:   false,
	}

	if err := config.Validate(); err != nil {
		return DownloadConfig{}, err
	}

	return config, nil
}

// Validate checks the configuration. Only the ticker is enforced; period and
// interval validation is advisory and handled at download time.
func (c *DownloadConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTicker, "ticker symbol cannot be empty", err)
	}

	return nil
}
