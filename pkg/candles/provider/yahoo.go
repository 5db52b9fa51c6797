package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/naveensanjula975/candlestick-downloader/internal/types"
	"github.com/naveensanjula975/candlestick-downloader/pkg/errors"
)

const (
	yahooBaseURL   = "https://query2.finance.yahoo.com"
	yahooChartPath = "/v8/finance/chart/"
	yahooUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/91.0.4472.124"

	yahooRequestTimeout = 10 * time.Second
)

// YahooClient fetches candle series from the Yahoo Finance v8 chart API.
// No authentication is required; the endpoint only expects a browser-like
// User-Agent header.
type YahooClient struct {
	client  *http.Client
	baseURL string
}

// NewYahooClient creates a Yahoo Finance provider with default settings.
func NewYahooClient() Provider {
	return &YahooClient{
		client:  &http.Client{Timeout: yahooRequestTimeout},
		baseURL: yahooBaseURL,
	}
}

// NewYahooClientWithBaseURL creates a Yahoo Finance provider against a custom
// endpoint. Used by tests to point the provider at a stub server.
func NewYahooClientWithBaseURL(baseURL string, client *http.Client) Provider {
	if client == nil {
		client = &http.Client{Timeout: yahooRequestTimeout}
	}

	return &YahooClient{
		client:  client,
		baseURL: baseURL,
	}
}

// Name implements Provider.
func (y *YahooClient) Name() string {
	return string(TypeYahoo)
}

// Fetch implements Provider. It issues one GET against the chart API and
// converts the columnar response into a Series, preserving nulls as missing
// values.
func (y *YahooClient) Fetch(ctx context.Context, req FetchRequest, onProgress OnProgress) (*Series, error) {
	if onProgress != nil {
		onProgress(0, 1, fmt.Sprintf("Downloading %s", req.Ticker))
	}

	chart, err := y.fetchChart(ctx, req)
	if err != nil {
		return nil, err
	}

	series := y.extractSeries(chart, req)

	if onProgress != nil {
		onProgress(1, 1, fmt.Sprintf("Downloaded %s", req.Ticker))
	}

	return series, nil
}

func (y *YahooClient) fetchChart(ctx context.Context, req FetchRequest) (*yahooChartResponse, error) {
	endpoint := y.baseURL + yahooChartPath + url.PathEscape(req.Ticker)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, "failed to create request", err)
	}

	query := httpReq.URL.Query()
	query.Set("range", req.Period)
	query.Set("interval", req.Interval)
	query.Set("includeAdjustedClose", "true")
	query.Set("events", "div,splits")
	httpReq.URL.RawQuery = query.Encode()
	httpReq.Header.Set("User-Agent", yahooUserAgent)

	resp, err := y.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch chart for %s", req.Ticker)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "unexpected status code %d for %s", resp.StatusCode, req.Ticker)
	}

	var chart yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailed, "failed to decode chart response", err)
	}

	if chart.Chart.Error != nil {
		return nil, errors.Newf(errors.ErrCodeFetchFailed, "chart API error: %s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}

	return &chart, nil
}

// extractSeries converts the columnar chart payload into bars. When
// AutoAdjust is set and an adjusted close is available, OHLC values are
// scaled by adjclose/close the way the adjusted series is conventionally
// derived; otherwise the adjusted close is preserved as an extra column.
func (y *YahooClient) extractSeries(chart *yahooChartResponse, req FetchRequest) *Series {
	series := &Series{
		Ticker:  req.Ticker,
		Columns: nil,
		Bars:    nil,
	}

	if len(chart.Chart.Result) == 0 {
		return series
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return series
	}

	quote := result.Indicators.Quote[0]

	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	keepAdjColumn := adjClose != nil && !req.AutoAdjust

	series.Columns = []string{
		timeColumnFor(types.Interval(req.Interval)),
		types.ColumnOpen,
		types.ColumnHigh,
		types.ColumnLow,
		types.ColumnClose,
		types.ColumnVolume,
	}
	if keepAdjColumn {
		series.Columns = append(series.Columns, types.ColumnAdjClose)
	}

	series.Bars = make([]Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		bar := Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      floatAt(quote.Open, i),
			High:      floatAt(quote.High, i),
			Low:       floatAt(quote.Low, i),
			Close:     floatAt(quote.Close, i),
			AdjClose:  nil,
			Volume:    intAt(quote.Volume, i),
		}

		adj := floatAt(adjClose, i)

		if req.AutoAdjust {
			adjustBar(&bar, adj)
		} else if keepAdjColumn {
			bar.AdjClose = adj
		}

		series.Bars = append(series.Bars, bar)
	}

	return series
}

// adjustBar rescales the OHLC values of a bar by adjclose/close. Bars missing
// either close are left untouched; the normalizer drops them later anyway.
func adjustBar(bar *Bar, adj *float64) {
	if adj == nil || bar.Close == nil || *bar.Close == 0 {
		return
	}

	ratio := *adj / *bar.Close

	scale := func(v *float64) *float64 {
		if v == nil {
			return nil
		}

		scaled := *v * ratio

		return &scaled
	}

	bar.Open = scale(bar.Open)
	bar.High = scale(bar.High)
	bar.Low = scale(bar.Low)
	bar.Close = adj
}

func floatAt(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}

	return values[i]
}

func intAt(values []*int64, i int) *int64 {
	if i >= len(values) {
		return nil
	}

	return values[i]
}

// yahooChartResponse mirrors the v8 chart API payload.
type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooAPIError     `json:"error"`
	} `json:"chart"`
}

type yahooAPIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol          string `json:"symbol"`
		DataGranularity string `json:"dataGranularity"`
		Range           string `json:"range"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote    []yahooQuote    `json:"quote"`
		AdjClose []yahooAdjClose `json:"adjclose"`
	} `json:"indicators"`
}

type yahooQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type yahooAdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}
