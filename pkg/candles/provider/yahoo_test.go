package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/suite"

	"github.com/naveensanjula975/candlestick-downloader/internal/types"
	"github.com/naveensanjula975/candlestick-downloader/pkg/errors"
)

type YahooTestSuite struct {
	suite.Suite
	server   *httptest.Server
	router   *mux.Router
	lastReq  *http.Request
	response func(w http.ResponseWriter, r *http.Request)
}

func TestYahooSuite(t *testing.T) {
	suite.Run(t, new(YahooTestSuite))
}

func (suite *YahooTestSuite) SetupTest() {
	suite.router = mux.NewRouter()
	suite.router.HandleFunc("/v8/finance/chart/{ticker}", func(w http.ResponseWriter, r *http.Request) {
		suite.lastReq = r
		suite.response(w, r)
	})
	suite.server = httptest.NewServer(suite.router)
}

func (suite *YahooTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *YahooTestSuite) client() Provider {
	return NewYahooClientWithBaseURL(suite.server.URL, suite.server.Client())
}

func (suite *YahooTestSuite) respondJSON(payload string) {
	suite.response = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}
}

func chartPayload(timestamps []int64, quote yahooQuote, adjClose []*float64) string {
	result := map[string]any{
		"meta":      map[string]any{"symbol": "AAPL"},
		"timestamp": timestamps,
		"indicators": map[string]any{
			"quote": []yahooQuote{quote},
		},
	}

	if adjClose != nil {
		result["indicators"].(map[string]any)["adjclose"] = []yahooAdjClose{{AdjClose: adjClose}}
	}

	payload, _ := json.Marshal(map[string]any{
		"chart": map[string]any{
			"result": []any{result},
			"error":  nil,
		},
	})

	return string(payload)
}

func pf(v float64) *float64 {
	return &v
}

func pi(v int64) *int64 {
	return &v
}

func (suite *YahooTestSuite) TestFetchParsesDailyChart() {
	suite.respondJSON(chartPayload(
		[]int64{1704153600, 1704240000}, // 2024-01-02, 2024-01-03
		yahooQuote{
			Open:   []*float64{pf(185.5), pf(184.0)},
			High:   []*float64{pf(187.25), pf(185.5)},
			Low:    []*float64{pf(184.0), pf(183.0)},
			Close:  []*float64{pf(186.75), pf(184.25)},
			Volume: []*int64{pi(52000000), pi(48000000)},
		},
		nil,
	))

	series, err := suite.client().Fetch(context.Background(), FetchRequest{
		Ticker:   "AAPL",
		Period:   "1mo",
		Interval: "1d",
	}, nil)
	suite.NoError(err)
	suite.Equal("AAPL", series.Ticker)
	suite.Equal(types.ColumnDate, series.Columns[0])
	suite.Len(series.Bars, 2)
	suite.Equal(185.5, *series.Bars[0].Open)
	suite.Equal(int64(48000000), *series.Bars[1].Volume)

	suite.Equal("AAPL", mux.Vars(suite.lastReq)["ticker"])
	suite.Equal("1mo", suite.lastReq.URL.Query().Get("range"))
	suite.Equal("1d", suite.lastReq.URL.Query().Get("interval"))
	suite.Contains(suite.lastReq.Header.Get("User-Agent"), "Mozilla")
}

func (suite *YahooTestSuite) TestFetchPreservesNulls() {
	suite.respondJSON(chartPayload(
		[]int64{1704153600, 1704240000},
		yahooQuote{
			Open:   []*float64{pf(185.5), nil},
			High:   []*float64{pf(187.25), pf(185.5)},
			Low:    []*float64{pf(184.0), pf(183.0)},
			Close:  []*float64{pf(186.75), nil},
			Volume: []*int64{pi(52000000), nil},
		},
		nil,
	))

	series, err := suite.client().Fetch(context.Background(), FetchRequest{
		Ticker:   "AAPL",
		Period:   "1mo",
		Interval: "1d",
	}, nil)
	suite.NoError(err)
	suite.Len(series.Bars, 2)
	suite.Nil(series.Bars[1].Open)
	suite.Nil(series.Bars[1].Close)
	suite.Nil(series.Bars[1].Volume)
	suite.NotNil(series.Bars[1].High)
}

func (suite *YahooTestSuite) TestFetchAutoAdjustScalesOHLC() {
	suite.respondJSON(chartPayload(
		[]int64{1704153600},
		yahooQuote{
			Open:   []*float64{pf(100)},
			High:   []*float64{pf(110)},
			Low:    []*float64{pf(90)},
			Close:  []*float64{pf(100)},
			Volume: []*int64{pi(1000)},
		},
		[]*float64{pf(50)}, // ratio 0.5
	))

	series, err := suite.client().Fetch(context.Background(), FetchRequest{
		Ticker:     "AAPL",
		Period:     "1mo",
		Interval:   "1d",
		AutoAdjust: true,
	}, nil)
	suite.NoError(err)
	suite.Len(series.Bars, 1)

	bar := series.Bars[0]
	suite.Equal(50.0, *bar.Open)
	suite.Equal(55.0, *bar.High)
	suite.Equal(45.0, *bar.Low)
	suite.Equal(50.0, *bar.Close)
	suite.Equal(int64(1000), *bar.Volume)

	// The adjusted series replaces the raw one; no extra column remains.
	suite.NotContains(series.Columns, types.ColumnAdjClose)
}

func (suite *YahooTestSuite) TestFetchKeepsAdjCloseColumnWhenNotAdjusting() {
	suite.respondJSON(chartPayload(
		[]int64{1704153600},
		yahooQuote{
			Open:   []*float64{pf(100)},
			High:   []*float64{pf(110)},
			Low:    []*float64{pf(90)},
			Close:  []*float64{pf(100)},
			Volume: []*int64{pi(1000)},
		},
		[]*float64{pf(50)},
	))

	series, err := suite.client().Fetch(context.Background(), FetchRequest{
		Ticker:   "AAPL",
		Period:   "1mo",
		Interval: "1d",
	}, nil)
	suite.NoError(err)
	suite.Contains(series.Columns, types.ColumnAdjClose)
	suite.Equal(100.0, *series.Bars[0].Open)
	suite.Equal(50.0, *series.Bars[0].AdjClose)
}

func (suite *YahooTestSuite) TestFetchIntradayTimeColumn() {
	suite.respondJSON(chartPayload(
		[]int64{1704207600},
		yahooQuote{
			Open:   []*float64{pf(100)},
			High:   []*float64{pf(101)},
			Low:    []*float64{pf(99)},
			Close:  []*float64{pf(100.5)},
			Volume: []*int64{pi(500)},
		},
		nil,
	))

	series, err := suite.client().Fetch(context.Background(), FetchRequest{
		Ticker:   "AAPL",
		Period:   "1d",
		Interval: "1h",
	}, nil)
	suite.NoError(err)
	suite.Equal("Datetime", series.Columns[0])
}

func (suite *YahooTestSuite) TestFetchEmptyResultYieldsEmptySeries() {
	suite.respondJSON(`{"chart":{"result":[],"error":null}}`)

	series, err := suite.client().Fetch(context.Background(), FetchRequest{
		Ticker:   "INVALID-TICKER-XYZ",
		Period:   "1mo",
		Interval: "1d",
	}, nil)
	suite.NoError(err)
	suite.True(series.Empty())
}

func (suite *YahooTestSuite) TestFetchChartAPIError() {
	suite.respondJSON(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)

	_, err := suite.client().Fetch(context.Background(), FetchRequest{
		Ticker:   "DELISTED",
		Period:   "1mo",
		Interval: "1d",
	}, nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeFetchFailed))
	suite.Contains(err.Error(), "symbol may be delisted")
}

func (suite *YahooTestSuite) TestFetchNon200Status() {
	suite.response = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}

	_, err := suite.client().Fetch(context.Background(), FetchRequest{
		Ticker:   "AAPL",
		Period:   "1mo",
		Interval: "1d",
	}, nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeFetchFailed))
	suite.Contains(err.Error(), "429")
}

func (suite *YahooTestSuite) TestFetchMalformedJSON() {
	suite.respondJSON(`{"chart":`)

	_, err := suite.client().Fetch(context.Background(), FetchRequest{
		Ticker:   "AAPL",
		Period:   "1mo",
		Interval: "1d",
	}, nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeParseFailed))
}

func (suite *YahooTestSuite) TestFetchReportsProgress() {
	suite.respondJSON(chartPayload(
		[]int64{1704153600},
		yahooQuote{
			Open:   []*float64{pf(100)},
			High:   []*float64{pf(110)},
			Low:    []*float64{pf(90)},
			Close:  []*float64{pf(100)},
			Volume: []*int64{pi(1000)},
		},
		nil,
	))

	var calls int

	_, err := suite.client().Fetch(context.Background(), FetchRequest{
		Ticker:   "AAPL",
		Period:   "1mo",
		Interval: "1d",
	}, func(current, total float64, message string) {
		calls++
	})
	suite.NoError(err)
	suite.Equal(2, calls)
}
