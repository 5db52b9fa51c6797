package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/naveensanjula975/candlestick-downloader/internal/types"
)

type CSVWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestCSVWriterSuite(t *testing.T) {
	suite.Run(t, new(CSVWriterTestSuite))
}

func (suite *CSVWriterTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func dailyTable() *types.Table {
	return &types.Table{
		Ticker:   "AAPL",
		Columns:  types.RequiredColumns(),
		Interval: types.IntervalOneDay,
		Candles: []types.Candle{
			{
				Date:   time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
				Open:   185.5,
				High:   187.25,
				Low:    184.0,
				Close:  186.75,
				Volume: 52000000,
			},
			{
				Date:   time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC),
				Open:   184.0,
				High:   185.5,
				Low:    183.0,
				Close:  184.25,
				Volume: 48000000,
			},
		},
	}
}

func (suite *CSVWriterTestSuite) readAll(path string) [][]string {
	file, err := os.Open(path)
	suite.Require().NoError(err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	suite.Require().NoError(err)

	return records
}

func (suite *CSVWriterTestSuite) TestWriteDailyTable() {
	path := filepath.Join(suite.tempDir, "daily.csv")
	w := NewCSVWriter(path, false)
	suite.Equal(path, w.OutputPath())

	suite.NoError(w.Write(dailyTable()))

	records := suite.readAll(path)
	suite.Len(records, 3)
	suite.Equal(types.RequiredColumns(), records[0])
	suite.Equal([]string{"2024-01-02", "185.5", "187.25", "184", "186.75", "52000000"}, records[1])
	suite.Equal([]string{"2024-01-03", "184", "185.5", "183", "184.25", "48000000"}, records[2])
}

func (suite *CSVWriterTestSuite) TestWriteIntradayDateFormat() {
	table := dailyTable()
	table.Interval = types.IntervalOneHour
	table.Candles = table.Candles[:1]
	table.Candles[0].Date = time.Date(2024, time.January, 2, 14, 30, 0, 0, time.UTC)

	path := filepath.Join(suite.tempDir, "intraday.csv")
	suite.NoError(NewCSVWriter(path, false).Write(table))

	records := suite.readAll(path)
	suite.Equal("2024-01-02 14:30:00", records[1][0])
}

func (suite *CSVWriterTestSuite) TestWriteAdjCloseColumn() {
	table := dailyTable()
	table.Columns = append(table.Columns, types.ColumnAdjClose)
	table.Candles = table.Candles[:1]
	table.Candles[0].AdjClose = 186.1

	path := filepath.Join(suite.tempDir, "adj.csv")
	suite.NoError(NewCSVWriter(path, false).Write(table))

	records := suite.readAll(path)
	suite.Equal(types.ColumnAdjClose, records[0][6])
	suite.Equal("186.1", records[1][6])
}

func (suite *CSVWriterTestSuite) TestWriteEmptyTableHeaderOnly() {
	table := dailyTable()
	table.Candles = nil

	path := filepath.Join(suite.tempDir, "empty.csv")
	suite.NoError(NewCSVWriter(path, false).Write(table))

	records := suite.readAll(path)
	suite.Len(records, 1)
	suite.Equal(types.RequiredColumns(), records[0])
}

func (suite *CSVWriterTestSuite) TestCreateDirs() {
	path := filepath.Join(suite.tempDir, "nested", "deep", "out.csv")

	suite.NoError(NewCSVWriter(path, true).Write(dailyTable()))
	suite.FileExists(path)
}

func (suite *CSVWriterTestSuite) TestMissingDirWithoutCreateDirs() {
	path := filepath.Join(suite.tempDir, "missing", "out.csv")

	err := NewCSVWriter(path, false).Write(dailyTable())
	suite.Error(err)
	suite.NoFileExists(path)
}
