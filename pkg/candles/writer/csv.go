package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/naveensanjula975/candlestick-downloader/internal/types"
	"github.com/naveensanjula975/candlestick-downloader/pkg/errors"
)

// CSVWriter persists a candle table as a UTF-8 CSV file: one header row taken
// from the table's column order, one line per candle, no index column.
type CSVWriter struct {
	outputPath string
	createDirs bool
}

// NewCSVWriter creates a CSV writer for the given output path. When
// createDirs is set, missing parent directories are created on Write.
func NewCSVWriter(outputPath string, createDirs bool) *CSVWriter {
	return &CSVWriter{
		outputPath: outputPath,
		createDirs: createDirs,
	}
}

// OutputPath implements TableWriter.
func (w *CSVWriter) OutputPath() string {
	return w.outputPath
}

// Write implements TableWriter.
func (w *CSVWriter) Write(table *types.Table) error {
	if w.createDirs {
		if dir := filepath.Dir(w.outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create directory %s", dir)
			}
		}
	}

	file, err := os.Create(w.outputPath)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create %s", w.outputPath)
	}
	defer file.Close()

	cw := csv.NewWriter(file)

	if err := cw.Write(table.Columns); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to write header", err)
	}

	layout := table.Interval.TimeLayout()

	for _, candle := range table.Candles {
		record := make([]string, 0, len(table.Columns))

		for _, column := range table.Columns {
			record = append(record, formatField(candle, column, layout))
		}

		if err := cw.Write(record); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to write row", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to flush csv", err)
	}

	return nil
}

func formatField(candle types.Candle, column string, layout string) string {
	switch column {
	case types.ColumnDate:
		return candle.Date.Format(layout)
	case types.ColumnOpen:
		return formatPrice(candle.Open)
	case types.ColumnHigh:
		return formatPrice(candle.High)
	case types.ColumnLow:
		return formatPrice(candle.Low)
	case types.ColumnClose:
		return formatPrice(candle.Close)
	case types.ColumnAdjClose:
		return formatPrice(candle.AdjClose)
	case types.ColumnVolume:
		return strconv.FormatInt(candle.Volume, 10)
	default:
		return ""
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
