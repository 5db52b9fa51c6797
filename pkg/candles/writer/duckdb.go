package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/naveensanjula975/candlestick-downloader/internal/types"
	"github.com/naveensanjula975/candlestick-downloader/pkg/errors"
)

// DuckDBWriter persists a candle table as a Parquet file by staging the rows
// in an in-memory DuckDB table and exporting it with COPY.
type DuckDBWriter struct {
	outputPath string
	createDirs bool
}

// NewDuckDBWriter creates a Parquet writer for the given output path.
func NewDuckDBWriter(outputPath string, createDirs bool) *DuckDBWriter {
	return &DuckDBWriter{
		outputPath: outputPath,
		createDirs: createDirs,
	}
}

// OutputPath implements TableWriter.
func (w *DuckDBWriter) OutputPath() string {
	return w.outputPath
}

// Write implements TableWriter.
func (w *DuckDBWriter) Write(table *types.Table) (err error) {
	if w.createDirs {
		if dir := filepath.Dir(w.outputPath); dir != "." {
			if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
				return errors.Wrapf(errors.ErrCodeWriteFailed, mkErr, "failed to create directory %s", dir)
			}
		}
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to open DuckDB connection", err)
	}

	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeWriteFailed, "failed to close db connection", cerr)
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS candles (
			id TEXT,
			date TIMESTAMP,
			ticker TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			adj_close DOUBLE,
			volume BIGINT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create table", err)
	}

	if err := w.insertCandles(db, table); err != nil {
		return err
	}

	// DuckDB's COPY takes the path as a literal, not a bind parameter.
	escapedPath := strings.ReplaceAll(w.outputPath, "'", "''")

	_, err = db.Exec(fmt.Sprintf(`COPY candles TO '%s' (FORMAT PARQUET)`, escapedPath))
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to export to Parquet", err)
	}

	return nil
}

func (w *DuckDBWriter) insertCandles(db *sql.DB, table *types.Table) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO candles (id, date, ticker, open, high, low, close, adj_close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to prepare statement", err)
	}
	defer stmt.Close()

	for _, candle := range table.Candles {
		_, err := stmt.Exec(
			uuid.New().String(),
			candle.Date,
			table.Ticker,
			candle.Open,
			candle.High,
			candle.Low,
			candle.Close,
			candle.AdjClose,
			candle.Volume,
		)
		if err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert candle", err)
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to commit transaction", err)
	}

	return nil
}
