package writer

import (
	"github.com/naveensanjula975/candlestick-downloader/internal/types"
)

// TableWriter defines the interface for persisting a candle table to a destination.
type TableWriter interface {
	// Write persists the whole table to the configured destination.
	Write(table *types.Table) error
	// OutputPath returns the configured output file path.
	OutputPath() string
}
