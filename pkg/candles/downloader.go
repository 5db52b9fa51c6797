package candles

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/naveensanjula975/candlestick-downloader/internal/logger"
	"github.com/naveensanjula975/candlestick-downloader/internal/types"
	"github.com/naveensanjula975/candlestick-downloader/pkg/candles/provider"
	"github.com/naveensanjula975/candlestick-downloader/pkg/candles/writer"
	"github.com/naveensanjula975/candlestick-downloader/pkg/errors"
)

// Format defines the output file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// DownloaderConfig holds the configuration for a Downloader.
type DownloaderConfig struct {
	Provider      provider.Type `validate:"omitempty,oneof=yahoo polygon binance"`
	Format        Format        `validate:"omitempty,oneof=csv parquet"`
	OutputDir     string
	PolygonAPIKey string `validate:"required_if=Provider polygon"`
}

// Downloader composes a market data provider with an output writer. Download
// failures never propagate as errors: the absent result is the uniform
// failure signal, and save operations report success as a boolean. The only
// error a caller ever receives is a configuration validation failure.
type Downloader struct {
	config   DownloaderConfig
	provider provider.Provider
	logger   *logger.Logger
}

// NewDownloader creates a downloader with the given configuration. Zero-value
// fields fall back to the Yahoo provider, CSV output and the current
// directory; the output directory is created if missing.
func NewDownloader(config DownloaderConfig) (*Downloader, error) {
	if config.Provider == "" {
		config.Provider = provider.TypeYahoo
	}

	if config.Format == "" {
		config.Format = FormatCSV
	}

	if config.OutputDir == "" {
		config.OutputDir = "."
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid downloader configuration", err)
	}

	var providerConfig any
	if config.Provider == provider.TypePolygon {
		providerConfig = config.PolygonAPIKey
	}

	marketProvider, err := provider.NewProvider(config.Provider, providerConfig)
	if err != nil {
		return nil, err
	}

	return newDownloader(config, marketProvider)
}

// NewDownloaderWithProvider creates a downloader with an externally
// constructed provider. Used by tests and by callers with custom providers.
func NewDownloaderWithProvider(config DownloaderConfig, marketProvider provider.Provider) (*Downloader, error) {
	if config.Format == "" {
		config.Format = FormatCSV
	}

	if config.OutputDir == "" {
		config.OutputDir = "."
	}

	return newDownloader(config, marketProvider)
}

func newDownloader(config DownloaderConfig, marketProvider provider.Provider) (*Downloader, error) {
	log, err := logger.NewLogger()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to create output directory %s", config.OutputDir)
	}

	log.Info("initialized downloader",
		zap.String("provider", marketProvider.Name()),
		zap.String("output_dir", config.OutputDir),
	)

	return &Downloader{
		config:   config,
		provider: marketProvider,
		logger:   log,
	}, nil
}

// Download fetches and normalizes candle data for a ticker. It returns an
// error only when the parameters fail validation (empty ticker); every other
// failure is logged and reported as None.
func (d *Downloader) Download(ctx context.Context, ticker, period, interval string, autoAdjust bool) (optional.Option[types.Table], error) {
	config, err := NewDownloadConfig(ticker, period, interval, autoAdjust)
	if err != nil {
		return optional.None[types.Table](), err
	}

	return d.DownloadWithConfig(ctx, config), nil
}

// DownloadWithConfig fetches and normalizes candle data using an already
// validated configuration. An empty provider result and a provider failure
// both yield None; the distinction is visible only in the logs.
func (d *Downloader) DownloadWithConfig(ctx context.Context, config DownloadConfig) optional.Option[types.Table] {
	if !types.Period(config.Period).Valid() {
		d.logger.Warn("unrecognized period, passing through to provider",
			zap.String("period", config.Period),
		)
	}

	if !types.Interval(config.Interval).Valid() {
		d.logger.Warn("unrecognized interval, passing through to provider",
			zap.String("interval", config.Interval),
		)
	}

	d.logger.Info("downloading",
		zap.String("ticker", config.Ticker),
		zap.String("period", config.Period),
		zap.String("interval", config.Interval),
	)

	series, err := d.provider.Fetch(ctx, provider.FetchRequest{
		Ticker:     config.Ticker,
		Period:     config.Period,
		Interval:   config.Interval,
		AutoAdjust: config.AutoAdjust,
	}, d.progressCallback(config))
	if err != nil {
		d.logger.Error("download failed",
			zap.String("ticker", config.Ticker),
			zap.String("kind", errors.GetCode(err).String()),
			zap.Error(err),
		)

		return optional.None[types.Table]()
	}

	if series.Empty() {
		d.logger.Warn("no data found",
			zap.String("ticker", config.Ticker),
			zap.String("period", config.Period),
			zap.String("interval", config.Interval),
		)

		return optional.None[types.Table]()
	}

	table := normalize(series, types.Interval(config.Interval), d.logger)

	d.logger.Info("download complete",
		zap.String("ticker", config.Ticker),
		zap.Int("rows", len(table.Candles)),
	)

	return optional.Some(table)
}

// progressCallback returns a progress bar callback when the config asks for
// one, nil otherwise.
func (d *Downloader) progressCallback(config DownloadConfig) provider.OnProgress {
	if !config.Progress {
		return nil
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", config.Ticker)),
		progressbar.OptionShowCount(),
	)

	return func(current, total float64, message string) {
		if total > 0 {
			bar.Set(int(current / total * 100))
		}
	}
}

// SaveToCSV persists a downloaded table as CSV. An absent or empty table is a
// warning and a false return; I/O failures are logged and reported as false.
// No error ever propagates to the caller.
func (d *Downloader) SaveToCSV(table optional.Option[types.Table], filename string) bool {
	return d.save(table, filename, FormatCSV)
}

// Save persists a downloaded table in the downloader's configured format.
func (d *Downloader) Save(table optional.Option[types.Table], filename string) bool {
	return d.save(table, filename, d.config.Format)
}

func (d *Downloader) save(table optional.Option[types.Table], filename string, format Format) bool {
	t, err := table.Take()
	if err != nil || t.Empty() {
		d.logger.Warn("no data to save", zap.String("filename", filename))

		return false
	}

	path := d.resolvePath(filename)

	var w writer.TableWriter

	switch format {
	case FormatParquet:
		w = writer.NewDuckDBWriter(path, true)
	default:
		w = writer.NewCSVWriter(path, true)
	}

	if err := w.Write(&t); err != nil {
		d.logger.Error("save failed",
			zap.String("path", path),
			zap.String("kind", errors.GetCode(err).String()),
			zap.Error(err),
		)

		return false
	}

	d.logger.Info("saved",
		zap.String("path", path),
		zap.Int("rows", len(t.Candles)),
	)

	return true
}

// resolvePath places bare filenames under the configured output directory.
// Filenames that already carry a directory component are honored as given.
func (d *Downloader) resolvePath(filename string) string {
	if filepath.Dir(filename) == "." {
		return filepath.Join(d.config.OutputDir, filepath.Base(filename))
	}

	return filename
}

// DownloadAndSave composes Download and Save. When filename is empty one is
// synthesized as {TICKER}_{period}_{interval}_{YYYYMMDD_HHMMSS} with the
// format's extension. A failed download short-circuits to false without
// writing anything.
func (d *Downloader) DownloadAndSave(ctx context.Context, ticker, filename, period, interval string, autoAdjust bool) (bool, error) {
	config, err := NewDownloadConfig(ticker, period, interval, autoAdjust)
	if err != nil {
		return false, err
	}

	return d.DownloadAndSaveWithConfig(ctx, config, filename), nil
}

// DownloadAndSaveWithConfig is DownloadAndSave for an already validated
// configuration.
func (d *Downloader) DownloadAndSaveWithConfig(ctx context.Context, config DownloadConfig, filename string) bool {
	table := d.DownloadWithConfig(ctx, config)
	if table.IsNone() {
		return false
	}

	if filename == "" {
		filename = d.autoFilename(config, time.Now())
	}

	return d.Save(table, filename)
}

func (d *Downloader) autoFilename(config DownloadConfig, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%s%s",
		config.Ticker,
		config.Period,
		config.Interval,
		now.Format("20060102_150405"),
		d.fileExtension(),
	)
}

func (d *Downloader) fileExtension() string {
	if d.config.Format == FormatParquet {
		return ".parquet"
	}

	return ".csv"
}

// Close flushes the downloader's logger.
func (d *Downloader) Close() error {
	return d.logger.Sync()
}
