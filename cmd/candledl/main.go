package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/naveensanjula975/candlestick-downloader/pkg/candles"
	"github.com/naveensanjula975/candlestick-downloader/pkg/candles/provider"
)

// downloadAction is the core logic executed by the CLI command.
// It merges flag and file configuration, sets up the downloader, and runs a
// single download-and-save cycle.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	downloaderConfig := candles.DownloaderConfig{
		Provider:      provider.Type(cmd.String("provider")),
		Format:        candles.Format(cmd.String("format")),
		OutputDir:     cmd.String("data"),
		PolygonAPIKey: os.Getenv("POLYGON_API_KEY"),
	}

	if configPath := cmd.String("config"); configPath != "" {
		fileConf, err := loadFileConfig(configPath)
		if err != nil {
			return err
		}

		if !cmd.IsSet("provider") && fileConf.Provider != "" {
			downloaderConfig.Provider = provider.Type(fileConf.Provider)
		}

		if !cmd.IsSet("format") && fileConf.Format != "" {
			downloaderConfig.Format = candles.Format(fileConf.Format)
		}

		if !cmd.IsSet("data") && fileConf.OutputDir != "" {
			downloaderConfig.OutputDir = fileConf.OutputDir
		}

		if fileConf.PolygonAPIKey != "" {
			downloaderConfig.PolygonAPIKey = fileConf.PolygonAPIKey
		}
	}

	downloader, err := candles.NewDownloader(downloaderConfig)
	if err != nil {
		return fmt.Errorf("failed to create downloader: %w", err)
	}
	defer downloader.Close()

	downloadConfig, err := candles.NewDownloadConfig(
		cmd.String("ticker"),
		cmd.String("period"),
		cmd.String("interval"),
		cmd.Bool("adjust"),
	)
	if err != nil {
		return err
	}

	downloadConfig.Progress = cmd.Bool("progress")

	if ok := downloader.DownloadAndSaveWithConfig(ctx, downloadConfig, cmd.String("out")); !ok {
		return cli.Exit("download failed", 1)
	}

	return nil
}

// schemaAction prints the JSON schema describing the download configuration.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	schema, err := candles.ConfigJSONSchema()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schema)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "candledl",
		Usage: "Download historical candlestick (OHLCV) data to CSV or Parquet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Ticker symbol (e.g. AAPL, BTC-USD, ^NSEI)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "period",
				Aliases: []string{"p"},
				Usage:   "Historical span: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max",
				Value:   candles.DefaultPeriod,
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Candle interval: 1m, 2m, 5m, 15m, 30m, 60m, 90m, 1h, 1d, 5d, 1wk, 1mo, 3mo",
				Value:   candles.DefaultInterval,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output filename; generated from ticker and timestamp when omitted",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the data output directory",
				Value:   "data",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: fmt.Sprintf("Data provider to use (%s, %s, %s)", provider.TypeYahoo, provider.TypePolygon, provider.TypeBinance),
				Value: string(provider.TypeYahoo),
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: fmt.Sprintf("Output format (%s, %s)", candles.FormatCSV, candles.FormatParquet),
				Value: string(candles.FormatCSV),
			},
			&cli.BoolFlag{
				Name:  "adjust",
				Usage: "Adjust OHLC values for splits and dividends",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show a progress bar while downloading",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML file with downloader defaults",
			},
		},
		Action: downloadAction,
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Print the JSON schema for the download configuration",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
