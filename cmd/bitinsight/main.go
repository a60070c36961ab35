package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/datasource"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/logger"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/metrics"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/version"
	"github.com/moznion/go-optional"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	out      io.Writer
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newApp(out io.Writer) *app {
	registry := prometheus.NewRegistry()

	return &app{
		out:      out,
		registry: registry,
		metrics:  metrics.New(registry),
	}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:    "bitinsight",
		Version: version.GetVersion(),
		Usage: "Backtest strategies, aggregate analyzer signals and run the precision gate over candle files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics in text format to `FILE` when the command finishes",
			},
		},
		Commands: []*cli.Command{
			a.backtestCommand(),
			a.aggregateCommand(),
			a.gateCommand(),
			a.schemaCommand(),
			a.indicatorsCommand(),
		},
		After: a.writeMetrics,
	}
}

func (a *app) writeMetrics(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("metrics-file")
	if path == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}

	return nil
}

func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	level, err := zapcore.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	// stdout carries command output
	return logger.NewLoggerWithOutput(level, "stderr")
}

// loadCandles reads every candle of a .csv or .parquet file, oldest first.
func loadCandles(ctx context.Context, path string, log *logger.Logger) ([]types.Candle, error) {
	ds, err := datasource.NewDataSource(log)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	if err := ds.Initialize(path); err != nil {
		return nil, err
	}

	return ds.ReadAll(ctx, optional.None[time.Time](), optional.None[time.Time]())
}

// readOptionalFile returns nil when path is empty.
func readOptionalFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return data, nil
}

func main() {
	if err := newApp(os.Stdout).command().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
