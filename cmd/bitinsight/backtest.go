package main

import (
	"context"
	"fmt"
	"os"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/backtest/engine"
	enginev1 "github.com/KryptoMuratLive/bit-insight-sub000/internal/backtest/engine/engine_v1"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/journal"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

func (a *app) backtestCommand() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Backtest a strategy over a candle file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Candle `FILE` (.csv or .parquet)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Backtest engine yaml config; missing fields keep their defaults",
			},
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "Override the configured strategy",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Result yaml `FILE`",
				Value:   "backtest-result.yaml",
			},
			&cli.StringFlag{
				Name:  "journal",
				Usage: "DuckDB `FILE` receiving the closed trades",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Export the journal to a parquet `FILE` after the run",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Hide the progress bar",
			},
		},
		Action: a.backtest,
	}
}

func (a *app) backtest(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	config, err := readOptionalFile(cmd.String("config"))
	if err != nil {
		return err
	}

	backtester := enginev1.NewBacktestEngineV1(log)
	backtester.SetMetrics(a.metrics)

	if err := backtester.Initialize(string(config)); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	if name := cmd.String("strategy"); name != "" {
		override := backtester.Config()
		override.Strategy = name

		if err := backtester.SetConfig(override); err != nil {
			return err
		}
	}

	if path := cmd.String("journal"); path != "" {
		repository, err := journal.NewDuckDBRepository(path, log)
		if err != nil {
			return err
		}
		defer repository.Close()

		if err := backtester.SetJournal(repository); err != nil {
			return err
		}

		if export := cmd.String("export"); export != "" {
			defer func() {
				if err := repository.Export(export); err != nil {
					fmt.Fprintf(os.Stderr, "%s\n", warnStyle.Render(err.Error()))
				}
			}()
		}
	}

	candles, err := loadCandles(ctx, cmd.String("data"), log)
	if err != nil {
		return err
	}

	callbacks := engine.LifecycleCallbacks{}
	if !cmd.Bool("no-progress") {
		callbacks.OnProcessData = progress(len(candles))
	}

	result, err := backtester.Run(ctx, candles, callbacks)
	if err != nil {
		return err
	}

	if err := types.WriteBacktestResult(cmd.String("out"), []types.BacktestResult{result}); err != nil {
		return err
	}

	a.printBacktest(result, cmd.String("out"))

	return nil
}

func progress(total int) *engine.OnProcessDataCallback {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("backtesting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	callback := engine.OnProcessDataCallback(func(current int, total int) error {
		return bar.Set(current)
	})

	return &callback
}

func (a *app) printBacktest(result types.BacktestResult, path string) {
	if result.IsEmpty() {
		fmt.Fprintf(a.out, "%s\n", warnStyle.Render(fmt.Sprintf("not enough candles to backtest, need %d", enginev1.MinBacktestBars)))

		return
	}

	m := result.Metrics

	fmt.Fprintf(a.out, "%s %s %s\n", titleStyle.Render("Backtest"), result.Symbol, faintStyle.Render(result.Strategy))
	fmt.Fprintf(a.out, "  bars           %d\n", result.Bars)
	fmt.Fprintf(a.out, "  trades         %d (%d won, %d lost)\n", m.TotalTrades, m.WinningTrades, m.LosingTrades)
	fmt.Fprintf(a.out, "  win rate       %.1f%%\n", 100*m.WinRate)
	fmt.Fprintf(a.out, "  total pnl      %s\n", formatPnL(m.TotalPnL))
	fmt.Fprintf(a.out, "  return         %.2f%% (buy and hold %.2f%%)\n", m.TotalReturnPercent, m.BuyAndHoldReturnPercent)
	fmt.Fprintf(a.out, "  max drawdown   %.2f%%\n", m.MaxDrawdownPercent)
	fmt.Fprintf(a.out, "  sharpe         %.3f\n", m.SharpeRatio)
	fmt.Fprintf(a.out, "  profit factor  %.3f\n", m.ProfitFactor)
	fmt.Fprintf(a.out, "  result         %s\n", path)
}
