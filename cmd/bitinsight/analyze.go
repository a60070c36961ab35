package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator/sources"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/gate"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the result as JSON",
	}
}

func (a *app) aggregateCommand() *cli.Command {
	return &cli.Command{
		Name:  "aggregate",
		Usage: "Combine the built-in analyzer sources into one weighted signal",
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
				Usage:   "Aggregator yaml config",
			},
			jsonFlag(),
		},
		Action: a.aggregate,
	}
}

func (a *app) aggregate(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	data, err := readOptionalFile(cmd.String("config"))
	if err != nil {
		return err
	}

	config, err := aggregator.LoadConfig(data)
	if err != nil {
		return err
	}

	all, err := sources.Defaults(log)
	if err != nil {
		return err
	}

	agg, err := aggregator.NewAggregator(all, config, log, a.metrics)
	if err != nil {
		return err
	}

	candles, err := loadCandles(ctx, cmd.String("data"), log)
	if err != nil {
		return err
	}

	signal, err := agg.Aggregate(ctx, aggregator.Input{Symbol: symbolOf(candles), Candles: candles})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return a.printJSON(signal)
	}

	fmt.Fprintf(a.out, "%s %s %s %s\n", titleStyle.Render("Signal"), signal.Symbol, directionBadge(signal.Direction), signal.Strength)
	fmt.Fprintf(a.out, "  score       %.1f\n", signal.FinalScore)
	fmt.Fprintf(a.out, "  confidence  %.1f\n", signal.Confidence)
	fmt.Fprintf(a.out, "  risk        %s\n", signal.RiskLevel)

	for _, b := range signal.Breakdown {
		score := faintStyle.Render("n/a")
		if v, err := b.Score.Take(); err == nil {
			score = fmt.Sprintf("%+.3f", v)
		}

		detail := b.Label
		if b.Error != "" {
			detail = warnStyle.Render(b.Error)
		}

		fmt.Fprintf(a.out, "  %-10s  %8s  w=%.2f  %s\n", b.Name, score, b.Weight, detail)
	}

	fmt.Fprintf(a.out, "  %s\n", signal.Recommendation)

	for _, alert := range signal.Alerts {
		fmt.Fprintf(a.out, "  %s\n", warnStyle.Render(alert))
	}

	return nil
}

func (a *app) gateCommand() *cli.Command {
	return &cli.Command{
		Name:  "gate",
		Usage: "Decide GO or NO for one instrument across several timeframes",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "tf",
				Usage:    "Timeframe as `LABEL=FILE`, repeat for each timeframe",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Gate yaml config",
			},
			&cli.FloatFlag{
				Name:  "model-score",
				Usage: "External model score",
			},
			&cli.FloatFlag{
				Name:  "funding",
				Usage: "Current funding rate",
			},
			&cli.FloatFlag{
				Name:  "oi",
				Usage: "Open interest change in percent",
			},
			jsonFlag(),
		},
		Action: a.evaluateGate,
	}
}

func (a *app) evaluateGate(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	data, err := readOptionalFile(cmd.String("config"))
	if err != nil {
		return err
	}

	config, err := gate.LoadConfig(data)
	if err != nil {
		return err
	}

	g, err := gate.NewGate(config, log, a.metrics)
	if err != nil {
		return err
	}

	input := gate.Input{
		Timeframes:        make(map[string][]types.Candle),
		ModelScore:        optionalFloat(cmd, "model-score"),
		FundingRate:       optionalFloat(cmd, "funding"),
		OpenInterestDelta: optionalFloat(cmd, "oi"),
	}

	for _, tf := range cmd.StringSlice("tf") {
		label, path, err := parseTimeframe(tf)
		if err != nil {
			return err
		}

		candles, err := loadCandles(ctx, path, log)
		if err != nil {
			return err
		}

		input.Timeframes[label] = candles
		if input.Symbol == "" {
			input.Symbol = symbolOf(candles)
		}
	}

	decision, err := g.Evaluate(input)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return a.printJSON(decision)
	}

	side := "none"
	if s, err := decision.Side.Take(); err == nil {
		side = string(s)
	}

	fmt.Fprintf(a.out, "%s %s %s side=%s score=%.2f\n", titleStyle.Render("Gate"), decision.Symbol, statusBadge(decision.Status), side, decision.Score)

	for _, c := range decision.Criteria {
		fmt.Fprintf(a.out, "  %s  %-20s %s\n", passMark(c), c.Name, c.Reason)
	}

	return nil
}

// parseTimeframe splits LABEL=FILE.
func parseTimeframe(value string) (string, string, error) {
	label, path, ok := strings.Cut(value, "=")
	label = strings.TrimSpace(label)
	path = strings.TrimSpace(path)

	if !ok || label == "" || path == "" {
		return "", "", fmt.Errorf("invalid timeframe %q, expected LABEL=FILE", value)
	}

	return label, path, nil
}

func optionalFloat(cmd *cli.Command, name string) optional.Option[float64] {
	if !cmd.IsSet(name) {
		return optional.None[float64]()
	}

	return optional.Some(cmd.Float(name))
}

func symbolOf(candles []types.Candle) string {
	if len(candles) == 0 {
		return ""
	}

	return candles[len(candles)-1].Symbol
}

func (a *app) printJSON(v any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
