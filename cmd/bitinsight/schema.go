package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator"
	enginev1 "github.com/KryptoMuratLive/bit-insight-sub000/internal/backtest/engine/engine_v1"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/gate"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/indicator"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/utils"
	"github.com/urfave/cli/v3"
)

func (a *app) schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of a config file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Config kind (backtest, aggregator, gate)",
				Value: "backtest",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write the schema to `FILE` instead of stdout",
			},
		},
		Action: a.schema,
	}
}

func (a *app) schema(ctx context.Context, cmd *cli.Command) error {
	var (
		schema string
		err    error
	)

	switch kind := cmd.String("kind"); kind {
	case "backtest":
		config := enginev1.EmptyConfig()
		schema, err = config.GenerateSchemaJSON()
	case "aggregator":
		schema, err = utils.GetSchemaFromConfig(aggregator.DefaultConfig())
	case "gate":
		schema, err = utils.GetSchemaFromConfig(gate.DefaultConfig())
	default:
		return fmt.Errorf("unknown config kind %q", kind)
	}

	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if path := cmd.String("out"); path != "" {
		return os.WriteFile(path, []byte(schema), 0644)
	}

	fmt.Fprintln(a.out, schema)

	return nil
}

func (a *app) indicatorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "indicators",
		Usage: "Print the newest value of every built-in indicator",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Candle `FILE` (.csv or .parquet)",
				Required: true,
			},
		},
		Action: a.indicators,
	}
}

func (a *app) indicators(ctx context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	candles, err := loadCandles(ctx, cmd.String("data"), log)
	if err != nil {
		return err
	}

	registry := indicator.NewDefaultRegistry()
	names := registry.ListIndicators()
	slices.Sort(names)

	fmt.Fprintf(a.out, "%s %s %s\n", titleStyle.Render("Indicators"), symbolOf(candles), faintStyle.Render(fmt.Sprintf("%d bars", len(candles))))

	for _, name := range names {
		ind, err := registry.GetIndicator(name)
		if err != nil {
			return err
		}

		output := ind.Calculate(candles)
		for _, line := range slices.Sorted(maps.Keys(output)) {
			fmt.Fprintf(a.out, "  %-16s %-10s %.4f\n", name, line, output[line].Last())
		}
	}

	return nil
}
