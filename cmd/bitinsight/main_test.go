package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/strategy"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/mocks"
	bierrors "github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CLITestSuite struct {
	suite.Suite
	dir string
	out *bytes.Buffer
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (suite *CLITestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.out = &bytes.Buffer{}
}

func (suite *CLITestSuite) writeCSV(name string, candles []types.Candle) string {
	var b strings.Builder

	b.WriteString("time,symbol,open,high,low,close,volume\n")

	for _, c := range candles {
		fmt.Fprintf(&b, "%s,%s,%.4f,%.4f,%.4f,%.4f,%.4f\n",
			c.Time.Format("2006-01-02 15:04:05"), c.Symbol, c.Open, c.High, c.Low, c.Close, c.Volume)
	}

	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(b.String()), 0644))

	return path
}

func (suite *CLITestSuite) run(args ...string) error {
	suite.out.Reset()

	return newApp(suite.out).command().Run(context.Background(), append([]string{"bitinsight"}, args...))
}

func (suite *CLITestSuite) TestParseTimeframe() {
	tests := []struct {
		value string
		label string
		path  string
		ok    bool
	}{
		{"1h=data/1h.csv", "1h", "data/1h.csv", true},
		{" 4h = a=b.parquet", "4h", "a=b.parquet", true},
		{"1h", "", "", false},
		{"=file.csv", "", "", false},
		{"15m=", "", "", false},
	}

	for _, tt := range tests {
		suite.Run(tt.value, func() {
			label, path, err := parseTimeframe(tt.value)
			if !tt.ok {
				suite.Error(err)

				return
			}

			suite.Require().NoError(err)
			suite.Equal(tt.label, label)
			suite.Equal(tt.path, path)
		})
	}
}

func (suite *CLITestSuite) TestSchema() {
	suite.Require().NoError(suite.run("schema"))
	suite.Contains(suite.out.String(), "initial_capital")

	path := filepath.Join(suite.dir, "schema.json")
	suite.Require().NoError(suite.run("schema", "--out", path))

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(data), "stop_type")

	suite.Require().NoError(suite.run("schema", "--kind", "gate"))
	suite.Contains(suite.out.String(), "min_adx")

	suite.Require().NoError(suite.run("schema", "--kind", "aggregator"))
	suite.Contains(suite.out.String(), "weights")

	suite.Error(suite.run("schema", "--kind", "broker"))
}

func (suite *CLITestSuite) TestBacktest() {
	data := suite.writeCSV("candles.csv", mocks.InvertedV(300, 100, 1))
	out := filepath.Join(suite.dir, "result.yaml")
	metricsFile := filepath.Join(suite.dir, "metrics.prom")
	export := filepath.Join(suite.dir, "trades.parquet")

	err := suite.run("--metrics-file", metricsFile,
		"backtest", "--data", data, "--strategy", strategy.GoldenCrossStrategy, "--out", out,
		"--journal", filepath.Join(suite.dir, "journal.db"), "--export", export, "--no-progress")
	suite.Require().NoError(err)

	results, err := types.ReadBacktestResult(out)
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal(strategy.GoldenCrossStrategy, results[0].Strategy)
	suite.Len(results[0].Trades, 1)
	suite.Contains(suite.out.String(), "trades         1")

	prom, err := os.ReadFile(metricsFile)
	suite.Require().NoError(err)
	suite.Contains(string(prom), `bitinsight_backtest_runs_total{strategy="golden_cross"} 1`)

	suite.FileExists(export)
}

func (suite *CLITestSuite) TestBacktestErrors() {
	data := suite.writeCSV("candles.csv", mocks.Flat(150, 100))

	suite.Error(suite.run("backtest", "--data", data, "--strategy", "moon", "--no-progress"))
	suite.Error(suite.run("backtest", "--data", filepath.Join(suite.dir, "candles.txt"), "--no-progress"))
	suite.Error(suite.run("--log-level", "loud", "backtest", "--data", data))

	reversed := mocks.Linear(150, 100, 1)
	slices.Reverse(reversed)

	err := suite.run("backtest", "--data", suite.writeCSV("reversed.csv", reversed), "--no-progress")
	suite.True(bierrors.HasCode(err, bierrors.ErrCodeNonMonotonicTime))
}

func (suite *CLITestSuite) TestAggregate() {
	config := mocks.DefaultConfig()
	config.Count = 300
	data := suite.writeCSV("candles.csv", mocks.NewDataGenerator(3).Generate(config))

	suite.Require().NoError(suite.run("aggregate", "--data", data, "--json"))

	var signal types.AggregatedSignal
	suite.Require().NoError(json.Unmarshal(suite.out.Bytes(), &signal))
	suite.Len(signal.Breakdown, 6)
	suite.Equal("BTCUSDT", signal.Symbol)

	suite.Require().NoError(suite.run("aggregate", "--data", data))
	suite.Contains(suite.out.String(), "confidence")
}

func (suite *CLITestSuite) TestGate() {
	up := suite.writeCSV("up.csv", mocks.Linear(120, 100, 1))

	err := suite.run("gate", "--tf", "15m="+up, "--tf", "1h="+up, "--tf", "4h="+up, "--model-score", "0.9", "--json")
	suite.Require().NoError(err)

	var decision types.GateDecision
	suite.Require().NoError(json.Unmarshal(suite.out.Bytes(), &decision))
	suite.Equal(types.GateStatusGo, decision.Status)
	suite.Equal(types.PositionSideLong, decision.Side.Unwrap())
	suite.Len(decision.Reasons, 6)

	suite.Require().NoError(suite.run("gate", "--tf", "15m="+up, "--tf", "1h="+up, "--tf", "4h="+up))
	suite.Contains(suite.out.String(), "not available")

	suite.Error(suite.run("gate", "--tf", "15m="+up, "--tf", "1h="+up))
	suite.Error(suite.run("gate", "--tf", "15m", "--tf", "1h="+up, "--tf", "4h="+up))
}

func (suite *CLITestSuite) TestIndicators() {
	data := suite.writeCSV("candles.csv", mocks.Linear(60, 100, 1))

	suite.Require().NoError(suite.run("indicators", "--data", data))
	suite.Contains(suite.out.String(), "60 bars")
	suite.Contains(suite.out.String(), "rsi")
}
