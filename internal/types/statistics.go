package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PerformanceMetrics is the flat metric set derived from a trade ledger and an equity curve.
// Percent fields are expressed in percent (0-100).
type PerformanceMetrics struct {
	// Count of all trades.
	TotalTrades int `yaml:"total_trades" json:"total_trades"`
	// Count of trades with positive pnl.
	WinningTrades int `yaml:"winning_trades" json:"winning_trades"`
	// Count of trades with negative pnl.
	LosingTrades int `yaml:"losing_trades" json:"losing_trades"`
	// WinRate is winners / total as a fraction, 0 without trades.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	// AvgWin is the mean pnl of winning trades.
	AvgWin float64 `yaml:"avg_win" json:"avg_win"`
	// AvgLoss is the mean absolute pnl of losing trades.
	AvgLoss float64 `yaml:"avg_loss" json:"avg_loss"`
	// ProfitFactor is gross profit / gross loss, 0 without losers.
	ProfitFactor float64 `yaml:"profit_factor" json:"profit_factor"`
	// Expectancy is the expected pnl per trade.
	Expectancy float64 `yaml:"expectancy" json:"expectancy"`
	TotalPnL   float64 `yaml:"total_pnl" json:"total_pnl"`
	LargestWin float64 `yaml:"largest_win" json:"largest_win"`
	// LargestLoss is the most negative pnl, 0 without losers.
	LargestLoss        float64 `yaml:"largest_loss" json:"largest_loss"`
	TotalReturnPercent float64 `yaml:"total_return_percent" json:"total_return_percent"`
	MaxDrawdownPercent float64 `yaml:"max_drawdown_percent" json:"max_drawdown_percent"`
	SharpeRatio        float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	SortinoRatio       float64 `yaml:"sortino_ratio" json:"sortino_ratio"`
	CalmarRatio        float64 `yaml:"calmar_ratio" json:"calmar_ratio"`
	// Longest runs of losing and winning trades in ledger order.
	MaxConsecutiveLosses int `yaml:"max_consecutive_losses" json:"max_consecutive_losses"`
	MaxConsecutiveWins   int `yaml:"max_consecutive_wins" json:"max_consecutive_wins"`
	// Average holding time of a trade in seconds.
	AvgHoldingSeconds       int64   `yaml:"avg_holding_seconds" json:"avg_holding_seconds"`
	InitialEquity           float64 `yaml:"initial_equity" json:"initial_equity"`
	FinalEquity             float64 `yaml:"final_equity" json:"final_equity"`
	TotalFees               float64 `yaml:"total_fees" json:"total_fees"`
	BuyAndHoldReturnPercent float64 `yaml:"buy_and_hold_return_percent" json:"buy_and_hold_return_percent"`
}

// SkippedEntry records an entry signal the sizing policy rejected.
type SkippedEntry struct {
	Index  int       `yaml:"index" json:"index"`
	Time   time.Time `yaml:"time" json:"time"`
	Rule   string    `yaml:"rule" json:"rule"`
	Reason string    `yaml:"reason" json:"reason"`
}

// BacktestResult is the output of one backtest run.
type BacktestResult struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Symbol    string    `yaml:"symbol" json:"symbol"`
	Strategy  string    `yaml:"strategy" json:"strategy"`
	// Bars is the number of candles the simulation processed.
	Bars    int                `yaml:"bars" json:"bars"`
	Metrics PerformanceMetrics `yaml:"metrics" json:"metrics"`
	Trades  []Trade            `yaml:"trades" json:"trades"`
	Signals []SignalEvent      `yaml:"signals" json:"signals"`
	Equity  []EquityPoint      `yaml:"equity" json:"equity"`
	Skipped []SkippedEntry     `yaml:"skipped" json:"skipped"`
}

// IsEmpty reports whether the run produced nothing, which happens when the
// input was too short to backtest.
func (r BacktestResult) IsEmpty() bool {
	return r.Bars == 0
}

// WriteBacktestResult writes results as a yaml document.
func WriteBacktestResult(path string, results []BacktestResult) error {
	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest results to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest results to file: %w", err)
	}

	return nil
}

// ReadBacktestResult reads a yaml document written by WriteBacktestResult.
func ReadBacktestResult(path string) ([]BacktestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backtest results: %w", err)
	}

	var results []BacktestResult
	if err := yaml.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal backtest results: %w", err)
	}

	return results, nil
}
