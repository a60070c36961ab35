package engine

import (
	"context"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/journal"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// Lifecycle callback types for backtest phases
// All callbacks with error return can abort execution if they return an error

// OnBacktestStartCallback is called when a batch of runs begins.
type OnBacktestStartCallback func(totalRuns int) error

// OnBacktestEndCallback is called when a batch completes (always called via defer).
type OnBacktestEndCallback func(err error)

// OnRunStartCallback is called when a single run begins.
// runID is a unique identifier for this run, generated before processing starts.
type OnRunStartCallback func(runID string, strategyName string, totalBars int) error

// OnRunEndCallback is called when a single run completes successfully.
type OnRunEndCallback func(runID string, result types.BacktestResult)

// OnProcessDataCallback is called for each bar processed.
type OnProcessDataCallback func(current int, total int) error

// OnTradeCallback is called for each closed trade.
type OnTradeCallback func(trade types.Trade) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
// Batch runs may invoke the per-run callbacks concurrently.
type LifecycleCallbacks struct {
	OnBacktestStart *OnBacktestStartCallback
	OnBacktestEnd   *OnBacktestEndCallback
	OnRunStart      *OnRunStartCallback
	OnRunEnd        *OnRunEndCallback
	OnProcessData   *OnProcessDataCallback
	OnTrade         *OnTradeCallback
}

func (c LifecycleCallbacks) BacktestStart(totalRuns int) error {
	if c.OnBacktestStart == nil {
		return nil
	}

	return (*c.OnBacktestStart)(totalRuns)
}

func (c LifecycleCallbacks) BacktestEnd(err error) {
	if c.OnBacktestEnd != nil {
		(*c.OnBacktestEnd)(err)
	}
}

func (c LifecycleCallbacks) RunStart(runID string, strategyName string, totalBars int) error {
	if c.OnRunStart == nil {
		return nil
	}

	return (*c.OnRunStart)(runID, strategyName, totalBars)
}

func (c LifecycleCallbacks) RunEnd(runID string, result types.BacktestResult) {
	if c.OnRunEnd != nil {
		(*c.OnRunEnd)(runID, result)
	}
}

func (c LifecycleCallbacks) ProcessData(current int, total int) error {
	if c.OnProcessData == nil {
		return nil
	}

	return (*c.OnProcessData)(current, total)
}

func (c LifecycleCallbacks) Trade(trade types.Trade) error {
	if c.OnTrade == nil {
		return nil
	}

	return (*c.OnTrade)(trade)
}

type Engine interface {
	// Initialize the engine with the given yaml configuration.
	Initialize(config string) error
	// SetJournal sets the repository that receives the trades of every completed run.
	SetJournal(repository journal.Repository) error
	// Run backtests the configured strategy over candles, oldest first.
	// Input shorter than the minimum history yields an empty result and no error.
	// Use LifecycleCallbacks to receive notifications at different phases of the run.
	Run(ctx context.Context, candles []types.Candle, callbacks LifecycleCallbacks) (types.BacktestResult, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
