package engine

import (
	"context"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/backtest/engine"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/backtest/stats"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/journal"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/logger"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/metrics"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/strategy"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var _ engine.Engine = (*BacktestEngineV1)(nil)

type BacktestEngineV1 struct {
	config     BacktestEngineV1Config
	log        *logger.Logger
	strategies strategy.StrategyRegistry
	journal    journal.Repository
	metrics    *metrics.Metrics
}

// NewBacktestEngineV1 creates an engine with DefaultConfig and the preset
// strategies. A nil logger disables logging.
func NewBacktestEngineV1(log *logger.Logger) *BacktestEngineV1 {
	return &BacktestEngineV1{
		config:     DefaultConfig(),
		log:        logger.OrNop(log),
		strategies: strategy.NewDefaultStrategyRegistry(),
		journal:    nil,
		metrics:    nil,
	}
}

// Initialize implements engine.Engine. Fields missing from the yaml document
// keep their defaults.
func (b *BacktestEngineV1) Initialize(config string) error {
	parsed := DefaultConfig()
	if err := yaml.Unmarshal([]byte(config), &parsed); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if err := b.SetConfig(parsed); err != nil {
		return err
	}

	b.log.Debug("Backtest engine initialized",
		zap.String("strategy", parsed.Strategy),
		zap.Float64("initial_capital", parsed.InitialCapital),
	)

	return nil
}

// SetConfig validates and applies config.
func (b *BacktestEngineV1) SetConfig(config BacktestEngineV1Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	if _, err := b.strategies.GetStrategy(config.Strategy); err != nil {
		return err
	}

	b.config = config

	return nil
}

// Config returns the active configuration.
func (b *BacktestEngineV1) Config() BacktestEngineV1Config {
	return b.config
}

// SetJournal implements engine.Engine.
func (b *BacktestEngineV1) SetJournal(repository journal.Repository) error {
	b.journal = repository

	return nil
}

// SetMetrics sets the collectors updated after every run.
func (b *BacktestEngineV1) SetMetrics(m *metrics.Metrics) {
	b.metrics = m
}

// SetStrategyRegistry replaces the preset registry.
func (b *BacktestEngineV1) SetStrategyRegistry(registry strategy.StrategyRegistry) {
	b.strategies = registry
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	return config.GenerateSchemaJSON()
}

// Run implements engine.Engine. Invalid candles return an error. Input with
// fewer than MinBacktestBars bars after windowing returns an empty result.
// Cancellation is only observed before the simulation starts.
func (b *BacktestEngineV1) Run(ctx context.Context, candles []types.Candle, callbacks engine.LifecycleCallbacks) (types.BacktestResult, error) {
	if err := ctx.Err(); err != nil {
		return types.BacktestResult{}, errors.Wrap(errors.ErrCodeBacktestCancelled, "backtest cancelled before start", err)
	}

	if err := types.ValidateCandles(candles); err != nil {
		return types.BacktestResult{}, err
	}

	s, err := b.strategies.GetStrategy(b.config.Strategy)
	if err != nil {
		return types.BacktestResult{}, err
	}

	runID := uuid.New().String()
	candles = b.window(candles)

	result := types.BacktestResult{
		ID:        runID,
		Timestamp: time.Now().UTC(),
		Symbol:    b.symbol(candles),
		Strategy:  s.Name,
		Bars:      0,
		Metrics:   types.PerformanceMetrics{},
		Trades:    []types.Trade{},
		Signals:   []types.SignalEvent{},
		Equity:    []types.EquityPoint{},
		Skipped:   []types.SkippedEntry{},
	}

	if len(candles) < MinBacktestBars {
		b.log.Info("Not enough bars to backtest",
			zap.String("strategy", s.Name),
			zap.Int("bars", len(candles)),
			zap.Int("required", MinBacktestBars),
		)

		return result, nil
	}

	if err := callbacks.RunStart(runID, s.Name, len(candles)); err != nil {
		return types.BacktestResult{}, errors.Wrap(errors.ErrCodeCallbackFailed, "OnRunStart callback failed", err)
	}

	b.log.Info("Backtest started",
		zap.String("run_id", runID),
		zap.String("strategy", s.Name),
		zap.Int("bars", len(candles)),
	)

	events, err := s.Generator(strategy.Options{}, b.log).Generate(candles)
	if err != nil {
		return types.BacktestResult{}, err
	}

	sim := newSimulator(b.config, result.Symbol, candles, b.log, callbacks)
	if err := sim.run(candles, events); err != nil {
		return types.BacktestResult{}, err
	}

	result.Bars = len(candles)
	result.Signals = events
	result.Trades = sim.trades
	result.Equity = sim.equity
	result.Skipped = sim.skipped
	result.Metrics = stats.Analyze(sim.trades, sim.equity, b.config.InitialCapital)
	result.Metrics.BuyAndHoldReturnPercent = stats.BuyAndHoldReturnPercent(candles)

	if b.journal != nil && len(result.Trades) > 0 {
		if err := b.journal.Save(ctx, result.Trades); err != nil {
			return types.BacktestResult{}, errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to save trades to journal", err)
		}
	}

	b.metrics.ObserveBacktest(s.Name, len(result.Trades))

	b.log.Info("Backtest finished",
		zap.String("run_id", runID),
		zap.Int("signals", len(events)),
		zap.Int("trades", result.Metrics.TotalTrades),
		zap.Float64("total_pnl", result.Metrics.TotalPnL),
		zap.Float64("max_drawdown_percent", result.Metrics.MaxDrawdownPercent),
	)

	callbacks.RunEnd(runID, result)

	return result, nil
}

// RunBatch runs every config over the same candles with at most limit runs in
// flight. Each run gets its own engine, so runs share no state besides the
// journal and metrics. Results keep the order of configs.
func (b *BacktestEngineV1) RunBatch(ctx context.Context, configs []BacktestEngineV1Config, candles []types.Candle, limit int, callbacks engine.LifecycleCallbacks) (results []types.BacktestResult, err error) {
	defer func() {
		callbacks.BacktestEnd(err)
	}()

	if err := callbacks.BacktestStart(len(configs)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCallbackFailed, "OnBacktestStart callback failed", err)
	}

	runs := make([]*BacktestEngineV1, len(configs))
	for i, config := range configs {
		run := &BacktestEngineV1{
			config:     DefaultConfig(),
			log:        b.log,
			strategies: b.strategies,
			journal:    b.journal,
			metrics:    b.metrics,
		}

		if err := run.SetConfig(config); err != nil {
			return nil, err
		}

		runs[i] = run
	}

	results = make([]types.BacktestResult, len(configs))

	group, groupCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}

	for i, run := range runs {
		group.Go(func() error {
			result, err := run.Run(groupCtx, candles, callbacks)
			if err != nil {
				return err
			}

			results[i] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// window applies the optional time window and the lookback.
func (b *BacktestEngineV1) window(candles []types.Candle) []types.Candle {
	from, to := 0, len(candles)

	if b.config.StartTime.IsSome() {
		start := b.config.StartTime.Unwrap()
		for from < to && candles[from].Time.Before(start) {
			from++
		}
	}

	if b.config.EndTime.IsSome() {
		end := b.config.EndTime.Unwrap()
		for to > from && candles[to-1].Time.After(end) {
			to--
		}
	}

	if b.config.Lookback > 0 && to-from > b.config.Lookback {
		from = to - b.config.Lookback
	}

	return candles[from:to]
}

func (b *BacktestEngineV1) symbol(candles []types.Candle) string {
	if b.config.Symbol != "" || len(candles) == 0 {
		return b.config.Symbol
	}

	return candles[0].Symbol
}
