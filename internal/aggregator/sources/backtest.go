package sources

import (
	"context"
	"fmt"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/backtest/engine"
	enginev1 "github.com/KryptoMuratLive/bit-insight-sub000/internal/backtest/engine/engine_v1"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/logger"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// Backtest replays a strategy over the input and trusts its latest signal
// as far as the strategy earned it: the score is the strategy's quality
// (win rate and expectancy sign) signed by the direction of its last signal.
type Backtest struct {
	config enginev1.BacktestEngineV1Config
	log    *logger.Logger
}

// NewBacktest validates config up front so Analyze only fails on input.
func NewBacktest(config enginev1.BacktestEngineV1Config, log *logger.Logger) (*Backtest, error) {
	if err := enginev1.NewBacktestEngineV1(log).SetConfig(config); err != nil {
		return nil, err
	}

	return &Backtest{
		config: config,
		log:    logger.OrNop(log),
	}, nil
}

func (b *Backtest) Name() string {
	return BacktestSourceName
}

func (b *Backtest) Analyze(ctx context.Context, input aggregator.Input) (aggregator.Score, error) {
	e := enginev1.NewBacktestEngineV1(b.log)
	if err := e.SetConfig(b.config); err != nil {
		return aggregator.Score{}, err
	}

	result, err := e.Run(ctx, input.Candles, engine.LifecycleCallbacks{})
	if err != nil {
		return aggregator.Score{}, err
	}

	if result.IsEmpty() {
		return aggregator.NullScore(insufficientData), nil
	}

	if len(result.Signals) == 0 || result.Metrics.TotalTrades == 0 {
		return aggregator.NewScore(0, fmt.Sprintf("%s produced no trades", result.Strategy)), nil
	}

	edge := -0.5
	if result.Metrics.Expectancy > 0 {
		edge = 0.5
	}

	quality := (result.Metrics.WinRate*2-1)*0.5 + edge

	direction := 1.0
	if result.Signals[len(result.Signals)-1].Kind == types.SignalKindSell {
		direction = -1
	}

	return aggregator.NewScore(quality*direction, fmt.Sprintf("%s: %d trades, win rate %.0f%%, last signal %s",
		result.Strategy, result.Metrics.TotalTrades, result.Metrics.WinRate*100,
		result.Signals[len(result.Signals)-1].Kind)), nil
}
