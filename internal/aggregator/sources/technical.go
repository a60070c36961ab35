// Package sources holds the built-in aggregator sources. Every source reads
// only closed candles and returns a null score instead of an error when the
// history is too short to have an opinion.
package sources

import (
	"context"
	"fmt"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/indicator"
)

const (
	TechnicalSourceName = "technical"
	MomentumSourceName  = "momentum"
	OrderFlowSourceName = "orderflow"
	PatternSourceName   = "pattern"
	BacktestSourceName  = "backtest"
	RiskSourceName      = aggregator.DefaultRiskSource
)

const insufficientData = "insufficient data"

// Technical blends the EMA trend, the MACD histogram and RSI.
type Technical struct {
	FastPeriod int
	SlowPeriod int
	RSIPeriod  int
}

func NewTechnical() *Technical {
	return &Technical{
		FastPeriod: 20,
		SlowPeriod: 50,
		RSIPeriod:  14,
	}
}

func (t *Technical) Name() string {
	return TechnicalSourceName
}

func (t *Technical) Analyze(ctx context.Context, input aggregator.Input) (aggregator.Score, error) {
	if err := ctx.Err(); err != nil {
		return aggregator.Score{}, err
	}

	if len(input.Candles) < t.SlowPeriod {
		return aggregator.NullScore(insufficientData), nil
	}

	closes := indicator.Closes(input.Candles)
	last := len(closes) - 1
	price := closes[last]

	if price <= 0 {
		return aggregator.NullScore("no price"), nil
	}

	fast := indicator.EMA(closes, t.FastPeriod)[last]
	slow := indicator.EMA(closes, t.SlowPeriod)[last]
	macd := indicator.MACD(closes, 12, 26, 9)
	rsi := indicator.RSI(closes, t.RSIPeriod)[last]

	// a 5% gap between the averages is a full trend reading
	trend := aggregator.Clamp((fast - slow) / slow * 20)
	// the histogram is scaled to half a percent of price
	histogram := aggregator.Clamp(macd.Histogram[last] / (price * 0.005))
	momentum := (rsi - 50) / 50

	score := (trend + histogram + momentum) / 3

	return aggregator.NewScore(score, fmt.Sprintf("trend %.2f, macd %.2f, rsi %.1f", trend, histogram, rsi)), nil
}
