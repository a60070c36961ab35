package sources

import (
	"context"
	"fmt"
	"math"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/indicator"
)

// Risk scores market risk, not direction: +1 is calm, -1 is ATR or drawdown
// at or beyond its ceiling.
type Risk struct {
	ATRPeriod          int
	Lookback           int
	MaxATRPercent      float64
	MaxDrawdownPercent float64
}

func NewRisk() *Risk {
	return &Risk{
		ATRPeriod:          14,
		Lookback:           50,
		MaxATRPercent:      5,
		MaxDrawdownPercent: 20,
	}
}

func (r *Risk) Name() string {
	return RiskSourceName
}

func (r *Risk) Analyze(ctx context.Context, input aggregator.Input) (aggregator.Score, error) {
	if err := ctx.Err(); err != nil {
		return aggregator.Score{}, err
	}

	candles := input.Candles
	if len(candles) < r.ATRPeriod+1 {
		return aggregator.NullScore(insufficientData), nil
	}

	last := len(candles) - 1
	price := candles[last].Close

	if price <= 0 {
		return aggregator.NullScore("no price"), nil
	}

	atrPercent := indicator.ATR(candles, r.ATRPeriod)[last] / price * 100

	peak := 0.0
	for _, c := range candles[max(0, len(candles)-r.Lookback):] {
		peak = math.Max(peak, c.Close)
	}

	drawdown := (peak - price) / peak * 100

	volatility := 1 - 2*math.Min(atrPercent/r.MaxATRPercent, 1)
	decline := 1 - 2*math.Min(drawdown/r.MaxDrawdownPercent, 1)

	return aggregator.NewScore((volatility+decline)/2, fmt.Sprintf("atr %.2f%%, drawdown %.2f%%", atrPercent, drawdown)), nil
}
