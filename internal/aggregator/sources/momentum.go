package sources

import (
	"context"
	"fmt"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/indicator"
)

// Momentum averages the rate of change with the Stochastic %K.
type Momentum struct {
	ROCPeriod int
	KPeriod   int
	DPeriod   int
}

func NewMomentum() *Momentum {
	return &Momentum{
		ROCPeriod: 10,
		KPeriod:   14,
		DPeriod:   3,
	}
}

func (m *Momentum) Name() string {
	return MomentumSourceName
}

func (m *Momentum) Analyze(ctx context.Context, input aggregator.Input) (aggregator.Score, error) {
	if err := ctx.Err(); err != nil {
		return aggregator.Score{}, err
	}

	candles := input.Candles
	if len(candles) <= max(m.ROCPeriod, m.KPeriod+m.DPeriod) {
		return aggregator.NullScore(insufficientData), nil
	}

	last := len(candles) - 1
	base := candles[last-m.ROCPeriod].Close

	if base <= 0 {
		return aggregator.NullScore("no price"), nil
	}

	roc := (candles[last].Close/base - 1) * 100
	k := indicator.Stochastic(candles, m.KPeriod, m.DPeriod).K[last]

	// a 10% move over the period is a full reading
	score := (aggregator.Clamp(roc/10) + (k-50)/50) / 2

	return aggregator.NewScore(score, fmt.Sprintf("roc %.2f%%, stochastic %.1f", roc, k)), nil
}
