package sources

import (
	"context"
	"fmt"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/indicator"
)

// Pattern places the last close between the newest confirmed pivot support
// and resistance. Closing beyond a level is a full breakout reading; inside
// the range the score falls from +0.5 at support to -0.5 at resistance.
type Pattern struct {
	Period int
}

func NewPattern() *Pattern {
	return &Pattern{Period: 5}
}

func (p *Pattern) Name() string {
	return PatternSourceName
}

func (p *Pattern) Analyze(ctx context.Context, input aggregator.Input) (aggregator.Score, error) {
	if err := ctx.Err(); err != nil {
		return aggregator.Score{}, err
	}

	candles := input.Candles
	if len(candles) < 2*p.Period+1 {
		return aggregator.NullScore(insufficientData), nil
	}

	last := len(candles) - 1
	pivots := indicator.Pivots(candles, p.Period)

	lowAt, hasLow := indicator.LastConfirmedPivot(pivots, p.Period, last, indicator.PivotLow)
	highAt, hasHigh := indicator.LastConfirmedPivot(pivots, p.Period, last, indicator.PivotHigh)

	if !hasLow || !hasHigh {
		return aggregator.NullScore("no confirmed support and resistance"), nil
	}

	price := candles[last].Close
	support := candles[lowAt].Low
	resistance := candles[highAt].High

	switch {
	case price > resistance:
		return aggregator.NewScore(1, fmt.Sprintf("breakout above resistance %.2f", resistance)), nil
	case price < support:
		return aggregator.NewScore(-1, fmt.Sprintf("breakdown below support %.2f", support)), nil
	case resistance <= support:
		return aggregator.NewScore(0, "compressed range"), nil
	}

	position := (price - support) / (resistance - support)

	return aggregator.NewScore(0.5-position, fmt.Sprintf("%.0f%% of range %.2f-%.2f", position*100, support, resistance)), nil
}
