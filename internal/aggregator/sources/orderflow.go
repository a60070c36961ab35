package sources

import (
	"context"
	"fmt"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator"
)

// OrderFlow approximates buy/sell pressure as volume signed by the candle body.
type OrderFlow struct {
	Lookback int
}

func NewOrderFlow() *OrderFlow {
	return &OrderFlow{Lookback: 20}
}

func (o *OrderFlow) Name() string {
	return OrderFlowSourceName
}

func (o *OrderFlow) Analyze(ctx context.Context, input aggregator.Input) (aggregator.Score, error) {
	if err := ctx.Err(); err != nil {
		return aggregator.Score{}, err
	}

	if len(input.Candles) < o.Lookback {
		return aggregator.NullScore(insufficientData), nil
	}

	var signed, total float64

	for _, c := range input.Candles[len(input.Candles)-o.Lookback:] {
		total += c.Volume

		switch {
		case c.Close > c.Open:
			signed += c.Volume
		case c.Close < c.Open:
			signed -= c.Volume
		}
	}

	if total == 0 {
		return aggregator.NullScore("no volume"), nil
	}

	imbalance := signed / total

	return aggregator.NewScore(imbalance, fmt.Sprintf("volume imbalance %.2f", imbalance)), nil
}
