package aggregator

import (
	"context"
	"math"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/moznion/go-optional"
)

// Input is what every source sees for one aggregation.
type Input struct {
	Symbol  string
	Candles []types.Candle
}

// Score is the opinion of one source. Value is within [-1, 1] where positive
// is bullish; None means the source has no opinion.
type Score struct {
	Value optional.Option[float64]
	Label string
}

// NewScore returns a score clamped to [-1, 1]. A NaN value yields no opinion.
func NewScore(value float64, label string) Score {
	if math.IsNaN(value) {
		return NullScore(label)
	}

	return Score{
		Value: optional.Some(Clamp(value)),
		Label: label,
	}
}

// NullScore returns a score without an opinion.
func NullScore(label string) Score {
	return Score{
		Value: optional.None[float64](),
		Label: label,
	}
}

// Source is one independent analyzer. Analyze must respect ctx; a source
// that blocks past its deadline is abandoned and counted as timed out.
type Source interface {
	Name() string
	Analyze(ctx context.Context, input Input) (Score, error)
}

// Clamp limits v to [-1, 1].
func Clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
