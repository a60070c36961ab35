package indicator

import (
	"math"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// TrueRange is max(high-low, |high-prevClose|, |low-prevClose|); the first bar uses high-low.
func TrueRange(candles []types.Candle) []float64 {
	out := make([]float64, len(candles))

	for i, c := range candles {
		if i == 0 {
			out[i] = c.High - c.Low

			continue
		}

		prevClose := candles[i-1].Close
		out[i] = math.Max(
			math.Max(c.High-c.Low, math.Abs(c.High-prevClose)),
			math.Abs(c.Low-prevClose),
		)
	}

	return out
}

// ATR is the Wilder-smoothed true range.
func ATR(candles []types.Candle, period int) []float64 {
	return WilderSmooth(TrueRange(candles), period)
}

type atrIndicator struct {
	period int
}

// NewATR creates a new ATR indicator with default configuration.
func NewATR() Indicator {
	return &atrIndicator{
		period: 14,
	}
}

func (a *atrIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

// Config expects one parameter: period (int).
func (a *atrIndicator) Config(params ...any) error {
	values, err := intParams(a.Name(), 1, params)
	if err != nil {
		return err
	}

	a.period = values[0]

	return nil
}

func (a *atrIndicator) Calculate(candles []types.Candle) Output {
	return Output{"atr": ATR(candles, a.period)}
}
