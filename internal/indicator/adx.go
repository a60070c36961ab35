package indicator

import (
	"math"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// ADXResult holds the directional lines in percent.
type ADXResult struct {
	ADX     []float64
	PlusDI  []float64
	MinusDI []float64
}

// ADX computes the average directional index. Directional movement and true
// range are Wilder-smoothed like ATR; DI lines are percentages of the smoothed
// true range and ADX is the smoothed DX.
func ADX(candles []types.Candle, period int) ADXResult {
	n := len(candles)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)

	for i := 1; i < n; i++ {
		up := candles[i].High - candles[i-1].High
		down := candles[i-1].Low - candles[i].Low

		if up > down && up > 0 {
			plusDM[i] = up
		}

		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	smoothedTR := WilderSmooth(TrueRange(candles), period)
	smoothedPlus := WilderSmooth(plusDM, period)
	smoothedMinus := WilderSmooth(minusDM, period)

	plusDI := make([]float64, n)
	minusDI := make([]float64, n)
	dx := make([]float64, n)

	for i := 0; i < n; i++ {
		if smoothedTR[i] > 0 {
			plusDI[i] = 100 * smoothedPlus[i] / smoothedTR[i]
			minusDI[i] = 100 * smoothedMinus[i] / smoothedTR[i]
		}

		if sum := plusDI[i] + minusDI[i]; sum > 0 {
			dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
		}
	}

	return ADXResult{
		ADX:     WilderSmooth(dx, period),
		PlusDI:  plusDI,
		MinusDI: minusDI,
	}
}

type adxIndicator struct {
	period int
}

// NewADX creates a new ADX indicator with default configuration.
func NewADX() Indicator {
	return &adxIndicator{
		period: 14,
	}
}

func (a *adxIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeADX
}

// Config expects one parameter: period (int).
func (a *adxIndicator) Config(params ...any) error {
	values, err := intParams(a.Name(), 1, params)
	if err != nil {
		return err
	}

	a.period = values[0]

	return nil
}

func (a *adxIndicator) Calculate(candles []types.Candle) Output {
	result := ADX(candles, a.period)

	return Output{
		"adx":      result.ADX,
		"plus_di":  result.PlusDI,
		"minus_di": result.MinusDI,
	}
}
