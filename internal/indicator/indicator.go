// Package indicator computes technical indicators over ordered candles.
//
// Every function returns a series index-aligned with its input: the value at
// index i depends only on inputs at indices <= i, except for Pivots, whose
// value at i is confirmed only once period further bars exist. Empty input
// yields an empty series and nothing here returns an error or panics on
// short input.
package indicator

import (
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
)

// Output maps the named lines of an indicator to their series.
type Output map[string]types.IndicatorSeries

// Indicator interface defines methods that any registered indicator must implement.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config replaces the indicator parameters
	Config(params ...any) error
	// Calculate computes every line of the indicator
	Calculate(candles []types.Candle) Output
}

// Closes extracts the close prices.
func Closes(candles []types.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}

	return out
}

// Highs extracts the high prices.
func Highs(candles []types.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.High
	}

	return out
}

// Lows extracts the low prices.
func Lows(candles []types.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Low
	}

	return out
}

// Volumes extracts the volumes.
func Volumes(candles []types.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Volume
	}

	return out
}

// filled returns a series of n copies of v.
func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

// highestLowest returns the highest high and lowest low of candles[from:to+1].
func highestLowest(candles []types.Candle, from, to int) (float64, float64) {
	hh := candles[from].High
	ll := candles[from].Low

	for j := from + 1; j <= to; j++ {
		if candles[j].High > hh {
			hh = candles[j].High
		}

		if candles[j].Low < ll {
			ll = candles[j].Low
		}
	}

	return hh, ll
}

func windowStart(i, period int) int {
	start := i - period + 1
	if start < 0 {
		return 0
	}

	return start
}

// intParams validates that params holds exactly want positive ints.
func intParams(name types.IndicatorType, want int, params []any) ([]int, error) {
	if len(params) != want {
		return nil, errors.Newf(errors.ErrCodeMissingParameter, "%s Config expects %d parameter(s), got %d", name, want, len(params))
	}

	out := make([]int, want)

	for i, p := range params {
		v, ok := p.(int)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter %d, expected int", name, i)
		}

		if v <= 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "%s period must be a positive integer, got %d", name, v)
		}

		out[i] = v
	}

	return out, nil
}

func floatParam(name types.IndicatorType, index int, p any) (float64, error) {
	switch v := p.(type) {
	case float64:
		if v <= 0 {
			return 0, errors.Newf(errors.ErrCodeInvalidMultiplier, "%s parameter %d must be positive, got %v", name, index, v)
		}

		return v, nil
	case int:
		return floatParam(name, index, float64(v))
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter %d, expected float64", name, index)
	}
}
