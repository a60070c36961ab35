package indicator

import (
	"math"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
)

// ParabolicSAR computes the stop-and-reverse level with acceleration factor
// start, increment step and cap max. The first bar reads its own low.
func ParabolicSAR(candles []types.Candle, start, step, max float64) []float64 {
	n := len(candles)
	out := make([]float64, n)

	if n == 0 {
		return out
	}

	out[0] = candles[0].Low
	if n == 1 {
		return out
	}

	rising := candles[1].Close >= candles[0].Close
	sar := candles[0].Low
	extreme := candles[0].High

	if !rising {
		sar = candles[0].High
		extreme = candles[0].Low
	}

	af := start

	for i := 1; i < n; i++ {
		sar += af * (extreme - sar)

		if rising {
			sar = math.Min(sar, candles[i-1].Low)
			if i >= 2 {
				sar = math.Min(sar, candles[i-2].Low)
			}

			switch {
			case candles[i].Low < sar:
				rising = false
				sar = extreme
				extreme = candles[i].Low
				af = start
			case candles[i].High > extreme:
				extreme = candles[i].High
				af = math.Min(af+step, max)
			}
		} else {
			sar = math.Max(sar, candles[i-1].High)
			if i >= 2 {
				sar = math.Max(sar, candles[i-2].High)
			}

			switch {
			case candles[i].High > sar:
				rising = true
				sar = extreme
				extreme = candles[i].High
				af = start
			case candles[i].Low < extreme:
				extreme = candles[i].Low
				af = math.Min(af+step, max)
			}
		}

		out[i] = sar
	}

	return out
}

type parabolicSARIndicator struct {
	start float64
	step  float64
	max   float64
}

// NewParabolicSAR creates a new parabolic SAR with the 0.02/0.02/0.2 configuration.
func NewParabolicSAR() Indicator {
	return &parabolicSARIndicator{
		start: 0.02,
		step:  0.02,
		max:   0.2,
	}
}

func (p *parabolicSARIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeParabolicSAR
}

// Config expects three parameters: start, step and max acceleration (float64).
func (p *parabolicSARIndicator) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter, "parabolic_sar Config expects 3 parameters: start, step, max (float64)")
	}

	values := make([]float64, 3)

	for i, param := range params {
		v, err := floatParam(p.Name(), i, param)
		if err != nil {
			return err
		}

		values[i] = v
	}

	if values[0] > values[2] {
		return errors.Newf(errors.ErrCodeInvalidParameter, "parabolic_sar start %v exceeds max %v", values[0], values[2])
	}

	p.start, p.step, p.max = values[0], values[1], values[2]

	return nil
}

func (p *parabolicSARIndicator) Calculate(candles []types.Candle) Output {
	return Output{"sar": ParabolicSAR(candles, p.start, p.step, p.max)}
}
