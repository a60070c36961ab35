package indicator

import "github.com/KryptoMuratLive/bit-insight-sub000/internal/types"

// EMA is the exponential moving average with k = 2/(period+1), seeded with
// values[0] so that the output covers every input index.
func EMA(values []float64, period int) []float64 {
	if period < 1 {
		period = 1
	}

	return smooth(values, 2.0/float64(period+1))
}

// WilderSmooth is the exponential recursion with k = 1/period used by ATR, ADX and RSI.
func WilderSmooth(values []float64, period int) []float64 {
	if period < 1 {
		period = 1
	}

	return smooth(values, 1.0/float64(period))
}

// smooth applies out[i] = out[i-1] + k*(v[i]-out[i-1]). This form keeps a
// constant input exactly constant.
func smooth(values []float64, k float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = out[i-1] + k*(values[i]-out[i-1])
	}

	return out
}

type emaIndicator struct {
	period int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &emaIndicator{
		period: 20,
	}
}

func (e *emaIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config expects one parameter: period (int).
func (e *emaIndicator) Config(params ...any) error {
	values, err := intParams(e.Name(), 1, params)
	if err != nil {
		return err
	}

	e.period = values[0]

	return nil
}

func (e *emaIndicator) Calculate(candles []types.Candle) Output {
	return Output{"ema": EMA(Closes(candles), e.period)}
}
