package indicator

import "github.com/KryptoMuratLive/bit-insight-sub000/internal/types"

// rsiEpsilon replaces a zero average loss.
const rsiEpsilon = 1e-10

// RSI is the Wilder relative strength index. Index 0 and any bar with neither
// gains nor losses in the smoothed averages read a neutral 50.
func RSI(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	out[0] = 50
	if len(values) == 1 {
		return out
	}

	gains := make([]float64, len(values)-1)
	losses := make([]float64, len(values)-1)

	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGain := WilderSmooth(gains, period)
	avgLoss := WilderSmooth(losses, period)

	for i := 1; i < len(values); i++ {
		gain := avgGain[i-1]
		loss := avgLoss[i-1]

		if gain == 0 && loss == 0 {
			out[i] = 50

			continue
		}

		if loss == 0 {
			loss = rsiEpsilon
		}

		out[i] = 100 - 100/(1+gain/loss)
	}

	return out
}

type rsiIndicator struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &rsiIndicator{
		period: 14,
	}
}

func (r *rsiIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config expects one parameter: period (int).
func (r *rsiIndicator) Config(params ...any) error {
	values, err := intParams(r.Name(), 1, params)
	if err != nil {
		return err
	}

	r.period = values[0]

	return nil
}

func (r *rsiIndicator) Calculate(candles []types.Candle) Output {
	return Output{"rsi": RSI(Closes(candles), r.period)}
}
