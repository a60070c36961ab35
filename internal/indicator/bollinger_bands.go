package indicator

import (
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
)

// BollingerResult holds the band lines.
type BollingerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger is SMA(period) plus and minus k population standard deviations.
func Bollinger(values []float64, period int, k float64) BollingerResult {
	middle := SMA(values, period)
	std := StdDev(values, period)

	result := BollingerResult{
		Upper:  make([]float64, len(values)),
		Middle: middle,
		Lower:  make([]float64, len(values)),
	}

	for i := range values {
		result.Upper[i] = middle[i] + k*std[i]
		result.Lower[i] = middle[i] - k*std[i]
	}

	return result
}

type bollingerIndicator struct {
	period int
	k      float64
}

// NewBollingerBands creates a new Bollinger Bands indicator with the 20/2 configuration.
func NewBollingerBands() Indicator {
	return &bollingerIndicator{
		period: 20,
		k:      2,
	}
}

func (b *bollingerIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config expects two parameters: period (int) and standard deviation multiplier (float64).
func (b *bollingerIndicator) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "bollinger_bands Config expects 2 parameters: period (int), k (float64)")
	}

	period, err := intParams(b.Name(), 1, params[:1])
	if err != nil {
		return err
	}

	k, err := floatParam(b.Name(), 1, params[1])
	if err != nil {
		return err
	}

	b.period = period[0]
	b.k = k

	return nil
}

func (b *bollingerIndicator) Calculate(candles []types.Candle) Output {
	result := Bollinger(Closes(candles), b.period, b.k)

	return Output{
		"upper":  result.Upper,
		"middle": result.Middle,
		"lower":  result.Lower,
	}
}
