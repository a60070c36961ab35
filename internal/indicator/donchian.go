package indicator

import "github.com/KryptoMuratLive/bit-insight-sub000/internal/types"

// DonchianResult holds the channel lines.
type DonchianResult struct {
	Upper  []float64
	Lower  []float64
	Middle []float64
}

// Donchian is the rolling highest high, lowest low and their midpoint over a
// trailing window that includes the current bar. Breakout rules compare
// against index i-1.
func Donchian(candles []types.Candle, period int) DonchianResult {
	if period < 1 {
		period = 1
	}

	n := len(candles)
	result := DonchianResult{
		Upper:  make([]float64, n),
		Lower:  make([]float64, n),
		Middle: make([]float64, n),
	}

	for i := 0; i < n; i++ {
		hh, ll := highestLowest(candles, windowStart(i, period), i)
		result.Upper[i] = hh
		result.Lower[i] = ll
		result.Middle[i] = (hh + ll) / 2
	}

	return result
}

type donchianIndicator struct {
	period int
}

// NewDonchian creates a new Donchian channel indicator with default configuration.
func NewDonchian() Indicator {
	return &donchianIndicator{
		period: 20,
	}
}

func (d *donchianIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeDonchian
}

// Config expects one parameter: period (int).
func (d *donchianIndicator) Config(params ...any) error {
	values, err := intParams(d.Name(), 1, params)
	if err != nil {
		return err
	}

	d.period = values[0]

	return nil
}

func (d *donchianIndicator) Calculate(candles []types.Candle) Output {
	result := Donchian(candles, d.period)

	return Output{
		"upper":  result.Upper,
		"lower":  result.Lower,
		"middle": result.Middle,
	}
}
