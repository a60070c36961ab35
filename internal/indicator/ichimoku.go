package indicator

import "github.com/KryptoMuratLive/bit-insight-sub000/internal/types"

// IchimokuResult holds the Ichimoku lines as known at each bar. The senkou
// spans are not shifted forward, so every value depends only on past bars.
type IchimokuResult struct {
	Tenkan  []float64
	Kijun   []float64
	SenkouA []float64
	SenkouB []float64
}

// Ichimoku computes the tenkan, kijun and senkou midpoints. Windows shorter
// than their period use every bar available.
func Ichimoku(candles []types.Candle, tenkanPeriod, kijunPeriod, senkouPeriod int) IchimokuResult {
	n := len(candles)
	result := IchimokuResult{
		Tenkan:  make([]float64, n),
		Kijun:   make([]float64, n),
		SenkouA: make([]float64, n),
		SenkouB: make([]float64, n),
	}

	midpoint := func(i, period int) float64 {
		if period < 1 {
			period = 1
		}

		hh, ll := highestLowest(candles, windowStart(i, period), i)

		return (hh + ll) / 2
	}

	for i := 0; i < n; i++ {
		result.Tenkan[i] = midpoint(i, tenkanPeriod)
		result.Kijun[i] = midpoint(i, kijunPeriod)
		result.SenkouA[i] = (result.Tenkan[i] + result.Kijun[i]) / 2
		result.SenkouB[i] = midpoint(i, senkouPeriod)
	}

	return result
}

type ichimokuIndicator struct {
	tenkan int
	kijun  int
	senkou int
}

// NewIchimoku creates a new Ichimoku indicator with the 9/26/52 configuration.
func NewIchimoku() Indicator {
	return &ichimokuIndicator{
		tenkan: 9,
		kijun:  26,
		senkou: 52,
	}
}

func (c *ichimokuIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeIchimoku
}

// Config expects three parameters: tenkan, kijun and senkou periods (int).
func (c *ichimokuIndicator) Config(params ...any) error {
	values, err := intParams(c.Name(), 3, params)
	if err != nil {
		return err
	}

	c.tenkan, c.kijun, c.senkou = values[0], values[1], values[2]

	return nil
}

func (c *ichimokuIndicator) Calculate(candles []types.Candle) Output {
	result := Ichimoku(candles, c.tenkan, c.kijun, c.senkou)

	return Output{
		"tenkan":   result.Tenkan,
		"kijun":    result.Kijun,
		"senkou_a": result.SenkouA,
		"senkou_b": result.SenkouB,
	}
}
