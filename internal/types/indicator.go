package types

type IndicatorType string

const (
	IndicatorTypeEMA                  IndicatorType = "ema"
	IndicatorTypeMA                   IndicatorType = "ma"
	IndicatorTypeRSI                  IndicatorType = "rsi"
	IndicatorTypeMACD                 IndicatorType = "macd"
	IndicatorTypeATR                  IndicatorType = "atr"
	IndicatorTypeADX                  IndicatorType = "adx"
	IndicatorTypeDonchian             IndicatorType = "donchian"
	IndicatorTypeBollingerBands       IndicatorType = "bollinger_bands"
	IndicatorTypeStochasticOscillator IndicatorType = "stochastic_oscillator"
	IndicatorTypeWilliamsR            IndicatorType = "williams_r"
	IndicatorTypeCCI                  IndicatorType = "cci"
	IndicatorTypeIchimoku             IndicatorType = "ichimoku"
	IndicatorTypeParabolicSAR         IndicatorType = "parabolic_sar"
	IndicatorTypePivot                IndicatorType = "pivot"
	IndicatorTypeVolumeMA             IndicatorType = "volume_ma"
)

// IndicatorSeries is a value series index-aligned with the candles it was
// computed from.
type IndicatorSeries []float64

// Last returns the newest value, or 0 for an empty series.
func (s IndicatorSeries) Last() float64 {
	if len(s) == 0 {
		return 0
	}

	return s[len(s)-1]
}

// At returns the value at i, or 0 when i is out of range.
func (s IndicatorSeries) At(i int) float64 {
	if i < 0 || i >= len(s) {
		return 0
	}

	return s[i]
}
