package indicator

import (
	"math"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

const (
	// OscillatorNeutral is returned by 0..100 oscillators without a full window.
	OscillatorNeutral = 50.0
	// WilliamsRNeutral is the midpoint of the 0..-100 Williams %R scale.
	WilliamsRNeutral = -50.0
	// CCINeutral is the centre of the unbounded CCI scale.
	CCINeutral = 0.0
)

// StochasticResult holds %K and its %D average.
type StochasticResult struct {
	K []float64
	D []float64
}

// Stochastic computes %K over kPeriod bars and %D as SMA(%K, dPeriod).
func Stochastic(candles []types.Candle, kPeriod, dPeriod int) StochasticResult {
	if kPeriod < 1 {
		kPeriod = 1
	}

	k := filled(len(candles), OscillatorNeutral)

	for i := kPeriod - 1; i < len(candles); i++ {
		hh, ll := highestLowest(candles, i-kPeriod+1, i)
		if hh == ll {
			continue
		}

		k[i] = 100 * (candles[i].Close - ll) / (hh - ll)
	}

	return StochasticResult{
		K: k,
		D: SMA(k, dPeriod),
	}
}

// WilliamsR computes %R on the 0..-100 scale.
func WilliamsR(candles []types.Candle, period int) []float64 {
	if period < 1 {
		period = 1
	}

	out := filled(len(candles), WilliamsRNeutral)

	for i := period - 1; i < len(candles); i++ {
		hh, ll := highestLowest(candles, i-period+1, i)
		if hh == ll {
			continue
		}

		out[i] = -100 * (hh - candles[i].Close) / (hh - ll)
	}

	return out
}

// CCI is the commodity channel index over the typical price.
func CCI(candles []types.Candle, period int) []float64 {
	if period < 1 {
		period = 1
	}

	out := filled(len(candles), CCINeutral)

	typical := make([]float64, len(candles))
	for i, c := range candles {
		typical[i] = (c.High + c.Low + c.Close) / 3
	}

	for i := period - 1; i < len(candles); i++ {
		start := i - period + 1
		mean := windowMean(typical, start, i)

		deviation := 0.0
		for j := start; j <= i; j++ {
			deviation += math.Abs(typical[j] - mean)
		}

		deviation /= float64(period)
		if deviation == 0 {
			continue
		}

		out[i] = (typical[i] - mean) / (0.015 * deviation)
	}

	return out
}

type stochasticIndicator struct {
	kPeriod int
	dPeriod int
}

// NewStochastic creates a new stochastic oscillator with the 14/3 configuration.
func NewStochastic() Indicator {
	return &stochasticIndicator{
		kPeriod: 14,
		dPeriod: 3,
	}
}

func (s *stochasticIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeStochasticOscillator
}

// Config expects two parameters: %K and %D periods (int).
func (s *stochasticIndicator) Config(params ...any) error {
	values, err := intParams(s.Name(), 2, params)
	if err != nil {
		return err
	}

	s.kPeriod, s.dPeriod = values[0], values[1]

	return nil
}

func (s *stochasticIndicator) Calculate(candles []types.Candle) Output {
	result := Stochastic(candles, s.kPeriod, s.dPeriod)

	return Output{
		"k": result.K,
		"d": result.D,
	}
}

type williamsRIndicator struct {
	period int
}

// NewWilliamsR creates a new Williams %R indicator with default configuration.
func NewWilliamsR() Indicator {
	return &williamsRIndicator{
		period: 14,
	}
}

func (w *williamsRIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeWilliamsR
}

// Config expects one parameter: period (int).
func (w *williamsRIndicator) Config(params ...any) error {
	values, err := intParams(w.Name(), 1, params)
	if err != nil {
		return err
	}

	w.period = values[0]

	return nil
}

func (w *williamsRIndicator) Calculate(candles []types.Candle) Output {
	return Output{"williams_r": WilliamsR(candles, w.period)}
}

type cciIndicator struct {
	period int
}

// NewCCI creates a new CCI indicator with default configuration.
func NewCCI() Indicator {
	return &cciIndicator{
		period: 20,
	}
}

func (c *cciIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeCCI
}

// Config expects one parameter: period (int).
func (c *cciIndicator) Config(params ...any) error {
	values, err := intParams(c.Name(), 1, params)
	if err != nil {
		return err
	}

	c.period = values[0]

	return nil
}

func (c *cciIndicator) Calculate(candles []types.Candle) Output {
	return Output{"cci": CCI(candles, c.period)}
}
