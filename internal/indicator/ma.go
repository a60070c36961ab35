package indicator

import (
	"math"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// SMA is the trailing arithmetic mean over period samples. Indices with fewer
// than period samples use every sample available.
func SMA(values []float64, period int) []float64 {
	if period < 1 {
		period = 1
	}

	out := make([]float64, len(values))
	for i := range values {
		out[i] = windowMean(values, windowStart(i, period), i)
	}

	return out
}

// StdDev is the trailing population standard deviation with the same window rule as SMA.
func StdDev(values []float64, period int) []float64 {
	if period < 1 {
		period = 1
	}

	out := make([]float64, len(values))

	for i := range values {
		start := windowStart(i, period)
		mean := windowMean(values, start, i)

		sum := 0.0
		for j := start; j <= i; j++ {
			d := values[j] - mean
			sum += d * d
		}

		out[i] = math.Sqrt(sum / float64(i-start+1))
	}

	return out
}

// VolumeSMA is the SMA of candle volumes.
func VolumeSMA(candles []types.Candle, period int) []float64 {
	return SMA(Volumes(candles), period)
}

// windowMean averages values[from:to+1] as deviations from values[from], so a
// constant window returns its value exactly.
func windowMean(values []float64, from, to int) float64 {
	base := values[from]
	sum := 0.0

	for j := from; j <= to; j++ {
		sum += values[j] - base
	}

	return base + sum/float64(to-from+1)
}

type maIndicator struct {
	period int
}

// NewMA creates a new simple moving average indicator with default configuration.
func NewMA() Indicator {
	return &maIndicator{
		period: 20,
	}
}

func (m *maIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Config expects one parameter: period (int).
func (m *maIndicator) Config(params ...any) error {
	values, err := intParams(m.Name(), 1, params)
	if err != nil {
		return err
	}

	m.period = values[0]

	return nil
}

func (m *maIndicator) Calculate(candles []types.Candle) Output {
	return Output{"ma": SMA(Closes(candles), m.period)}
}

type volumeMAIndicator struct {
	period int
}

// NewVolumeMA creates a volume moving average indicator with default configuration.
func NewVolumeMA() Indicator {
	return &volumeMAIndicator{
		period: 20,
	}
}

func (v *volumeMAIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeVolumeMA
}

// Config expects one parameter: period (int).
func (v *volumeMAIndicator) Config(params ...any) error {
	values, err := intParams(v.Name(), 1, params)
	if err != nil {
		return err
	}

	v.period = values[0]

	return nil
}

func (v *volumeMAIndicator) Calculate(candles []types.Candle) Output {
	return Output{"volume_ma": VolumeSMA(candles, v.period)}
}
