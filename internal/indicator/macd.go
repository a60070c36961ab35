package indicator

import "github.com/KryptoMuratLive/bit-insight-sub000/internal/types"

// MACDResult holds the three MACD lines.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes EMA(fast) - EMA(slow), its EMA(signal) and the residual histogram.
func MACD(values []float64, fast, slow, signal int) MACDResult {
	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)

	line := make([]float64, len(values))
	for i := range values {
		line[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine := EMA(line, signal)

	histogram := make([]float64, len(values))
	for i := range values {
		histogram[i] = line[i] - signalLine[i]
	}

	return MACDResult{
		MACD:      line,
		Signal:    signalLine,
		Histogram: histogram,
	}
}

type macdIndicator struct {
	fast   int
	slow   int
	signal int
}

// NewMACD creates a new MACD indicator with the 12/26/9 configuration.
func NewMACD() Indicator {
	return &macdIndicator{
		fast:   12,
		slow:   26,
		signal: 9,
	}
}

func (m *macdIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config expects three parameters: fast, slow and signal periods (int).
func (m *macdIndicator) Config(params ...any) error {
	values, err := intParams(m.Name(), 3, params)
	if err != nil {
		return err
	}

	m.fast, m.slow, m.signal = values[0], values[1], values[2]

	return nil
}

func (m *macdIndicator) Calculate(candles []types.Candle) Output {
	result := MACD(Closes(candles), m.fast, m.slow, m.signal)

	return Output{
		"macd":      result.MACD,
		"signal":    result.Signal,
		"histogram": result.Histogram,
	}
}
