package strategy

import (
	"fmt"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/indicator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// reversalLevels marks the recovery from oversold as the buy level and the
// fall back from overbought as the sell level. Being beyond a threshold is
// not enough on its own.
func reversalLevels(values []float64, oversold, overbought float64) *levels {
	l := newLevels(len(values))

	for i := 1; i < len(values); i++ {
		l.buy[i] = values[i-1] < oversold && values[i] >= oversold
		l.sell[i] = values[i-1] > overbought && values[i] <= overbought
	}

	return l
}

// RSIReversal fires when RSI leaves the oversold or overbought zone.
type RSIReversal struct {
	Period     int
	Oversold   float64
	Overbought float64
}

func (r RSIReversal) Name() string {
	return fmt.Sprintf("rsi_reversal_%d", r.Period)
}

func (r RSIReversal) MinBars() int {
	return r.Period + 1
}

func (r RSIReversal) Prepare(candles []types.Candle) Evaluation {
	rsi := indicator.RSI(indicator.Closes(candles), r.Period)

	l := reversalLevels(rsi, r.Oversold, r.Overbought)
	l.snapshot["rsi"] = rsi

	return l
}

// StochasticReversal fires when %K leaves the oversold or overbought zone.
type StochasticReversal struct {
	KPeriod    int
	DPeriod    int
	Oversold   float64
	Overbought float64
}

func (r StochasticReversal) Name() string {
	return fmt.Sprintf("stochastic_reversal_%d_%d", r.KPeriod, r.DPeriod)
}

func (r StochasticReversal) MinBars() int {
	return r.KPeriod + r.DPeriod
}

func (r StochasticReversal) Prepare(candles []types.Candle) Evaluation {
	stochastic := indicator.Stochastic(candles, r.KPeriod, r.DPeriod)

	l := reversalLevels(stochastic.K, r.Oversold, r.Overbought)
	l.snapshot["stochastic_k"] = stochastic.K
	l.snapshot["stochastic_d"] = stochastic.D

	return l
}

// WilliamsRReversal fires when %R leaves the oversold or overbought zone.
// Thresholds are on the 0..-100 scale, e.g. -80 and -20.
type WilliamsRReversal struct {
	Period     int
	Oversold   float64
	Overbought float64
}

func (r WilliamsRReversal) Name() string {
	return fmt.Sprintf("williams_r_reversal_%d", r.Period)
}

func (r WilliamsRReversal) MinBars() int {
	return r.Period + 1
}

func (r WilliamsRReversal) Prepare(candles []types.Candle) Evaluation {
	williams := indicator.WilliamsR(candles, r.Period)

	l := reversalLevels(williams, r.Oversold, r.Overbought)
	l.snapshot["williams_r"] = williams

	return l
}

// CCIReversal fires when CCI returns inside the ±threshold band.
type CCIReversal struct {
	Period    int
	Threshold float64
}

func (r CCIReversal) Name() string {
	return fmt.Sprintf("cci_reversal_%d", r.Period)
}

func (r CCIReversal) MinBars() int {
	return r.Period + 1
}

func (r CCIReversal) Prepare(candles []types.Candle) Evaluation {
	cci := indicator.CCI(candles, r.Period)

	l := reversalLevels(cci, -r.Threshold, r.Threshold)
	l.snapshot["cci"] = cci

	return l
}
