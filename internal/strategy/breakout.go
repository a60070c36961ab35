package strategy

import (
	"fmt"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/indicator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// TrendFilter gates a breakout on ADX. A zero Threshold disables it.
type TrendFilter struct {
	Period    int
	Threshold float64
}

func (f TrendFilter) enabled() bool {
	return f.Threshold > 0
}

func (f TrendFilter) minBars() int {
	if !f.enabled() {
		return 0
	}

	return 2 * f.Period
}

// apply clears both levels wherever ADX is not above the threshold and adds
// ADX to the snapshot.
func (f TrendFilter) apply(l *levels, candles []types.Candle) {
	if !f.enabled() {
		return
	}

	adx := indicator.ADX(candles, f.Period).ADX
	for i, v := range adx {
		if v <= f.Threshold {
			l.buy[i] = false
			l.sell[i] = false
		}
	}

	l.snapshot["adx"] = adx
}

// breakoutLevels marks a close above the prior bar's upper bound as the buy
// level and a close below the prior bar's lower bound as the sell level. Bars
// before the first full window hold neither.
func breakoutLevels(closes, upper, lower []float64, period int) *levels {
	l := newLevels(len(closes))

	for i := max(period, 1); i < len(closes); i++ {
		l.buy[i] = closes[i] > upper[i-1]
		l.sell[i] = closes[i] < lower[i-1]
	}

	return l
}

// prior shifts a series one bar forward so that prior(s)[i] == s[i-1].
func prior(series []float64) []float64 {
	out := make([]float64, len(series))

	for i := range series {
		if i == 0 {
			out[i] = series[i]

			continue
		}

		out[i] = series[i-1]
	}

	return out
}

// DonchianBreakout fires when the close leaves the previous bar's channel.
type DonchianBreakout struct {
	Period int
	Trend  TrendFilter
}

func (r DonchianBreakout) Name() string {
	return fmt.Sprintf("donchian_breakout_%d", r.Period)
}

func (r DonchianBreakout) MinBars() int {
	return max(r.Period+1, r.Trend.minBars())
}

func (r DonchianBreakout) Prepare(candles []types.Candle) Evaluation {
	closes := indicator.Closes(candles)
	channel := indicator.Donchian(candles, r.Period)

	l := breakoutLevels(closes, channel.Upper, channel.Lower, r.Period)
	l.snapshot["close"] = closes
	l.snapshot["donchian_upper"] = prior(channel.Upper)
	l.snapshot["donchian_lower"] = prior(channel.Lower)
	r.Trend.apply(l, candles)

	return l
}

// BollingerBreakout fires when the close leaves the previous bar's bands.
type BollingerBreakout struct {
	Period int
	K      float64
	Trend  TrendFilter
}

func (r BollingerBreakout) Name() string {
	return fmt.Sprintf("bollinger_breakout_%d", r.Period)
}

func (r BollingerBreakout) MinBars() int {
	return max(r.Period+1, r.Trend.minBars())
}

func (r BollingerBreakout) Prepare(candles []types.Candle) Evaluation {
	closes := indicator.Closes(candles)
	bands := indicator.Bollinger(closes, r.Period, r.K)

	l := breakoutLevels(closes, bands.Upper, bands.Lower, r.Period)
	l.snapshot["close"] = closes
	l.snapshot["bollinger_upper"] = prior(bands.Upper)
	l.snapshot["bollinger_lower"] = prior(bands.Lower)
	r.Trend.apply(l, candles)

	return l
}
