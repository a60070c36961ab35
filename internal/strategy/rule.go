// Package strategy turns indicator series into edge-triggered BUY/SELL events.
//
// A Rule describes when a condition holds on a bar; it never decides when to
// fire. The Generator fires a rule only on the bar where its condition
// becomes true, so a condition that persists produces a single event.
package strategy

import "github.com/KryptoMuratLive/bit-insight-sub000/internal/types"

// Evaluation is a rule prepared over one candle sequence.
type Evaluation interface {
	// Buy reports whether the buy condition holds at bar i.
	Buy(i int) bool
	// Sell reports whether the sell condition holds at bar i.
	Sell(i int) bool
	// Snapshot returns the indicator values the rule reads at bar i.
	Snapshot(i int) map[string]float64
}

// Rule is a declarative entry/exit condition over closed candles.
type Rule interface {
	// Name identifies the rule in signal events, e.g. ema_cross_12_26.
	Name() string
	// MinBars is the shortest history for which the rule emits events.
	MinBars() int
	// Prepare computes the rule's indicators over candles.
	Prepare(candles []types.Candle) Evaluation
}

// levels is the Evaluation shared by every built-in rule.
type levels struct {
	buy      []bool
	sell     []bool
	snapshot map[string][]float64
}

func newLevels(n int) *levels {
	return &levels{
		buy:      make([]bool, n),
		sell:     make([]bool, n),
		snapshot: make(map[string][]float64),
	}
}

func (l *levels) Buy(i int) bool {
	return i >= 0 && i < len(l.buy) && l.buy[i]
}

func (l *levels) Sell(i int) bool {
	return i >= 0 && i < len(l.sell) && l.sell[i]
}

func (l *levels) Snapshot(i int) map[string]float64 {
	out := make(map[string]float64, len(l.snapshot))

	for key, series := range l.snapshot {
		if i >= 0 && i < len(series) {
			out[key] = series[i]
		}
	}

	return out
}

// crossLevels marks fast above slow as the buy level and fast below slow as
// the sell level. Equal values hold neither.
func crossLevels(fast, slow []float64) *levels {
	l := newLevels(len(fast))

	for i := range fast {
		l.buy[i] = fast[i] > slow[i]
		l.sell[i] = fast[i] < slow[i]
	}

	return l
}
