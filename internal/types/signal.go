package types

import "time"

type SignalKind string

const (
	// SignalKindBuy asks the simulator to go long, or to close a short.
	SignalKindBuy SignalKind = "BUY"
	// SignalKindSell asks the simulator to go short, or to close a long.
	SignalKindSell SignalKind = "SELL"
)

// Opposite returns the other signal kind.
func (k SignalKind) Opposite() SignalKind {
	if k == SignalKindBuy {
		return SignalKindSell
	}

	return SignalKindBuy
}

// SignalEvent is an edge-triggered rule firing anchored to one bar.
type SignalEvent struct {
	// Index is the position of the bar in the candle sequence.
	Index int `yaml:"index" json:"index"`
	// Time is the time of the bar.
	Time time.Time `yaml:"time" json:"time"`
	// Kind is BUY or SELL.
	Kind SignalKind `yaml:"kind" json:"kind"`
	// Rule is the name of the rule that fired.
	Rule string `yaml:"rule" json:"rule"`
	// Price is the close of the bar.
	Price float64 `yaml:"price" json:"price"`
	// IndicatorSnapshot holds the indicator values the rule saw at Index.
	IndicatorSnapshot map[string]float64 `yaml:"indicator_snapshot" json:"indicator_snapshot"`
}
