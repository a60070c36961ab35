package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type PositionSide string

const (
	PositionSideLong  PositionSide = "LONG"
	PositionSideShort PositionSide = "SHORT"
)

// Sign returns +1 for long and -1 for short.
func (s PositionSide) Sign() int64 {
	if s == PositionSideShort {
		return -1
	}

	return 1
}

// EntryKind returns the signal kind that opens a position on this side.
func (s PositionSide) EntryKind() SignalKind {
	if s == PositionSideShort {
		return SignalKindSell
	}

	return SignalKindBuy
}

// Position is the single open position of a simulated run.
type Position struct {
	Side         PositionSide `yaml:"side" json:"side"`
	EntryIndex   int          `yaml:"entry_index" json:"entry_index"`
	EntryTime    time.Time    `yaml:"entry_time" json:"entry_time"`
	EntryPrice   float64      `yaml:"entry_price" json:"entry_price"`
	Size         float64      `yaml:"size" json:"size"`
	StopDistance float64      `yaml:"stop_distance" json:"stop_distance"`
	EntryRule    string       `yaml:"entry_rule" json:"entry_rule"`
	EntryFee     float64      `yaml:"entry_fee" json:"entry_fee"`
}

// UnrealizedPnL marks the position to price.
func (p Position) UnrealizedPnL(price float64) decimal.Decimal {
	diff := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(p.EntryPrice))

	return diff.Mul(decimal.NewFromFloat(p.Size)).Mul(decimal.NewFromInt(p.Side.Sign()))
}

// ExitReasonEndOfData is the exit reason of the synthetic close at the end of a run.
const ExitReasonEndOfData = "position closed at end"

// Trade is an immutable record of a completed position.
type Trade struct {
	ID         string       `yaml:"id" json:"id"`
	Symbol     string       `yaml:"symbol" json:"symbol"`
	Side       PositionSide `yaml:"side" json:"side"`
	EntryTime  time.Time    `yaml:"entry_time" json:"entry_time"`
	EntryPrice float64      `yaml:"entry_price" json:"entry_price"`
	ExitTime   time.Time    `yaml:"exit_time" json:"exit_time"`
	ExitPrice  float64      `yaml:"exit_price" json:"exit_price"`
	Size       float64      `yaml:"size" json:"size"`
	// PnL is realized after fees.
	PnL float64 `yaml:"pnl" json:"pnl"`
	// PnLPercent is PnL relative to the entry notional, in percent.
	PnLPercent float64 `yaml:"pnl_percent" json:"pnl_percent"`
	Fee        float64 `yaml:"fee" json:"fee"`
	// HoldingSeconds is the time between entry and exit.
	HoldingSeconds int64  `yaml:"holding_seconds" json:"holding_seconds"`
	EntryRule      string `yaml:"entry_rule" json:"entry_rule"`
	ExitRule       string `yaml:"exit_rule" json:"exit_rule"`
	Reason         string `yaml:"reason" json:"reason"`
}

// HoldingDuration returns the holding time as a duration.
func (t Trade) HoldingDuration() time.Duration {
	return time.Duration(t.HoldingSeconds) * time.Second
}

// IsWin reports whether the trade made money.
func (t Trade) IsWin() bool {
	return t.PnL > 0
}

// IsLoss reports whether the trade lost money.
func (t Trade) IsLoss() bool {
	return t.PnL < 0
}
