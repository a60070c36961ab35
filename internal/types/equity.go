package types

import "time"

// EquityPoint is the mark-to-market equity after one processed bar.
type EquityPoint struct {
	Time   time.Time `yaml:"time" json:"time"`
	Equity float64   `yaml:"equity" json:"equity"`
	// PeakEquity is the running maximum of Equity and never decreases.
	PeakEquity float64 `yaml:"peak_equity" json:"peak_equity"`
	// DrawdownPercent is (PeakEquity - Equity) / PeakEquity in percent, within [0, 100].
	DrawdownPercent float64 `yaml:"drawdown_percent" json:"drawdown_percent"`
}
