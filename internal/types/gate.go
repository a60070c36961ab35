package types

import "github.com/moznion/go-optional"

type GateStatus string

const (
	GateStatusGo GateStatus = "GO"
	GateStatusNo GateStatus = "NO"
)

// GateCriterion is the outcome of one gate criterion.
type GateCriterion struct {
	Name string `yaml:"name" json:"name"`
	// Evaluated is false when optional input was missing; such criteria pass.
	Evaluated bool   `yaml:"evaluated" json:"evaluated"`
	Passed    bool   `yaml:"passed" json:"passed"`
	Reason    string `yaml:"reason" json:"reason"`
}

// GateDecision is recomputed on every evaluation and never persisted.
type GateDecision struct {
	Symbol string     `yaml:"symbol" json:"symbol"`
	Status GateStatus `yaml:"status" json:"status"`
	// Side is set only when the timeframe consensus selected one.
	Side optional.Option[PositionSide] `yaml:"side" json:"side"`
	// Score is passed / evaluated within [0, 1].
	Score    float64         `yaml:"score" json:"score"`
	Criteria []GateCriterion `yaml:"criteria" json:"criteria"`
	Reasons  []string        `yaml:"reasons" json:"reasons"`
}
