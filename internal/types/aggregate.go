package types

import "github.com/moznion/go-optional"

type Direction string

const (
	DirectionBullish Direction = "BULLISH"
	DirectionBearish Direction = "BEARISH"
	DirectionNeutral Direction = "NEUTRAL"
)

type Strength string

const (
	StrengthWeak       Strength = "WEAK"
	StrengthModerate   Strength = "MODERATE"
	StrengthStrong     Strength = "STRONG"
	StrengthVeryStrong Strength = "VERY_STRONG"
)

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// SourceBreakdown is the contribution of one analyzer source.
type SourceBreakdown struct {
	Name string `yaml:"name" json:"name"`
	// Score is within [-1, 1], or None when the source failed or timed out.
	Score optional.Option[float64] `yaml:"score" json:"score"`
	// Weight is the configured weight, or 0 when Score is None.
	Weight float64 `yaml:"weight" json:"weight"`
	Label  string  `yaml:"label" json:"label"`
	// Error describes why the source produced no score.
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Levels are the computed entry, stop and target prices.
type Levels struct {
	Entry  float64 `yaml:"entry" json:"entry"`
	Stop   float64 `yaml:"stop" json:"stop"`
	Target float64 `yaml:"target" json:"target"`
}

// AggregatedSignal is the weighted consensus of several analyzer sources.
type AggregatedSignal struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	// FinalScore is within [-100, 100].
	FinalScore float64 `yaml:"final_score" json:"final_score"`
	// Confidence is within [0, 100].
	Confidence     float64           `yaml:"confidence" json:"confidence"`
	Direction      Direction         `yaml:"direction" json:"direction"`
	Strength       Strength          `yaml:"strength" json:"strength"`
	RiskLevel      RiskLevel         `yaml:"risk_level" json:"risk_level"`
	Breakdown      []SourceBreakdown `yaml:"breakdown" json:"breakdown"`
	Levels         Levels            `yaml:"levels" json:"levels"`
	Recommendation string            `yaml:"recommendation" json:"recommendation"`
	Alerts         []string          `yaml:"alerts" json:"alerts"`
}
