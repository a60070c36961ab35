package aggregator

import (
	"math"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultRiskSource is the name of the source that drives the risk level.
const DefaultRiskSource = "risk"

type Config struct {
	// Weights maps source names to their weight. Sources without an entry get DefaultWeight.
	Weights       map[string]float64 `yaml:"weights" json:"weights"`
	DefaultWeight float64            `yaml:"default_weight" json:"default_weight" validate:"gte=0"`
	// SourceTimeout bounds every single source call.
	SourceTimeout time.Duration `yaml:"source_timeout" json:"source_timeout" validate:"gt=0"`
	// RiskSource names the source whose score sets the risk level.
	RiskSource          string  `yaml:"risk_source" json:"risk_source"`
	ATRPeriod           int     `yaml:"atr_period" json:"atr_period" validate:"gte=1"`
	StopATRMultiplier   float64 `yaml:"stop_atr_multiplier" json:"stop_atr_multiplier" validate:"gt=0"`
	TargetATRMultiplier float64 `yaml:"target_atr_multiplier" json:"target_atr_multiplier" validate:"gt=0"`
}

// DefaultConfig weights the directional sources equally and keeps the risk
// source out of the consensus.
func DefaultConfig() Config {
	return Config{
		Weights: map[string]float64{
			DefaultRiskSource: 0,
		},
		DefaultWeight:       1,
		SourceTimeout:       5 * time.Second,
		RiskSource:          DefaultRiskSource,
		ATRPeriod:           14,
		StopATRMultiplier:   1.5,
		TargetATRMultiplier: 3,
	}
}

// LoadConfig decodes a yaml document over DefaultConfig and validates the result.
func LoadConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse aggregator config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	for name, w := range c.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return errors.Newf(errors.ErrCodeInvalidWeights, "weight of source %s must be a non-negative number, got %v", name, w)
		}
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid aggregator configuration", err)
	}

	return nil
}

// Weight returns the weight of the named source.
func (c Config) Weight(name string) float64 {
	if w, ok := c.Weights[name]; ok {
		return w
	}

	return c.DefaultWeight
}
