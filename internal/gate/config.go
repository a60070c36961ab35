package gate

import (
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MinTimeframes is the fewest timeframes a gate evaluation accepts.
const MinTimeframes = 3

// Config holds the gate thresholds. Percent values are in percent units.
type Config struct {
	MinADX float64 `yaml:"min_adx" json:"min_adx" validate:"gte=0,lte=100"`
	// ATR as a percent of the close must fall within [MinATRPercent, MaxATRPercent].
	MinATRPercent float64 `yaml:"min_atr_pct" json:"min_atr_pct" validate:"gte=0"`
	MaxATRPercent float64 `yaml:"max_atr_pct" json:"max_atr_pct" validate:"gtefield=MinATRPercent"`
	MinModelScore float64 `yaml:"min_model_score" json:"min_model_score"`
	MaxFundingAbs float64 `yaml:"max_funding_abs" json:"max_funding_abs" validate:"gte=0"`
	// OITolerance is how far, in percent, open interest may move against the side.
	OITolerance           float64 `yaml:"oi_tolerance" json:"oi_tolerance" validate:"gte=0"`
	MinAgreeingTimeframes int     `yaml:"min_agreeing_timeframes" json:"min_agreeing_timeframes" validate:"gte=1"`
	ADXPeriod             int     `yaml:"adx_period" json:"adx_period" validate:"gte=1"`
	ATRPeriod             int     `yaml:"atr_period" json:"atr_period" validate:"gte=1"`
	FastEMA               int     `yaml:"fast_ema" json:"fast_ema" validate:"gte=1"`
	SlowEMA               int     `yaml:"slow_ema" json:"slow_ema" validate:"gtfield=FastEMA"`
}

func DefaultConfig() Config {
	return Config{
		MinADX:                20,
		MinATRPercent:         0.1,
		MaxATRPercent:         5,
		MinModelScore:         0.6,
		MaxFundingAbs:         0.0005,
		OITolerance:           5,
		MinAgreeingTimeframes: 2,
		ADXPeriod:             14,
		ATRPeriod:             14,
		FastEMA:               20,
		SlowEMA:               50,
	}
}

// LoadConfig decodes a yaml document over DefaultConfig and validates the result.
func LoadConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse gate config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid gate configuration", err)
	}

	return nil
}
