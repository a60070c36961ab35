package engine

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/strategy"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"
)

// MinBacktestBars is the shortest input a backtest is attempted on.
const MinBacktestBars = 100

type StopType string

const (
	StopTypeATR               StopType = "atr"
	StopTypeFixedPercent      StopType = "fixed_percent"
	StopTypeSupportResistance StopType = "support_resistance"
)

var AllStopTypes = []any{StopTypeATR, StopTypeFixedPercent, StopTypeSupportResistance}

type BacktestEngineV1Config struct {
	Symbol                  string                     `yaml:"symbol" json:"symbol,omitempty" jsonschema:"title=Symbol,description=Instrument label for results and trades; defaults to the candles' symbol"`
	InitialCapital          float64                    `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0" validate:"gt=0"`
	Strategy                string                     `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy,description=Name of the strategy preset to run" validate:"required"`
	Lookback                int                        `yaml:"lookback" json:"lookback" jsonschema:"title=Lookback,description=Number of most recent bars to backtest; 0 uses every bar,minimum=0" validate:"gte=0"`
	RiskPercent             float64                    `yaml:"risk_percent" json:"risk_percent" jsonschema:"title=Risk Percent,description=Percent of equity risked per trade,minimum=0,maximum=100" validate:"gt=0,lte=100"`
	ATRPeriod               int                        `yaml:"atr_period" json:"atr_period" jsonschema:"title=ATR Period,description=Period of the ATR used for stops,minimum=1" validate:"gte=1"`
	ATRMultiplier           float64                    `yaml:"atr_multiplier" json:"atr_multiplier" jsonschema:"title=ATR Multiplier,description=Stop distance in multiples of ATR,minimum=0" validate:"gt=0"`
	StopType                StopType                   `yaml:"stop_type" json:"stop_type" jsonschema:"title=Stop Type,description=How the stop distance is derived" validate:"oneof=atr fixed_percent support_resistance"`
	FixedStopPercent        float64                    `yaml:"fixed_stop_percent" json:"fixed_stop_percent" jsonschema:"title=Fixed Stop Percent,description=Stop distance in percent of the entry price for the fixed_percent stop type,minimum=0,maximum=100" validate:"required_if=StopType fixed_percent,gte=0,lte=100"`
	SupportResistancePeriod int                        `yaml:"support_resistance_period" json:"support_resistance_period" jsonschema:"title=Support/Resistance Period,description=Pivot period for the support_resistance stop type,minimum=1" validate:"gte=1"`
	Leverage                float64                    `yaml:"leverage" json:"leverage" jsonschema:"title=Leverage,description=Maximum notional as a multiple of equity,minimum=1" validate:"gte=1"`
	AllowShort              bool                       `yaml:"allow_short" json:"allow_short" jsonschema:"title=Allow Short,description=Whether a SELL signal opens a short position when flat"`
	FeeRate                 float64                    `yaml:"fee_rate" json:"fee_rate" jsonschema:"title=Fee Rate,description=Fee as a fraction of notional charged on entry and exit,minimum=0,maximum=1" validate:"gte=0,lt=1"`
	StartTime               optional.Option[time.Time] `yaml:"-" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime                 optional.Option[time.Time] `yaml:"-" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
}

// UnmarshalYAML decodes onto the current values, so fields missing from the
// document keep their defaults.
func (c *BacktestEngineV1Config) UnmarshalYAML(value *yaml.Node) error {
	type plain BacktestEngineV1Config

	type window struct {
		StartTime *time.Time `yaml:"start_time"`
		EndTime   *time.Time `yaml:"end_time"`
	}

	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}

	var w window
	if err := value.Decode(&w); err != nil {
		return err
	}

	if w.StartTime != nil {
		c.StartTime = optional.Some(*w.StartTime)
	}

	if w.EndTime != nil {
		c.EndTime = optional.Some(*w.EndTime)
	}

	return nil
}

// Validate checks the config's field constraints and the time window.
func (c BacktestEngineV1Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest configuration", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "invalid backtest configuration: end_time is before start_time")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeOf(optional.Option[time.Time]{}):
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case reflect.TypeOf(StopType("")):
				return &jsonschema.Schema{
					Type: "string",
					Enum: AllStopTypes,
				}
			}

			return nil
		},
	}

	// Generate schema from BacktestEngineV1Config struct
	schema := reflector.Reflect(c)

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// DefaultConfig returns the configuration used when a document omits a field.
func DefaultConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		Symbol:                  "",
		InitialCapital:          10000,
		Strategy:                strategy.EMACrossStrategy,
		Lookback:                0,
		RiskPercent:             1,
		ATRPeriod:               14,
		ATRMultiplier:           2,
		StopType:                StopTypeATR,
		FixedStopPercent:        2,
		SupportResistancePeriod: 5,
		Leverage:                1,
		AllowShort:              true,
		FeeRate:                 0,
		StartTime:               optional.None[time.Time](),
		EndTime:                 optional.None[time.Time](),
	}
}

// EmptyConfig returns a BacktestEngineV1Config with zero values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		Symbol:                  "",
		InitialCapital:          0,
		Strategy:                "",
		Lookback:                0,
		RiskPercent:             0,
		ATRPeriod:               0,
		ATRMultiplier:           0,
		StopType:                StopTypeATR,
		FixedStopPercent:        0,
		SupportResistancePeriod: 0,
		Leverage:                0,
		AllowShort:              false,
		FeeRate:                 0,
		StartTime:               optional.None[time.Time](),
		EndTime:                 optional.None[time.Time](),
	}
}
