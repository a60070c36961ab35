package strategy

import (
	"sort"
	"sync"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/logger"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
)

// Strategy is a named rule set consumed by one Generator.
type Strategy struct {
	Name  string
	Rules []Rule
}

// MinBars is the largest MinBars of the strategy's rules.
func (s Strategy) MinBars() int {
	n := 0
	for _, rule := range s.Rules {
		n = max(n, rule.MinBars())
	}

	return n
}

// Generator returns a signal generator over the strategy's rules.
func (s Strategy) Generator(options Options, log *logger.Logger) *Generator {
	return NewGenerator(s.Rules, options, log)
}

// Preset names.
const (
	EMACrossStrategy           = "ema_cross"
	GoldenCrossStrategy        = "golden_cross"
	SMACrossStrategy           = "sma_cross"
	MACDStrategy               = "macd"
	DonchianBreakoutStrategy   = "donchian_breakout"
	BollingerBreakoutStrategy  = "bollinger_breakout"
	RSIReversalStrategy        = "rsi_reversal"
	StochasticReversalStrategy = "stochastic_reversal"
	WilliamsRReversalStrategy  = "williams_r_reversal"
	CCIReversalStrategy        = "cci_reversal"
	VolumeMomentumStrategy     = "volume_momentum"
	CompositeStrategy          = "composite"
)

// StrategyRegistry manages the named strategies available to the engine.
type StrategyRegistry interface {
	RegisterStrategy(strategy Strategy) error
	GetStrategy(name string) (Strategy, error)
	ListStrategies() []string
}

// StrategyRegistryV1 is a mutex-guarded StrategyRegistry.
type StrategyRegistryV1 struct {
	strategies map[string]Strategy
	mu         sync.RWMutex
}

// NewStrategyRegistry creates a new, empty strategy registry.
func NewStrategyRegistry() StrategyRegistry {
	return &StrategyRegistryV1{
		strategies: make(map[string]Strategy),
		mu:         sync.RWMutex{},
	}
}

// NewDefaultStrategyRegistry creates a registry holding every preset.
func NewDefaultStrategyRegistry() StrategyRegistry {
	registry := NewStrategyRegistry()

	for _, s := range Presets() {
		// preset names are distinct
		_ = registry.RegisterStrategy(s)
	}

	return registry
}

// Presets returns the built-in strategies.
func Presets() []Strategy {
	emaCross := EMACross{Fast: 12, Slow: 26}
	rsiReversal := RSIReversal{Period: 14, Oversold: 30, Overbought: 70}
	volumeSpike := VolumeSpike{Period: 20, Multiplier: 2}

	return []Strategy{
		{Name: EMACrossStrategy, Rules: []Rule{emaCross}},
		{Name: GoldenCrossStrategy, Rules: []Rule{EMACross{Fast: 50, Slow: 200}}},
		{Name: SMACrossStrategy, Rules: []Rule{SMACross{Fast: 20, Slow: 50}}},
		{Name: MACDStrategy, Rules: []Rule{MACDCross{Fast: 12, Slow: 26, Signal: 9}}},
		{Name: DonchianBreakoutStrategy, Rules: []Rule{
			DonchianBreakout{Period: 20, Trend: TrendFilter{Period: 14, Threshold: 20}},
		}},
		{Name: BollingerBreakoutStrategy, Rules: []Rule{BollingerBreakout{Period: 20, K: 2}}},
		{Name: RSIReversalStrategy, Rules: []Rule{rsiReversal}},
		{Name: StochasticReversalStrategy, Rules: []Rule{
			StochasticReversal{KPeriod: 14, DPeriod: 3, Oversold: 20, Overbought: 80},
		}},
		{Name: WilliamsRReversalStrategy, Rules: []Rule{
			WilliamsRReversal{Period: 14, Oversold: -80, Overbought: -20},
		}},
		{Name: CCIReversalStrategy, Rules: []Rule{CCIReversal{Period: 20, Threshold: 100}}},
		{Name: VolumeMomentumStrategy, Rules: []Rule{volumeSpike}},
		{Name: CompositeStrategy, Rules: []Rule{emaCross, rsiReversal, volumeSpike}},
	}
}

// RegisterStrategy adds a strategy to the registry.
func (r *StrategyRegistryV1) RegisterStrategy(strategy Strategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strategy.Name == "" || len(strategy.Rules) == 0 {
		return errors.New(errors.ErrCodeStrategyConfigError, "RegisterStrategy: strategy needs a name and at least one rule")
	}

	if _, exists := r.strategies[strategy.Name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "RegisterStrategy: strategy with name %s already registered", strategy.Name)
	}

	r.strategies[strategy.Name] = strategy

	return nil
}

// GetStrategy retrieves a strategy by name.
func (r *StrategyRegistryV1) GetStrategy(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	strategy, exists := r.strategies[name]
	if !exists {
		return Strategy{}, errors.Newf(errors.ErrCodeStrategyNotFound, "GetStrategy: strategy with name %s not found", name)
	}

	return strategy, nil
}

// ListStrategies returns the registered strategy names in sorted order.
func (r *StrategyRegistryV1) ListStrategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
