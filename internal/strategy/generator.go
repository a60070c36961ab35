package strategy

import (
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/logger"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"go.uber.org/zap"
)

// Options controls how the Generator reads the candle sequence.
type Options struct {
	// ExcludeFormingBar drops the newest candle, for live feeds whose last
	// bar has not closed yet.
	ExcludeFormingBar bool
}

// Generator evaluates a set of rules and emits their edges as signal events.
type Generator struct {
	rules   []Rule
	options Options
	log     *logger.Logger
}

// NewGenerator creates a generator over rules. A nil logger disables logging.
func NewGenerator(rules []Rule, options Options, log *logger.Logger) *Generator {
	return &Generator{
		rules:   rules,
		options: options,
		log:     logger.OrNop(log),
	}
}

// Rules returns the rules in evaluation order.
func (g *Generator) Rules() []Rule {
	return g.rules
}

// Generate validates candles and returns every rule edge ordered by bar index
// and then by rule order. A rule fires BUY at bar i when its buy condition
// holds at i and did not hold at i-1; SELL likewise. Rules whose MinBars
// exceed the history emit nothing.
func (g *Generator) Generate(candles []types.Candle) ([]types.SignalEvent, error) {
	if err := types.ValidateCandles(candles); err != nil {
		return nil, err
	}

	if g.options.ExcludeFormingBar && len(candles) > 0 {
		candles = candles[:len(candles)-1]
	}

	active := make([]Rule, 0, len(g.rules))
	evaluations := make([]Evaluation, 0, len(g.rules))

	for _, rule := range g.rules {
		if len(candles) < rule.MinBars() {
			g.log.Debug("Rule skipped, insufficient history",
				zap.String("rule", rule.Name()),
				zap.Int("bars", len(candles)),
				zap.Int("min_bars", rule.MinBars()),
			)

			continue
		}

		active = append(active, rule)
		evaluations = append(evaluations, rule.Prepare(candles))
	}

	events := make([]types.SignalEvent, 0)

	for i := 1; i < len(candles); i++ {
		for r, evaluation := range evaluations {
			kind, fired := edge(evaluation, i)
			if !fired {
				continue
			}

			event := types.SignalEvent{
				Index:             i,
				Time:              candles[i].Time,
				Kind:              kind,
				Rule:              active[r].Name(),
				Price:             candles[i].Close,
				IndicatorSnapshot: evaluation.Snapshot(i),
			}

			g.log.Debug("Signal fired",
				zap.String("rule", event.Rule),
				zap.String("kind", string(event.Kind)),
				zap.Int("index", i),
				zap.Float64("price", event.Price),
			)

			events = append(events, event)
		}
	}

	return events, nil
}

// edge reports the signal kind whose condition turned true at bar i. Buy and
// sell conditions of the built-in rules are mutually exclusive; buy wins if a
// custom rule reports both.
func edge(evaluation Evaluation, i int) (types.SignalKind, bool) {
	if evaluation.Buy(i) && !evaluation.Buy(i-1) {
		return types.SignalKindBuy, true
	}

	if evaluation.Sell(i) && !evaluation.Sell(i-1) {
		return types.SignalKindSell, true
	}

	return "", false
}
