// Package gate implements a conjunctive GO/NO decision for one instrument.
// Three criteria are always evaluated from candles; three more use optional
// external data and pass with a reason when that data is absent.
package gate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/indicator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/logger"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/metrics"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

const (
	CriterionConsensus    = "timeframe_consensus"
	CriterionTrend        = "trend_strength"
	CriterionVolatility   = "volatility_band"
	CriterionModelScore   = "model_score"
	CriterionFunding      = "funding_rate"
	CriterionOpenInterest = "open_interest"
)

const notAvailable = "not available"

// Input is one evaluation request. Timeframes maps a label such as "1h" to its candles.
type Input struct {
	Symbol            string
	Timeframes        map[string][]types.Candle
	ModelScore        optional.Option[float64]
	FundingRate       optional.Option[float64]
	OpenInterestDelta optional.Option[float64]
}

type Gate struct {
	config  Config
	log     *logger.Logger
	metrics *metrics.Metrics
}

// bias is the directional vote of one timeframe.
type bias struct {
	timeframe string
	side      optional.Option[types.PositionSide]
	candles   []types.Candle
}

func NewGate(config Config, log *logger.Logger, m *metrics.Metrics) (*Gate, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Gate{
		config:  config,
		log:     logger.OrNop(log),
		metrics: m,
	}, nil
}

// Evaluate returns a decision with one criterion and one reason per gate step,
// whatever the outcome.
func (g *Gate) Evaluate(input Input) (types.GateDecision, error) {
	if len(input.Timeframes) < MinTimeframes {
		return types.GateDecision{}, errors.Newf(errors.ErrCodeGateInvalidInput,
			"gate needs at least %d timeframes, got %d", MinTimeframes, len(input.Timeframes))
	}

	labels := make([]string, 0, len(input.Timeframes))
	for label := range input.Timeframes {
		labels = append(labels, label)
	}

	sort.Strings(labels)

	votes := make([]bias, 0, len(labels))
	for _, label := range labels {
		candles := input.Timeframes[label]
		if len(candles) == 0 {
			return types.GateDecision{}, errors.Newf(errors.ErrCodeGateInvalidInput, "timeframe %s has no candles", label)
		}

		if err := types.ValidateCandles(candles); err != nil {
			return types.GateDecision{}, errors.Wrapf(errors.ErrCodeGateInvalidInput, err, "timeframe %s", label)
		}

		votes = append(votes, bias{timeframe: label, side: g.bias(candles), candles: candles})
	}

	side, consensus := g.consensus(votes)

	pool := votes
	if s, err := side.Take(); err == nil {
		pool = nil
		for _, v := range votes {
			if v.side.IsSome() && v.side.Unwrap() == s {
				pool = append(pool, v)
			}
		}
	}

	criteria := []types.GateCriterion{
		consensus,
		g.trend(pool),
		g.volatility(pool),
		g.modelScore(input.ModelScore),
		g.funding(input.FundingRate),
		g.openInterest(input.OpenInterestDelta, side),
	}

	decision := types.GateDecision{
		Symbol:   input.Symbol,
		Status:   types.GateStatusGo,
		Side:     side,
		Score:    0,
		Criteria: criteria,
		Reasons:  make([]string, 0, len(criteria)),
	}

	var evaluated, passed int

	for _, c := range criteria {
		decision.Reasons = append(decision.Reasons, c.Reason)

		if !c.Evaluated {
			continue
		}

		evaluated++
		if c.Passed {
			passed++
		} else {
			decision.Status = types.GateStatusNo
		}
	}

	if evaluated > 0 {
		decision.Score = float64(passed) / float64(evaluated)
	}

	g.metrics.ObserveGate(string(decision.Status))
	g.log.Info("Gate evaluated",
		zap.String("symbol", input.Symbol),
		zap.String("status", string(decision.Status)),
		zap.Float64("score", decision.Score),
		zap.Int("evaluated", evaluated),
		zap.Int("passed", passed),
	)

	return decision, nil
}

// bias is LONG when close and the fast EMA are both above the slow EMA,
// SHORT when both are below. Anything else, or too little history, is no vote.
func (g *Gate) bias(candles []types.Candle) optional.Option[types.PositionSide] {
	if len(candles) < g.config.SlowEMA {
		return optional.None[types.PositionSide]()
	}

	closes := indicator.Closes(candles)
	last := len(closes) - 1
	fast := indicator.EMA(closes, g.config.FastEMA)[last]
	slow := indicator.EMA(closes, g.config.SlowEMA)[last]

	switch {
	case closes[last] > slow && fast > slow:
		return optional.Some(types.PositionSideLong)
	case closes[last] < slow && fast < slow:
		return optional.Some(types.PositionSideShort)
	default:
		return optional.None[types.PositionSide]()
	}
}

func (g *Gate) consensus(votes []bias) (optional.Option[types.PositionSide], types.GateCriterion) {
	var long, short int

	parts := make([]string, 0, len(votes))
	for _, v := range votes {
		label := "NEUTRAL"
		if s, err := v.side.Take(); err == nil {
			label = string(s)
			if s == types.PositionSideLong {
				long++
			} else {
				short++
			}
		}

		parts = append(parts, fmt.Sprintf("%s=%s", v.timeframe, label))
	}

	criterion := types.GateCriterion{Name: CriterionConsensus, Evaluated: true}
	summary := strings.Join(parts, " ")

	switch {
	case long >= g.config.MinAgreeingTimeframes && long > short:
		criterion.Passed = true
		criterion.Reason = fmt.Sprintf("consensus LONG on %d of %d timeframes (%s)", long, len(votes), summary)

		return optional.Some(types.PositionSideLong), criterion
	case short >= g.config.MinAgreeingTimeframes && short > long:
		criterion.Passed = true
		criterion.Reason = fmt.Sprintf("consensus SHORT on %d of %d timeframes (%s)", short, len(votes), summary)

		return optional.Some(types.PositionSideShort), criterion
	}

	criterion.Reason = fmt.Sprintf("no consensus: need %d agreeing timeframes (%s)", g.config.MinAgreeingTimeframes, summary)

	return optional.None[types.PositionSide](), criterion
}

func (g *Gate) trend(pool []bias) types.GateCriterion {
	criterion := types.GateCriterion{Name: CriterionTrend, Evaluated: true, Passed: true}

	var weak []string

	lowest := math.Inf(1)
	for _, v := range pool {
		adx := indicator.ADX(v.candles, g.config.ADXPeriod).ADX
		value := adx[len(adx)-1]
		lowest = math.Min(lowest, value)

		if value < g.config.MinADX {
			weak = append(weak, fmt.Sprintf("%s=%.1f", v.timeframe, value))
		}
	}

	if len(weak) > 0 {
		criterion.Passed = false
		criterion.Reason = fmt.Sprintf("ADX below %.1f on %s", g.config.MinADX, strings.Join(weak, " "))

		return criterion
	}

	criterion.Reason = fmt.Sprintf("ADX >= %.1f on all %d timeframes (lowest %.1f)", g.config.MinADX, len(pool), lowest)

	return criterion
}

func (g *Gate) volatility(pool []bias) types.GateCriterion {
	criterion := types.GateCriterion{Name: CriterionVolatility, Evaluated: true, Passed: true}

	var outside []string

	for _, v := range pool {
		atr := indicator.ATR(v.candles, g.config.ATRPeriod)
		price := types.LastClose(v.candles)
		if price <= 0 {
			outside = append(outside, fmt.Sprintf("%s no positive close", v.timeframe))

			continue
		}

		pct := 100 * atr[len(atr)-1] / price

		switch {
		case math.IsNaN(pct) || math.IsInf(pct, 0):
			outside = append(outside, fmt.Sprintf("%s=ATR undefined", v.timeframe))
		case pct < g.config.MinATRPercent:
			outside = append(outside, fmt.Sprintf("%s=%.3f%% too quiet", v.timeframe, pct))
		case pct > g.config.MaxATRPercent:
			outside = append(outside, fmt.Sprintf("%s=%.3f%% too volatile", v.timeframe, pct))
		}
	}

	if len(outside) > 0 {
		criterion.Passed = false
		criterion.Reason = fmt.Sprintf("ATR outside [%.2f%%, %.2f%%]: %s",
			g.config.MinATRPercent, g.config.MaxATRPercent, strings.Join(outside, " "))

		return criterion
	}

	criterion.Reason = fmt.Sprintf("ATR within [%.2f%%, %.2f%%] on all %d timeframes",
		g.config.MinATRPercent, g.config.MaxATRPercent, len(pool))

	return criterion
}

func (g *Gate) modelScore(score optional.Option[float64]) types.GateCriterion {
	v, err := score.Take()
	if err != nil {
		return skipped(CriterionModelScore, "model score")
	}

	if v < g.config.MinModelScore {
		return failed(CriterionModelScore, fmt.Sprintf("model score %.3f below %.3f", v, g.config.MinModelScore))
	}

	return passedWith(CriterionModelScore, fmt.Sprintf("model score %.3f >= %.3f", v, g.config.MinModelScore))
}

func (g *Gate) funding(rate optional.Option[float64]) types.GateCriterion {
	v, err := rate.Take()
	if err != nil {
		return skipped(CriterionFunding, "funding rate")
	}

	if math.Abs(v) > g.config.MaxFundingAbs {
		return failed(CriterionFunding, fmt.Sprintf("funding rate %.5f exceeds %.5f", v, g.config.MaxFundingAbs))
	}

	return passedWith(CriterionFunding, fmt.Sprintf("funding rate %.5f within %.5f", v, g.config.MaxFundingAbs))
}

// openInterest rejects a long when open interest collapses beyond the
// tolerance and a short when it expands beyond it.
func (g *Gate) openInterest(delta optional.Option[float64], side optional.Option[types.PositionSide]) types.GateCriterion {
	v, err := delta.Take()
	if err != nil {
		return skipped(CriterionOpenInterest, "open interest delta")
	}

	s, err := side.Take()
	if err != nil {
		return failed(CriterionOpenInterest, fmt.Sprintf("open interest delta %.2f%%: no side selected", v))
	}

	tolerance := g.config.OITolerance
	if (s == types.PositionSideLong && v < -tolerance) || (s == types.PositionSideShort && v > tolerance) {
		return failed(CriterionOpenInterest, fmt.Sprintf("open interest delta %.2f%% contradicts %s beyond %.2f%%", v, s, tolerance))
	}

	return passedWith(CriterionOpenInterest, fmt.Sprintf("open interest delta %.2f%% consistent with %s", v, s))
}

func skipped(name, what string) types.GateCriterion {
	return types.GateCriterion{Name: name, Evaluated: false, Passed: true, Reason: fmt.Sprintf("%s %s", what, notAvailable)}
}

func failed(name, reason string) types.GateCriterion {
	return types.GateCriterion{Name: name, Evaluated: true, Passed: false, Reason: reason}
}

func passedWith(name, reason string) types.GateCriterion {
	return types.GateCriterion{Name: name, Evaluated: true, Passed: true, Reason: reason}
}
