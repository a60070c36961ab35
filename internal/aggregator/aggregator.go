// Package aggregator combines independent analyzer sources into one weighted
// consensus. Sources run concurrently and fail independently: a failed or
// timed-out source contributes no score and no weight.
package aggregator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/indicator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/logger"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/metrics"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecommendationUnavailable is the recommendation when no source produced a score.
const RecommendationUnavailable = "analysis unavailable"

const (
	directionThreshold  = 10
	lowConfidence       = 30
	highRiskScore       = -0.5
	veryStrongThreshold = 80
)

type Aggregator struct {
	sources []Source
	config  Config
	log     *logger.Logger
	metrics *metrics.Metrics
}

// result is the settled outcome of one source call.
type result struct {
	score   Score
	err     error
	outcome string
	latency time.Duration
}

// NewAggregator validates config and the source set. Source names must be unique.
func NewAggregator(sources []Source, config Config, log *logger.Logger, m *metrics.Metrics) (*Aggregator, error) {
	if len(sources) == 0 {
		return nil, errors.New(errors.ErrCodeNoSources, "aggregator needs at least one source")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(sources))
	for _, source := range sources {
		if _, ok := seen[source.Name()]; ok {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "NewAggregator: source %s already registered", source.Name())
		}

		seen[source.Name()] = struct{}{}
	}

	return &Aggregator{
		sources: sources,
		config:  config,
		log:     logger.OrNop(log),
		metrics: m,
	}, nil
}

// Aggregate runs every source and combines their scores. Invalid candles are
// an error; source failures never are.
func (a *Aggregator) Aggregate(ctx context.Context, input Input) (types.AggregatedSignal, error) {
	if len(input.Candles) == 0 {
		return types.AggregatedSignal{}, errors.New(errors.ErrCodeInvalidCandles, "aggregation needs at least one candle")
	}

	if err := types.ValidateCandles(input.Candles); err != nil {
		return types.AggregatedSignal{}, err
	}

	results := a.collect(ctx, input)

	signal := types.AggregatedSignal{
		Symbol:         input.Symbol,
		FinalScore:     0,
		Confidence:     0,
		Direction:      types.DirectionNeutral,
		Strength:       types.StrengthWeak,
		RiskLevel:      types.RiskLevelCritical,
		Breakdown:      make([]types.SourceBreakdown, len(a.sources)),
		Levels:         types.Levels{},
		Recommendation: RecommendationUnavailable,
		Alerts:         []string{},
	}

	var (
		weighted float64
		total    float64
		scores   []float64
		failed   int
		risk     = optional.None[float64]()
	)

	for i, source := range a.sources {
		r := results[i]
		breakdown := types.SourceBreakdown{
			Name:   source.Name(),
			Score:  r.score.Value,
			Weight: 0,
			Label:  r.score.Label,
		}

		if r.err != nil {
			failed++
			breakdown.Score = optional.None[float64]()
			breakdown.Error = r.err.Error()
		}

		if v, err := breakdown.Score.Take(); err == nil {
			if source.Name() == a.config.RiskSource {
				risk = optional.Some(v)
			}

			if w := a.config.Weight(source.Name()); w > 0 {
				breakdown.Weight = w
				weighted += v * w
				total += w
				scores = append(scores, v)
			}
		}

		signal.Breakdown[i] = breakdown
	}

	if failed > 0 {
		signal.Alerts = append(signal.Alerts, fmt.Sprintf("%d of %d sources failed", failed, len(a.sources)))
	}

	if len(scores) == 0 {
		signal.Alerts = append(signal.Alerts, "all sources failed")

		a.log.Warn("No source produced a score",
			zap.String("symbol", input.Symbol),
			zap.Int("sources", len(a.sources)),
			zap.Int("failed", failed),
		)

		return signal, nil
	}

	signal.FinalScore = 100 * weighted / total
	signal.Confidence = Confidence(scores)
	signal.Direction = ClassifyDirection(signal.FinalScore)
	signal.Strength = ClassifyStrength(signal.FinalScore)
	signal.RiskLevel = ClassifyRisk(risk, signal.Confidence)
	signal.Levels = a.levels(input.Candles, signal.Direction)
	signal.Recommendation = recommend(signal)
	signal.Alerts = append(signal.Alerts, alerts(signal)...)

	a.log.Info("Aggregated signal",
		zap.String("symbol", input.Symbol),
		zap.Float64("final_score", signal.FinalScore),
		zap.Float64("confidence", signal.Confidence),
		zap.String("direction", string(signal.Direction)),
		zap.String("risk_level", string(signal.RiskLevel)),
		zap.Int("failed", failed),
	)

	return signal, nil
}

// collect launches every source and waits for all of them to settle.
// results[i] belongs to a.sources[i].
func (a *Aggregator) collect(ctx context.Context, input Input) []result {
	results := make([]result, len(a.sources))

	var group errgroup.Group

	for i, source := range a.sources {
		group.Go(func() error {
			results[i] = a.call(ctx, source, input)

			return nil
		})
	}

	// goroutines never return an error
	_ = group.Wait()

	return results
}

// call runs one source under its own deadline.
func (a *Aggregator) call(ctx context.Context, source Source, input Input) result {
	ctx, cancel := context.WithTimeout(ctx, a.config.SourceTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: errors.Newf(errors.ErrCodeSourceFailed, "source %s panicked: %v", source.Name(), r)}
			}
		}()

		score, err := source.Analyze(ctx, input)
		done <- result{score: score, err: err}
	}()

	var r result

	select {
	case r = <-done:
		r.outcome = metrics.OutcomeOK
		if r.err != nil {
			r.outcome = metrics.OutcomeError
			if ctx.Err() != nil {
				r.outcome = metrics.OutcomeTimeout
			}
		} else if r.score.Value.IsNone() {
			r.outcome = metrics.OutcomeNull
		}
	case <-ctx.Done():
		r = result{
			err:     errors.Wrapf(errors.ErrCodeSourceTimeout, ctx.Err(), "source %s timed out", source.Name()),
			outcome: metrics.OutcomeTimeout,
		}
	}

	r.latency = time.Since(start)
	a.metrics.ObserveSource(source.Name(), r.outcome, r.latency)

	if r.err != nil {
		a.log.Warn("Source failed",
			zap.String("source", source.Name()),
			zap.String("outcome", r.outcome),
			zap.Duration("latency", r.latency),
			zap.Error(r.err),
		)
	} else {
		a.log.Debug("Source scored",
			zap.String("source", source.Name()),
			zap.String("label", r.score.Label),
			zap.Duration("latency", r.latency),
		)
	}

	if v, err := r.score.Value.Take(); err == nil {
		r.score = NewScore(v, r.score.Label)
	}

	return r
}

func (a *Aggregator) levels(candles []types.Candle, direction types.Direction) types.Levels {
	entry := types.LastClose(candles)
	atr := indicator.ATR(candles, a.config.ATRPeriod)
	risk := atr[len(atr)-1] * a.config.StopATRMultiplier
	reward := atr[len(atr)-1] * a.config.TargetATRMultiplier

	if direction == types.DirectionBearish {
		return types.Levels{Entry: entry, Stop: entry + risk, Target: math.Max(entry-reward, 0)}
	}

	return types.Levels{Entry: entry, Stop: math.Max(entry-risk, 0), Target: entry + reward}
}

// Confidence is 100 * max(0, 1 - variance) over the population variance of scores.
func Confidence(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	mean := 0.0
	for _, s := range scores {
		mean += s
	}

	mean /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}

	variance /= float64(len(scores))

	return 100 * math.Max(0, 1-variance)
}

func ClassifyDirection(finalScore float64) types.Direction {
	switch {
	case finalScore > directionThreshold:
		return types.DirectionBullish
	case finalScore < -directionThreshold:
		return types.DirectionBearish
	default:
		return types.DirectionNeutral
	}
}

func ClassifyStrength(finalScore float64) types.Strength {
	magnitude := math.Abs(finalScore)

	switch {
	case magnitude < 20:
		return types.StrengthWeak
	case magnitude < 50:
		return types.StrengthModerate
	case magnitude < veryStrongThreshold:
		return types.StrengthStrong
	default:
		return types.StrengthVeryStrong
	}
}

// ClassifyRisk maps the risk source score, where -1 is maximum risk, to a
// level. Low confidence is CRITICAL whatever the risk score. Without a risk
// score the level is MEDIUM.
func ClassifyRisk(riskScore optional.Option[float64], confidence float64) types.RiskLevel {
	if confidence < lowConfidence {
		return types.RiskLevelCritical
	}

	v, err := riskScore.Take()
	if err != nil {
		return types.RiskLevelMedium
	}

	switch {
	case v <= highRiskScore:
		return types.RiskLevelHigh
	case v < 0:
		return types.RiskLevelMedium
	default:
		return types.RiskLevelLow
	}
}

func recommend(signal types.AggregatedSignal) string {
	if signal.Direction == types.DirectionNeutral {
		return "no clear direction, wait for confirmation"
	}

	if signal.RiskLevel == types.RiskLevelCritical {
		return fmt.Sprintf("%s signal with low confidence, wait for confirmation", signalName(signal))
	}

	side := "long"
	if signal.Direction == types.DirectionBearish {
		side = "short"
	}

	return fmt.Sprintf("%s signal: consider a %s entry near %.2f, stop %.2f, target %.2f",
		signalName(signal), side, signal.Levels.Entry, signal.Levels.Stop, signal.Levels.Target)
}

func alerts(signal types.AggregatedSignal) []string {
	var out []string

	if signal.Confidence < lowConfidence {
		out = append(out, fmt.Sprintf("low confidence %.1f: sources disagree", signal.Confidence))
	}

	if signal.RiskLevel == types.RiskLevelHigh || signal.RiskLevel == types.RiskLevelCritical {
		out = append(out, fmt.Sprintf("risk level %s", signal.RiskLevel))
	}

	if signal.Strength == types.StrengthVeryStrong {
		out = append(out, fmt.Sprintf("very strong %s signal", signal.Direction))
	}

	return out
}

func signalName(signal types.AggregatedSignal) string {
	return fmt.Sprintf("%s %s", signal.Strength, signal.Direction)
}
