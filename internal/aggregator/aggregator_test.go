package aggregator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/metrics"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/mocks"
	bierrors "github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type stubSource struct {
	name string
	fn   func(ctx context.Context) (aggregator.Score, error)
}

func (s stubSource) Name() string {
	return s.name
}

func (s stubSource) Analyze(ctx context.Context, _ aggregator.Input) (aggregator.Score, error) {
	return s.fn(ctx)
}

func fixed(name string, value float64) stubSource {
	return stubSource{name: name, fn: func(context.Context) (aggregator.Score, error) {
		return aggregator.NewScore(value, name), nil
	}}
}

func null(name string) stubSource {
	return stubSource{name: name, fn: func(context.Context) (aggregator.Score, error) {
		return aggregator.NullScore("no opinion"), nil
	}}
}

func failing(name string) stubSource {
	return stubSource{name: name, fn: func(context.Context) (aggregator.Score, error) {
		return aggregator.Score{}, errors.New("upstream unavailable")
	}}
}

type AggregatorTestSuite struct {
	suite.Suite
	input aggregator.Input
}

func TestAggregatorSuite(t *testing.T) {
	suite.Run(t, new(AggregatorTestSuite))
}

func (suite *AggregatorTestSuite) SetupTest() {
	suite.input = aggregator.Input{Symbol: "BTCUSDT", Candles: mocks.Flat(50, 100)}
}

func (suite *AggregatorTestSuite) aggregate(sources []aggregator.Source, config aggregator.Config) types.AggregatedSignal {
	a, err := aggregator.NewAggregator(sources, config, nil, nil)
	suite.Require().NoError(err)

	signal, err := a.Aggregate(context.Background(), suite.input)
	suite.Require().NoError(err)

	return signal
}

func (suite *AggregatorTestSuite) TestWeightedConsensusExcludesFailedSources() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	a := mocks.NewMockSource(ctrl)
	a.EXPECT().Name().Return("a").AnyTimes()
	a.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(aggregator.NewScore(0.8, "a"), nil)

	b := mocks.NewMockSource(ctrl)
	b.EXPECT().Name().Return("b").AnyTimes()
	b.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(aggregator.Score{}, errors.New("boom"))

	c := mocks.NewMockSource(ctrl)
	c.EXPECT().Name().Return("c").AnyTimes()
	c.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(aggregator.NewScore(-0.2, "c"), nil)

	config := aggregator.DefaultConfig()
	config.Weights = map[string]float64{"a": 0.5, "b": 0.5, "c": 0.3}

	signal := suite.aggregate([]aggregator.Source{a, b, c}, config)

	suite.InDelta(42.5, signal.FinalScore, 1e-9)
	suite.InDelta(75.0, signal.Confidence, 1e-9)
	suite.Equal(types.DirectionBullish, signal.Direction)
	suite.Equal(types.StrengthModerate, signal.Strength)
	suite.Equal(types.RiskLevelMedium, signal.RiskLevel)

	suite.Require().Len(signal.Breakdown, 3)
	suite.Equal("b", signal.Breakdown[1].Name)
	suite.True(signal.Breakdown[1].Score.IsNone())
	suite.Equal(0.0, signal.Breakdown[1].Weight)
	suite.NotEmpty(signal.Breakdown[1].Error)
	suite.Equal(0.3, signal.Breakdown[2].Weight)
	suite.Contains(signal.Alerts, "1 of 3 sources failed")
}

func (suite *AggregatorTestSuite) TestSingleScoreCancelsWeight() {
	config := aggregator.DefaultConfig()
	config.Weights = map[string]float64{"only": 0.2}

	signal := suite.aggregate([]aggregator.Source{null("x"), fixed("only", 0.37), failing("y")}, config)

	suite.InDelta(37.0, signal.FinalScore, 1e-9)
	suite.InDelta(100.0, signal.Confidence, 1e-9)
}

func (suite *AggregatorTestSuite) TestAllSourcesFailed() {
	signal := suite.aggregate([]aggregator.Source{failing("a"), failing("b"), null("c")}, aggregator.DefaultConfig())

	suite.Equal(0.0, signal.FinalScore)
	suite.Equal(0.0, signal.Confidence)
	suite.Equal(types.DirectionNeutral, signal.Direction)
	suite.Equal(types.RiskLevelCritical, signal.RiskLevel)
	suite.Equal(aggregator.RecommendationUnavailable, signal.Recommendation)
	suite.Contains(signal.Alerts, "all sources failed")
	suite.Contains(signal.Alerts, "2 of 3 sources failed")
}

func (suite *AggregatorTestSuite) TestTimedOutSourceIsExcluded() {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	slow := stubSource{name: "slow", fn: func(context.Context) (aggregator.Score, error) {
		// ignores ctx on purpose
		time.Sleep(500 * time.Millisecond)

		return aggregator.NewScore(-1, "late"), nil
	}}

	config := aggregator.DefaultConfig()
	config.SourceTimeout = 20 * time.Millisecond

	a, err := aggregator.NewAggregator([]aggregator.Source{slow, fixed("fast", 0.5)}, config, nil, m)
	suite.Require().NoError(err)

	start := time.Now()
	signal, err := a.Aggregate(context.Background(), suite.input)
	suite.Require().NoError(err)

	suite.Less(time.Since(start), 400*time.Millisecond)
	suite.InDelta(50.0, signal.FinalScore, 1e-9)
	suite.True(signal.Breakdown[0].Score.IsNone())
	suite.Contains(signal.Breakdown[0].Error, "timed out")

	suite.Equal(1.0, testutil.ToFloat64(m.SourceResults.WithLabelValues("slow", metrics.OutcomeTimeout)))
	suite.Equal(1.0, testutil.ToFloat64(m.SourceResults.WithLabelValues("fast", metrics.OutcomeOK)))
}

func (suite *AggregatorTestSuite) TestSourceHonouringDeadlineCountsAsTimeout() {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	waiting := stubSource{name: "waiting", fn: func(ctx context.Context) (aggregator.Score, error) {
		<-ctx.Done()

		return aggregator.Score{}, ctx.Err()
	}}

	config := aggregator.DefaultConfig()
	config.SourceTimeout = 10 * time.Millisecond

	a, err := aggregator.NewAggregator([]aggregator.Source{waiting, fixed("fast", -0.4)}, config, nil, m)
	suite.Require().NoError(err)

	signal, err := a.Aggregate(context.Background(), suite.input)
	suite.Require().NoError(err)

	suite.InDelta(-40.0, signal.FinalScore, 1e-9)
	suite.Equal(types.DirectionBearish, signal.Direction)
	suite.Equal(1.0, testutil.ToFloat64(m.SourceResults.WithLabelValues("waiting", metrics.OutcomeTimeout)))
}

func (suite *AggregatorTestSuite) TestPanickingSourceIsRecovered() {
	panicking := stubSource{name: "panicking", fn: func(context.Context) (aggregator.Score, error) {
		panic("broken model")
	}}

	signal := suite.aggregate([]aggregator.Source{panicking, fixed("ok", 0.3)}, aggregator.DefaultConfig())

	suite.InDelta(30.0, signal.FinalScore, 1e-9)
	suite.Contains(signal.Breakdown[0].Error, "broken model")
}

func (suite *AggregatorTestSuite) TestScoresAreClamped() {
	out := stubSource{name: "loud", fn: func(context.Context) (aggregator.Score, error) {
		return aggregator.Score{Value: optional.Some(3.0), Label: "loud"}, nil
	}}

	signal := suite.aggregate([]aggregator.Source{out}, aggregator.DefaultConfig())

	suite.InDelta(100.0, signal.FinalScore, 1e-9)
	suite.Equal(1.0, signal.Breakdown[0].Score.Unwrap())
	suite.Equal(types.StrengthVeryStrong, signal.Strength)
	suite.Contains(signal.Alerts, "very strong BULLISH signal")
}

func (suite *AggregatorTestSuite) TestRiskSourceSetsRiskLevel() {
	signal := suite.aggregate([]aggregator.Source{fixed("trend", 0.6), fixed(aggregator.DefaultRiskSource, -0.8)}, aggregator.DefaultConfig())

	suite.InDelta(60.0, signal.FinalScore, 1e-9)
	suite.Equal(types.RiskLevelHigh, signal.RiskLevel)
	suite.Equal(0.0, signal.Breakdown[1].Weight)
	suite.Contains(signal.Alerts, "risk level HIGH")
}

func (suite *AggregatorTestSuite) TestDisagreementIsCritical() {
	signal := suite.aggregate([]aggregator.Source{fixed("bull", 1), fixed("bear", -1), fixed(aggregator.DefaultRiskSource, 0.9)}, aggregator.DefaultConfig())

	suite.InDelta(0.0, signal.FinalScore, 1e-9)
	suite.InDelta(0.0, signal.Confidence, 1e-9)
	suite.Equal(types.RiskLevelCritical, signal.RiskLevel)
	suite.Equal(types.DirectionNeutral, signal.Direction)
}

func (suite *AggregatorTestSuite) TestLevels() {
	// a flat series with spread 1 has an ATR of exactly 2
	bullish := suite.aggregate([]aggregator.Source{fixed("up", 0.5)}, aggregator.DefaultConfig())
	suite.Equal(types.Levels{Entry: 100, Stop: 97, Target: 106}, bullish.Levels)
	suite.Contains(bullish.Recommendation, "long")

	bearish := suite.aggregate([]aggregator.Source{fixed("down", -0.5)}, aggregator.DefaultConfig())
	suite.Equal(types.Levels{Entry: 100, Stop: 103, Target: 94}, bearish.Levels)
	suite.Contains(bearish.Recommendation, "short")
}

func (suite *AggregatorTestSuite) TestInvalidInput() {
	a, err := aggregator.NewAggregator([]aggregator.Source{fixed("a", 0.1)}, aggregator.DefaultConfig(), nil, nil)
	suite.Require().NoError(err)

	_, err = a.Aggregate(context.Background(), aggregator.Input{Symbol: "BTCUSDT"})
	suite.True(bierrors.HasCode(err, bierrors.ErrCodeInvalidCandles))

	candles := mocks.Flat(50, 100)
	candles[10].Time = candles[9].Time

	_, err = a.Aggregate(context.Background(), aggregator.Input{Candles: candles})
	suite.True(bierrors.HasCode(err, bierrors.ErrCodeNonMonotonicTime))
}

func (suite *AggregatorTestSuite) TestNewAggregatorErrors() {
	_, err := aggregator.NewAggregator(nil, aggregator.DefaultConfig(), nil, nil)
	suite.True(bierrors.HasCode(err, bierrors.ErrCodeNoSources))

	_, err = aggregator.NewAggregator([]aggregator.Source{fixed("a", 0), fixed("a", 1)}, aggregator.DefaultConfig(), nil, nil)
	suite.True(bierrors.HasCode(err, bierrors.ErrCodeInvalidParameter))

	config := aggregator.DefaultConfig()
	config.Weights["a"] = -1

	_, err = aggregator.NewAggregator([]aggregator.Source{fixed("a", 0)}, config, nil, nil)
	suite.True(bierrors.HasCode(err, bierrors.ErrCodeInvalidWeights))
}

func (suite *AggregatorTestSuite) TestLoadConfig() {
	config, err := aggregator.LoadConfig([]byte(`
weights:
  technical: 2
source_timeout: 2s
`))
	suite.Require().NoError(err)

	suite.Equal(2.0, config.Weight("technical"))
	suite.Equal(0.0, config.Weight(aggregator.DefaultRiskSource))
	suite.Equal(1.0, config.Weight("momentum"))
	suite.Equal(2*time.Second, config.SourceTimeout)

	_, err = aggregator.LoadConfig([]byte("source_timeout: 0s\n"))
	suite.True(bierrors.HasCode(err, bierrors.ErrCodeInvalidConfiguration))

	_, err = aggregator.LoadConfig([]byte("weights: {technical: -1}\n"))
	suite.True(bierrors.HasCode(err, bierrors.ErrCodeInvalidWeights))
}

func (suite *AggregatorTestSuite) TestClassification() {
	suite.Equal(types.DirectionBullish, aggregator.ClassifyDirection(10.5))
	suite.Equal(types.DirectionNeutral, aggregator.ClassifyDirection(10))
	suite.Equal(types.DirectionNeutral, aggregator.ClassifyDirection(-10))
	suite.Equal(types.DirectionBearish, aggregator.ClassifyDirection(-10.5))

	suite.Equal(types.StrengthWeak, aggregator.ClassifyStrength(-19.9))
	suite.Equal(types.StrengthModerate, aggregator.ClassifyStrength(20))
	suite.Equal(types.StrengthStrong, aggregator.ClassifyStrength(-50))
	suite.Equal(types.StrengthVeryStrong, aggregator.ClassifyStrength(80))

	suite.Equal(types.RiskLevelHigh, aggregator.ClassifyRisk(optional.Some(-0.5), 90))
	suite.Equal(types.RiskLevelMedium, aggregator.ClassifyRisk(optional.Some(-0.1), 90))
	suite.Equal(types.RiskLevelLow, aggregator.ClassifyRisk(optional.Some(0.0), 90))
	suite.Equal(types.RiskLevelMedium, aggregator.ClassifyRisk(optional.None[float64](), 90))
	suite.Equal(types.RiskLevelCritical, aggregator.ClassifyRisk(optional.Some(1.0), 29.9))
}
