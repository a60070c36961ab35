package gate

import (
	"testing"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/metrics"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/mocks"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type GateTestSuite struct {
	suite.Suite
	gate    *Gate
	metrics *metrics.Metrics
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateTestSuite))
}

func (suite *GateTestSuite) SetupTest() {
	suite.metrics = metrics.New(prometheus.NewRegistry())

	gate, err := NewGate(DefaultConfig(), nil, suite.metrics)
	suite.Require().NoError(err)

	suite.gate = gate
}

func uptrend() []types.Candle {
	return mocks.Linear(120, 100, 1)
}

func downtrend() []types.Candle {
	return mocks.Linear(120, 300, -1)
}

// flatThenRising is a long bias with ADX still below 20.
func flatThenRising() []types.Candle {
	closes := make([]float64, 110)
	for i := range closes {
		closes[i] = 100
	}

	closes = append(closes, 100.5, 101)

	return mocks.FromCloses(closes, 1)
}

func timeframes(m15, h1, h4 []types.Candle) map[string][]types.Candle {
	return map[string][]types.Candle{"15m": m15, "1h": h1, "4h": h4}
}

func (suite *GateTestSuite) evaluate(input Input) types.GateDecision {
	decision, err := suite.gate.Evaluate(input)
	suite.Require().NoError(err)
	suite.Require().Len(decision.Reasons, 6)
	suite.Require().Len(decision.Criteria, 6)

	return decision
}

func (suite *GateTestSuite) criterion(decision types.GateDecision, name string) types.GateCriterion {
	for _, c := range decision.Criteria {
		if c.Name == name {
			return c
		}
	}

	suite.FailNow("criterion not found", name)

	return types.GateCriterion{}
}

func (suite *GateTestSuite) TestGoWithAllSignals() {
	decision := suite.evaluate(Input{
		Symbol:            "BTCUSDT",
		Timeframes:        timeframes(uptrend(), uptrend(), uptrend()),
		ModelScore:        optional.Some(0.7),
		FundingRate:       optional.Some(0.0001),
		OpenInterestDelta: optional.Some(2.0),
	})

	suite.Equal(types.GateStatusGo, decision.Status)
	suite.Equal(types.PositionSideLong, decision.Side.Unwrap())
	suite.Equal(1.0, decision.Score)
	suite.Equal("BTCUSDT", decision.Symbol)

	names := make([]string, 0, len(decision.Criteria))
	for _, c := range decision.Criteria {
		suite.True(c.Evaluated)
		suite.True(c.Passed)
		names = append(names, c.Name)
	}

	suite.Equal([]string{
		CriterionConsensus, CriterionTrend, CriterionVolatility,
		CriterionModelScore, CriterionFunding, CriterionOpenInterest,
	}, names)
	suite.Contains(decision.Reasons[0], "consensus LONG on 3 of 3")
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.GateDecisions.WithLabelValues("GO")))
}

func (suite *GateTestSuite) TestMissingOptionalDataPasses() {
	decision := suite.evaluate(Input{Timeframes: timeframes(uptrend(), uptrend(), uptrend())})

	suite.Equal(types.GateStatusGo, decision.Status)
	suite.Equal(1.0, decision.Score)

	for _, name := range []string{CriterionModelScore, CriterionFunding, CriterionOpenInterest} {
		c := suite.criterion(decision, name)
		suite.False(c.Evaluated)
		suite.True(c.Passed)
		suite.Contains(c.Reason, "not available")
	}
}

func (suite *GateTestSuite) TestMajorityPicksSideAndPool() {
	decision := suite.evaluate(Input{Timeframes: timeframes(uptrend(), downtrend(), uptrend())})

	suite.Equal(types.GateStatusGo, decision.Status)
	suite.Equal(types.PositionSideLong, decision.Side.Unwrap())
	suite.Contains(decision.Reasons[0], "2 of 3")
	suite.Contains(decision.Reasons[1], "all 2 timeframes")

	short := suite.evaluate(Input{Timeframes: timeframes(downtrend(), downtrend(), uptrend())})
	suite.Equal(types.PositionSideShort, short.Side.Unwrap())
}

func (suite *GateTestSuite) TestNoConsensus() {
	decision := suite.evaluate(Input{
		Timeframes:        timeframes(uptrend(), downtrend(), mocks.Flat(120, 100)),
		OpenInterestDelta: optional.Some(1.0),
	})

	suite.Equal(types.GateStatusNo, decision.Status)
	suite.True(decision.Side.IsNone())
	suite.False(suite.criterion(decision, CriterionConsensus).Passed)
	suite.Contains(decision.Reasons[0], "no consensus")
	suite.Contains(decision.Reasons[0], "4h=NEUTRAL")

	oi := suite.criterion(decision, CriterionOpenInterest)
	suite.True(oi.Evaluated)
	suite.False(oi.Passed)
	suite.Contains(oi.Reason, "no side selected")
	suite.Equal(1.0, testutil.ToFloat64(suite.metrics.GateDecisions.WithLabelValues("NO")))
}

func (suite *GateTestSuite) TestShortHistoryDoesNotVote() {
	decision := suite.evaluate(Input{Timeframes: timeframes(uptrend(), uptrend(), mocks.Linear(30, 100, 1))})

	suite.Equal(types.PositionSideLong, decision.Side.Unwrap())
	suite.Contains(decision.Reasons[0], "4h=NEUTRAL")
}

func (suite *GateTestSuite) TestModelScoreBelowMinimum() {
	decision := suite.evaluate(Input{
		Timeframes: timeframes(uptrend(), uptrend(), uptrend()),
		ModelScore: optional.Some(0.4),
	})

	suite.Equal(types.GateStatusNo, decision.Status)
	suite.InDelta(0.75, decision.Score, 1e-9)
	suite.Contains(suite.criterion(decision, CriterionModelScore).Reason, "below")
}

func (suite *GateTestSuite) TestFundingTooHigh() {
	decision := suite.evaluate(Input{
		Timeframes:  timeframes(uptrend(), uptrend(), uptrend()),
		FundingRate: optional.Some(-0.002),
	})

	suite.Equal(types.GateStatusNo, decision.Status)
	suite.False(suite.criterion(decision, CriterionFunding).Passed)
}

func (suite *GateTestSuite) TestOpenInterest() {
	tests := []struct {
		name   string
		frames map[string][]types.Candle
		delta  float64
		passed bool
	}{
		{"long with collapsing interest", timeframes(uptrend(), uptrend(), uptrend()), -8, false},
		{"long within tolerance", timeframes(uptrend(), uptrend(), uptrend()), -4, true},
		{"short with expanding interest", timeframes(downtrend(), downtrend(), downtrend()), 6, false},
		{"short with falling interest", timeframes(downtrend(), downtrend(), downtrend()), -20, true},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			decision := suite.evaluate(Input{Timeframes: tt.frames, OpenInterestDelta: optional.Some(tt.delta)})

			oi := suite.criterion(decision, CriterionOpenInterest)
			suite.True(oi.Evaluated)
			suite.Equal(tt.passed, oi.Passed)
			suite.Equal(tt.passed, decision.Status == types.GateStatusGo)
		})
	}
}

func (suite *GateTestSuite) TestVolatilityBand() {
	quiet := mocks.Linear(120, 100000, 1)

	decision := suite.evaluate(Input{Timeframes: timeframes(quiet, quiet, quiet)})
	suite.Equal(types.GateStatusNo, decision.Status)

	c := suite.criterion(decision, CriterionVolatility)
	suite.False(c.Passed)
	suite.Contains(c.Reason, "too quiet")

	config := DefaultConfig()
	config.MaxATRPercent = 1

	strict, err := NewGate(config, nil, nil)
	suite.Require().NoError(err)

	decision, err = strict.Evaluate(Input{Timeframes: timeframes(uptrend(), uptrend(), uptrend())})
	suite.Require().NoError(err)
	suite.Contains(decision.Reasons[2], "too volatile")
}

func (suite *GateTestSuite) TestZeroPriceFailsVolatility() {
	zero := mocks.FromCloses(make([]float64, 120), 0)

	decision := suite.evaluate(Input{Timeframes: timeframes(zero, zero, zero)})
	suite.Equal(types.GateStatusNo, decision.Status)

	c := suite.criterion(decision, CriterionVolatility)
	suite.True(c.Evaluated)
	suite.False(c.Passed)
	suite.Contains(c.Reason, "no positive close")
}

func (suite *GateTestSuite) TestWeakTrend() {
	decision := suite.evaluate(Input{Timeframes: timeframes(flatThenRising(), flatThenRising(), flatThenRising())})

	suite.Equal(types.PositionSideLong, decision.Side.Unwrap())
	suite.Equal(types.GateStatusNo, decision.Status)

	c := suite.criterion(decision, CriterionTrend)
	suite.False(c.Passed)
	suite.Contains(c.Reason, "ADX below 20.0")
	suite.InDelta(2.0/3.0, decision.Score, 1e-9)
}

func (suite *GateTestSuite) TestInvalidInput() {
	_, err := suite.gate.Evaluate(Input{Timeframes: map[string][]types.Candle{"1h": uptrend(), "4h": uptrend()}})
	suite.True(errors.HasCode(err, errors.ErrCodeGateInvalidInput))

	_, err = suite.gate.Evaluate(Input{Timeframes: timeframes(uptrend(), nil, uptrend())})
	suite.True(errors.HasCode(err, errors.ErrCodeGateInvalidInput))

	broken := uptrend()
	broken[10].High = broken[10].Low - 1

	_, err = suite.gate.Evaluate(Input{Timeframes: timeframes(uptrend(), uptrend(), broken)})
	suite.True(errors.HasCode(err, errors.ErrCodeGateInvalidInput))
}

func (suite *GateTestSuite) TestLoadConfig() {
	config, err := LoadConfig([]byte("min_adx: 25\nmin_model_score: 0.8\n"))
	suite.Require().NoError(err)
	suite.Equal(25.0, config.MinADX)
	suite.Equal(0.8, config.MinModelScore)
	suite.Equal(DefaultConfig().SlowEMA, config.SlowEMA)

	_, err = LoadConfig([]byte("min_atr_pct: 3\nmax_atr_pct: 1\n"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	_, err = LoadConfig([]byte("fast_ema: [1"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	bad := DefaultConfig()
	bad.SlowEMA = bad.FastEMA

	_, err = NewGate(bad, nil, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}
