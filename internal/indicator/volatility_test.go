package indicator

import (
	"testing"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/mocks"
	"github.com/stretchr/testify/suite"
)

type VolatilityTestSuite struct {
	suite.Suite
}

func TestVolatilitySuite(t *testing.T) {
	suite.Run(t, new(VolatilityTestSuite))
}

func bars(highs, lows, closes []float64) []types.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.Candle, len(closes))

	for i := range closes {
		candles[i] = types.Candle{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   closes[i],
			High:   highs[i],
			Low:    lows[i],
			Close:  closes[i],
			Volume: 1,
		}
	}

	return candles
}

func (suite *VolatilityTestSuite) TestTrueRange() {
	candles := bars(
		[]float64{10, 12, 11},
		[]float64{8, 11, 7},
		[]float64{9, 11.5, 8},
	)

	// bar 1 gaps above the previous close, bar 2 extends below it
	suite.Equal([]float64{2, 3, 4.5}, TrueRange(candles))
}

func (suite *VolatilityTestSuite) TestATRWilderSmoothed() {
	candles := mocks.Linear(40, 100, 1)
	atr := ATR(candles, 14)

	suite.Equal(2.0, atr[0])
	suite.Greater(atr[39], atr[1])
	suite.Less(atr[39], 3.0+1e-9)
}

func (suite *VolatilityTestSuite) TestADXStrongTrend() {
	candles := mocks.Linear(120, 100, 1)
	result := ADX(candles, 14)

	suite.Greater(result.PlusDI[119], result.MinusDI[119])
	suite.Equal(0.0, result.MinusDI[119])
	suite.Greater(result.ADX[119], 90.0)
}

func (suite *VolatilityTestSuite) TestADXFlatIsZero() {
	result := ADX(mocks.Flat(50, 100), 14)

	for i := range result.ADX {
		suite.Equal(0.0, result.ADX[i])
		suite.Equal(0.0, result.PlusDI[i])
		suite.Equal(0.0, result.MinusDI[i])
	}
}

func (suite *VolatilityTestSuite) TestDonchianIncludesCurrentBar() {
	candles := bars(
		[]float64{5, 7, 6, 9},
		[]float64{4, 5, 3, 8},
		[]float64{4.5, 6, 5, 8.5},
	)
	result := Donchian(candles, 2)

	suite.Equal([]float64{5, 7, 7, 9}, result.Upper)
	suite.Equal([]float64{4, 4, 3, 3}, result.Lower)
	suite.Equal([]float64{4.5, 5.5, 5, 6}, result.Middle)
}

func (suite *VolatilityTestSuite) TestIchimokuMidpoints() {
	candles := bars(
		[]float64{2, 4, 6},
		[]float64{1, 3, 5},
		[]float64{1.5, 3.5, 5.5},
	)
	result := Ichimoku(candles, 2, 3, 5)

	suite.Equal([]float64{1.5, 2.5, 4.5}, result.Tenkan)
	suite.Equal([]float64{1.5, 2.5, 3.5}, result.Kijun)
	suite.Equal([]float64{1.5, 2.5, 4.0}, result.SenkouA)
	suite.Equal(result.Kijun, result.SenkouB)
}

func (suite *VolatilityTestSuite) TestParabolicSARShortInput() {
	candles := bars([]float64{10}, []float64{9}, []float64{9.5})
	suite.Equal([]float64{9}, ParabolicSAR(candles, 0.02, 0.02, 0.2))
}

func (suite *VolatilityTestSuite) TestParabolicSARTrailsUptrend() {
	candles := mocks.Linear(60, 100, 1)
	sar := ParabolicSAR(candles, 0.02, 0.02, 0.2)

	suite.Equal(candles[0].Low, sar[0])

	for i := 1; i < len(candles); i++ {
		suite.LessOrEqual(sar[i], candles[i].Low, "bar %d", i)
	}
}

func (suite *VolatilityTestSuite) TestParabolicSARFlipsOnReversal() {
	candles := mocks.InvertedV(120, 100, 1)
	sar := ParabolicSAR(candles, 0.02, 0.02, 0.2)

	last := len(candles) - 1
	suite.Greater(sar[last], candles[last].High)
}

func (suite *VolatilityTestSuite) TestPivotsStrictExtremum() {
	candles := bars(
		[]float64{1, 2, 5, 2, 1, 3, 3},
		[]float64{0.5, 1, 4, 1, 0.2, 2, 2},
		[]float64{0.8, 1.5, 4.5, 1.5, 0.6, 2.5, 2.5},
	)
	pivots := Pivots(candles, 2)

	suite.Equal(PivotNone, pivots[0])
	suite.Equal(PivotNone, pivots[1])
	suite.Equal(PivotHigh, pivots[2])
	suite.Equal(PivotNone, pivots[3])
	suite.Equal(PivotLow, pivots[4])
	suite.Equal(PivotNone, pivots[5])
	suite.Equal(PivotNone, pivots[6])
}

func (suite *VolatilityTestSuite) TestPivotsTieIsNotPivot() {
	candles := bars(
		[]float64{1, 5, 5, 1, 0.5},
		[]float64{0.5, 4, 4, 0.5, 0.2},
		[]float64{0.8, 4.5, 4.5, 0.8, 0.3},
	)
	pivots := Pivots(candles, 1)

	suite.Equal(PivotNone, pivots[1])
	suite.Equal(PivotNone, pivots[2])
}

func (suite *VolatilityTestSuite) TestLastConfirmedPivot() {
	pivots := []PivotKind{PivotNone, PivotLow, PivotNone, PivotHigh, PivotNone, PivotNone}

	index, ok := LastConfirmedPivot(pivots, 2, 5, PivotHigh)
	suite.True(ok)
	suite.Equal(3, index)

	// the high at 3 is not confirmed before bar 5
	_, ok = LastConfirmedPivot(pivots, 2, 4, PivotHigh)
	suite.False(ok)

	index, ok = LastConfirmedPivot(pivots, 2, 4, PivotLow)
	suite.True(ok)
	suite.Equal(1, index)

	index, ok = LastConfirmedPivot(pivots, 2, 99, PivotHigh)
	suite.True(ok)
	suite.Equal(3, index)
}
