package engine

import (
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/indicator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/shopspring/decimal"
)

// sizer derives stop distances and position sizes for one run.
type sizer struct {
	config  BacktestEngineV1Config
	candles []types.Candle
	atr     []float64
	pivots  []indicator.PivotKind
}

func newSizer(config BacktestEngineV1Config, candles []types.Candle) *sizer {
	s := &sizer{
		config:  config,
		candles: candles,
		atr:     indicator.ATR(candles, config.ATRPeriod),
		pivots:  nil,
	}

	if config.StopType == StopTypeSupportResistance {
		s.pivots = indicator.Pivots(candles, config.SupportResistancePeriod)
	}

	return s
}

// stopDistance returns the distance from price to the stop of a new
// position opened at bar i. A result <= 0 means no position can be sized.
func (s *sizer) stopDistance(i int, side types.PositionSide, price float64) float64 {
	switch s.config.StopType {
	case StopTypeFixedPercent:
		return price * s.config.FixedStopPercent / 100
	case StopTypeSupportResistance:
		if distance, ok := s.pivotDistance(i, side, price); ok {
			return distance
		}
	}

	return s.atr[i] * s.config.ATRMultiplier
}

// pivotDistance measures to the latest pivot low below price for longs and
// the latest pivot high above price for shorts, using only pivots confirmed
// by bar i.
func (s *sizer) pivotDistance(i int, side types.PositionSide, price float64) (float64, bool) {
	kind := indicator.PivotLow
	if side == types.PositionSideShort {
		kind = indicator.PivotHigh
	}

	at, ok := indicator.LastConfirmedPivot(s.pivots, s.config.SupportResistancePeriod, i, kind)
	if !ok {
		return 0, false
	}

	distance := price - s.candles[at].Low
	if side == types.PositionSideShort {
		distance = s.candles[at].High - price
	}

	if distance <= 0 {
		return 0, false
	}

	return distance, true
}

// size is riskAmount / stopDistance, capped so that the notional does not
// exceed equity times leverage.
func (s *sizer) size(equity decimal.Decimal, price, stopDistance float64) float64 {
	if stopDistance <= 0 || price <= 0 || !equity.IsPositive() {
		return 0
	}

	risk := equity.Mul(decimal.NewFromFloat(s.config.RiskPercent)).Div(decimal.NewFromInt(100))
	size := risk.Div(decimal.NewFromFloat(stopDistance))

	maxSize := equity.Mul(decimal.NewFromFloat(s.config.Leverage)).Div(decimal.NewFromFloat(price))
	if size.GreaterThan(maxSize) {
		size = maxSize
	}

	return size.InexactFloat64()
}
