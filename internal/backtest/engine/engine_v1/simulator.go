package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/backtest/engine"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/logger"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// simulator is the FLAT/OPEN position state machine of a single run. It holds
// at most one position and owns the trade ledger and equity curve of the run.
type simulator struct {
	config    BacktestEngineV1Config
	symbol    string
	sizer     *sizer
	log       *logger.Logger
	callbacks engine.LifecycleCallbacks

	capital  decimal.Decimal
	peak     float64
	position optional.Option[types.Position]
	trades   []types.Trade
	equity   []types.EquityPoint
	skipped  []types.SkippedEntry
}

func newSimulator(config BacktestEngineV1Config, symbol string, candles []types.Candle, log *logger.Logger, callbacks engine.LifecycleCallbacks) *simulator {
	return &simulator{
		config:    config,
		symbol:    symbol,
		sizer:     newSizer(config, candles),
		log:       log,
		callbacks: callbacks,
		capital:   decimal.NewFromFloat(config.InitialCapital),
		peak:      config.InitialCapital,
		position:  optional.None[types.Position](),
		trades:    make([]types.Trade, 0),
		equity:    make([]types.EquityPoint, 0, len(candles)),
		skipped:   make([]types.SkippedEntry, 0),
	}
}

// run feeds every bar and its events through the state machine, then closes
// any position left open at the last close. events must be ordered by index.
func (s *simulator) run(candles []types.Candle, events []types.SignalEvent) error {
	next := 0

	for i, candle := range candles {
		for next < len(events) && events[next].Index == i {
			if err := s.onSignal(events[next]); err != nil {
				return err
			}

			next++
		}

		s.markToMarket(candle)

		if err := s.callbacks.ProcessData(i+1, len(candles)); err != nil {
			return errors.Wrap(errors.ErrCodeCallbackFailed, "OnProcessData callback failed", err)
		}
	}

	if s.position.IsSome() && len(candles) > 0 {
		last := len(candles) - 1
		if err := s.close(last, candles[last].Time, candles[last].Close, ""); err != nil {
			return err
		}

		// the forced close realizes the final mark, replace the last point
		// and the peak it raised
		s.equity = s.equity[:len(s.equity)-1]

		s.peak = s.config.InitialCapital
		if n := len(s.equity); n > 0 {
			s.peak = s.equity[n-1].PeakEquity
		}

		s.markToMarket(candles[last])
	}

	return nil
}

func (s *simulator) onSignal(event types.SignalEvent) error {
	if s.position.IsNone() {
		s.open(event)

		return nil
	}

	position := s.position.Unwrap()
	if event.Kind == position.Side.EntryKind() {
		// same direction while open is a no-op
		return nil
	}

	return s.close(event.Index, event.Time, event.Price, event.Rule)
}

func (s *simulator) open(event types.SignalEvent) {
	side := types.PositionSideLong
	if event.Kind == types.SignalKindSell {
		if !s.config.AllowShort {
			return
		}

		side = types.PositionSideShort
	}

	stop := s.sizer.stopDistance(event.Index, side, event.Price)
	size := s.sizer.size(s.capital, event.Price, stop)

	if stop <= 0 || size <= 0 || math.IsNaN(size) {
		reason := fmt.Sprintf("stop distance %.8f does not allow sizing", stop)
		s.skipped = append(s.skipped, types.SkippedEntry{
			Index:  event.Index,
			Time:   event.Time,
			Rule:   event.Rule,
			Reason: reason,
		})

		s.log.Warn("Entry skipped",
			zap.String("rule", event.Rule),
			zap.Int("index", event.Index),
			zap.String("reason", reason),
		)

		return
	}

	fee := s.fee(event.Price, size)
	s.capital = s.capital.Sub(fee)
	entryFee := fee.InexactFloat64()

	s.position = optional.Some(types.Position{
		Side:         side,
		EntryIndex:   event.Index,
		EntryTime:    event.Time,
		EntryPrice:   event.Price,
		Size:         size,
		StopDistance: stop,
		EntryRule:    event.Rule,
		EntryFee:     entryFee,
	})

	s.log.Debug("Position opened",
		zap.String("side", string(side)),
		zap.String("rule", event.Rule),
		zap.Float64("price", event.Price),
		zap.Float64("size", size),
		zap.Float64("stop_distance", stop),
	)
}

// close realizes the open position at price. An empty exitRule marks the
// synthetic close at the end of data.
func (s *simulator) close(index int, at time.Time, price float64, exitRule string) error {
	position := s.position.Unwrap()

	gross := position.UnrealizedPnL(price)
	exitFee := s.fee(price, position.Size)
	s.capital = s.capital.Add(gross).Sub(exitFee)

	pnl := gross.Sub(exitFee).Sub(decimal.NewFromFloat(position.EntryFee))
	notional := decimal.NewFromFloat(position.EntryPrice).Mul(decimal.NewFromFloat(position.Size))

	pnlPercent := 0.0
	if notional.IsPositive() {
		pnlPercent = pnl.Div(notional).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	reason := types.ExitReasonEndOfData
	if exitRule != "" {
		reason = fmt.Sprintf("%s -> %s", position.EntryRule, exitRule)
	}

	trade := types.Trade{
		ID:             uuid.New().String(),
		Symbol:         s.symbol,
		Side:           position.Side,
		EntryTime:      position.EntryTime,
		EntryPrice:     position.EntryPrice,
		ExitTime:       at,
		ExitPrice:      price,
		Size:           position.Size,
		PnL:            pnl.InexactFloat64(),
		PnLPercent:     pnlPercent,
		Fee:            exitFee.InexactFloat64() + position.EntryFee,
		HoldingSeconds: int64(at.Sub(position.EntryTime).Seconds()),
		EntryRule:      position.EntryRule,
		ExitRule:       exitRule,
		Reason:         reason,
	}

	s.trades = append(s.trades, trade)
	s.position = optional.None[types.Position]()

	s.log.Debug("Position closed",
		zap.String("side", string(trade.Side)),
		zap.Int("index", index),
		zap.Float64("price", price),
		zap.Float64("pnl", trade.PnL),
		zap.String("reason", reason),
	)

	if err := s.callbacks.Trade(trade); err != nil {
		return errors.Wrap(errors.ErrCodeCallbackFailed, "OnTrade callback failed", err)
	}

	return nil
}

// markToMarket appends the equity point of a closed bar.
func (s *simulator) markToMarket(candle types.Candle) {
	equity := s.capital
	if s.position.IsSome() {
		equity = equity.Add(s.position.Unwrap().UnrealizedPnL(candle.Close))
	}

	value := equity.InexactFloat64()
	s.peak = math.Max(s.peak, value)

	drawdown := 0.0
	if s.peak > 0 {
		drawdown = (s.peak - value) / s.peak * 100
	}

	s.equity = append(s.equity, types.EquityPoint{
		Time:            candle.Time,
		Equity:          value,
		PeakEquity:      s.peak,
		DrawdownPercent: math.Min(math.Max(drawdown, 0), 100),
	})
}

func (s *simulator) fee(price, size float64) decimal.Decimal {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromFloat(size)).
		Mul(decimal.NewFromFloat(s.config.FeeRate))
}
