package strategy

import (
	"fmt"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/indicator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// crossWarmup is the number of bars past the slow period before a two-average
// cross is considered meaningful.
const crossWarmup = 10

// EMACross fires when the fast EMA crosses the slow EMA.
type EMACross struct {
	Fast int
	Slow int
}

func (r EMACross) Name() string {
	return fmt.Sprintf("ema_cross_%d_%d", r.Fast, r.Slow)
}

func (r EMACross) MinBars() int {
	return r.Slow + crossWarmup
}

func (r EMACross) Prepare(candles []types.Candle) Evaluation {
	closes := indicator.Closes(candles)
	fast := indicator.EMA(closes, r.Fast)
	slow := indicator.EMA(closes, r.Slow)

	l := crossLevels(fast, slow)
	l.snapshot[fmt.Sprintf("ema_%d", r.Fast)] = fast
	l.snapshot[fmt.Sprintf("ema_%d", r.Slow)] = slow

	return l
}

// SMACross fires when the fast SMA crosses the slow SMA.
type SMACross struct {
	Fast int
	Slow int
}

func (r SMACross) Name() string {
	return fmt.Sprintf("sma_cross_%d_%d", r.Fast, r.Slow)
}

func (r SMACross) MinBars() int {
	return r.Slow + crossWarmup
}

func (r SMACross) Prepare(candles []types.Candle) Evaluation {
	closes := indicator.Closes(candles)
	fast := indicator.SMA(closes, r.Fast)
	slow := indicator.SMA(closes, r.Slow)

	l := crossLevels(fast, slow)
	l.snapshot[fmt.Sprintf("sma_%d", r.Fast)] = fast
	l.snapshot[fmt.Sprintf("sma_%d", r.Slow)] = slow

	return l
}

// EMAPriceCross fires when the close crosses its EMA.
type EMAPriceCross struct {
	Period int
}

func (r EMAPriceCross) Name() string {
	return fmt.Sprintf("ema_price_cross_%d", r.Period)
}

func (r EMAPriceCross) MinBars() int {
	return r.Period + crossWarmup
}

func (r EMAPriceCross) Prepare(candles []types.Candle) Evaluation {
	closes := indicator.Closes(candles)
	ema := indicator.EMA(closes, r.Period)

	l := crossLevels(closes, ema)
	l.snapshot["close"] = closes
	l.snapshot[fmt.Sprintf("ema_%d", r.Period)] = ema

	return l
}

// MACDCross fires when the MACD line crosses its signal line.
type MACDCross struct {
	Fast   int
	Slow   int
	Signal int
}

func (r MACDCross) Name() string {
	return fmt.Sprintf("macd_cross_%d_%d_%d", r.Fast, r.Slow, r.Signal)
}

func (r MACDCross) MinBars() int {
	return r.Slow + r.Signal
}

func (r MACDCross) Prepare(candles []types.Candle) Evaluation {
	macd := indicator.MACD(indicator.Closes(candles), r.Fast, r.Slow, r.Signal)

	l := crossLevels(macd.MACD, macd.Signal)
	l.snapshot["macd"] = macd.MACD
	l.snapshot["macd_signal"] = macd.Signal
	l.snapshot["macd_histogram"] = macd.Histogram

	return l
}
