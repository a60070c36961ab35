// Package stats derives performance metrics from a trade ledger and an
// equity curve. Every function is pure and guards its divisions, so an empty
// run yields zero metrics rather than NaN.
package stats

import (
	"math"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// Analyze computes the metric set of one run. initialEquity is the starting
// capital; BuyAndHoldReturnPercent is left for the caller, which owns the candles.
func Analyze(trades []types.Trade, equity []types.EquityPoint, initialEquity float64) types.PerformanceMetrics {
	metrics := types.PerformanceMetrics{
		TotalTrades:   len(trades),
		InitialEquity: initialEquity,
		FinalEquity:   initialEquity,
	}

	if len(equity) > 0 {
		metrics.FinalEquity = equity[len(equity)-1].Equity
	}

	if initialEquity > 0 {
		metrics.TotalReturnPercent = (metrics.FinalEquity - initialEquity) / initialEquity * 100
	}

	metrics.MaxDrawdownPercent = MaxDrawdownPercent(equity)

	if len(trades) == 0 {
		return metrics
	}

	grossProfit := 0.0
	grossLoss := 0.0

	var holding int64

	for _, trade := range trades {
		metrics.TotalPnL += trade.PnL
		metrics.TotalFees += trade.Fee
		holding += trade.HoldingSeconds

		switch {
		case trade.IsWin():
			metrics.WinningTrades++
			grossProfit += trade.PnL
			metrics.LargestWin = math.Max(metrics.LargestWin, trade.PnL)
		case trade.IsLoss():
			metrics.LosingTrades++
			grossLoss += -trade.PnL
			metrics.LargestLoss = math.Min(metrics.LargestLoss, trade.PnL)
		}
	}

	metrics.AvgHoldingSeconds = holding / int64(len(trades))
	metrics.WinRate = float64(metrics.WinningTrades) / float64(len(trades))

	if metrics.WinningTrades > 0 {
		metrics.AvgWin = grossProfit / float64(metrics.WinningTrades)
	}

	if metrics.LosingTrades > 0 {
		metrics.AvgLoss = grossLoss / float64(metrics.LosingTrades)
		metrics.ProfitFactor = (metrics.AvgWin * float64(metrics.WinningTrades)) /
			(metrics.AvgLoss * float64(metrics.LosingTrades))
	}

	metrics.Expectancy = metrics.WinRate*metrics.AvgWin - (1-metrics.WinRate)*metrics.AvgLoss
	metrics.MaxConsecutiveWins, metrics.MaxConsecutiveLosses = consecutiveRuns(trades)

	returns := TradeReturns(trades)
	metrics.SharpeRatio = SharpeRatio(returns)
	metrics.SortinoRatio = SortinoRatio(returns)
	metrics.CalmarRatio = CalmarRatio(returns, metrics.MaxDrawdownPercent)

	return metrics
}

// TradeReturns returns the percent return of each trade in ledger order.
func TradeReturns(trades []types.Trade) []float64 {
	returns := make([]float64, len(trades))
	for i, trade := range trades {
		returns[i] = trade.PnLPercent
	}

	return returns
}

// MaxDrawdownPercent is the largest drawdown along the equity curve.
func MaxDrawdownPercent(equity []types.EquityPoint) float64 {
	worst := 0.0
	for _, point := range equity {
		worst = math.Max(worst, point.DrawdownPercent)
	}

	return worst
}

// SharpeRatio is mean / population stddev of returns, 0 for fewer than two
// returns or zero dispersion.
func SharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	deviation := stdDev(returns)
	if deviation == 0 {
		return 0
	}

	return mean(returns) / deviation
}

// SortinoRatio is mean return over the downside deviation, the root mean
// square of the negative returns. It is 0 without losing returns.
func SortinoRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	sum := 0.0
	count := 0

	for _, r := range returns {
		if r < 0 {
			sum += r * r
			count++
		}
	}

	if count == 0 {
		return 0
	}

	downside := math.Sqrt(sum / float64(count))
	if downside == 0 {
		return 0
	}

	return mean(returns) / downside
}

// CalmarRatio is mean return over the max drawdown percent, 0 without drawdown.
func CalmarRatio(returns []float64, maxDrawdownPercent float64) float64 {
	if len(returns) < 2 || maxDrawdownPercent == 0 {
		return 0
	}

	return mean(returns) / maxDrawdownPercent
}

// BuyAndHoldReturnPercent is the percent change from the first to the last close.
func BuyAndHoldReturnPercent(candles []types.Candle) float64 {
	if len(candles) < 2 || candles[0].Close == 0 {
		return 0
	}

	first := candles[0].Close
	last := candles[len(candles)-1].Close

	return (last - first) / first * 100
}

func consecutiveRuns(trades []types.Trade) (int, int) {
	maxWins, maxLosses := 0, 0
	wins, losses := 0, 0

	for _, trade := range trades {
		switch {
		case trade.IsWin():
			wins++
			losses = 0
		case trade.IsLoss():
			losses++
			wins = 0
		default:
			wins, losses = 0, 0
		}

		maxWins = max(maxWins, wins)
		maxLosses = max(maxLosses, losses)
	}

	return maxWins, maxLosses
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	m := mean(values)
	sum := 0.0

	for _, v := range values {
		sum += (v - m) * (v - m)
	}

	return math.Sqrt(sum / float64(len(values)))
}
