package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// DataGenerator generates candles for tests and benchmarks.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how candles are generated.
type GeneratorConfig struct {
	// Symbol is the trading pair (e.g., "BTCUSDT")
	Symbol string
	// StartTime is the time of the first candle
	StartTime time.Time
	// Interval is the duration between each candle
	Interval time.Duration
	// Count is the number of candles to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% per bar)
	Volatility float64
	// Trend is the drift over the whole series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "BTCUSDT",
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       time.Hour,
		Count:          1000,
		InitialPrice:   40000,
		Volatility:     0.01,
		Trend:          0.0,
		VolumeBase:     100,
		VolumeVariance: 0.3,
	}
}

// Generate creates candles following a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Candle {
	data := make([]types.Candle, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normal draw
		u1 := g.rng.Float64()
		if u1 == 0 {
			u1 = math.SmallestNonzeroFloat64
		}

		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		closePrice := open * (1 + config.Volatility*z + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, closePrice) + highExtension

		low := math.Min(open, closePrice) - lowExtension
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		data[i] = types.Candle{
			Symbol: config.Symbol,
			Time:   currentTime,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: roundToDecimals(volume, 2),
		}

		currentPrice = closePrice
		currentTime = currentTime.Add(config.Interval)
	}

	return data
}

// FromCloses builds candles from a close series with a fixed high/low spread
// and constant volume, starting at 2024-01-01 UTC on an hourly interval.
func FromCloses(closes []float64, spread float64) []types.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]types.Candle, len(closes))

	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}

		candles[i] = types.Candle{
			Symbol: "BTCUSDT",
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   open,
			High:   math.Max(open, c) + spread,
			Low:    math.Max(math.Min(open, c)-spread, 0),
			Close:  c,
			Volume: 100,
		}
	}

	return candles
}

// Flat returns count candles that all close at price.
func Flat(count int, price float64) []types.Candle {
	closes := make([]float64, count)
	for i := range closes {
		closes[i] = price
	}

	return FromCloses(closes, 1)
}

// Linear returns count candles moving by step per bar from start.
func Linear(count int, start, step float64) []types.Candle {
	closes := make([]float64, count)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}

	return FromCloses(closes, 1)
}

// InvertedV returns count candles rising by step for the first half and
// falling by step for the second half.
func InvertedV(count int, start, step float64) []types.Candle {
	closes := make([]float64, count)
	half := count / 2

	for i := range closes {
		if i < half {
			closes[i] = start + float64(i)*step
		} else {
			closes[i] = start + float64(half-1)*step - float64(i-half+1)*step
		}
	}

	return FromCloses(closes, 1)
}

// Generate10K is a convenience function to generate 10,000 candles with
// default settings for benchmarking.
func Generate10K(symbol string) []types.Candle {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Symbol = symbol
	config.Count = 10000

	return gen.Generate(config)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
