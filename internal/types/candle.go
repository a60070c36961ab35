package types

import (
	"math"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
)

// Candle is one closed OHLCV period. Candles are supplied oldest first.
type Candle struct {
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// ValidateCandles checks the ordering and OHLC invariants of a candle sequence.
// An empty sequence is valid. Violations are reported as fatal errors and are
// never corrected.
func ValidateCandles(candles []Candle) error {
	for i, c := range candles {
		if err := validateCandle(i, c); err != nil {
			return err
		}

		if i > 0 && !c.Time.After(candles[i-1].Time) {
			return errors.Newf(errors.ErrCodeNonMonotonicTime,
				"candle %d at %s is not after candle %d at %s",
				i, c.Time.Format(time.RFC3339), i-1, candles[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}

func validateCandle(i int, c Candle) error {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrCodeInvalidCandles, "candle %d contains a non-finite value", i)
		}
	}

	if c.Time.IsZero() {
		return errors.Newf(errors.ErrCodeInvalidCandles, "candle %d has no time", i)
	}

	if c.Open < 0 || c.High < 0 || c.Low < 0 || c.Close < 0 || c.Volume < 0 {
		return errors.Newf(errors.ErrCodeInvalidCandles, "candle %d contains a negative value", i)
	}

	if c.High < c.Low {
		return errors.Newf(errors.ErrCodeInvalidCandles, "candle %d has high %.8f below low %.8f", i, c.High, c.Low)
	}

	return nil
}

// LastClose returns the close of the newest candle, or 0 for an empty slice.
func LastClose(candles []Candle) float64 {
	if len(candles) == 0 {
		return 0
	}

	return candles[len(candles)-1].Close
}
