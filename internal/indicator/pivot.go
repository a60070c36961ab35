package indicator

import "github.com/KryptoMuratLive/bit-insight-sub000/internal/types"

type PivotKind int

const (
	PivotNone PivotKind = iota
	PivotHigh
	PivotLow
)

// Pivots marks bars that are the strict extremum of the 2*period+1 bars
// centred on them. Bars closer than period to either end stay PivotNone. A
// pivot at i is only confirmed at i+period; see LastConfirmedPivot.
func Pivots(candles []types.Candle, period int) []PivotKind {
	out := make([]PivotKind, len(candles))
	if period < 1 {
		return out
	}

	for i := period; i+period < len(candles); i++ {
		isHigh, isLow := true, true

		for j := i - period; j <= i+period; j++ {
			if j == i {
				continue
			}

			if candles[j].High >= candles[i].High {
				isHigh = false
			}

			if candles[j].Low <= candles[i].Low {
				isLow = false
			}
		}

		switch {
		case isHigh:
			out[i] = PivotHigh
		case isLow:
			out[i] = PivotLow
		}
	}

	return out
}

// LastConfirmedPivot returns the index of the newest pivot of the given kind
// that is already confirmed at bar asOf, meaning its index plus period is at
// most asOf.
func LastConfirmedPivot(pivots []PivotKind, period, asOf int, kind PivotKind) (int, bool) {
	last := asOf - period
	if last >= len(pivots) {
		last = len(pivots) - 1
	}

	for i := last; i >= 0; i-- {
		if pivots[i] == kind {
			return i, true
		}
	}

	return -1, false
}

type pivotIndicator struct {
	period int
}

// NewPivot creates a new pivot detector with default configuration.
func NewPivot() Indicator {
	return &pivotIndicator{
		period: 5,
	}
}

func (p *pivotIndicator) Name() types.IndicatorType {
	return types.IndicatorTypePivot
}

// Config expects one parameter: period (int).
func (p *pivotIndicator) Config(params ...any) error {
	values, err := intParams(p.Name(), 1, params)
	if err != nil {
		return err
	}

	p.period = values[0]

	return nil
}

// Calculate encodes pivot highs as 1, lows as -1 and the rest as 0.
func (p *pivotIndicator) Calculate(candles []types.Candle) Output {
	pivots := Pivots(candles, p.period)
	series := make([]float64, len(pivots))

	for i, kind := range pivots {
		switch kind {
		case PivotHigh:
			series[i] = 1
		case PivotLow:
			series[i] = -1
		case PivotNone:
		}
	}

	return Output{"pivot": series}
}
