package strategy

import (
	"fmt"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/indicator"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// VolumeSpike fires when volume exceeds Multiplier times the trailing average
// of the previous Period bars and the close moved in the signal's direction.
type VolumeSpike struct {
	Period     int
	Multiplier float64
}

func (r VolumeSpike) Name() string {
	return fmt.Sprintf("volume_spike_%d", r.Period)
}

func (r VolumeSpike) MinBars() int {
	return r.Period + 1
}

func (r VolumeSpike) Prepare(candles []types.Candle) Evaluation {
	average := indicator.VolumeSMA(candles, r.Period)
	l := newLevels(len(candles))

	for i := 1; i < len(candles); i++ {
		if candles[i].Volume <= r.Multiplier*average[i-1] {
			continue
		}

		l.buy[i] = candles[i].Close > candles[i-1].Close
		l.sell[i] = candles[i].Close < candles[i-1].Close
	}

	l.snapshot["volume"] = indicator.Volumes(candles)
	l.snapshot["volume_ma"] = average

	return l
}
