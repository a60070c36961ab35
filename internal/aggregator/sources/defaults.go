package sources

import (
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator"
	enginev1 "github.com/KryptoMuratLive/bit-insight-sub000/internal/backtest/engine/engine_v1"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/logger"
)

// Defaults returns every built-in source with default parameters. The
// backtest source replays the default engine config.
func Defaults(log *logger.Logger) ([]aggregator.Source, error) {
	backtest, err := NewBacktest(enginev1.DefaultConfig(), log)
	if err != nil {
		return nil, err
	}

	return []aggregator.Source{
		NewTechnical(),
		NewMomentum(),
		NewOrderFlow(),
		NewPattern(),
		backtest,
		NewRisk(),
	}, nil
}
