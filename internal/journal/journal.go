// Package journal persists the trade ledger of completed backtest runs.
// The engine receives a Repository and never touches storage itself.
package journal

import (
	"context"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// Repository stores and returns closed trades.
type Repository interface {
	// Save appends trades to the journal.
	Save(ctx context.Context, trades []types.Trade) error
	// Load returns every saved trade in save order.
	Load(ctx context.Context) ([]types.Trade, error)
}
