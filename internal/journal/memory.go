package journal

import (
	"context"
	"sync"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
)

// MemoryRepository keeps the journal in process memory.
type MemoryRepository struct {
	trades []types.Trade
	mu     sync.RWMutex
}

// NewMemoryRepository creates an empty in-memory journal.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		trades: make([]types.Trade, 0),
		mu:     sync.RWMutex{},
	}
}

func (m *MemoryRepository) Save(ctx context.Context, trades []types.Trade) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.trades = append(m.trades, trades...)

	return nil
}

func (m *MemoryRepository) Load(ctx context.Context) ([]types.Trade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Trade, len(m.trades))
	copy(out, m.trades)

	return out, nil
}
