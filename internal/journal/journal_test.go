package journal

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/stretchr/testify/suite"
)

func sampleTrades(n int) []types.Trade {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := make([]types.Trade, n)

	for i := range trades {
		entry := start.Add(time.Duration(i) * 24 * time.Hour)
		trades[i] = types.Trade{
			ID:             fmt.Sprintf("trade-%d", i),
			Symbol:         "BTCUSDT",
			Side:           types.PositionSideLong,
			EntryTime:      entry,
			EntryPrice:     100 + float64(i),
			ExitTime:       entry.Add(5 * time.Hour),
			ExitPrice:      105 + float64(i),
			Size:           2,
			PnL:            10,
			PnLPercent:     5,
			Fee:            0.1,
			HoldingSeconds: 5 * 3600,
			EntryRule:      "ema_cross_12_26",
			ExitRule:       "ema_cross_12_26",
			Reason:         "ema_cross_12_26 -> ema_cross_12_26",
		}
	}

	return trades
}

type MemoryRepositoryTestSuite struct {
	suite.Suite
}

func TestMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(MemoryRepositoryTestSuite))
}

func (suite *MemoryRepositoryTestSuite) TestSaveAndLoad() {
	repo := NewMemoryRepository()
	ctx := context.Background()

	loaded, err := repo.Load(ctx)
	suite.NoError(err)
	suite.Empty(loaded)

	trades := sampleTrades(3)
	suite.NoError(repo.Save(ctx, trades[:2]))
	suite.NoError(repo.Save(ctx, trades[2:]))

	loaded, err = repo.Load(ctx)
	suite.NoError(err)
	suite.Equal(trades, loaded)
}

func (suite *MemoryRepositoryTestSuite) TestLoadReturnsCopy() {
	repo := NewMemoryRepository()
	ctx := context.Background()

	suite.NoError(repo.Save(ctx, sampleTrades(1)))

	loaded, err := repo.Load(ctx)
	suite.Require().NoError(err)
	loaded[0].PnL = -1

	again, err := repo.Load(ctx)
	suite.Require().NoError(err)
	suite.Equal(10.0, again[0].PnL)
}

func (suite *MemoryRepositoryTestSuite) TestCancelledContext() {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suite.ErrorIs(repo.Save(ctx, sampleTrades(1)), context.Canceled)

	_, err := repo.Load(ctx)
	suite.ErrorIs(err, context.Canceled)
}

type DuckDBRepositoryTestSuite struct {
	suite.Suite
	repo *DuckDBRepository
}

func TestDuckDBRepositorySuite(t *testing.T) {
	suite.Run(t, new(DuckDBRepositoryTestSuite))
}

func (suite *DuckDBRepositoryTestSuite) SetupTest() {
	repo, err := NewDuckDBRepository("", nil)
	suite.Require().NoError(err)

	suite.repo = repo
}

func (suite *DuckDBRepositoryTestSuite) TearDownTest() {
	suite.NoError(suite.repo.Close())
}

func (suite *DuckDBRepositoryTestSuite) TestSaveAndLoad() {
	ctx := context.Background()
	trades := sampleTrades(4)

	suite.NoError(suite.repo.Save(ctx, trades[:3]))
	suite.NoError(suite.repo.Save(ctx, trades[3:]))
	suite.NoError(suite.repo.Save(ctx, nil))

	loaded, err := suite.repo.Load(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(loaded, 4)

	for i := range trades {
		suite.Equal(trades[i].ID, loaded[i].ID)
		suite.Equal(trades[i].Side, loaded[i].Side)
		suite.True(trades[i].EntryTime.Equal(loaded[i].EntryTime))
		suite.True(trades[i].ExitTime.Equal(loaded[i].ExitTime))
		suite.Equal(trades[i].EntryPrice, loaded[i].EntryPrice)
		suite.Equal(trades[i].HoldingSeconds, loaded[i].HoldingSeconds)
		suite.Equal(trades[i].Reason, loaded[i].Reason)
	}
}

func (suite *DuckDBRepositoryTestSuite) TestDuplicateIDRollsBack() {
	ctx := context.Background()
	trades := sampleTrades(2)
	trades[1].ID = trades[0].ID

	err := suite.repo.Save(ctx, trades)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeJournalWriteFailed))

	loaded, err := suite.repo.Load(ctx)
	suite.NoError(err)
	suite.Empty(loaded)
}

func (suite *DuckDBRepositoryTestSuite) TestExportParquet() {
	ctx := context.Background()
	suite.NoError(suite.repo.Save(ctx, sampleTrades(3)))

	path := filepath.Join(suite.T().TempDir(), "trades.parquet")
	suite.Require().NoError(suite.repo.Export(path))

	db, err := sql.Open("duckdb", "")
	suite.Require().NoError(err)
	defer db.Close()

	var count int
	suite.Require().NoError(db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM read_parquet('%s')", path)).Scan(&count))
	suite.Equal(3, count)
}
