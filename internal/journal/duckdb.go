package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/logger"
	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

var tradeColumns = []string{
	"id", "symbol", "side", "entry_time", "entry_price", "exit_time", "exit_price",
	"size", "pnl", "pnl_percent", "fee", "holding_seconds", "entry_rule", "exit_rule", "reason",
}

// DuckDBRepository stores the journal in a DuckDB database.
type DuckDBRepository struct {
	db  *sql.DB
	log *logger.Logger
	sq  squirrel.StatementBuilderType
}

// NewDuckDBRepository opens the database at path and creates the trades
// table. An empty path opens an in-memory database.
func NewDuckDBRepository(path string, log *logger.Logger) (*DuckDBRepository, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open journal database", err)
	}

	repo := &DuckDBRepository{
		db:  db,
		log: logger.OrNop(log),
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := repo.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return repo, nil
}

func (d *DuckDBRepository) initialize() error {
	_, err := d.db.Exec(`CREATE SEQUENCE IF NOT EXISTS trade_seq`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to create sequence", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			seq BIGINT DEFAULT nextval('trade_seq'),
			id TEXT PRIMARY KEY,
			symbol TEXT,
			side TEXT,
			entry_time TIMESTAMP,
			entry_price DOUBLE,
			exit_time TIMESTAMP,
			exit_price DOUBLE,
			size DOUBLE,
			pnl DOUBLE,
			pnl_percent DOUBLE,
			fee DOUBLE,
			holding_seconds BIGINT,
			entry_rule TEXT,
			exit_rule TEXT,
			reason TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to create trades table", err)
	}

	return nil
}

// Save inserts trades in one transaction.
func (d *DuckDBRepository) Save(ctx context.Context, trades []types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to begin transaction", err)
	}

	for _, trade := range trades {
		_, err = d.sq.
			Insert("trades").
			Columns(tradeColumns...).
			Values(
				trade.ID, trade.Symbol, string(trade.Side), trade.EntryTime.UTC(), trade.EntryPrice,
				trade.ExitTime.UTC(), trade.ExitPrice, trade.Size, trade.PnL, trade.PnLPercent,
				trade.Fee, trade.HoldingSeconds, trade.EntryRule, trade.ExitRule, trade.Reason,
			).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeJournalWriteFailed, err, "failed to insert trade %s", trade.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to commit trades", err)
	}

	d.log.Debug("Trades saved to journal", zap.Int("count", len(trades)))

	return nil
}

// Load returns every trade in insertion order.
func (d *DuckDBRepository) Load(ctx context.Context) ([]types.Trade, error) {
	rows, err := d.sq.
		Select(tradeColumns...).
		From("trades").
		OrderBy("seq ASC").
		RunWith(d.db).
		QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalReadFailed, "failed to query trades", err)
	}
	defer rows.Close()

	trades := make([]types.Trade, 0)

	for rows.Next() {
		var (
			trade types.Trade
			side  string
		)

		err := rows.Scan(
			&trade.ID, &trade.Symbol, &side, &trade.EntryTime, &trade.EntryPrice,
			&trade.ExitTime, &trade.ExitPrice, &trade.Size, &trade.PnL, &trade.PnLPercent,
			&trade.Fee, &trade.HoldingSeconds, &trade.EntryRule, &trade.ExitRule, &trade.Reason,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeJournalReadFailed, "failed to scan trade", err)
		}

		trade.Side = types.PositionSide(side)
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeJournalReadFailed, "error iterating trades", err)
	}

	return trades, nil
}

// Export writes the journal to a parquet file.
func (d *DuckDBRepository) Export(path string) error {
	// squirrel has no COPY support
	query := fmt.Sprintf(`COPY (SELECT %s FROM trades ORDER BY seq) TO '%s' (FORMAT PARQUET)`,
		strings.Join(tradeColumns, ", "), strings.ReplaceAll(path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrap(errors.ErrCodeJournalWriteFailed, "failed to export trades to parquet", err)
	}

	d.log.Info("Journal exported", zap.String("path", path))

	return nil
}

// Close releases the database.
func (d *DuckDBRepository) Close() error {
	return d.db.Close()
}
