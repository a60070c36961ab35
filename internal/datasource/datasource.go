// Package datasource loads candles from CSV or Parquet files through DuckDB.
package datasource

import (
	"context"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/moznion/go-optional"
)

// DataSource reads an ordered candle sequence from a market data file.
type DataSource interface {
	// Initialize points the data source at a .csv or .parquet file with the
	// columns time, symbol, open, high, low, close and volume.
	Initialize(path string) error
	// ReadAll returns the candles within the optional inclusive time window in
	// file order. A file that is not oldest first is returned as is.
	ReadAll(ctx context.Context, start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Candle, error)
	// Count returns the number of candles within the optional inclusive time window.
	Count(ctx context.Context, start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close closes the data source and releases any resources.
	Close() error
}
