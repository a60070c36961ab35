package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/KryptoMuratLive/bit-insight-sub000/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type DuckDBDataSourceTestSuite struct {
	suite.Suite
	ds      *DuckDBDataSource
	csvPath string
}

func TestDuckDBDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBDataSourceTestSuite))
}

func (suite *DuckDBDataSourceTestSuite) SetupTest() {
	ds, err := NewDataSource(nil)
	suite.Require().NoError(err)
	suite.ds = ds

	suite.csvPath = suite.writeCSV("candles.csv", []int{0, 1, 2, 3, 4})
}

// writeCSV writes one hourly candle per offset, in the given order.
func (suite *DuckDBDataSourceTestSuite) writeCSV(name string, offsets []int) string {
	var b strings.Builder

	b.WriteString("time,symbol,open,high,low,close,volume\n")

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, i := range offsets {
		ts := start.Add(time.Duration(i) * time.Hour).Format("2006-01-02 15:04:05")
		fmt.Fprintf(&b, "%s,BTCUSDT,%d.0,%d.0,%d.0,%d.0,10.0\n", ts, 100+i, 102+i, 99+i, 101+i)
	}

	path := filepath.Join(suite.T().TempDir(), name)
	suite.Require().NoError(os.WriteFile(path, []byte(b.String()), 0644))

	return path
}

func (suite *DuckDBDataSourceTestSuite) TearDownTest() {
	suite.NoError(suite.ds.Close())
}

func (suite *DuckDBDataSourceTestSuite) TestReadCSVOrdered() {
	suite.Require().NoError(suite.ds.Initialize(suite.csvPath))

	candles, err := suite.ds.ReadAll(context.Background(), optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(candles, 5)

	for i, c := range candles {
		suite.Equal("BTCUSDT", c.Symbol)
		suite.Equal(float64(101+i), c.Close)
		suite.Equal(10.0, c.Volume)

		if i > 0 {
			suite.True(c.Time.After(candles[i-1].Time))
		}
	}
}

func (suite *DuckDBDataSourceTestSuite) TestKeepsFileOrder() {
	path := suite.writeCSV("reversed.csv", []int{4, 3, 2, 1, 0})
	suite.Require().NoError(suite.ds.Initialize(path))

	candles, err := suite.ds.ReadAll(context.Background(), optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(candles, 5)

	for i, c := range candles {
		suite.Equal(float64(105-i), c.Close)
	}

	err = types.ValidateCandles(candles)
	suite.True(errors.HasCode(err, errors.ErrCodeNonMonotonicTime))
}

func (suite *DuckDBDataSourceTestSuite) TestWindow() {
	suite.Require().NoError(suite.ds.Initialize(suite.csvPath))

	start := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)

	count, err := suite.ds.Count(context.Background(), optional.Some(start), optional.Some(end))
	suite.NoError(err)
	suite.Equal(3, count)

	candles, err := suite.ds.ReadAll(context.Background(), optional.Some(start), optional.None[time.Time]())
	suite.NoError(err)
	suite.Len(candles, 4)
}

func (suite *DuckDBDataSourceTestSuite) TestReadParquet() {
	parquetPath := filepath.Join(suite.T().TempDir(), "candles.parquet")

	db, err := sql.Open("duckdb", "")
	suite.Require().NoError(err)
	defer db.Close()

	_, err = db.Exec(fmt.Sprintf("COPY (SELECT * FROM read_csv_auto('%s')) TO '%s' (FORMAT PARQUET)", suite.csvPath, parquetPath))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.ds.Initialize(parquetPath))

	count, err := suite.ds.Count(context.Background(), optional.None[time.Time](), optional.None[time.Time]())
	suite.NoError(err)
	suite.Equal(5, count)
}

func (suite *DuckDBDataSourceTestSuite) TestErrors() {
	_, err := suite.ds.ReadAll(context.Background(), optional.None[time.Time](), optional.None[time.Time]())
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))

	err = suite.ds.Initialize("candles.json")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	suite.Require().NoError(suite.ds.Initialize(suite.csvPath))

	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = suite.ds.ReadAll(context.Background(), optional.Some(future), optional.None[time.Time]())
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}
