package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_insight/internal/app/config"
	"stock_insight/internal/feature/watchlist/domain/entity"
	"stock_insight/internal/platform/db"
)

func TestOpenWatchlistDB_Disabled(t *testing.T) {
	t.Parallel()

	gdb, err := OpenWatchlistDB(config.Default())
	require.NoError(t, err)
	assert.Nil(t, gdb)
}

func TestNewWatchlist_SQLite(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Database = db.Config{
		Driver:      db.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "watchlist.db"),
		AutoMigrate: true,
	}
	gdb, err := OpenWatchlistDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	require.NoError(t, gdb.Create(&entity.Symbol{Code: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", IsActive: true}).Error)

	codes, err := NewWatchlist(gdb, nil).ActiveCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, codes)
}
