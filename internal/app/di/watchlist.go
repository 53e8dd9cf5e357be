package di

import (
	"gorm.io/gorm"

	"stock_insight/internal/app/config"
	"stock_insight/internal/feature/watchlist/adapters"
	"stock_insight/internal/feature/watchlist/domain/entity"
	"stock_insight/internal/feature/watchlist/usecase"
	"stock_insight/internal/platform/db"
)

// OpenWatchlistDB opens the watchlist database. It returns nil when no driver is configured.
func OpenWatchlistDB(cfg config.Config) (*gorm.DB, error) {
	if !cfg.DatabaseEnabled() {
		return nil, nil
	}
	return db.OpenDB(cfg.Database, &entity.Symbol{})
}

// NewWatchlist wires the watchlist usecase over gdb. analyzer may be nil when warming is not needed.
func NewWatchlist(gdb *gorm.DB, analyzer usecase.Analyzer) *usecase.WatchlistUsecase {
	return usecase.NewWatchlistUsecase(adapters.NewSymbolRepository(gdb), analyzer)
}
