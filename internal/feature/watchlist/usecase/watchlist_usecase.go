// Package usecase implements the watchlist listing and the cache warm-up over active symbols.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	analysisentity "stock_insight/internal/feature/analysis/domain/entity"
	"stock_insight/internal/feature/watchlist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for watchlist symbols.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// Analyzer runs one analysis over the default range. The analysis usecase satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, startDate, endDate string) (*analysisentity.AnalysisResult, error)
}

// WatchlistUsecase lists active symbols and warms their analyses.
type WatchlistUsecase struct {
	repo     SymbolRepository
	analyzer Analyzer
}

// NewWatchlistUsecase creates a WatchlistUsecase. analyzer may be nil when warming is not used.
func NewWatchlistUsecase(r SymbolRepository, analyzer Analyzer) *WatchlistUsecase {
	return &WatchlistUsecase{repo: r, analyzer: analyzer}
}

// ListActiveSymbols returns all active symbols in display order.
func (u *WatchlistUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// ActiveCodes returns the codes of all active symbols in display order.
func (u *WatchlistUsecase) ActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// WarmResult counts the outcome of one warm-up pass.
type WarmResult struct {
	Warmed int
	Failed int
}

// Warm analyzes every active symbol over the default range so the result cache holds a Fresh entry for each.
// A failing symbol is logged and skipped; warming stops early only when ctx is done.
func (u *WatchlistUsecase) Warm(ctx context.Context) (WarmResult, error) {
	var res WarmResult
	if u.analyzer == nil {
		return res, fmt.Errorf("watchlist warm: no analyzer configured")
	}
	codes, err := u.repo.ListActiveCodes(ctx)
	if err != nil {
		return res, fmt.Errorf("watchlist warm: list symbols: %w", err)
	}
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := u.analyzer.Analyze(ctx, code, "", ""); err != nil {
			slog.Warn("watchlist warm failed", "symbol", code, "error", err)
			res.Failed++
			continue
		}
		res.Warmed++
	}
	return res, nil
}
