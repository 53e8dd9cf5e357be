// Command analyze runs the analysis pipeline for one or more symbols and prints JSON lines.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stock_insight/internal/app/config"
	"stock_insight/internal/app/di"
	"stock_insight/internal/feature/analysis/domain/entity"
	"stock_insight/internal/feature/analysis/transport/http/dto"
	"stock_insight/internal/feature/analysis/usecase"
	"stock_insight/internal/platform/db"
	"stock_insight/internal/platform/logger"
)

// Analyzer is the part of the analysis usecase the command needs.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, startDate, endDate string) (*entity.AnalysisResult, error)
}

// CodeLister supplies the active watchlist symbols for --watchlist.
type CodeLister interface {
	ActiveCodes(ctx context.Context) ([]string, error)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug(".env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(nil, nil).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command. A nil analyzer or lister is constructed from configuration at run time.
func newRootCmd(analyzer Analyzer, lister CodeLister) *cobra.Command {
	var (
		start, end string
		watchlist  bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL...]",
		Short: "Analyze daily price history for symbols",
		Example: `  analyze AAPL
  analyze AAPL MSFT --start 2024-01-01 --end 2024-12-31
  analyze --watchlist`,
		Args: func(cmd *cobra.Command, args []string) error {
			if watchlist {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Config
			if analyzer == nil || (watchlist && lister == nil) {
				var err error
				if cfg, err = config.Load(); err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				slog.SetDefault(logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format))
			}

			a := analyzer
			if a == nil {
				// The provider client is rate limited; no result cache is needed for a one-shot run.
				market := di.NewMarket(cfg, nil)
				a = usecase.NewAnalysisUsecase(market, nil, cfg.AnalysisUsecaseConfig(), usecase.WithCompanyNamer(market))
			}

			symbols := args
			if watchlist {
				l := lister
				if l == nil {
					gdb, err := di.OpenWatchlistDB(cfg)
					if err != nil {
						return fmt.Errorf("open watchlist: %w", err)
					}
					if gdb == nil {
						return errors.New("--watchlist needs DB_DRIVER and DB_DSN")
					}
					defer func() { _ = db.Close(gdb) }()
					l = di.NewWatchlist(gdb, nil)
				}
				codes, err := l.ActiveCodes(cmd.Context())
				if err != nil {
					return fmt.Errorf("list watchlist: %w", err)
				}
				symbols = append(symbols, codes...)
			}
			if len(symbols) == 0 {
				return errors.New("no symbols to analyze")
			}
			return run(cmd.Context(), a, cmd.OutOrStdout(), symbols, start, end)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD), defaults to one year before end")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&watchlist, "watchlist", false, "also analyze every active watchlist symbol")
	return cmd
}

// run analyzes each symbol in turn. A failing symbol is logged and skipped.
func run(ctx context.Context, a Analyzer, w io.Writer, symbols []string, start, end string) error {
	enc := json.NewEncoder(w)
	failed := 0
	for _, sym := range symbols {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res, err := a.Analyze(ctx, sym, start, end)
		if err != nil {
			slog.Error("analysis failed", "symbol", sym, "error", err)
			failed++
			continue
		}
		if err := enc.Encode(dto.NewAnalysisResponse(res)); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	if failed == len(symbols) {
		return fmt.Errorf("all %d symbols failed", failed)
	}
	return nil
}
