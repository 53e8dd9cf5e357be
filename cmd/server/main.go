package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_insight/internal/app/config"
	"stock_insight/internal/app/di"
	"stock_insight/internal/app/router"
	analysishandler "stock_insight/internal/feature/analysis/transport/handler"
	analysisusecase "stock_insight/internal/feature/analysis/usecase"
	companyhandler "stock_insight/internal/feature/company/transport/handler"
	companyusecase "stock_insight/internal/feature/company/usecase"
	watchlisthandler "stock_insight/internal/feature/watchlist/transport/handler"
	watchlistusecase "stock_insight/internal/feature/watchlist/usecase"
	"stock_insight/internal/platform/cache"
	"stock_insight/internal/platform/db"
	"stock_insight/internal/platform/logger"
	"stock_insight/internal/platform/metrics"
	infraredis "stock_insight/internal/platform/redis"
	"stock_insight/internal/platform/scheduler"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format))

	if cfg.TwelveData.TwelveDataAPIKey == "" {
		slog.Warn("TWELVE_DATA_API_KEY is not set; provider calls will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	// Redis
	var rdb *redisv9.Client
	if cfg.RedisEnabled() {
		tmp, err := infraredis.NewRedisClient(ctx, infraredis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			slog.Warn("Redis unavailable. Running without series cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Provider
	market := di.NewMarket(cfg, m)
	series, seriesCache := di.NewSeriesProvider(rdb, market, cfg, m)

	// Result cache
	results := cache.NewResultCache(cfg.Cache.TTL,
		cache.WithServeStale(cfg.Cache.ServeStale),
		cache.WithMetrics(m),
	)
	defer results.Close()

	// Usecase
	analysisUC := analysisusecase.NewAnalysisUsecase(series, results, cfg.AnalysisUsecaseConfig(),
		analysisusecase.WithCompanyNamer(market),
	)
	companyUC := companyusecase.NewCompanyUsecase(market, cfg.Provider.Timeout)

	// Watchlist (optional)
	var watchlistUC *watchlistusecase.WatchlistUsecase
	gdb, err := di.OpenWatchlistDB(cfg)
	if err != nil {
		slog.Warn("Database unavailable. Running without watchlist.", "error", err)
	} else if gdb != nil {
		defer func() {
			if err := db.Close(gdb); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}()
		watchlistUC = di.NewWatchlist(gdb, analysisUC)
	}

	sched := scheduler.NewScheduler(results)
	if err := sched.Register(cfg.Cache.SweepCron); err != nil {
		slog.Error("invalid sweep schedule", "error", err)
		os.Exit(1)
	}
	if watchlistUC != nil {
		if err := sched.RegisterWarm(cfg.Cache.WarmCron, watchlistUC); err != nil {
			slog.Error("invalid warm schedule", "error", err)
			os.Exit(1)
		}
	}
	sched.Start()

	// Handler
	// seriesCache is passed only when set so the handler never sees a typed nil
	var cacheH *analysishandler.CacheHandler
	if seriesCache != nil {
		cacheH = analysishandler.NewCacheHandler(results, seriesCache)
	} else {
		cacheH = analysishandler.NewCacheHandler(results, nil)
	}

	handlers := router.Handlers{
		Analysis: analysishandler.NewAnalysisHandler(analysisUC),
		Cache:    cacheH,
		Company:  companyhandler.NewCompanyHandler(companyUC),
		Metrics:  m.Handler(),
	}
	if watchlistUC != nil {
		handlers.Symbols = watchlisthandler.NewSymbolHandler(watchlistUC)
	}
	r := router.NewRouter(handlers, cfg.Server.CORSAllowOrigins)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	sched.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
