// Package config loads application configuration from an optional YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"stock_insight/internal/feature/analysis/usecase"
	"stock_insight/internal/platform/db"
	"stock_insight/internal/platform/externalapi/twelvedata"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr             string   `yaml:"addr"`
	CORSAllowOrigins []string `yaml:"cors_allow_origins"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// ProviderConfig bounds and throttles market data provider calls.
type ProviderConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	RetryTimeout time.Duration `yaml:"retry_timeout"`
	RateLimit    int           `yaml:"rate_limit"`
	RateInterval time.Duration `yaml:"rate_interval"`
}

// RedisConfig points at the optional series cache. An empty Host disables Redis.
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CacheConfig configures the result cache and the Redis series cache.
type CacheConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	ServeStale bool          `yaml:"serve_stale"`
	SweepCron  string        `yaml:"sweep_cron"`
	WarmCron   string        `yaml:"warm_cron"` // pre-analyzes the watchlist; empty disables
	SeriesTTL  time.Duration `yaml:"series_ttl"`
}

// AnalysisConfig configures indicator windows, trend and recommendation thresholds.
type AnalysisConfig struct {
	Windows             []int              `yaml:"windows"`
	ShortWindow         int                `yaml:"short_window"`
	LongWindow          int                `yaml:"long_window"`
	SlopeLookback       int                `yaml:"slope_lookback"`
	Thresholds          usecase.Thresholds `yaml:"volatility"`
	DefaultLookbackDays int                `yaml:"default_lookback_days"`
}

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig      `yaml:"server"`
	Log        LogConfig         `yaml:"log"`
	TwelveData twelvedata.Config `yaml:"twelve_data"`
	Provider   ProviderConfig    `yaml:"provider"`
	Redis      RedisConfig       `yaml:"redis"`
	Database   db.Config         `yaml:"database"`
	Cache      CacheConfig       `yaml:"cache"`
	Analysis   AnalysisConfig    `yaml:"analysis"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	ac := usecase.DefaultConfig()
	return Config{
		Server:     ServerConfig{Addr: ":8080"},
		Log:        LogConfig{Level: "info", Format: "text"},
		TwelveData: twelvedata.DefaultConfig(),
		Provider: ProviderConfig{
			Timeout:      ac.ProviderTimeout,
			RetryTimeout: ac.RetryTimeout,
			RateLimit:    8,
			RateInterval: time.Minute,
		},
		Database: db.Config{ConnectTimeout: 60 * time.Second},
		Cache: CacheConfig{
			TTL:       15 * time.Minute,
			SweepCron: "@every 5m",
			SeriesTTL: 15 * time.Minute,
		},
		Analysis: AnalysisConfig{
			Windows:             ac.Windows,
			ShortWindow:         ac.Trend.ShortWindow,
			LongWindow:          ac.Trend.LongWindow,
			SlopeLookback:       ac.Trend.SlopeLookback,
			Thresholds:          ac.Thresholds,
			DefaultLookbackDays: ac.DefaultLookback,
		},
	}
}

// Load reads defaults, then the YAML file named by CONFIG_FILE (if any), then environment overrides.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// applyEnv overrides fields from environment variables looked up through getenv.
func (c *Config) applyEnv(getenv func(string) string) error {
	e := envReader{getenv: getenv}

	e.str("SERVER_ADDR", &c.Server.Addr)
	e.list("CORS_ALLOW_ORIGINS", &c.Server.CORSAllowOrigins)
	e.str("LOG_LEVEL", &c.Log.Level)
	e.str("LOG_FORMAT", &c.Log.Format)

	e.str("TWELVE_DATA_API_KEY", &c.TwelveData.TwelveDataAPIKey)
	e.str("TWELVE_DATA_BASE_URL", &c.TwelveData.BaseURL)
	e.duration("TWELVE_DATA_TIMEOUT", &c.TwelveData.Timeout)

	e.duration("PROVIDER_TIMEOUT", &c.Provider.Timeout)
	e.duration("PROVIDER_RETRY_TIMEOUT", &c.Provider.RetryTimeout)
	e.integer("PROVIDER_RATE_LIMIT", &c.Provider.RateLimit)
	e.duration("PROVIDER_RATE_INTERVAL", &c.Provider.RateInterval)

	e.str("REDIS_HOST", &c.Redis.Host)
	e.str("REDIS_PORT", &c.Redis.Port)
	e.str("REDIS_PASSWORD", &c.Redis.Password)
	e.integer("REDIS_DB", &c.Redis.DB)

	e.str("DB_DRIVER", &c.Database.Driver)
	e.str("DB_DSN", &c.Database.DSN)
	e.duration("DB_CONNECT_TIMEOUT", &c.Database.ConnectTimeout)
	e.boolean("DB_AUTO_MIGRATE", &c.Database.AutoMigrate)

	e.duration("CACHE_TTL", &c.Cache.TTL)
	e.boolean("CACHE_SERVE_STALE", &c.Cache.ServeStale)
	e.str("CACHE_SWEEP_CRON", &c.Cache.SweepCron)
	e.str("CACHE_WARM_CRON", &c.Cache.WarmCron)
	e.duration("SERIES_CACHE_TTL", &c.Cache.SeriesTTL)

	e.ints("ANALYSIS_WINDOWS", &c.Analysis.Windows)
	e.integer("TREND_SHORT_WINDOW", &c.Analysis.ShortWindow)
	e.integer("TREND_LONG_WINDOW", &c.Analysis.LongWindow)
	e.integer("TREND_SLOPE_LOOKBACK", &c.Analysis.SlopeLookback)
	e.float("VOLATILITY_LOW_THRESHOLD", &c.Analysis.Thresholds.LowThreshold)
	e.float("VOLATILITY_HIGH_THRESHOLD", &c.Analysis.Thresholds.HighThreshold)
	e.integer("ANALYSIS_DEFAULT_LOOKBACK_DAYS", &c.Analysis.DefaultLookbackDays)

	return errors.Join(e.errs...)
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	a := c.Analysis
	for _, w := range a.Windows {
		if w < 2 {
			errs = append(errs, fmt.Errorf("analysis window %d must be at least 2", w))
		}
	}
	if a.ShortWindow >= a.LongWindow {
		errs = append(errs, fmt.Errorf("trend short window %d must be below long window %d", a.ShortWindow, a.LongWindow))
	}
	if !slices.Contains(a.Windows, a.ShortWindow) || !slices.Contains(a.Windows, a.LongWindow) {
		errs = append(errs, fmt.Errorf("analysis windows %v must include trend windows %d and %d", a.Windows, a.ShortWindow, a.LongWindow))
	}
	if a.SlopeLookback < 1 {
		errs = append(errs, fmt.Errorf("trend slope lookback must be positive, got %d", a.SlopeLookback))
	}
	if a.Thresholds.LowThreshold < 0 || a.Thresholds.LowThreshold > a.Thresholds.HighThreshold {
		errs = append(errs, fmt.Errorf("volatility thresholds must satisfy 0 <= low (%v) <= high (%v)",
			a.Thresholds.LowThreshold, a.Thresholds.HighThreshold))
	}
	if c.Provider.Timeout <= 0 {
		errs = append(errs, errors.New("provider timeout must be positive"))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache ttl must be positive"))
	}
	switch c.Database.Driver {
	case "":
	case db.DriverPostgres, db.DriverSQLite:
		if c.Database.DSN == "" {
			errs = append(errs, fmt.Errorf("database driver %q needs a dsn", c.Database.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	return errors.Join(errs...)
}

// AnalysisUsecaseConfig converts the loaded values into the pipeline configuration.
func (c Config) AnalysisUsecaseConfig() usecase.Config {
	return usecase.Config{
		Windows: slices.Clone(c.Analysis.Windows),
		Trend: usecase.TrendConfig{
			ShortWindow:   c.Analysis.ShortWindow,
			LongWindow:    c.Analysis.LongWindow,
			SlopeLookback: c.Analysis.SlopeLookback,
		},
		Thresholds:      c.Analysis.Thresholds,
		ProviderTimeout: c.Provider.Timeout,
		RetryTimeout:    c.Provider.RetryTimeout,
		DefaultLookback: c.Analysis.DefaultLookbackDays,
	}
}

// RedisEnabled reports whether a Redis host was configured.
func (c Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// DatabaseEnabled reports whether a watchlist database was configured.
func (c Config) DatabaseEnabled() bool {
	return c.Database.Driver != ""
}

// RedisAddr returns host:port, defaulting the port to 6379.
func (c Config) RedisAddr() string {
	port := c.Redis.Port
	if port == "" {
		port = "6379"
	}
	return c.Redis.Host + ":" + port
}

// envReader parses variables into typed fields and collects every parse error.
type envReader struct {
	getenv func(string) string
	errs   []error
}

func (e *envReader) lookup(key string) (string, bool) {
	v := strings.TrimSpace(e.getenv(key))
	return v, v != ""
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.lookup(key); ok {
		*dst = v
	}
}

func (e *envReader) list(key string, dst *[]string) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*dst = out
}

func (e *envReader) integer(key string, dst *int) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = n
}

func (e *envReader) ints(key string, dst *[]int) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	var out []int
	for _, s := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		out = append(out, n)
	}
	*dst = out
}

func (e *envReader) float(key string, dst *float64) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = f
}

func (e *envReader) duration(key string, dst *time.Duration) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = d
}

func (e *envReader) boolean(key string, dst *bool) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = b
}
