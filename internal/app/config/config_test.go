package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

// TestDefault はデフォルト設定が検証を通過することをテストします。
func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []int{20, 50, 200}, cfg.Analysis.Windows)
	assert.Equal(t, 20, cfg.Analysis.ShortWindow)
	assert.Equal(t, 50, cfg.Analysis.LongWindow)
	assert.Equal(t, 0.20, cfg.Analysis.Thresholds.LowThreshold)
	assert.Equal(t, 0.40, cfg.Analysis.Thresholds.HighThreshold)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Cache.ServeStale)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.DatabaseEnabled())
	assert.Empty(t, cfg.Cache.WarmCron)
}

// TestApplyEnv は環境変数による上書きをテストします。
func TestApplyEnv(t *testing.T) {
	t.Parallel()

	cfg := Default()
	err := cfg.applyEnv(envMap(map[string]string{
		"SERVER_ADDR":               ":9090",
		"CORS_ALLOW_ORIGINS":        "http://a.example, http://b.example,",
		"LOG_LEVEL":                 "debug",
		"TWELVE_DATA_API_KEY":       " secret ",
		"PROVIDER_TIMEOUT":          "5s",
		"PROVIDER_RATE_LIMIT":       "55",
		"REDIS_HOST":                "redis",
		"REDIS_DB":                  "2",
		"CACHE_TTL":                 "1h",
		"CACHE_SERVE_STALE":         "true",
		"ANALYSIS_WINDOWS":          "10, 30,100",
		"TREND_SHORT_WINDOW":        "10",
		"TREND_LONG_WINDOW":         "30",
		"VOLATILITY_LOW_THRESHOLD":  "0.15",
		"VOLATILITY_HIGH_THRESHOLD": "0.35",
		"DB_DRIVER":                 "sqlite",
		"DB_DSN":                    "watchlist.db",
		"DB_AUTO_MIGRATE":           "true",
		"CACHE_WARM_CRON":           "@every 30m",
	}))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "secret", cfg.TwelveData.TwelveDataAPIKey)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 55, cfg.Provider.RateLimit)
	assert.Equal(t, "redis:6379", cfg.RedisAddr())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.True(t, cfg.Cache.ServeStale)
	assert.Equal(t, []int{10, 30, 100}, cfg.Analysis.Windows)
	assert.True(t, cfg.DatabaseEnabled())
	assert.Equal(t, "watchlist.db", cfg.Database.DSN)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "@every 30m", cfg.Cache.WarmCron)

	uc := cfg.AnalysisUsecaseConfig()
	assert.Equal(t, 10, uc.Trend.ShortWindow)
	assert.Equal(t, 30, uc.Trend.LongWindow)
	assert.Equal(t, 0.15, uc.Thresholds.LowThreshold)
	assert.Equal(t, 5*time.Second, uc.ProviderTimeout)
}

// TestApplyEnv_Errors は解析エラーがすべて集約されることをテストします。
func TestApplyEnv_Errors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	err := cfg.applyEnv(envMap(map[string]string{
		"PROVIDER_TIMEOUT":  "soon",
		"REDIS_DB":          "one",
		"CACHE_SERVE_STALE": "maybe",
		"ANALYSIS_WINDOWS":  "20,x",
	}))
	require.Error(t, err)
	for _, key := range []string{"PROVIDER_TIMEOUT", "REDIS_DB", "CACHE_SERVE_STALE", "ANALYSIS_WINDOWS"} {
		assert.Contains(t, err.Error(), key)
	}
	// 失敗したキーは既定値のまま
	assert.Equal(t, Default().Provider.Timeout, cfg.Provider.Timeout)
	assert.Equal(t, []int{20, 50, 200}, cfg.Analysis.Windows)
}

// TestLoadFile はYAMLファイルの読み込みと環境変数の優先をテストします。
func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7000"
cache:
  ttl: 30m
  sweep_cron: "@hourly"
analysis:
  windows: [5, 10, 20]
  short_window: 5
  long_window: 10
  volatility:
    low_threshold: 0.1
    high_threshold: 0.3
`), 0o600))

	cfg := Default()
	require.NoError(t, cfg.loadFile(path))
	require.NoError(t, cfg.applyEnv(envMap(map[string]string{"SERVER_ADDR": ":7001"})))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":7001", cfg.Server.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "@hourly", cfg.Cache.SweepCron)
	assert.Equal(t, []int{5, 10, 20}, cfg.Analysis.Windows)
	assert.Equal(t, 0.1, cfg.Analysis.Thresholds.LowThreshold)
	// ファイルに無い値は既定値のまま
	assert.Equal(t, 5, cfg.Analysis.SlopeLookback)
	assert.Equal(t, "https://api.twelvedata.com", cfg.TwelveData.BaseURL)
}

// TestLoadFile_Errors は存在しないファイルと不正なYAMLをテストします。
func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.ErrorContains(t, cfg.loadFile(filepath.Join(t.TempDir(), "missing.yaml")), "read config")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0o600))
	assert.ErrorContains(t, cfg.loadFile(path), "parse config")
}

// TestValidate は相互制約の違反を検出することをテストします。
func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"window too small", func(c *Config) { c.Analysis.Windows = []int{1, 20, 50} }, "at least 2"},
		{"short not below long", func(c *Config) { c.Analysis.ShortWindow = 50 }, "must be below"},
		{"trend window missing", func(c *Config) { c.Analysis.Windows = []int{20, 200} }, "must include"},
		{"slope lookback", func(c *Config) { c.Analysis.SlopeLookback = 0 }, "slope lookback"},
		{"negative low threshold", func(c *Config) { c.Analysis.Thresholds.LowThreshold = -0.1 }, "volatility thresholds"},
		{"low above high", func(c *Config) { c.Analysis.Thresholds.LowThreshold = 0.5 }, "volatility thresholds"},
		{"provider timeout", func(c *Config) { c.Provider.Timeout = 0 }, "provider timeout"},
		{"cache ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache ttl"},
		{"database without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "needs a dsn"},
		{"unsupported database", func(c *Config) { c.Database.Driver = "mysql"; c.Database.DSN = "x" }, "unsupported database driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

// TestLoad は環境変数経由の読み込み全体をテストします。
func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("TREND_SHORT_WINDOW", "200")

	_, err := Load()
	assert.ErrorContains(t, err, "must be below")
}
