package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/vesting-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "vesting.db", cfg.DB.Path)
	assert.Equal(t, 95000.0, cfg.Market.PriceUSD)
	assert.True(t, cfg.Presets.Seed)
	assert.Equal(t, config.DefaultAllowedOrigins(), cfg.CORS.AllowedOrigins)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
db:
  path: ":memory:"
log:
  level: debug
market:
  growth_percent: 25
`), 0o644))
	t.Setenv("VESTING_LOG_LEVEL", "warn")

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.DB.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 25.0, cfg.Market.GrowthPercent)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("VESTING_SERVER_PORT", "0")
	t.Setenv("VESTING_MARKET_PRICE_USD", "-1")

	_, err := config.Load(config.New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "market.price_usd")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
