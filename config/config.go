/*
Package config loads service settings with viper.

SOURCES (later wins):
  1. Defaults below
  2. YAML file passed to Load (optional)
  3. Environment variables prefixed VESTING_, dots replaced by underscores
     (VESTING_SERVER_PORT, VESTING_DB_PATH, VESTING_LOG_LEVEL, ...)

Command-line flags are bound on top by the cli package.

EXAMPLE FILE:
  server:
    port: 8080
  db:
    path: vesting.db
  log:
    level: debug
    format: console
  market:
    price_usd: 95000
    growth_percent: 15
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Log     LogConfig     `mapstructure:"log"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Market  MarketConfig  `mapstructure:"market"`
	Presets PresetsConfig `mapstructure:"presets"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	Path string `mapstructure:"path"` // ":memory:" for an in-memory catalogue
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MarketConfig is the default market used when a request omits one.
type MarketConfig struct {
	PriceUSD      float64 `mapstructure:"price_usd"`
	GrowthPercent float64 `mapstructure:"growth_percent"`
}

type PresetsConfig struct {
	Seed bool `mapstructure:"seed"` // write built-in presets into the catalogue on start
}

// DefaultAllowedOrigins are the local front-end dev servers allowed by CORS
// when nothing is configured.
func DefaultAllowedOrigins() []string {
	return []string{"http://localhost:3000", "http://localhost:5173"}
}

// New returns a viper instance with defaults and env binding set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("db.path", "vesting.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("cors.allowed_origins", DefaultAllowedOrigins())
	v.SetDefault("market.price_usd", 95000.0)
	v.SetDefault("market.growth_percent", 15.0)
	v.SetDefault("presets.seed", true)

	v.SetEnvPrefix("VESTING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (if not empty) into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be within 1..65535, got %d", c.Server.Port))
	}
	if c.DB.Path == "" {
		errs = append(errs, errors.New("db.path is required"))
	}
	if c.Market.PriceUSD <= 0 {
		errs = append(errs, fmt.Errorf("market.price_usd must be > 0, got %v", c.Market.PriceUSD))
	}
	return errors.Join(errs...)
}
