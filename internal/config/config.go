// Package config loads service configuration from an optional YAML file and
// RMS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (RMS_DATABASE_URL, ...).
const EnvPrefix = "RMS"

type Config struct {
	App struct {
		Env string `mapstructure:"env"`
	} `mapstructure:"app"`

	HTTP struct {
		Port         int           `mapstructure:"port"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"http"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Database struct {
		URL            string `mapstructure:"url"`
		MaxConns       int32  `mapstructure:"max_conns"`
		MinConns       int32  `mapstructure:"min_conns"`
		MigrateOnStart bool   `mapstructure:"migrate_on_start"`
	} `mapstructure:"database"`

	Auth struct {
		Enabled   bool   `mapstructure:"enabled"`
		JWTSecret string `mapstructure:"jwt_secret"`
		Issuer    string `mapstructure:"issuer"`
	} `mapstructure:"auth"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`

	Stock struct {
		// FloatPrecision is the fallback when the system default is unset.
		FloatPrecision int32 `mapstructure:"float_precision"`
		// LedgerFilterThreshold is the ledger size above which the stock
		// balance report requires an item or warehouse filter.
		LedgerFilterThreshold int64 `mapstructure:"ledger_filter_threshold"`
	} `mapstructure:"stock"`

	Manufacturing struct {
		DefaultWIPWarehouse string `mapstructure:"default_wip_warehouse"`
	} `mapstructure:"manufacturing"`
}

// IsDevelopment reports whether the service runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}

// Load reads the config file at path (skipped when empty) and applies env overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

// setDefaults registers every key, which also lets AutomaticEnv pick
// overrides up during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.migrate_on_start", true)
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "rms")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("stock.float_precision", 3)
	v.SetDefault("stock.ledger_filter_threshold", 500000)
	v.SetDefault("manufacturing.default_wip_warehouse", "")
}

func (c Config) validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required (RMS_DATABASE_URL)")
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required when auth is enabled")
	}
	if c.Stock.FloatPrecision < 0 || c.Stock.FloatPrecision > 9 {
		return fmt.Errorf("stock.float_precision out of range: %d", c.Stock.FloatPrecision)
	}
	return nil
}
