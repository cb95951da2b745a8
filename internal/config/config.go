// Package config loads service settings from flags, environment and an
// optional config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rcliao/village-market/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. VILLAGE_MARKET_DB.
const EnvPrefix = "VILLAGE_MARKET"

// Keys.
const (
	KeyDB              = "db"
	KeyListen          = "server.listen"
	KeyShutdownTimeout = "server.shutdown_timeout"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyBrowseLimit     = "browse.limit"
)

// Config holds resolved settings.
type Config struct {
	DBPath          string
	Listen          string
	ShutdownTimeout time.Duration
	Log             logging.Options
	BrowseLimit     int
}

// DefaultDBPath is ~/.village-market/market.db.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".village-market", "market.db")
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDB, DefaultDBPath())
	v.SetDefault(KeyListen, "127.0.0.1:5000")
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
	v.SetDefault(KeyBrowseLimit, 20)
}

// Init wires environment overrides and reads cfgFile when set.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	cfgFile = strings.TrimSpace(cfgFile)
	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load resolves and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBPath:          strings.TrimSpace(v.GetString(KeyDB)),
		Listen:          strings.TrimSpace(v.GetString(KeyListen)),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
		Log: logging.Options{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		BrowseLimit: v.GetInt(KeyBrowseLimit),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.Listen == "" {
		return nil, fmt.Errorf("config missing %s", KeyListen)
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("%s must be positive", KeyShutdownTimeout)
	}
	if cfg.BrowseLimit <= 0 {
		return nil, fmt.Errorf("%s must be positive", KeyBrowseLimit)
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}
