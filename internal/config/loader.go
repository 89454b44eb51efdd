package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// Load reads configuration using the three-layer pattern: built-in
// defaults, then an optional YAML config file, then HANDLESCOUT_*
// environment variables. Safe to call multiple times.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("handlescout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/handlescout")
	}

	v.SetEnvPrefix("HANDLESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine; defaults and env remain in effect.
	}

	cfg := &Config{}
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	configMu.Lock()
	appConfig = cfg
	configMu.Unlock()

	return cfg, nil
}

// GetConfig returns the last loaded configuration, or nil before Load.
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// SetConfig replaces the cached configuration (used by tests and by flag
// overrides applied after Load).
func SetConfig(cfg *Config) {
	configMu.Lock()
	appConfig = cfg
	configMu.Unlock()
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("scan.checks", def.Scan.Checks)
	v.SetDefault("scan.length_min", def.Scan.LengthMin)
	v.SetDefault("scan.length_max", def.Scan.LengthMax)
	v.SetDefault("scan.digits_min", def.Scan.DigitsMin)
	v.SetDefault("scan.digits_max", def.Scan.DigitsMax)
	v.SetDefault("scan.require", def.Scan.Require)
	v.SetDefault("scan.delay_min", def.Scan.DelayMin)
	v.SetDefault("scan.delay_max", def.Scan.DelayMax)
	v.SetDefault("scan.seed", def.Scan.Seed)

	v.SetDefault("oracle.zone", def.Oracle.Zone)
	v.SetDefault("oracle.server", def.Oracle.Server)
	v.SetDefault("oracle.timeout", def.Oracle.Timeout)
	v.SetDefault("oracle.max_rps", def.Oracle.MaxRPS)

	v.SetDefault("logs.checked", def.Logs.Checked)
	v.SetDefault("logs.available", def.Logs.Available)
	v.SetDefault("logs.sync", def.Logs.Sync)

	v.SetDefault("store.driver", def.Store.Driver)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("store.url", def.Store.URL)
	v.SetDefault("store.auth_token", def.Store.AuthToken)

	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", def.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)
	v.SetDefault("server.metrics_port", def.Server.MetricsPort)

	v.SetDefault("logging.level", def.Logging.Level)
}
