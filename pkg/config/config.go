package config

// Package config loads the ggo-ledger transaction processor's configuration
// from a YAML file plus environment overrides. Two-phase Load/LoadFromEnv
// shape and the file-then-env-merge order are kept from the teacher's
// pkg/config/config.go; only the Config fields themselves are domain-
// specific (validator endpoint, policy, store paths, status server).
//
// Version: v0.1.0

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/project-origin/ggo-ledger/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the unified configuration for a ggo-ledger transaction
// processor instance.
type Config struct {
	Validator struct {
		Endpoint      string `mapstructure:"endpoint" json:"endpoint"`
		ConnectTimeMS int    `mapstructure:"connect_time_ms" json:"connect_time_ms"`
	} `mapstructure:"validator" json:"validator"`

	Policy struct {
		Publishers []string `mapstructure:"publishers" json:"publishers"`
		Issuers    []string `mapstructure:"issuers" json:"issuers"`
	} `mapstructure:"policy" json:"policy"`

	Store struct {
		WALPath          string `mapstructure:"wal_path" json:"wal_path"`
		SnapshotPath     string `mapstructure:"snapshot_path" json:"snapshot_path"`
		SnapshotInterval int    `mapstructure:"snapshot_interval" json:"snapshot_interval"`
		CacheSize        int    `mapstructure:"cache_size" json:"cache_size"`
	} `mapstructure:"store" json:"store"`

	Status struct {
		Enabled bool   `mapstructure:"enabled" json:"enabled"`
		Addr    string `mapstructure:"addr" json:"addr"`
	} `mapstructure:"status" json:"status"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and
// returned.
//
// The function uses the provided environment name to merge additional
// config files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	setDefaults()

	viper.SetConfigName("default")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, utils.Wrap(err, "load config")
		}
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.SetEnvPrefix("GGO")
	viper.AutomaticEnv() // picks up from .env

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the GGO_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("GGO_ENV", ""))
}

// setDefaults fills in the fallback values spec.md §6 names: the devnet
// validator endpoint and a local WAL/snapshot pair under ./data.
func setDefaults() {
	viper.SetDefault("validator.endpoint", defaultValidatorEndpoint())
	viper.SetDefault("validator.connect_time_ms", 5000)
	viper.SetDefault("store.wal_path", "data/ggo.wal")
	viper.SetDefault("store.snapshot_path", "data/ggo.snapshot")
	viper.SetDefault("store.snapshot_interval", 100)
	viper.SetDefault("store.cache_size", 4096)
	viper.SetDefault("status.enabled", true)
	viper.SetDefault("status.addr", ":8080")
	viper.SetDefault("logging.level", "info")
}

// defaultValidatorEndpoint returns LEDGER_URL when set, otherwise
// tcp://{HOSTNAME|localhost}:4004.
func defaultValidatorEndpoint() string {
	if ledgerURL := utils.EnvOrDefault("LEDGER_URL", ""); ledgerURL != "" {
		return ledgerURL
	}
	host := utils.EnvOrDefault("HOSTNAME", "localhost")
	return fmt.Sprintf("tcp://%s:4004", host)
}
