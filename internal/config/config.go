// Package config handles configuration loading for PriceTalk.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Datasets    DatasetsConfig    `mapstructure:"datasets"    yaml:"datasets"`
	Resolver    ResolverConfig    `mapstructure:"resolver"    yaml:"resolver"`
	API         APIConfig         `mapstructure:"api"         yaml:"api"`
	Updater     UpdaterConfig     `mapstructure:"updater"     yaml:"updater"`
	Translation TranslationConfig `mapstructure:"translation" yaml:"translation"`
	News        NewsConfig        `mapstructure:"news"        yaml:"news"`
	Logging     LoggingConfig     `mapstructure:"logging"     yaml:"logging"`
}

// DatasetsConfig locates the per-country CSV files.
type DatasetsConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// ResolverConfig tunes the temporal resolver defaults.
type ResolverConfig struct {
	DefaultLookbackDays int `mapstructure:"default_lookback_days" yaml:"default_lookback_days"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// UpdaterConfig drives the HDX dataset updater.
type UpdaterConfig struct {
	BaseURL          string `mapstructure:"base_url"           yaml:"base_url"`
	RequestsPerSec   int    `mapstructure:"requests_per_sec"   yaml:"requests_per_sec"`
	TimeoutSec       int    `mapstructure:"timeout_sec"        yaml:"timeout_sec"`
}

// TranslationConfig controls the optional response translation layer.
type TranslationConfig struct {
	Enabled        bool   `mapstructure:"enabled"         yaml:"enabled"`
	TargetLanguage string `mapstructure:"target_language" yaml:"target_language"`
	CacheTTLSec    int    `mapstructure:"cache_ttl_sec"   yaml:"cache_ttl_sec"`
}

// NewsConfig lists the commodity-market RSS feeds.
type NewsConfig struct {
	Feeds       []string `mapstructure:"feeds"         yaml:"feeds"`
	CacheTTLSec int      `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
	File   string `mapstructure:"file"   yaml:"file"`   // optional rotating log file
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.pricetalk/config.yaml (home directory)
//  3. /etc/pricetalk/config.yaml (system)
//
// Environment variables override config file values.
// Format: PRICETALK_<SECTION>_<KEY>, e.g., PRICETALK_DATASETS_DIR
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".pricetalk"))
	v.AddConfigPath("/etc/pricetalk")

	v.SetEnvPrefix("PRICETALK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("PRICETALK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("datasets.dir", "./datasets")

	v.SetDefault("resolver.default_lookback_days", 365)

	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("updater.base_url", "https://data.humdata.org")
	v.SetDefault("updater.requests_per_sec", 2)
	v.SetDefault("updater.timeout_sec", 60)

	v.SetDefault("translation.enabled", false)
	v.SetDefault("translation.target_language", "en")
	v.SetDefault("translation.cache_ttl_sec", 86400)

	v.SetDefault("news.feeds", []string{
		"https://www.fao.org/newsroom/rss/en/",
		"https://reliefweb.int/updates/rss.xml?advanced-search=%28T4595%29",
	})
	v.SetDefault("news.cache_ttl_sec", 600)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
