// Package config loads the custody settings shared by the CLI and the web
// server.
//
// Values are resolved from, in order of precedence: CUSTODY_* environment
// variables, the config file (~/.custody/config.yaml or an explicit path)
// and built-in defaults. Command-line flags are applied by the caller on top
// of the loaded Config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides (CUSTODY_ADDR, ...).
const EnvPrefix = "CUSTODY"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// CacheBackends lists the accepted cache_backend values.
var CacheBackends = []string{CacheNone, CacheFile, CacheRedis}

// Config holds every configurable setting.
type Config struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	LogoPath       string        `mapstructure:"logo_path" yaml:"logo_path"`
	CatalogPath    string        `mapstructure:"catalog_path" yaml:"catalog_path"`
	CacheBackend   string        `mapstructure:"cache_backend" yaml:"cache_backend"`
	CacheDir       string        `mapstructure:"cache_dir" yaml:"cache_dir"`
	RedisAddr      string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword  string        `mapstructure:"redis_password" yaml:"redis_password,omitempty"`
	RedisDB        int           `mapstructure:"redis_db" yaml:"redis_db"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	CachePrefix    string        `mapstructure:"cache_prefix" yaml:"cache_prefix,omitempty"`
	RowsPerPage    int           `mapstructure:"rows_per_page" yaml:"rows_per_page"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr:           "127.0.0.1:8080",
		CacheBackend:   CacheFile,
		RedisAddr:      "localhost:6379",
		CacheTTL:       24 * time.Hour,
		RowsPerPage:    10,
		RequestTimeout: 30 * time.Second,
	}
}

// Dir returns ~/.custody.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".custody"), nil
}

// Load reads the configuration. An empty cfgFile searches ~/.custody for
// config.yaml; a missing file is not an error, but an explicit cfgFile that
// cannot be read is.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("logo_path", "")
	v.SetDefault("catalog_path", "")
	v.SetDefault("cache_backend", d.CacheBackend)
	v.SetDefault("cache_dir", "")
	v.SetDefault("redis_addr", d.RedisAddr)
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("cache_prefix", "")
	v.SetDefault("rows_per_page", d.RowsPerPage)
	v.SetDefault("request_timeout", d.RequestTimeout)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	if !slices.Contains(CacheBackends, c.CacheBackend) {
		return fmt.Errorf("cache_backend %q: want one of %v", c.CacheBackend, CacheBackends)
	}
	if c.RowsPerPage < 1 {
		return fmt.Errorf("rows_per_page must be positive, got %d", c.RowsPerPage)
	}
	if c.CacheTTL < 0 || c.RequestTimeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// Save writes c as YAML to cfgFile, or to ~/.custody/config.yaml when
// cfgFile is empty, creating the directory if necessary.
func Save(c *Config, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
