// Package config loads runtime settings from a YAML or JSON file and BLOCKFACTORY_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BLOCKFACTORY_"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the complete runtime configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Store   StoreConfig   `yaml:"store" json:"store"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Export  ExportConfig  `yaml:"export" json:"export"`
	Preview PreviewConfig `yaml:"preview" json:"preview"`
	Library LibraryConfig `yaml:"library" json:"library"`
}

type ServerConfig struct {
	Port int `yaml:"port" json:"port"`
}

type StoreConfig struct {
	Backend string      `yaml:"backend" json:"backend"`
	Dir     string      `yaml:"dir" json:"dir"`
	Redis   RedisConfig `yaml:"redis" json:"redis"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type ExportConfig struct {
	Format string `yaml:"format" json:"format"`
	Dir    string `yaml:"dir" json:"dir"`
}

type PreviewConfig struct {
	CellWidth float64 `yaml:"cell_width" json:"cell_width"`
}

type LibraryConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Store: StoreConfig{
			Backend: BackendMemory,
			Dir:     filepath.Join(".blockfactory", "sessions"),
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "blockfactory:"},
		},
		Log:     LogConfig{Level: "info", Format: "text"},
		Export:  ExportConfig{Format: "json", Dir: "."},
		Preview: PreviewConfig{CellWidth: 7},
		Library: LibraryConfig{Dir: "blocks"},
	}
}

// Load reads path (if non-empty and present) over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []string
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := cast.ToIntE(v)
			if err != nil {
				errs = append(errs, EnvPrefix+key)
				return
			}
			*dst = n
		}
	}

	integer("PORT", &c.Server.Port)
	str("STORE_BACKEND", &c.Store.Backend)
	str("STORE_DIR", &c.Store.Dir)
	str("REDIS_ADDR", &c.Store.Redis.Addr)
	str("REDIS_PASSWORD", &c.Store.Redis.Password)
	integer("REDIS_DB", &c.Store.Redis.DB)
	str("REDIS_PREFIX", &c.Store.Redis.Prefix)
	if v, ok := lookup(EnvPrefix + "REDIS_TTL"); ok {
		d, err := cast.ToDurationE(v)
		if err != nil {
			errs = append(errs, EnvPrefix+"REDIS_TTL")
		} else {
			c.Store.Redis.TTL = d
		}
	}
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("EXPORT_FORMAT", &c.Export.Format)
	str("EXPORT_DIR", &c.Export.Dir)
	if v, ok := lookup(EnvPrefix + "CELL_WIDTH"); ok {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			errs = append(errs, EnvPrefix+"CELL_WIDTH")
		} else {
			c.Preview.CellWidth = f
		}
	}
	str("LIBRARY_DIR", &c.Library.Dir)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment overrides: %s", strings.Join(errs, ", "))
	}
	return nil
}

// Validate rejects settings the commands cannot work with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unsupported store backend: %q", c.Store.Backend)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Preview.CellWidth <= 0 {
		return fmt.Errorf("preview cell width must be positive, got %v", c.Preview.CellWidth)
	}
	return nil
}
