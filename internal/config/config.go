// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all pokedex configuration.
type Config struct {
	API   API   `yaml:"api"`
	HTTP  HTTP  `yaml:"http"`
	Cache Cache `yaml:"cache"`
	Log   Log   `yaml:"log"`
}

// API holds remote provider settings.
type API struct {
	BaseURL  string `yaml:"base_url"`
	PageSize int    `yaml:"page_size"`
}

// HTTP holds transport settings.
type HTTP struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Cache holds response cache settings.
type Cache struct {
	MaxEntries int `yaml:"max_entries"` // 0 = unbounded; >0 = LRU per cache
}

// Log holds logging settings.
type Log struct {
	Level      string `yaml:"level"` // debug | info | warn | error, any case
	File       string `yaml:"file"`  // empty = stderr (plain commands) or discarded (dashboard)
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: API{
			BaseURL:  "https://pokeapi.co/api/v2",
			PageSize: 20,
		},
		HTTP: HTTP{
			Timeout: 10 * time.Second,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api.base_url cannot be empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.PageSize <= 0 {
		return fmt.Errorf("config: api.page_size must be positive, got %d", c.API.PageSize)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("config: http.timeout must be positive, got %v", c.HTTP.Timeout)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("config: cache.max_entries must be non-negative, got %d", c.Cache.MaxEntries)
	}
	// Matches the names logging.ParseLevel understands.
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: POKEDEX_BASE_URL, POKEDEX_PAGE_SIZE, POKEDEX_TIMEOUT,
// POKEDEX_LOG_LEVEL, POKEDEX_LOG_FILE.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("POKEDEX_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("POKEDEX_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid POKEDEX_PAGE_SIZE %q: %w", v, err)
		}
		c.API.PageSize = n
	}
	if v := os.Getenv("POKEDEX_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid POKEDEX_TIMEOUT %q: %w", v, err)
		}
		c.HTTP.Timeout = d
	}
	if v := os.Getenv("POKEDEX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("POKEDEX_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	API   *rawAPI   `yaml:"api"`
	HTTP  *rawHTTP  `yaml:"http"`
	Cache *rawCache `yaml:"cache"`
	Log   *rawLog   `yaml:"log"`
}

type rawAPI struct {
	BaseURL  *string `yaml:"base_url"`
	PageSize *int    `yaml:"page_size"`
}

type rawHTTP struct {
	Timeout *time.Duration `yaml:"timeout"`
}

type rawCache struct {
	MaxEntries *int `yaml:"max_entries"`
}

type rawLog struct {
	Level      *string `yaml:"level"`
	File       *string `yaml:"file"`
	MaxSizeMB  *int    `yaml:"max_size_mb"`
	MaxBackups *int    `yaml:"max_backups"`
	MaxAgeDays *int    `yaml:"max_age_days"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.API != nil {
		setIf(&c.API.BaseURL, layer.API.BaseURL)
		setIf(&c.API.PageSize, layer.API.PageSize)
	}
	if layer.HTTP != nil {
		setIf(&c.HTTP.Timeout, layer.HTTP.Timeout)
	}
	if layer.Cache != nil {
		setIf(&c.Cache.MaxEntries, layer.Cache.MaxEntries)
	}
	if layer.Log != nil {
		setIf(&c.Log.Level, layer.Log.Level)
		setIf(&c.Log.File, layer.Log.File)
		setIf(&c.Log.MaxSizeMB, layer.Log.MaxSizeMB)
		setIf(&c.Log.MaxBackups, layer.Log.MaxBackups)
		setIf(&c.Log.MaxAgeDays, layer.Log.MaxAgeDays)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
