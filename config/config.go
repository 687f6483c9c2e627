// Package config provides configuration loading, validation, and hot
// reload for the tile proxy.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cosmozoom/tilegate/domain/body"
)

// Config is the root configuration structure. Everything here is read
// at startup (or on reload); nothing is consulted per request except
// through the derived profile table.
type Config struct {
	Server  ServerConfig            `yaml:"server"`
	CORS    CORSConfig              `yaml:"cors"`
	Logging LoggingConfig           `yaml:"logging"`
	Metrics MetricsConfig           `yaml:"metrics"`
	Bodies  map[string]BodyOverride `yaml:"bodies"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// CORSConfig configures cross-origin access for browser map clients.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// BodyOverride tunes one body's stock profile.
type BodyOverride struct {
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	CacheMaxAge int           `yaml:"cache_max_age"`
	MaxZoom     int           `yaml:"max_zoom"`
}

// Load reads configuration from a YAML file, expands ${ENV} references,
// applies TILEGATE_* environment overrides, and fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to an env-and-defaults
// configuration when the file does not exist, so the proxy runs with no
// config file at all.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := &Config{}
		applyEnvOverrides(cfg)
		setDefaults(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// Validate checks the configuration, including that every body override
// names a known body and yields a buildable profile table.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging format %q must be json or console", c.Logging.Format)
	}
	if _, err := c.ProfileTable(); err != nil {
		return fmt.Errorf("body overrides: %w", err)
	}
	return nil
}

// ProfileTable builds the immutable body-profile table this config
// describes.
func (c *Config) ProfileTable() (*body.Table, error) {
	overrides := make(map[string]body.Override, len(c.Bodies))
	for id, o := range c.Bodies {
		overrides[strings.ToLower(id)] = body.Override{
			UpstreamBaseURL: o.BaseURL,
			Timeout:         o.Timeout,
			CacheMaxAge:     o.CacheMaxAge,
			MaxZoom:         o.MaxZoom,
		}
	}
	table, err := body.Defaults(overrides)
	if err != nil {
		return nil, err
	}
	for id := range overrides {
		if _, err := table.Lookup(id); err != nil {
			return nil, fmt.Errorf("override for unknown body %q", id)
		}
	}
	return table, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		// Must exceed the slowest per-body upstream timeout or the
		// server cuts off legitimate slow tiles.
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TILEGATE_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("TILEGATE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("TILEGATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TILEGATE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TILEGATE_CORS_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("TILEGATE_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	for _, id := range []string{"earth", "moon", "mars", "mercury"} {
		applyBodyEnv(cfg, id)
	}
}

// applyBodyEnv reads TILEGATE_<BODY>_* overrides, the generalization of
// the per-body env knobs the service has always honored.
func applyBodyEnv(cfg *Config, id string) {
	prefix := "TILEGATE_" + strings.ToUpper(id) + "_"
	o := cfg.Bodies[id]
	changed := false

	if v := os.Getenv(prefix + "BASE_URL"); v != "" {
		o.BaseURL = v
		changed = true
	}
	if v := os.Getenv(prefix + "MAX_ZOOM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			o.MaxZoom = n
			changed = true
		}
	}
	if v := os.Getenv(prefix + "TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			o.Timeout = d
			changed = true
		}
	}
	if v := os.Getenv(prefix + "CACHE_MAX_AGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			o.CacheMaxAge = n
			changed = true
		}
	}

	if changed {
		if cfg.Bodies == nil {
			cfg.Bodies = make(map[string]BodyOverride)
		}
		cfg.Bodies[id] = o
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
