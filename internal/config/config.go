// Package config handles lux configuration: a TOML file, an optional .env
// file and LUX_* environment variables, applied in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/luxcatalog/lux/internal/atomicfile"
)

// Config represents the lux configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Client ClientConfig `toml:"client"`
	Log    LogConfig    `toml:"log"`
	UI     UIConfig     `toml:"ui"`
}

// ServerConfig configures `lux serve`.
type ServerConfig struct {
	// Addr is the TCP listen address, e.g. ":5555".
	Addr string `toml:"addr"`

	// MaxConcurrent is the number of exchanges served at once.
	// 1 serves connections strictly one after another.
	MaxConcurrent int `toml:"max_concurrent"`

	// ReadTimeout and WriteTimeout bound each exchange; 0 disables them.
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`

	MaxRequestBytes int64 `toml:"max_request_bytes"`
}

// StoreConfig locates the catalog store.
type StoreConfig struct {
	Path string `toml:"path"`
}

// ClientConfig configures `lux list` and `lux show` in server mode.
type ClientConfig struct {
	Server  string   `toml:"server"`
	Timeout Duration `toml:"timeout"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`

	// Color is auto, always or never. Only the text format is colored.
	Color string `toml:"color"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// Width overrides the detected terminal width for tables and markdown.
	Width int `toml:"width"`
}

// Duration is a time.Duration written as a string ("30s", "1m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := parseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// parseDuration accepts Go duration strings and bare integers as seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	var d time.Duration
	if n, err := strconv.Atoi(s); err == nil {
		d = time.Duration(n) * time.Second
	} else if d, err = time.ParseDuration(s); err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":5555",
			MaxConcurrent:   1,
			MaxRequestBytes: 1 << 20,
		},
		Store: StoreConfig{Path: "lux.sqlite"},
		Client: ClientConfig{
			Server:  "localhost:5555",
			Timeout: Duration{30 * time.Second},
		},
		Log: LogConfig{Level: "info", Format: "text", Color: "auto"},
	}
}

// Load builds the effective configuration: defaults, then the config file at
// path (DefaultPath when empty; a missing default file is not an error), then
// .env in the working directory, then the process environment.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil || explicit {
		loaded, err := LoadFrom(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFrom loads the configuration file at path over the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables already set are left alone; a missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// envVar binds one LUX_* variable to a config field.
type envVar struct {
	name  string
	apply func(c *Config, value string) error
}

var envVars = []envVar{
	{"LUX_SERVER_ADDR", func(c *Config, v string) error { c.Server.Addr = v; return nil }},
	{"LUX_MAX_CONCURRENT", func(c *Config, v string) error { return setInt(&c.Server.MaxConcurrent, v) }},
	{"LUX_READ_TIMEOUT", func(c *Config, v string) error { return setDuration(&c.Server.ReadTimeout, v) }},
	{"LUX_WRITE_TIMEOUT", func(c *Config, v string) error { return setDuration(&c.Server.WriteTimeout, v) }},
	{"LUX_MAX_REQUEST_BYTES", func(c *Config, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		c.Server.MaxRequestBytes = n
		return nil
	}},
	{"LUX_DB", func(c *Config, v string) error { c.Store.Path = v; return nil }},
	{"LUX_SERVER", func(c *Config, v string) error { c.Client.Server = v; return nil }},
	{"LUX_CLIENT_TIMEOUT", func(c *Config, v string) error { return setDuration(&c.Client.Timeout, v) }},
	{"LUX_LOG_LEVEL", func(c *Config, v string) error { c.Log.Level = v; return nil }},
	{"LUX_LOG_FORMAT", func(c *Config, v string) error { c.Log.Format = v; return nil }},
	{"LUX_LOG_COLOR", func(c *Config, v string) error { c.Log.Color = v; return nil }},
	{"LUX_UI_ACCENT", func(c *Config, v string) error { c.UI.Accent = v; return nil }},
	{"LUX_UI_WIDTH", func(c *Config, v string) error { return setInt(&c.UI.Width, v) }},
}

// ApplyEnv overrides fields from LUX_* variables found by lookup.
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		v, ok := lookup(ev.name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := ev.apply(c, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("invalid %s: %w", ev.name, err)
		}
	}
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setDuration(dst *Duration, v string) error {
	d, err := parseDuration(v)
	if err != nil {
		return err
	}
	dst.Duration = d
	return nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.Server.MaxConcurrent < 1 {
		return fmt.Errorf("server.max_concurrent must be at least 1, got %d", c.Server.MaxConcurrent)
	}
	if c.UI.Width < 0 {
		return fmt.Errorf("ui.width must not be negative")
	}
	if c.Server.MaxRequestBytes < 0 {
		return fmt.Errorf("server.max_request_bytes must not be negative")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.Log.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("log.color must be auto, always or never, got %q", c.Log.Color)
	}
	return nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/lux/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "lux", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "lux", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

const defaultConfig = `# lux configuration

[server]
# addr = ":5555"
# Exchanges served at once. 1 serves clients strictly one at a time.
# max_concurrent = 1
# Per-exchange deadlines; "0s" disables them.
# read_timeout = "0s"
# write_timeout = "0s"
# max_request_bytes = 1048576

[store]
# path = "lux.sqlite"

[client]
# server = "localhost:5555"
# timeout = "30s"

[log]
# level = "info"    # debug, info, warn, error
# format = "text"   # text or json
# color = "auto"    # auto, always, never

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# width = 100
`

// CreateDefault writes a commented default config file at path unless one
// already exists, and returns whether it wrote one.
func CreateDefault(path string) (bool, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := atomicfile.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
