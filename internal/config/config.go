// Package config loads terraview settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/terraview/config.toml (or
// ~/.config/terraview/config.toml). A missing file is not an error: every
// key has a default, and command-line flags override what the file sets.
//
//	endpoint = "http://localhost:8080/noise"
//	timeout  = "10s"
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "terraview"

// Config is the decoded configuration file.
type Config struct {
	Endpoint   string   `toml:"endpoint"`
	StatusPath string   `toml:"status_path"`
	Timeout    Duration `toml:"timeout"`
	Retries    int      `toml:"retries"`
	MaxSamples int      `toml:"max_samples"`
	Cache      Cache    `toml:"cache"`
	Render     Render   `toml:"render"`
}

// Cache selects and tunes the response cache.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	TTL      Duration `toml:"ttl"`
	RedisURL string   `toml:"redis_url"`
}

// Render tunes the terminal renderers.
type Render struct {
	FrameInterval Duration `toml:"frame_interval"`
	Spin          float64  `toml:"spin"`
	Texture       string   `toml:"texture"`
	Wireframe     bool     `toml:"wireframe"`
}

// Duration decodes TOML strings such as "250ms".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Endpoint:   "http://localhost:8080/noise",
		StatusPath: "/amiup",
		Timeout:    Duration{10 * time.Second},
		Retries:    1,
		MaxSamples: 250_000,
		Cache: Cache{
			Backend: "file",
			TTL:     Duration{24 * time.Hour},
		},
		Render: Render{
			FrameInterval: Duration{100 * time.Millisecond},
		},
	}
}

// Load reads path on top of the defaults. An empty path uses Path().
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			cfg.fill()
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		cfg.fill()
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("parse config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.fill()
	return cfg, nil
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Retries < 1 {
		return fmt.Errorf("retries must be at least 1")
	}
	if c.MaxSamples < 1 {
		return fmt.Errorf("max_samples must be positive")
	}
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache backend redis needs redis_url")
	}
	if c.Render.FrameInterval.Duration <= 0 {
		return fmt.Errorf("render.frame_interval must be positive")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fill resolves defaults that depend on the environment.
func (c *Config) fill() {
	if c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/terraview/).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
