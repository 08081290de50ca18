// Package config loads boolnet settings from TOML or YAML files and the
// environment.
//
// Precedence, lowest first: [Default], the config file, BOOLNET_*
// environment variables. Command-line flags are applied on top by the CLI.
//
//	cfg, err := config.Load("")  // $XDG_CONFIG_HOME/boolnet/config.toml if present
//	if err != nil {
//	    return err
//	}
//
// The file format is chosen by extension: .toml, or .yaml/.yml.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/boolnet/pkg/errors"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

var (
	backends  = []string{BackendMemory, BackendFile, BackendRedis}
	logLevels = []string{"debug", "info", "warn", "error"}
)

// Config contains all boolnet settings.
type Config struct {
	Network NetworkConfig `toml:"network" yaml:"network"`
	Display DisplayConfig `toml:"display" yaml:"display"`
	Step    StepConfig    `toml:"step" yaml:"step"`
	Store   StoreConfig   `toml:"store" yaml:"store"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Log     LogConfig     `toml:"log" yaml:"log"`
}

// NetworkConfig holds random generation parameters.
type NetworkConfig struct {
	Nodes          int `toml:"nodes" yaml:"nodes"`
	MinConnections int `toml:"min_connections" yaml:"min_connections"`
	MaxConnections int `toml:"max_connections" yaml:"max_connections"`

	// Seed for the generator. Zero draws a fresh seed per run.
	Seed uint64 `toml:"seed" yaml:"seed"`
}

// DisplayConfig holds the tokens used to print node states.
type DisplayConfig struct {
	On  string `toml:"on" yaml:"on"`
	Off string `toml:"off" yaml:"off"`

	// Width wraps the state line every Width nodes. Zero disables wrapping.
	Width int `toml:"width" yaml:"width"`
}

// StepConfig configures the stepper.
type StepConfig struct {
	// Workers is the number of goroutines evaluating a generation.
	Workers int `toml:"workers" yaml:"workers"`
}

// StoreConfig selects and configures the session store.
type StoreConfig struct {
	Backend string `toml:"backend" yaml:"backend"`

	// Dir is the file backend's directory. Empty uses ~/.config/boolnet/sessions.
	Dir string `toml:"dir" yaml:"dir"`

	RedisAddr     string        `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int           `toml:"redis_db" yaml:"redis_db"`
	TTL           time.Duration `toml:"ttl" yaml:"ttl"`
}

// CacheConfig configures the render cache.
type CacheConfig struct {
	// Dir overrides the cache directory.
	Dir      string        `toml:"dir" yaml:"dir"`
	TTL      time.Duration `toml:"ttl" yaml:"ttl"`
	Disabled bool          `toml:"disabled" yaml:"disabled"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Network: NetworkConfig{Nodes: 10, MinConnections: 2, MaxConnections: 2},
		Display: DisplayConfig{On: " ", Off: "0"},
		Step:    StepConfig{Workers: runtime.GOMAXPROCS(0)},
		Store:   StoreConfig{Backend: BackendFile, RedisAddr: "localhost:6379"},
		Cache:   CacheConfig{TTL: 7 * 24 * time.Hour},
		Server:  ServerConfig{Addr: ":8080"},
		Log:     LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/boolnet/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "boolnet", "config.toml")
}

// Load reads the config file at path, applies environment overrides, and
// validates the result. An empty path uses [DefaultPath] and tolerates its
// absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if err := cfg.decodeFile(path); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes a config file over the defaults without consulting the
// environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.decodeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "read config file %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml or .yaml)", ext)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file %s", path)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	n := c.Network
	if n.Nodes < 0 || n.MinConnections < 0 || n.MaxConnections < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "network sizes must be non-negative")
	}
	if n.MaxConnections > n.Nodes {
		return errors.New(errors.ErrCodeInvalidConfig, "max_connections %d exceeds nodes %d", n.MaxConnections, n.Nodes)
	}
	if n.MinConnections > n.MaxConnections {
		return errors.New(errors.ErrCodeInvalidConfig, "min_connections %d exceeds max_connections %d", n.MinConnections, n.MaxConnections)
	}
	if c.Display.Width < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "display width must be non-negative, got %d", c.Display.Width)
	}
	if c.Step.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "step workers must be at least 1, got %d", c.Step.Workers)
	}
	if !slices.Contains(backends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid store backend %q (valid: %s)", c.Store.Backend, strings.Join(backends, ", "))
	}
	if c.Store.Backend == BackendRedis && c.Store.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis backend requires redis_addr")
	}
	if c.Store.TTL < 0 || c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "ttl must be non-negative")
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid log level %q (valid: %s)", c.Log.Level, strings.Join(logLevels, ", "))
	}
	return nil
}

// applyEnv applies BOOLNET_* overrides.
func (c *Config) applyEnv(getenv func(string) string) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"BOOLNET_NODES", &c.Network.Nodes},
		{"BOOLNET_MIN_CONNECTIONS", &c.Network.MinConnections},
		{"BOOLNET_MAX_CONNECTIONS", &c.Network.MaxConnections},
		{"BOOLNET_WIDTH", &c.Display.Width},
		{"BOOLNET_WORKERS", &c.Step.Workers},
		{"BOOLNET_REDIS_DB", &c.Store.RedisDB},
	}
	for _, e := range ints {
		if v := getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", e.key)
			}
			*e.dst = n
		}
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"BOOLNET_ON", &c.Display.On},
		{"BOOLNET_OFF", &c.Display.Off},
		{"BOOLNET_STORE", &c.Store.Backend},
		{"BOOLNET_STORE_DIR", &c.Store.Dir},
		{"BOOLNET_REDIS_ADDR", &c.Store.RedisAddr},
		{"BOOLNET_REDIS_PASSWORD", &c.Store.RedisPassword},
		{"BOOLNET_CACHE_DIR", &c.Cache.Dir},
		{"BOOLNET_ADDR", &c.Server.Addr},
		{"BOOLNET_LOG_LEVEL", &c.Log.Level},
	}
	for _, e := range strs {
		if v := getenv(e.key); v != "" {
			*e.dst = v
		}
	}

	durs := []struct {
		key string
		dst *time.Duration
	}{
		{"BOOLNET_STORE_TTL", &c.Store.TTL},
		{"BOOLNET_CACHE_TTL", &c.Cache.TTL},
	}
	for _, e := range durs {
		if v := getenv(e.key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", e.key)
			}
			*e.dst = d
		}
	}

	if v := getenv("BOOLNET_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "BOOLNET_SEED")
		}
		c.Network.Seed = seed
	}
	if v := getenv("BOOLNET_NO_CACHE"); v != "" {
		c.Cache.Disabled = v == "true" || v == "1"
	}
	return nil
}
