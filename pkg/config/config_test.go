package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boolnet/pkg/errors"
)

func noEnv(string) string { return "" }

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Network.Nodes)
	assert.Equal(t, 2, cfg.Network.MaxConnections)
	assert.Equal(t, " ", cfg.Display.On)
	assert.Equal(t, "0", cfg.Display.Off)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
[network]
nodes = 100
min_connections = 1
max_connections = 4
seed = 42

[display]
on = "#"
off = "."
width = 20

[store]
backend = "redis"
redis_addr = "cache:6379"
ttl = "2h"

[log]
level = "debug"
`)

	cfg, err := load(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Network.Nodes)
	assert.Equal(t, 4, cfg.Network.MaxConnections)
	assert.Equal(t, uint64(42), cfg.Network.Seed)
	assert.Equal(t, "#", cfg.Display.On)
	assert.Equal(t, 20, cfg.Display.Width)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.Equal(t, 2*time.Hour, cfg.Store.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset sections keep their defaults
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
network:
  nodes: 6
  max_connections: 3
display:
  on: "1"
  off: "0"
cache:
  ttl: 30m
  disabled: true
`)

	cfg, err := load(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Network.Nodes)
	assert.Equal(t, 3, cfg.Network.MaxConnections)
	assert.Equal(t, 2, cfg.Network.MinConnections)
	assert.Equal(t, "1", cfg.Display.On)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.Cache.Disabled)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.Code
	}{
		{"bad toml", "c.toml", "[network\nnodes = 1", errors.ErrCodeInvalidConfig},
		{"bad yaml", "c.yaml", "network: [", errors.ErrCodeInvalidConfig},
		{"unknown extension", "c.json", "{}", errors.ErrCodeInvalidConfig},
		{"invalid values", "c.toml", "[network]\nnodes = 2\nmax_connections = 3\n", errors.ErrCodeInvalidConfig},
		{"invalid backend", "c.toml", "[store]\nbackend = \"mongo\"\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(writeFile(t, tt.file, tt.content), noEnv)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "missing.toml"), noEnv)
	assert.True(t, errors.Is(err, errors.ErrCodeIO))
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "boolnet", "config.toml"), DefaultPath())

	// Absent default file is fine
	cfg, err := load("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Network.Nodes)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "boolnet"), 0755))
	require.NoError(t, os.WriteFile(DefaultPath(), []byte("[network]\nnodes = 30\n"), 0644))
	cfg, err = load("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Network.Nodes)
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.toml", "[network]\nnodes = 50\n")
	cfg, err := load(path, envMap(map[string]string{
		"BOOLNET_NODES":           "12",
		"BOOLNET_MAX_CONNECTIONS": "5",
		"BOOLNET_SEED":            "9",
		"BOOLNET_ON":              "*",
		"BOOLNET_STORE":           "memory",
		"BOOLNET_STORE_TTL":       "90s",
		"BOOLNET_LOG_LEVEL":       "warn",
		"BOOLNET_NO_CACHE":        "1",
		"BOOLNET_WORKERS":         "3",
	}))
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Network.Nodes)
	assert.Equal(t, 5, cfg.Network.MaxConnections)
	assert.Equal(t, uint64(9), cfg.Network.Seed)
	assert.Equal(t, "*", cfg.Display.On)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 90*time.Second, cfg.Store.TTL)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Cache.Disabled)
	assert.Equal(t, 3, cfg.Step.Workers)
}

func TestEnvOverrideErrors(t *testing.T) {
	for _, env := range []map[string]string{
		{"BOOLNET_NODES": "many"},
		{"BOOLNET_SEED": "-1"},
		{"BOOLNET_CACHE_TTL": "soon"},
	} {
		_, err := load(writeFile(t, "c.toml", ""), envMap(env))
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "env %v", env)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative nodes", func(c *Config) { c.Network.Nodes = -1 }},
		{"max exceeds nodes", func(c *Config) { c.Network.MaxConnections = 11 }},
		{"min exceeds max", func(c *Config) { c.Network.MinConnections = 3 }},
		{"negative width", func(c *Config) { c.Display.Width = -2 }},
		{"no workers", func(c *Config) { c.Step.Workers = 0 }},
		{"redis without addr", func(c *Config) { c.Store.Backend = BackendRedis; c.Store.RedisAddr = "" }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.True(t, errors.Is(cfg.Validate(), errors.ErrCodeInvalidConfig))
		})
	}
}

func TestLoadFileSkipsEnv(t *testing.T) {
	t.Setenv("BOOLNET_NODES", "99")
	cfg, err := LoadFile(writeFile(t, "c.yml", "network:\n  nodes: 4\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Network.Nodes)
}
