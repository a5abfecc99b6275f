package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Gateway.URL)
	assert.Equal(t, 50, cfg.ComputerUse.CellSize)
	assert.Equal(t, 3, cfg.ComputerUse.CoarseRows)
	assert.True(t, cfg.ComputerUse.FailSafe.Enabled)
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("gateway:\n  url: http://gw:9000\nagent:\n  model: openai/gpt-4o\n  max_turns: 7\ncomputer_use:\n  cell_size: 64\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://gw:9000", cfg.Gateway.URL)
	assert.Equal(t, 7, cfg.Agent.MaxTurns)
	assert.Equal(t, 64, cfg.ComputerUse.CellSize)
	// Unset sections keep their defaults.
	assert.Equal(t, ".pilot/screenshots", cfg.ComputerUse.Screenshot.Dir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PILOT_GATEWAY_URL", "http://from-env:8080")
	t.Setenv("PILOT_GATEWAY_API_KEY", "sk-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:8080", cfg.Gateway.URL)
	assert.Equal(t, "sk-test", cfg.Gateway.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}, wantErr: ""},
		{name: "missing gateway url", mutate: func(c *Config) { c.Gateway.URL = "" }, wantErr: "gateway.url"},
		{name: "missing model", mutate: func(c *Config) { c.Agent.Model = "" }, wantErr: "agent.model"},
		{name: "model without provider", mutate: func(c *Config) { c.Agent.Model = "gpt-4o" }, wantErr: "provider/model"},
		{name: "zero max turns", mutate: func(c *Config) { c.Agent.MaxTurns = 0 }, wantErr: "max_turns"},
		{name: "zero cell size", mutate: func(c *Config) { c.ComputerUse.CellSize = 0 }, wantErr: "cell_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Gateway.URL = "http://saved:8080"
	cfg.ComputerUse.CellSize = 40
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved:8080", loaded.Gateway.URL)
	assert.Equal(t, 40, loaded.ComputerUse.CellSize)
}
