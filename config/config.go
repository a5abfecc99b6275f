// Package config holds the CLI configuration, loaded from YAML with
// environment overrides for gateway credentials.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dodocode/screenpilot/internal/logger"
)

// DefaultConfigPath is the config location relative to the working directory.
const DefaultConfigPath = ".pilot/config.yaml"

// EnvPrefix is the prefix for environment variable overrides
// (PILOT_GATEWAY_URL, PILOT_GATEWAY_API_KEY).
const EnvPrefix = "PILOT"

// Config represents the CLI configuration
type Config struct {
	Gateway     GatewayConfig     `yaml:"gateway"`
	Agent       AgentConfig       `yaml:"agent"`
	ComputerUse ComputerUseConfig `yaml:"computer_use"`
	Browser     BrowserConfig     `yaml:"browser"`
	History     HistoryConfig     `yaml:"history"`
}

// GatewayConfig contains gateway connection settings
type GatewayConfig struct {
	URL     string `yaml:"url"`
	APIKey  string `yaml:"api_key"`
	Timeout int    `yaml:"timeout"`
}

// AgentConfig contains decision-model settings
type AgentConfig struct {
	Model           string `yaml:"model"`
	SummarizerModel string `yaml:"summarizer_model"`
	SystemPrompt    string `yaml:"system_prompt"`
	MaxTurns        int    `yaml:"max_turns"`
	MaxTokens       int    `yaml:"max_tokens"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// ComputerUseConfig contains desktop driver settings
type ComputerUseConfig struct {
	Enabled    bool             `yaml:"enabled"`
	Display    string           `yaml:"display"`
	CellSize   int              `yaml:"cell_size"`
	CoarseRows int              `yaml:"coarse_rows"`
	CoarseCols int              `yaml:"coarse_cols"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	FailSafe   FailSafeConfig   `yaml:"fail_safe"`
	Keyboard   KeyboardConfig   `yaml:"keyboard"`
}

// ScreenshotConfig contains screenshot capture and persistence settings
type ScreenshotConfig struct {
	Dir       string `yaml:"dir"`
	Format    string `yaml:"format"`
	Quality   int    `yaml:"quality"`
	MaxWidth  int    `yaml:"max_width"`
	MaxHeight int    `yaml:"max_height"`
}

// RateLimitConfig bounds how fast input-driver actions may fire
type RateLimitConfig struct {
	Enabled             bool `yaml:"enabled"`
	MaxActionsPerMinute int  `yaml:"max_actions_per_minute"`
	WindowSeconds       int  `yaml:"window_seconds"`
}

// FailSafeConfig controls the reserved-corner abort trigger
type FailSafeConfig struct {
	Enabled        bool `yaml:"enabled"`
	Margin         int  `yaml:"margin"`
	PollIntervalMs int  `yaml:"poll_interval_ms"`
}

// KeyboardConfig contains typing behavior settings
type KeyboardConfig struct {
	DefaultIntervalMs int `yaml:"default_interval_ms"`
}

// BrowserConfig contains page driver settings
type BrowserConfig struct {
	Enabled        bool `yaml:"enabled"`
	Headless       bool `yaml:"headless"`
	ViewportWidth  int  `yaml:"viewport_width"`
	ViewportHeight int  `yaml:"viewport_height"`
	DefaultTimeout int  `yaml:"default_timeout"`
}

// HistoryConfig contains transcript persistence settings
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			URL:     "http://localhost:8080",
			APIKey:  "",
			Timeout: 120,
		},
		Agent: AgentConfig{
			Model:           "openai/gpt-4o",
			SummarizerModel: "openai/gpt-4o-mini",
			SystemPrompt:    "",
			MaxTurns:        40,
			MaxTokens:       4096,
			TimeoutSeconds:  120,
		},
		ComputerUse: ComputerUseConfig{
			Enabled:    true,
			Display:    ":0",
			CellSize:   50,
			CoarseRows: 3,
			CoarseCols: 3,
			Screenshot: ScreenshotConfig{
				Dir:       ".pilot/screenshots",
				Format:    "png",
				Quality:   85,
				MaxWidth:  0,
				MaxHeight: 0,
			},
			RateLimit: RateLimitConfig{
				Enabled:             true,
				MaxActionsPerMinute: 60,
				WindowSeconds:       60,
			},
			FailSafe: FailSafeConfig{
				Enabled:        true,
				Margin:         5,
				PollIntervalMs: 100,
			},
			Keyboard: KeyboardConfig{
				DefaultIntervalMs: 20,
			},
		},
		Browser: BrowserConfig{
			Enabled:        true,
			Headless:       false,
			ViewportWidth:  1280,
			ViewportHeight: 800,
			DefaultTimeout: 10,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".pilot/history.db",
		},
	}
}

// GetConfigPath resolves the config path, honoring an explicit override.
func GetConfigPath(override string) string {
	if override != "" {
		return override
	}
	wd, err := os.Getwd()
	if err != nil {
		return DefaultConfigPath
	}
	return filepath.Join(wd, DefaultConfigPath)
}

// Load loads configuration from file, falling back to defaults when the file
// does not exist, then applies environment overrides.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Debug("Config file not found, using default configuration", "path", configPath)
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(cfg)
	logger.Debug("Loaded config", "path", configPath, "gateway_url", cfg.Gateway.URL)
	return cfg, nil
}

// applyEnvOverrides overlays PILOT_* environment variables onto the config so
// credentials never have to live in the YAML file.
func applyEnvOverrides(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{"gateway.url", "gateway.api_key", "agent.model", "computer_use.display"} {
		// Declare the key so AutomaticEnv can see it without a bound default.
		_ = v.BindEnv(key)
	}

	if s := v.GetString("gateway.url"); s != "" {
		cfg.Gateway.URL = s
	}
	if s := v.GetString("gateway.api_key"); s != "" {
		cfg.Gateway.APIKey = s
	}
	if s := v.GetString("agent.model"); s != "" {
		cfg.Agent.Model = s
	}
	if s := v.GetString("computer_use.display"); s != "" {
		cfg.ComputerUse.Display = s
	}
}

// Validate checks startup-fatal settings. Configuration problems surface here,
// before any task runs; they are never raised mid-loop.
func (c *Config) Validate() error {
	if c.Gateway.URL == "" {
		return fmt.Errorf("gateway.url is required (set it in %s or via %s_GATEWAY_URL)", DefaultConfigPath, EnvPrefix)
	}
	if c.Agent.Model == "" {
		return fmt.Errorf("agent.model is required, in 'provider/model' form")
	}
	if !strings.Contains(c.Agent.Model, "/") {
		return fmt.Errorf("agent.model %q must be in 'provider/model' form", c.Agent.Model)
	}
	if c.Agent.MaxTurns <= 0 {
		return fmt.Errorf("agent.max_turns must be positive")
	}
	if c.ComputerUse.CellSize <= 0 {
		return fmt.Errorf("computer_use.cell_size must be positive")
	}
	return nil
}

// Save saves configuration to file
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	defer func() {
		if err := encoder.Close(); err != nil {
			logger.Error("Failed to close YAML encoder", "error", err)
		}
	}()

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	logger.Debug("Saved config", "path", configPath)
	return nil
}
