package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/inference-gateway/sdk"

	config "github.com/dodocode/screenpilot/config"
	domain "github.com/dodocode/screenpilot/internal/domain"
)

// SendKeysTool types text into the focused element.
type SendKeysTool struct {
	config      *config.Config
	enabled     bool
	rateLimiter domain.RateLimiter
	screen      *Screen
}

// NewSendKeysTool creates a new typing tool
func NewSendKeysTool(cfg *config.Config, rateLimiter domain.RateLimiter, screen *Screen) *SendKeysTool {
	return &SendKeysTool{
		config:      cfg,
		enabled:     cfg.ComputerUse.Enabled,
		rateLimiter: rateLimiter,
		screen:      screen,
	}
}

// Definition returns the tool definition for the LLM
func (t *SendKeysTool) Definition() sdk.ChatCompletionTool {
	description := "Types text into the currently focused element, character by character."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "send_keys",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "Text to type",
					},
					"interval": map[string]any{
						"type":        "number",
						"description": "Delay between keystrokes in seconds",
						"default":     0.02,
					},
				},
				"required": []string{"text"},
			},
		},
	}
}

// Execute runs the typing tool
func (t *SendKeysTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	if err := t.rateLimiter.CheckAndRecord("send_keys"); err != nil {
		return failResult("send_keys", args, start, "%v", err), nil
	}

	text, err := stringArg(args, "text", true)
	if err != nil {
		return failResult("send_keys", args, start, "%v", err), nil
	}

	defaultInterval := float64(t.config.ComputerUse.Keyboard.DefaultIntervalMs) / 1000.0
	interval, err := floatArg(args, "interval", false, defaultInterval)
	if err != nil {
		return failResult("send_keys", args, start, "%v", err), nil
	}
	if interval < 0 {
		return failResult("send_keys", args, start, "interval must be >= 0"), nil
	}

	controller, err := t.screen.Controller()
	if err != nil {
		return failResult("send_keys", args, start, "%v", err), nil
	}

	delayMs := int(interval * 1000)
	if err := controller.TypeText(ctx, text, delayMs); err != nil {
		return failResult("send_keys", args, start, "failed to type text: %v", err), nil
	}

	return okResult("send_keys", args, start, map[string]any{
		"typed_chars": len([]rune(text)),
		"interval":    interval,
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *SendKeysTool) Validate(args map[string]any) error {
	if _, err := stringArg(args, "text", true); err != nil {
		return err
	}
	interval, err := floatArg(args, "interval", false, 0)
	if err != nil {
		return err
	}
	if interval < 0 {
		return fmt.Errorf("interval must be >= 0")
	}
	return nil
}

// IsEnabled returns whether this tool is enabled
func (t *SendKeysTool) IsEnabled() bool {
	return t.enabled
}

// PressKeyTool presses a single named key.
type PressKeyTool struct {
	config      *config.Config
	enabled     bool
	rateLimiter domain.RateLimiter
	screen      *Screen
}

// NewPressKeyTool creates a new key press tool
func NewPressKeyTool(cfg *config.Config, rateLimiter domain.RateLimiter, screen *Screen) *PressKeyTool {
	return &PressKeyTool{
		config:      cfg,
		enabled:     cfg.ComputerUse.Enabled,
		rateLimiter: rateLimiter,
		screen:      screen,
	}
}

// Definition returns the tool definition for the LLM
func (t *PressKeyTool) Definition() sdk.ChatCompletionTool {
	description := "Presses and releases a single named key (e.g. 'enter', 'tab', 'escape', 'f5')."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "press_key",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"key": map[string]any{
						"type":        "string",
						"description": "Key name to press",
					},
				},
				"required": []string{"key"},
			},
		},
	}
}

// Execute runs the key press tool
func (t *PressKeyTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	if err := t.rateLimiter.CheckAndRecord("press_key"); err != nil {
		return failResult("press_key", args, start, "%v", err), nil
	}

	key, err := stringArg(args, "key", true)
	if err != nil {
		return failResult("press_key", args, start, "%v", err), nil
	}

	controller, err := t.screen.Controller()
	if err != nil {
		return failResult("press_key", args, start, "%v", err), nil
	}

	if err := controller.PressKey(ctx, key); err != nil {
		return failResult("press_key", args, start, "failed to press key: %v", err), nil
	}

	return okResult("press_key", args, start, map[string]any{"key": key}), nil
}

// Validate checks if the tool arguments are valid
func (t *PressKeyTool) Validate(args map[string]any) error {
	_, err := stringArg(args, "key", true)
	return err
}

// IsEnabled returns whether this tool is enabled
func (t *PressKeyTool) IsEnabled() bool {
	return t.enabled
}

// HotkeyTool sends a modifier key combination.
type HotkeyTool struct {
	config      *config.Config
	enabled     bool
	rateLimiter domain.RateLimiter
	screen      *Screen
}

// NewHotkeyTool creates a new hotkey tool
func NewHotkeyTool(cfg *config.Config, rateLimiter domain.RateLimiter, screen *Screen) *HotkeyTool {
	return &HotkeyTool{
		config:      cfg,
		enabled:     cfg.ComputerUse.Enabled,
		rateLimiter: rateLimiter,
		screen:      screen,
	}
}

// Definition returns the tool definition for the LLM
func (t *HotkeyTool) Definition() sdk.ChatCompletionTool {
	description := "Presses a key combination, e.g. [\"ctrl\", \"c\"] or [\"alt\", \"tab\"]."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "hotkey",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"keys": map[string]any{
						"type":        "array",
						"description": "Keys to press together, modifiers first",
						"items":       map[string]any{"type": "string"},
					},
				},
				"required": []string{"keys"},
			},
		},
	}
}

// hotkeyCombo extracts the keys argument as a "+"-joined combo string.
func hotkeyCombo(args map[string]any) (string, error) {
	value, exists := args["keys"]
	if !exists || value == nil {
		return "", fmt.Errorf("missing required parameter: keys")
	}

	switch v := value.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("keys cannot be empty")
		}
		return v, nil
	case []any:
		if len(v) == 0 {
			return "", fmt.Errorf("keys cannot be empty")
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok || s == "" {
				return "", fmt.Errorf("keys must be non-empty strings, got %T", item)
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, "+"), nil
	default:
		return "", fmt.Errorf("keys must be an array of strings, got %T", value)
	}
}

// Execute runs the hotkey tool
func (t *HotkeyTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	if err := t.rateLimiter.CheckAndRecord("hotkey"); err != nil {
		return failResult("hotkey", args, start, "%v", err), nil
	}

	combo, err := hotkeyCombo(args)
	if err != nil {
		return failResult("hotkey", args, start, "%v", err), nil
	}

	controller, err := t.screen.Controller()
	if err != nil {
		return failResult("hotkey", args, start, "%v", err), nil
	}

	if err := controller.SendKeyCombo(ctx, combo); err != nil {
		return failResult("hotkey", args, start, "failed to send hotkey: %v", err), nil
	}

	return okResult("hotkey", args, start, map[string]any{"combo": combo}), nil
}

// Validate checks if the tool arguments are valid
func (t *HotkeyTool) Validate(args map[string]any) error {
	_, err := hotkeyCombo(args)
	return err
}

// IsEnabled returns whether this tool is enabled
func (t *HotkeyTool) IsEnabled() bool {
	return t.enabled
}
