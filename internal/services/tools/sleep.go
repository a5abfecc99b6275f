package tools

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/inference-gateway/sdk"

	config "github.com/dodocode/screenpilot/config"
	domain "github.com/dodocode/screenpilot/internal/domain"
)

// maxSleepSeconds bounds a single sleep so one tool call cannot stall the
// loop indefinitely.
const maxSleepSeconds = 30.0

// SleepTool pauses between actions, e.g. while a window opens.
type SleepTool struct {
	config  *config.Config
	enabled bool
}

// NewSleepTool creates a new sleep tool. It rides along in both catalogs, so
// it is enabled whenever either driver family is.
func NewSleepTool(cfg *config.Config) *SleepTool {
	return &SleepTool{
		config:  cfg,
		enabled: cfg.ComputerUse.Enabled || cfg.Browser.Enabled,
	}
}

// Definition returns the tool definition for the LLM
func (t *SleepTool) Definition() sdk.ChatCompletionTool {
	description := "Waits for the given number of seconds, e.g. for a window or page to finish loading."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "sleep",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"seconds": map[string]any{
						"type":        "number",
						"description": fmt.Sprintf("Seconds to wait (max %.0f)", maxSleepSeconds),
					},
				},
				"required": []string{"seconds"},
			},
		},
	}
}

// Execute runs the sleep tool
func (t *SleepTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	seconds, err := floatArg(args, "seconds", true, 0)
	if err != nil {
		return failResult("sleep", args, start, "%v", err), nil
	}
	if seconds <= 0 || seconds > maxSleepSeconds {
		return failResult("sleep", args, start, "seconds must be in (0, %.0f]", maxSleepSeconds), nil
	}

	select {
	case <-ctx.Done():
		return failResult("sleep", args, start, "%v", ctx.Err()), nil
	case <-time.After(time.Duration(seconds * float64(time.Second))):
	}

	return okResult("sleep", args, start, map[string]any{"slept_seconds": seconds}), nil
}

// Validate checks if the tool arguments are valid
func (t *SleepTool) Validate(args map[string]any) error {
	seconds, err := floatArg(args, "seconds", true, 0)
	if err != nil {
		return err
	}
	if seconds <= 0 || seconds > maxSleepSeconds {
		return fmt.Errorf("seconds must be in (0, %.0f]", maxSleepSeconds)
	}
	return nil
}

// IsEnabled returns whether this tool is enabled
func (t *SleepTool) IsEnabled() bool {
	return t.enabled
}
