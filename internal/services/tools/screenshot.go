package tools

import (
	"context"
	"encoding/base64"
	"time"

	sdk "github.com/inference-gateway/sdk"

	config "github.com/dodocode/screenpilot/config"
	domain "github.com/dodocode/screenpilot/internal/domain"
)

// RawScreenshotTool captures the screen without grid annotations.
type RawScreenshotTool struct {
	config  *config.Config
	enabled bool
	screen  *Screen
}

// NewRawScreenshotTool creates a new raw screenshot tool
func NewRawScreenshotTool(cfg *config.Config, screen *Screen) *RawScreenshotTool {
	return &RawScreenshotTool{
		config:  cfg,
		enabled: cfg.ComputerUse.Enabled,
		screen:  screen,
	}
}

// Definition returns the tool definition for the LLM
func (t *RawScreenshotTool) Definition() sdk.ChatCompletionTool {
	description := "Captures a screenshot of the full screen without any grid overlay. Read-only."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "raw_screenshot",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

// Execute runs the raw screenshot tool
func (t *RawScreenshotTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	data, width, height, path, err := t.screen.CaptureRaw(ctx)
	if err != nil {
		return failResult("raw_screenshot", args, start, "%v", err), nil
	}

	result := okResult("raw_screenshot", args, start, domain.ScreenshotToolResult{
		Path:    path,
		Display: t.config.ComputerUse.Display,
		Width:   width,
		Height:  height,
		Format:  "png",
		Method:  t.screen.Method(),
	})
	result.Images = []domain.ImageAttachment{{
		Data:        base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
		DisplayName: path,
	}}
	return result, nil
}

// Validate checks if the tool arguments are valid
func (t *RawScreenshotTool) Validate(args map[string]any) error {
	return nil
}

// IsEnabled returns whether this tool is enabled
func (t *RawScreenshotTool) IsEnabled() bool {
	return t.enabled
}
