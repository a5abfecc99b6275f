package tools

import (
	"context"
	"encoding/base64"
	"time"

	sdk "github.com/inference-gateway/sdk"

	config "github.com/dodocode/screenpilot/config"
	domain "github.com/dodocode/screenpilot/internal/domain"
	perception "github.com/dodocode/screenpilot/internal/perception"
)

// CaptureDescribeTool captures the screen with the numbered grid overlay and
// has the vision model describe it. This is the primary perception step:
// every call rebuilds the grid table, so cell numbers always refer to the
// image the model is looking at.
type CaptureDescribeTool struct {
	config     *config.Config
	enabled    bool
	screen     *Screen
	summarizer *perception.Summarizer
}

// NewCaptureDescribeTool creates a new capture-and-describe tool
func NewCaptureDescribeTool(cfg *config.Config, screen *Screen, summarizer *perception.Summarizer) *CaptureDescribeTool {
	return &CaptureDescribeTool{
		config:     cfg,
		enabled:    cfg.ComputerUse.Enabled,
		screen:     screen,
		summarizer: summarizer,
	}
}

// Definition returns the tool definition for the LLM
func (t *CaptureDescribeTool) Definition() sdk.ChatCompletionTool {
	description := "Captures the screen with a numbered grid overlay and describes what is visible. " +
		"Cell numbers from the description can be passed to click_numbered_cell. " +
		"Always call this again after the screen changes; stale cell numbers refer to the previous capture."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "capture_and_describe_screen",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"task_hint": map[string]any{
						"type":        "string",
						"description": "Optional hint about what to look for on the screen",
					},
					"grid_rows": map[string]any{
						"type":        "integer",
						"description": "Rows in the coarse orientation grid reported in _meta",
						"default":     3,
					},
					"grid_cols": map[string]any{
						"type":        "integer",
						"description": "Columns in the coarse orientation grid reported in _meta",
						"default":     3,
					},
				},
			},
		},
	}
}

// Execute runs the capture-and-describe tool
func (t *CaptureDescribeTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	taskHint, err := stringArg(args, "task_hint", false)
	if err != nil {
		return failResult("capture_and_describe_screen", args, start, "%v", err), nil
	}
	rows, err := intArg(args, "grid_rows", false, t.config.ComputerUse.CoarseRows)
	if err != nil {
		return failResult("capture_and_describe_screen", args, start, "%v", err), nil
	}
	cols, err := intArg(args, "grid_cols", false, t.config.ComputerUse.CoarseCols)
	if err != nil {
		return failResult("capture_and_describe_screen", args, start, "%v", err), nil
	}

	data, table, path, err := t.screen.CaptureIndexed(ctx)
	if err != nil {
		return failResult("capture_and_describe_screen", args, start, "%v", err), nil
	}

	summary, err := t.summarizer.Summarize(ctx, data, table, taskHint, rows, cols)
	if err != nil {
		return failResult("capture_and_describe_screen", args, start, "%v", err), nil
	}

	result := okResult("capture_and_describe_screen", args, start, summary)
	result.Images = []domain.ImageAttachment{{
		Data:        base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
		DisplayName: path,
	}}
	return result, nil
}

// Validate checks if the tool arguments are valid
func (t *CaptureDescribeTool) Validate(args map[string]any) error {
	if _, err := stringArg(args, "task_hint", false); err != nil {
		return err
	}
	rows, err := intArg(args, "grid_rows", false, 3)
	if err != nil {
		return err
	}
	cols, err := intArg(args, "grid_cols", false, 3)
	if err != nil {
		return err
	}
	if rows <= 0 || cols <= 0 {
		return &domain.ToolArgumentError{Tool: "capture_and_describe_screen", Reason: "grid_rows and grid_cols must be positive"}
	}
	return nil
}

// IsEnabled returns whether this tool is enabled
func (t *CaptureDescribeTool) IsEnabled() bool {
	return t.enabled
}
