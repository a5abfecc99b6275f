package tools

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/inference-gateway/sdk"

	config "github.com/dodocode/screenpilot/config"
	display "github.com/dodocode/screenpilot/internal/display"
	domain "github.com/dodocode/screenpilot/internal/domain"
)

func buttonSchema() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Mouse button to click",
		"enum":        []string{"left", "middle", "right"},
		"default":     "left",
	}
}

func clicksSchema() map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": "Number of clicks (1 for single, 2 for double)",
		"default":     1,
	}
}

func clickArgs(args map[string]any) (button string, clicks int, err error) {
	button, err = stringArg(args, "button", false)
	if err != nil {
		return "", 0, err
	}
	if button == "" {
		button = "left"
	}
	if button != "left" && button != "middle" && button != "right" {
		return "", 0, fmt.Errorf("button must be left, middle, or right")
	}

	clicks, err = intArg(args, "clicks", false, 1)
	if err != nil {
		return "", 0, err
	}
	if clicks < 1 || clicks > 3 {
		return "", 0, fmt.Errorf("clicks must be between 1 and 3")
	}
	return button, clicks, nil
}

// MouseMoveTool moves the mouse cursor to absolute screen coordinates.
type MouseMoveTool struct {
	config      *config.Config
	enabled     bool
	rateLimiter domain.RateLimiter
	screen      *Screen
}

// NewMouseMoveTool creates a new mouse move tool
func NewMouseMoveTool(cfg *config.Config, rateLimiter domain.RateLimiter, screen *Screen) *MouseMoveTool {
	return &MouseMoveTool{
		config:      cfg,
		enabled:     cfg.ComputerUse.Enabled,
		rateLimiter: rateLimiter,
		screen:      screen,
	}
}

// Definition returns the tool definition for the LLM
func (t *MouseMoveTool) Definition() sdk.ChatCompletionTool {
	description := "Moves the mouse cursor to absolute screen coordinates without clicking."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "move_mouse",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"x": map[string]any{
						"type":        "integer",
						"description": "X coordinate (pixels from the left edge)",
					},
					"y": map[string]any{
						"type":        "integer",
						"description": "Y coordinate (pixels from the top edge)",
					},
				},
				"required": []string{"x", "y"},
			},
		},
	}
}

// Execute runs the mouse move tool
func (t *MouseMoveTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	if err := t.rateLimiter.CheckAndRecord("move_mouse"); err != nil {
		return failResult("move_mouse", args, start, "%v", err), nil
	}

	x, err := intArg(args, "x", true, 0)
	if err != nil {
		return failResult("move_mouse", args, start, "%v", err), nil
	}
	y, err := intArg(args, "y", true, 0)
	if err != nil {
		return failResult("move_mouse", args, start, "%v", err), nil
	}

	controller, err := t.screen.Controller()
	if err != nil {
		return failResult("move_mouse", args, start, "%v", err), nil
	}

	fromX, fromY, _ := controller.GetCursorPosition(ctx)

	if err := controller.MoveMouse(ctx, x, y); err != nil {
		return failResult("move_mouse", args, start, "failed to move mouse: %v", err), nil
	}

	return okResult("move_mouse", args, start, domain.MouseMoveToolResult{
		FromX:  fromX,
		FromY:  fromY,
		ToX:    x,
		ToY:    y,
		Method: t.screen.Method(),
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *MouseMoveTool) Validate(args map[string]any) error {
	x, err := intArg(args, "x", true, 0)
	if err != nil {
		return err
	}
	y, err := intArg(args, "y", true, 0)
	if err != nil {
		return err
	}
	if x < 0 || y < 0 {
		return fmt.Errorf("coordinates must be >= 0")
	}
	return nil
}

// IsEnabled returns whether this tool is enabled
func (t *MouseMoveTool) IsEnabled() bool {
	return t.enabled
}

// ClickPositionTool moves to absolute coordinates and clicks there.
type ClickPositionTool struct {
	config      *config.Config
	enabled     bool
	rateLimiter domain.RateLimiter
	screen      *Screen
}

// NewClickPositionTool creates a new click-at-position tool
func NewClickPositionTool(cfg *config.Config, rateLimiter domain.RateLimiter, screen *Screen) *ClickPositionTool {
	return &ClickPositionTool{
		config:      cfg,
		enabled:     cfg.ComputerUse.Enabled,
		rateLimiter: rateLimiter,
		screen:      screen,
	}
}

// Definition returns the tool definition for the LLM
func (t *ClickPositionTool) Definition() sdk.ChatCompletionTool {
	description := "Moves the mouse to absolute screen coordinates and clicks there."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "click_position",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"x": map[string]any{
						"type":        "integer",
						"description": "X coordinate (pixels from the left edge)",
					},
					"y": map[string]any{
						"type":        "integer",
						"description": "Y coordinate (pixels from the top edge)",
					},
					"button": buttonSchema(),
					"clicks": clicksSchema(),
				},
				"required": []string{"x", "y"},
			},
		},
	}
}

// Execute runs the click-at-position tool
func (t *ClickPositionTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	if err := t.rateLimiter.CheckAndRecord("click_position"); err != nil {
		return failResult("click_position", args, start, "%v", err), nil
	}

	x, err := intArg(args, "x", true, 0)
	if err != nil {
		return failResult("click_position", args, start, "%v", err), nil
	}
	y, err := intArg(args, "y", true, 0)
	if err != nil {
		return failResult("click_position", args, start, "%v", err), nil
	}
	button, clicks, err := clickArgs(args)
	if err != nil {
		return failResult("click_position", args, start, "%v", err), nil
	}

	controller, err := t.screen.Controller()
	if err != nil {
		return failResult("click_position", args, start, "%v", err), nil
	}

	if err := controller.MoveMouse(ctx, x, y); err != nil {
		return failResult("click_position", args, start, "failed to move mouse: %v", err), nil
	}
	if err := controller.ClickMouse(ctx, display.ParseMouseButton(button), clicks); err != nil {
		return failResult("click_position", args, start, "failed to click: %v", err), nil
	}

	return okResult("click_position", args, start, domain.ClickToolResult{
		Action: "click_position",
		X:      x,
		Y:      y,
		Button: button,
		Clicks: clicks,
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *ClickPositionTool) Validate(args map[string]any) error {
	if _, err := intArg(args, "x", true, 0); err != nil {
		return err
	}
	if _, err := intArg(args, "y", true, 0); err != nil {
		return err
	}
	_, _, err := clickArgs(args)
	return err
}

// IsEnabled returns whether this tool is enabled
func (t *ClickPositionTool) IsEnabled() bool {
	return t.enabled
}

// ClickNumberedCellTool clicks the center of a numbered grid cell from the
// most recent indexed capture.
type ClickNumberedCellTool struct {
	config      *config.Config
	enabled     bool
	rateLimiter domain.RateLimiter
	screen      *Screen
}

// NewClickNumberedCellTool creates a new numbered-cell click tool
func NewClickNumberedCellTool(cfg *config.Config, rateLimiter domain.RateLimiter, screen *Screen) *ClickNumberedCellTool {
	return &ClickNumberedCellTool{
		config:      cfg,
		enabled:     cfg.ComputerUse.Enabled,
		rateLimiter: rateLimiter,
		screen:      screen,
	}
}

// Definition returns the tool definition for the LLM
func (t *ClickNumberedCellTool) Definition() sdk.ChatCompletionTool {
	description := "Clicks the center of a numbered grid cell from the most recent capture_and_describe_screen. " +
		"Cell numbers are only valid for the capture they were shown with."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "click_numbered_cell",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"index": map[string]any{
						"type":        "integer",
						"description": "Grid cell number to click",
					},
					"button": buttonSchema(),
					"clicks": clicksSchema(),
				},
				"required": []string{"index"},
			},
		},
	}
}

// Execute runs the numbered-cell click tool
func (t *ClickNumberedCellTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	if err := t.rateLimiter.CheckAndRecord("click_numbered_cell"); err != nil {
		return failResult("click_numbered_cell", args, start, "%v", err), nil
	}

	index, err := intArg(args, "index", true, 0)
	if err != nil {
		return failResult("click_numbered_cell", args, start, "%v", err), nil
	}
	button, clicks, err := clickArgs(args)
	if err != nil {
		return failResult("click_numbered_cell", args, start, "%v", err), nil
	}

	table, err := t.screen.Table()
	if err != nil {
		return failResult("click_numbered_cell", args, start, "%v", err), nil
	}

	x, y, err := table.IndexToPixel(index)
	if err != nil {
		return failResult("click_numbered_cell", args, start, "%v", err), nil
	}

	controller, err := t.screen.Controller()
	if err != nil {
		return failResult("click_numbered_cell", args, start, "%v", err), nil
	}

	if err := controller.MoveMouse(ctx, x, y); err != nil {
		return failResult("click_numbered_cell", args, start, "failed to move mouse: %v", err), nil
	}
	if err := controller.ClickMouse(ctx, display.ParseMouseButton(button), clicks); err != nil {
		return failResult("click_numbered_cell", args, start, "failed to click: %v", err), nil
	}

	return okResult("click_numbered_cell", args, start, domain.ClickToolResult{
		Action: "click_numbered_cell",
		X:      x,
		Y:      y,
		Button: button,
		Clicks: clicks,
		Index:  &index,
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *ClickNumberedCellTool) Validate(args map[string]any) error {
	index, err := intArg(args, "index", true, 0)
	if err != nil {
		return err
	}
	if index < 0 {
		return fmt.Errorf("index must be >= 0")
	}
	_, _, err = clickArgs(args)
	return err
}

// IsEnabled returns whether this tool is enabled
func (t *ClickNumberedCellTool) IsEnabled() bool {
	return t.enabled
}

// ClickCurrentTool clicks at the current cursor position without moving.
type ClickCurrentTool struct {
	config      *config.Config
	enabled     bool
	rateLimiter domain.RateLimiter
	screen      *Screen
}

// NewClickCurrentTool creates a new click-in-place tool
func NewClickCurrentTool(cfg *config.Config, rateLimiter domain.RateLimiter, screen *Screen) *ClickCurrentTool {
	return &ClickCurrentTool{
		config:      cfg,
		enabled:     cfg.ComputerUse.Enabled,
		rateLimiter: rateLimiter,
		screen:      screen,
	}
}

// Definition returns the tool definition for the LLM
func (t *ClickCurrentTool) Definition() sdk.ChatCompletionTool {
	description := "Clicks at the current cursor position without moving the mouse."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "click_current",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"button": buttonSchema(),
					"clicks": clicksSchema(),
				},
			},
		},
	}
}

// Execute runs the click-in-place tool
func (t *ClickCurrentTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	if err := t.rateLimiter.CheckAndRecord("click_current"); err != nil {
		return failResult("click_current", args, start, "%v", err), nil
	}

	button, clicks, err := clickArgs(args)
	if err != nil {
		return failResult("click_current", args, start, "%v", err), nil
	}

	controller, err := t.screen.Controller()
	if err != nil {
		return failResult("click_current", args, start, "%v", err), nil
	}

	x, y, _ := controller.GetCursorPosition(ctx)

	if err := controller.ClickMouse(ctx, display.ParseMouseButton(button), clicks); err != nil {
		return failResult("click_current", args, start, "failed to click: %v", err), nil
	}

	return okResult("click_current", args, start, domain.ClickToolResult{
		Action: "click_current",
		X:      x,
		Y:      y,
		Button: button,
		Clicks: clicks,
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *ClickCurrentTool) Validate(args map[string]any) error {
	_, _, err := clickArgs(args)
	return err
}

// IsEnabled returns whether this tool is enabled
func (t *ClickCurrentTool) IsEnabled() bool {
	return t.enabled
}
