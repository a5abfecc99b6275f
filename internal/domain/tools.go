package domain

import (
	"context"
	"time"

	sdk "github.com/inference-gateway/sdk"
)

// ToolService handles tool execution for one driver family.
type ToolService interface {
	ListTools() []sdk.ChatCompletionTool
	ListAvailableTools() []string
	ExecuteTool(ctx context.Context, name string, args map[string]any) (*ToolExecutionResult, error)
	IsToolEnabled(name string) bool
	ValidateTool(name string, args map[string]any) error
}

// ToolExecutionResult captures one tool invocation. Failures are data: Success
// is false and Error holds the message, but the call itself returns a nil Go
// error so the loop can feed the failure back to the model.
type ToolExecutionResult struct {
	ToolName  string            `json:"tool_name"`
	Arguments map[string]any    `json:"arguments"`
	Success   bool              `json:"success"`
	Duration  time.Duration     `json:"duration"`
	Error     string            `json:"error,omitempty"`
	Data      any               `json:"data,omitempty"`
	Images    []ImageAttachment `json:"-"`
}

// ImageAttachment is a captured image riding along with a tool result.
type ImageAttachment struct {
	Data        string `json:"data"`
	MimeType    string `json:"mime_type"`
	DisplayName string `json:"display_name"`
}

// ScreenRegion is a rectangular screen area in pixels.
type ScreenRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ScreenshotToolResult describes a completed screen capture.
type ScreenshotToolResult struct {
	Path    string        `json:"path"`
	Display string        `json:"display"`
	Region  *ScreenRegion `json:"region,omitempty"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Format  string        `json:"format"`
	Method  string        `json:"method"`
}

// MouseMoveToolResult describes a completed cursor move.
type MouseMoveToolResult struct {
	FromX  int    `json:"from_x"`
	FromY  int    `json:"from_y"`
	ToX    int    `json:"to_x"`
	ToY    int    `json:"to_y"`
	Method string `json:"method"`
}

// ClickToolResult describes a completed click.
type ClickToolResult struct {
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Button string `json:"button"`
	Clicks int    `json:"clicks"`
	Index  *int   `json:"index,omitempty"`
}

// RateLimiter bounds how fast input-driver actions may fire.
type RateLimiter interface {
	CheckAndRecord(toolName string) error
}
