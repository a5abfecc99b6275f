package tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	sdk "github.com/inference-gateway/sdk"

	config "github.com/dodocode/screenpilot/config"
	browser "github.com/dodocode/screenpilot/internal/browser"
	domain "github.com/dodocode/screenpilot/internal/domain"
)

// maxHTMLLength caps get_page_html output so one tool result cannot flood
// the transcript.
const maxHTMLLength = 100_000

// GetTextTool reads the text content of an element.
type GetTextTool struct {
	config  *config.Config
	enabled bool
	driver  *browser.Driver
}

// NewGetTextTool creates a new text read tool
func NewGetTextTool(cfg *config.Config, driver *browser.Driver) *GetTextTool {
	return &GetTextTool{
		config:  cfg,
		enabled: cfg.Browser.Enabled,
		driver:  driver,
	}
}

// Definition returns the tool definition for the LLM
func (t *GetTextTool) Definition() sdk.ChatCompletionTool {
	description := "Returns the text content of the element located by the given strategy."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "get_text",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"by":       bySchema(),
					"selector": selectorSchema(),
				},
				"required": []string{"by", "selector"},
			},
		},
	}
}

// Execute runs the text read tool
func (t *GetTextTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	loc, err := locatorArgs(args)
	if err != nil {
		return failResult("get_text", args, start, "%v", err), nil
	}

	text, err := t.driver.GetText(loc)
	if err != nil {
		return failResult("get_text", args, start, "%v", err), nil
	}

	return okResult("get_text", args, start, map[string]any{"text": text}), nil
}

// Validate checks if the tool arguments are valid
func (t *GetTextTool) Validate(args map[string]any) error {
	_, err := locatorArgs(args)
	return err
}

// IsEnabled returns whether this tool is enabled
func (t *GetTextTool) IsEnabled() bool {
	return t.enabled
}

// ScrollByTool scrolls the page by pixel deltas.
type ScrollByTool struct {
	config  *config.Config
	enabled bool
	driver  *browser.Driver
}

// NewScrollByTool creates a new scroll tool
func NewScrollByTool(cfg *config.Config, driver *browser.Driver) *ScrollByTool {
	return &ScrollByTool{
		config:  cfg,
		enabled: cfg.Browser.Enabled,
		driver:  driver,
	}
}

// Definition returns the tool definition for the LLM
func (t *ScrollByTool) Definition() sdk.ChatCompletionTool {
	description := "Scrolls the page by the given pixel deltas. Positive y scrolls down."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "scroll_by",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"x": map[string]any{
						"type":        "integer",
						"description": "Horizontal scroll delta in pixels",
						"default":     0,
					},
					"y": map[string]any{
						"type":        "integer",
						"description": "Vertical scroll delta in pixels",
						"default":     500,
					},
				},
			},
		},
	}
}

// Execute runs the scroll tool
func (t *ScrollByTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	dx, err := intArg(args, "x", false, 0)
	if err != nil {
		return failResult("scroll_by", args, start, "%v", err), nil
	}
	dy, err := intArg(args, "y", false, 500)
	if err != nil {
		return failResult("scroll_by", args, start, "%v", err), nil
	}

	if err := t.driver.ScrollBy(dx, dy); err != nil {
		return failResult("scroll_by", args, start, "%v", err), nil
	}

	return okResult("scroll_by", args, start, map[string]any{"x": dx, "y": dy}), nil
}

// Validate checks if the tool arguments are valid
func (t *ScrollByTool) Validate(args map[string]any) error {
	if _, err := intArg(args, "x", false, 0); err != nil {
		return err
	}
	_, err := intArg(args, "y", false, 500)
	return err
}

// IsEnabled returns whether this tool is enabled
func (t *ScrollByTool) IsEnabled() bool {
	return t.enabled
}

// GetPageHTMLTool returns the page source, truncated to a sane length.
type GetPageHTMLTool struct {
	config  *config.Config
	enabled bool
	driver  *browser.Driver
}

// NewGetPageHTMLTool creates a new page source tool
func NewGetPageHTMLTool(cfg *config.Config, driver *browser.Driver) *GetPageHTMLTool {
	return &GetPageHTMLTool{
		config:  cfg,
		enabled: cfg.Browser.Enabled,
		driver:  driver,
	}
}

// Definition returns the tool definition for the LLM
func (t *GetPageHTMLTool) Definition() sdk.ChatCompletionTool {
	description := "Returns the current page HTML source. Long pages are truncated."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "get_page_html",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

// Execute runs the page source tool
func (t *GetPageHTMLTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	html, err := t.driver.HTML()
	if err != nil {
		return failResult("get_page_html", args, start, "%v", err), nil
	}

	truncated := false
	if len(html) > maxHTMLLength {
		html = html[:maxHTMLLength] + fmt.Sprintf("\n<!-- truncated at %d characters -->", maxHTMLLength)
		truncated = true
	}

	return okResult("get_page_html", args, start, map[string]any{
		"html":      html,
		"truncated": truncated,
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *GetPageHTMLTool) Validate(args map[string]any) error {
	return nil
}

// IsEnabled returns whether this tool is enabled
func (t *GetPageHTMLTool) IsEnabled() bool {
	return t.enabled
}

// ScreenshotPageTool captures the browser viewport.
type ScreenshotPageTool struct {
	config  *config.Config
	enabled bool
	driver  *browser.Driver
	screen  *Screen
}

// NewScreenshotPageTool creates a new page screenshot tool. The screen
// session persists the artifact alongside desktop captures.
func NewScreenshotPageTool(cfg *config.Config, driver *browser.Driver, screen *Screen) *ScreenshotPageTool {
	return &ScreenshotPageTool{
		config:  cfg,
		enabled: cfg.Browser.Enabled,
		driver:  driver,
		screen:  screen,
	}
}

// Definition returns the tool definition for the LLM
func (t *ScreenshotPageTool) Definition() sdk.ChatCompletionTool {
	description := "Captures a screenshot of the browser viewport."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "screenshot_page",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

// Execute runs the page screenshot tool
func (t *ScreenshotPageTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	data, err := t.driver.Screenshot()
	if err != nil {
		return failResult("screenshot_page", args, start, "%v", err), nil
	}

	path, err := t.screen.Persist(data, fmt.Sprintf("page_%d.png", time.Now().Unix()))
	if err != nil {
		return failResult("screenshot_page", args, start, "%v", err), nil
	}

	url, _ := t.driver.CurrentURL()
	result := okResult("screenshot_page", args, start, map[string]any{
		"path": path,
		"url":  url,
	})
	result.Images = []domain.ImageAttachment{{
		Data:        base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
		DisplayName: path,
	}}
	return result, nil
}

// Validate checks if the tool arguments are valid
func (t *ScreenshotPageTool) Validate(args map[string]any) error {
	return nil
}

// IsEnabled returns whether this tool is enabled
func (t *ScreenshotPageTool) IsEnabled() bool {
	return t.enabled
}
