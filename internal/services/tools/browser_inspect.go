package tools

import (
	"context"
	"time"

	sdk "github.com/inference-gateway/sdk"

	config "github.com/dodocode/screenpilot/config"
	browser "github.com/dodocode/screenpilot/internal/browser"
	domain "github.com/dodocode/screenpilot/internal/domain"
)

// ListFormElementsTool inventories the form controls on the page.
type ListFormElementsTool struct {
	config  *config.Config
	enabled bool
	driver  *browser.Driver
}

// NewListFormElementsTool creates a new form inventory tool
func NewListFormElementsTool(cfg *config.Config, driver *browser.Driver) *ListFormElementsTool {
	return &ListFormElementsTool{
		config:  cfg,
		enabled: cfg.Browser.Enabled,
		driver:  driver,
	}
}

// Definition returns the tool definition for the LLM
func (t *ListFormElementsTool) Definition() sdk.ChatCompletionTool {
	description := "Lists all form controls on the page (inputs, textareas, selects, submit buttons) with their ids, names, and labels."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "list_form_elements",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

// Execute runs the form inventory tool
func (t *ListFormElementsTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	elements, err := t.driver.ListFormElements()
	if err != nil {
		return failResult("list_form_elements", args, start, "%v", err), nil
	}

	return okResult("list_form_elements", args, start, map[string]any{
		"count":    len(elements),
		"elements": elements,
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *ListFormElementsTool) Validate(args map[string]any) error {
	return nil
}

// IsEnabled returns whether this tool is enabled
func (t *ListFormElementsTool) IsEnabled() bool {
	return t.enabled
}

// ListClickableElementsTool inventories the click targets on the page.
type ListClickableElementsTool struct {
	config  *config.Config
	enabled bool
	driver  *browser.Driver
}

// NewListClickableElementsTool creates a new clickable inventory tool
func NewListClickableElementsTool(cfg *config.Config, driver *browser.Driver) *ListClickableElementsTool {
	return &ListClickableElementsTool{
		config:  cfg,
		enabled: cfg.Browser.Enabled,
		driver:  driver,
	}
}

// Definition returns the tool definition for the LLM
func (t *ListClickableElementsTool) Definition() sdk.ChatCompletionTool {
	description := "Lists all clickable elements on the page (links, buttons, elements with click handlers) with their text and ids."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "list_clickable_elements",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

// Execute runs the clickable inventory tool
func (t *ListClickableElementsTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	elements, err := t.driver.ListClickableElements()
	if err != nil {
		return failResult("list_clickable_elements", args, start, "%v", err), nil
	}

	return okResult("list_clickable_elements", args, start, map[string]any{
		"count":    len(elements),
		"elements": elements,
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *ListClickableElementsTool) Validate(args map[string]any) error {
	return nil
}

// IsEnabled returns whether this tool is enabled
func (t *ListClickableElementsTool) IsEnabled() bool {
	return t.enabled
}
