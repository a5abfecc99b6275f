package tools

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/inference-gateway/sdk"

	config "github.com/dodocode/screenpilot/config"
	browser "github.com/dodocode/screenpilot/internal/browser"
	domain "github.com/dodocode/screenpilot/internal/domain"
)

// ClickElementTool clicks a page element located by strategy and value.
type ClickElementTool struct {
	config  *config.Config
	enabled bool
	driver  *browser.Driver
}

// NewClickElementTool creates a new element click tool
func NewClickElementTool(cfg *config.Config, driver *browser.Driver) *ClickElementTool {
	return &ClickElementTool{
		config:  cfg,
		enabled: cfg.Browser.Enabled,
		driver:  driver,
	}
}

// Definition returns the tool definition for the LLM
func (t *ClickElementTool) Definition() sdk.ChatCompletionTool {
	description := "Clicks a page element located by the given strategy."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "click_element",
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

// Execute runs the element click tool
func (t *ClickElementTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	loc, err := locatorArgs(args)
	if err != nil {
		return failResult("click_element", args, start, "%v", err), nil
	}

	if err := t.driver.Click(loc); err != nil {
		return failResult("click_element", args, start, "%v", err), nil
	}

	url, _ := t.driver.CurrentURL()
	return okResult("click_element", args, start, map[string]any{
		"clicked":  true,
		"by":       loc.By,
		"selector": loc.Value,
		"url":      url,
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *ClickElementTool) Validate(args map[string]any) error {
	_, err := locatorArgs(args)
	return err
}

// IsEnabled returns whether this tool is enabled
func (t *ClickElementTool) IsEnabled() bool {
	return t.enabled
}

// TypeTextTool fills an input element, optionally submitting with Enter.
type TypeTextTool struct {
	config  *config.Config
	enabled bool
	driver  *browser.Driver
}

// NewTypeTextTool creates a new input fill tool
func NewTypeTextTool(cfg *config.Config, driver *browser.Driver) *TypeTextTool {
	return &TypeTextTool{
		config:  cfg,
		enabled: cfg.Browser.Enabled,
		driver:  driver,
	}
}

// Definition returns the tool definition for the LLM
func (t *TypeTextTool) Definition() sdk.ChatCompletionTool {
	description := "Clears an input element and types text into it. Set submit=true to press Enter afterwards."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "type_text",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"by":       bySchema(),
					"selector": selectorSchema(),
					"text": map[string]any{
						"type":        "string",
						"description": "Text to type into the element",
					},
					"submit": map[string]any{
						"type":        "boolean",
						"description": "Press Enter after typing",
						"default":     false,
					},
				},
				"required": []string{"by", "selector", "text"},
			},
		},
	}
}

// Execute runs the input fill tool
func (t *TypeTextTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	loc, err := locatorArgs(args)
	if err != nil {
		return failResult("type_text", args, start, "%v", err), nil
	}
	text, err := stringArg(args, "text", true)
	if err != nil {
		return failResult("type_text", args, start, "%v", err), nil
	}
	submit, err := boolArg(args, "submit", false)
	if err != nil {
		return failResult("type_text", args, start, "%v", err), nil
	}

	if err := t.driver.Type(loc, text, submit); err != nil {
		return failResult("type_text", args, start, "%v", err), nil
	}

	return okResult("type_text", args, start, map[string]any{
		"typed_chars": len([]rune(text)),
		"submitted":   submit,
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *TypeTextTool) Validate(args map[string]any) error {
	if _, err := locatorArgs(args); err != nil {
		return err
	}
	if _, err := stringArg(args, "text", true); err != nil {
		return err
	}
	_, err := boolArg(args, "submit", false)
	return err
}

// IsEnabled returns whether this tool is enabled
func (t *TypeTextTool) IsEnabled() bool {
	return t.enabled
}

// SelectOptionTool picks an option in a select element.
type SelectOptionTool struct {
	config  *config.Config
	enabled bool
	driver  *browser.Driver
}

// NewSelectOptionTool creates a new select option tool
func NewSelectOptionTool(cfg *config.Config, driver *browser.Driver) *SelectOptionTool {
	return &SelectOptionTool{
		config:  cfg,
		enabled: cfg.Browser.Enabled,
		driver:  driver,
	}
}

// Definition returns the tool definition for the LLM
func (t *SelectOptionTool) Definition() sdk.ChatCompletionTool {
	description := "Selects an option in a <select> element by visible text, value, index, or at random."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "select_option",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"by":       bySchema(),
					"selector": selectorSchema(),
					"visible_text": map[string]any{
						"type":        "string",
						"description": "Exact visible text of the option to select",
					},
					"value": map[string]any{
						"type":        "string",
						"description": "Value attribute of the option to select",
					},
					"index": map[string]any{
						"type":        "integer",
						"description": "Zero-based index of the option to select",
					},
					"random_option": map[string]any{
						"type":        "boolean",
						"description": "Select a random non-placeholder option",
						"default":     false,
					},
				},
				"required": []string{"by", "selector"},
			},
		},
	}
}

// selectSpec extracts the selection criterion from arguments.
func selectSpec(args map[string]any) (browser.SelectSpec, error) {
	spec := browser.SelectSpec{}

	text, err := stringArg(args, "visible_text", false)
	if err != nil {
		return spec, err
	}
	spec.VisibleText = text

	optValue, err := stringArg(args, "value", false)
	if err != nil {
		return spec, err
	}
	spec.Value = optValue

	if _, exists := args["index"]; exists {
		idx, err := intArg(args, "index", false, 0)
		if err != nil {
			return spec, err
		}
		spec.Index = &idx
	}

	random, err := boolArg(args, "random_option", false)
	if err != nil {
		return spec, err
	}
	spec.RandomOption = random

	criteria := 0
	if spec.VisibleText != "" {
		criteria++
	}
	if spec.Value != "" {
		criteria++
	}
	if spec.Index != nil {
		criteria++
	}
	if spec.RandomOption {
		criteria++
	}
	if criteria != 1 {
		return spec, fmt.Errorf("exactly one of visible_text, value, index, or random_option is required")
	}

	return spec, nil
}

// Execute runs the select option tool
func (t *SelectOptionTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	loc, err := locatorArgs(args)
	if err != nil {
		return failResult("select_option", args, start, "%v", err), nil
	}
	spec, err := selectSpec(args)
	if err != nil {
		return failResult("select_option", args, start, "%v", err), nil
	}

	result, err := t.driver.SelectOption(loc, spec)
	if err != nil {
		return failResult("select_option", args, start, "%v", err), nil
	}

	return okResult("select_option", args, start, result), nil
}

// Validate checks if the tool arguments are valid
func (t *SelectOptionTool) Validate(args map[string]any) error {
	if _, err := locatorArgs(args); err != nil {
		return err
	}
	_, err := selectSpec(args)
	return err
}

// IsEnabled returns whether this tool is enabled
func (t *SelectOptionTool) IsEnabled() bool {
	return t.enabled
}
