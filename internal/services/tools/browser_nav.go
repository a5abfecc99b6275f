package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/inference-gateway/sdk"

	config "github.com/dodocode/screenpilot/config"
	browser "github.com/dodocode/screenpilot/internal/browser"
	domain "github.com/dodocode/screenpilot/internal/domain"
)

func bySchema() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Locator strategy: css, xpath, id, name, or link_text",
		"enum":        []string{"css", "xpath", "id", "name", "link_text"},
	}
}

func selectorSchema() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "The selector used with the chosen locator strategy (selector, xpath, id, name, or exact link text)",
	}
}

// locatorArgs extracts a locator from by/selector arguments.
func locatorArgs(args map[string]any) (browser.Locator, error) {
	by, err := stringArg(args, "by", true)
	if err != nil {
		return browser.Locator{}, err
	}
	selector, err := stringArg(args, "selector", true)
	if err != nil {
		return browser.Locator{}, err
	}

	loc := browser.Locator{By: by, Value: selector}
	if _, err := browser.SelectorFor(loc); err != nil {
		return browser.Locator{}, err
	}
	return loc, nil
}

// GotoURLTool navigates the browser to a URL.
type GotoURLTool struct {
	config  *config.Config
	enabled bool
	driver  *browser.Driver
}

// NewGotoURLTool creates a new navigation tool
func NewGotoURLTool(cfg *config.Config, driver *browser.Driver) *GotoURLTool {
	return &GotoURLTool{
		config:  cfg,
		enabled: cfg.Browser.Enabled,
		driver:  driver,
	}
}

// Definition returns the tool definition for the LLM
func (t *GotoURLTool) Definition() sdk.ChatCompletionTool {
	description := "Navigates the browser to a URL and waits for the page to load."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "goto_url",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "URL to open (http or https)",
					},
				},
				"required": []string{"url"},
			},
		},
	}
}

// Execute runs the navigation tool
func (t *GotoURLTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	url, err := stringArg(args, "url", true)
	if err != nil {
		return failResult("goto_url", args, start, "%v", err), nil
	}

	finalURL, err := t.driver.Goto(url)
	if err != nil {
		return failResult("goto_url", args, start, "%v", err), nil
	}

	title, _ := t.driver.Title()

	return okResult("goto_url", args, start, map[string]any{
		"url":   finalURL,
		"title": title,
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *GotoURLTool) Validate(args map[string]any) error {
	url, err := stringArg(args, "url", true)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("url must start with http:// or https://")
	}
	return nil
}

// IsEnabled returns whether this tool is enabled
func (t *GotoURLTool) IsEnabled() bool {
	return t.enabled
}

// WaitForElementTool waits for an element to appear. A timeout is reported
// as found=false, not as a failure.
type WaitForElementTool struct {
	config  *config.Config
	enabled bool
	driver  *browser.Driver
}

// NewWaitForElementTool creates a new wait tool
func NewWaitForElementTool(cfg *config.Config, driver *browser.Driver) *WaitForElementTool {
	return &WaitForElementTool{
		config:  cfg,
		enabled: cfg.Browser.Enabled,
		driver:  driver,
	}
}

// Definition returns the tool definition for the LLM
func (t *WaitForElementTool) Definition() sdk.ChatCompletionTool {
	description := "Waits for an element to appear on the page. Reports found=false on timeout."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "wait_for_element",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"by":       bySchema(),
					"selector": selectorSchema(),
					"timeout": map[string]any{
						"type":        "integer",
						"description": "Seconds to wait before giving up",
						"default":     10,
					},
				},
				"required": []string{"by", "selector"},
			},
		},
	}
}

// Execute runs the wait tool
func (t *WaitForElementTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	loc, err := locatorArgs(args)
	if err != nil {
		return failResult("wait_for_element", args, start, "%v", err), nil
	}
	timeout, err := intArg(args, "timeout", false, t.config.Browser.DefaultTimeout)
	if err != nil {
		return failResult("wait_for_element", args, start, "%v", err), nil
	}

	found, err := t.driver.WaitFor(loc, timeout)
	if err != nil {
		return failResult("wait_for_element", args, start, "%v", err), nil
	}

	// A timeout is a normal outcome, not a tool failure.
	status := "found"
	if !found {
		status = "timeout"
	}
	return okResult("wait_for_element", args, start, map[string]any{
		"status":          status,
		"found":           found,
		"by":              loc.By,
		"selector":        loc.Value,
		"timeout_seconds": timeout,
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *WaitForElementTool) Validate(args map[string]any) error {
	if _, err := locatorArgs(args); err != nil {
		return err
	}
	timeout, err := intArg(args, "timeout", false, 10)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// IsEnabled returns whether this tool is enabled
func (t *WaitForElementTool) IsEnabled() bool {
	return t.enabled
}
