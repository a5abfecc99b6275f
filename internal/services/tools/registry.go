package tools

import (
	"context"
	"sort"

	sdk "github.com/inference-gateway/sdk"

	config "github.com/dodocode/screenpilot/config"
	browser "github.com/dodocode/screenpilot/internal/browser"
	display "github.com/dodocode/screenpilot/internal/display"
	domain "github.com/dodocode/screenpilot/internal/domain"
	perception "github.com/dodocode/screenpilot/internal/perception"
)

// Registry manages one tool catalog and implements domain.ToolService.
type Registry struct {
	config *config.Config
	tools  map[string]Tool
}

var _ domain.ToolService = (*Registry)(nil)

// NewDesktopRegistry builds the desktop tool catalog around one screen
// session.
func NewDesktopRegistry(cfg *config.Config, provider display.Provider, client domain.DecisionClient) (*Registry, *Screen) {
	screen := NewScreen(provider, cfg)
	rateLimiter := NewRateLimiter(cfg.ComputerUse.RateLimit)
	summarizer := perception.NewSummarizer(client)

	r := &Registry{
		config: cfg,
		tools:  make(map[string]Tool),
	}

	r.register(NewRawScreenshotTool(cfg, screen))
	r.register(NewCaptureDescribeTool(cfg, screen, summarizer))
	r.register(NewClickPositionTool(cfg, rateLimiter, screen))
	r.register(NewClickNumberedCellTool(cfg, rateLimiter, screen))
	r.register(NewMouseMoveTool(cfg, rateLimiter, screen))
	r.register(NewClickCurrentTool(cfg, rateLimiter, screen))
	r.register(NewSendKeysTool(cfg, rateLimiter, screen))
	r.register(NewPressKeyTool(cfg, rateLimiter, screen))
	r.register(NewHotkeyTool(cfg, rateLimiter, screen))
	r.register(NewSleepTool(cfg))

	return r, screen
}

// NewBrowserRegistry builds the browser tool catalog around one page driver.
func NewBrowserRegistry(cfg *config.Config, driver *browser.Driver, client domain.DecisionClient, screen *Screen) *Registry {
	r := &Registry{
		config: cfg,
		tools:  make(map[string]Tool),
	}

	r.register(NewGotoURLTool(cfg, driver))
	r.register(NewWaitForElementTool(cfg, driver))
	r.register(NewClickElementTool(cfg, driver))
	r.register(NewTypeTextTool(cfg, driver))
	r.register(NewGetTextTool(cfg, driver))
	r.register(NewScrollByTool(cfg, driver))
	r.register(NewGetPageHTMLTool(cfg, driver))
	r.register(NewScreenshotPageTool(cfg, driver, screen))
	r.register(NewListFormElementsTool(cfg, driver))
	r.register(NewListClickableElementsTool(cfg, driver))
	r.register(NewSelectOptionTool(cfg, driver))
	r.register(NewSummarizePageTool(cfg, driver, client))
	r.register(NewSleepTool(cfg))

	return r
}

func (r *Registry) register(tool Tool) {
	name := tool.Definition().Function.Name
	r.tools[name] = tool
}

// ListTools returns definitions for all enabled tools, sorted by name so the
// catalog is stable across runs.
func (r *Registry) ListTools() []sdk.ChatCompletionTool {
	var definitions []sdk.ChatCompletionTool
	for _, tool := range r.tools {
		if tool.IsEnabled() {
			definitions = append(definitions, tool.Definition())
		}
	}
	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Function.Name < definitions[j].Function.Name
	})
	return definitions
}

// ListAvailableTools returns names of all enabled tools, sorted.
func (r *Registry) ListAvailableTools() []string {
	var names []string
	for name, tool := range r.tools {
		if tool.IsEnabled() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ExecuteTool runs a tool by name. An unknown or disabled tool is a Go
// error; a failed execution is a result with Success=false.
func (r *Registry) ExecuteTool(ctx context.Context, name string, args map[string]any) (*domain.ToolExecutionResult, error) {
	tool, exists := r.tools[name]
	if !exists || !tool.IsEnabled() {
		return nil, &domain.ToolNotFoundError{Name: name}
	}
	return tool.Execute(ctx, args)
}

// IsToolEnabled checks if a specific tool is enabled
func (r *Registry) IsToolEnabled(name string) bool {
	tool, exists := r.tools[name]
	return exists && tool.IsEnabled()
}

// ValidateTool checks tool arguments without executing.
func (r *Registry) ValidateTool(name string, args map[string]any) error {
	tool, exists := r.tools[name]
	if !exists || !tool.IsEnabled() {
		return &domain.ToolNotFoundError{Name: name}
	}
	return tool.Validate(args)
}
