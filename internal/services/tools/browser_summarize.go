package tools

import (
	"context"
	"time"

	sdk "github.com/inference-gateway/sdk"

	config "github.com/dodocode/screenpilot/config"
	browser "github.com/dodocode/screenpilot/internal/browser"
	domain "github.com/dodocode/screenpilot/internal/domain"
)

// maxSummaryHTMLLength caps how much page source is sent to the summarizer.
const maxSummaryHTMLLength = 40_000

const pageSummarySystemPrompt = `You are a web page analysis assistant. You are given the HTML source of a
page. Summarize it for an automation agent as JSON with these keys:
  "summary": what the page is and what state it is in
  "actions": array of actions the agent could take next, each with
             "description" and a locator ("by" and "selector") when one exists
  "forms": array of forms with their fields
Reply with the JSON only.`

// SummarizePageTool condenses the current page for the agent through the
// summarizer model, so the main transcript never carries raw HTML.
type SummarizePageTool struct {
	config  *config.Config
	enabled bool
	driver  *browser.Driver
	client  domain.DecisionClient
}

// NewSummarizePageTool creates a new page summary tool
func NewSummarizePageTool(cfg *config.Config, driver *browser.Driver, client domain.DecisionClient) *SummarizePageTool {
	return &SummarizePageTool{
		config:  cfg,
		enabled: cfg.Browser.Enabled,
		driver:  driver,
		client:  client,
	}
}

// Definition returns the tool definition for the LLM
func (t *SummarizePageTool) Definition() sdk.ChatCompletionTool {
	description := "Summarizes the current page for the agent: what it shows, available actions, and form fields. " +
		"Prefer this over get_page_html on complex pages."
	return sdk.ChatCompletionTool{
		Type: sdk.Function,
		Function: sdk.FunctionObject{
			Name:        "summarize_page_for_agent",
			Description: &description,
			Parameters: &sdk.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"task_hint": map[string]any{
						"type":        "string",
						"description": "Optional hint about what the agent is trying to do",
					},
				},
			},
		},
	}
}

// Execute runs the page summary tool
func (t *SummarizePageTool) Execute(ctx context.Context, args map[string]any) (*domain.ToolExecutionResult, error) {
	start := time.Now()

	taskHint, err := stringArg(args, "task_hint", false)
	if err != nil {
		return failResult("summarize_page_for_agent", args, start, "%v", err), nil
	}

	html, err := t.driver.HTML()
	if err != nil {
		return failResult("summarize_page_for_agent", args, start, "%v", err), nil
	}
	if len(html) > maxSummaryHTMLLength {
		html = html[:maxSummaryHTMLLength]
	}

	url, _ := t.driver.CurrentURL()
	title, _ := t.driver.Title()

	userPrompt := "URL: " + url + "\nTitle: " + title + "\n\n" + html
	if taskHint != "" {
		userPrompt = "Task: " + taskHint + "\n" + userPrompt
	}

	summary, err := t.client.Describe(ctx, pageSummarySystemPrompt, userPrompt, "")
	if err != nil {
		return failResult("summarize_page_for_agent", args, start, "%v", err), nil
	}

	return okResult("summarize_page_for_agent", args, start, map[string]any{
		"url":     url,
		"title":   title,
		"summary": summary,
	}), nil
}

// Validate checks if the tool arguments are valid
func (t *SummarizePageTool) Validate(args map[string]any) error {
	_, err := stringArg(args, "task_hint", false)
	return err
}

// IsEnabled returns whether this tool is enabled
func (t *SummarizePageTool) IsEnabled() bool {
	return t.enabled
}
