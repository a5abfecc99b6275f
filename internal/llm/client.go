// Package llm implements the decision collaborator over the inference
// gateway SDK.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/inference-gateway/sdk"

	domain "github.com/dodocode/screenpilot/internal/domain"
	logger "github.com/dodocode/screenpilot/internal/logger"
)

// Client talks to the inference gateway. The main model drives the agent
// loop; the summarizer model answers one-shot vision prompts.
type Client struct {
	client          sdk.Client
	model           string
	summarizerModel string
	maxTokens       int
	timeout         time.Duration
}

var _ domain.DecisionClient = (*Client)(nil)

// Options configures the decision client.
type Options struct {
	BaseURL         string
	APIKey          string
	Model           string
	SummarizerModel string
	MaxTokens       int
	TimeoutSeconds  int
}

// NewClient creates a decision client for the gateway at baseURL.
func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
	}

	summarizer := opts.SummarizerModel
	if summarizer == "" {
		summarizer = opts.Model
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	timeout := time.Duration(opts.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		client: sdk.NewClient(&sdk.ClientOptions{
			BaseURL: baseURL,
			APIKey:  opts.APIKey,
		}),
		model:           opts.Model,
		summarizerModel: summarizer,
		maxTokens:       maxTokens,
		timeout:         timeout,
	}
}

// parseProvider splits a "provider/model" string.
func parseProvider(model string) (sdk.Provider, string, error) {
	slashIndex := strings.Index(model, "/")
	if slashIndex == -1 {
		return "", "", fmt.Errorf("invalid model format %q, expected 'provider/model'", model)
	}
	return sdk.Provider(model[:slashIndex]), model[slashIndex+1:], nil
}

// Decide asks the main model for the next action given the transcript.
func (c *Client) Decide(ctx context.Context, messages []sdk.Message, tools []sdk.ChatCompletionTool) (*domain.Decision, error) {
	provider, modelName, err := parseProvider(c.model)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client := c.client.WithOptions(&sdk.CreateChatCompletionRequest{
		MaxTokens: &c.maxTokens,
	})
	if len(tools) > 0 {
		client = client.WithTools(&tools)
	}

	response, err := client.GenerateContent(timeoutCtx, provider, modelName, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate decision: %w", err)
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("decision response contained no choices")
	}

	message := response.Choices[0].Message
	decision := &domain.Decision{Content: message.Content}
	if message.ToolCalls != nil {
		decision.ToolCalls = *message.ToolCalls
	}

	logger.Debug("Decision received", "model", c.model,
		"tool_calls", len(decision.ToolCalls), "content_len", len(decision.Content))
	return decision, nil
}

// Describe asks the summarizer model one question about a PNG image. The
// image travels as a data URL inside the user message, outside the main
// transcript.
func (c *Client) Describe(ctx context.Context, systemPrompt, userPrompt, imageB64PNG string) (string, error) {
	provider, modelName, err := parseProvider(c.summarizerModel)
	if err != nil {
		return "", err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	content := userPrompt
	if imageB64PNG != "" {
		content = fmt.Sprintf("%s\n\ndata:image/png;base64,%s", userPrompt, imageB64PNG)
	}

	messages := []sdk.Message{
		{Role: sdk.System, Content: systemPrompt},
		{Role: sdk.User, Content: content},
	}

	response, err := c.client.
		WithOptions(&sdk.CreateChatCompletionRequest{
			MaxTokens: &c.maxTokens,
		}).
		GenerateContent(timeoutCtx, provider, modelName, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate description: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("description response contained no choices")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
