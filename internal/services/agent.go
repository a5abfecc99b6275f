package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	sdk "github.com/inference-gateway/sdk"

	config "github.com/dodocode/screenpilot/config"
	domain "github.com/dodocode/screenpilot/internal/domain"
	logger "github.com/dodocode/screenpilot/internal/logger"
)

// defaultSystemPrompt seeds the transcript when no system prompt is
// configured. It teaches the model the capture-then-click workflow and the
// ask-user protocol.
const defaultSystemPrompt = `You are a screen automation agent. You control the machine only through the
tools you are given; you cannot see anything you have not captured.

Workflow:
1. Capture the screen (capture_and_describe_screen) or inspect the page before acting.
2. Act through tools. Cell numbers are only valid for the capture they came with,
   so re-capture after anything changes.
3. When a tool reports success=false, read the error and adjust; do not repeat
   the identical call.

If you need one piece of information only the human has (a password, an
ambiguous choice), reply with a message starting with [ASK_USER] followed by
your question, and nothing else. When the task is done, reply with a plain
summary of what you did.`

// Agent runs the decision loop for one task: decide, execute tools, feed
// results back, until the model answers in prose or the turn budget runs out.
type Agent struct {
	config   *config.Config
	client   domain.DecisionClient
	services []domain.ToolService
	asker    domain.Asker
	store    domain.ConversationStore
}

// NewAgent creates an agent over one or more tool catalogs. The store may be
// nil when transcript persistence is disabled.
func NewAgent(cfg *config.Config, client domain.DecisionClient, asker domain.Asker, store domain.ConversationStore, services ...domain.ToolService) *Agent {
	return &Agent{
		config:   cfg,
		client:   client,
		services: services,
		asker:    asker,
		store:    store,
	}
}

// Tools returns the merged catalog across all tool services.
func (a *Agent) Tools() []sdk.ChatCompletionTool {
	var tools []sdk.ChatCompletionTool
	for _, svc := range a.services {
		tools = append(tools, svc.ListTools()...)
	}
	return tools
}

// RunTask drives one task to a terminal state. Tool failures stay inside the
// loop as data; only infrastructure failures (gateway unreachable, store
// broken) surface as a Go error.
func (a *Agent) RunTask(ctx context.Context, task string) (*domain.TaskResult, error) {
	taskID := uuid.New().String()
	start := time.Now()

	systemPrompt := a.config.Agent.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	var entries []domain.ConversationEntry
	record := func(msg sdk.Message) {
		entries = append(entries, domain.ConversationEntry{Message: msg, Time: time.Now()})
	}

	messages := []sdk.Message{
		{Role: sdk.System, Content: systemPrompt},
		{Role: sdk.User, Content: task},
	}
	for _, msg := range messages {
		record(msg)
	}

	tools := a.Tools()
	logger.Info("Task started", "task_id", taskID, "tools", len(tools), "max_turns", a.config.Agent.MaxTurns)

	finish := func(status domain.TaskStatus, message string, turns int) (*domain.TaskResult, error) {
		result := &domain.TaskResult{
			TaskID:   taskID,
			Status:   status,
			Message:  message,
			Turns:    turns,
			Duration: time.Since(start),
		}
		logger.Info("Task finished", "task_id", taskID, "status", status, "turns", turns)
		if a.store != nil {
			// The run context may already be cancelled; the transcript
			// should still be saved.
			saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := a.store.SaveTask(saveCtx, taskID, task, entries, result); err != nil {
				logger.Error("Failed to save transcript", "task_id", taskID, "error", err)
			}
		}
		return result, nil
	}

	lastContent := ""
	for turn := 1; turn <= a.config.Agent.MaxTurns; turn++ {
		if ctx.Err() != nil {
			return finish(domain.StatusCancelled, "task cancelled", turn-1)
		}

		decision, err := a.client.Decide(ctx, messages, tools)
		if err != nil {
			if ctx.Err() != nil {
				return finish(domain.StatusCancelled, "task cancelled", turn-1)
			}
			return nil, fmt.Errorf("decision request failed on turn %d: %w", turn, err)
		}

		if len(decision.ToolCalls) > 0 {
			assistant := sdk.Message{
				Role:      sdk.Assistant,
				Content:   decision.Content,
				ToolCalls: &decision.ToolCalls,
			}
			messages = append(messages, assistant)
			record(assistant)

			for _, call := range decision.ToolCalls {
				toolMsg := a.runToolCall(ctx, call)
				messages = append(messages, toolMsg)
				record(toolMsg)
			}
			continue
		}

		content := strings.TrimSpace(decision.Content)
		assistant := sdk.Message{Role: sdk.Assistant, Content: decision.Content}
		messages = append(messages, assistant)
		record(assistant)
		lastContent = content

		if strings.HasPrefix(content, domain.AskSentinel) {
			question := strings.TrimSpace(strings.TrimPrefix(content, domain.AskSentinel))
			if a.asker == nil {
				return finish(domain.StatusCancelled, "agent asked for input but no input channel is attached: "+question, turn)
			}

			reply, err := a.asker.Ask(question)
			if err != nil {
				return finish(domain.StatusCancelled, "task cancelled while waiting for input", turn)
			}

			userMsg := sdk.Message{Role: sdk.User, Content: reply}
			messages = append(messages, userMsg)
			record(userMsg)
			continue
		}

		return finish(domain.StatusCompleted, content, turn)
	}

	message := "turn budget exhausted"
	if lastContent != "" {
		message = lastContent
	}
	return finish(domain.StatusBudgetExceeded, message, a.config.Agent.MaxTurns)
}

// runToolCall executes one tool call and renders the outcome as the tool
// message. Everything that goes wrong here, including an unknown tool or
// unparseable arguments, comes back as data for the model to read.
func (a *Agent) runToolCall(ctx context.Context, call sdk.ChatCompletionMessageToolCall) sdk.Message {
	name := call.Function.Name

	var args map[string]any
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return a.toolMessage(call, toolPayload{
				Status: "error",
				Error:  fmt.Sprintf("invalid tool arguments: %v", err),
			})
		}
	}

	svc := a.serviceFor(name)
	if svc == nil {
		return a.toolMessage(call, toolPayload{
			Status: "error",
			Error:  (&domain.ToolNotFoundError{Name: name}).Error(),
		})
	}

	logger.Debug("Executing tool", "tool", name)
	result, err := svc.ExecuteTool(ctx, name, args)
	if err != nil {
		return a.toolMessage(call, toolPayload{Status: "error", Error: err.Error()})
	}

	payload := toolPayload{
		Status:     "ok",
		Data:       result.Data,
		DurationMs: result.Duration.Milliseconds(),
	}
	if !result.Success {
		payload.Status = "error"
		payload.Error = result.Error
	}
	for _, img := range result.Images {
		payload.Images = append(payload.Images, img.DisplayName)
	}
	return a.toolMessage(call, payload)
}

func (a *Agent) serviceFor(name string) domain.ToolService {
	for _, svc := range a.services {
		if svc.IsToolEnabled(name) {
			return svc
		}
	}
	return nil
}

// toolPayload is the JSON shape of a tool message body: status "ok" with
// data, or status "error" with the message.
type toolPayload struct {
	Status     string   `json:"status"`
	Error      string   `json:"error,omitempty"`
	Data       any      `json:"data,omitempty"`
	DurationMs int64    `json:"duration_ms,omitempty"`
	Images     []string `json:"images,omitempty"`
}

func (a *Agent) toolMessage(call sdk.ChatCompletionMessageToolCall, payload toolPayload) sdk.Message {
	body, err := json.Marshal(payload)
	if err != nil {
		body = []byte(fmt.Sprintf(`{"status":"error","error":%q}`, err.Error()))
	}
	id := call.Id
	return sdk.Message{
		Role:       sdk.Tool,
		Content:    string(body),
		ToolCallId: &id,
	}
}
