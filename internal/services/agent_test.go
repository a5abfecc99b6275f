package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	sdk "github.com/inference-gateway/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/dodocode/screenpilot/config"
	domain "github.com/dodocode/screenpilot/internal/domain"
)

// scriptedClient replays a fixed sequence of decisions and records the
// transcript it was shown on each turn.
type scriptedClient struct {
	decisions []domain.Decision
	turn      int
	seen      [][]sdk.Message
	decideErr error
}

func (c *scriptedClient) Decide(ctx context.Context, messages []sdk.Message, tools []sdk.ChatCompletionTool) (*domain.Decision, error) {
	snapshot := make([]sdk.Message, len(messages))
	copy(snapshot, messages)
	c.seen = append(c.seen, snapshot)

	if c.decideErr != nil {
		return nil, c.decideErr
	}
	if c.turn >= len(c.decisions) {
		return &domain.Decision{Content: "done"}, nil
	}
	d := c.decisions[c.turn]
	c.turn++
	return &d, nil
}

func (c *scriptedClient) Describe(ctx context.Context, system, user, image string) (string, error) {
	return "", errors.New("not used")
}

// recordingToolService executes a single fake tool and records calls.
type recordingToolService struct {
	name   string
	result *domain.ToolExecutionResult
	calls  []map[string]any
}

func (s *recordingToolService) ListTools() []sdk.ChatCompletionTool {
	desc := "fake"
	return []sdk.ChatCompletionTool{{
		Type:     sdk.Function,
		Function: sdk.FunctionObject{Name: s.name, Description: &desc},
	}}
}

func (s *recordingToolService) ListAvailableTools() []string { return []string{s.name} }

func (s *recordingToolService) ExecuteTool(ctx context.Context, name string, args map[string]any) (*domain.ToolExecutionResult, error) {
	if name != s.name {
		return nil, &domain.ToolNotFoundError{Name: name}
	}
	s.calls = append(s.calls, args)
	if s.result != nil {
		return s.result, nil
	}
	return &domain.ToolExecutionResult{ToolName: name, Success: true, Data: map[string]any{"ok": true}}, nil
}

func (s *recordingToolService) IsToolEnabled(name string) bool { return name == s.name }

func (s *recordingToolService) ValidateTool(name string, args map[string]any) error { return nil }

// memoryStore records SaveTask calls in memory.
type memoryStore struct {
	taskID  string
	task    string
	entries []domain.ConversationEntry
	result  *domain.TaskResult
	saves   int
}

func (m *memoryStore) SaveTask(ctx context.Context, taskID, task string, entries []domain.ConversationEntry, result *domain.TaskResult) error {
	m.taskID, m.task, m.entries, m.result = taskID, task, entries, result
	m.saves++
	return nil
}

func (m *memoryStore) ListTasks(ctx context.Context, limit int) ([]domain.TaskSummary, error) {
	return nil, nil
}

func (m *memoryStore) Close() error { return nil }

func agentConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Agent.MaxTurns = 5
	return cfg
}

func toolCall(id, name, arguments string) sdk.ChatCompletionMessageToolCall {
	return sdk.ChatCompletionMessageToolCall{
		Id:       id,
		Function: sdk.ChatCompletionMessageToolCallFunction{Name: name, Arguments: arguments},
	}
}

func TestRunTask_ToolCallThenCompletion(t *testing.T) {
	client := &scriptedClient{decisions: []domain.Decision{
		{ToolCalls: []sdk.ChatCompletionMessageToolCall{toolCall("call_1", "fake_tool", `{"x": 1}`)}},
		{Content: "clicked the thing"},
	}}
	service := &recordingToolService{name: "fake_tool"}
	store := &memoryStore{}

	agent := NewAgent(agentConfig(), client, nil, store, service)
	result, err := agent.RunTask(context.Background(), "click the thing")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.Equal(t, "clicked the thing", result.Message)
	assert.Equal(t, 2, result.Turns)
	assert.NotEmpty(t, result.TaskID)

	require.Len(t, service.calls, 1)
	assert.Equal(t, map[string]any{"x": float64(1)}, service.calls[0])

	// Second Decide sees system, user, assistant tool-call, and tool result.
	require.Len(t, client.seen, 2)
	transcript := client.seen[1]
	require.Len(t, transcript, 4)
	assert.Equal(t, sdk.System, transcript[0].Role)
	assert.Equal(t, sdk.User, transcript[1].Role)
	assert.Equal(t, sdk.Assistant, transcript[2].Role)
	require.Equal(t, sdk.Tool, transcript[3].Role)
	require.NotNil(t, transcript[3].ToolCallId)
	assert.Equal(t, "call_1", *transcript[3].ToolCallId)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(transcript[3].Content), &payload))
	assert.Equal(t, "ok", payload["status"])

	assert.Equal(t, 1, store.saves)
	assert.Equal(t, result.TaskID, store.taskID)
	assert.Equal(t, "click the thing", store.task)
	assert.Len(t, store.entries, 5)
}

func TestRunTask_ToolFailureStaysInLoop(t *testing.T) {
	client := &scriptedClient{decisions: []domain.Decision{
		{ToolCalls: []sdk.ChatCompletionMessageToolCall{toolCall("call_1", "fake_tool", `{}`)}},
		{Content: "recovered"},
	}}
	service := &recordingToolService{
		name: "fake_tool",
		result: &domain.ToolExecutionResult{
			ToolName: "fake_tool",
			Success:  false,
			Error:    "grid index 999 out of range (size=6)",
		},
	}

	agent := NewAgent(agentConfig(), client, nil, nil, service)
	result, err := agent.RunTask(context.Background(), "task")
	require.NoError(t, err, "tool failure must not abort the run")
	assert.Equal(t, domain.StatusCompleted, result.Status)

	transcript := client.seen[1]
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(transcript[3].Content), &payload))
	assert.Equal(t, "error", payload["status"])
	assert.Contains(t, payload["error"], "out of range")
}

func TestRunTask_UnknownToolIsData(t *testing.T) {
	client := &scriptedClient{decisions: []domain.Decision{
		{ToolCalls: []sdk.ChatCompletionMessageToolCall{toolCall("call_1", "no_such_tool", `{}`)}},
		{Content: "ok"},
	}}
	service := &recordingToolService{name: "fake_tool"}

	agent := NewAgent(agentConfig(), client, nil, nil, service)
	result, err := agent.RunTask(context.Background(), "task")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.Empty(t, service.calls)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(client.seen[1][3].Content), &payload))
	assert.Equal(t, "error", payload["status"])
	assert.Contains(t, payload["error"], "no_such_tool")
}

func TestRunTask_MalformedArgumentsIsData(t *testing.T) {
	client := &scriptedClient{decisions: []domain.Decision{
		{ToolCalls: []sdk.ChatCompletionMessageToolCall{toolCall("call_1", "fake_tool", `{broken`)}},
		{Content: "ok"},
	}}
	service := &recordingToolService{name: "fake_tool"}

	agent := NewAgent(agentConfig(), client, nil, nil, service)
	_, err := agent.RunTask(context.Background(), "task")
	require.NoError(t, err)
	assert.Empty(t, service.calls)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(client.seen[1][3].Content), &payload))
	assert.Contains(t, payload["error"], "invalid tool arguments")
}

func TestRunTask_AskUserSuspendsAndResumes(t *testing.T) {
	client := &scriptedClient{decisions: []domain.Decision{
		{Content: "[ASK_USER] Which account should I use?"},
		{Content: "logged in as alice"},
	}}

	var asked string
	asker := domain.AskerFunc(func(question string) (string, error) {
		asked = question
		return "use alice", nil
	})

	agent := NewAgent(agentConfig(), client, asker, nil)
	result, err := agent.RunTask(context.Background(), "log in")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.Equal(t, "logged in as alice", result.Message)
	assert.Equal(t, "Which account should I use?", asked)

	// The reply arrives as the next user turn.
	transcript := client.seen[1]
	require.Len(t, transcript, 4)
	assert.Equal(t, sdk.Assistant, transcript[2].Role)
	assert.Equal(t, sdk.User, transcript[3].Role)
	assert.Equal(t, "use alice", transcript[3].Content)
}

func TestRunTask_AskUserWithoutAsker(t *testing.T) {
	client := &scriptedClient{decisions: []domain.Decision{
		{Content: "[ASK_USER] password?"},
	}}

	agent := NewAgent(agentConfig(), client, nil, nil)
	result, err := agent.RunTask(context.Background(), "task")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, result.Status)
	assert.Contains(t, result.Message, "password?")
}

func TestRunTask_BudgetExceeded(t *testing.T) {
	cfg := agentConfig()
	cfg.Agent.MaxTurns = 3

	// Every turn is a tool call, so the budget runs out.
	var decisions []domain.Decision
	for i := 0; i < 10; i++ {
		decisions = append(decisions, domain.Decision{
			ToolCalls: []sdk.ChatCompletionMessageToolCall{toolCall("call_x", "fake_tool", `{}`)},
		})
	}
	client := &scriptedClient{decisions: decisions}
	service := &recordingToolService{name: "fake_tool"}
	store := &memoryStore{}

	agent := NewAgent(cfg, client, nil, store, service)
	result, err := agent.RunTask(context.Background(), "task")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusBudgetExceeded, result.Status)
	assert.Equal(t, 3, result.Turns)
	assert.Len(t, service.calls, 3)
	require.NotNil(t, store.result)
	assert.Equal(t, domain.StatusBudgetExceeded, store.result.Status)
}

func TestRunTask_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &scriptedClient{}
	store := &memoryStore{}
	agent := NewAgent(agentConfig(), client, nil, store, &recordingToolService{name: "fake_tool"})

	result, err := agent.RunTask(ctx, "task")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, result.Status)
	assert.Empty(t, client.seen)
	assert.Equal(t, 1, store.saves, "cancelled runs still persist their transcript")
}

func TestRunTask_DecideErrorSurfaces(t *testing.T) {
	client := &scriptedClient{decideErr: errors.New("gateway unreachable")}
	agent := NewAgent(agentConfig(), client, nil, nil, &recordingToolService{name: "fake_tool"})

	_, err := agent.RunTask(context.Background(), "task")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway unreachable")
}

func TestRunTask_MultipleToolCallsInOneTurn(t *testing.T) {
	client := &scriptedClient{decisions: []domain.Decision{
		{ToolCalls: []sdk.ChatCompletionMessageToolCall{
			toolCall("call_1", "fake_tool", `{"n": 1}`),
			toolCall("call_2", "fake_tool", `{"n": 2}`),
		}},
		{Content: "done"},
	}}
	service := &recordingToolService{name: "fake_tool"}

	agent := NewAgent(agentConfig(), client, nil, nil, service)
	result, err := agent.RunTask(context.Background(), "task")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, result.Status)
	require.Len(t, service.calls, 2)

	transcript := client.seen[1]
	require.Len(t, transcript, 5)
	require.NotNil(t, transcript[3].ToolCallId)
	require.NotNil(t, transcript[4].ToolCallId)
	assert.Equal(t, "call_1", *transcript[3].ToolCallId)
	assert.Equal(t, "call_2", *transcript[4].ToolCallId)
}

func TestRunTask_RecordsTiming(t *testing.T) {
	client := &scriptedClient{decisions: []domain.Decision{{Content: "done"}}}
	agent := NewAgent(agentConfig(), client, nil, nil)

	start := time.Now()
	result, err := agent.RunTask(context.Background(), "task")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Duration, time.Duration(0))
	assert.LessOrEqual(t, result.Duration, time.Since(start)+time.Second)
}
