package domain

import (
	"context"
	"time"

	sdk "github.com/inference-gateway/sdk"
)

// AskSentinel prefixes an assistant message that needs one piece of human
// input before the task can continue. The loop suspends, collects a reply,
// and resumes with the reply as the next user turn.
const AskSentinel = "[ASK_USER]"

// Decision is one turn of the decision collaborator: either tool calls or a
// plain message, never both.
type Decision struct {
	Content   string
	ToolCalls []sdk.ChatCompletionMessageToolCall
}

// DecisionClient is the opaque decision collaborator. Decide picks the next
// action from the transcript; Describe answers a one-shot vision prompt about
// a PNG image (used by the screen summarizer, outside the main transcript).
type DecisionClient interface {
	Decide(ctx context.Context, messages []sdk.Message, tools []sdk.ChatCompletionTool) (*Decision, error)
	Describe(ctx context.Context, systemPrompt, userPrompt, imageB64PNG string) (string, error)
}

// Asker collects exactly one piece of human input in response to an
// ask-sentinel message.
type Asker interface {
	Ask(question string) (string, error)
}

// AskerFunc adapts a function to the Asker interface.
type AskerFunc func(question string) (string, error)

// Ask implements Asker.
func (f AskerFunc) Ask(question string) (string, error) {
	return f(question)
}

// TaskStatus is the terminal state of one RunTask.
type TaskStatus string

const (
	StatusCompleted      TaskStatus = "completed"
	StatusBudgetExceeded TaskStatus = "budget_exceeded"
	StatusCancelled      TaskStatus = "cancelled"
)

// TaskResult is the terminal result of one RunTask.
type TaskResult struct {
	TaskID   string
	Status   TaskStatus
	Message  string
	Turns    int
	Duration time.Duration
}

// ConversationEntry is one transcript message with its wall-clock time.
type ConversationEntry struct {
	Message sdk.Message
	Time    time.Time
}

// ConversationStore persists task transcripts.
type ConversationStore interface {
	SaveTask(ctx context.Context, taskID, task string, entries []ConversationEntry, result *TaskResult) error
	ListTasks(ctx context.Context, limit int) ([]TaskSummary, error)
	Close() error
}

// TaskSummary is one persisted task row.
type TaskSummary struct {
	TaskID   string
	Task     string
	Status   TaskStatus
	Turns    int
	Messages int
	Started  time.Time
}
