// Package storage persists task transcripts in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sdk "github.com/inference-gateway/sdk"
	_ "modernc.org/sqlite"

	domain "github.com/dodocode/screenpilot/internal/domain"
)

// SQLiteStore implements domain.ConversationStore using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ domain.ConversationStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the transcript database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db, path: path}

	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,               -- Task ID
		task TEXT NOT NULL,                -- Task text as given by the user
		status TEXT NOT NULL,              -- completed / budget_exceeded / cancelled
		message TEXT NOT NULL DEFAULT '',  -- Final assistant message
		turns INTEGER NOT NULL DEFAULT 0,  -- Decision turns consumed
		message_count INTEGER NOT NULL DEFAULT 0,
		messages TEXT NOT NULL,            -- JSON array of transcript entries
		duration_ms INTEGER NOT NULL DEFAULT 0,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_started_at ON tasks(started_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// storedEntry is the JSON shape of one transcript message.
type storedEntry struct {
	Message sdk.Message `json:"message"`
	Time    time.Time   `json:"time"`
}

// SaveTask writes one finished task with its full transcript.
func (s *SQLiteStore) SaveTask(ctx context.Context, taskID, task string, entries []domain.ConversationEntry, result *domain.TaskResult) error {
	stored := make([]storedEntry, 0, len(entries))
	var started time.Time
	for i, entry := range entries {
		if i == 0 {
			started = entry.Time
		}
		stored = append(stored, storedEntry{Message: entry.Message, Time: entry.Time})
	}
	if started.IsZero() {
		started = time.Now()
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO tasks
			(id, task, status, message, turns, message_count, messages, duration_ms, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		taskID, task, string(result.Status), result.Message, result.Turns,
		len(entries), string(data), result.Duration.Milliseconds(),
		started, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	return nil
}

// ListTasks returns the most recent tasks, newest first.
func (s *SQLiteStore) ListTasks(ctx context.Context, limit int) ([]domain.TaskSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task, status, turns, message_count, started_at
		FROM tasks ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []domain.TaskSummary
	for rows.Next() {
		var s domain.TaskSummary
		var status string
		if err := rows.Scan(&s.TaskID, &s.Task, &status, &s.Turns, &s.Messages, &s.Started); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		s.Status = domain.TaskStatus(status)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetTranscript loads the full transcript of one task.
func (s *SQLiteStore) GetTranscript(ctx context.Context, taskID string) ([]domain.ConversationEntry, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT messages FROM tasks WHERE id = ?`, taskID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %s not found", taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	var stored []storedEntry
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}

	entries := make([]domain.ConversationEntry, 0, len(stored))
	for _, e := range stored {
		entries = append(entries, domain.ConversationEntry{Message: e.Message, Time: e.Time})
	}
	return entries, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
