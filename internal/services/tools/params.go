package tools

import (
	"fmt"
	"time"

	domain "github.com/dodocode/screenpilot/internal/domain"
)

// Argument extraction helpers. Tool arguments arrive as generic JSON, so
// numbers are float64 regardless of the schema type.

func stringArg(args map[string]any, key string, required bool) (string, error) {
	value, exists := args[key]
	if !exists || value == nil {
		if required {
			return "", fmt.Errorf("missing required parameter: %s", key)
		}
		return "", nil
	}

	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s must be a string, got %T", key, value)
	}

	if required && str == "" {
		return "", fmt.Errorf("parameter %s cannot be empty", key)
	}

	return str, nil
}

func intArg(args map[string]any, key string, required bool, fallback int) (int, error) {
	value, exists := args[key]
	if !exists || value == nil {
		if required {
			return 0, fmt.Errorf("missing required parameter: %s", key)
		}
		return fallback, nil
	}

	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("parameter %s must be a number, got %T", key, value)
	}
}

func floatArg(args map[string]any, key string, required bool, fallback float64) (float64, error) {
	value, exists := args[key]
	if !exists || value == nil {
		if required {
			return 0, fmt.Errorf("missing required parameter: %s", key)
		}
		return fallback, nil
	}

	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("parameter %s must be a number, got %T", key, value)
	}
}

func boolArg(args map[string]any, key string, fallback bool) (bool, error) {
	value, exists := args[key]
	if !exists || value == nil {
		return fallback, nil
	}

	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("parameter %s must be a boolean, got %T", key, value)
	}
	return b, nil
}

// failResult builds a failed result. Tool failures are data, not Go errors:
// the loop feeds them back to the model as the tool message.
func failResult(toolName string, args map[string]any, start time.Time, format string, a ...any) *domain.ToolExecutionResult {
	return &domain.ToolExecutionResult{
		ToolName:  toolName,
		Arguments: args,
		Success:   false,
		Duration:  time.Since(start),
		Error:     fmt.Sprintf(format, a...),
	}
}

// okResult builds a successful result carrying data.
func okResult(toolName string, args map[string]any, start time.Time, data any) *domain.ToolExecutionResult {
	return &domain.ToolExecutionResult{
		ToolName:  toolName,
		Arguments: args,
		Success:   true,
		Duration:  time.Since(start),
		Data:      data,
	}
}
