package tools

import (
	"fmt"
	"sync"
	"time"

	config "github.com/dodocode/screenpilot/config"
	domain "github.com/dodocode/screenpilot/internal/domain"
)

// RateLimiter implements sliding-window rate limiting for input-driver
// actions.
type RateLimiter struct {
	cfg         config.RateLimitConfig
	actionTimes []time.Time
	mu          sync.Mutex
}

var _ domain.RateLimiter = (*RateLimiter)(nil)

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{cfg: cfg}
}

// CheckAndRecord checks if the action is within rate limits and records it.
// Returns an error if the rate limit is exceeded.
func (rl *RateLimiter) CheckAndRecord(toolName string) error {
	if !rl.cfg.Enabled {
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-time.Duration(rl.cfg.WindowSeconds) * time.Second)

	validActions := rl.actionTimes[:0]
	for _, t := range rl.actionTimes {
		if t.After(windowStart) {
			validActions = append(validActions, t)
		}
	}
	rl.actionTimes = validActions

	if len(rl.actionTimes) >= rl.cfg.MaxActionsPerMinute {
		return fmt.Errorf("rate limit exceeded: maximum %d actions per %d seconds (current: %d actions in window)",
			rl.cfg.MaxActionsPerMinute, rl.cfg.WindowSeconds, len(rl.actionTimes))
	}

	rl.actionTimes = append(rl.actionTimes, now)
	return nil
}

// CurrentCount returns the number of actions in the current window.
func (rl *RateLimiter) CurrentCount() int {
	if !rl.cfg.Enabled {
		return 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := time.Now().Add(-time.Duration(rl.cfg.WindowSeconds) * time.Second)

	count := 0
	for _, t := range rl.actionTimes {
		if t.After(windowStart) {
			count++
		}
	}
	return count
}

// Reset clears all recorded actions.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.actionTimes = nil
}
