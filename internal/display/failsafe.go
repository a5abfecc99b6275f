package display

import (
	"context"
	"time"

	logger "github.com/dodocode/screenpilot/internal/logger"
)

// FailSafe watches the cursor and cancels the task context when the user
// parks the pointer in a screen corner. It is the manual abort channel while
// the driver owns the mouse.
type FailSafe struct {
	controller DisplayController
	margin     int
	interval   time.Duration
}

// NewFailSafe creates a corner watcher. margin is the corner hot-zone size in
// pixels; interval is the poll period.
func NewFailSafe(controller DisplayController, margin int, interval time.Duration) *FailSafe {
	if margin <= 0 {
		margin = 5
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &FailSafe{
		controller: controller,
		margin:     margin,
		interval:   interval,
	}
}

// Watch polls the cursor until ctx is done or a corner is hit, then calls
// cancel. Run it in its own goroutine alongside the task.
func (f *FailSafe) Watch(ctx context.Context, cancel context.CancelFunc) {
	width, height, err := f.controller.GetScreenDimensions(ctx)
	if err != nil {
		logger.Warn("Fail-safe disabled: cannot read screen dimensions", "error", err)
		return
	}

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			x, y, err := f.controller.GetCursorPosition(ctx)
			if err != nil {
				continue
			}
			if f.inCorner(x, y, width, height) {
				logger.Warn("Fail-safe triggered: cursor parked in screen corner", "x", x, "y", y)
				cancel()
				return
			}
		}
	}
}

func (f *FailSafe) inCorner(x, y, width, height int) bool {
	nearLeft := x < f.margin
	nearRight := x >= width-f.margin
	nearTop := y < f.margin
	nearBottom := y >= height-f.margin
	return (nearLeft || nearRight) && (nearTop || nearBottom)
}
