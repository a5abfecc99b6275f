package tools

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	config "github.com/dodocode/screenpilot/config"
	display "github.com/dodocode/screenpilot/internal/display"
	domain "github.com/dodocode/screenpilot/internal/domain"
	grid "github.com/dodocode/screenpilot/internal/grid"
	logger "github.com/dodocode/screenpilot/internal/logger"
)

// Screen is the per-task desktop session. It owns the display controller,
// the screenshot artifact directory, and the current grid table. The table
// is replaced wholesale on every indexed capture, so an index only ever
// resolves against the capture it was shown with.
type Screen struct {
	mu         sync.Mutex
	provider   display.Provider
	controller display.DisplayController
	displayID  string
	dir        string
	spec       grid.Spec
	table      *grid.Table
	builds     int
}

// NewScreen creates a desktop session for the given display provider.
func NewScreen(provider display.Provider, cfg *config.Config) *Screen {
	cellSize := cfg.ComputerUse.CellSize
	if cellSize <= 0 {
		cellSize = grid.DefaultCellSize
	}
	return &Screen{
		provider:  provider,
		displayID: cfg.ComputerUse.Display,
		dir:       cfg.ComputerUse.Screenshot.Dir,
		spec:      grid.SquareSpec(cellSize),
	}
}

// Controller returns the session's display controller, connecting lazily.
func (s *Screen) Controller() (display.DisplayController, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controllerLocked()
}

func (s *Screen) controllerLocked() (display.DisplayController, error) {
	if s.controller != nil {
		return s.controller, nil
	}
	if s.provider == nil {
		return nil, fmt.Errorf("no compatible display platform detected")
	}

	controller, err := s.provider.GetController(s.displayID)
	if err != nil {
		return nil, fmt.Errorf("failed to get display controller: %w", err)
	}
	s.controller = controller
	return controller, nil
}

// Method returns the display driver name for result reporting.
func (s *Screen) Method() string {
	if s.provider == nil {
		return "none"
	}
	return s.provider.GetDisplayInfo().Name
}

// CaptureRaw captures the screen without grid annotations and persists it.
func (s *Screen) CaptureRaw(ctx context.Context) (data []byte, width, height int, path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	controller, err := s.controllerLocked()
	if err != nil {
		return nil, 0, 0, "", err
	}

	img, err := controller.CaptureScreen(ctx, nil)
	if err != nil {
		return nil, 0, 0, "", &domain.DriverError{Driver: s.Method(), Op: "capture", Err: err}
	}

	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, 0, 0, "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	data = buf.Bytes()

	path, err = s.persistLocked(data, fmt.Sprintf("screen_raw_%d.png", time.Now().Unix()))
	if err != nil {
		return nil, 0, 0, "", err
	}

	return data, width, height, path, nil
}

// CaptureIndexed captures the screen, rebuilds the grid table for the capture
// dimensions, and persists the labeled image. The returned table is the
// immutable handle index lookups must use.
func (s *Screen) CaptureIndexed(ctx context.Context) (data []byte, table *grid.Table, path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	controller, err := s.controllerLocked()
	if err != nil {
		return nil, nil, "", err
	}

	img, err := controller.CaptureScreen(ctx, nil)
	if err != nil {
		return nil, nil, "", &domain.DriverError{Driver: s.Method(), Op: "capture", Err: err}
	}

	bounds := img.Bounds()
	table, err = grid.Build(bounds.Dx(), bounds.Dy(), s.spec)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to build grid: %w", err)
	}

	labeled := grid.RenderLabels(img, table, grid.DefaultStyle())

	var buf bytes.Buffer
	if err := png.Encode(&buf, labeled); err != nil {
		return nil, nil, "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	data = buf.Bytes()

	path, err = s.persistLocked(data, fmt.Sprintf("screen_%d.png", time.Now().Unix()))
	if err != nil {
		return nil, nil, "", err
	}

	s.table = table
	s.builds++
	logger.Debug("Indexed screen capture", "build", s.builds,
		"width", bounds.Dx(), "height", bounds.Dy(), "cells", table.Len(), "path", path)

	return data, table, path, nil
}

// Table returns the grid table of the most recent indexed capture.
func (s *Screen) Table() (*grid.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return nil, &grid.NotBuiltError{}
	}
	return s.table, nil
}

// Builds returns how many indexed captures this session has taken.
func (s *Screen) Builds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builds
}

// Persist writes an image artifact into the session's screenshot directory.
func (s *Screen) Persist(data []byte, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(data, name)
}

func (s *Screen) persistLocked(data []byte, name string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}

// Close releases the display controller.
func (s *Screen) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.controller == nil {
		return nil
	}
	err := s.controller.Close()
	s.controller = nil
	return err
}
