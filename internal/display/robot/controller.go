package robot

import (
	"context"
	"image"
	"os"
	"runtime"

	display "github.com/dodocode/screenpilot/internal/display"
)

// Controller adapts Client to the display.DisplayController interface
type Controller struct {
	client *Client
}

var _ display.DisplayController = (*Controller)(nil)

func (c *Controller) CaptureScreenBytes(ctx context.Context, region *display.Region) ([]byte, error) {
	if region == nil {
		return c.client.CaptureScreenBytes(0, 0, 0, 0)
	}
	return c.client.CaptureScreenBytes(region.X, region.Y, region.Width, region.Height)
}

func (c *Controller) CaptureScreen(ctx context.Context, region *display.Region) (image.Image, error) {
	if region == nil {
		return c.client.CaptureScreen(0, 0, 0, 0)
	}
	return c.client.CaptureScreen(region.X, region.Y, region.Width, region.Height)
}

func (c *Controller) GetScreenDimensions(ctx context.Context) (width, height int, err error) {
	w, h := c.client.GetScreenDimensions()
	return w, h, nil
}

func (c *Controller) GetCursorPosition(ctx context.Context) (x, y int, err error) {
	return c.client.GetCursorPosition()
}

func (c *Controller) MoveMouse(ctx context.Context, x, y int) error {
	return c.client.MoveMouse(x, y)
}

func (c *Controller) ClickMouse(ctx context.Context, button display.MouseButton, clicks int) error {
	return c.client.ClickMouse(button.String(), clicks)
}

func (c *Controller) ScrollMouse(ctx context.Context, clicks int, direction string) error {
	return c.client.ScrollMouse(clicks, direction)
}

func (c *Controller) TypeText(ctx context.Context, text string, delayMs int) error {
	return c.client.TypeText(text, delayMs)
}

func (c *Controller) PressKey(ctx context.Context, key string) error {
	return c.client.PressKey(key)
}

func (c *Controller) SendKeyCombo(ctx context.Context, combo string) error {
	return c.client.SendKeyCombo(combo)
}

func (c *Controller) Close() error {
	c.client.Close()
	return nil
}

// Provider implements display.Provider for the RobotGo fallback
type Provider struct{}

var _ display.Provider = (*Provider)(nil)

// NewProvider creates a new RobotGo provider
func NewProvider() *Provider {
	return &Provider{}
}

// GetController creates a new DisplayController. The display argument is
// ignored; RobotGo always drives the primary screen.
func (p *Provider) GetController(display string) (display.DisplayController, error) {
	client, err := NewClient()
	if err != nil {
		return nil, err
	}
	return &Controller{client: client}, nil
}

// GetDisplayInfo returns information about the RobotGo platform
func (p *Provider) GetDisplayInfo() display.DisplayInfo {
	return display.DisplayInfo{
		Name:              "robot",
		SupportsRegions:   true,
		SupportsMouse:     true,
		SupportsKeyboard:  true,
		MaxTextLength:     0,
		RequiresElevation: true,
	}
}

// IsAvailable reports availability. RobotGo is the fallback driver: on Linux
// it steps aside when a plain X11 session is present so the native driver
// wins, but still serves Wayland sessions through XWayland.
func (p *Provider) IsAvailable() bool {
	if runtime.GOOS == "linux" {
		return os.Getenv("DISPLAY") == "" || os.Getenv("WAYLAND_DISPLAY") != ""
	}
	return true
}

func init() {
	display.Register(NewProvider())
}
