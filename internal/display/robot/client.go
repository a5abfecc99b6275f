// Package robot is the portable fallback driver built on RobotGo. It covers
// macOS and Windows, and X11 sessions where the native driver is unavailable.
package robot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"time"

	robotgo "github.com/go-vgo/robotgo"
)

// Modifier and special key names accepted by SendKeyCombo and PressKey,
// normalized to RobotGo key names.
var (
	modifierMap = map[string]string{
		"cmd":     "cmd",
		"super":   "cmd",
		"win":     "cmd",
		"meta":    "cmd",
		"ctrl":    "ctrl",
		"control": "ctrl",
		"alt":     "alt",
		"option":  "alt",
		"shift":   "shift",
	}

	specialKeyMap = map[string]string{
		"enter":     "enter",
		"return":    "enter",
		"tab":       "tab",
		"space":     "space",
		"backspace": "backspace",
		"delete":    "delete",
		"del":       "delete",
		"esc":       "esc",
		"escape":    "esc",
		"up":        "up",
		"down":      "down",
		"left":      "left",
		"right":     "right",
		"home":      "home",
		"end":       "end",
		"pageup":    "pageup",
		"pagedown":  "pagedown",
		"f1":        "f1",
		"f2":        "f2",
		"f3":        "f3",
		"f4":        "f4",
		"f5":        "f5",
		"f6":        "f6",
		"f7":        "f7",
		"f8":        "f8",
		"f9":        "f9",
		"f10":       "f10",
		"f11":       "f11",
		"f12":       "f12",
	}
)

// Client provides screen control operations through RobotGo
type Client struct {
	screenWidth  int
	screenHeight int
}

// NewClient creates a new RobotGo-backed client
func NewClient() (*Client, error) {
	width, height := robotgo.GetScreenSize()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("failed to read screen dimensions")
	}

	return &Client{
		screenWidth:  width,
		screenHeight: height,
	}, nil
}

// Close closes the client (no-op for RobotGo)
func (c *Client) Close() {
}

// GetScreenDimensions returns the screen width and height
func (c *Client) GetScreenDimensions() (int, int) {
	return c.screenWidth, c.screenHeight
}

// CaptureScreen captures a screenshot and returns it as an image.Image
func (c *Client) CaptureScreen(x, y, width, height int) (image.Image, error) {
	if width == 0 || height == 0 {
		width = c.screenWidth
		height = c.screenHeight
	}

	if x < 0 || y < 0 || x+width > c.screenWidth || y+height > c.screenHeight {
		return nil, fmt.Errorf("invalid region: (%d,%d,%d,%d) exceeds screen bounds (%d,%d)",
			x, y, width, height, c.screenWidth, c.screenHeight)
	}

	bitmap := robotgo.CaptureScreen(x, y, width, height)
	if bitmap == nil {
		return nil, fmt.Errorf("failed to capture screen")
	}

	img := robotgo.ToImage(bitmap)
	if img == nil {
		return nil, fmt.Errorf("failed to convert bitmap to image")
	}

	return img, nil
}

// CaptureScreenBytes captures a screenshot and returns it as PNG bytes
func (c *Client) CaptureScreenBytes(x, y, width, height int) ([]byte, error) {
	img, err := c.CaptureScreen(x, y, width, height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image to PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// GetCursorPosition returns the current cursor position
func (c *Client) GetCursorPosition() (int, int, error) {
	x, y := robotgo.Location()
	return x, y, nil
}

// MoveMouse moves the cursor to the specified coordinates
func (c *Client) MoveMouse(x, y int) error {
	if x < 0 || y < 0 || x > c.screenWidth || y > c.screenHeight {
		return fmt.Errorf("invalid coordinates: (%d,%d) exceeds screen bounds (%d,%d)",
			x, y, c.screenWidth, c.screenHeight)
	}

	robotgo.Move(x, y)
	return nil
}

// ClickMouse clicks the specified mouse button at the current position
func (c *Client) ClickMouse(button string, clicks int) error {
	robotButton := button
	if button == "middle" {
		robotButton = "center"
	}

	if robotButton != "left" && robotButton != "right" && robotButton != "center" {
		return fmt.Errorf("invalid button: %s (must be left, right, or middle)", button)
	}

	if clicks < 1 || clicks > 3 {
		return fmt.Errorf("invalid click count: %d (must be 1-3)", clicks)
	}

	for i := range clicks {
		if i > 0 {
			time.Sleep(100 * time.Millisecond)
		}
		robotgo.Click(robotButton, false)
	}

	return nil
}

// ScrollMouse scrolls the mouse wheel
func (c *Client) ScrollMouse(clicks int, direction string) error {
	if clicks == 0 {
		return nil
	}

	absClicks := clicks
	if clicks < 0 {
		absClicks = -clicks
	}

	var scrollDir string
	if direction == "horizontal" {
		scrollDir = "right"
		if clicks < 0 {
			scrollDir = "left"
		}
	} else {
		scrollDir = "down"
		if clicks < 0 {
			scrollDir = "up"
		}
	}

	robotgo.ScrollDir(absClicks, scrollDir)
	return nil
}

// TypeText types the specified text with a delay between characters
func (c *Client) TypeText(text string, delayMs int) error {
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if delayMs > 0 {
		for _, char := range text {
			robotgo.Type(string(char))
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}
	} else {
		robotgo.Type(text)
	}

	return nil
}

// PressKey presses and releases a single named key
func (c *Client) PressKey(key string) error {
	name := strings.ToLower(strings.TrimSpace(key))
	if name == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if mapped, ok := specialKeyMap[name]; ok {
		name = mapped
	}

	if err := robotgo.KeyTap(name); err != nil {
		return fmt.Errorf("failed to press key %s: %w", key, err)
	}

	return nil
}

// SendKeyCombo sends a key combination (e.g., "ctrl+c", "cmd+shift+t")
func (c *Client) SendKeyCombo(combo string) error {
	if combo == "" {
		return fmt.Errorf("key combo cannot be empty")
	}

	combo = strings.ReplaceAll(combo, "-", "+")
	parts := strings.Split(combo, "+")

	key := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	var modifiers []any

	for i := 0; i < len(parts)-1; i++ {
		mod := strings.ToLower(strings.TrimSpace(parts[i]))
		if mappedMod, ok := modifierMap[mod]; ok {
			modifiers = append(modifiers, mappedMod)
		} else {
			return fmt.Errorf("unknown modifier: %s", mod)
		}
	}

	if mappedKey, ok := specialKeyMap[key]; ok {
		key = mappedKey
	}

	if err := robotgo.KeyTap(key, modifiers...); err != nil {
		return fmt.Errorf("failed to send key combo: %w", err)
	}

	return nil
}
