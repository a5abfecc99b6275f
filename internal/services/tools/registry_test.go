package tools

import (
	"context"
	"errors"
	"image"
	"testing"

	sdk "github.com/inference-gateway/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/dodocode/screenpilot/config"
	display "github.com/dodocode/screenpilot/internal/display"
	domain "github.com/dodocode/screenpilot/internal/domain"
)

// fakeController is an in-memory display driver for tests. It serves a fixed
// 120x80 screen and records input actions.
type fakeController struct {
	width, height int
	cursorX       int
	cursorY       int
	moves         []image.Point
	clicks        int
	typed         []string
	pressed       []string
	combos        []string
}

func newFakeController() *fakeController {
	return &fakeController{width: 120, height: 80}
}

func (f *fakeController) CaptureScreenBytes(ctx context.Context, region *display.Region) ([]byte, error) {
	return nil, errors.New("not used")
}

func (f *fakeController) CaptureScreen(ctx context.Context, region *display.Region) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, f.width, f.height)), nil
}

func (f *fakeController) GetScreenDimensions(ctx context.Context) (int, int, error) {
	return f.width, f.height, nil
}

func (f *fakeController) GetCursorPosition(ctx context.Context) (int, int, error) {
	return f.cursorX, f.cursorY, nil
}

func (f *fakeController) MoveMouse(ctx context.Context, x, y int) error {
	f.cursorX, f.cursorY = x, y
	f.moves = append(f.moves, image.Point{X: x, Y: y})
	return nil
}

func (f *fakeController) ClickMouse(ctx context.Context, button display.MouseButton, clicks int) error {
	f.clicks += clicks
	return nil
}

func (f *fakeController) ScrollMouse(ctx context.Context, clicks int, direction string) error {
	return nil
}

func (f *fakeController) TypeText(ctx context.Context, text string, delayMs int) error {
	f.typed = append(f.typed, text)
	return nil
}

func (f *fakeController) PressKey(ctx context.Context, key string) error {
	f.pressed = append(f.pressed, key)
	return nil
}

func (f *fakeController) SendKeyCombo(ctx context.Context, combo string) error {
	f.combos = append(f.combos, combo)
	return nil
}

func (f *fakeController) Close() error { return nil }

type fakeProvider struct {
	controller *fakeController
}

func (p *fakeProvider) GetController(displayID string) (display.DisplayController, error) {
	return p.controller, nil
}

func (p *fakeProvider) GetDisplayInfo() display.DisplayInfo {
	return display.DisplayInfo{Name: "fake"}
}

func (p *fakeProvider) IsAvailable() bool { return true }

type stubClient struct {
	describeReply string
}

func (s *stubClient) Decide(ctx context.Context, messages []sdk.Message, tools []sdk.ChatCompletionTool) (*domain.Decision, error) {
	return &domain.Decision{}, nil
}

func (s *stubClient) Describe(ctx context.Context, system, user, image string) (string, error) {
	return s.describeReply, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ComputerUse.Screenshot.Dir = t.TempDir()
	cfg.ComputerUse.RateLimit.Enabled = false
	return cfg
}

func newTestDesktopRegistry(t *testing.T) (*Registry, *Screen, *fakeController) {
	t.Helper()
	controller := newFakeController()
	provider := &fakeProvider{controller: controller}
	registry, screen := NewDesktopRegistry(testConfig(t), provider, &stubClient{describeReply: "a desktop"})
	return registry, screen, controller
}

func TestDesktopRegistry_Catalog(t *testing.T) {
	registry, _, _ := newTestDesktopRegistry(t)

	assert.Equal(t, []string{
		"capture_and_describe_screen",
		"click_current",
		"click_numbered_cell",
		"click_position",
		"hotkey",
		"move_mouse",
		"press_key",
		"raw_screenshot",
		"send_keys",
		"sleep",
	}, registry.ListAvailableTools())

	definitions := registry.ListTools()
	require.Len(t, definitions, 10)
	for _, def := range definitions {
		assert.NotEmpty(t, def.Function.Name)
		assert.NotNil(t, def.Function.Description)
	}
}

func TestRegistry_UnknownTool(t *testing.T) {
	registry, _, _ := newTestDesktopRegistry(t)

	_, err := registry.ExecuteTool(context.Background(), "self_destruct", nil)
	require.Error(t, err)

	var notFound *domain.ToolNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "self_destruct", notFound.Name)

	assert.False(t, registry.IsToolEnabled("self_destruct"))
}

func TestClickNumberedCell_BeforeCapture(t *testing.T) {
	registry, _, controller := newTestDesktopRegistry(t)

	result, err := registry.ExecuteTool(context.Background(), "click_numbered_cell", map[string]any{"index": float64(0)})
	require.NoError(t, err, "tool failures are data, not Go errors")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no grid")
	assert.Zero(t, controller.clicks)
}

func TestClickNumberedCell_AfterCapture(t *testing.T) {
	registry, _, controller := newTestDesktopRegistry(t)
	ctx := context.Background()

	capture, err := registry.ExecuteTool(ctx, "capture_and_describe_screen", map[string]any{})
	require.NoError(t, err)
	require.True(t, capture.Success, capture.Error)
	require.Len(t, capture.Images, 1)

	// 120x80 at cell size 50: 3 cols x 2 rows, index 4 is row 1 col 1.
	result, err := registry.ExecuteTool(ctx, "click_numbered_cell", map[string]any{"index": float64(4)})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)

	data, ok := result.Data.(domain.ClickToolResult)
	require.True(t, ok)
	assert.Equal(t, 75, data.X)
	assert.Equal(t, 75, data.Y)
	assert.Equal(t, 1, controller.clicks)
	require.Len(t, controller.moves, 1)
	assert.Equal(t, image.Point{X: 75, Y: 75}, controller.moves[0])
}

func TestClickNumberedCell_IndexOutOfRange(t *testing.T) {
	registry, _, controller := newTestDesktopRegistry(t)
	ctx := context.Background()

	_, err := registry.ExecuteTool(ctx, "capture_and_describe_screen", map[string]any{})
	require.NoError(t, err)

	result, err := registry.ExecuteTool(ctx, "click_numbered_cell", map[string]any{"index": float64(999)})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "999")
	assert.Zero(t, controller.clicks)
}

func TestSendKeysAndHotkey(t *testing.T) {
	registry, _, controller := newTestDesktopRegistry(t)
	ctx := context.Background()

	result, err := registry.ExecuteTool(ctx, "send_keys", map[string]any{"text": "hello"})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, []string{"hello"}, controller.typed)

	result, err = registry.ExecuteTool(ctx, "hotkey", map[string]any{"keys": []any{"ctrl", "c"}})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, []string{"ctrl+c"}, controller.combos)
}

func TestRateLimit_BlocksActions(t *testing.T) {
	controller := newFakeController()
	provider := &fakeProvider{controller: controller}

	cfg := testConfig(t)
	cfg.ComputerUse.RateLimit.Enabled = true
	cfg.ComputerUse.RateLimit.MaxActionsPerMinute = 1
	cfg.ComputerUse.RateLimit.WindowSeconds = 60

	registry, _ := NewDesktopRegistry(cfg, provider, &stubClient{})
	ctx := context.Background()

	first, err := registry.ExecuteTool(ctx, "move_mouse", map[string]any{"x": float64(10), "y": float64(10)})
	require.NoError(t, err)
	assert.True(t, first.Success, first.Error)

	second, err := registry.ExecuteTool(ctx, "move_mouse", map[string]any{"x": float64(20), "y": float64(20)})
	require.NoError(t, err)
	assert.False(t, second.Success)
	assert.Contains(t, second.Error, "rate limit exceeded")
}

func TestComputerUseDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.ComputerUse.Enabled = false
	cfg.Browser.Enabled = false

	registry, _ := NewDesktopRegistry(cfg, &fakeProvider{controller: newFakeController()}, &stubClient{})

	assert.Empty(t, registry.ListAvailableTools())
	_, err := registry.ExecuteTool(context.Background(), "move_mouse", map[string]any{"x": float64(1), "y": float64(1)})
	var notFound *domain.ToolNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestValidateTool(t *testing.T) {
	registry, _, _ := newTestDesktopRegistry(t)

	assert.NoError(t, registry.ValidateTool("move_mouse", map[string]any{"x": float64(5), "y": float64(5)}))
	assert.Error(t, registry.ValidateTool("move_mouse", map[string]any{"x": float64(5)}))
	assert.Error(t, registry.ValidateTool("click_position", map[string]any{"x": float64(5), "y": float64(5), "button": "side"}))
	assert.Error(t, registry.ValidateTool("sleep", map[string]any{"seconds": float64(0)}))
	assert.NoError(t, registry.ValidateTool("sleep", map[string]any{"seconds": float64(1.5)}))
}
