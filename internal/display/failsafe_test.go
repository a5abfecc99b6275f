package display

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	mu     sync.Mutex
	x, y   int
	width  int
	height int
}

func (f *fakeController) setCursor(x, y int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.x, f.y = x, y
}

func (f *fakeController) CaptureScreenBytes(ctx context.Context, region *Region) ([]byte, error) {
	return nil, nil
}

func (f *fakeController) CaptureScreen(ctx context.Context, region *Region) (image.Image, error) {
	return nil, nil
}

func (f *fakeController) GetScreenDimensions(ctx context.Context) (int, int, error) {
	return f.width, f.height, nil
}

func (f *fakeController) GetCursorPosition(ctx context.Context) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.x, f.y, nil
}

func (f *fakeController) MoveMouse(ctx context.Context, x, y int) error { return nil }

func (f *fakeController) ClickMouse(ctx context.Context, button MouseButton, clicks int) error {
	return nil
}

func (f *fakeController) ScrollMouse(ctx context.Context, clicks int, direction string) error {
	return nil
}

func (f *fakeController) TypeText(ctx context.Context, text string, delayMs int) error { return nil }
func (f *fakeController) PressKey(ctx context.Context, key string) error               { return nil }
func (f *fakeController) SendKeyCombo(ctx context.Context, combo string) error         { return nil }
func (f *fakeController) Close() error                                                 { return nil }

func TestFailSafe_CancelsOnCorner(t *testing.T) {
	fake := &fakeController{width: 1920, height: 1080, x: 500, y: 500}
	fs := NewFailSafe(fake, 5, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		fs.Watch(ctx, cancel)
		close(done)
	}()

	fake.setCursor(1, 1)

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("fail-safe did not cancel the context")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not exit after cancel")
	}
}

func TestFailSafe_AllFourCorners(t *testing.T) {
	fs := NewFailSafe(nil, 5, time.Millisecond)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"top left", 0, 0, true},
		{"top right", 1919, 0, true},
		{"bottom left", 0, 1079, true},
		{"bottom right", 1919, 1079, true},
		{"top edge middle", 960, 0, false},
		{"left edge middle", 0, 540, false},
		{"center", 960, 540, false},
		{"just outside margin", 5, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fs.inCorner(tt.x, tt.y, 1920, 1080))
		})
	}
}

func TestFailSafe_StopsWithContext(t *testing.T) {
	fake := &fakeController{width: 800, height: 600, x: 400, y: 300}
	fs := NewFailSafe(fake, 5, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		fs.Watch(ctx, cancel)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not exit on context cancellation")
	}
}

func TestRegistry_DetectUsesRegistrationOrder(t *testing.T) {
	ClearProviders()
	t.Cleanup(ClearProviders)

	first := &fakeProvider{name: "first", available: false}
	second := &fakeProvider{name: "second", available: true}
	third := &fakeProvider{name: "third", available: true}
	Register(first)
	Register(second)
	Register(third)

	p, err := DetectDisplay()
	require.NoError(t, err)
	assert.Equal(t, "second", p.GetDisplayInfo().Name)

	assert.Equal(t, []string{"first", "second", "third"}, ProviderNames())
	assert.Same(t, Provider(third), GetProvider("third"))
	assert.Nil(t, GetProvider("missing"))
}

func TestRegistry_NoProviderAvailable(t *testing.T) {
	ClearProviders()
	t.Cleanup(ClearProviders)

	Register(&fakeProvider{name: "only", available: false})

	_, err := DetectDisplay()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no compatible display server")
}

type fakeProvider struct {
	name      string
	available bool
}

func (p *fakeProvider) GetController(display string) (DisplayController, error) {
	return &fakeController{}, nil
}

func (p *fakeProvider) GetDisplayInfo() DisplayInfo {
	return DisplayInfo{Name: p.name}
}

func (p *fakeProvider) IsAvailable() bool {
	return p.available
}
