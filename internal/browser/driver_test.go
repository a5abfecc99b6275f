package browser

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDriver_Defaults(t *testing.T) {
	d := NewDriver(Options{})

	assert.Equal(t, DefaultViewportWidth, d.opts.ViewportWidth)
	assert.Equal(t, DefaultViewportHeight, d.opts.ViewportHeight)
	assert.Equal(t, DefaultTimeoutSeconds, d.opts.TimeoutSeconds)
	assert.False(t, d.started)
}

func TestNewDriver_KeepsExplicitOptions(t *testing.T) {
	d := NewDriver(Options{Headless: true, ViewportWidth: 800, ViewportHeight: 600, TimeoutSeconds: 5})

	assert.True(t, d.opts.Headless)
	assert.Equal(t, 800, d.opts.ViewportWidth)
	assert.Equal(t, 600, d.opts.ViewportHeight)
	assert.Equal(t, 5, d.opts.TimeoutSeconds)
}

func TestDriver_CloseBeforeStart(t *testing.T) {
	d := NewDriver(Options{})
	assert.NoError(t, d.Close())
}

// Index-based selection hands Playwright a pointer-to-slice built with the
// library's IntSlice helper; pin the payload shape SelectOption depends on.
func TestSelectByIndexPayload(t *testing.T) {
	values := playwright.SelectOptionValues{Indexes: playwright.IntSlice(3)}

	require.NotNil(t, values.Indexes)
	assert.Equal(t, []int{3}, *values.Indexes)
	assert.Nil(t, values.Values)
}
