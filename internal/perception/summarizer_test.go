package perception

import (
	"context"
	"encoding/base64"
	"testing"

	sdk "github.com/inference-gateway/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/dodocode/screenpilot/internal/domain"
	grid "github.com/dodocode/screenpilot/internal/grid"
)

type stubDescriber struct {
	lastSystem string
	lastUser   string
	lastImage  string
	reply      string
	err        error
}

func (s *stubDescriber) Decide(ctx context.Context, messages []sdk.Message, tools []sdk.ChatCompletionTool) (*domain.Decision, error) {
	return nil, nil
}

func (s *stubDescriber) Describe(ctx context.Context, system, user, image string) (string, error) {
	s.lastSystem = system
	s.lastUser = user
	s.lastImage = image
	return s.reply, s.err
}

func TestSummarize_AttachesGeometry(t *testing.T) {
	table, err := grid.Build(300, 200, grid.SquareSpec(50))
	require.NoError(t, err)

	stub := &stubDescriber{reply: `{"summary": "a desktop"}`}
	s := NewSummarizer(stub)

	imageData := []byte("fake-png")
	summary, err := s.Summarize(context.Background(), imageData, table, "find the login button", 2, 2)
	require.NoError(t, err)

	assert.Equal(t, `{"summary": "a desktop"}`, summary.Description)
	assert.Equal(t, 300, summary.Meta.ViewportWidth)
	assert.Equal(t, 200, summary.Meta.ViewportHeight)
	assert.Equal(t, 50, summary.Meta.CellSize)
	assert.Equal(t, table.Len(), summary.Meta.IndexedCells)

	require.Len(t, summary.Meta.CoarseCells, 4)
	assert.Equal(t, CoarseCell{Row: 0, Col: 0, CenterX: 75, CenterY: 50}, summary.Meta.CoarseCells[0])
	assert.Equal(t, CoarseCell{Row: 1, Col: 1, CenterX: 225, CenterY: 150}, summary.Meta.CoarseCells[3])

	assert.Contains(t, stub.lastUser, "find the login button")
	assert.Equal(t, base64.StdEncoding.EncodeToString(imageData), stub.lastImage)
}

func TestSummarize_DefaultCoarseGrid(t *testing.T) {
	table, err := grid.Build(600, 600, grid.SquareSpec(50))
	require.NoError(t, err)

	stub := &stubDescriber{reply: "desc"}
	s := NewSummarizer(stub)

	summary, err := s.Summarize(context.Background(), []byte("png"), table, "", 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Meta.CoarseRows)
	assert.Equal(t, 3, summary.Meta.CoarseCols)
	assert.Len(t, summary.Meta.CoarseCells, 9)
	assert.NotContains(t, stub.lastUser, "attention")
}

func TestSummarize_DescribeError(t *testing.T) {
	table, err := grid.Build(100, 100, grid.SquareSpec(50))
	require.NoError(t, err)

	stub := &stubDescriber{err: assert.AnError}
	s := NewSummarizer(stub)

	_, err = s.Summarize(context.Background(), []byte("png"), table, "", 3, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screen description failed")
}
