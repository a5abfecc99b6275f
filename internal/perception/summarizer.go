// Package perception turns captured screens into model-readable summaries.
package perception

import (
	"context"
	"encoding/base64"
	"fmt"

	domain "github.com/dodocode/screenpilot/internal/domain"
	grid "github.com/dodocode/screenpilot/internal/grid"
	logger "github.com/dodocode/screenpilot/internal/logger"
)

const summarizerSystemPrompt = `You are a screen analysis assistant. You are shown a desktop screenshot
overlaid with a numbered grid: each number marks the center of one grid cell.
Describe what is on screen as JSON with these keys:
  "summary": one-paragraph description of the visible screen
  "elements": array of notable UI elements, each with "description" and
              "cell" (the grid number nearest its center)
  "text": important visible text, verbatim
Reply with the JSON only.`

// Summarizer answers "what is on this screen" questions through the vision
// model. The vision call stays inside this component; the agent transcript
// only ever sees the returned text.
type Summarizer struct {
	client domain.DecisionClient
}

// NewSummarizer creates a screen summarizer backed by the decision client.
func NewSummarizer(client domain.DecisionClient) *Summarizer {
	return &Summarizer{client: client}
}

// CoarseCell is one cell of the coarse orientation grid reported alongside
// the model's description.
type CoarseCell struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	CenterX int `json:"center_x"`
	CenterY int `json:"center_y"`
}

// Meta is the locally computed geometry attached to every summary, so the
// model can act on the description without a second capture.
type Meta struct {
	ViewportWidth  int          `json:"viewport_width"`
	ViewportHeight int          `json:"viewport_height"`
	CellSize       int          `json:"cell_size"`
	IndexedCells   int          `json:"indexed_cells"`
	CoarseRows     int          `json:"coarse_rows"`
	CoarseCols     int          `json:"coarse_cols"`
	CoarseCells    []CoarseCell `json:"coarse_cells"`
}

// Summary pairs the model's description with the local geometry.
type Summary struct {
	Description string `json:"description"`
	Meta        Meta   `json:"_meta"`
}

// Summarize sends the labeled screenshot to the vision model and attaches
// coarse-grid geometry computed locally.
func (s *Summarizer) Summarize(ctx context.Context, imagePNG []byte, table *grid.Table, taskHint string, coarseRows, coarseCols int) (*Summary, error) {
	if coarseRows <= 0 {
		coarseRows = 3
	}
	if coarseCols <= 0 {
		coarseCols = 3
	}

	userPrompt := "Describe this screen."
	if taskHint != "" {
		userPrompt = fmt.Sprintf("Describe this screen. Pay particular attention to anything relevant to: %s", taskHint)
	}

	encoded := base64.StdEncoding.EncodeToString(imagePNG)
	description, err := s.client.Describe(ctx, summarizerSystemPrompt, userPrompt, encoded)
	if err != nil {
		return nil, fmt.Errorf("screen description failed: %w", err)
	}

	width, height := table.Viewport()
	cellWidth, _ := table.CellSize()

	meta := Meta{
		ViewportWidth:  width,
		ViewportHeight: height,
		CellSize:       cellWidth,
		IndexedCells:   table.Len(),
		CoarseRows:     coarseRows,
		CoarseCols:     coarseCols,
	}

	for row := 0; row < coarseRows; row++ {
		for col := 0; col < coarseCols; col++ {
			x, y, err := grid.CoarseCellCenter(width, height, coarseRows, coarseCols, row, col)
			if err != nil {
				return nil, err
			}
			meta.CoarseCells = append(meta.CoarseCells, CoarseCell{
				Row: row, Col: col, CenterX: x, CenterY: y,
			})
		}
	}

	logger.Debug("Screen summarized", "description_len", len(description),
		"coarse_rows", coarseRows, "coarse_cols", coarseCols)

	return &Summary{Description: description, Meta: meta}, nil
}
