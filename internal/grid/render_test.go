package grid

import (
	"image"
	"image/color"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
)

func TestLabelDot_CentersBoundingBox(t *testing.T) {
	// Box center must sit on the cell center within a pixel regardless of
	// how many digits the label has.
	metrics := labelFace.Metrics()
	center := image.Point{X: 300, Y: 200}

	for _, index := range []int{0, 9, 99, 999} {
		label := strconv.Itoa(index)
		dot := labelDot(center, label)

		advance := font.MeasureString(labelFace, label)
		boxCenterX := (dot.X + advance/2).Round()
		boxTop := dot.Y - metrics.Ascent
		boxCenterY := (boxTop + (metrics.Ascent+metrics.Descent)/2).Round()

		assert.InDelta(t, center.X, boxCenterX, 1, "label %q x", label)
		assert.InDelta(t, center.Y, boxCenterY, 1, "label %q y", label)
	}
}

func TestRenderLabels_DoesNotMutateSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for i := range src.Pix {
		src.Pix[i] = 0x20
	}
	before := make([]uint8, len(src.Pix))
	copy(before, src.Pix)

	table, err := Build(100, 100, SquareSpec(50))
	require.NoError(t, err)

	out := RenderLabels(src, table, DefaultStyle())
	require.NotNil(t, out)
	assert.Equal(t, before, src.Pix, "source image must not be mutated")
}

func TestRenderLabels_DrawsGridLinesAndLabels(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	table, err := Build(100, 100, SquareSpec(50))
	require.NoError(t, err)

	style := Style{
		LineColor: color.NRGBA{R: 255, A: 255},
		TextColor: color.NRGBA{G: 255, A: 255},
	}
	out := RenderLabels(src, table, style)

	// Grid lines at every multiple of the cell size.
	for _, x := range []int{0, 50} {
		r, _, _, _ := out.At(x, 10).RGBA()
		assert.NotZero(t, r, "vertical line at x=%d", x)
	}
	for _, y := range []int{0, 50} {
		r, _, _, _ := out.At(10, y).RGBA()
		assert.NotZero(t, r, "horizontal line at y=%d", y)
	}

	// Each cell has label ink near its center.
	for index := 0; index < table.Len(); index++ {
		cx, cy, err := table.IndexToPixel(index)
		require.NoError(t, err)

		found := false
		for dy := -8; dy <= 8 && !found; dy++ {
			for dx := -8; dx <= 8 && !found; dx++ {
				_, g, _, _ := out.At(cx+dx, cy+dy).RGBA()
				if g != 0 {
					found = true
				}
			}
		}
		assert.True(t, found, "no label ink near center of cell %d", index)
	}
}

func TestRenderLabels_Deterministic(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 120, 80))
	table, err := Build(120, 80, SquareSpec(50))
	require.NoError(t, err)

	a := RenderLabels(src, table, DefaultStyle())
	b := RenderLabels(src, table, DefaultStyle())
	assert.Equal(t, a.Pix, b.Pix)
}
