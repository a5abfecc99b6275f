package grid

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Style controls the grid overlay rendering.
type Style struct {
	LineColor color.Color
	TextColor color.Color
}

// DefaultStyle matches the reference overlay: translucent red lines, stronger
// red labels.
func DefaultStyle() Style {
	return Style{
		LineColor: color.NRGBA{R: 255, A: 120},
		TextColor: color.NRGBA{R: 255, A: 200},
	}
}

// labelFace is the deterministic fallback font. Face7x13 ships with
// golang.org/x/image, so rendering never depends on system fonts.
var labelFace font.Face = basicfont.Face7x13

// RenderLabels returns a copy of src with grid lines drawn at every cell-size
// multiple and each cell's index drawn centered on its recorded center. The
// input image is not mutated. Applying RenderLabels to an already-labeled
// image composes two overlays and is out of contract; always render from the
// original capture.
func RenderLabels(src image.Image, table *Table, style Style) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)

	w, h := table.Viewport()
	cellW, cellH := table.CellSize()
	lineSrc := image.NewUniform(style.LineColor)

	for x := 0; x < w; x += cellW {
		drawVerticalLine(dst, lineSrc, x, h)
	}
	for y := 0; y < h; y += cellH {
		drawHorizontalLine(dst, lineSrc, y, w)
	}

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(style.TextColor),
		Face: labelFace,
	}
	for i, center := range table.centers {
		drawer.Dot = labelDot(center, strconv.Itoa(i))
		drawer.DrawString(strconv.Itoa(i))
	}

	return dst
}

// labelDot returns the drawing origin (baseline start) that centers the
// label's bounding box on the cell center, independent of digit count.
func labelDot(center image.Point, label string) fixed.Point26_6 {
	advance := font.MeasureString(labelFace, label)
	metrics := labelFace.Metrics()
	// Box height is ascent+descent; the baseline sits ascent below the top.
	top := fixed.I(center.Y) - (metrics.Ascent+metrics.Descent)/2
	return fixed.Point26_6{
		X: fixed.I(center.X) - advance/2,
		Y: top + metrics.Ascent,
	}
}

func drawVerticalLine(dst *image.RGBA, src *image.Uniform, x, height int) {
	draw.Draw(dst, image.Rect(x, 0, x+1, height), src, image.Point{}, draw.Over)
}

func drawHorizontalLine(dst *image.RGBA, src *image.Uniform, y, width int) {
	draw.Draw(dst, image.Rect(0, y, width, y+1), src, image.Point{}, draw.Over)
}
