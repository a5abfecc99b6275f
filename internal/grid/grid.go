// Package grid implements the numbered-grid screen addressing scheme: a
// deterministic partition of a viewport into fixed-size cells, addressed by a
// flat row-major index, with exact index<->pixel conversions and an optional
// labeled overlay for vision models.
package grid

import "image"

// DefaultCellSize is the cell edge used when no size is configured.
const DefaultCellSize = 50

// Spec configures the fine cell partition. Cells are square in the default
// configuration but width and height may differ.
type Spec struct {
	CellWidth  int
	CellHeight int
}

// SquareSpec returns a Spec with equal cell width and height.
func SquareSpec(size int) Spec {
	return Spec{CellWidth: size, CellHeight: size}
}

// Table is an immutable snapshot of one grid build: the viewport it was built
// against and the ordered cell centers. Indices issued against one Table are
// meaningless against another; callers hold the handle they built.
type Table struct {
	width   int
	height  int
	cellW   int
	cellH   int
	cols    int
	rows    int
	centers []image.Point
}

// Build partitions a width x height viewport into cells of spec size and
// records each cell's center in row-major order (index 0 is the top-left
// cell, increasing left-to-right then top-to-bottom).
//
// Every cell whose origin lies inside the viewport gets an index, including
// trailing partial cells; their centers are computed from the full cell size
// and can fall past the viewport edge (120 wide at cell 50 yields a third
// column centered at x=125). Build is a pure function of its inputs.
func Build(width, height int, spec Spec) (*Table, error) {
	if width <= 0 || height <= 0 || spec.CellWidth <= 0 || spec.CellHeight <= 0 {
		return nil, &InvalidDimensionsError{
			Width:      width,
			Height:     height,
			CellWidth:  spec.CellWidth,
			CellHeight: spec.CellHeight,
		}
	}

	cols := width / spec.CellWidth
	if width%spec.CellWidth != 0 {
		cols++
	}
	rows := height / spec.CellHeight
	if height%spec.CellHeight != 0 {
		rows++
	}

	centers := make([]image.Point, 0, cols*rows)
	for y := 0; y < height; y += spec.CellHeight {
		for x := 0; x < width; x += spec.CellWidth {
			centers = append(centers, image.Point{
				X: x + spec.CellWidth/2,
				Y: y + spec.CellHeight/2,
			})
		}
	}

	return &Table{
		width:   width,
		height:  height,
		cellW:   spec.CellWidth,
		cellH:   spec.CellHeight,
		cols:    cols,
		rows:    rows,
		centers: centers,
	}, nil
}

// Len returns the number of cells in the table.
func (t *Table) Len() int {
	return len(t.centers)
}

// Cols returns the number of columns visited during the build.
func (t *Table) Cols() int {
	return t.cols
}

// Rows returns the number of rows visited during the build.
func (t *Table) Rows() int {
	return t.rows
}

// Viewport returns the viewport dimensions the table was built against.
func (t *Table) Viewport() (width, height int) {
	return t.width, t.height
}

// CellSize returns the cell dimensions used at build time.
func (t *Table) CellSize() (width, height int) {
	return t.cellW, t.cellH
}

// IndexToPixel returns the exact stored center of the given cell. It fails
// with OutOfRangeError for indices outside [0, Len).
func (t *Table) IndexToPixel(index int) (x, y int, err error) {
	if index < 0 || index >= len(t.centers) {
		return 0, 0, &OutOfRangeError{Index: index, Size: len(t.centers)}
	}
	c := t.centers[index]
	return c.X, c.Y, nil
}

// PixelToNearestIndex returns the flat index of the cell containing the given
// pixel. It fails with OutOfBoundsError when the pixel falls outside the
// extent covered by the built cells.
func (t *Table) PixelToNearestIndex(x, y int) (int, error) {
	if x < 0 || y < 0 {
		return 0, &OutOfBoundsError{X: x, Y: y, Width: t.width, Height: t.height}
	}
	col := x / t.cellW
	row := y / t.cellH
	if col >= t.cols || row >= t.rows {
		return 0, &OutOfBoundsError{X: x, Y: y, Width: t.width, Height: t.height}
	}
	return row*t.cols + col, nil
}

// Centers returns a copy of the ordered cell centers.
func (t *Table) Centers() []image.Point {
	out := make([]image.Point, len(t.centers))
	copy(out, t.centers)
	return out
}

// CoarseCellCenter maps a (row, col) cell of an independent rows x cols
// logical partition of the viewport to its pixel center. The coarse grid is
// for qualitative spatial reasoning only; precise clicking goes through the
// fine numbered grid.
func CoarseCellCenter(width, height, rows, cols, row, col int) (x, y int, err error) {
	if width <= 0 || height <= 0 || rows <= 0 || cols <= 0 {
		return 0, 0, &InvalidDimensionsError{Width: width, Height: height, CellWidth: cols, CellHeight: rows}
	}
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return 0, 0, &OutOfRangeError{Index: row*cols + col, Size: rows * cols}
	}
	cellW := float64(width) / float64(cols)
	cellH := float64(height) / float64(rows)
	return int((float64(col) + 0.5) * cellW), int((float64(row) + 0.5) * cellH), nil
}
