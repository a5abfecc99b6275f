package grid

import "fmt"

// InvalidDimensionsError indicates a grid build was requested with a
// non-positive viewport or cell size.
type InvalidDimensionsError struct {
	Width      int
	Height     int
	CellWidth  int
	CellHeight int
}

func (e *InvalidDimensionsError) Error() string {
	return fmt.Sprintf("invalid grid dimensions: viewport %dx%d, cell %dx%d (all must be positive)",
		e.Width, e.Height, e.CellWidth, e.CellHeight)
}

// OutOfRangeError indicates a cell index outside the built table.
type OutOfRangeError struct {
	Index int
	Size  int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("grid index %d out of range (size=%d)", e.Index, e.Size)
}

// OutOfBoundsError indicates a pixel coordinate outside the built table's extent.
type OutOfBoundsError struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("pixel (%d, %d) outside grid extent %dx%d", e.X, e.Y, e.Width, e.Height)
}

// NotBuiltError indicates the grid was consulted before any build.
type NotBuiltError struct{}

func (e *NotBuiltError) Error() string {
	return "no grid built yet; capture a grid screenshot first"
}
