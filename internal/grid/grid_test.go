package grid

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		height      int
		cellSize    int
		wantLen     int
		wantCols    int
		wantRows    int
		wantCenters []image.Point
	}{
		{
			name:     "2x2 exact fit",
			width:    100,
			height:   100,
			cellSize: 50,
			wantLen:  4,
			wantCols: 2,
			wantRows: 2,
			wantCenters: []image.Point{
				{X: 25, Y: 25}, {X: 75, Y: 25},
				{X: 25, Y: 75}, {X: 75, Y: 75},
			},
		},
		{
			name:     "trailing partial column",
			width:    120,
			height:   80,
			cellSize: 50,
			wantLen:  6,
			wantCols: 3,
			wantRows: 2,
			wantCenters: []image.Point{
				{X: 25, Y: 25}, {X: 75, Y: 25}, {X: 125, Y: 25},
				{X: 25, Y: 75}, {X: 75, Y: 75}, {X: 125, Y: 75},
			},
		},
		{
			name:     "single cell smaller than viewport",
			width:    30,
			height:   40,
			cellSize: 50,
			wantLen:  1,
			wantCols: 1,
			wantRows: 1,
			wantCenters: []image.Point{
				{X: 25, Y: 25},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Build(tt.width, tt.height, SquareSpec(tt.cellSize))
			require.NoError(t, err)

			assert.Equal(t, tt.wantLen, table.Len())
			assert.Equal(t, tt.wantCols, table.Cols())
			assert.Equal(t, tt.wantRows, table.Rows())
			assert.Equal(t, tt.wantCenters, table.Centers())
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a, err := Build(1920, 1080, SquareSpec(DefaultCellSize))
	require.NoError(t, err)
	b, err := Build(1920, 1080, SquareSpec(DefaultCellSize))
	require.NoError(t, err)

	assert.Equal(t, a.Len(), b.Len())
	assert.Equal(t, a.Centers(), b.Centers())
}

func TestBuild_InvalidDimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		spec   Spec
	}{
		{name: "zero width", width: 0, height: 100, spec: SquareSpec(50)},
		{name: "negative height", width: 100, height: -1, spec: SquareSpec(50)},
		{name: "zero cell width", width: 100, height: 100, spec: Spec{CellWidth: 0, CellHeight: 50}},
		{name: "negative cell height", width: 100, height: 100, spec: Spec{CellWidth: 50, CellHeight: -10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Build(tt.width, tt.height, tt.spec)
			assert.Nil(t, table)

			var dimErr *InvalidDimensionsError
			assert.ErrorAs(t, err, &dimErr)
		})
	}
}

func TestBuild_RowMajorOrdering(t *testing.T) {
	table, err := Build(370, 240, SquareSpec(50))
	require.NoError(t, err)

	centers := table.Centers()
	cols := table.Cols()
	for i := 1; i < len(centers); i++ {
		prevRow := (i - 1) / cols
		row := i / cols
		if row == prevRow {
			assert.Greater(t, centers[i].X, centers[i-1].X, "index %d", i)
		} else {
			assert.Equal(t, prevRow+1, row, "index %d", i)
			assert.Greater(t, centers[i].Y, centers[i-1].Y, "index %d", i)
		}
	}
}

func TestIndexToPixel_Bounds(t *testing.T) {
	table, err := Build(100, 100, SquareSpec(50))
	require.NoError(t, err)

	for _, index := range []int{-1, table.Len()} {
		_, _, err := table.IndexToPixel(index)

		var rangeErr *OutOfRangeError
		require.ErrorAs(t, err, &rangeErr, "index %d", index)
		assert.Equal(t, index, rangeErr.Index)
		assert.Equal(t, table.Len(), rangeErr.Size)
	}
}

func TestPixelToNearestIndex_RoundTrip(t *testing.T) {
	for _, size := range []int{50, 64} {
		table, err := Build(1024, 768, SquareSpec(size))
		require.NoError(t, err)

		for index := 0; index < table.Len(); index++ {
			x, y, err := table.IndexToPixel(index)
			require.NoError(t, err)

			got, err := table.PixelToNearestIndex(x, y)
			require.NoError(t, err)
			assert.Equal(t, index, got, "cell size %d index %d", size, index)
		}
	}
}

func TestPixelToNearestIndex_OutOfBounds(t *testing.T) {
	table, err := Build(100, 100, SquareSpec(50))
	require.NoError(t, err)

	tests := []struct {
		name string
		x, y int
	}{
		{name: "negative x", x: -1, y: 10},
		{name: "negative y", x: 10, y: -1},
		{name: "beyond right edge", x: 100, y: 10},
		{name: "beyond bottom edge", x: 10, y: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := table.PixelToNearestIndex(tt.x, tt.y)

			var boundsErr *OutOfBoundsError
			assert.ErrorAs(t, err, &boundsErr)
		})
	}
}

func TestPixelToNearestIndex_NonSquareCells(t *testing.T) {
	table, err := Build(200, 100, Spec{CellWidth: 100, CellHeight: 25})
	require.NoError(t, err)
	require.Equal(t, 8, table.Len())

	index, err := table.PixelToNearestIndex(150, 30)
	require.NoError(t, err)
	assert.Equal(t, 3, index)
}

func TestCoarseCellCenter(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
		wantX    int
		wantY    int
	}{
		{name: "top-left", row: 0, col: 0, wantX: 160, wantY: 120},
		{name: "center", row: 1, col: 1, wantX: 480, wantY: 360},
		{name: "bottom-right", row: 2, col: 2, wantX: 800, wantY: 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, err := CoarseCellCenter(960, 720, 3, 3, tt.row, tt.col)
			require.NoError(t, err)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestCoarseCellCenter_OutOfRange(t *testing.T) {
	_, _, err := CoarseCellCenter(960, 720, 3, 3, 3, 0)

	var rangeErr *OutOfRangeError
	assert.ErrorAs(t, err, &rangeErr)
}
