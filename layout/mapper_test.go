package layout

import (
	"testing"

	"github.com/faiface/pixel"
	"github.com/stretchr/testify/assert"
)

func TestCanvasMapper(t *testing.T) {
	m := CanvasMapper(30, 16)

	col, row, ok := m.ToGrid(pixel.V(700, 500))
	assert.True(t, ok)
	assert.Equal(t, 17, col)
	assert.Equal(t, 12, row)

	col, row, ok = m.ToGrid(pixel.V(0, 0))
	assert.True(t, ok)
	assert.Equal(t, 0, col)
	assert.Equal(t, 0, row)

	col, row, ok = m.ToGrid(pixel.V(39.9, 40))
	assert.True(t, ok)
	assert.Equal(t, 0, col)
	assert.Equal(t, 1, row)
}

func TestCanvasMapperOffBoard(t *testing.T) {
	m := CanvasMapper(9, 9)

	for _, pos := range []pixel.Vec{
		pixel.V(-1, 10),
		pixel.V(10, -0.5),
		pixel.V(360, 10),
		pixel.V(10, 360),
	} {
		_, _, ok := m.ToGrid(pos)
		assert.False(t, ok, "%v", pos)
	}
}

func TestFlippedMapper(t *testing.T) {
	m := Mapper{
		CellSize: 16,
		Width:    9,
		Height:   9,
		Origin:   pixel.V(0, 200),
		FlipY:    true,
	}

	col, row, ok := m.ToGrid(pixel.V(20, 199))
	assert.True(t, ok)
	assert.Equal(t, 1, col)
	assert.Equal(t, 0, row)

	col, row, ok = m.ToGrid(pixel.V(143, 57))
	assert.True(t, ok)
	assert.Equal(t, 8, col)
	assert.Equal(t, 8, row)

	_, _, ok = m.ToGrid(pixel.V(20, 201))
	assert.False(t, ok, "above the board")
}

func TestCellRectContainsMappedPoints(t *testing.T) {
	for _, m := range []Mapper{
		CanvasMapper(5, 4),
		{CellSize: 16, Width: 5, Height: 4, Origin: pixel.V(10, 300), FlipY: true},
	} {
		for row := 0; row < m.Height; row++ {
			for col := 0; col < m.Width; col++ {
				rect := m.CellRect(col, row)
				gotCol, gotRow, ok := m.ToGrid(rect.Center())
				assert.True(t, ok)
				assert.Equal(t, col, gotCol)
				assert.Equal(t, row, gotRow)
			}
		}
		assert.Equal(t, pixel.V(5*m.CellSize, 4*m.CellSize), m.Size())
	}
}
