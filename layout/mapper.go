// Package layout maps between screen pixels and board cells.
package layout

import (
	"math"

	"github.com/faiface/pixel"
)

// CanvasCellSize is the size of a cell on the browser canvas, in pixels
const CanvasCellSize = 40

type Mapper struct {
	CellSize      float64
	Width, Height int // in number of cells

	// Screen position of the board's top-left corner
	Origin pixel.Vec
	// Set when screen Y grows upwards, as in a pixel window
	FlipY bool
}

// CanvasMapper maps offsets on a browser canvas, whose origin is the top-left corner
func CanvasMapper(width, height int) Mapper {
	return Mapper{
		CellSize: CanvasCellSize,
		Width:    width,
		Height:   height,
	}
}

// ToGrid returns the cell under pos, or false when pos is off the board
func (m Mapper) ToGrid(pos pixel.Vec) (col, row int, ok bool) {
	rel := pos.Sub(m.Origin)
	if m.FlipY {
		rel.Y = -rel.Y
	}
	if rel.X < 0 || rel.Y < 0 || m.CellSize <= 0 {
		return 0, 0, false
	}

	col = int(math.Floor(rel.X / m.CellSize))
	row = int(math.Floor(rel.Y / m.CellSize))
	if col >= m.Width || row >= m.Height {
		return 0, 0, false
	}
	return col, row, true
}

// CellRect returns the screen rectangle covered by the cell
func (m Mapper) CellRect(col, row int) pixel.Rect {
	minX := m.Origin.X + float64(col)*m.CellSize
	if m.FlipY {
		top := m.Origin.Y - float64(row)*m.CellSize
		return pixel.R(minX, top-m.CellSize, minX+m.CellSize, top)
	}
	minY := m.Origin.Y + float64(row)*m.CellSize
	return pixel.R(minX, minY, minX+m.CellSize, minY+m.CellSize)
}

// Size returns the board's size on screen
func (m Mapper) Size() pixel.Vec {
	return pixel.V(float64(m.Width)*m.CellSize, float64(m.Height)*m.CellSize)
}
