package game

import "github.com/pkg/errors"

// Grid owns every cell of a board, stored row-major
type Grid struct {
	width, height int // in number of cells
	cells         []Cell
}

func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, errors.Wrapf(ErrInvalidDifficulty, "grid size %dx%d", width, height)
	}

	grid := &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			idx := row*width + col
			grid.cells[idx] = Cell{col: col, row: row, idx: idx}
		}
	}

	return grid, nil
}

func (grid *Grid) Width() int {
	return grid.width
}

func (grid *Grid) Height() int {
	return grid.height
}

func (grid *Grid) NumCells() int {
	return grid.width * grid.height
}

// Cells returns every cell in row-major order
func (grid *Grid) Cells() []*Cell {
	cells := make([]*Cell, len(grid.cells))
	for i := range grid.cells {
		cells[i] = &grid.cells[i]
	}
	return cells
}

func (grid *Grid) inBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < grid.width && row < grid.height
}

func (grid *Grid) cellAt(col, row int) *Cell {
	if grid.inBounds(col, row) {
		return &grid.cells[row*grid.width+col]
	}
	return nil
}

func (grid *Grid) CellAt(col, row int) (*Cell, error) {
	cell := grid.cellAt(col, row)
	if cell == nil {
		return nil, invalidCoordinate(col, row)
	}
	return cell, nil
}

// Neighbors returns the in-bounds cells surrounding (col, row), scanning the
// 3x3 block row by row and skipping the center
func (grid *Grid) Neighbors(col, row int) ([]*Cell, error) {
	cell, err := grid.CellAt(col, row)
	if err != nil {
		return nil, err
	}
	return grid.neighbors(cell), nil
}

func (grid *Grid) neighbors(cell *Cell) []*Cell {
	neighbors := make([]*Cell, 0, 8)
	for row := cell.row - 1; row <= cell.row+1; row++ {
		for col := cell.col - 1; col <= cell.col+1; col++ {
			if col == cell.col && row == cell.row {
				continue
			}
			if neighbor := grid.cellAt(col, row); neighbor != nil {
				neighbors = append(neighbors, neighbor)
			}
		}
	}
	return neighbors
}

func (grid *Grid) countAdjacentMines(cell *Cell) int {
	count := 0
	for _, neighbor := range grid.neighbors(cell) {
		if neighbor.isMine {
			count++
		}
	}
	return count
}

// AdjacentMines returns the number of mines around (col, row), computing and
// caching it on first use
func (grid *Grid) AdjacentMines(col, row int) (int, error) {
	cell, err := grid.CellAt(col, row)
	if err != nil {
		return 0, err
	}
	return grid.adjacentMines(cell), nil
}

func (grid *Grid) adjacentMines(cell *Cell) int {
	if !cell.countCached {
		cell.adjacentMines = grid.countAdjacentMines(cell)
		cell.countCached = true
	}
	return cell.adjacentMines
}

// RevealCell marks the cell revealed, unless it is flagged
func (grid *Grid) RevealCell(col, row int) error {
	cell, err := grid.CellAt(col, row)
	if err != nil {
		return err
	}
	grid.reveal(cell)
	return nil
}

func (grid *Grid) reveal(cell *Cell) bool {
	if cell.isFlagged || cell.isRevealed {
		return false
	}
	cell.isRevealed = true
	return true
}

// ToggleFlag flips the flag of a hidden cell; revealed cells are left alone
func (grid *Grid) ToggleFlag(col, row int) error {
	cell, err := grid.CellAt(col, row)
	if err != nil {
		return err
	}
	grid.toggleFlag(cell)
	return nil
}

func (grid *Grid) toggleFlag(cell *Cell) bool {
	if cell.isRevealed {
		return false
	}
	cell.isFlagged = !cell.isFlagged
	return true
}

func (grid *Grid) setMine(cell *Cell) {
	if cell.isMine {
		return
	}
	cell.isMine = true

	cell.countCached = false
	for _, neighbor := range grid.neighbors(cell) {
		neighbor.countCached = false
	}
}

func (grid *Grid) MineCount() int {
	count := 0
	for i := range grid.cells {
		if grid.cells[i].isMine {
			count++
		}
	}
	return count
}

func (grid *Grid) FlagCount() int {
	count := 0
	for i := range grid.cells {
		if grid.cells[i].isFlagged {
			count++
		}
	}
	return count
}
