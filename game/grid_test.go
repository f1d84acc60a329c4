package game

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coords(cells []*Cell) [][2]int {
	out := make([][2]int, len(cells))
	for i, cell := range cells {
		out[i] = [2]int{cell.Col(), cell.Row()}
	}
	return out
}

func TestNewGridRejectsEmpty(t *testing.T) {
	for _, size := range [][2]int{{0, 5}, {5, 0}, {-1, 3}} {
		_, err := NewGrid(size[0], size[1])
		assert.True(t, errors.Is(err, ErrInvalidDifficulty), "size %v", size)
	}
}

func TestNeighborCounts(t *testing.T) {
	grid, err := NewGrid(5, 4)
	require.NoError(t, err)

	for _, cell := range grid.Cells() {
		neighbors, err := grid.Neighbors(cell.Col(), cell.Row())
		require.NoError(t, err)

		onColEdge := cell.Col() == 0 || cell.Col() == grid.Width()-1
		onRowEdge := cell.Row() == 0 || cell.Row() == grid.Height()-1
		expected := 8
		switch {
		case onColEdge && onRowEdge:
			expected = 3
		case onColEdge || onRowEdge:
			expected = 5
		}
		assert.Len(t, neighbors, expected, "%v", cell)
		assert.NotContains(t, neighbors, cell)
	}
}

func TestNeighborsRowMajorOrder(t *testing.T) {
	grid, err := NewGrid(3, 3)
	require.NoError(t, err)

	neighbors, err := grid.Neighbors(1, 1)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{
		{0, 0}, {1, 0}, {2, 0},
		{0, 1}, {2, 1},
		{0, 2}, {1, 2}, {2, 2},
	}, coords(neighbors))

	neighbors, err = grid.Neighbors(0, 0)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 0}, {0, 1}, {1, 1}}, coords(neighbors))
}

func TestSingleCellGridHasNoNeighbors(t *testing.T) {
	grid, err := NewGrid(1, 1)
	require.NoError(t, err)

	neighbors, err := grid.Neighbors(0, 0)
	require.NoError(t, err)
	assert.Empty(t, neighbors)
}

func TestOutOfBoundsCoordinates(t *testing.T) {
	grid, err := NewGrid(3, 2)
	require.NoError(t, err)

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 2}, {100, 100}} {
		_, err := grid.CellAt(pos[0], pos[1])
		assert.True(t, errors.Is(err, ErrInvalidCoordinate), "CellAt %v", pos)

		_, err = grid.Neighbors(pos[0], pos[1])
		assert.True(t, errors.Is(err, ErrInvalidCoordinate), "Neighbors %v", pos)

		assert.True(t, errors.Is(grid.RevealCell(pos[0], pos[1]), ErrInvalidCoordinate), "RevealCell %v", pos)
		assert.True(t, errors.Is(grid.ToggleFlag(pos[0], pos[1]), ErrInvalidCoordinate), "ToggleFlag %v", pos)

		_, err = grid.AdjacentMines(pos[0], pos[1])
		assert.True(t, errors.Is(err, ErrInvalidCoordinate), "AdjacentMines %v", pos)
	}
}

func TestRevealCellSkipsFlagged(t *testing.T) {
	grid, err := NewGrid(2, 2)
	require.NoError(t, err)

	require.NoError(t, grid.ToggleFlag(0, 0))
	require.NoError(t, grid.RevealCell(0, 0))
	cell, _ := grid.CellAt(0, 0)
	assert.True(t, cell.IsFlagged())
	assert.False(t, cell.IsRevealed())

	require.NoError(t, grid.RevealCell(1, 1))
	cell, _ = grid.CellAt(1, 1)
	assert.True(t, cell.IsRevealed())
}

func TestToggleFlagOnRevealedCellIsNoop(t *testing.T) {
	grid, err := NewGrid(2, 2)
	require.NoError(t, err)

	require.NoError(t, grid.RevealCell(1, 0))
	require.NoError(t, grid.ToggleFlag(1, 0))

	cell, _ := grid.CellAt(1, 0)
	assert.True(t, cell.IsRevealed())
	assert.False(t, cell.IsFlagged())

	require.NoError(t, grid.ToggleFlag(0, 0))
	require.NoError(t, grid.ToggleFlag(0, 0))
	cell, _ = grid.CellAt(0, 0)
	assert.False(t, cell.IsFlagged())
}

func TestAdjacentMinesIsCached(t *testing.T) {
	grid, err := NewGrid(3, 3)
	require.NoError(t, err)
	grid.setMine(grid.cellAt(2, 2))
	grid.setMine(grid.cellAt(0, 1))

	count, err := grid.AdjacentMines(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	cached, ok := grid.cellAt(1, 1).AdjacentMines()
	assert.True(t, ok)
	assert.Equal(t, 2, cached)

	// laying another mine nearby invalidates the cache
	grid.setMine(grid.cellAt(1, 0))
	_, ok = grid.cellAt(1, 1).AdjacentMines()
	assert.False(t, ok)

	count, err = grid.AdjacentMines(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 3, grid.MineCount())
}
