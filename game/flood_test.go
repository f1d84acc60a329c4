package game

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridFromRows(t *testing.T, rows ...string) *Grid {
	t.Helper()
	grid, err := (&BoardSnapshot{SerializedBoard: strings.Join(rows, "\n")}).Grid()
	require.NoError(t, err)
	return grid
}

func revealedPicture(grid *Grid) string {
	return snapshotGrid(grid, 0).SerializedBoard
}

func TestRevealCornerScenario(t *testing.T) {
	grid := gridFromRows(t,
		"###",
		"###",
		"##O",
	)

	revealed, err := RevealEngine{}.Reveal(grid, 0, 0)
	require.NoError(t, err)

	assert.Len(t, revealed, 8)
	assert.Equal(t, "...\n...\n..O", revealedPicture(grid))
	assert.Equal(t, [2]int{0, 0}, [2]int{revealed[0].Col(), revealed[0].Row()})
}

func TestRevealNumberDoesNotCascade(t *testing.T) {
	grid := gridFromRows(t,
		"####",
		"#O##",
		"####",
	)

	revealed, err := RevealEngine{}.Reveal(grid, 2, 1)
	require.NoError(t, err)

	assert.Len(t, revealed, 1)
	assert.Equal(t, "####\n#O.#\n####", revealedPicture(grid))

	count, ok := grid.cellAt(2, 1).AdjacentMines()
	assert.True(t, ok)
	assert.Equal(t, 1, count)
}

func TestRevealStopsAtBorder(t *testing.T) {
	grid := gridFromRows(t,
		"#####",
		"#####",
		"OOOOO",
		"#####",
	)

	_, err := RevealEngine{}.Reveal(grid, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		".....",
		".....",
		"OOOOO",
		"#####",
	}, "\n"), revealedPicture(grid))
}

func TestRevealSkipsFlaggedCells(t *testing.T) {
	grid := gridFromRows(t, "##f##")

	revealed, err := RevealEngine{}.Reveal(grid, 0, 0)
	require.NoError(t, err)

	assert.Len(t, revealed, 2)
	assert.Equal(t, "..f##", revealedPicture(grid))

	revealed, err = RevealEngine{}.Reveal(grid, 2, 0)
	require.NoError(t, err)
	assert.Empty(t, revealed)
}

func TestRevealAlreadyRevealedNeighborsAreNotRevisited(t *testing.T) {
	grid := gridFromRows(t,
		"#.#",
		"###",
	)

	revealed, err := RevealEngine{}.Reveal(grid, 0, 1)
	require.NoError(t, err)
	assert.Len(t, revealed, 5)
	for _, cell := range revealed {
		assert.NotEqual(t, [2]int{1, 0}, [2]int{cell.Col(), cell.Row()})
	}
}

func TestRevealInvalidCoordinate(t *testing.T) {
	grid := gridFromRows(t, "###")
	_, err := RevealEngine{}.Reveal(grid, 3, 0)
	assert.True(t, errors.Is(err, ErrInvalidCoordinate))
}

// expectedRegion recomputes the cascade with plain recursion
func expectedRegion(grid *Grid, start *Cell) map[int]bool {
	region := make(map[int]bool)
	var visit func(cell *Cell)
	visit = func(cell *Cell) {
		if region[cell.idx] {
			return
		}
		region[cell.idx] = true
		if grid.countAdjacentMines(cell) != 0 {
			return
		}
		for _, neighbor := range grid.neighbors(cell) {
			visit(neighbor)
		}
	}
	visit(start)
	return region
}

func TestRevealOpensExactlyZeroRegionAndBorder(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		r := rand.New(rand.NewSource(seed))
		grid, err := NewGrid(Hard.Width, Hard.Height)
		require.NoError(t, err)

		col, row := r.Intn(grid.Width()), r.Intn(grid.Height())
		require.NoError(t, NewMineGenerator(r).Place(grid, col, row, Hard.MineCount))

		start := grid.cellAt(col, row)
		require.Equal(t, 0, grid.countAdjacentMines(start))
		expected := expectedRegion(grid, start)

		revealed, err := RevealEngine{}.Reveal(grid, col, row)
		require.NoError(t, err)
		assert.Len(t, revealed, len(expected), "seed %d", seed)

		for _, cell := range grid.Cells() {
			assert.Equal(t, expected[cell.idx], cell.IsRevealed(), "seed %d: %v", seed, cell)
			assert.False(t, cell.IsMine() && cell.IsRevealed(), "seed %d: mine %v revealed", seed, cell)
		}
	}
}

func TestRevealLargeOpenBoard(t *testing.T) {
	grid, err := NewGrid(300, 300)
	require.NoError(t, err)

	revealed, err := RevealEngine{}.Reveal(grid, 150, 150)
	require.NoError(t, err)
	assert.Len(t, revealed, 300*300)
}
