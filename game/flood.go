package game

import (
	"github.com/gammazero/deque"
	"github.com/they4kman/minefield/util/collections"
)

type NeighborGetter func(*Cell) []*Cell
type Visitor func(*Cell) (expand bool)

// flood visits start and, breadth-first, every cell reachable through cells
// whose visit asked to expand. Each cell is visited at most once.
func flood(start *Cell, visit Visitor, getNeighbors NeighborGetter) {
	visited := collections.SetOf(start.idx)
	var visitQueue deque.Deque
	visitQueue.PushBack(start)

	for visitQueue.Len() > 0 {
		cell := visitQueue.PopFront().(*Cell)
		if !visit(cell) {
			continue
		}

		for _, neighbor := range getNeighbors(cell) {
			if visited.Contains(neighbor.idx) {
				continue
			}
			visited.Add(neighbor.idx)
			visitQueue.PushBack(neighbor)
		}
	}
}

// RevealEngine opens cells, cascading through regions with no adjacent mines
type RevealEngine struct{}

// Reveal opens (col, row). When it has no adjacent mines, every neighbor not
// yet revealed is opened too, and so on through the connected zero region.
// Flagged cells are neither opened nor expanded. The newly revealed cells are
// returned in the order they were opened.
func (RevealEngine) Reveal(grid *Grid, col, row int) ([]*Cell, error) {
	start, err := grid.CellAt(col, row)
	if err != nil {
		return nil, err
	}

	var revealed []*Cell
	if start.isFlagged {
		return revealed, nil
	}

	flood(
		start,
		func(cell *Cell) bool {
			if cell.isFlagged {
				return false
			}
			if grid.reveal(cell) {
				revealed = append(revealed, cell)
			} else if cell != start {
				return false
			}
			return !cell.isMine && grid.adjacentMines(cell) == 0
		},
		grid.neighbors,
	)

	return revealed, nil
}
