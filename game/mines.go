package game

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/util/collections"
)

// Rand is the random source mines are drawn from. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

type MineGenerator struct {
	rand Rand
	log  logrus.FieldLogger
}

func NewMineGenerator(rand Rand) *MineGenerator {
	return &MineGenerator{rand: rand, log: Log}
}

// Place lays mineCount mines on the grid by rejection sampling, never on the
// safe cell nor any of its neighbors
func (gen *MineGenerator) Place(grid *Grid, safeCol, safeRow, mineCount int) error {
	safeCell, err := grid.CellAt(safeCol, safeRow)
	if err != nil {
		return err
	}

	excluded := collections.SetOf(safeCell.idx)
	for _, neighbor := range grid.neighbors(safeCell) {
		excluded.Add(neighbor.idx)
	}

	candidates := grid.NumCells() - excluded.Len()
	if mineCount < 0 || mineCount > candidates {
		return errors.Wrapf(ErrInvalidDifficulty,
			"%d mines do not fit in the %d cells away from (%d, %d)",
			mineCount, candidates, safeCol, safeRow)
	}

	draws := 0
	for placed := 0; placed < mineCount; placed++ {
		var cell *Cell
		for {
			draws++
			col := gen.rand.Intn(grid.width)
			row := gen.rand.Intn(grid.height)
			cell = grid.cellAt(col, row)
			if !cell.isMine && !excluded.Contains(cell.idx) {
				break
			}
		}
		grid.setMine(cell)
	}

	gen.log.WithFields(logrus.Fields{
		"mines": mineCount,
		"safe":  safeCell.String(),
		"draws": draws,
	}).Debug("placed mines")

	return nil
}
