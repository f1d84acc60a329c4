package random

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/game"
)

// Director reveals hidden, unflagged cells at random
type Director struct {
	session *game.GameSession
	rand    *rand.Rand
	log     logrus.FieldLogger
}

func New(seed int64) *Director {
	return &Director{rand: rand.New(rand.NewSource(seed))}
}

func (director *Director) Init(session *game.GameSession) {
	director.session = session
	if director.rand == nil {
		director.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if director.log == nil {
		director.log = game.Log.WithField("director", "random")
	}
}

// Pick returns a random hidden, unflagged cell of the view
func (director *Director) Pick(view game.BoardView) (game.CellView, bool) {
	unrevealedCells := make([]game.CellView, 0, len(view.Cells))
	for _, cell := range view.Cells {
		if !cell.IsRevealed && !cell.IsFlagged {
			unrevealedCells = append(unrevealedCells, cell)
		}
	}
	if len(unrevealedCells) == 0 {
		return game.CellView{}, false
	}
	return unrevealedCells[director.rand.Intn(len(unrevealedCells))], true
}

func (director *Director) Act() bool {
	view := director.session.View().Redacted()
	if view.State.IsOver() {
		return false
	}

	cell, ok := director.Pick(view)
	if !ok {
		return false
	}

	director.log.WithFields(logrus.Fields{"col": cell.Col, "row": cell.Row}).Debug("random reveal")
	if _, err := director.session.HandleReveal(cell.Col, cell.Row); err != nil {
		director.log.WithError(err).Error("reveal")
		return false
	}
	return true
}

func (director *Director) End() {
	director.session = nil
}
