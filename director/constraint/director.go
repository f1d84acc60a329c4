package constraint

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/director/random"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/util/collections"
)

// Number of rounds of observation splitting per act
const simplifyRounds = 4

// Director plays from what the revealed numbers prove, and guesses the least
// risky cell when nothing is proven
type Director struct {
	session *game.GameSession
	random  *random.Director
	rand    *rand.Rand
	log     logrus.FieldLogger
}

// Observation says numMines of the cells hold a mine
type Observation struct {
	origin   *game.CellView
	numMines int
	cells    collections.Set[int]
}

type cellAction struct {
	idx  int
	flag bool
}

func New(seed int64) *Director {
	return &Director{
		random: random.New(seed),
		rand:   rand.New(rand.NewSource(seed)),
	}
}

func (observation Observation) String() string {
	indexes := make([]int, 0, len(observation.cells))
	for idx := range observation.cells {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	cellsRepr := make([]string, len(indexes))
	for i, idx := range indexes {
		cellsRepr[i] = fmt.Sprint(idx)
	}

	originRepr := "?"
	if observation.origin != nil {
		originRepr = fmt.Sprintf("(%d, %d)", observation.origin.Col, observation.origin.Row)
	}

	return fmt.Sprintf("Obs[%8s, %d ε %s]", originRepr, observation.numMines, strings.Join(cellsRepr, ", "))
}

func (observation Observation) MineProbability() float64 {
	return float64(observation.numMines) / float64(len(observation.cells))
}

func (director *Director) Init(session *game.GameSession) {
	director.session = session
	if director.random == nil {
		director.random = &random.Director{}
	}
	if director.rand == nil {
		director.rand = rand.New(rand.NewSource(0))
	}
	if director.log == nil {
		director.log = game.Log.WithField("director", "constraint")
	}
	director.random.Init(session)
}

func (director *Director) Act() bool {
	view := director.session.View().Redacted()
	if view.State.IsOver() {
		return false
	}
	if view.State == game.NotStarted {
		return director.random.Act()
	}

	observations := simplify(observe(view))

	actors := []func(game.BoardView, []*Observation) []cellAction{
		director.actDeliberate,
		director.actRemainingMines,
		director.actLowestProbability,
	}
	for _, actor := range actors {
		if actions := actor(view, observations); len(actions) > 0 {
			return director.apply(view, actions)
		}
	}

	return director.random.Act()
}

func (director *Director) apply(view game.BoardView, actions []cellAction) bool {
	done := collections.Set[int]{}
	for _, action := range actions {
		if done.Contains(action.idx) {
			continue
		}
		done.Add(action.idx)

		col, row := action.idx%view.Width, action.idx/view.Width
		director.log.WithFields(logrus.Fields{
			"col":  col,
			"row":  row,
			"flag": action.flag,
		}).Debug("act")

		var state game.SessionState
		var err error
		if action.flag {
			state, err = director.session.HandleFlagToggle(col, row)
		} else {
			state, err = director.session.HandleReveal(col, row)
		}
		if err != nil {
			director.log.WithError(err).Error("act")
			return false
		}
		if state.IsOver() {
			break
		}
	}
	return true
}

func (director *Director) actDeliberate(_ game.BoardView, observations []*Observation) []cellAction {
	var actions []cellAction
	for _, observation := range observations {
		switch observation.numMines {
		case 0:
			for idx := range observation.cells {
				actions = append(actions, cellAction{idx: idx})
			}
		case len(observation.cells):
			for idx := range observation.cells {
				actions = append(actions, cellAction{idx: idx, flag: true})
			}
		}
	}
	sortActions(actions)
	return actions
}

// actRemainingMines flags every hidden cell once they are all known to be
// mines, and reveals them all once no mine is left unflagged
func (director *Director) actRemainingMines(view game.BoardView, _ []*Observation) []cellAction {
	hidden := hiddenCells(view)
	if len(hidden) == 0 {
		return nil
	}

	var flag bool
	switch view.RemainingMines {
	case len(hidden):
		flag = true
	case 0:
		flag = false
	default:
		return nil
	}

	actions := make([]cellAction, len(hidden))
	for i, idx := range hidden {
		actions[i] = cellAction{idx: idx, flag: flag}
	}
	return actions
}

func (director *Director) actLowestProbability(view game.BoardView, observations []*Observation) []cellAction {
	cellProbabilities := make(map[int]float64)
	for _, observation := range observations {
		probability := observation.MineProbability()
		for idx := range observation.cells {
			if past, ok := cellProbabilities[idx]; !ok || probability > past {
				cellProbabilities[idx] = probability
			}
		}
	}
	if len(cellProbabilities) == 0 {
		return nil
	}

	lowestProbability := math.Inf(1)
	var lowestProbabilityCells []int
	for idx, probability := range cellProbabilities {
		switch {
		case probability < lowestProbability:
			lowestProbability = probability
			lowestProbabilityCells = []int{idx}
		case probability == lowestProbability:
			lowestProbabilityCells = append(lowestProbabilityCells, idx)
		}
	}

	// an unconstrained cell may be a safer bet than any constrained one
	hidden := hiddenCells(view)
	var unconstrained []int
	for _, idx := range hidden {
		if _, ok := cellProbabilities[idx]; !ok {
			unconstrained = append(unconstrained, idx)
		}
	}
	if len(unconstrained) > 0 {
		density := float64(view.RemainingMines) / float64(len(hidden))
		if density < lowestProbability {
			lowestProbabilityCells = unconstrained
		}
	}

	sort.Ints(lowestProbabilityCells)
	pick := lowestProbabilityCells[director.rand.Intn(len(lowestProbabilityCells))]
	director.log.WithFields(logrus.Fields{
		"probability": lowestProbability,
		"candidates":  len(lowestProbabilityCells),
	}).Debug("guess")

	return []cellAction{{idx: pick}}
}

func (director *Director) End() {
	director.random.End()
	director.session = nil
}

func hiddenCells(view game.BoardView) []int {
	var hidden []int
	for i, cell := range view.Cells {
		if !cell.IsRevealed && !cell.IsFlagged {
			hidden = append(hidden, i)
		}
	}
	return hidden
}

// observe builds one observation per revealed number still touching hidden cells
func observe(view game.BoardView) []*Observation {
	var observations []*Observation
	for i := range view.Cells {
		cell := view.Cells[i]
		if !cell.IsRevealed || cell.IsMine || cell.AdjacentMines == 0 {
			continue
		}

		observation := &Observation{
			origin:   &view.Cells[i],
			numMines: cell.AdjacentMines,
			cells:    collections.Set[int]{},
		}
		for row := cell.Row - 1; row <= cell.Row+1; row++ {
			for col := cell.Col - 1; col <= cell.Col+1; col++ {
				neighbor, ok := view.CellAt(col, row)
				if !ok || neighbor.IsRevealed {
					continue
				}
				if neighbor.IsFlagged {
					observation.numMines--
				} else {
					observation.cells.Add(row*view.Width + col)
				}
			}
		}

		if observation.cells.Len() > 0 {
			observations = addObservation(observations, observation)
		}
	}
	return observations
}

// simplify splits observations contained in one another: if A's cells are a
// subset of B's, the cells only in B hold B's mines minus A's
func simplify(observations []*Observation) []*Observation {
	for round := 0; round < simplifyRounds; round++ {
		added := false
		for _, observation := range observations {
			for _, other := range observations {
				if other == observation || other.cells.Len() <= observation.cells.Len() {
					continue
				}
				if _, isSubset := observation.cells.IntersectionEx(other.cells); !isSubset {
					continue
				}

				splitObs := &Observation{
					numMines: other.numMines - observation.numMines,
					cells:    other.cells.Difference(observation.cells),
				}
				before := len(observations)
				observations = addObservation(observations, splitObs)
				added = added || len(observations) > before
			}
		}
		if !added {
			break
		}
	}
	return observations
}

func addObservation(observations []*Observation, observation *Observation) []*Observation {
	// Don't add vacuous observations
	if observation.cells.Len() == 0 {
		return observations
	}

	// Don't add duplicates
	for _, otherObs := range observations {
		if otherObs.cells.Equal(observation.cells) {
			return observations
		}
	}

	return append(observations, observation)
}

func sortActions(actions []cellAction) {
	sort.Slice(actions, func(i, j int) bool {
		return actions[i].idx < actions[j].idx
	})
}
