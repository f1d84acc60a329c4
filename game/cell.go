package game

import "fmt"

type Cell struct {
	col, row int
	idx      int

	isMine, isRevealed, isFlagged bool
	isLosingMine                  bool

	adjacentMines int
	countCached   bool
}

// CellView is a read-only copy of a cell, enough for a renderer to pick what to draw
type CellView struct {
	Col           int       `json:"col"`
	Row           int       `json:"row"`
	IsMine        bool      `json:"is_mine"`
	IsFlagged     bool      `json:"is_flagged"`
	IsRevealed    bool      `json:"is_revealed"`
	AdjacentMines int       `json:"adjacent_mines"`
	State         CellState `json:"state"`
}

func (cell *Cell) String() string {
	return fmt.Sprintf("Cell(%v, %v)", cell.col, cell.row)
}

func (cell *Cell) Col() int {
	return cell.col
}

func (cell *Cell) Row() int {
	return cell.row
}

func (cell *Cell) IsMine() bool {
	return cell.isMine
}

func (cell *Cell) IsRevealed() bool {
	return cell.isRevealed
}

func (cell *Cell) IsFlagged() bool {
	return cell.isFlagged
}

// AdjacentMines returns the cached neighbor mine count, and whether it has been computed yet
func (cell *Cell) AdjacentMines() (int, bool) {
	return cell.adjacentMines, cell.countCached
}

func (cell *Cell) view(gameOver bool, grid *Grid) CellView {
	count := cell.adjacentMines
	if !cell.countCached {
		count = grid.countAdjacentMines(cell)
	}

	return CellView{
		Col:           cell.col,
		Row:           cell.row,
		IsMine:        cell.isMine,
		IsFlagged:     cell.isFlagged,
		IsRevealed:    cell.isRevealed,
		AdjacentMines: count,
		State:         cell.state(count, gameOver),
	}
}

func (cell *Cell) state(count int, gameOver bool) CellState {
	switch {
	case cell.isRevealed && cell.isMine:
		if cell.isLosingMine {
			return MineLosing
		}
		return Mine
	case cell.isRevealed:
		return CellState(count)
	case cell.isFlagged:
		if gameOver && !cell.isMine {
			return FlagWrong
		}
		return Flag
	case gameOver && cell.isMine:
		return MineUnrevealed
	default:
		return Unrevealed
	}
}

func (cell *Cell) serialize() string {
	switch {
	case cell.isMine:
		switch {
		case cell.isRevealed:
			return "*"
		case cell.isFlagged:
			return "F"
		default:
			return "O"
		}
	case cell.isFlagged:
		return "f"
	case cell.isRevealed:
		return "."
	default:
		return "#"
	}
}

func (cell *Cell) deserialize(c rune) bool {
	switch c {
	case '*':
		cell.isMine = true
		cell.isRevealed = true
		cell.isLosingMine = true
	case 'F':
		cell.isMine = true
		cell.isFlagged = true
	case 'O':
		cell.isMine = true
	case 'f':
		cell.isFlagged = true
	case '.':
		cell.isRevealed = true
	case '#':
	default:
		return false
	}

	return true
}
