package game

import (
	"fmt"

	"github.com/pkg/errors"
)

// CellState is what a renderer should draw for a cell
type CellState int

const (
	Unrevealed CellState = iota - 1
	Empty
	Number1
	Number2
	Number3
	Number4
	Number5
	Number6
	Number7
	Number8
	Flag
	FlagWrong
	Mine
	MineUnrevealed
	MineLosing
)

var cellStateNames = map[CellState]string{
	Unrevealed:     "unrevealed",
	Empty:          "empty",
	Number1:        "1",
	Number2:        "2",
	Number3:        "3",
	Number4:        "4",
	Number5:        "5",
	Number6:        "6",
	Number7:        "7",
	Number8:        "8",
	Flag:           "flag",
	FlagWrong:      "flag_wrong",
	Mine:           "mine",
	MineUnrevealed: "mine_unrevealed",
	MineLosing:     "mine_losing",
}

func (state CellState) String() string {
	if name, ok := cellStateNames[state]; ok {
		return name
	}
	return fmt.Sprintf("CellState(%d)", int(state))
}

func (state CellState) MarshalText() ([]byte, error) {
	return []byte(state.String()), nil
}

func (state *CellState) UnmarshalText(text []byte) error {
	for candidate, name := range cellStateNames {
		if name == string(text) {
			*state = candidate
			return nil
		}
	}
	return errors.Errorf("unknown cell state %q", text)
}

// IsNumber reports whether the state displays an adjacent mine count
func (state CellState) IsNumber() bool {
	return state >= Number1 && state <= Number8
}

type SessionState int

const (
	NotStarted SessionState = iota
	InProgress
	Won
	Lost
)

func (state SessionState) String() string {
	switch state {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("SessionState(%d)", int(state))
	}
}

func (state SessionState) MarshalText() ([]byte, error) {
	return []byte(state.String()), nil
}

func (state *SessionState) UnmarshalText(text []byte) error {
	for candidate := NotStarted; candidate <= Lost; candidate++ {
		if candidate.String() == string(text) {
			*state = candidate
			return nil
		}
	}
	return errors.Errorf("unknown session state %q", text)
}

// IsOver reports whether the game has ended, in a win or a loss
func (state SessionState) IsOver() bool {
	return state == Won || state == Lost
}
