package game

import "github.com/pkg/errors"

var (
	// ErrInvalidCoordinate is returned for a col/row outside the grid
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidDifficulty is returned for dimensions or mine counts the grid cannot hold
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

func invalidCoordinate(col, row int) error {
	return errors.Wrapf(ErrInvalidCoordinate, "(%d, %d)", col, row)
}
