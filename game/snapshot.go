package game

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// BoardSnapshot is a text picture of a board, one character per cell:
//
//	*  revealed mine     F  flagged mine     O  hidden mine
//	.  revealed cell     f  flagged cell     #  hidden cell
type BoardSnapshot struct {
	Seed            int64  `yaml:"seed"`
	SerializedBoard string `yaml:"board"`
}

func (snapshot *BoardSnapshot) Serialize() string {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		panic(err)
	}

	return string(out)
}

func (snapshot *BoardSnapshot) rows() []string {
	return strings.Split(strings.TrimSpace(snapshot.SerializedBoard), "\n")
}

// Grid rebuilds the board the snapshot pictures
func (snapshot *BoardSnapshot) Grid() (*Grid, error) {
	rows := snapshot.rows()
	for i := range rows {
		rows[i] = strings.TrimSpace(rows[i])
	}

	width := len([]rune(rows[0]))
	grid, err := NewGrid(width, len(rows))
	if err != nil {
		return nil, errors.Wrap(err, "empty snapshot")
	}

	for row, line := range rows {
		chars := []rune(line)
		if len(chars) != width {
			return nil, errors.Errorf("snapshot row %d has %d cells, expected %d", row, len(chars), width)
		}

		for col, c := range chars {
			cell := grid.cellAt(col, row)
			if !cell.deserialize(c) {
				return nil, errors.Errorf("snapshot cell (%d, %d): unknown character %q", col, row, c)
			}
			if cell.isFlagged && cell.isRevealed {
				return nil, errors.Errorf("snapshot cell (%d, %d) is both flagged and revealed", col, row)
			}
		}
	}

	return grid, nil
}

// Fresh returns a copy of the snapshot with every cell hidden and unflagged,
// keeping only the mine layout
func (snapshot *BoardSnapshot) Fresh() *BoardSnapshot {
	replacer := strings.NewReplacer("*", "O", "F", "O", "f", "#", ".", "#")
	return &BoardSnapshot{
		Seed:            snapshot.Seed,
		SerializedBoard: replacer.Replace(snapshot.SerializedBoard),
	}
}

func snapshotGrid(grid *Grid, seed int64) *BoardSnapshot {
	var board strings.Builder
	for row := 0; row < grid.height; row++ {
		if row > 0 {
			board.WriteString("\n")
		}
		for col := 0; col < grid.width; col++ {
			board.WriteString(grid.cellAt(col, row).serialize())
		}
	}

	return &BoardSnapshot{
		Seed:            seed,
		SerializedBoard: board.String(),
	}
}

func LoadSnapshot(in string) (*BoardSnapshot, error) {
	var snapshot BoardSnapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, errors.Wrap(err, "parse snapshot")
	}
	if strings.TrimSpace(snapshot.SerializedBoard) == "" {
		return nil, errors.New("snapshot has no board")
	}
	return &snapshot, nil
}
