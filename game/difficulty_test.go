package game

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsAreValid(t *testing.T) {
	presets := DefaultPresets()
	assert.Equal(t, []string{"easy", "medium", "hard"}, presets.Names())

	for name, d := range presets {
		assert.NoError(t, d.Validate(), name)
		assert.Equal(t, name, d.Name)
	}

	hard, err := presets.Get("hard")
	require.NoError(t, err)
	assert.Equal(t, Difficulty{Name: "hard", Width: 30, Height: 16, MineCount: 99}, hard)

	_, err = presets.Get("nightmare")
	assert.True(t, errors.Is(err, ErrInvalidDifficulty))
}

func TestValidate(t *testing.T) {
	valid := []Difficulty{
		{Width: 1, Height: 1, MineCount: 0},
		{Width: 3, Height: 3, MineCount: 0},
		{Width: 4, Height: 4, MineCount: 7},
		{Width: 100, Height: 2, MineCount: 194},
	}
	for _, d := range valid {
		assert.NoError(t, d.Validate(), "%+v", d)
	}

	invalid := []Difficulty{
		{Width: 0, Height: 3, MineCount: 0},
		{Width: 3, Height: -1, MineCount: 0},
		{Width: 3, Height: 3, MineCount: 9},
		{Width: 3, Height: 3, MineCount: 8},
		{Width: 3, Height: 3, MineCount: 1},
		{Width: 4, Height: 4, MineCount: 8},
		{Width: 100, Height: 2, MineCount: 195},
		{Width: 3, Height: 3, MineCount: -1},
		{Width: 9, Height: 9, MineCount: 100},
	}
	for _, d := range invalid {
		assert.True(t, errors.Is(d.Validate(), ErrInvalidDifficulty), "%+v", d)
	}
}

func TestValidDifficultyPlaysFromAnyCell(t *testing.T) {
	for _, d := range []Difficulty{{Width: 4, Height: 4, MineCount: 7}, {Width: 5, Height: 2, MineCount: 4}} {
		require.NoError(t, d.Validate())
		for row := 0; row < d.Height; row++ {
			for col := 0; col < d.Width; col++ {
				session, err := NewSession(d, WithSeed(int64(row*d.Width+col+1)))
				require.NoError(t, err)

				state, err := session.HandleReveal(col, row)
				require.NoError(t, err, "%+v first click (%d, %d)", d, col, row)
				assert.NotEqual(t, NotStarted, state)
				assert.True(t, session.MinesPlaced())
			}
		}
	}
}

func TestLoadPresets(t *testing.T) {
	presets, err := LoadPresets(strings.NewReader(`
tiny:
  width: 5
  height: 4
  mines: 3
hard:
  width: 24
  height: 24
  mines: 99
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"tiny", "easy", "medium", "hard"}, presets.Names())
	assert.Equal(t, Difficulty{Name: "tiny", Width: 5, Height: 4, MineCount: 3}, presets["tiny"])
	assert.Equal(t, 24, presets["hard"].Width)
}

func TestLoadPresetsRejectsBadInput(t *testing.T) {
	_, err := LoadPresets(strings.NewReader("tiny:\n  width: 2\n  height: 2\n  mines: 4\n"))
	assert.True(t, errors.Is(err, ErrInvalidDifficulty))

	_, err = LoadPresets(strings.NewReader("tiny:\n  width: 2\n  depth: 2\n"))
	assert.Error(t, err)

	_, err = LoadPresets(strings.NewReader("[not, a, map]"))
	assert.Error(t, err)
}
