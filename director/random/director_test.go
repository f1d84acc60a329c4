package random

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/they4kman/minefield/game"
)

func TestMain(m *testing.M) {
	game.Log.SetOutput(io.Discard)
	m.Run()
}

func TestDirectorPlaysUntilGameEnds(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		session, err := game.NewSession(game.Easy, game.WithSeed(seed))
		require.NoError(t, err)

		director := New(seed)
		director.Init(session)
		state := game.PlayOut(session, director)
		director.End()

		// the random director never flags, so it can never satisfy the win condition
		assert.Equal(t, game.Lost, state, "seed %d", seed)
	}
}

func TestPickSkipsRevealedAndFlagged(t *testing.T) {
	session, err := game.NewSession(game.Difficulty{}, game.WithSnapshot(&game.BoardSnapshot{
		SerializedBoard: "f.\n.#",
	}))
	require.NoError(t, err)

	director := New(1)
	director.Init(session)

	for i := 0; i < 10; i++ {
		cell, ok := director.Pick(session.View())
		require.True(t, ok)
		assert.Equal(t, [2]int{1, 1}, [2]int{cell.Col, cell.Row})
	}
}

func TestActOnFinishedGame(t *testing.T) {
	session, err := game.NewSession(game.Difficulty{}, game.WithSnapshot(&game.BoardSnapshot{
		SerializedBoard: "*#",
	}))
	require.NoError(t, err)
	require.Equal(t, game.Lost, session.State())

	director := New(1)
	director.Init(session)
	assert.False(t, director.Act())
}
