package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/they4kman/minefield/game"
)

var autoplayGames = 100

type autoplayResult struct {
	Games int
	Won   int
	Lost  int
	// Games the director gave up on before they ended
	Stuck int
}

func (result autoplayResult) WinRate() float64 {
	if result.Games == 0 {
		return 0
	}
	return float64(result.Won) / float64(result.Games)
}

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Let a director play many games without a window, and report how it did",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, err := boardFlags.Difficulty(cmd.Flags())
		if err != nil {
			return err
		}
		snapshot, err := boardFlags.Snapshot()
		if err != nil {
			return err
		}

		name := boardFlags.Director
		if name == "" {
			name = "constraint"
		}
		director, err := newDirector(name, boardFlags.Seed)
		if err != nil {
			return err
		}
		if director == nil {
			return fmt.Errorf("autoplay needs a director")
		}

		result, err := autoplay(difficulty, boardFlags.SessionOptions(snapshot), director, autoplayGames)
		if err != nil {
			return err
		}

		game.Log.WithFields(logrus.Fields{
			"director":   name,
			"difficulty": difficulty.Name,
			"games":      result.Games,
			"won":        result.Won,
			"lost":       result.Lost,
			"stuck":      result.Stuck,
		}).Info("autoplay finished")
		fmt.Fprintf(cmd.OutOrStdout(), "won %d of %d games (%.1f%%)\n", result.Won, result.Games, 100*result.WinRate())
		return nil
	},
}

// autoplay plays games one after the other in a single session
func autoplay(difficulty game.Difficulty, opts []game.Option, director game.Director, games int) (autoplayResult, error) {
	var result autoplayResult
	countEnd := func(session *game.GameSession) {
		switch session.State() {
		case game.Won:
			result.Won++
		case game.Lost:
			result.Lost++
		}
	}

	session, err := game.NewSession(difficulty, append(opts, game.WithOnGameEnd(countEnd))...)
	if err != nil {
		return result, err
	}

	director.Init(session)
	defer director.End()

	for i := 0; i < games; i++ {
		if i > 0 {
			if err := session.Restart(); err != nil {
				return result, err
			}
		}

		state := game.PlayOut(session, director)
		result.Games++
		if !state.IsOver() {
			result.Stuck++
		}
	}
	return result, nil
}

func init() {
	autoplayCmd.Flags().IntVarP(&autoplayGames, "games", "n", autoplayGames, "Number of games to play")
	rootCmd.AddCommand(autoplayCmd)
}
