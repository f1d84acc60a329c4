package cmd

import (
	"fmt"
	"os"

	"github.com/faiface/pixel/pixelgl"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/ui"
)

var (
	boardFlags = newBoardFlags()
	logFlags   = logOptions{Level: "info", Format: "text"}
	uiConfig   = ui.NewConfig()
)

var rootCmd = &cobra.Command{
	Use:   "minefield",
	Short: "Play manual or computer-driven Minesweeper",
	Long: `minefield is a Minesweeper game which supports human- or
computer-driven playing, in a desktop window or in a browser.

Run with no arguments to play manually
	minefield

Use the director flag to make the computer play for you
	minefield --director constraint

Serve the board to a browser canvas
	minefield serve --addr :8080
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("log-level") {
			if level := os.Getenv("MINEFIELD_LOG_LEVEL"); level != "" {
				logFlags.Level = level
			}
		}
		return setupLogging(game.Log, logFlags)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		config := uiConfig
		var err error
		if config.Difficulty, err = boardFlags.Difficulty(cmd.Flags()); err != nil {
			return err
		}
		if config.Presets, err = boardFlags.Presets(); err != nil {
			return err
		}
		if config.Snapshot, err = boardFlags.Snapshot(); err != nil {
			return err
		}
		config.Seed = boardFlags.Seed
		config.Director, err = newDirector(boardFlags.Director, boardFlags.Seed)
		if err != nil {
			return err
		}

		game.Log.WithFields(logrus.Fields{
			"difficulty": config.Difficulty.Name,
			"director":   boardFlags.Director,
		}).Info("opening window")

		pixelgl.Run(func() {
			err = ui.Run(config)
		})
		return err
	},
}

func Execute() {
	// Values from a .env file only fill variables not already set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Define our root -help without a shorthand, as we'll use -h for --height
	// Ref: https://github.com/spf13/cobra/issues/291
	rootCmd.PersistentFlags().Bool("help", false, "Help for this command")

	logFlags.register(rootCmd.PersistentFlags())
	boardFlags.register(rootCmd.PersistentFlags())

	rootCmd.Flags().DurationVar(&uiConfig.DirectorInterval, "interval", uiConfig.DirectorInterval,
		"Time between two moves of the director")
}
