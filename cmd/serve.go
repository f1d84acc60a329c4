package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/server"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr     = ":8080"
	serveInterval = 200 * time.Millisecond
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board to a browser canvas, over HTTP and websockets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("addr") {
			if addr := os.Getenv("MINEFIELD_ADDR"); addr != "" {
				serveAddr = addr
			}
		}

		difficulty, err := boardFlags.Difficulty(cmd.Flags())
		if err != nil {
			return err
		}
		presets, err := boardFlags.Presets()
		if err != nil {
			return err
		}
		snapshot, err := boardFlags.Snapshot()
		if err != nil {
			return err
		}
		director, err := newDirector(boardFlags.Director, boardFlags.Seed)
		if err != nil {
			return err
		}

		session, err := game.NewSession(difficulty, boardFlags.SessionOptions(snapshot)...)
		if err != nil {
			return err
		}
		srv := server.New(session, presets, game.Log.WithField("component", "server"))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Serve(gCtx, serveAddr)
		})
		if director != nil {
			game.Log.WithFields(logrus.Fields{
				"director": boardFlags.Director,
				"interval": serveInterval,
			}).Info("director playing")
			g.Go(func() error {
				return srv.RunDirector(gCtx, director, serveInterval)
			})
		}
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", serveAddr, "Address to listen on (env MINEFIELD_ADDR)")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", serveInterval, "Time between two moves of the director")
	rootCmd.AddCommand(serveCmd)
}
