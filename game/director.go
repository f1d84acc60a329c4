package game

import (
	"context"
	"time"
)

// Director plays a session on its own, through the same operations a human uses
type Director interface {
	/**
	 * Initialize the director
	 */
	Init(*GameSession)

	/**
	 * Perform a single step of actions, returning whether anything was done
	 */
	Act() bool

	/**
	 * Stop acting
	 */
	End()
}

// ActContinuously lets the director act every interval, until the game is
// over, the director has nothing left to do, or ctx is done
func ActContinuously(ctx context.Context, session *GameSession, director Director, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !session.State().IsOver() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !director.Act() {
				return nil
			}
		}
	}
	return nil
}

// PlayOut lets the director act until the game is over or it gives up,
// without pausing between steps
func PlayOut(session *GameSession, director Director) SessionState {
	for !session.State().IsOver() {
		if !director.Act() {
			break
		}
	}
	return session.State()
}
