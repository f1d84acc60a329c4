package server

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/they4kman/minefield/game"
)

var errBadCommand = errors.New("bad command")

type commandKind int

const (
	commandReveal commandKind = iota
	commandFlag
	commandChord
	commandNew
)

var commandKinds = map[string]commandKind{
	"reveal": commandReveal,
	"flag":   commandFlag,
	"chord":  commandChord,
	"new":    commandNew,
}

// command is one line sent over the websocket, e.g. "reveal 3 4" or "new easy"
type command struct {
	kind     commandKind
	col, row int

	// For commandNew, either a preset name or explicit dimensions
	preset     string
	difficulty game.Difficulty
}

func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errors.Wrap(errBadCommand, "empty")
	}

	kind, ok := commandKinds[strings.ToLower(fields[0])]
	if !ok {
		return command{}, errors.Wrapf(errBadCommand, "unknown command %q", fields[0])
	}
	args := fields[1:]
	cmd := command{kind: kind}

	switch kind {
	case commandNew:
		switch len(args) {
		case 0:
		case 1:
			cmd.preset = args[0]
		case 3:
			ints, err := atois(args)
			if err != nil {
				return command{}, err
			}
			cmd.difficulty = game.Difficulty{Width: ints[0], Height: ints[1], MineCount: ints[2]}
		default:
			return command{}, errors.Wrap(errBadCommand, "usage: new [preset | width height mines]")
		}

	default:
		if len(args) != 2 {
			return command{}, errors.Wrapf(errBadCommand, "usage: %s col row", fields[0])
		}
		ints, err := atois(args)
		if err != nil {
			return command{}, err
		}
		cmd.col, cmd.row = ints[0], ints[1]
	}

	return cmd, nil
}

func atois(args []string) ([]int, error) {
	ints := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, errors.Wrapf(errBadCommand, "%q is not a number", arg)
		}
		ints[i] = n
	}
	return ints, nil
}

// splitCommands splits a message into its non-blank lines
func splitCommands(message string) []string {
	var lines []string
	for _, line := range strings.Split(message, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
