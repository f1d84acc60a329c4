package cmd

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/they4kman/minefield/director/constraint"
	"github.com/they4kman/minefield/director/random"
	"github.com/they4kman/minefield/game"
)

var (
	// Accepts "30x16/99": width x height / mines
	customDifficulty = regexp.MustCompile(`^(\d+)x(\d+)/(\d+)$`)
	presetName       = regexp.MustCompile(`^[\w-]+$`)
)

// difficultyValue is either the name of a preset, resolved once presets are
// loaded, or explicit dimensions
type difficultyValue struct {
	name   string
	custom *game.Difficulty
}

func newDifficultyValue(name string) *difficultyValue {
	return &difficultyValue{name: name}
}

func (value *difficultyValue) String() string {
	if value.custom != nil {
		return fmt.Sprintf("%dx%d/%d", value.custom.Width, value.custom.Height, value.custom.MineCount)
	}
	return value.name
}

func (value *difficultyValue) Set(s string) error {
	if match := customDifficulty.FindStringSubmatch(s); match != nil {
		var dims [3]int
		for i := range dims {
			n, err := strconv.Atoi(match[i+1])
			if err != nil {
				return err
			}
			dims[i] = n
		}

		custom := game.Difficulty{Width: dims[0], Height: dims[1], MineCount: dims[2]}
		if err := custom.Validate(); err != nil {
			return err
		}
		value.name, value.custom = "", &custom
		return nil
	}

	if !presetName.MatchString(s) {
		return errors.Errorf("invalid difficulty %q: expected a preset name or WIDTHxHEIGHT/MINES", s)
	}
	value.name, value.custom = s, nil
	return nil
}

func (value *difficultyValue) Type() string {
	return "difficulty"
}

func (value *difficultyValue) Resolve(presets game.Presets) (game.Difficulty, error) {
	if value.custom != nil {
		return *value.custom, nil
	}
	return presets.Get(value.name)
}

// boardOptions are the flags shared by every command that starts a game
type boardOptions struct {
	difficulty *difficultyValue

	Width, Height, Mines int

	PresetsPath string
	BoardPath   string
	Fresh       bool

	Seed     int64
	Director string
}

func newBoardFlags() *boardOptions {
	return &boardOptions{
		difficulty: newDifficultyValue(game.Hard.Name),
		Fresh:      true,
	}
}

func (opts *boardOptions) register(flags *pflag.FlagSet) {
	flags.Var(opts.difficulty, "difficulty", `Preset name (easy, medium, hard, or one from --presets),
or explicit dimensions as WIDTHxHEIGHT/MINES`)
	flags.IntVarP(&opts.Width, "width", "w", 0, "Width of game board, in cells (overrides --difficulty)")
	flags.IntVarP(&opts.Height, "height", "h", 0, "Height of game board, in cells (overrides --difficulty)")
	flags.IntVarP(&opts.Mines, "mines", "m", 0, "Number of mines to place in the game board (overrides --difficulty)")
	flags.StringVar(&opts.PresetsPath, "presets", "", "YAML file of extra difficulty presets")
	flags.StringVar(&opts.BoardPath, "board", "", "YAML board snapshot to play instead of a generated board")
	flags.BoolVar(&opts.Fresh, "fresh", true, "Hide every cell of the --board snapshot, keeping only its mines")
	flags.Int64Var(&opts.Seed, "seed", 0, "Seed of the first game's mine layout (0 seeds from the clock)")
	flags.StringVarP(&opts.Director, "director", "d", "", "Make the computer play: random or constraint")
}

func (opts *boardOptions) Presets() (game.Presets, error) {
	if opts.PresetsPath == "" {
		return game.DefaultPresets(), nil
	}

	file, err := os.Open(opts.PresetsPath)
	if err != nil {
		return nil, errors.Wrap(err, "open presets")
	}
	defer file.Close()
	return game.LoadPresets(file)
}

// Difficulty resolves --difficulty, then applies any of --width, --height
// and --mines given explicitly
func (opts *boardOptions) Difficulty(flags *pflag.FlagSet) (game.Difficulty, error) {
	presets, err := opts.Presets()
	if err != nil {
		return game.Difficulty{}, err
	}
	difficulty, err := opts.difficulty.Resolve(presets)
	if err != nil {
		return game.Difficulty{}, err
	}

	if flags.Changed("width") {
		difficulty.Width, difficulty.Name = opts.Width, ""
	}
	if flags.Changed("height") {
		difficulty.Height, difficulty.Name = opts.Height, ""
	}
	if flags.Changed("mines") {
		difficulty.MineCount, difficulty.Name = opts.Mines, ""
	}

	return difficulty, difficulty.Validate()
}

func (opts *boardOptions) Snapshot() (*game.BoardSnapshot, error) {
	if opts.BoardPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(opts.BoardPath)
	if err != nil {
		return nil, errors.Wrap(err, "read board")
	}
	snapshot, err := game.LoadSnapshot(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "load board %s", opts.BoardPath)
	}
	if opts.Fresh {
		snapshot = snapshot.Fresh()
	}
	return snapshot, nil
}

func (opts *boardOptions) SessionOptions(snapshot *game.BoardSnapshot) []game.Option {
	var sessionOpts []game.Option
	if opts.Seed != 0 {
		sessionOpts = append(sessionOpts, game.WithSeed(opts.Seed))
	}
	if snapshot != nil {
		sessionOpts = append(sessionOpts, game.WithSnapshot(snapshot))
	}
	return sessionOpts
}

func newDirector(name string, seed int64) (game.Director, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	switch name {
	case "", "none":
		return nil, nil
	case "random":
		return random.New(seed), nil
	case "constraint":
		return constraint.New(seed), nil
	default:
		return nil, errors.Errorf("unknown director %q", name)
	}
}
