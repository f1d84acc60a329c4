package ui

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"github.com/faiface/pixel/text"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/layout"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	cellWidth     = 32
	cellPadding   = 1
	headerHeight  = 50
	minWindowWith = 200
)

var numberColors = [...]color.RGBA{
	colornames.Blue,
	colornames.Green,
	colornames.Red,
	colornames.Navy,
	colornames.Maroon,
	colornames.Teal,
	colornames.Black,
	colornames.Gray,
}

type Config struct {
	Difficulty game.Difficulty
	// Difficulties selectable with the number keys, smallest first
	Presets game.Presets

	// Seed of the first game; zero seeds from the clock
	Seed int64

	// Snapshot to load board configuration from
	Snapshot *game.BoardSnapshot

	Director game.Director
	// Time between two director steps
	DirectorInterval time.Duration

	Log logrus.FieldLogger
}

func NewConfig() Config {
	return Config{
		Difficulty:       game.Hard,
		Presets:          game.DefaultPresets(),
		DirectorInterval: 50 * time.Millisecond,
		Log:              game.Log,
	}
}

func (config Config) sessionOptions() []game.Option {
	opts := []game.Option{game.WithLogger(config.Log)}
	if config.Seed != 0 {
		opts = append(opts, game.WithSeed(config.Seed))
	}
	if config.Snapshot != nil {
		opts = append(opts, game.WithSnapshot(config.Snapshot))
	}
	return opts
}

// directorRunner steps a director on its own goroutine until stopped
type directorRunner struct {
	session  *game.GameSession
	director game.Director
	interval time.Duration
	log      logrus.FieldLogger

	cancel context.CancelFunc
}

func (runner *directorRunner) running() bool {
	return runner.cancel != nil
}

func (runner *directorRunner) start() {
	if runner.director == nil || runner.running() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	runner.cancel = cancel
	go func() {
		err := game.ActContinuously(ctx, runner.session, runner.director, runner.interval)
		if err != nil && !errors.Is(err, context.Canceled) {
			runner.log.WithError(err).Error("director stopped")
		}
	}()
}

func (runner *directorRunner) stop() {
	if runner.cancel != nil {
		runner.cancel()
		runner.cancel = nil
	}
}

func (runner *directorRunner) toggle() {
	if runner.running() {
		runner.stop()
	} else {
		runner.start()
	}
}

// Run opens the game window and plays until it is closed. It must be called
// from within pixelgl.Run.
func Run(config Config) error {
	session, err := game.NewSession(config.Difficulty, config.sessionOptions()...)
	if err != nil {
		return err
	}

	runner := &directorRunner{
		session:  session,
		director: config.Director,
		interval: config.DirectorInterval,
		log:      config.Log,
	}
	if config.Director != nil {
		config.Director.Init(session)
		defer config.Director.End()
		defer runner.stop()
	}

	view := session.View()
	cfg := pixelgl.WindowConfig{
		Title:  "minefield",
		Bounds: windowBounds(view.Width, view.Height),
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return errors.Wrap(err, "creating window")
	}
	defer win.Destroy()

	basicAtlas := text.NewAtlas(basicfont.Face7x13, text.ASCII)
	var (
		mapper      layout.Mapper
		scoreText   *text.Text
		cellPosText *text.Text
	)
	relayout := func(width, height int) {
		win.SetBounds(windowBounds(width, height))

		topLeft := win.Bounds().Vertices()[1]
		topRight := win.Bounds().Max

		mapper = layout.Mapper{
			CellSize: cellWidth,
			Width:    width,
			Height:   height,
			Origin:   topLeft.Sub(pixel.V(0, headerHeight)),
			FlipY:    true,
		}

		scoreText = text.New(topLeft.Add(pixel.V(20, -30)), basicAtlas)
		cellPosText = text.New(topRight.Add(pixel.V(-60, -30)), basicAtlas)
		cellPosText.Color = colornames.Darkcyan
	}
	relayout(view.Width, view.Height)

	restart := func(newGame func() error) {
		wasRunning := runner.running()
		runner.stop()
		if err := newGame(); err != nil {
			config.Log.WithError(err).Error("new game")
			return
		}
		if wasRunning {
			runner.start()
		}
	}

	presetNames := config.Presets.Names()
	presetKeys := []pixelgl.Button{pixelgl.Key1, pixelgl.Key2, pixelgl.Key3, pixelgl.Key4, pixelgl.Key5}

	var (
		frames = 0
		second = time.Tick(time.Second)
	)

	imd := imdraw.New(nil)
	numbers := text.New(pixel.ZV, basicAtlas)

	bgColor := colornames.Gainsboro
	for !win.Closed() {
		win.Update()
		win.Clear(bgColor)

		frames++
		select {
		case <-second:
			win.SetTitle(fmt.Sprintf("%s | FPS: %d", cfg.Title, frames))
			frames = 0
		default:
		}

		view = session.View()
		if view.Width != mapper.Width || view.Height != mapper.Height {
			relayout(view.Width, view.Height)
		}

		drawScore(scoreText, view, runner.running())
		scoreText.Draw(win, pixel.IM)

		hoveredCol, hoveredRow, hovered := 0, 0, false
		if win.MouseInsideWindow() {
			hoveredCol, hoveredRow, hovered = mapper.ToGrid(win.MousePosition())
		}

		cellPosText.Clear()
		if hovered {
			fmt.Fprintf(cellPosText, "(%d, %d)", hoveredCol, hoveredRow)
			cellPosText.Draw(win, pixel.IM)
		}

		imd.Clear()
		numbers.Clear()
		for _, cell := range view.Cells {
			drawCell(imd, numbers, mapper.CellRect(cell.Col, cell.Row), cell.State)
		}
		imd.Draw(win)
		numbers.Draw(win, pixel.IM)

		// Start a new game with Enter
		if win.JustPressed(pixelgl.KeyEnter) {
			restart(session.Restart)
			continue
		}

		// Switch difficulty with the number keys
		for i, name := range presetNames {
			if i < len(presetKeys) && win.JustPressed(presetKeys[i]) {
				difficulty := config.Presets[name]
				restart(func() error { return session.NewGame(difficulty) })
			}
		}

		if view.State.IsOver() {
			continue
		}

		// Toggle the director with Space
		if win.JustPressed(pixelgl.KeySpace) {
			runner.toggle()
		}

		// Perform single step while the director is stopped with Right Arrow
		if config.Director != nil && !runner.running() &&
			(win.JustPressed(pixelgl.KeyRight) || win.Repeated(pixelgl.KeyRight)) {
			config.Director.Act()
		}

		if !hovered {
			continue
		}

		var handle func(col, row int) (game.SessionState, error)
		switch {
		case win.JustPressed(pixelgl.MouseButtonLeft):
			handle = session.HandleReveal
		case win.JustPressed(pixelgl.MouseButtonRight):
			handle = session.HandleFlagToggle
		case win.JustPressed(pixelgl.MouseButtonMiddle):
			handle = session.HandleChord
		}
		if handle != nil {
			if _, err := handle(hoveredCol, hoveredRow); err != nil {
				config.Log.WithError(err).Error("click")
			}
		}
	}

	return nil
}

func windowBounds(width, height int) pixel.Rect {
	return pixel.R(
		0, 0,
		math.Max(float64(width*cellWidth), minWindowWith),
		float64(height*cellWidth+headerHeight),
	)
}

func drawScore(scoreText *text.Text, view game.BoardView, directing bool) {
	scoreText.Clear()
	scoreText.Color = colornames.Black

	fmt.Fprintf(scoreText, "%03d", view.RemainingMines)
	switch view.State {
	case game.Won:
		scoreText.Color = colornames.Green
		fmt.Fprint(scoreText, "   WIN!")
	case game.Lost:
		scoreText.Color = colornames.Red
		fmt.Fprint(scoreText, "   LOSE :(")
	default:
		if directing {
			scoreText.Color = colornames.Darkcyan
			fmt.Fprint(scoreText, "   auto")
		}
	}
}

func drawCell(imd *imdraw.IMDraw, numbers *text.Text, rect pixel.Rect, state game.CellState) {
	inner := pixel.R(
		rect.Min.X+cellPadding, rect.Min.Y+cellPadding,
		rect.Max.X-cellPadding, rect.Max.Y-cellPadding,
	)

	var background color.RGBA
	switch state {
	case game.Unrevealed, game.Flag, game.MineUnrevealed:
		background = colornames.Silver
	case game.FlagWrong:
		background = colornames.Pink
	case game.MineLosing:
		background = colornames.Red
	default:
		background = colornames.Whitesmoke
	}
	imd.Color = background
	imd.Push(inner.Min, inner.Max)
	imd.Rectangle(0)

	center := rect.Center()
	switch {
	case state == game.Flag || state == game.FlagWrong:
		imd.Color = colornames.Red
		imd.Push(
			center.Add(pixel.V(-cellWidth/6, -cellWidth/8)),
			center.Add(pixel.V(cellWidth/6, cellWidth/4)),
		)
		imd.Rectangle(0)
	case state == game.Mine || state == game.MineUnrevealed || state == game.MineLosing:
		imd.Color = colornames.Black
		imd.Push(center)
		imd.Circle(cellWidth/4, 0)
	case state.IsNumber():
		count := int(state-game.Number1) + 1
		numbers.Color = numberColors[count-1]
		numbers.Dot = center.Add(pixel.V(-3.5, -4))
		fmt.Fprint(numbers, count)
	}
}
