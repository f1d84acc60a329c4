package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// GameSession is one game of minesweeper, from the first click to a win or
// a loss. All methods are safe for concurrent use; every mutation, including a
// full reveal cascade, runs under a single lock.
type GameSession struct {
	mu sync.Mutex

	grid        *Grid
	difficulty  Difficulty
	minesPlaced bool
	state       SessionState

	// Board layout to restart from, instead of generating mines
	layout *BoardSnapshot

	rand     Rand
	seed     int64
	nextSeed int64

	engine RevealEngine
	log    logrus.FieldLogger

	onGameEnd []func(*GameSession)
}

// BoardView is a read-only picture of the whole session
type BoardView struct {
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	MineCount      int          `json:"mine_count"`
	FlagCount      int          `json:"flag_count"`
	RemainingMines int          `json:"remaining_mines"`
	State          SessionState `json:"state"`
	Difficulty     string       `json:"difficulty,omitempty"`
	Cells          []CellView   `json:"cells"`
}

// CellAt returns the view of the cell at (col, row), or false if out of bounds
func (view BoardView) CellAt(col, row int) (CellView, bool) {
	if col < 0 || row < 0 || col >= view.Width || row >= view.Height {
		return CellView{}, false
	}
	return view.Cells[row*view.Width+col], true
}

// Redacted hides what a player could not know: whether hidden cells hold a
// mine, and their counts. Finished games are left as is.
func (view BoardView) Redacted() BoardView {
	if view.State.IsOver() {
		return view
	}

	cells := make([]CellView, len(view.Cells))
	copy(cells, view.Cells)
	for i := range cells {
		if !cells[i].IsRevealed {
			cells[i].IsMine = false
			cells[i].AdjacentMines = 0
		}
	}
	view.Cells = cells
	return view
}

type Option func(*GameSession)

// WithRand draws mines from r for every game of the session
func WithRand(r Rand) Option {
	return func(session *GameSession) {
		session.rand = r
	}
}

// WithSeed makes the first game reproducible; later games are seeded from it
func WithSeed(seed int64) Option {
	return func(session *GameSession) {
		session.nextSeed = seed
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(session *GameSession) {
		session.log = log
	}
}

// WithOnGameEnd registers a callback run after each win or loss, outside the session lock
func WithOnGameEnd(fn func(*GameSession)) Option {
	return func(session *GameSession) {
		session.onGameEnd = append(session.onGameEnd, fn)
	}
}

// WithSnapshot starts games from the snapshot's mine layout instead of
// generating mines; the difficulty passed to NewSession is ignored
func WithSnapshot(snapshot *BoardSnapshot) Option {
	return func(session *GameSession) {
		session.layout = snapshot
	}
}

func NewSession(difficulty Difficulty, opts ...Option) (*GameSession, error) {
	session := &GameSession{
		log:      Log,
		nextSeed: time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(session)
	}

	var err error
	if session.layout != nil {
		err = session.loadLayout()
	} else {
		err = session.newGame(difficulty)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// NewGame throws away the current board and starts over with a fresh one
func (session *GameSession) NewGame(difficulty Difficulty) error {
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.newGame(difficulty); err != nil {
		return err
	}
	session.layout = nil
	return nil
}

// Restart starts a new game with the current difficulty, or the current
// snapshot layout when the session was started from one
func (session *GameSession) Restart() error {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.layout != nil {
		return session.loadLayout()
	}
	return session.newGame(session.difficulty)
}

func (session *GameSession) newGame(difficulty Difficulty) error {
	if err := difficulty.Validate(); err != nil {
		return err
	}

	grid, err := NewGrid(difficulty.Width, difficulty.Height)
	if err != nil {
		return err
	}

	session.grid = grid
	session.difficulty = difficulty
	session.minesPlaced = false
	session.state = NotStarted

	session.log.WithFields(logrus.Fields{
		"difficulty": difficulty.Name,
		"width":      difficulty.Width,
		"height":     difficulty.Height,
		"mines":      difficulty.MineCount,
	}).Info("new game")

	return nil
}

func (session *GameSession) loadLayout() error {
	grid, err := session.layout.Grid()
	if err != nil {
		return errors.Wrap(err, "load board snapshot")
	}

	session.grid = grid
	session.seed = session.layout.Seed
	session.difficulty = Difficulty{
		Name:      "snapshot",
		Width:     grid.width,
		Height:    grid.height,
		MineCount: grid.MineCount(),
	}
	session.minesPlaced = true
	session.state = NotStarted

	for _, cell := range grid.Cells() {
		if cell.isRevealed {
			session.state = InProgress
			if cell.isMine {
				session.state = Lost
				break
			}
		}
	}
	session.checkVictory()

	session.log.WithFields(logrus.Fields{
		"width":  grid.width,
		"height": grid.height,
		"mines":  session.difficulty.MineCount,
		"state":  session.state,
	}).Info("loaded board snapshot")

	return nil
}

func (session *GameSession) generator() *MineGenerator {
	r := session.rand
	if r == nil {
		session.seed = session.nextSeed
		seeded := rand.New(rand.NewSource(session.seed))
		session.nextSeed = seeded.Int63()
		r = seeded
	}

	generator := NewMineGenerator(r)
	generator.log = session.log
	return generator
}

// HandleReveal opens the cell at (col, row). The first reveal of a game lays
// the mines, keeping the clicked cell and its neighbors clear.
func (session *GameSession) HandleReveal(col, row int) (SessionState, error) {
	session.mu.Lock()
	ended, err := session.reveal(col, row)
	state := session.state
	var end gameEnd
	if ended {
		end = session.endOfGame()
	}
	session.mu.Unlock()

	if ended {
		session.gameEnded(end)
	}
	return state, err
}

func (session *GameSession) reveal(col, row int) (bool, error) {
	cell, err := session.grid.CellAt(col, row)
	if err != nil {
		return false, err
	}
	if session.state.IsOver() {
		return false, nil
	}

	if !session.minesPlaced {
		err := session.generator().Place(session.grid, col, row, session.difficulty.MineCount)
		if err != nil {
			return false, err
		}
		session.minesPlaced = true
	}
	if session.state == NotStarted {
		session.state = InProgress
	}

	if cell.isFlagged || cell.isRevealed {
		return session.checkVictory(), nil
	}

	if cell.isMine {
		return session.explode(cell), nil
	}

	revealed, err := session.engine.Reveal(session.grid, col, row)
	if err != nil {
		return false, err
	}
	if len(revealed) > 1 {
		session.log.WithFields(logrus.Fields{
			"cell":     cell.String(),
			"revealed": len(revealed),
		}).Debug("cascade")
	}

	return session.checkVictory(), nil
}

func (session *GameSession) explode(cell *Cell) bool {
	session.grid.reveal(cell)
	cell.isLosingMine = true
	session.state = Lost
	return true
}

// HandleFlagToggle flags or unflags the hidden cell at (col, row)
func (session *GameSession) HandleFlagToggle(col, row int) (SessionState, error) {
	session.mu.Lock()
	ended, err := session.toggleFlag(col, row)
	state := session.state
	var end gameEnd
	if ended {
		end = session.endOfGame()
	}
	session.mu.Unlock()

	if ended {
		session.gameEnded(end)
	}
	return state, err
}

func (session *GameSession) toggleFlag(col, row int) (bool, error) {
	cell, err := session.grid.CellAt(col, row)
	if err != nil {
		return false, err
	}
	if session.state.IsOver() {
		return false, nil
	}

	if !session.grid.toggleFlag(cell) {
		return false, nil
	}
	return session.checkVictory(), nil
}

// HandleChord reveals every hidden, unflagged neighbor of a revealed number
// once as many neighbors are flagged as the number says
func (session *GameSession) HandleChord(col, row int) (SessionState, error) {
	session.mu.Lock()
	ended, err := session.chord(col, row)
	state := session.state
	var end gameEnd
	if ended {
		end = session.endOfGame()
	}
	session.mu.Unlock()

	if ended {
		session.gameEnded(end)
	}
	return state, err
}

func (session *GameSession) chord(col, row int) (bool, error) {
	cell, err := session.grid.CellAt(col, row)
	if err != nil {
		return false, err
	}
	if session.state != InProgress || !cell.isRevealed || cell.isMine {
		return false, nil
	}

	count := session.grid.adjacentMines(cell)
	neighbors := session.grid.neighbors(cell)

	numFlaggedNeighbors := 0
	for _, neighbor := range neighbors {
		if neighbor.isFlagged {
			numFlaggedNeighbors++
		}
	}
	if count == 0 || count != numFlaggedNeighbors {
		return false, nil
	}

	for _, neighbor := range neighbors {
		if neighbor.isFlagged || neighbor.isRevealed {
			continue
		}
		if neighbor.isMine {
			return session.explode(neighbor), nil
		}
		if _, err := session.engine.Reveal(session.grid, neighbor.col, neighbor.row); err != nil {
			return false, err
		}
	}

	return session.checkVictory(), nil
}

func (session *GameSession) checkVictory() bool {
	if session.state != InProgress {
		return false
	}
	if IsVictory(session.grid, session.difficulty.MineCount) {
		session.state = Won
		return true
	}
	return false
}

// gameEnd is what gets logged about a finished game. It is captured while the
// session lock is still held by the move that ended the game.
type gameEnd struct {
	fields logrus.Fields
	board  string
}

func (session *GameSession) endOfGame() gameEnd {
	return gameEnd{
		fields: logrus.Fields{
			"state":      session.state,
			"difficulty": session.difficulty.Name,
			"flags":      session.grid.FlagCount(),
		},
		board: snapshotGrid(session.grid, session.seed).SerializedBoard,
	}
}

func (session *GameSession) gameEnded(end gameEnd) {
	session.log.WithFields(end.fields).Info("game over")
	session.log.WithField("board", end.board).Debug("final board")

	for _, fn := range session.onGameEnd {
		fn(session)
	}
}

func (session *GameSession) State() SessionState {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.state
}

func (session *GameSession) Difficulty() Difficulty {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.difficulty
}

// MinesPlaced reports whether the mines have been laid, i.e. whether the first reveal happened
func (session *GameSession) MinesPlaced() bool {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.minesPlaced
}

func (session *GameSession) FlagCount() int {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.grid.FlagCount()
}

// RemainingMines is the mine count minus the flags placed; it goes negative
// when the player over-flags
func (session *GameSession) RemainingMines() int {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.difficulty.MineCount - session.grid.FlagCount()
}

func (session *GameSession) View() BoardView {
	session.mu.Lock()
	defer session.mu.Unlock()

	gameOver := session.state.IsOver()
	cells := make([]CellView, len(session.grid.cells))
	for i := range session.grid.cells {
		cells[i] = session.grid.cells[i].view(gameOver, session.grid)
	}

	flags := session.grid.FlagCount()
	return BoardView{
		Width:          session.grid.width,
		Height:         session.grid.height,
		MineCount:      session.difficulty.MineCount,
		FlagCount:      flags,
		RemainingMines: session.difficulty.MineCount - flags,
		State:          session.state,
		Difficulty:     session.difficulty.Name,
		Cells:          cells,
	}
}

func (session *GameSession) Snapshot() *BoardSnapshot {
	session.mu.Lock()
	defer session.mu.Unlock()
	return snapshotGrid(session.grid, session.seed)
}
