// Package server exposes a game session to browsers, as a JSON API and a
// websocket stream of board views.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/faiface/pixel"
	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/layout"
	"golang.org/x/sync/errgroup"
)

var (
	decoder  = schema.NewDecoder()
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	errBadRequest = errors.New("bad request")
)

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type cellParams struct {
	Col int `schema:"col,required"`
	Row int `schema:"row,required"`
}

type clickParams struct {
	X      float64 `schema:"x,required"`
	Y      float64 `schema:"y,required"`
	Button string  `schema:"button"`
}

type newGameParams struct {
	Difficulty string `schema:"difficulty"`
	Width      int    `schema:"width"`
	Height     int    `schema:"height"`
	Mines      int    `schema:"mines"`
}

type errorReply struct {
	Error string `json:"error"`
}

type Server struct {
	session *game.GameSession
	presets game.Presets
	hub     *Hub
	log     logrus.FieldLogger
}

func New(session *game.GameSession, presets game.Presets, log logrus.FieldLogger) *Server {
	if presets == nil {
		presets = game.DefaultPresets()
	}
	return &Server{
		session: session,
		presets: presets,
		hub:     NewHub(log),
		log:     log,
	}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/board", s.handleBoard)
	mux.HandleFunc("POST /api/reveal", s.cellHandler(s.session.HandleReveal))
	mux.HandleFunc("POST /api/flag", s.cellHandler(s.session.HandleFlagToggle))
	mux.HandleFunc("POST /api/chord", s.cellHandler(s.session.HandleChord))
	mux.HandleFunc("POST /api/click", s.handleClick)
	mux.HandleFunc("POST /api/new", s.handleNewGame)
	mux.HandleFunc("GET /ws", s.handleConnectWs)
	return mux
}

func (s *Server) Handler() http.Handler {
	return useMiddleware(s.ServeMux(), Cors(), Logging(s.log))
}

// Serve listens on addr until ctx is done, then shuts down
func (s *Server) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	s.log.Infof("ready to serve @ %s", addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		s.hub.Close()
		return server.Shutdown(context.Background())
	})
	return g.Wait()
}

// Broadcast pushes the current board to every websocket client
func (s *Server) Broadcast() {
	data, err := json.Marshal(s.session.View().Redacted())
	if err != nil {
		s.log.WithError(err).Error("marshal board")
		return
	}
	s.hub.Broadcast(data)
}

// RunDirector lets director play the session, game after game, until ctx is
// done. Every step is broadcast.
func (s *Server) RunDirector(ctx context.Context, director game.Director, interval time.Duration) error {
	director.Init(s.session)
	defer director.End()

	broadcasting := &broadcastingDirector{Director: director, server: s}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := game.ActContinuously(ctx, s.session, broadcasting, interval)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		// Wait for the next game, or for the board to change
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

type broadcastingDirector struct {
	game.Director
	server *Server
}

func (d *broadcastingDirector) Act() bool {
	acted := d.Director.Act()
	if acted {
		d.server.Broadcast()
	}
	return acted
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	s.replyWith(w, http.StatusOK, s.session.View().Redacted())
}

func (s *Server) cellHandler(handle func(col, row int) (game.SessionState, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params cellParams
		if err := decoder.Decode(&params, r.URL.Query()); err != nil {
			s.replyError(w, errors.Wrap(errBadRequest, err.Error()))
			return
		}
		s.act(w, func() error {
			_, err := handle(params.Col, params.Row)
			return err
		})
	}
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var params clickParams
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		s.replyError(w, errors.Wrap(errBadRequest, err.Error()))
		return
	}

	var handle func(col, row int) (game.SessionState, error)
	switch params.Button {
	case "", "left":
		handle = s.session.HandleReveal
	case "right":
		handle = s.session.HandleFlagToggle
	case "middle":
		handle = s.session.HandleChord
	default:
		s.replyError(w, errors.Wrapf(errBadRequest, "unknown button %q", params.Button))
		return
	}

	view := s.session.View()
	col, row, ok := layout.CanvasMapper(view.Width, view.Height).ToGrid(pixel.V(params.X, params.Y))
	if !ok {
		s.replyError(w, errors.Wrapf(game.ErrInvalidCoordinate, "pixel (%v, %v)", params.X, params.Y))
		return
	}

	s.log.WithFields(logrus.Fields{
		"button": params.Button,
		"col":    col,
		"row":    row,
	}).Debug("click")

	s.act(w, func() error {
		_, err := handle(col, row)
		return err
	})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var params newGameParams
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		s.replyError(w, errors.Wrap(errBadRequest, err.Error()))
		return
	}

	s.act(w, func() error {
		if params.Difficulty == "" && params.Width == 0 && params.Height == 0 && params.Mines == 0 {
			return s.session.Restart()
		}
		difficulty, err := s.difficulty(params)
		if err != nil {
			return err
		}
		return s.session.NewGame(difficulty)
	})
}

func (s *Server) difficulty(params newGameParams) (game.Difficulty, error) {
	if params.Difficulty != "" {
		return s.presets.Get(params.Difficulty)
	}
	return game.Difficulty{
		Width:     params.Width,
		Height:    params.Height,
		MineCount: params.Mines,
	}, nil
}

// act runs a session operation, then replies with the board and pushes it to
// websocket clients
func (s *Server) act(w http.ResponseWriter, op func() error) {
	if err := op(); err != nil {
		s.replyError(w, err)
		return
	}
	s.Broadcast()
	s.replyWith(w, http.StatusOK, s.session.View().Redacted())
}

func (s *Server) handleConnectWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Error("upgrade")
		return
	}

	c, ok := s.hub.register(conn)
	if !ok {
		conn.Close()
		return
	}

	go c.writePump()
	s.sendView(c)
	c.readPump(s.handleMessage)
}

func (s *Server) sendView(c *client) {
	data, err := json.Marshal(s.session.View().Redacted())
	if err != nil {
		s.log.WithError(err).Error("marshal board")
		return
	}
	s.hub.unicast(c, data)
}

// handleMessage runs each command of a websocket message, stopping at the
// first failure, which is reported to the sender only
func (s *Server) handleMessage(c *client, message string) {
	changed := false
	for _, line := range splitCommands(message) {
		if err := s.execute(line); err != nil {
			s.log.WithError(err).WithField("command", line).Info("command rejected")
			data, _ := json.Marshal(errorReply{Error: err.Error()})
			s.hub.unicast(c, data)
			break
		}
		changed = true
	}
	if changed {
		s.Broadcast()
	}
}

func (s *Server) execute(line string) error {
	cmd, err := parseCommand(line)
	if err != nil {
		return err
	}

	switch cmd.kind {
	case commandReveal:
		_, err = s.session.HandleReveal(cmd.col, cmd.row)
	case commandFlag:
		_, err = s.session.HandleFlagToggle(cmd.col, cmd.row)
	case commandChord:
		_, err = s.session.HandleChord(cmd.col, cmd.row)
	case commandNew:
		switch {
		case cmd.preset != "":
			var difficulty game.Difficulty
			if difficulty, err = s.presets.Get(cmd.preset); err == nil {
				err = s.session.NewGame(difficulty)
			}
		case cmd.difficulty != game.Difficulty{}:
			err = s.session.NewGame(cmd.difficulty)
		default:
			err = s.session.Restart()
		}
	}
	return err
}

func (s *Server) replyError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, game.ErrInvalidCoordinate),
		errors.Is(err, game.ErrInvalidDifficulty),
		errors.Is(err, errBadRequest):
	default:
		status = http.StatusInternalServerError
		s.log.WithError(err).Error("request failed")
	}
	s.replyWith(w, status, errorReply{Error: err.Error()})
}

func (s *Server) replyWith(w http.ResponseWriter, status int, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.log.WithError(err).Error("failed to marshal json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		s.log.WithError(err).Error("failed to send data")
	}
}
