// Package terminal is a keyboard-driven front-end that plays one match on a tcell screen.
package terminal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
)

type uGame interface {
	MakeMove(ctx context.Context, id string, row, column int) (*tictactoe.Match, error)
	Restart(ctx context.Context, id string) (*tictactoe.Match, error)
	Winner(match *tictactoe.Match) (*entity.Player, int, error)
}

type Server struct {
	logger *slog.Logger
	uGame  uGame

	match   *tictactoe.Match
	selRow  int
	selCol  int
	message string

	handlers map[rune]func(ctx context.Context) bool
}

func New(logger *slog.Logger, uGame uGame, match *tictactoe.Match) *Server {
	server := &Server{
		logger: logger.With("component", "terminal"),
		uGame:  uGame,
		match:  match,

		handlers: make(map[rune]func(context.Context) bool),
	}

	server.handlers[' '] = server.handlePlace
	server.handlers['r'] = server.handleRestart
	server.handlers['q'] = server.handleQuit
	server.handlers['h'] = server.mover(0, -1)
	server.handlers['j'] = server.mover(1, 0)
	server.handlers['k'] = server.mover(-1, 0)
	server.handlers['l'] = server.mover(0, 1)

	return server
}

// Start runs the event loop on an initialised screen until the player quits,
// the screen is finalised or ctx is canceled.
func (that *Server) Start(ctx context.Context, screen tcell.Screen) error {
	log := that.logger.With("method", "Start", "gameID", that.match.ID)

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			if err := screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
				log.Error("failed to interrupt screen", "error", err)
			}
		case <-done:
		}
	}()

	log.Info("terminal session started")

	for {
		that.Draw(screen)
		screen.Show()

		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			log.Info("terminal session interrupted")
			return nil
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if that.HandleKey(ctx, ev) {
				log.Info("terminal session closed by player")
				return nil
			}
		}
	}
}

// HandleKey applies one key press and reports whether the player asked to quit.
func (that *Server) HandleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return that.handleQuit(ctx)
	case tcell.KeyEnter:
		return that.handlePlace(ctx)
	case tcell.KeyUp:
		return that.moveSelection(-1, 0)
	case tcell.KeyDown:
		return that.moveSelection(1, 0)
	case tcell.KeyLeft:
		return that.moveSelection(0, -1)
	case tcell.KeyRight:
		return that.moveSelection(0, 1)
	case tcell.KeyRune:
		handler, ok := that.handlers[ev.Rune()]
		if !ok {
			return false
		}

		return handler(ctx)
	default:
		return false
	}
}

// Selection returns the cell under the cursor.
func (that *Server) Selection() (int, int) {
	return that.selRow, that.selCol
}

func (that *Server) Message() string {
	return that.message
}

func (that *Server) handlePlace(ctx context.Context) bool {
	log := that.logger.With("method", "handlePlace", "row", that.selRow, "column", that.selCol)

	match, err := that.uGame.MakeMove(ctx, that.match.ID, that.selRow, that.selCol)
	if err != nil {
		log.Debug("move refused", "error", err)
		that.message = describeError(err)
		return false
	}

	that.match = match
	that.message = ""

	return false
}

func (that *Server) handleRestart(ctx context.Context) bool {
	match, err := that.uGame.Restart(ctx, that.match.ID)
	if err != nil {
		that.logger.Error("failed to restart game", "error", err)
		that.message = describeError(err)
		return false
	}

	that.match = match
	that.selRow, that.selCol = 0, 0
	that.message = "New round"

	return false
}

func (that *Server) handleQuit(_ context.Context) bool {
	return true
}

func (that *Server) mover(dRow, dCol int) func(context.Context) bool {
	return func(context.Context) bool {
		return that.moveSelection(dRow, dCol)
	}
}

// moveSelection shifts the cursor, refusing to leave the board.
func (that *Server) moveSelection(dRow, dCol int) bool {
	board := that.match.Engine.Board()
	if board.IsInBounds(that.selRow+dRow, that.selCol+dCol) {
		that.selRow += dRow
		that.selCol += dCol
	}

	return false
}

// StatusLine describes whose turn it is or how the round ended.
func (that *Server) StatusLine() string {
	engine := that.match.Engine

	switch {
	case that.match.IsFinished() && that.match.Tie:
		return "Tie! Press r to play again"
	case that.match.IsFinished():
		player, number, err := that.uGame.Winner(that.match)
		if err != nil {
			return "Game over. Press r to play again"
		}

		result := that.match.Result
		return fmt.Sprintf("Player %d (%s) %s wins: %s from (%d,%d). Press r to play again",
			number, player.Piece(), player.Name(), result.Direction, result.Row, result.Column)
	default:
		player, err := engine.CurrentPlayer()
		if err != nil {
			return describeError(err)
		}

		return fmt.Sprintf("Player %d (%s) %s to move", engine.TurnIndex()+1, player.Piece(), player.Name())
	}
}

// TallyLine lists the wins of every player and the ties of this match.
func (that *Server) TallyLine() string {
	line := ""
	for _, player := range that.match.Engine.Players() {
		line += fmt.Sprintf("%s: %d  ", player.Piece(), that.match.Wins[player.Piece()])
	}

	return line + fmt.Sprintf("ties: %d", that.match.Ties)
}
