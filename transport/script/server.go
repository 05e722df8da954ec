// Package script runs Lua programs against a match. Scripts see a global "game"
// table whose functions place moves and inspect the board.
package script

import (
	"context"
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
)

type uGame interface {
	GetGame(ctx context.Context, id string) (*tictactoe.Match, error)
	MakeMove(ctx context.Context, id string, row, column int) (*tictactoe.Match, error)
	Restart(ctx context.Context, id string) (*tictactoe.Match, error)
	RenamePlayer(ctx context.Context, id string, number int, name string) (*tictactoe.Match, error)
	Winner(match *tictactoe.Match) (*entity.Player, int, error)
}

type Server struct {
	logger *slog.Logger
	uGame  uGame
}

func New(logger *slog.Logger, uGame uGame) *Server {
	return &Server{
		logger: logger.With("component", "script"),
		uGame:  uGame,
	}
}

// RunFile executes the Lua file at path against the game with the given id.
func (that *Server) RunFile(ctx context.Context, gameID, path string) error {
	that.logger.Info("running script", "gameID", gameID, "path", path)

	return that.run(ctx, gameID, func(state *lua.LState) error {
		return state.DoFile(path)
	})
}

// RunString executes Lua source against the game with the given id.
func (that *Server) RunString(ctx context.Context, gameID, source string) error {
	return that.run(ctx, gameID, func(state *lua.LState) error {
		return state.DoString(source)
	})
}

func (that *Server) run(ctx context.Context, gameID string, exec func(*lua.LState) error) error {
	if _, err := that.uGame.GetGame(ctx, gameID); err != nil {
		return err
	}

	state := lua.NewState()
	defer state.Close()

	state.SetContext(ctx)

	bindings := &session{
		logger: that.logger.With("gameID", gameID),
		uGame:  that.uGame,
		gameID: gameID,
	}
	bindings.register(state)

	if err := exec(state); err != nil {
		return fmt.Errorf("script failed: %w", err)
	}

	return nil
}
