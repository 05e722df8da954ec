package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe/internal/config"
	"github.com/rocketscienceinc/tictactoe/internal/repository"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
	"github.com/rocketscienceinc/tictactoe/transport/script"
	"github.com/rocketscienceinc/tictactoe/transport/terminal"
)

var (
	ErrUnknownMode  = errors.New("unknown mode")
	ErrNoScriptPath = errors.New("script mode needs a script path")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	gameRepo := repository.NewGameRepository()
	gameUseCase := usecase.NewGameManager(logger, gameRepo)

	match, err := gameUseCase.CreateGame(ctx, Settings(conf))
	if err != nil {
		return fmt.Errorf("could not create game: %w", err)
	}

	switch conf.Mode {
	case config.ModeTerminal, "":
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("could not create screen: %w", err)
		}

		if err = screen.Init(); err != nil {
			return fmt.Errorf("could not init screen: %w", err)
		}
		defer screen.Fini()

		log.Info("Starting terminal", "gameID", match.ID)
		return terminal.New(logger, gameUseCase, match).Start(ctx, screen)
	case config.ModeScript:
		if conf.ScriptPath == "" {
			return ErrNoScriptPath
		}

		log.Info("Starting script", "gameID", match.ID, "path", conf.ScriptPath)
		return script.New(logger, gameUseCase).RunFile(ctx, match.ID, conf.ScriptPath)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, conf.Mode)
	}
}

// Settings translates the board and player sections of conf into game settings.
func Settings(conf *config.Config) usecase.Settings {
	players := make([]usecase.PlayerSettings, 0, len(conf.Players))
	for _, p := range conf.Players {
		players = append(players, usecase.PlayerSettings{Piece: p.Piece, Name: p.Name})
	}

	return usecase.Settings{
		Rows:      conf.Board.Rows,
		Columns:   conf.Board.Columns,
		RunLength: conf.Board.RunLength,
		Debug:     conf.Debug,
		Players:   players,
	}
}
