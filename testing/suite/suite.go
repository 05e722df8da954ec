package suite

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/repository"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
)

const maxWaitDuration = 10 * time.Second

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Manager *usecase.GameManager
	Match   *tictactoe.Match
}

// New returns a context bounded by maxWaitDuration and a manager holding one
// running 3x3 game between X and O.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	manager := usecase.NewGameManager(logger, repository.NewGameRepository())

	match, err := manager.CreateGame(ctx, usecase.Settings{
		Rows:      3,
		Columns:   3,
		RunLength: 3,
		Players: []usecase.PlayerSettings{
			{Piece: "X", Name: "alice"},
			{Piece: "O", Name: "bob"},
		},
	})
	if err != nil {
		t.Fatalf("could not create game: %v", err)
	}

	t.Cleanup(func() {
		t.Helper()

		if err = manager.DeleteGame(context.Background(), match.ID); err != nil {
			t.Logf("could not delete game: %v", err)
		}
	})

	return ctx, &Suite{
		T:       t,
		Logger:  logger,
		Manager: manager,
		Match:   match,
	}
}
