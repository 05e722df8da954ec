package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
)

var (
	ErrInvalidSettings = errors.New("invalid game settings")
	ErrDuplicatePiece  = errors.New("piece is already taken by another player")
	ErrPieceLength     = errors.New("piece must be a single character")
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, match *tictactoe.Match) error
	GetByID(ctx context.Context, id string) (*tictactoe.Match, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*tictactoe.Match, error)
}

type PlayerSettings struct {
	Piece string
	Name  string
}

// Settings describe the board and the players of a new game, in turn order.
type Settings struct {
	Rows      int
	Columns   int
	RunLength int
	Debug     bool
	Players   []PlayerSettings
}

// GameManager drives matches for front-ends: it places moves, checks for a winner
// or a full board after each one, and concludes the round when either happens.
type GameManager struct {
	logger   *slog.Logger
	base     *slog.Logger
	gameRepo gameRepo

	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		base:     logger,
		gameRepo: gameRepo,
	}
}

// CreateGame builds a board and an engine from settings, registers the players and starts play.
func (that *GameManager) CreateGame(ctx context.Context, settings Settings) (*tictactoe.Match, error) {
	log := that.logger.With("method", "CreateGame")

	if err := validatePlayers(settings.Players); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	var opts []entity.BoardOption
	if settings.Debug {
		opts = append(opts, entity.WithDebugLogger(that.base))
	}

	board, err := entity.NewBoard(settings.Rows, settings.Columns, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	engine, err := tictactoe.NewEngine(that.base, board, settings.RunLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	for _, ps := range settings.Players {
		player, err := entity.NewPlayer(entity.Mark(ps.Piece), ps.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}

		if err = engine.AddPlayer(player); err != nil {
			return nil, fmt.Errorf("failed to add player: %w", err)
		}
	}

	engine.ToggleRunning()

	match := tictactoe.NewMatch(uuid.NewString(), engine)
	if err = that.gameRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "gameID", match.ID, "rows", settings.Rows, "columns", settings.Columns,
		"runLength", settings.RunLength, "players", len(settings.Players))

	return match, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*tictactoe.Match, error) {
	match, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return match, nil
}

func (that *GameManager) ListGames(ctx context.Context) ([]*tictactoe.Match, error) {
	matches, err := that.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return matches, nil
}

// MakeMove plays the current player's piece at (row, column). A win or a full board
// concludes the round; moves on a concluded round fail with apperror.ErrGameFinished.
// A move that cannot be stored is reverted before the error is returned.
func (that *GameManager) MakeMove(ctx context.Context, id string, row, column int) (*tictactoe.Match, error) {
	log := that.logger.With("method", "MakeMove", "gameID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	match, err := that.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = match.ConfirmOngoingState(); err != nil {
		return match, fmt.Errorf("failed make turn: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return match, fmt.Errorf("failed make turn: %w", err)
	}

	checkpoint := match.Checkpoint()

	if err = match.Engine.PlaceMoveAt(row, column); err != nil {
		return match, fmt.Errorf("failed make turn: %w", err)
	}

	if err = match.Engine.Validate(); err != nil {
		log.Warn("board invariant broken", "error", err)
	}

	if outcome := match.Engine.ComputeOutcome(); outcome.IsWin() {
		match.Conclude(outcome)
		log.Info("game won", "piece", outcome.Piece, "row", outcome.Row, "column", outcome.Column,
			"direction", outcome.Direction)
	} else if match.Engine.IsBoardFilled() {
		match.ConcludeTie()
		log.Info("game tied")
	}

	if err = that.updateGame(ctx, match); err != nil {
		match.Rollback(checkpoint, row, column)
		log.Error("move reverted", "row", row, "column", column, "error", err)
		return match, err
	}

	return match, nil
}

// Restart clears the board and starts a new round with the same players.
func (that *GameManager) Restart(ctx context.Context, id string) (*tictactoe.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, err := that.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	match.Reopen()

	if err = that.updateGame(ctx, match); err != nil {
		return nil, err
	}

	that.logger.Info("game restarted", "gameID", id, "round", match.Rounds+1)

	return match, nil
}

// RenamePlayer renames the player with the given 1-based number.
func (that *GameManager) RenamePlayer(ctx context.Context, id string, number int, name string) (*tictactoe.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	match, err := that.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	players := match.Engine.Players()
	if number < 1 || number > len(players) {
		return nil, fmt.Errorf("%w: number %d", apperror.ErrPlayerNotFound, number)
	}

	player := players[number-1]
	previous := player.Name()
	player.Rename(name)

	if err = that.updateGame(ctx, match); err != nil {
		player.Rename(previous)
		return match, err
	}

	return match, nil
}

// Winner resolves the last winning piece of match to its player and 1-based number.
func (that *GameManager) Winner(match *tictactoe.Match) (*entity.Player, int, error) {
	if !match.Result.IsWin() {
		return nil, 0, apperror.ErrPlayerNotFound
	}

	player, number, err := match.Engine.LookupPlayerByPiece(match.Result.Piece)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find winner: %w", err)
	}

	return player, number, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

// validatePlayers requires at least one player and a distinct single-character piece for each,
// so a piece on the board always names exactly one player.
func validatePlayers(players []PlayerSettings) error {
	if len(players) == 0 {
		return apperror.ErrNoPlayers
	}

	seen := make(map[string]int, len(players))
	for i, ps := range players {
		if ps.Piece == "" {
			return entity.ErrEmptyPiece
		}

		if utf8.RuneCountInString(ps.Piece) != 1 {
			return fmt.Errorf("%w: player %d has %q", ErrPieceLength, i+1, ps.Piece)
		}

		if owner, ok := seen[ps.Piece]; ok {
			return fmt.Errorf("%w: %q is used by players %d and %d", ErrDuplicatePiece, ps.Piece, owner, i+1)
		}
		seen[ps.Piece] = i + 1
	}

	return nil
}

func (that *GameManager) updateGame(ctx context.Context, match *tictactoe.Match) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, match); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
