package tictactoe

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

const MinRunLength = 2

var (
	ErrInvalidRunLength = errors.New("run length must be at least 2")
	ErrInvalidPlayer    = errors.New("invalid player")
	ErrUnknownPiece     = errors.New("board holds a piece no player owns")
)

// Engine runs a turn-based game between an ordered list of players on a shared board.
// It is not safe for concurrent use.
type Engine struct {
	logger *slog.Logger

	board     *entity.Board
	players   []*entity.Player
	turnIndex int
	running   bool
	runLength int
}

func NewEngine(logger *slog.Logger, board *entity.Board, runLength int) (*Engine, error) {
	if board == nil {
		return nil, fmt.Errorf("%w: nil board", entity.ErrInvalidDimensions)
	}

	if runLength < MinRunLength {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRunLength, runLength)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		logger:    logger.With("component", "engine"),
		board:     board,
		runLength: runLength,
	}, nil
}

func (that *Engine) Board() *entity.Board {
	return that.board
}

func (that *Engine) RunLength() int {
	return that.runLength
}

// Players returns the registered players in turn order.
func (that *Engine) Players() []*entity.Player {
	players := make([]*entity.Player, len(that.players))
	copy(players, that.players)

	return players
}

// AddPlayer appends a player to the turn order. Players can only join while the game is stopped.
func (that *Engine) AddPlayer(player *entity.Player) error {
	if player == nil {
		return ErrInvalidPlayer
	}

	if that.running {
		return apperror.ErrGameIsRunning
	}

	that.players = append(that.players, player)
	that.logger.Debug("player added", "piece", player.Piece(), "name", player.Name(), "number", len(that.players))

	return nil
}

func (that *Engine) IsRunning() bool {
	return that.running
}

func (that *Engine) ToggleRunning() {
	that.running = !that.running
	that.logger.Debug("running toggled", "running", that.running)
}

func (that *Engine) TurnIndex() int {
	return that.turnIndex
}

func (that *Engine) ResetTurn() {
	that.turnIndex = 0
}

func (that *Engine) AdvanceTurn() {
	that.turnIndex = (that.turnIndex + 1) % max(1, len(that.players))
}

// CurrentPlayer returns the player whose move is accepted next.
func (that *Engine) CurrentPlayer() (*entity.Player, error) {
	if len(that.players) == 0 {
		return nil, apperror.ErrNoPlayers
	}

	return that.players[that.turnIndex], nil
}

// PlaceMoveAt puts the current player's piece on (row, column) and passes the turn.
// A rejected move leaves the board and the turn untouched.
func (that *Engine) PlaceMoveAt(row, column int) error {
	if err := that.validateMove(row, column); err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	player := that.players[that.turnIndex]
	if err := that.board.SetPiece(row, column, player.Piece()); err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	that.logger.Debug("move placed", "piece", player.Piece(), "row", row, "column", column)
	that.AdvanceTurn()

	return nil
}

// validateMove - checks if the move is valid.
func (that *Engine) validateMove(row, column int) error {
	if !that.running {
		return apperror.ErrGameIsNotStarted
	}

	if len(that.players) == 0 {
		return apperror.ErrNoPlayers
	}

	if !that.board.IsInBounds(row, column) {
		return fmt.Errorf("%w: (%d,%d)", entity.ErrInvalidCell, row, column)
	}

	if !that.board.Piece(row, column).IsEmpty() {
		return apperror.ErrCellOccupied
	}

	return nil
}

func (that *Engine) IsBoardFilled() bool {
	return that.board.IsFilled()
}

// LookupPlayerByPiece returns the first player owning mark and its 1-based number.
func (that *Engine) LookupPlayerByPiece(mark entity.Mark) (*entity.Player, int, error) {
	for i, player := range that.players {
		if player.Piece() == mark {
			return player, i + 1, nil
		}
	}

	return nil, 0, fmt.Errorf("%w: piece %q", apperror.ErrPlayerNotFound, mark)
}

// Restart wipes the board and hands the turn back to the first player.
// The running flag and the players are kept.
func (that *Engine) Restart() {
	that.board.Wipe()
	that.ResetTurn()
}

// Validate checks the board shape and that every occupied cell belongs to a registered player.
func (that *Engine) Validate() error {
	if err := that.board.Validate(); err != nil {
		return err
	}

	rows, columns := that.board.Dimensions()
	for i := 0; i < rows; i++ {
		for j := 0; j < columns; j++ {
			mark := that.board.Piece(i, j)
			if mark.IsEmpty() {
				continue
			}

			if _, _, err := that.LookupPlayerByPiece(mark); err != nil {
				return fmt.Errorf("%w: %q at (%d,%d)", ErrUnknownPiece, mark, i, j)
			}
		}
	}

	return nil
}
