package tictactoe

import (
	"errors"
	"fmt"
	"maps"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Match is one game session: an engine plus the results of every round played on it.
type Match struct {
	ID     string
	Engine *Engine

	Status string
	Result Outcome
	Tie    bool

	Wins   map[entity.Mark]int
	Ties   int
	Rounds int
}

func NewMatch(id string, engine *Engine) *Match {
	status := StatusWaiting
	if engine.IsRunning() {
		status = StatusOngoing
	}

	return &Match{
		ID:     id,
		Engine: engine,
		Status: status,
		Wins:   make(map[entity.Mark]int),
	}
}

func (that *Match) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Match) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Match) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Match) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// Conclude records a win and stops the engine.
func (that *Match) Conclude(outcome Outcome) {
	that.finish()
	that.Result = outcome
	that.Wins[outcome.Piece]++
}

// ConcludeTie records a round that filled the board without a winner and stops the engine.
func (that *Match) ConcludeTie() {
	that.finish()
	that.Tie = true
	that.Ties++
}

// Reopen clears the board and turn and starts a new round with the same players.
func (that *Match) Reopen() {
	that.Engine.Restart()
	if !that.Engine.IsRunning() {
		that.Engine.ToggleRunning()
	}

	that.Status = StatusOngoing
	that.Result = Outcome{}
	that.Tie = false
}

// Checkpoint is the part of a match a single move can change.
type Checkpoint struct {
	turnIndex int
	running   bool

	status string
	result Outcome
	tie    bool
	wins   map[entity.Mark]int
	ties   int
	rounds int
}

func (that *Match) Checkpoint() Checkpoint {
	wins := maps.Clone(that.Wins)
	if wins == nil {
		wins = make(map[entity.Mark]int)
	}

	return Checkpoint{
		turnIndex: that.Engine.turnIndex,
		running:   that.Engine.running,
		status:    that.Status,
		result:    that.Result,
		tie:       that.Tie,
		wins:      wins,
		ties:      that.Ties,
		rounds:    that.Rounds,
	}
}

// Rollback clears (row, column) and puts the turn, the status and the tally back to checkpoint.
func (that *Match) Rollback(checkpoint Checkpoint, row, column int) {
	if err := that.Engine.board.SetPiece(row, column, entity.Empty); err != nil {
		that.Engine.logger.Warn("rollback outside the board", "row", row, "column", column)
	}

	that.Engine.turnIndex = checkpoint.turnIndex
	that.Engine.running = checkpoint.running

	that.Status = checkpoint.status
	that.Result = checkpoint.result
	that.Tie = checkpoint.tie
	that.Wins = checkpoint.wins
	that.Ties = checkpoint.ties
	that.Rounds = checkpoint.rounds
}

func (that *Match) finish() {
	if that.Engine.IsRunning() {
		that.Engine.ToggleRunning()
	}

	that.Status = StatusFinished
	that.Rounds++
}
