package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrGameIsRunning    = errors.New("game is already running")
	ErrNoPlayers        = errors.New("no players registered")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrGameNotFound     = errors.New("game not found")
	ErrPlayerNotFound   = errors.New("player not found")
)
