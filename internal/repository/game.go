package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
)

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, match *tictactoe.Match) error
	GetByID(ctx context.Context, id string) (*tictactoe.Match, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*tictactoe.Match, error)
}

// memGame keeps matches in process memory only; they are gone when the process exits.
type memGame struct {
	mu      sync.RWMutex
	matches map[string]*tictactoe.Match
}

func NewGameRepository() GameRepository {
	return &memGame{
		matches: make(map[string]*tictactoe.Match),
	}
}

func (that *memGame) CreateOrUpdate(ctx context.Context, match *tictactoe.Match) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.matches[match.ID] = match

	return nil
}

func (that *memGame) GetByID(ctx context.Context, id string) (*tictactoe.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	match, ok := that.matches[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return match, nil
}

func (that *memGame) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.matches[id]; !ok {
		return apperror.ErrGameNotFound
	}

	delete(that.matches, id)

	return nil
}

func (that *memGame) List(ctx context.Context) ([]*tictactoe.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	that.mu.RLock()
	matches := make([]*tictactoe.Match, 0, len(that.matches))
	for _, match := range that.matches {
		matches = append(matches, match)
	}
	that.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ID < matches[j].ID
	})

	return matches, nil
}
