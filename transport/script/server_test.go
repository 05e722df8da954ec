package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/testing/suite"
)

const rowWinScript = `
assert(game.status() == "ongoing")
assert(game.move(0, 0))
assert(game.move(1, 0))
assert(game.move(0, 1))
assert(game.move(1, 1))
assert(game.outcome() == nil)
assert(game.move(0, 2))

local o = game.outcome()
assert(o.piece == "X", "piece " .. tostring(o.piece))
assert(o.row == 0 and o.column == 0)
assert(o.direction == "row")
assert(o.run_length == 3)

local number, piece, name = game.winner()
assert(number == 1 and piece == "X" and name == "alice")
assert(not game.running())
assert(game.status() == "finished")

local ok, err = game.move(2, 2)
assert(not ok)
assert(string.find(err, "finished"), err)
`

func TestServer_RunString(t *testing.T) {
	t.Run("Plays a row win", func(t *testing.T) {
		ctx, s := suite.New(t)
		server := New(s.Logger, s.Manager)

		// When: the script plays X across the top row
		err := server.RunString(ctx, s.Match.ID, rowWinScript)

		// Then: the match is won by X
		require.NoError(t, err)
		assert.True(t, s.Match.IsFinished())
		assert.Equal(t, 1, s.Match.Wins[entity.Mark("X")])
	})

	t.Run("Reads the board and players", func(t *testing.T) {
		ctx, s := suite.New(t)
		server := New(s.Logger, s.Manager)

		err := server.RunString(ctx, s.Match.ID, `
			local rows, columns = game.dimensions()
			assert(rows == 3 and columns == 3)

			local number, piece = game.turn()
			assert(number == 1 and piece == "X")
			assert(game.move(1, 1))
			number, piece = game.turn()
			assert(number == 2 and piece == "O")

			assert(game.piece(1, 1) == "X")
			assert(game.piece(0, 0) == "")
			assert(game.piece(-1, 7) == "")
			assert(not game.filled())

			local ok, err = game.move(1, 1)
			assert(not ok and string.find(err, "occupied"), err)
			ok, err = game.move(3, 0)
			assert(not ok and string.find(err, "invalid cell"), err)

			assert(game.rename(2, "carol"))
			local p, n = game.player(2)
			assert(p == "O" and n == "carol")
			assert(game.player(3) == nil)
			assert(not game.rename(3, "nobody"))

			assert(type(game.board()) == "string")
			game.log("done")
		`)

		require.NoError(t, err)
		assert.Equal(t, "carol", s.Match.Engine.Players()[1].Name())
	})

	t.Run("Restart keeps the tally", func(t *testing.T) {
		ctx, s := suite.New(t)
		server := New(s.Logger, s.Manager)

		err := server.RunString(ctx, s.Match.ID, `
			-- X O X / X O O / O X X
			local moves = {{0,0},{0,1},{0,2},{1,1},{1,0},{1,2},{2,1},{2,0},{2,2}}
			for _, m in ipairs(moves) do
				assert(game.move(m[1], m[2]))
			end
			assert(game.filled())
			assert(game.outcome() == nil)
			assert(game.winner() == nil)

			game.restart()
			local t = game.tally()
			assert(t.ties == 1 and t.rounds == 1)
			assert(game.running())
		`)

		require.NoError(t, err)
		assert.True(t, s.Match.IsOngoing())
	})

	t.Run("Lua errors are returned", func(t *testing.T) {
		ctx, s := suite.New(t)
		server := New(s.Logger, s.Manager)

		err := server.RunString(ctx, s.Match.ID, `error("boom")`)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("Unknown game", func(t *testing.T) {
		ctx, s := suite.New(t)
		server := New(s.Logger, s.Manager)

		err := server.RunString(ctx, "missing", `game.move(0, 0)`)

		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Stops when the context is canceled", func(t *testing.T) {
		_, s := suite.New(t)
		server := New(s.Logger, s.Manager)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := server.RunString(ctx, s.Match.ID, `while true do end`)

		assert.Error(t, err)
	})
}

func TestServer_RunFile(t *testing.T) {
	ctx, s := suite.New(t)
	server := New(s.Logger, s.Manager)

	path := filepath.Join(t.TempDir(), "row.lua")
	require.NoError(t, os.WriteFile(path, []byte(rowWinScript), 0o600))

	require.NoError(t, server.RunFile(ctx, s.Match.ID, path))
	assert.True(t, s.Match.IsFinished())

	err := server.RunFile(ctx, s.Match.ID, filepath.Join(t.TempDir(), "missing.lua"))
	assert.Error(t, err)
}
