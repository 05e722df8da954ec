package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/testing/suite"
)

func newSimulationScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()

	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 12)

	t.Cleanup(screen.Fini)

	return screen
}

func screenLine(screen tcell.SimulationScreen, y int) string {
	cells, width, _ := screen.GetContents()

	var line strings.Builder
	for x := 0; x < width; x++ {
		runes := cells[y*width+x].Runes
		if len(runes) == 0 {
			line.WriteRune(' ')
			continue
		}
		line.WriteRune(runes[0])
	}

	return strings.TrimRight(line.String(), " ")
}

func keyRune(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func TestServer_HandleKey(t *testing.T) {
	t.Run("Cursor moves and stays on the board", func(t *testing.T) {
		ctx, s := suite.New(t)
		server := New(s.Logger, s.Manager, s.Match)

		// When: the cursor is pushed past the top-left corner
		server.HandleKey(ctx, key(tcell.KeyUp))
		server.HandleKey(ctx, keyRune('h'))

		// Then: it stays at (0,0)
		row, col := server.Selection()
		assert.Equal(t, 0, row)
		assert.Equal(t, 0, col)

		// When: it moves down twice and right three times
		server.HandleKey(ctx, key(tcell.KeyDown))
		server.HandleKey(ctx, keyRune('j'))
		server.HandleKey(ctx, key(tcell.KeyRight))
		server.HandleKey(ctx, keyRune('l'))
		server.HandleKey(ctx, keyRune('l'))

		// Then: it stops at the bottom-right corner
		row, col = server.Selection()
		assert.Equal(t, 2, row)
		assert.Equal(t, 2, col)
	})

	t.Run("Enter places the current player's piece", func(t *testing.T) {
		ctx, s := suite.New(t)
		server := New(s.Logger, s.Manager, s.Match)

		quit := server.HandleKey(ctx, key(tcell.KeyEnter))

		assert.False(t, quit)
		assert.Equal(t, entity.Mark("X"), s.Match.Engine.Board().Piece(0, 0))
		assert.Equal(t, "Player 2 (O) bob to move", server.StatusLine())
	})

	t.Run("Occupied cell shows a message", func(t *testing.T) {
		ctx, s := suite.New(t)
		server := New(s.Logger, s.Manager, s.Match)

		server.HandleKey(ctx, keyRune(' '))
		server.HandleKey(ctx, keyRune(' '))

		assert.Equal(t, "That cell is already taken", server.Message())
		assert.Equal(t, 1, s.Match.Engine.TurnIndex())
	})

	t.Run("Quit keys", func(t *testing.T) {
		ctx, s := suite.New(t)
		server := New(s.Logger, s.Manager, s.Match)

		assert.True(t, server.HandleKey(ctx, keyRune('q')))
		assert.True(t, server.HandleKey(ctx, key(tcell.KeyEscape)))
		assert.False(t, server.HandleKey(ctx, keyRune('z')))
	})
}

func TestServer_Round(t *testing.T) {
	ctx, s := suite.New(t)
	server := New(s.Logger, s.Manager, s.Match)

	// Given: X takes the left column while O plays the middle column
	for _, keys := range [][]*tcell.EventKey{
		{key(tcell.KeyEnter)},                             // X (0,0)
		{keyRune('l'), key(tcell.KeyEnter)},               // O (0,1)
		{keyRune('h'), keyRune('j'), key(tcell.KeyEnter)}, // X (1,0)
		{keyRune('l'), key(tcell.KeyEnter)},               // O (1,1)
		{keyRune('h'), keyRune('j'), key(tcell.KeyEnter)}, // X (2,0)
	} {
		for _, ev := range keys {
			server.HandleKey(ctx, ev)
		}
	}

	// Then: X wins along the column
	assert.True(t, s.Match.IsFinished())
	assert.Equal(t, "Player 1 (X) alice wins: column from (0,0). Press r to play again", server.StatusLine())
	assert.Equal(t, "X: 1  O: 0  ties: 0", server.TallyLine())

	// When: the round is restarted
	server.HandleKey(ctx, keyRune('r'))

	// Then: a fresh board waits for X and the tally is kept
	assert.True(t, s.Match.IsOngoing())
	assert.Equal(t, "Player 1 (X) alice to move", server.StatusLine())
	assert.Equal(t, "X: 1  O: 0  ties: 0", server.TallyLine())
	assert.Equal(t, entity.Empty, s.Match.Engine.Board().Piece(0, 0))
}

func TestServer_Draw(t *testing.T) {
	ctx, s := suite.New(t)
	screen := newSimulationScreen(t)
	server := New(s.Logger, s.Manager, s.Match)

	server.HandleKey(ctx, key(tcell.KeyEnter))
	server.HandleKey(ctx, key(tcell.KeyDown))

	server.Draw(screen)
	screen.Show()

	assert.Equal(t, "tic-tac-toe 3x3, 3 in a row", screenLine(screen, 0))
	assert.Equal(t, "[X] [ ] [ ]", screenLine(screen, boardTop))
	assert.Equal(t, "[ ] [ ] [ ]", screenLine(screen, boardTop+1))
	assert.Equal(t, "Player 2 (O) bob to move", screenLine(screen, boardTop+4))
	assert.Equal(t, helpLine, screenLine(screen, boardTop+7))

	cells, width, _ := screen.GetContents()
	_, _, attrs := cells[(boardTop+1)*width].Style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrReverse, "selected cell is highlighted")
}

func TestServer_Start(t *testing.T) {
	t.Run("Plays injected keys until quit", func(t *testing.T) {
		ctx, s := suite.New(t)
		screen := newSimulationScreen(t)
		server := New(s.Logger, s.Manager, s.Match)

		screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
		screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

		require.NoError(t, server.Start(ctx, screen))
		assert.Equal(t, entity.Mark("X"), s.Match.Engine.Board().Piece(0, 0))
	})

	t.Run("Stops when the context is canceled", func(t *testing.T) {
		_, s := suite.New(t)
		screen := newSimulationScreen(t)
		server := New(s.Logger, s.Manager, s.Match)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.NoError(t, server.Start(ctx, screen))
	})
}
