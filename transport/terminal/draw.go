package terminal

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
)

const (
	boardTop  = 2
	cellWidth = 4

	helpLine = "arrows/hjkl: move  enter/space: place  r: restart  q: quit"
)

var (
	defaultStyle  = tcell.StyleDefault
	selectedStyle = tcell.StyleDefault.Reverse(true)
	titleStyle    = tcell.StyleDefault.Bold(true)
	errorStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Draw renders the board, the status and the tally onto screen.
func (that *Server) Draw(screen tcell.Screen) {
	screen.Clear()

	engine := that.match.Engine
	rows, columns := engine.Board().Dimensions()

	drawText(screen, 0, 0, titleStyle, fmt.Sprintf("tic-tac-toe %dx%d, %d in a row", rows, columns, engine.RunLength()))

	for i := 0; i < rows; i++ {
		for j := 0; j < columns; j++ {
			style := defaultStyle
			if i == that.selRow && j == that.selCol {
				style = selectedStyle
			}

			drawText(screen, j*cellWidth, boardTop+i, style, "["+cellText(engine.Board().Piece(i, j))+"]")
		}
	}

	y := boardTop + rows + 1
	drawText(screen, 0, y, defaultStyle, that.StatusLine())
	drawText(screen, 0, y+1, defaultStyle, that.TallyLine())
	drawText(screen, 0, y+2, errorStyle, that.message)
	drawText(screen, 0, y+3, defaultStyle, helpLine)
}

func cellText(mark entity.Mark) string {
	if mark.IsEmpty() {
		return " "
	}

	return string([]rune(mark)[0:1])
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, apperror.ErrCellOccupied):
		return "That cell is already taken"
	case errors.Is(err, apperror.ErrGameFinished):
		return "The round is over, press r to play again"
	case errors.Is(err, apperror.ErrGameIsNotStarted):
		return "The game has not started yet"
	case errors.Is(err, apperror.ErrNoPlayers):
		return "No players have joined"
	case errors.Is(err, entity.ErrInvalidCell):
		return "That cell is off the board"
	default:
		return err.Error()
	}
}
