package tictactoe

import "github.com/rocketscienceinc/tictactoe/internal/entity"

type Direction string

const (
	DirectionRow          Direction = "row"
	DirectionColumn       Direction = "column"
	DirectionDiagonal     Direction = "diagonal"
	DirectionAntiDiagonal Direction = "anti-diagonal"
)

// directions are checked in this order at every starting cell; the first match is reported.
var directions = []struct {
	name       Direction
	dRow, dCol int
}{
	{DirectionRow, 0, 1},
	{DirectionColumn, 1, 0},
	{DirectionDiagonal, 1, 1},
	{DirectionAntiDiagonal, 1, -1},
}

// Outcome describes a winning line. The zero value means nobody has won.
type Outcome struct {
	Piece     entity.Mark `json:"piece"`
	Row       int         `json:"row"`
	Column    int         `json:"column"`
	Direction Direction   `json:"direction"`
	RunLength int         `json:"run_length"`
}

func (that Outcome) IsWin() bool {
	return !that.Piece.IsEmpty()
}

// ComputeOutcome scans the board in row-major order and returns the first winning line.
// When several lines are complete only the earliest starting cell, and at that cell the
// earliest direction, is reported.
func (that *Engine) ComputeOutcome() Outcome {
	rows, columns := that.board.Dimensions()

	for i := 0; i < rows; i++ {
		for j := 0; j < columns; j++ {
			mark := that.board.Piece(i, j)
			if mark.IsEmpty() {
				continue
			}

			for _, dir := range directions {
				if that.isRun(mark, i, j, dir.dRow, dir.dCol) {
					return Outcome{
						Piece:     mark,
						Row:       i,
						Column:    j,
						Direction: dir.name,
						RunLength: that.runLength,
					}
				}
			}
		}
	}

	return Outcome{}
}

// isRun reports whether runLength in-bounds cells starting at (row, column) all hold mark.
func (that *Engine) isRun(mark entity.Mark, row, column, dRow, dCol int) bool {
	for k := 0; k < that.runLength; k++ {
		r, c := row+k*dRow, column+k*dCol
		if !that.board.IsInBounds(r, c) || that.board.Piece(r, c) != mark {
			return false
		}
	}

	return true
}
