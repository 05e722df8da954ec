package entity

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Empty is the mark of a cell nobody has played yet.
const Empty Mark = ""

const emptyCellSymbol = "."

var (
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrInvalidDimensions = errors.New("invalid board dimensions")
)

// Mark is the symbol a player puts on the board. It doubles as the player's identity.
type Mark string

func (that Mark) IsEmpty() bool {
	return that == Empty
}

type BoardOption func(*Board)

// WithDebugLogger turns on bounds-check warnings for out-of-range access.
func WithDebugLogger(logger *slog.Logger) BoardOption {
	return func(board *Board) {
		if logger != nil {
			board.logger = logger.With("component", "board")
		}
	}
}

// Board is a rows x columns grid of marks.
type Board struct {
	rows    int
	columns int
	cells   [][]Mark

	logger *slog.Logger
}

func NewBoard(rows, columns int, opts ...BoardOption) (*Board, error) {
	if rows <= 0 || columns <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, columns)
	}

	cells := make([][]Mark, rows)
	for i := range cells {
		cells[i] = make([]Mark, columns)
	}

	board := &Board{
		rows:    rows,
		columns: columns,
		cells:   cells,
	}

	for _, opt := range opts {
		opt(board)
	}

	return board, nil
}

func (that *Board) Dimensions() (int, int) {
	return that.rows, that.columns
}

func (that *Board) IsInBounds(row, column int) bool {
	return row >= 0 && row < that.rows && column >= 0 && column < that.columns
}

// Piece returns the mark at (row, column). Out-of-range coordinates read as Empty,
// so line scans can probe past the edges without their own bounds checks.
func (that *Board) Piece(row, column int) Mark {
	if !that.IsInBounds(row, column) {
		that.warn("read out of bounds", row, column)
		return Empty
	}

	return that.cells[row][column]
}

// SetPiece writes mark at (row, column). It does not check who owns the mark.
func (that *Board) SetPiece(row, column int, mark Mark) error {
	if !that.IsInBounds(row, column) {
		that.warn("write out of bounds", row, column)
		return fmt.Errorf("%w: (%d,%d)", ErrInvalidCell, row, column)
	}

	that.cells[row][column] = mark

	return nil
}

// Wipe clears every cell, keeping the dimensions.
func (that *Board) Wipe() {
	for i := range that.cells {
		for j := range that.cells[i] {
			that.cells[i][j] = Empty
		}
	}
}

func (that *Board) IsFilled() bool {
	for _, row := range that.cells {
		for _, cell := range row {
			if cell.IsEmpty() {
				return false
			}
		}
	}

	return true
}

// Validate checks that the grid shape still matches the declared dimensions.
func (that *Board) Validate() error {
	if that.rows <= 0 || that.columns <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, that.rows, that.columns)
	}

	if len(that.cells) != that.rows {
		return fmt.Errorf("%w: board has %d rows, want %d", ErrInvalidDimensions, len(that.cells), that.rows)
	}

	for i, row := range that.cells {
		if len(row) != that.columns {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidDimensions, i, len(row), that.columns)
		}
	}

	return nil
}

// String renders a tab-delimited grid with row and column headers.
// In debug mode each cell also shows its coordinates.
func (that *Board) String() string {
	var sb strings.Builder

	for j := 0; j < that.columns; j++ {
		sb.WriteString("\t")
		sb.WriteString(strconv.Itoa(j))
	}
	sb.WriteString("\n")

	for i := 0; i < that.rows; i++ {
		sb.WriteString(strconv.Itoa(i))
		for j := 0; j < that.columns; j++ {
			sb.WriteString("\t")

			cell := string(that.cells[i][j])
			if cell == "" {
				cell = emptyCellSymbol
			}
			sb.WriteString(cell)

			if that.logger != nil {
				fmt.Fprintf(&sb, " (%d,%d)", i, j)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (that *Board) warn(msg string, row, column int) {
	if that.logger == nil {
		return
	}

	that.logger.Warn(msg, "row", row, "column", column, "rows", that.rows, "columns", that.columns)
}
