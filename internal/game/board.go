package game

const (
	Rows         = 6
	Columns      = 7
	WindowLength = 4
)

// Cell is the occupancy of a single board slot.
type Cell int

const (
	Empty Cell = iota
	PlayerPiece
	BotPiece
)

func (c Cell) String() string {
	switch c {
	case PlayerPiece:
		return "player"
	case BotPiece:
		return "bot"
	default:
		return "empty"
	}
}

// Opponent returns the other side's piece.
func Opponent(piece Cell) Cell {
	if piece == PlayerPiece {
		return BotPiece
	}
	return PlayerPiece
}

// Move records one placed piece. Row is determined by gravity,
// never chosen by the caller.
type Move struct {
	Column int  `json:"column"`
	Row    int  `json:"row"`
	Piece  Cell `json:"piece"`
}

// Board is a fixed 6x7 grid. Row 0 is the bottom row, so a column
// fills upward from index 0.
type Board [Rows][Columns]Cell

// IsValidColumn reports whether a piece can still be dropped in col.
// Out-of-range columns are simply invalid, never an error.
func (b *Board) IsValidColumn(col int) bool {
	if col < 0 || col >= Columns {
		return false
	}
	return b[Rows-1][col] == Empty
}

// NextOpenRow scans from the bottom up and returns the first empty
// row in col. Callers must check IsValidColumn first.
func (b *Board) NextOpenRow(col int) (int, error) {
	for r := 0; r < Rows; r++ {
		if b[r][col] == Empty {
			return r, nil
		}
	}
	return -1, ErrInvalidColumn
}

// Drop places piece in the lowest open row of col and returns the
// resulting move.
func (b *Board) Drop(col int, piece Cell) (Move, error) {
	if !b.IsValidColumn(col) {
		return Move{}, ErrInvalidColumn
	}
	row, err := b.NextOpenRow(col)
	if err != nil {
		return Move{}, err
	}
	b[row][col] = piece
	return Move{Column: col, Row: row, Piece: piece}, nil
}

// Undo clears the cell a move occupied, restoring the board to its
// state before the corresponding Drop.
func (b *Board) Undo(move Move) {
	b[move.Row][move.Column] = Empty
}

// At returns the cell value at (row, col).
func (b *Board) At(row, col int) Cell {
	return b[row][col]
}

// IsFull reports whether no column can accept another piece.
func (b *Board) IsFull() bool {
	for col := 0; col < Columns; col++ {
		if b.IsValidColumn(col) {
			return false
		}
	}
	return true
}

// ValidColumns lists the columns that can still accept a piece,
// in ascending order.
func (b *Board) ValidColumns() []int {
	cols := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if b.IsValidColumn(col) {
			cols = append(cols, col)
		}
	}
	return cols
}
