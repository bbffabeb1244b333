package game

// WinType labels the direction of a winning line.
type WinType string

const (
	WinHorizontal   WinType = "horizontal"
	WinVertical     WinType = "vertical"
	WinDiagonalUp   WinType = "diagonal_up"
	WinDiagonalDown WinType = "diagonal_down"
)

// Win describes a completed four-in-a-row: the side that made it,
// the scan direction, and the [row, col] coordinates of the four cells.
type Win struct {
	Piece Cell     `json:"piece"`
	Type  WinType  `json:"type"`
	Line  [][2]int `json:"line"`
}

var scanDirections = []struct {
	dr, dc int
	typ    WinType
}{
	{0, 1, WinHorizontal},
	{1, 0, WinVertical},
	{1, 1, WinDiagonalUp},
	{-1, 1, WinDiagonalDown},
}

// FindWin scans every anchor cell in all four directions and returns
// the first four-in-a-row found for piece, or nil if there is none.
func (b *Board) FindWin(piece Cell) *Win {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if b[r][c] != piece {
				continue
			}
			for _, dir := range scanDirections {
				if line, ok := b.lineFrom(r, c, dir.dr, dir.dc, piece); ok {
					return &Win{Piece: piece, Type: dir.typ, Line: line}
				}
			}
		}
	}
	return nil
}

// HasFourInARow reports whether piece has any run of four.
func (b *Board) HasFourInARow(piece Cell) bool {
	return b.FindWin(piece) != nil
}

func (b *Board) lineFrom(row, col, dr, dc int, piece Cell) ([][2]int, bool) {
	line := make([][2]int, 0, WindowLength)
	for i := 0; i < WindowLength; i++ {
		r := row + i*dr
		c := col + i*dc
		if r < 0 || r >= Rows || c < 0 || c >= Columns || b[r][c] != piece {
			return nil, false
		}
		line = append(line, [2]int{r, c})
	}
	return line, true
}
