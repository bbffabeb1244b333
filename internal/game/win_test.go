package game

import "testing"

func TestFindWinHorizontal(t *testing.T) {
	var board Board
	board[0][1] = PlayerPiece
	board[0][2] = PlayerPiece
	board[0][3] = PlayerPiece
	board[0][4] = PlayerPiece

	win := board.FindWin(PlayerPiece)
	if win == nil {
		t.Fatal("failed to detect horizontal win")
	}
	if win.Type != WinHorizontal {
		t.Errorf("win type: got %s, want %s", win.Type, WinHorizontal)
	}
	if len(win.Line) != WindowLength {
		t.Errorf("win line length: got %d, want %d", len(win.Line), WindowLength)
	}
	if board.HasFourInARow(BotPiece) {
		t.Error("detected a bot win on a board with only player pieces")
	}
}

func TestFindWinVertical(t *testing.T) {
	var board Board
	for r := 1; r < 5; r++ {
		board[r][6] = BotPiece
	}

	win := board.FindWin(BotPiece)
	if win == nil {
		t.Fatal("failed to detect vertical win")
	}
	if win.Type != WinVertical {
		t.Errorf("win type: got %s, want %s", win.Type, WinVertical)
	}
}

func TestFindWinDiagonalUp(t *testing.T) {
	var board Board
	for i := 0; i < 4; i++ {
		board[i][i+2] = PlayerPiece
	}

	win := board.FindWin(PlayerPiece)
	if win == nil {
		t.Fatal("failed to detect rising diagonal win")
	}
	if win.Type != WinDiagonalUp {
		t.Errorf("win type: got %s, want %s", win.Type, WinDiagonalUp)
	}
}

func TestFindWinDiagonalDown(t *testing.T) {
	var board Board
	for i := 0; i < 4; i++ {
		board[5-i][i] = BotPiece
	}

	win := board.FindWin(BotPiece)
	if win == nil {
		t.Fatal("failed to detect falling diagonal win")
	}
	if win.Type != WinDiagonalDown {
		t.Errorf("win type: got %s, want %s", win.Type, WinDiagonalDown)
	}
}

func TestNoWinWithThree(t *testing.T) {
	var board Board
	// Three in each direction, never four.
	board[0][0] = PlayerPiece
	board[0][1] = PlayerPiece
	board[0][2] = PlayerPiece
	board[1][5] = PlayerPiece
	board[2][5] = PlayerPiece
	board[3][5] = PlayerPiece

	if board.HasFourInARow(PlayerPiece) {
		t.Error("detected a win from runs of three")
	}
}

func TestFullBoardWithoutWin(t *testing.T) {
	board := drawBoard()

	if board.HasFourInARow(PlayerPiece) {
		t.Error("draw pattern unexpectedly contains a player win")
	}
	if board.HasFourInARow(BotPiece) {
		t.Error("draw pattern unexpectedly contains a bot win")
	}
	if !board.IsFull() {
		t.Error("draw pattern should fill the board")
	}
}

// drawBoard fills the whole grid with a pattern that has no run of
// four for either side: column 3 inverts the row-parity coloring of
// the other columns, capping every run at three.
func drawBoard() Board {
	var board Board
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			board[r][c] = drawPatternPiece(r, c)
		}
	}
	return board
}

func drawPatternPiece(r, c int) Cell {
	if c == 3 {
		if r%2 == 0 {
			return BotPiece
		}
		return PlayerPiece
	}
	if r%2 == 0 {
		return PlayerPiece
	}
	return BotPiece
}
