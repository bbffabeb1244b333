package game

import "testing"

func TestBotTakesImmediateWin(t *testing.T) {
	var board Board
	board[0][0] = BotPiece
	board[0][1] = BotPiece
	board[0][2] = BotPiece

	col, err := PickBestMove(&board)
	if err != nil {
		t.Fatalf("PickBestMove failed: %v", err)
	}
	if col != 3 {
		t.Errorf("bot should win at column 3, got %d", col)
	}
}

func TestBotBlocksPlayerThreat(t *testing.T) {
	var board Board
	board[0][0] = PlayerPiece
	board[0][1] = PlayerPiece
	board[0][2] = PlayerPiece

	col, err := PickBestMove(&board)
	if err != nil {
		t.Fatalf("PickBestMove failed: %v", err)
	}
	if col != 3 {
		t.Errorf("bot should block at column 3, got %d", col)
	}
}

func TestBotPrefersWinOverBlock(t *testing.T) {
	var board Board
	// Bot can win at column 3; player threatens a vertical win at 6.
	board[0][0] = BotPiece
	board[0][1] = BotPiece
	board[0][2] = BotPiece
	board[0][6] = PlayerPiece
	board[1][6] = PlayerPiece
	board[2][6] = PlayerPiece

	col, err := PickBestMove(&board)
	if err != nil {
		t.Fatalf("PickBestMove failed: %v", err)
	}
	if col != 3 {
		t.Errorf("bot should take its own win at column 3, got %d", col)
	}
}

func TestBotPrefersCenterOnEmptyBoard(t *testing.T) {
	var board Board
	col, err := PickBestMove(&board)
	if err != nil {
		t.Fatalf("PickBestMove failed: %v", err)
	}
	if col != 3 {
		t.Errorf("bot should open in the center column, got %d", col)
	}
}

func TestBotIsDeterministic(t *testing.T) {
	var board Board
	board.Drop(3, PlayerPiece)
	board.Drop(3, BotPiece)
	board.Drop(2, PlayerPiece)

	first, err := PickBestMove(&board)
	if err != nil {
		t.Fatalf("PickBestMove failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		col, err := PickBestMove(&board)
		if err != nil {
			t.Fatalf("PickBestMove failed on repeat %d: %v", i, err)
		}
		if col != first {
			t.Fatalf("bot picked %d then %d for the same position", first, col)
		}
	}
}

func TestBotLeavesBoardUntouched(t *testing.T) {
	var board Board
	board.Drop(1, PlayerPiece)
	board.Drop(5, BotPiece)

	before := board
	if _, err := PickBestMove(&board); err != nil {
		t.Fatalf("PickBestMove failed: %v", err)
	}
	if board != before {
		t.Error("evaluation mutated the board")
	}
}

func TestBotFullBoard(t *testing.T) {
	board := drawBoard()
	if _, err := PickBestMove(&board); err != ErrNoValidMove {
		t.Errorf("PickBestMove on a full board: got %v, want ErrNoValidMove", err)
	}
}

func TestHintSuggestsPlayerWin(t *testing.T) {
	var board Board
	board[0][2] = PlayerPiece
	board[0][3] = PlayerPiece
	board[0][4] = PlayerPiece

	col, err := Hint(&board, PlayerPiece)
	if err != nil {
		t.Fatalf("Hint failed: %v", err)
	}
	if col != 1 && col != 5 {
		t.Errorf("hint should complete the row at column 1 or 5, got %d", col)
	}
}
