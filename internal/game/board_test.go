package game

import "testing"

func TestIsValidColumn(t *testing.T) {
	var board Board

	if board.IsValidColumn(-1) {
		t.Error("negative column should be invalid")
	}
	if board.IsValidColumn(Columns) {
		t.Error("out-of-range column should be invalid")
	}
	for col := 0; col < Columns; col++ {
		if !board.IsValidColumn(col) {
			t.Errorf("column %d should be valid on an empty board", col)
		}
	}

	// Fill column 2 completely.
	for i := 0; i < Rows; i++ {
		if _, err := board.Drop(2, PlayerPiece); err != nil {
			t.Fatalf("drop %d in column 2 failed: %v", i, err)
		}
	}
	if board.IsValidColumn(2) {
		t.Error("full column should be invalid")
	}
	if _, err := board.Drop(2, PlayerPiece); err != ErrInvalidColumn {
		t.Errorf("drop into full column: got %v, want ErrInvalidColumn", err)
	}
}

func TestDropGravity(t *testing.T) {
	var board Board

	move, err := board.Drop(4, PlayerPiece)
	if err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if move.Row != 0 {
		t.Errorf("first drop should land in row 0, got %d", move.Row)
	}

	move, err = board.Drop(4, BotPiece)
	if err != nil {
		t.Fatalf("second drop failed: %v", err)
	}
	if move.Row != 1 {
		t.Errorf("second drop should land in row 1, got %d", move.Row)
	}

	// Occupied cells must form a contiguous run from row 0 upward.
	board.Drop(4, PlayerPiece)
	seenEmpty := false
	for r := 0; r < Rows; r++ {
		if board.At(r, 4) == Empty {
			seenEmpty = true
		} else if seenEmpty {
			t.Fatalf("gap below occupied cell at row %d", r)
		}
	}
}

func TestNextOpenRowFullColumn(t *testing.T) {
	var board Board
	for i := 0; i < Rows; i++ {
		board.Drop(0, BotPiece)
	}
	if _, err := board.NextOpenRow(0); err == nil {
		t.Error("NextOpenRow on a full column should error")
	}
}

func TestDropUndoRestoresBoard(t *testing.T) {
	var board Board
	board.Drop(3, PlayerPiece)
	board.Drop(3, BotPiece)

	before := board
	move, err := board.Drop(3, PlayerPiece)
	if err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	board.Undo(move)

	if board != before {
		t.Error("undo did not restore the exact prior board state")
	}
}

func TestIsFullAndValidColumns(t *testing.T) {
	var board Board
	if board.IsFull() {
		t.Error("empty board reported full")
	}
	if got := len(board.ValidColumns()); got != Columns {
		t.Errorf("empty board should have %d valid columns, got %d", Columns, got)
	}

	for col := 0; col < Columns; col++ {
		for i := 0; i < Rows; i++ {
			board.Drop(col, PlayerPiece)
		}
	}
	if !board.IsFull() {
		t.Error("filled board not reported full")
	}
	if got := len(board.ValidColumns()); got != 0 {
		t.Errorf("filled board should have no valid columns, got %d", got)
	}
}
