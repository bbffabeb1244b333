package game

import "testing"

func TestHistoryRecordAndUndoLast(t *testing.T) {
	h := NewHistory()
	first := Move{Column: 3, Row: 0, Piece: PlayerPiece}
	second := Move{Column: 3, Row: 1, Piece: BotPiece}

	h.Record(first)
	h.Record(second)
	if h.Len() != 2 {
		t.Fatalf("history length: got %d, want 2", h.Len())
	}

	popped, err := h.UndoLast()
	if err != nil {
		t.Fatalf("UndoLast failed: %v", err)
	}
	if popped != second {
		t.Errorf("UndoLast returned %+v, want the most recent move %+v", popped, second)
	}
	if h.Len() != 1 {
		t.Errorf("history length after undo: got %d, want 1", h.Len())
	}

	last, ok := h.Last()
	if !ok || last != first {
		t.Errorf("Last returned %+v, want %+v", last, first)
	}
}

func TestHistoryUndoLastEmpty(t *testing.T) {
	h := NewHistory()
	if _, err := h.UndoLast(); err != ErrEmptyHistory {
		t.Errorf("UndoLast on empty history: got %v, want ErrEmptyHistory", err)
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory()
	h.Record(Move{Column: 0, Row: 0, Piece: PlayerPiece})
	h.Clear()
	if h.Len() != 0 {
		t.Errorf("history length after clear: got %d, want 0", h.Len())
	}
	if _, ok := h.Last(); ok {
		t.Error("Last should report no move after clear")
	}
}

func TestHistoryReplay(t *testing.T) {
	var board Board
	h := NewHistory()
	for _, col := range []int{3, 3, 0, 6, 3} {
		piece := PlayerPiece
		if h.Len()%2 == 1 {
			piece = BotPiece
		}
		move, err := board.Drop(col, piece)
		if err != nil {
			t.Fatalf("drop in column %d failed: %v", col, err)
		}
		h.Record(move)
	}

	replayed, err := h.Replay()
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if replayed != board {
		t.Error("replayed board does not match the board the moves were played on")
	}
}
