package game

// History is the ordered log of applied moves. It grows by one entry
// per drop, shrinks by one on undo and is cleared on restart.
type History struct {
	moves []Move
}

func NewHistory() *History {
	return &History{moves: make([]Move, 0, Rows*Columns)}
}

// Record appends a move to the end of the log.
func (h *History) Record(move Move) {
	h.moves = append(h.moves, move)
}

// UndoLast removes and returns the most recent move so the caller can
// revert it on the board.
func (h *History) UndoLast() (Move, error) {
	if len(h.moves) == 0 {
		return Move{}, ErrEmptyHistory
	}
	move := h.moves[len(h.moves)-1]
	h.moves = h.moves[:len(h.moves)-1]
	return move, nil
}

// Last peeks at the most recent move without removing it.
func (h *History) Last() (Move, bool) {
	if len(h.moves) == 0 {
		return Move{}, false
	}
	return h.moves[len(h.moves)-1], true
}

func (h *History) Len() int {
	return len(h.moves)
}

// Clear empties the log.
func (h *History) Clear() {
	h.moves = h.moves[:0]
}

// Moves returns a copy of the log in chronological order.
func (h *History) Moves() []Move {
	out := make([]Move, len(h.moves))
	copy(out, h.moves)
	return out
}

// Replay reconstructs a board by reapplying every recorded move in
// order. Each recorded row must match where gravity lands the piece.
func (h *History) Replay() (Board, error) {
	var board Board
	for _, move := range h.moves {
		placed, err := board.Drop(move.Column, move.Piece)
		if err != nil {
			return Board{}, err
		}
		if placed.Row != move.Row {
			return Board{}, ErrInvalidColumn
		}
	}
	return board, nil
}
