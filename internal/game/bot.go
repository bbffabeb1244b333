package game

// Score priorities for the one-ply evaluation. Positional window
// scores stay well below blockScore so the ranking is always
// win > block > position.
const (
	winScore   = 100000
	blockScore = 10000
)

// searchOrder fixes the column evaluation order, center first. Ties
// resolve to the earlier column, which keeps the bot deterministic.
var searchOrder = [Columns]int{3, 2, 4, 1, 5, 0, 6}

// PickBestMove selects the bot's column: take an immediate win, block
// the player's immediate win, otherwise maximize the positional score
// with a center preference.
func PickBestMove(board *Board) (int, error) {
	return pickBestMove(board, BotPiece)
}

// Hint returns the recommended column for the given side, using the
// same one-ply evaluation the bot plays with.
func Hint(board *Board, piece Cell) (int, error) {
	return pickBestMove(board, piece)
}

func pickBestMove(board *Board, piece Cell) (int, error) {
	bestCol := -1
	bestScore := 0
	for _, col := range searchOrder {
		if !board.IsValidColumn(col) {
			continue
		}
		score := scoreCandidate(board, col, piece)
		if bestCol == -1 || score > bestScore {
			bestCol = col
			bestScore = score
		}
	}
	if bestCol == -1 {
		return -1, ErrNoValidMove
	}
	return bestCol, nil
}

// scoreCandidate evaluates dropping piece in col. Simulation uses a
// drop/undo pair on the live board rather than copying it.
func scoreCandidate(board *Board, col int, piece Cell) int {
	move, err := board.Drop(col, piece)
	if err != nil {
		return 0
	}
	won := board.HasFourInARow(piece)
	score := scorePosition(board, piece)
	board.Undo(move)
	if won {
		return winScore
	}

	// The same cell as an opponent drop: an immediate threat that
	// must be blocked outranks any positional gain.
	opponent := Opponent(piece)
	threat, err := board.Drop(col, opponent)
	if err != nil {
		return score
	}
	if board.HasFourInARow(opponent) {
		score = blockScore
	}
	board.Undo(threat)
	return score
}

// scorePosition sums window scores over every 4-cell window in all
// four directions, plus a small bonus per piece in the center column.
func scorePosition(board *Board, piece Cell) int {
	score := 0

	center := Columns / 2
	for r := 0; r < Rows; r++ {
		if board[r][center] == piece {
			score += 3
		}
	}

	for r := 0; r < Rows; r++ {
		for c := 0; c <= Columns-WindowLength; c++ {
			score += scoreWindow(board, r, c, 0, 1, piece)
		}
	}
	for c := 0; c < Columns; c++ {
		for r := 0; r <= Rows-WindowLength; r++ {
			score += scoreWindow(board, r, c, 1, 0, piece)
		}
	}
	for r := 0; r <= Rows-WindowLength; r++ {
		for c := 0; c <= Columns-WindowLength; c++ {
			score += scoreWindow(board, r, c, 1, 1, piece)
			score += scoreWindow(board, r+WindowLength-1, c, -1, 1, piece)
		}
	}

	return score
}

func scoreWindow(board *Board, row, col, dr, dc int, piece Cell) int {
	opponent := Opponent(piece)
	var own, theirs, empty int
	for i := 0; i < WindowLength; i++ {
		switch board[row+i*dr][col+i*dc] {
		case piece:
			own++
		case opponent:
			theirs++
		default:
			empty++
		}
	}

	score := 0
	switch {
	case own == 4:
		score += 100
	case own == 3 && empty == 1:
		score += 5
	case own == 2 && empty == 2:
		score += 2
	}
	if theirs == 3 && empty == 1 {
		score -= 4
	}
	return score
}
