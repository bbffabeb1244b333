package game

import (
	"time"

	"github.com/google/uuid"
)

// Status is the controller's terminal-state machine. Terminal statuses
// reject further moves until Restart.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusPlayerWon  Status = "player_won"
	StatusBotWon     Status = "bot_won"
	StatusDraw       Status = "draw"
)

func (s Status) Terminal() bool {
	return s != StatusInProgress
}

// Game owns one human-vs-bot match: the board, the move history and
// the turn/status machine. The presentation layer reads state through
// the exported fields and query methods and mutates only through
// AttemptMove, PlayBotMove, Undo and Restart.
type Game struct {
	ID          uuid.UUID  `json:"id"`
	PlayerName  string     `json:"player_name"`
	Board       Board      `json:"board"`
	CurrentTurn Cell       `json:"current_turn"`
	Status      Status     `json:"status"`
	Win         *Win       `json:"win,omitempty"`
	LastMove    *Move      `json:"last_move,omitempty"`
	UndoCount   int        `json:"undo_count"`
	CreatedAt   time.Time  `json:"created_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`

	history *History
}

// NewGame starts an empty game. The player always moves first.
func NewGame(playerName string) *Game {
	return &Game{
		ID:          uuid.New(),
		PlayerName:  playerName,
		CurrentTurn: PlayerPiece,
		Status:      StatusInProgress,
		CreatedAt:   time.Now(),
		history:     NewHistory(),
	}
}

// AttemptMove applies the human player's move to the given column.
func (g *Game) AttemptMove(col int) (*Move, error) {
	return g.applyMove(col, PlayerPiece)
}

// PlayBotMove asks the strategy for a column and applies it.
func (g *Game) PlayBotMove() (*Move, error) {
	if g.Status.Terminal() {
		return nil, ErrGameOver
	}
	if g.CurrentTurn != BotPiece {
		return nil, ErrOutOfTurn
	}
	col, err := PickBestMove(&g.Board)
	if err != nil {
		// Unreachable when the draw check ran after the last move.
		return nil, err
	}
	return g.applyMove(col, BotPiece)
}

func (g *Game) applyMove(col int, piece Cell) (*Move, error) {
	if g.Status.Terminal() {
		return nil, ErrGameOver
	}
	if g.CurrentTurn != piece {
		return nil, ErrOutOfTurn
	}

	move, err := g.Board.Drop(col, piece)
	if err != nil {
		return nil, err
	}
	g.history.Record(move)
	g.LastMove = &move

	// Win first, then draw: a full board with a completing move is
	// still a win for the side that just moved.
	if win := g.Board.FindWin(piece); win != nil {
		g.Win = win
		if piece == PlayerPiece {
			g.Status = StatusPlayerWon
		} else {
			g.Status = StatusBotWon
		}
		g.finish()
	} else if g.Board.IsFull() {
		g.Status = StatusDraw
		g.finish()
	} else {
		g.CurrentTurn = Opponent(piece)
	}

	return &move, nil
}

// Undo retracts exactly one ply. The turn reverts to the side that
// made the popped move, and a terminal status produced by that move
// reverts to in-progress. Retracting a full round is two calls.
func (g *Game) Undo() (*Move, error) {
	move, err := g.history.UndoLast()
	if err != nil {
		return nil, err
	}
	g.Board.Undo(move)
	g.CurrentTurn = move.Piece
	g.Status = StatusInProgress
	g.Win = nil
	g.FinishedAt = nil
	g.UndoCount++
	if last, ok := g.history.Last(); ok {
		g.LastMove = &last
	} else {
		g.LastMove = nil
	}
	return &move, nil
}

// Restart hard-resets to an empty board under a fresh game id. Legal
// from any state, including terminal ones.
func (g *Game) Restart() {
	g.ID = uuid.New()
	g.Board = Board{}
	g.history.Clear()
	g.CurrentTurn = PlayerPiece
	g.Status = StatusInProgress
	g.Win = nil
	g.LastMove = nil
	g.UndoCount = 0
	g.CreatedAt = time.Now()
	g.FinishedAt = nil
}

// HintColumn recommends a column for the human player.
func (g *Game) HintColumn() (int, error) {
	if g.Status.Terminal() {
		return -1, ErrGameOver
	}
	return Hint(&g.Board, PlayerPiece)
}

// CellAt returns the occupancy at (row, col); row 0 is the bottom.
func (g *Game) CellAt(row, col int) Cell {
	return g.Board.At(row, col)
}

// HistoryLen reports the number of moves currently on the board.
func (g *Game) HistoryLen() int {
	return g.history.Len()
}

// Moves returns the applied moves in chronological order.
func (g *Game) Moves() []Move {
	return g.history.Moves()
}

// Duration reports elapsed play time, using FinishedAt once terminal.
func (g *Game) Duration() time.Duration {
	if g.FinishedAt != nil {
		return g.FinishedAt.Sub(g.CreatedAt)
	}
	return time.Since(g.CreatedAt)
}

func (g *Game) finish() {
	now := time.Now()
	g.FinishedAt = &now
}
