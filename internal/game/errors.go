package game

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrInvalidColumn = errors.New("invalid column")
	ErrEmptyHistory  = errors.New("no moves to undo")
	ErrGameOver      = errors.New("game is over")
	ErrOutOfTurn     = errors.New("move out of turn")
	ErrNoValidMove   = errors.New("no valid move available")
)
