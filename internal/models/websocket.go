package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/micxzie/Four-In-A-Row/internal/game"
)

type MessageType string

const (
	// Client messages
	MsgNewGame   MessageType = "new_game"
	MsgDrop      MessageType = "drop"
	MsgUndo      MessageType = "undo"
	MsgRestart   MessageType = "restart"
	MsgHint      MessageType = "hint"
	MsgGetState  MessageType = "get_state"
	MsgHeartbeat MessageType = "heartbeat"

	// Server messages
	MsgGameState    MessageType = "game_state"
	MsgMoveResult   MessageType = "move_result"
	MsgUndoResult   MessageType = "undo_result"
	MsgGameEnd      MessageType = "game_end"
	MsgHintResult   MessageType = "hint_result"
	MsgHeartbeatAck MessageType = "heartbeat_ack"
	MsgError        MessageType = "error"
)

type WSMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	MessageID string      `json:"message_id"`
}

// Payload structs for client messages
type NewGamePayload struct {
	PlayerName string `json:"player_name"`
}

type DropPayload struct {
	SessionID uuid.UUID `json:"session_id"`
	Column    int       `json:"column"`
}

type SessionPayload struct {
	SessionID uuid.UUID `json:"session_id"`
}

// Payload structs for server messages
type GameStatePayload struct {
	SessionID uuid.UUID  `json:"session_id"`
	Game      *game.Game `json:"game"`
	Moves     int        `json:"moves"`
}

type MoveResultPayload struct {
	Success    bool       `json:"success"`
	Move       *game.Move `json:"move,omitempty"`
	BotMove    *game.Move `json:"bot_move,omitempty"`
	Game       *game.Game `json:"game"`
	Error      string     `json:"error,omitempty"`
	IsGameOver bool       `json:"is_game_over"`
}

type UndoResultPayload struct {
	Success bool        `json:"success"`
	Undone  []game.Move `json:"undone,omitempty"`
	Game    *game.Game  `json:"game"`
	Error   string      `json:"error,omitempty"`
}

type GameEndPayload struct {
	SessionID uuid.UUID  `json:"session_id"`
	Game      *game.Game `json:"game"`
	Outcome   string     `json:"outcome"`
	WinType   string     `json:"win_type,omitempty"`
	Duration  int        `json:"duration_seconds"`
	IsDraw    bool       `json:"is_draw"`
}

type HintResultPayload struct {
	Column  int    `json:"column"`
	Message string `json:"message"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewWSMessage stamps an envelope around a payload.
func NewWSMessage(msgType MessageType, payload interface{}) WSMessage {
	return WSMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
		MessageID: uuid.New().String(),
	}
}
