package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/micxzie/Four-In-A-Row/internal/database"
	"github.com/micxzie/Four-In-A-Row/internal/game"
	"github.com/micxzie/Four-In-A-Row/internal/kafka"
	"github.com/micxzie/Four-In-A-Row/internal/models"
)

// GameHandler drives one websocket connection per game session. The
// core never sees the connection; it is polled and mutated only
// through the session manager.
type GameHandler struct {
	manager   *game.Manager
	store     *database.Store
	analytics *kafka.AnalyticsService
	botDelay  time.Duration
	upgrader  websocket.Upgrader
}

func NewGameHandler(manager *game.Manager, store *database.Store, analytics *kafka.AnalyticsService, botDelay time.Duration) *GameHandler {
	return &GameHandler{
		manager:   manager,
		store:     store,
		analytics: analytics,
		botDelay:  botDelay,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // TODO: Add proper origin checking for production
			},
		},
	}
}

func (h *GameHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("New WebSocket connection established from %s", r.RemoteAddr)

	var sessionID uuid.UUID

	for {
		var msg models.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("WebSocket unexpected close: %v", err)
			}
			break
		}

		switch msg.Type {
		case models.MsgNewGame:
			sessionID = h.handleNewGame(conn, msg.Payload)

		case models.MsgDrop:
			h.handleDrop(conn, msg.Payload)

		case models.MsgUndo:
			h.handleUndo(conn, msg.Payload)

		case models.MsgRestart:
			h.handleRestart(conn, msg.Payload)

		case models.MsgHint:
			h.handleHint(conn, msg.Payload)

		case models.MsgGetState:
			h.handleGetState(conn, msg.Payload)

		case models.MsgHeartbeat:
			h.handleHeartbeat(conn, sessionID)

		default:
			h.sendError(conn, "UNKNOWN_MESSAGE", "Unknown message type", string(msg.Type))
		}
	}

	if sessionID != uuid.Nil {
		h.manager.Remove(sessionID)
		log.Printf("Session %s disconnected cleanly", sessionID)
	} else {
		log.Printf("WebSocket connection closed from %s", r.RemoteAddr)
	}
}

func (h *GameHandler) handleNewGame(conn *websocket.Conn, payload interface{}) uuid.UUID {
	var newGame models.NewGamePayload
	if err := h.parsePayload(payload, &newGame); err != nil {
		h.sendError(conn, "INVALID_PAYLOAD", "Invalid new game payload", "")
		return uuid.Nil
	}
	if newGame.PlayerName == "" {
		newGame.PlayerName = "Player"
	}

	session := h.manager.CreateSession(newGame.PlayerName, conn)
	h.analytics.EmitGameStarted(session.ID, session.Game)

	conn.WriteJSON(models.NewWSMessage(models.MsgGameState, models.GameStatePayload{
		SessionID: session.ID,
		Game:      session.Game,
		Moves:     session.Game.HistoryLen(),
	}))

	return session.ID
}

func (h *GameHandler) handleDrop(conn *websocket.Conn, payload interface{}) {
	var drop models.DropPayload
	if err := h.parsePayload(payload, &drop); err != nil {
		h.sendError(conn, "INVALID_PAYLOAD", "Invalid drop payload", "")
		return
	}

	move, g, err := h.manager.AttemptMove(drop.SessionID, drop.Column)
	if err != nil {
		conn.WriteJSON(models.NewWSMessage(models.MsgMoveResult, models.MoveResultPayload{
			Success:    false,
			Error:      err.Error(),
			Game:       g,
			IsGameOver: g != nil && g.Status.Terminal(),
		}))
		return
	}

	h.analytics.EmitMovePlayed(drop.SessionID, g, move)

	result := models.MoveResultPayload{
		Success:    true,
		Move:       move,
		Game:       g,
		IsGameOver: g.Status.Terminal(),
	}

	// The bot replies within the same turn exchange, after a short
	// think pause so the UI can show the player's piece landing.
	if !g.Status.Terminal() && g.CurrentTurn == game.BotPiece {
		time.Sleep(h.botDelay)

		botMove, updated, err := h.manager.PlayBotMove(drop.SessionID)
		if err != nil {
			h.sendError(conn, "BOT_MOVE_FAILED", "Bot could not move", err.Error())
			return
		}
		h.analytics.EmitMovePlayed(drop.SessionID, updated, botMove)
		result.BotMove = botMove
		result.Game = updated
		result.IsGameOver = updated.Status.Terminal()
	}

	conn.WriteJSON(models.NewWSMessage(models.MsgMoveResult, result))

	if result.Game.Status.Terminal() {
		h.finishGame(conn, drop.SessionID, result.Game)
	}
}

// handleUndo retracts the last ply; when that ply is the bot's, it
// retracts the player's ply beneath it too, so one user-facing undo
// takes back a full round.
func (h *GameHandler) handleUndo(conn *websocket.Conn, payload interface{}) {
	var req models.SessionPayload
	if err := h.parsePayload(payload, &req); err != nil {
		h.sendError(conn, "INVALID_PAYLOAD", "Invalid undo payload", "")
		return
	}

	move, g, err := h.manager.UndoPly(req.SessionID)
	if err != nil {
		conn.WriteJSON(models.NewWSMessage(models.MsgUndoResult, models.UndoResultPayload{
			Success: false,
			Error:   err.Error(),
			Game:    g,
		}))
		return
	}

	undone := []game.Move{*move}
	h.analytics.EmitMoveUndone(req.SessionID, g, move)

	if move.Piece == game.BotPiece {
		if second, updated, err := h.manager.UndoPly(req.SessionID); err == nil {
			undone = append(undone, *second)
			h.analytics.EmitMoveUndone(req.SessionID, updated, second)
			g = updated
		}
	}

	conn.WriteJSON(models.NewWSMessage(models.MsgUndoResult, models.UndoResultPayload{
		Success: true,
		Undone:  undone,
		Game:    g,
	}))
}

func (h *GameHandler) handleRestart(conn *websocket.Conn, payload interface{}) {
	var req models.SessionPayload
	if err := h.parsePayload(payload, &req); err != nil {
		h.sendError(conn, "INVALID_PAYLOAD", "Invalid restart payload", "")
		return
	}

	session, ok := h.manager.Get(req.SessionID)
	if !ok {
		h.sendError(conn, "SESSION_NOT_FOUND", "Session not found", "")
		return
	}

	discarded := session.Game.HistoryLen()
	g, err := h.manager.Restart(req.SessionID)
	if err != nil {
		h.sendError(conn, "RESTART_FAILED", "Restart failed", err.Error())
		return
	}

	h.analytics.EmitGameRestarted(req.SessionID, g, discarded)
	h.analytics.EmitGameStarted(req.SessionID, g)

	conn.WriteJSON(models.NewWSMessage(models.MsgGameState, models.GameStatePayload{
		SessionID: req.SessionID,
		Game:      g,
		Moves:     g.HistoryLen(),
	}))
}

func (h *GameHandler) handleHint(conn *websocket.Conn, payload interface{}) {
	var req models.SessionPayload
	if err := h.parsePayload(payload, &req); err != nil {
		h.sendError(conn, "INVALID_PAYLOAD", "Invalid hint payload", "")
		return
	}

	col, g, err := h.manager.Hint(req.SessionID)
	if err != nil {
		if errors.Is(err, game.ErrGameOver) {
			h.sendError(conn, "GAME_OVER", "Game over. Restart to request a move.", "")
		} else {
			h.sendError(conn, "HINT_FAILED", "No recommendation available", err.Error())
		}
		return
	}

	h.analytics.EmitHintRequested(req.SessionID, g, col)

	conn.WriteJSON(models.NewWSMessage(models.MsgHintResult, models.HintResultPayload{
		Column:  col,
		Message: fmt.Sprintf("Drop in column %d.", col+1),
	}))
}

func (h *GameHandler) handleGetState(conn *websocket.Conn, payload interface{}) {
	var req models.SessionPayload
	if err := h.parsePayload(payload, &req); err != nil {
		h.sendError(conn, "INVALID_PAYLOAD", "Invalid state payload", "")
		return
	}

	session, ok := h.manager.Get(req.SessionID)
	if !ok {
		h.sendError(conn, "SESSION_NOT_FOUND", "Session not found", "")
		return
	}

	conn.WriteJSON(models.NewWSMessage(models.MsgGameState, models.GameStatePayload{
		SessionID: session.ID,
		Game:      session.Game,
		Moves:     session.Game.HistoryLen(),
	}))
}

func (h *GameHandler) handleHeartbeat(conn *websocket.Conn, sessionID uuid.UUID) {
	if sessionID != uuid.Nil {
		h.manager.Touch(sessionID)
	}

	conn.WriteJSON(models.NewWSMessage(models.MsgHeartbeatAck, map[string]interface{}{
		"server_time": time.Now(),
		"session_id":  sessionID.String(),
	}))
}

func (h *GameHandler) finishGame(conn *websocket.Conn, sessionID uuid.UUID, g *game.Game) {
	h.analytics.EmitGameEnded(sessionID, g)

	if h.store != nil {
		if err := h.store.SaveCompletedGame(g); err != nil {
			log.Printf("failed to persist game %s: %v", g.ID, err)
		}
	}

	winType := ""
	if g.Win != nil {
		winType = string(g.Win.Type)
	}

	conn.WriteJSON(models.NewWSMessage(models.MsgGameEnd, models.GameEndPayload{
		SessionID: sessionID,
		Game:      g,
		Outcome:   string(g.Status),
		WinType:   winType,
		Duration:  int(g.Duration().Seconds()),
		IsDraw:    g.Status == game.StatusDraw,
	}))
}

func (h *GameHandler) sendError(conn *websocket.Conn, code, message, details string) {
	conn.WriteJSON(models.NewWSMessage(models.MsgError, models.ErrorPayload{
		Code:    code,
		Message: message,
		Details: details,
	}))
}

func (h *GameHandler) parsePayload(payload interface{}, target interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, target)
}
