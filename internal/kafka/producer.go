package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/micxzie/Four-In-A-Row/internal/game"
)

// EventType identifies a game analytics event.
type EventType string

const (
	EventGameStarted   EventType = "game_started"
	EventMovePlayed    EventType = "move_played"
	EventMoveUndone    EventType = "move_undone"
	EventGameRestarted EventType = "game_restarted"
	EventHintRequested EventType = "hint_requested"
	EventGameEnded     EventType = "game_ended"
)

// BaseEvent carries the fields shared by every event.
type BaseEvent struct {
	EventType EventType `json:"event_type"`
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	GameID    string    `json:"game_id"`
}

// GameStartedEvent marks a new game (fresh session or restart).
type GameStartedEvent struct {
	BaseEvent
	PlayerName string `json:"player_name"`
	BoardSize  string `json:"board_size"`
	StartTurn  string `json:"start_turn"`
}

// MovePlayedEvent records one applied ply.
type MovePlayedEvent struct {
	BaseEvent
	Piece      string `json:"piece"`
	Column     int    `json:"column"`
	Row        int    `json:"row"`
	MoveNumber int    `json:"move_number"`
	ByBot      bool   `json:"by_bot"`
}

// MoveUndoneEvent records one retracted ply.
type MoveUndoneEvent struct {
	BaseEvent
	Piece          string `json:"piece"`
	Column         int    `json:"column"`
	Row            int    `json:"row"`
	RemainingMoves int    `json:"remaining_moves"`
}

// GameRestartedEvent records a hard reset.
type GameRestartedEvent struct {
	BaseEvent
	MovesDiscarded int `json:"moves_discarded"`
}

// HintRequestedEvent records a player asking for a suggested move.
type HintRequestedEvent struct {
	BaseEvent
	SuggestedColumn int `json:"suggested_column"`
}

// GameEndedEvent records a terminal game state.
type GameEndedEvent struct {
	BaseEvent
	PlayerName      string                       `json:"player_name"`
	Outcome         string                       `json:"outcome"`
	WinType         string                       `json:"win_type,omitempty"`
	TotalMoves      int                          `json:"total_moves"`
	UndoCount       int                          `json:"undo_count"`
	DurationSeconds int64                        `json:"duration_seconds"`
	FinalBoard      [game.Rows][game.Columns]int `json:"final_board"`
}

// ProducerStats tracks producer health for the stats endpoint.
type ProducerStats struct {
	MessagesSent    int64     `json:"messages_sent"`
	MessagesErrored int64     `json:"messages_errored"`
	LastMessageTime time.Time `json:"last_message_time"`
	LastErrorTime   time.Time `json:"last_error_time"`
	LastError       string    `json:"last_error"`
}

// ProducerConfig holds configuration for the Kafka producer.
type ProducerConfig struct {
	Brokers      []string      `json:"brokers"`
	Topic        string        `json:"topic"`
	RequiredAcks int           `json:"required_acks"`
	BatchSize    int           `json:"batch_size"`
	BatchTimeout time.Duration `json:"batch_timeout"`
	Compression  string        `json:"compression"`
	Retries      int           `json:"retries"`
}

// DefaultProducerConfig returns a production-ready configuration.
func DefaultProducerConfig(brokers []string) ProducerConfig {
	return ProducerConfig{
		Brokers:      brokers,
		Topic:        "four-in-a-row-events",
		RequiredAcks: 1,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Compression:  "snappy",
		Retries:      3,
	}
}

// Producer wraps an async kafka-go writer.
type Producer struct {
	writer    *kafka.Writer
	mu        sync.RWMutex
	isRunning bool
	stats     ProducerStats
}

func NewProducer(config ProducerConfig) (*Producer, error) {
	var compression kafka.Compression
	switch config.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	default:
		compression = kafka.Snappy
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequiredAcks(config.RequiredAcks),
		Async:        true,
		BatchSize:    config.BatchSize,
		BatchTimeout: config.BatchTimeout,
		Compression:  compression,
		MaxAttempts:  config.Retries,
		ErrorLogger:  kafka.LoggerFunc(log.Printf),
	}

	return &Producer{writer: writer, isRunning: true}, nil
}

// SendMessage writes one keyed message; errors are recorded in stats.
func (p *Producer) SendMessage(key string, value []byte) error {
	p.mu.RLock()
	if !p.isRunning {
		p.mu.RUnlock()
		return fmt.Errorf("producer is not running")
	}
	p.mu.RUnlock()

	err := p.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})

	p.mu.Lock()
	if err != nil {
		p.stats.MessagesErrored++
		p.stats.LastErrorTime = time.Now()
		p.stats.LastError = err.Error()
	} else {
		p.stats.MessagesSent++
		p.stats.LastMessageTime = time.Now()
	}
	p.mu.Unlock()

	return err
}

func (p *Producer) GetStats() ProducerStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}

func (p *Producer) Close() error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	return p.writer.Close()
}

// AnalyticsService emits typed game events. A disabled service is a
// no-op so callers never branch on configuration.
type AnalyticsService struct {
	producer *Producer
	enabled  bool
}

func NewAnalyticsService(producer *Producer, enabled bool) *AnalyticsService {
	return &AnalyticsService{producer: producer, enabled: enabled}
}

func (a *AnalyticsService) IsEnabled() bool {
	return a.enabled
}

func (a *AnalyticsService) EmitGameStarted(sessionID uuid.UUID, g *game.Game) {
	if !a.enabled {
		return
	}
	event := GameStartedEvent{
		BaseEvent:  a.base(EventGameStarted, sessionID, g),
		PlayerName: g.PlayerName,
		BoardSize:  fmt.Sprintf("%dx%d", game.Columns, game.Rows),
		StartTurn:  g.CurrentTurn.String(),
	}
	a.send(EventGameStarted, g.ID.String(), event)
}

func (a *AnalyticsService) EmitMovePlayed(sessionID uuid.UUID, g *game.Game, move *game.Move) {
	if !a.enabled || move == nil {
		return
	}
	event := MovePlayedEvent{
		BaseEvent:  a.base(EventMovePlayed, sessionID, g),
		Piece:      move.Piece.String(),
		Column:     move.Column,
		Row:        move.Row,
		MoveNumber: g.HistoryLen(),
		ByBot:      move.Piece == game.BotPiece,
	}
	a.send(EventMovePlayed, g.ID.String(), event)
}

func (a *AnalyticsService) EmitMoveUndone(sessionID uuid.UUID, g *game.Game, move *game.Move) {
	if !a.enabled || move == nil {
		return
	}
	event := MoveUndoneEvent{
		BaseEvent:      a.base(EventMoveUndone, sessionID, g),
		Piece:          move.Piece.String(),
		Column:         move.Column,
		Row:            move.Row,
		RemainingMoves: g.HistoryLen(),
	}
	a.send(EventMoveUndone, g.ID.String(), event)
}

func (a *AnalyticsService) EmitGameRestarted(sessionID uuid.UUID, g *game.Game, movesDiscarded int) {
	if !a.enabled {
		return
	}
	event := GameRestartedEvent{
		BaseEvent:      a.base(EventGameRestarted, sessionID, g),
		MovesDiscarded: movesDiscarded,
	}
	a.send(EventGameRestarted, g.ID.String(), event)
}

func (a *AnalyticsService) EmitHintRequested(sessionID uuid.UUID, g *game.Game, column int) {
	if !a.enabled {
		return
	}
	event := HintRequestedEvent{
		BaseEvent:       a.base(EventHintRequested, sessionID, g),
		SuggestedColumn: column,
	}
	a.send(EventHintRequested, g.ID.String(), event)
}

func (a *AnalyticsService) EmitGameEnded(sessionID uuid.UUID, g *game.Game) {
	if !a.enabled {
		return
	}

	var finalBoard [game.Rows][game.Columns]int
	for r := 0; r < game.Rows; r++ {
		for c := 0; c < game.Columns; c++ {
			finalBoard[r][c] = int(g.Board.At(r, c))
		}
	}

	winType := ""
	if g.Win != nil {
		winType = string(g.Win.Type)
	}

	event := GameEndedEvent{
		BaseEvent:       a.base(EventGameEnded, sessionID, g),
		PlayerName:      g.PlayerName,
		Outcome:         string(g.Status),
		WinType:         winType,
		TotalMoves:      g.HistoryLen(),
		UndoCount:       g.UndoCount,
		DurationSeconds: int64(g.Duration().Seconds()),
		FinalBoard:      finalBoard,
	}
	a.send(EventGameEnded, g.ID.String(), event)
}

func (a *AnalyticsService) base(eventType EventType, sessionID uuid.UUID, g *game.Game) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		SessionID: sessionID.String(),
		GameID:    g.ID.String(),
	}
}

func (a *AnalyticsService) send(eventType EventType, gameID string, event interface{}) {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}

	// GameID keys the partition so one game's events stay ordered.
	key := fmt.Sprintf("%s:%s", eventType, gameID)
	if err := a.producer.SendMessage(key, eventJSON); err != nil {
		log.Printf("failed to send %s event: %v", eventType, err)
	}
}
