package game

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WSConnection is the slice of a websocket connection the manager
// needs, kept as an interface so tests can stub it.
type WSConnection interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Session binds one live game to one client connection.
type Session struct {
	ID       uuid.UUID
	Game     *Game
	Conn     WSConnection
	LastSeen time.Time
}

// Manager is the registry of active sessions. All game mutation from
// the presentation layer goes through its methods so that core state
// is never touched outside the lock.
type Manager struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*Session
	idleAfter time.Duration
}

func NewManager(idleAfter time.Duration) *Manager {
	m := &Manager{
		sessions:  make(map[uuid.UUID]*Session),
		idleAfter: idleAfter,
	}
	go m.sweepRoutine()
	return m
}

// CreateSession starts a new game for a player and registers the
// connection against it.
func (m *Manager) CreateSession(playerName string, conn WSConnection) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := &Session{
		ID:       uuid.New(),
		Game:     NewGame(playerName),
		Conn:     conn,
		LastSeen: time.Now(),
	}
	m.sessions[session.ID] = session
	return session
}

func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Touch refreshes a session's idle clock.
func (m *Manager) Touch(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[id]; ok {
		session.LastSeen = time.Now()
	}
}

func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// AttemptMove applies the player's move in the session's game.
func (m *Manager) AttemptMove(id uuid.UUID, col int) (*Move, *Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, nil, ErrGameNotFound
	}
	session.LastSeen = time.Now()
	move, err := session.Game.AttemptMove(col)
	return move, session.Game, err
}

// PlayBotMove runs the bot's turn in the session's game.
func (m *Manager) PlayBotMove(id uuid.UUID) (*Move, *Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, nil, ErrGameNotFound
	}
	session.LastSeen = time.Now()
	move, err := session.Game.PlayBotMove()
	return move, session.Game, err
}

// UndoPly retracts one ply from the session's game.
func (m *Manager) UndoPly(id uuid.UUID) (*Move, *Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, nil, ErrGameNotFound
	}
	session.LastSeen = time.Now()
	move, err := session.Game.Undo()
	return move, session.Game, err
}

// Restart resets the session's game to an empty board.
func (m *Manager) Restart(id uuid.UUID) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	session.LastSeen = time.Now()
	session.Game.Restart()
	return session.Game, nil
}

// Hint recommends a column for the player in the session's game.
func (m *Manager) Hint(id uuid.UUID) (int, *Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return -1, nil, ErrGameNotFound
	}
	session.LastSeen = time.Now()
	col, err := session.Game.HintColumn()
	return col, session.Game, err
}

func (m *Manager) sweepRoutine() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.sweepIdleSessions()
	}
}

// sweepIdleSessions reaps sessions whose client has gone quiet past
// the idle window.
func (m *Manager) sweepIdleSessions() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.idleAfter)
	for id, session := range m.sessions {
		if session.LastSeen.Before(cutoff) {
			if session.Conn != nil {
				session.Conn.Close()
			}
			delete(m.sessions, id)
			log.Printf("session %s reaped after idle timeout", id)
		}
	}
}
