package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubConn struct {
	closed bool
}

func (c *stubConn) WriteJSON(v interface{}) error { return nil }
func (c *stubConn) Close() error                  { c.closed = true; return nil }

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager(time.Hour)
	conn := &stubConn{}

	session := m.CreateSession("alice", conn)
	if session.Game == nil || session.Game.PlayerName != "alice" {
		t.Fatalf("session game not initialized: %+v", session)
	}

	got, ok := m.Get(session.ID)
	if !ok || got != session {
		t.Error("Get should return the registered session")
	}
	if _, ok := m.Get(uuid.New()); ok {
		t.Error("Get should miss on an unknown id")
	}
}

func TestManagerUnknownSession(t *testing.T) {
	m := NewManager(time.Hour)
	id := uuid.New()

	if _, _, err := m.AttemptMove(id, 3); err != ErrGameNotFound {
		t.Errorf("AttemptMove: got %v, want ErrGameNotFound", err)
	}
	if _, _, err := m.PlayBotMove(id); err != ErrGameNotFound {
		t.Errorf("PlayBotMove: got %v, want ErrGameNotFound", err)
	}
	if _, _, err := m.UndoPly(id); err != ErrGameNotFound {
		t.Errorf("UndoPly: got %v, want ErrGameNotFound", err)
	}
	if _, err := m.Restart(id); err != ErrGameNotFound {
		t.Errorf("Restart: got %v, want ErrGameNotFound", err)
	}
	if _, _, err := m.Hint(id); err != ErrGameNotFound {
		t.Errorf("Hint: got %v, want ErrGameNotFound", err)
	}
}

func TestManagerMoveRound(t *testing.T) {
	m := NewManager(time.Hour)
	session := m.CreateSession("alice", &stubConn{})

	move, g, err := m.AttemptMove(session.ID, 3)
	if err != nil {
		t.Fatalf("player move failed: %v", err)
	}
	if move.Column != 3 || move.Row != 0 {
		t.Errorf("unexpected move: %+v", move)
	}
	if g.CurrentTurn != BotPiece {
		t.Error("turn should pass to the bot")
	}

	botMove, g, err := m.PlayBotMove(session.ID)
	if err != nil {
		t.Fatalf("bot move failed: %v", err)
	}
	if botMove.Piece != BotPiece {
		t.Errorf("bot move carries wrong piece: %s", botMove.Piece)
	}
	if g.CurrentTurn != PlayerPiece {
		t.Error("turn should return to the player")
	}

	undone, _, err := m.UndoPly(session.ID)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if undone.Piece != BotPiece {
		t.Errorf("undo should pop the latest ply, got %s", undone.Piece)
	}
}

func TestManagerSweepReapsIdleSessions(t *testing.T) {
	m := NewManager(time.Minute)
	conn := &stubConn{}
	session := m.CreateSession("alice", conn)
	fresh := m.CreateSession("bob", &stubConn{})

	m.mu.Lock()
	m.sessions[session.ID].LastSeen = time.Now().Add(-time.Hour)
	m.mu.Unlock()

	m.sweepIdleSessions()

	if _, ok := m.Get(session.ID); ok {
		t.Error("idle session should be reaped")
	}
	if !conn.closed {
		t.Error("reaped session's connection should be closed")
	}
	if _, ok := m.Get(fresh.ID); !ok {
		t.Error("active session should survive the sweep")
	}
}
