package kafka

import (
	"testing"
	"time"

	"github.com/micxzie/Four-In-A-Row/internal/game"
)

func baseAt(ts time.Time) BaseEvent {
	return BaseEvent{Timestamp: ts, SessionID: "s", GameID: "g"}
}

func TestAggregatorCountsMoves(t *testing.T) {
	ma := NewMetricsAggregator(nil)
	ts := time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC)

	ma.RecordMovePlayed(MovePlayedEvent{BaseEvent: baseAt(ts), Column: 3, ByBot: false})
	ma.RecordMovePlayed(MovePlayedEvent{BaseEvent: baseAt(ts), Column: 3, ByBot: true})
	ma.RecordMovePlayed(MovePlayedEvent{BaseEvent: baseAt(ts), Column: 0, ByBot: false})
	// Out-of-range columns are dropped from the histogram but still counted.
	ma.RecordMovePlayed(MovePlayedEvent{BaseEvent: baseAt(ts), Column: 9, ByBot: false})

	snap := ma.Snapshot()
	if snap.Totals.MovesPlayed != 4 {
		t.Errorf("moves played: got %d, want 4", snap.Totals.MovesPlayed)
	}
	if snap.Totals.BotMoves != 1 {
		t.Errorf("bot moves: got %d, want 1", snap.Totals.BotMoves)
	}
	if snap.ColumnDrops[3] != 2 || snap.ColumnDrops[0] != 1 {
		t.Errorf("column histogram wrong: %v", snap.ColumnDrops)
	}
	if got := snap.Hourly["2026-08-26-10"].MovesPlayed; got != 4 {
		t.Errorf("hourly moves: got %d, want 4", got)
	}
}

func TestAggregatorGameOutcomes(t *testing.T) {
	ma := NewMetricsAggregator(nil)
	ts := time.Now()

	ma.RecordGameStarted(GameStartedEvent{BaseEvent: baseAt(ts)})
	ma.RecordGameStarted(GameStartedEvent{BaseEvent: baseAt(ts)})
	ma.RecordGameEnded(GameEndedEvent{
		BaseEvent:       baseAt(ts),
		Outcome:         string(game.StatusPlayerWon),
		WinType:         string(game.WinHorizontal),
		DurationSeconds: 30,
	})
	ma.RecordGameEnded(GameEndedEvent{
		BaseEvent:       baseAt(ts),
		Outcome:         string(game.StatusDraw),
		DurationSeconds: 90,
	})

	snap := ma.Snapshot()
	if snap.Totals.GamesStarted != 2 || snap.Totals.GamesEnded != 2 {
		t.Errorf("game counts wrong: %+v", snap.Totals)
	}
	if snap.Totals.PlayerWins != 1 || snap.Totals.Draws != 1 || snap.Totals.BotWins != 0 {
		t.Errorf("outcome counts wrong: %+v", snap.Totals)
	}
	if snap.Totals.WinTypes[string(game.WinHorizontal)] != 1 {
		t.Errorf("win types wrong: %v", snap.Totals.WinTypes)
	}
	if snap.AverageGameDuration != 60 {
		t.Errorf("average duration: got %f, want 60", snap.AverageGameDuration)
	}
}

func TestAggregatorSnapshotIsACopy(t *testing.T) {
	ma := NewMetricsAggregator(nil)
	ts := time.Now()
	ma.RecordGameEnded(GameEndedEvent{
		BaseEvent: baseAt(ts),
		Outcome:   string(game.StatusBotWon),
		WinType:   string(game.WinVertical),
	})

	snap := ma.Snapshot()
	snap.Totals.WinTypes["forged"] = 99
	delete(snap.Hourly, ts.UTC().Format("2006-01-02-15"))

	again := ma.Snapshot()
	if _, ok := again.Totals.WinTypes["forged"]; ok {
		t.Error("mutating a snapshot must not leak into the aggregator")
	}
	if again.Totals.WinTypes[string(game.WinVertical)] != 1 {
		t.Errorf("win types lost: %v", again.Totals.WinTypes)
	}
}

func TestAggregatorRestartsUndosHints(t *testing.T) {
	ma := NewMetricsAggregator(nil)
	ts := time.Now()

	ma.RecordGameRestarted(GameRestartedEvent{BaseEvent: baseAt(ts), MovesDiscarded: 5})
	ma.RecordMoveUndone(MoveUndoneEvent{BaseEvent: baseAt(ts), Column: 2})
	ma.RecordMoveUndone(MoveUndoneEvent{BaseEvent: baseAt(ts), Column: 2})
	ma.RecordHintRequested(HintRequestedEvent{BaseEvent: baseAt(ts), SuggestedColumn: 3})

	snap := ma.Snapshot()
	if snap.Totals.GamesRestarted != 1 {
		t.Errorf("restarts: got %d, want 1", snap.Totals.GamesRestarted)
	}
	if snap.Totals.MovesUndone != 2 {
		t.Errorf("undos: got %d, want 2", snap.Totals.MovesUndone)
	}
	if snap.Totals.HintsRequested != 1 {
		t.Errorf("hints: got %d, want 1", snap.Totals.HintsRequested)
	}
}
