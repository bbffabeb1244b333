package kafka

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/micxzie/Four-In-A-Row/internal/database"
	"github.com/micxzie/Four-In-A-Row/internal/game"
)

// MetricsAggregator folds the event stream into in-memory counters
// and periodically flushes a snapshot to the store.
type MetricsAggregator struct {
	mu            sync.RWMutex
	store         *database.Store
	totals        GameTotals
	columnDrops   [game.Columns]int64
	hourly        map[string]*HourlyBucket
	lastFlush     time.Time
	flushInterval time.Duration
}

// GameTotals aggregates outcomes across all consumed games.
type GameTotals struct {
	GamesStarted   int64            `json:"games_started"`
	GamesEnded     int64            `json:"games_ended"`
	GamesRestarted int64            `json:"games_restarted"`
	PlayerWins     int64            `json:"player_wins"`
	BotWins        int64            `json:"bot_wins"`
	Draws          int64            `json:"draws"`
	WinTypes       map[string]int64 `json:"win_types"`
	MovesPlayed    int64            `json:"moves_played"`
	BotMoves       int64            `json:"bot_moves"`
	MovesUndone    int64            `json:"moves_undone"`
	HintsRequested int64            `json:"hints_requested"`
	TotalDuration  int64            `json:"total_duration_seconds"`
}

// HourlyBucket holds per-hour activity, keyed "2024-01-01-15".
type HourlyBucket struct {
	GamesStarted int64 `json:"games_started"`
	GamesEnded   int64 `json:"games_ended"`
	MovesPlayed  int64 `json:"moves_played"`
}

// MetricsSnapshot is the aggregator's externally visible state.
type MetricsSnapshot struct {
	Totals              GameTotals              `json:"totals"`
	ColumnDrops         [game.Columns]int64     `json:"column_drops"`
	AverageGameDuration float64                 `json:"average_game_duration"`
	Hourly              map[string]HourlyBucket `json:"hourly"`
	GeneratedAt         time.Time               `json:"generated_at"`
}

func NewMetricsAggregator(store *database.Store) *MetricsAggregator {
	return &MetricsAggregator{
		store:         store,
		totals:        GameTotals{WinTypes: make(map[string]int64)},
		hourly:        make(map[string]*HourlyBucket),
		lastFlush:     time.Now(),
		flushInterval: 5 * time.Minute,
	}
}

func (ma *MetricsAggregator) RecordGameStarted(event GameStartedEvent) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.totals.GamesStarted++
	ma.bucket(event.Timestamp).GamesStarted++
}

func (ma *MetricsAggregator) RecordMovePlayed(event MovePlayedEvent) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.totals.MovesPlayed++
	if event.ByBot {
		ma.totals.BotMoves++
	}
	if event.Column >= 0 && event.Column < game.Columns {
		ma.columnDrops[event.Column]++
	}
	ma.bucket(event.Timestamp).MovesPlayed++
}

func (ma *MetricsAggregator) RecordMoveUndone(event MoveUndoneEvent) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.totals.MovesUndone++
}

func (ma *MetricsAggregator) RecordGameRestarted(event GameRestartedEvent) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.totals.GamesRestarted++
}

func (ma *MetricsAggregator) RecordHintRequested(event HintRequestedEvent) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.totals.HintsRequested++
}

func (ma *MetricsAggregator) RecordGameEnded(event GameEndedEvent) {
	ma.mu.Lock()
	defer ma.mu.Unlock()

	ma.totals.GamesEnded++
	ma.totals.TotalDuration += event.DurationSeconds
	switch event.Outcome {
	case string(game.StatusPlayerWon):
		ma.totals.PlayerWins++
	case string(game.StatusBotWon):
		ma.totals.BotWins++
	case string(game.StatusDraw):
		ma.totals.Draws++
	}
	if event.WinType != "" {
		ma.totals.WinTypes[event.WinType]++
	}
	ma.bucket(event.Timestamp).GamesEnded++
}

// Snapshot returns a copy of the current aggregates.
func (ma *MetricsAggregator) Snapshot() MetricsSnapshot {
	ma.mu.RLock()
	defer ma.mu.RUnlock()

	totals := ma.totals
	totals.WinTypes = make(map[string]int64, len(ma.totals.WinTypes))
	for k, v := range ma.totals.WinTypes {
		totals.WinTypes[k] = v
	}

	hourly := make(map[string]HourlyBucket, len(ma.hourly))
	for k, v := range ma.hourly {
		hourly[k] = *v
	}

	snapshot := MetricsSnapshot{
		Totals:      totals,
		ColumnDrops: ma.columnDrops,
		Hourly:      hourly,
		GeneratedAt: time.Now(),
	}
	if totals.GamesEnded > 0 {
		snapshot.AverageGameDuration = float64(totals.TotalDuration) / float64(totals.GamesEnded)
	}
	return snapshot
}

// FlushLoop flushes snapshots on a fixed interval until the context
// is cancelled, then flushes once more on the way out.
func (ma *MetricsAggregator) FlushLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(ma.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := ma.Flush(); err != nil {
				log.Printf("metrics flush failed: %v", err)
			}
		case <-ctx.Done():
			if err := ma.Flush(); err != nil {
				log.Printf("final metrics flush failed: %v", err)
			}
			return
		}
	}
}

// Flush persists the current snapshot.
func (ma *MetricsAggregator) Flush() error {
	snapshot := ma.Snapshot()

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	if ma.store != nil {
		if err := ma.store.SaveMetricsSnapshot("game_metrics", payload); err != nil {
			return err
		}
	}

	ma.mu.Lock()
	ma.lastFlush = time.Now()
	ma.mu.Unlock()

	log.Printf("flushed metrics snapshot: %d games ended, %d moves", snapshot.Totals.GamesEnded, snapshot.Totals.MovesPlayed)
	return nil
}

func (ma *MetricsAggregator) bucket(ts time.Time) *HourlyBucket {
	key := ts.UTC().Format("2006-01-02-15")
	b, ok := ma.hourly[key]
	if !ok {
		b = &HourlyBucket{}
		ma.hourly[key] = b
	}
	return b
}
