package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/micxzie/Four-In-A-Row/internal/game"
)

// Store persists completed games and serves the stats endpoints.
type Store struct {
	db *sql.DB
}

// GameRecord is one finished human-vs-bot game.
type GameRecord struct {
	ID              uuid.UUID `json:"id"`
	PlayerName      string    `json:"player_name"`
	Outcome         string    `json:"outcome"`
	WinType         string    `json:"win_type,omitempty"`
	TotalMoves      int       `json:"total_moves"`
	UndoCount       int       `json:"undo_count"`
	DurationSeconds int       `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
	FinishedAt      time.Time `json:"finished_at"`
}

type PlayerStats struct {
	PlayerName          string  `json:"player_name"`
	TotalGames          int     `json:"total_games"`
	Wins                int     `json:"wins"`
	Losses              int     `json:"losses"`
	Draws               int     `json:"draws"`
	WinRate             float64 `json:"win_rate"`
	AverageGameDuration float64 `json:"average_game_duration"`
	TotalUndos          int     `json:"total_undos"`
}

type LeaderboardEntry struct {
	PlayerName string  `json:"player_name"`
	TotalGames int     `json:"total_games"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	WinRate    float64 `json:"win_rate"`
}

func NewStore(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) HealthCheck() error {
	return s.db.Ping()
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id UUID PRIMARY KEY,
			player_name VARCHAR(255) NOT NULL,
			outcome VARCHAR(32) NOT NULL,
			win_type VARCHAR(32),
			total_moves INTEGER NOT NULL,
			undo_count INTEGER NOT NULL DEFAULT 0,
			duration_seconds INTEGER NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			finished_at TIMESTAMP WITH TIME ZONE NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_player_name ON games(player_name)`,
		`CREATE INDEX IF NOT EXISTS idx_games_outcome ON games(outcome)`,
		`CREATE INDEX IF NOT EXISTS idx_games_finished_at ON games(finished_at)`,
		`CREATE TABLE IF NOT EXISTS metrics_snapshots (
			id SERIAL PRIMARY KEY,
			kind VARCHAR(64) NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// SaveCompletedGame persists a game once its status is terminal.
func (s *Store) SaveCompletedGame(g *game.Game) error {
	if g == nil || !g.Status.Terminal() || g.FinishedAt == nil {
		return fmt.Errorf("game is not finished")
	}

	var winType *string
	if g.Win != nil {
		t := string(g.Win.Type)
		winType = &t
	}

	query := `
		INSERT INTO games (id, player_name, outcome, win_type, total_moves, undo_count, duration_seconds, created_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.Exec(query,
		g.ID,
		g.PlayerName,
		string(g.Status),
		winType,
		g.HistoryLen(),
		g.UndoCount,
		int(g.FinishedAt.Sub(g.CreatedAt).Seconds()),
		g.CreatedAt,
		g.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// RecentGames returns the most recently finished games.
func (s *Store) RecentGames(limit int) ([]GameRecord, error) {
	query := `
		SELECT id, player_name, outcome, COALESCE(win_type, ''), total_moves, undo_count, duration_seconds, created_at, finished_at
		FROM games
		ORDER BY finished_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent games: %w", err)
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		var rec GameRecord
		if err := rows.Scan(&rec.ID, &rec.PlayerName, &rec.Outcome, &rec.WinType,
			&rec.TotalMoves, &rec.UndoCount, &rec.DurationSeconds, &rec.CreatedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetPlayerStats aggregates one player's record against the bot.
func (s *Store) GetPlayerStats(playerName string) (*PlayerStats, error) {
	query := `
		SELECT
			COUNT(*) as total_games,
			SUM(CASE WHEN outcome = 'player_won' THEN 1 ELSE 0 END) as wins,
			SUM(CASE WHEN outcome = 'bot_won' THEN 1 ELSE 0 END) as losses,
			SUM(CASE WHEN outcome = 'draw' THEN 1 ELSE 0 END) as draws,
			COALESCE(ROUND(AVG(duration_seconds)::numeric, 2), 0) as avg_duration,
			COALESCE(SUM(undo_count), 0) as total_undos
		FROM games
		WHERE player_name = $1
	`

	var stats PlayerStats
	stats.PlayerName = playerName

	err := s.db.QueryRow(query, playerName).Scan(
		&stats.TotalGames,
		&stats.Wins,
		&stats.Losses,
		&stats.Draws,
		&stats.AverageGameDuration,
		&stats.TotalUndos,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("player not found: %s", playerName)
		}
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}

	if stats.TotalGames > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.TotalGames) * 100
	}

	return &stats, nil
}

// GetLeaderboard ranks players by wins against the bot.
func (s *Store) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	query := `
		SELECT
			player_name,
			COUNT(*) as total_games,
			SUM(CASE WHEN outcome = 'player_won' THEN 1 ELSE 0 END) as wins,
			SUM(CASE WHEN outcome = 'bot_won' THEN 1 ELSE 0 END) as losses,
			SUM(CASE WHEN outcome = 'draw' THEN 1 ELSE 0 END) as draws
		FROM games
		GROUP BY player_name
		HAVING COUNT(*) >= 1
		ORDER BY SUM(CASE WHEN outcome = 'player_won' THEN 1 ELSE 0 END) DESC, COUNT(*) ASC
		LIMIT $1
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.PlayerName, &entry.TotalGames, &entry.Wins, &entry.Losses, &entry.Draws); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		if entry.TotalGames > 0 {
			entry.WinRate = float64(entry.Wins) / float64(entry.TotalGames) * 100
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SaveMetricsSnapshot stores one aggregated metrics payload from the
// analytics consumer.
func (s *Store) SaveMetricsSnapshot(kind string, payload []byte) error {
	_, err := s.db.Exec(`INSERT INTO metrics_snapshots (kind, payload) VALUES ($1, $2)`, kind, payload)
	if err != nil {
		return fmt.Errorf("failed to save metrics snapshot: %w", err)
	}
	return nil
}
