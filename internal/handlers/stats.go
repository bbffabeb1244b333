package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/micxzie/Four-In-A-Row/internal/database"
)

// StatsHandler serves the read-only REST endpoints over the game store.
type StatsHandler struct {
	store *database.Store
}

func NewStatsHandler(store *database.Store) *StatsHandler {
	return &StatsHandler{store: store}
}

func (h *StatsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	leaderboard, err := h.store.GetLeaderboard(50)
	if err != nil {
		http.Error(w, "Failed to fetch leaderboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(leaderboard)
}

func (h *StatsHandler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	playerName := r.URL.Query().Get("name")
	if playerName == "" {
		http.Error(w, "Player name is required", http.StatusBadRequest)
		return
	}

	stats, err := h.store.GetPlayerStats(playerName)
	if err != nil {
		http.Error(w, "Failed to fetch player stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (h *StatsHandler) GetRecentGames(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	games, err := h.store.RecentGames(limit)
	if err != nil {
		http.Error(w, "Failed to fetch recent games", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(games)
}
