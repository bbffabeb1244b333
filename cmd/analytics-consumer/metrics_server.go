package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/micxzie/Four-In-A-Row/internal/kafka"
)

// MetricsServer provides an HTTP API over the consumer's aggregates.
type MetricsServer struct {
	consumer *kafka.Consumer
	server   *http.Server
	router   *mux.Router
}

// MetricsResponse is the envelope for all metrics API responses.
type MetricsResponse struct {
	Status    string      `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

func NewMetricsServer(consumer *kafka.Consumer, addr string) *MetricsServer {
	router := mux.NewRouter()

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ms := &MetricsServer{
		consumer: consumer,
		server:   server,
		router:   router,
	}

	ms.setupRoutes()
	return ms
}

func (ms *MetricsServer) Start() error {
	log.Printf("Starting metrics API server on %s", ms.server.Addr)
	return ms.server.ListenAndServe()
}

func (ms *MetricsServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return ms.server.Shutdown(ctx)
}

func (ms *MetricsServer) setupRoutes() {
	ms.router.Use(ms.corsMiddleware)
	ms.router.Use(ms.loggingMiddleware)

	ms.router.HandleFunc("/health", ms.handleHealth).Methods("GET")
	ms.router.HandleFunc("/api/consumer/stats", ms.handleConsumerStats).Methods("GET")
	ms.router.HandleFunc("/api/metrics/games", ms.handleGameMetrics).Methods("GET")
	ms.router.HandleFunc("/api/metrics/columns", ms.handleColumnMetrics).Methods("GET")
	ms.router.HandleFunc("/api/metrics/hourly", ms.handleHourlyMetrics).Methods("GET")
}

func (ms *MetricsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ms.respond(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (ms *MetricsServer) handleConsumerStats(w http.ResponseWriter, r *http.Request) {
	ms.respond(w, http.StatusOK, ms.consumer.GetStats())
}

func (ms *MetricsServer) handleGameMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot := ms.consumer.Aggregator().Snapshot()
	ms.respond(w, http.StatusOK, map[string]interface{}{
		"totals":                snapshot.Totals,
		"average_game_duration": snapshot.AverageGameDuration,
		"generated_at":          snapshot.GeneratedAt,
	})
}

func (ms *MetricsServer) handleColumnMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot := ms.consumer.Aggregator().Snapshot()
	ms.respond(w, http.StatusOK, map[string]interface{}{
		"column_drops": snapshot.ColumnDrops,
		"generated_at": snapshot.GeneratedAt,
	})
}

func (ms *MetricsServer) handleHourlyMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot := ms.consumer.Aggregator().Snapshot()
	ms.respond(w, http.StatusOK, map[string]interface{}{
		"hourly":       snapshot.Hourly,
		"generated_at": snapshot.GeneratedAt,
	})
}

func (ms *MetricsServer) respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(MetricsResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Data:      data,
	})
}

func (ms *MetricsServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (ms *MetricsServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
