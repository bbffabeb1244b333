package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/micxzie/Four-In-A-Row/internal/config"
	"github.com/micxzie/Four-In-A-Row/internal/database"
	"github.com/micxzie/Four-In-A-Row/internal/game"
	"github.com/micxzie/Four-In-A-Row/internal/handlers"
	"github.com/micxzie/Four-In-A-Row/internal/kafka"
	"github.com/micxzie/Four-In-A-Row/internal/server"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	// Initialize database
	store, err := database.NewStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer store.Close()

	// Initialize Kafka producer
	kafkaConfig := kafka.DefaultProducerConfig(cfg.KafkaBrokers)
	kafkaProducer, err := kafka.NewProducer(kafkaConfig)
	if err != nil {
		log.Fatal("Failed to create Kafka producer:", err)
	}
	defer kafkaProducer.Close()

	// Initialize services
	manager := game.NewManager(cfg.SessionIdleTimeout)
	analyticsService := kafka.NewAnalyticsService(kafkaProducer, cfg.AnalyticsEnabled)

	// Initialize handlers
	gameHandler := handlers.NewGameHandler(manager, store, analyticsService, cfg.BotThinkDelay)
	statsHandler := handlers.NewStatsHandler(store)

	// Initialize server
	srv := server.NewServer(cfg, gameHandler, statsHandler)

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start:", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
