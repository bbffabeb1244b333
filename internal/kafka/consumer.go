package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/micxzie/Four-In-A-Row/internal/database"
)

// ConsumerStats tracks consumer health for the metrics API.
type ConsumerStats struct {
	MessagesProcessed int64         `json:"messages_processed"`
	MessagesErrored   int64         `json:"messages_errored"`
	LastMessageTime   time.Time     `json:"last_message_time"`
	LastErrorTime     time.Time     `json:"last_error_time"`
	LastError         string        `json:"last_error"`
	StartTime         time.Time     `json:"start_time"`
	Uptime            time.Duration `json:"uptime"`
}

// ConsumerConfig holds configuration for the Kafka consumer.
type ConsumerConfig struct {
	Brokers        []string      `json:"brokers"`
	Topic          string        `json:"topic"`
	GroupID        string        `json:"group_id"`
	MinBytes       int           `json:"min_bytes"`
	MaxBytes       int           `json:"max_bytes"`
	MaxWait        time.Duration `json:"max_wait"`
	StartOffset    int64         `json:"start_offset"`
	CommitInterval time.Duration `json:"commit_interval"`
}

// DefaultConsumerConfig returns a production-ready consumer configuration.
func DefaultConsumerConfig(brokers []string) ConsumerConfig {
	return ConsumerConfig{
		Brokers:        brokers,
		Topic:          "four-in-a-row-events",
		GroupID:        "analytics-processor",
		MinBytes:       10e3,
		MaxBytes:       10e6,
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.LastOffset,
		CommitInterval: 1 * time.Second,
	}
}

// Consumer reads game events and feeds the metrics aggregator.
type Consumer struct {
	reader     *kafka.Reader
	aggregator *MetricsAggregator
	stopChan   chan struct{}
	wg         sync.WaitGroup
	isRunning  bool
	mu         sync.RWMutex
	stats      ConsumerStats
}

func NewConsumer(config ConsumerConfig, store *database.Store) (*Consumer, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Brokers,
		Topic:          config.Topic,
		GroupID:        config.GroupID,
		MinBytes:       config.MinBytes,
		MaxBytes:       config.MaxBytes,
		MaxWait:        config.MaxWait,
		StartOffset:    config.StartOffset,
		CommitInterval: config.CommitInterval,
		ErrorLogger:    kafka.LoggerFunc(log.Printf),
	})

	return &Consumer{
		reader:     reader,
		aggregator: NewMetricsAggregator(store),
		stopChan:   make(chan struct{}),
		stats:      ConsumerStats{StartTime: time.Now()},
	}, nil
}

// Start begins consuming messages and aggregating metrics.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return fmt.Errorf("consumer is already running")
	}
	c.isRunning = true
	c.mu.Unlock()

	log.Printf("Starting Kafka consumer for topic: %s", c.reader.Config().Topic)

	c.wg.Add(2)
	go c.processMessages(ctx)
	go c.aggregator.FlushLoop(ctx, &c.wg)

	return nil
}

// Stop gracefully shuts down the consumer.
func (c *Consumer) Stop() error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	log.Println("Stopping Kafka consumer...")

	close(c.stopChan)
	c.wg.Wait()

	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("failed to close reader: %w", err)
	}

	log.Println("Kafka consumer stopped")
	return nil
}

// GetStats returns a copy of the consumer statistics.
func (c *Consumer) GetStats() ConsumerStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats := c.stats
	stats.Uptime = time.Since(stats.StartTime)
	return stats
}

// Aggregator exposes the metrics aggregator to the metrics API.
func (c *Consumer) Aggregator() *MetricsAggregator {
	return c.aggregator
}

func (c *Consumer) processMessages(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		readCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		message, err := c.reader.ReadMessage(readCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if err == context.DeadlineExceeded {
				continue
			}
			c.recordError(err)
			continue
		}

		if err := c.processEvent(message.Value); err != nil {
			log.Printf("failed to process event: %v", err)
			c.recordError(err)
			continue
		}

		c.mu.Lock()
		c.stats.MessagesProcessed++
		c.stats.LastMessageTime = time.Now()
		c.mu.Unlock()
	}
}

// processEvent dispatches a raw event to the aggregator by type.
func (c *Consumer) processEvent(raw []byte) error {
	var base BaseEvent
	if err := json.Unmarshal(raw, &base); err != nil {
		return fmt.Errorf("failed to decode event envelope: %w", err)
	}

	switch base.EventType {
	case EventGameStarted:
		var event GameStartedEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		c.aggregator.RecordGameStarted(event)

	case EventMovePlayed:
		var event MovePlayedEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		c.aggregator.RecordMovePlayed(event)

	case EventMoveUndone:
		var event MoveUndoneEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		c.aggregator.RecordMoveUndone(event)

	case EventGameRestarted:
		var event GameRestartedEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		c.aggregator.RecordGameRestarted(event)

	case EventHintRequested:
		var event HintRequestedEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		c.aggregator.RecordHintRequested(event)

	case EventGameEnded:
		var event GameEndedEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		c.aggregator.RecordGameEnded(event)

	default:
		log.Printf("skipping unknown event type: %s", base.EventType)
	}

	return nil
}

func (c *Consumer) recordError(err error) {
	c.mu.Lock()
	c.stats.MessagesErrored++
	c.stats.LastErrorTime = time.Now()
	c.stats.LastError = err.Error()
	c.mu.Unlock()
}
