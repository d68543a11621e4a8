package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/tradewatch/signal-service/internal/metrics"
	"github.com/tradewatch/signal-service/internal/models"
	"github.com/tradewatch/signal-service/internal/signals"
)

// SignalSubmitter hands a decoded robot submission to the ingestion service.
type SignalSubmitter interface {
	Submit(ctx context.Context, sub models.SignalSubmission) (*models.Signal, error)
}

// Deduper tracks processed event IDs across redeliveries.
type Deduper interface {
	FirstSeen(ctx context.Context, eventID string) (bool, error)
}

// Consumer ingests SIGNAL_DETECTED events published by the robot. Malformed
// or duplicate events are dropped; storage failures are logged and the
// message is skipped rather than blocking the partition.
type Consumer struct {
	reader  *kafka.Reader
	service SignalSubmitter
	deduper Deduper
	metrics *metrics.Registry
	logger  zerolog.Logger
}

// NewConsumer creates a Kafka consumer for robot signal events.
func NewConsumer(brokers []string, topic, groupID string, service SignalSubmitter, deduper Deduper, m *metrics.Registry, logger zerolog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader:  reader,
		service: service,
		deduper: deduper,
		metrics: m,
		logger:  logger.With().Str("component", "kafka_consumer").Logger(),
	}
}

// Start consumes messages until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().Str("topic", c.reader.Config().Topic).Msg("starting kafka consumer")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("kafka consumer shutting down")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // context cancelled, normal shutdown
				}
				c.logger.Error().Err(err).Msg("failed to read message")
				continue
			}

			if err := c.processMessage(ctx, msg); err != nil {
				c.metrics.EventConsumed("error")
				c.logger.Error().Err(err).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("failed to process message")
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message.
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event models.SignalEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal signal event: %w", err)
	}

	if event.EventType != models.EventTypeSignalDetected {
		c.metrics.EventConsumed("ignored")
		c.logger.Debug().Str("event_type", event.EventType).Msg("ignoring event type")
		return nil
	}
	if event.Submission == nil {
		return fmt.Errorf("signal event %s has no submission payload", event.EventID)
	}

	if c.deduper != nil && event.EventID != "" {
		first, err := c.deduper.FirstSeen(ctx, event.EventID)
		if err != nil {
			return fmt.Errorf("failed to check duplicate event: %w", err)
		}
		if !first {
			c.metrics.EventConsumed("duplicate")
			c.logger.Debug().Str("event_id", event.EventID).Msg("event already processed, skipping")
			return nil
		}
	}

	sig, err := c.service.Submit(ctx, *event.Submission)
	if err != nil {
		var verr *signals.ValidationError
		if errors.As(err, &verr) {
			// Bad payloads will not improve on redelivery; drop them.
			c.metrics.EventConsumed("invalid")
			c.logger.Warn().Err(err).Str("asset", event.Asset).Msg("dropping invalid submission")
			return nil
		}
		return fmt.Errorf("failed to submit signal: %w", err)
	}

	c.metrics.EventConsumed("ok")
	c.logger.Info().
		Int("id", sig.ID).
		Str("asset", sig.Asset).
		Str("direction", sig.Direction).
		Msg("signal ingested from kafka")
	return nil
}

// Close closes the Kafka consumer.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
