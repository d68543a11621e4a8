package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tradewatch/signal-service/internal/models"
)

// Producer publishes signal lifecycle events to Kafka.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a Kafka producer.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishSignalCreated announces a freshly stored signal.
func (p *Producer) PublishSignalCreated(ctx context.Context, sig *models.Signal) error {
	event := models.SignalEvent{
		EventType: models.EventTypeSignalCreated,
		Asset:     sig.Asset,
		Signal:    sig,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, sig.Asset, event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.SignalEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

// Close closes the Kafka producer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
