// Package notify publishes ledger events for the external notification service.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/metrics"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	EventTransferCompleted   = "transfer.completed"
	EventWithdrawalRequested = "withdrawal.requested"
	EventWithdrawalCompleted = "withdrawal.completed"
	EventWithdrawalRejected  = "withdrawal.rejected"
	EventEscrowReleased      = "escrow.released"
	EventWinnerFinalized     = "winner.finalized"
)

type Envelope struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	EventVersion  int       `json:"event_version"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	Data          any       `json:"data"`
}

func NewEvent(eventType, correlationID, userID string, data any) Envelope {
	return Envelope{
		EventID:       ulid.Make().String(),
		EventType:     eventType,
		EventVersion:  1,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		UserID:        userID,
		Data:          data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Envelope) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Envelope) error { return nil }
func (NopPublisher) Close() error                             { return nil }

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *metrics.Metrics
}

func NewKafkaPublisher(brokers []string, topic string, m *metrics.Metrics) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers required")
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 250 * time.Millisecond

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return newKafkaPublisher(producer, topic, m), nil
}

func newKafkaPublisher(producer sarama.SyncProducer, topic string, m *metrics.Metrics) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, metrics: m}
}

// Publish keys messages by user so one user's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, event Envelope) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := event.UserID
	if key == "" {
		key = event.EventID
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType)},
		},
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		p.metrics.EventPublished(event.EventType, false)
		logger.Log.Error("kafka publish failed", zap.String("event_type", event.EventType), zap.Error(err))
		return fmt.Errorf("kafka publish failed: %w", err)
	}
	p.metrics.EventPublished(event.EventType, true)
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
