package repository

import (
	"context"
	"fmt"

	"MacroSignal/internal/domain/models"
	domrepo "MacroSignal/internal/domain/repository"
	pkgkafka "MacroSignal/pkg/kafka"
)

// KafkaSignalPublisher emits computed batch results for downstream
// consumers (dashboards, notification and summary services).
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates a publisher on the given topic.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

// signalEvent is the wire shape of one published result.
type signalEvent struct {
	Key    string              `json:"key"`
	Result models.ZScoreResult `json:"result"`
}

// PublishBatch publishes each produced result keyed by symbol:metric so one
// series always lands on the same partition.
func (p *KafkaSignalPublisher) PublishBatch(ctx context.Context, report *models.BatchReport) error {
	for key, res := range report.Results {
		ev := signalEvent{Key: key, Result: res}
		if err := p.producer.Publish(ctx, p.topic, []byte(key), ev); err != nil {
			return fmt.Errorf("publish %s: %w", key, err)
		}
	}
	return nil
}

// Close closes the underlying producer.
func (p *KafkaSignalPublisher) Close() error {
	return p.producer.Close()
}

var _ domrepo.SignalPublisher = (*KafkaSignalPublisher)(nil)
