package repository

import (
	"context"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
	domrepo "github.com/david89it/trading-opportunities-platform/internal/domain/repository"
	pkgkafka "github.com/david89it/trading-opportunities-platform/pkg/kafka"
)

// KafkaPublisher emits approved opportunities keyed by symbol so downstream
// consumers see per-symbol ordering.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka-backed opportunity publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishOpportunity(ctx context.Context, opp *models.Opportunity) error {
	return p.producer.Publish(ctx, p.topic, []byte(opp.Symbol), opp)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
