package repository

import (
	"context"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
	domrepo "github.com/umi1970/TradeMatrix-sub001/internal/domain/repository"
	pkgkafka "github.com/umi1970/TradeMatrix-sub001/pkg/kafka"
)

// KafkaAlertPublisher implements AlertPublisher for Kafka. The dispatch
// collaborator consumes the topic and handles channels and deduplication.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAlertPublisher creates a Kafka alert publisher.
func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) domrepo.AlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func alertPayload(a *models.Alert) map[string]interface{} {
	return map[string]interface{}{
		"kind":      string(a.Kind),
		"symbol":    a.Symbol,
		"price":     a.Price,
		"levels":    a.Levels,
		"direction": a.Direction,
		"t":         a.Timestamp.Unix(),
	}
}

func (p *KafkaAlertPublisher) Publish(ctx context.Context, a *models.Alert) error {
	return p.producer.Publish(ctx, p.topic, []byte(a.Symbol), alertPayload(a))
}

func (p *KafkaAlertPublisher) PublishBatch(ctx context.Context, alerts []*models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(alerts))
	for i, a := range alerts {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(a.Symbol),
			Value: alertPayload(a),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAlertPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
