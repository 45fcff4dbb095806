package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/retrorack/storefront/internal/domain"
)

// Publisher announces completed checkouts to the rest of the system; the
// cart-clearing consumer listens on the same topic.
type Publisher interface {
	PublishCompleted(ctx context.Context, session *domain.CheckoutSession) error
	Close() error
}

const Topic = "checkout-completed"

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishCompleted(ctx context.Context, session *domain.CheckoutSession) error {
	payload := map[string]interface{}{
		"checkout_id":  session.ID,
		"items":        session.Snapshot.Items,
		"total_amount": session.Snapshot.TotalAmount,
		"currency":     session.Snapshot.Currency,
		"completed_at": session.UpdatedAt,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(session.ID), // checkout_id for ordering
		Value: payloadJSON,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("checkout.completed")},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
