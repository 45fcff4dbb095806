// Package events drains checkout-completed events and empties the cart in
// response, decoupling "payment went through" from "the cart is gone".
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/retrorack/storefront/internal/cart"
	"github.com/retrorack/storefront/internal/checkout"
)

// readErrBackoff paces retries when the broker fails reads instantly, e.g.
// while it is unreachable.
const readErrBackoff = time.Second

// MessageReader is the slice of kafka.Reader the consumer needs; tests swap
// in a scripted reader.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	cart       *cart.Store
	reader     MessageReader
	errBackoff time.Duration
}

func NewConsumer(cartStore *cart.Store, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    checkout.Topic,
		GroupID:  "storefront-cart",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{cart: cartStore, reader: reader, errBackoff: readErrBackoff}
}

// NewConsumerWithReader wires an explicit reader; used in tests.
func NewConsumerWithReader(cartStore *cart.Store, reader MessageReader) *Consumer {
	return &Consumer{cart: cartStore, reader: reader, errBackoff: readErrBackoff}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := c.processMessage(ctx); err != nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.errBackoff):
			}
		}
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("events: error closing reader: %v", err)
	}
}

// processMessage handles one read. A read error is returned so Run can back
// off; a malformed payload is logged and skipped without slowing the loop.
func (c *Consumer) processMessage(ctx context.Context) error {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("events: error reading message: %v", err)
		}
		return err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		log.Printf("events: error parsing message: %v", err)
		return nil
	}

	checkoutID, ok := payload["checkout_id"].(string)
	if !ok {
		log.Println("events: missing or invalid checkout_id")
		return nil
	}

	c.cart.Clear(ctx)
	log.Printf("events: cart cleared after checkout %s", checkoutID)
	return nil
}
