package checkout

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/retrorack/storefront/internal/domain"
)

// PaymentClient charges the snapshot total and returns a transaction id.
type PaymentClient interface {
	Charge(ctx context.Context, session *domain.CheckoutSession) (string, error)
}

// SimulatedClient stands in for the hosted payment processor: most charges
// succeed, a few are declined.
type SimulatedClient struct{}

func (SimulatedClient) Charge(_ context.Context, session *domain.CheckoutSession) (string, error) {
	if rand.Intn(101) >= 95 {
		return "", ErrPaymentDeclined
	}
	return fmt.Sprintf("TXN-%s-%d", session.ID, time.Now().UnixMilli()), nil
}

type breakerClient struct {
	inner PaymentClient
	cb    *gobreaker.CircuitBreaker[string]
}

// WithBreaker wraps a payment client in a circuit breaker so a struggling
// processor stops taking every checkout down with it.
func WithBreaker(inner PaymentClient) PaymentClient {
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "payment",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &breakerClient{inner: inner, cb: cb}
}

func (b *breakerClient) Charge(ctx context.Context, session *domain.CheckoutSession) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.inner.Charge(ctx, session)
	})
}
