// Package checkout freezes the cart into a snapshot, runs the payment and
// publish steps of the session state machine, and keeps sessions durable so
// an unpublished completion can be retried.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/retrorack/storefront/internal/cart"
	"github.com/retrorack/storefront/internal/domain"
)

type Service struct {
	repo      Repository
	cart      *cart.Store
	payment   PaymentClient
	publisher Publisher
	currency  string
	now       func() time.Time

	recoveryTick time.Duration
}

func NewService(repo Repository, cartStore *cart.Store, payment PaymentClient, publisher Publisher, currency string) *Service {
	return &Service{
		repo:         repo,
		cart:         cartStore,
		payment:      payment,
		publisher:    publisher,
		currency:     currency,
		now:          time.Now,
		recoveryTick: 5 * time.Second,
	}
}

// Checkout runs one attempt end to end. A repeated idempotency key returns
// the session it already produced. Payment failure parks the session in
// FAILED; a failed publish leaves it PAYMENT_COMPLETED for the recovery loop.
// The cart itself is cleared by the event consumer, not here.
func (s *Service) Checkout(ctx context.Context, idempotencyKey string) (*domain.CheckoutSession, error) {
	existing, err := s.repo.GetSessionByIdempotencyKey(ctx, idempotencyKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	now := s.now()
	snapshot := domain.SnapshotCart(s.cart.Snapshot(), s.currency, now)
	if len(snapshot.Items) == 0 {
		return nil, ErrEmptyCart
	}

	session := &domain.CheckoutSession{
		ID:             uuid.NewString(),
		IdempotencyKey: idempotencyKey,
		Status:         domain.CheckoutStatusInitiated,
		Snapshot:       snapshot,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := s.transition(ctx, session, domain.CheckoutStatusPaymentPending); err != nil {
		return nil, err
	}

	txnID, err := s.payment.Charge(ctx, session)
	if err != nil {
		log.Printf("checkout %s: charge failed: %v", session.ID, err)
		if errTransition := s.transition(ctx, session, domain.CheckoutStatusFailed); errTransition != nil {
			return nil, errTransition
		}
		return session, nil
	}
	log.Printf("checkout %s: charged, transaction %s", session.ID, txnID)

	if err := s.transition(ctx, session, domain.CheckoutStatusPaymentCompleted); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishCompleted(ctx, session); err != nil {
		// Recovered later by the recovery loop; the charge already happened.
		log.Printf("checkout %s: publish failed, will retry: %v", session.ID, err)
		return session, nil
	}

	if err := s.transition(ctx, session, domain.CheckoutStatusCompleted); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession looks up a session by id.
func (s *Service) GetSession(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	return s.repo.GetSession(ctx, id)
}

// Run periodically republishes sessions stuck in PAYMENT_COMPLETED. Blocks
// until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.recoveryTick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.recoverStuckSessions(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) recoverStuckSessions(ctx context.Context) {
	sessions, err := s.repo.GetSessionsByStatus(ctx, domain.CheckoutStatusPaymentCompleted)
	if err != nil {
		log.Printf("checkout: failed to get stuck sessions: %v", err)
		return
	}

	for _, session := range sessions {
		log.Printf("checkout: recovering stuck session %s", session.ID)

		if err := s.publisher.PublishCompleted(ctx, session); err != nil {
			log.Printf("checkout %s: publish retry failed: %v", session.ID, err)
			continue
		}
		if err := s.transition(ctx, session, domain.CheckoutStatusCompleted); err != nil {
			log.Printf("checkout %s: failed to complete: %v", session.ID, err)
		}
	}
}

func (s *Service) transition(ctx context.Context, session *domain.CheckoutSession, next domain.CheckoutStatus) error {
	if !session.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, session.Status, next)
	}

	now := s.now()
	if err := s.repo.UpdateStatus(ctx, session.ID, next, now); err != nil {
		return fmt.Errorf("failed to persist status %s: %w", next, err)
	}

	session.Status = next
	session.UpdatedAt = now
	return nil
}
