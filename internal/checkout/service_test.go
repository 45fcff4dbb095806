package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrorack/storefront/internal/cart"
	"github.com/retrorack/storefront/internal/domain"
	"github.com/retrorack/storefront/internal/kvstore"
)

func seededCart(t *testing.T) *cart.Store {
	t.Helper()
	ctx := context.Background()
	store := cart.New(ctx, kvstore.NewMemoryStore())
	store.Add(ctx, domain.CartLine{ProductID: 1, Name: "suede jacket", Price: 120, Quantity: 1})
	store.Add(ctx, domain.CartLine{ProductID: 2, Name: "scarf", Price: 18.5, Quantity: 2})
	return store
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc := NewService(newMockRepository(), cart.New(context.Background(), kvstore.NewMemoryStore()),
		&mockPayment{}, &mockPublisher{}, "EUR")

	_, err := svc.Checkout(context.Background(), "key-1")

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_SuccessPath(t *testing.T) {
	repo := newMockRepository()
	publisher := &mockPublisher{}
	svc := NewService(repo, seededCart(t), &mockPayment{}, publisher, "EUR")

	session, err := svc.Checkout(context.Background(), "key-1")

	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatusCompleted, session.Status)
	assert.Equal(t, 157.0, session.Snapshot.TotalAmount)
	assert.Equal(t, "EUR", session.Snapshot.Currency)
	require.Equal(t, 1, publisher.count())
	assert.Equal(t, session.ID, publisher.published[0].ID)

	stored, err := repo.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatusCompleted, stored.Status)
}

func TestCheckout_IdempotencyKeyReturnsExistingSession(t *testing.T) {
	repo := newMockRepository()
	payment := &mockPayment{}
	svc := NewService(repo, seededCart(t), payment, &mockPublisher{}, "EUR")

	first, err := svc.Checkout(context.Background(), "key-1")
	require.NoError(t, err)

	second, err := svc.Checkout(context.Background(), "key-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, payment.charges)
}

func TestCheckout_PaymentFailureParksSessionFailed(t *testing.T) {
	repo := newMockRepository()
	publisher := &mockPublisher{}
	svc := NewService(repo, seededCart(t), &mockPayment{err: ErrPaymentDeclined}, publisher, "EUR")

	session, err := svc.Checkout(context.Background(), "key-1")

	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatusFailed, session.Status)
	assert.Equal(t, 0, publisher.count())
}

func TestCheckout_PublishFailureLeavesSessionRecoverable(t *testing.T) {
	repo := newMockRepository()
	publisher := &mockPublisher{err: assert.AnError}
	svc := NewService(repo, seededCart(t), &mockPayment{}, publisher, "EUR")

	session, err := svc.Checkout(context.Background(), "key-1")

	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatusPaymentCompleted, session.Status)

	// broker comes back; recovery pass drains the stuck session
	publisher.mu.Lock()
	publisher.err = nil
	publisher.mu.Unlock()
	svc.recoverStuckSessions(context.Background())

	recovered, err := repo.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatusCompleted, recovered.Status)
	assert.Equal(t, 1, publisher.count())
}

func TestCheckout_CartLeftIntactUntilEventArrives(t *testing.T) {
	cartStore := seededCart(t)
	svc := NewService(newMockRepository(), cartStore, &mockPayment{}, &mockPublisher{}, "EUR")

	_, err := svc.Checkout(context.Background(), "key-1")

	require.NoError(t, err)
	assert.Equal(t, 3, cartStore.Snapshot().ItemCount())
}
