package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/retrorack/storefront/internal/domain"
)

type mockRepository struct {
	mu       sync.Mutex
	sessions map[string]*domain.CheckoutSession
	err      error
}

func newMockRepository() *mockRepository {
	return &mockRepository{sessions: make(map[string]*domain.CheckoutSession)}
}

func (m *mockRepository) CreateSession(_ context.Context, session *domain.CheckoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	stored := *session
	m.sessions[session.ID] = &stored
	return nil
}

func (m *mockRepository) GetSession(_ context.Context, id string) (*domain.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (m *mockRepository) GetSessionByIdempotencyKey(_ context.Context, key string) (*domain.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, session := range m.sessions {
		if session.IdempotencyKey == key {
			copied := *session
			return &copied, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (m *mockRepository) GetSessionsByStatus(_ context.Context, status domain.CheckoutStatus) ([]*domain.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.CheckoutSession
	for _, session := range m.sessions {
		if session.Status == status {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRepository) UpdateStatus(_ context.Context, id string, status domain.CheckoutStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	session.Status = status
	session.UpdatedAt = updatedAt
	return nil
}

type mockPayment struct {
	err     error
	charges int
}

func (m *mockPayment) Charge(context.Context, *domain.CheckoutSession) (string, error) {
	m.charges++
	if m.err != nil {
		return "", m.err
	}
	return "TXN-TEST", nil
}

type mockPublisher struct {
	mu        sync.Mutex
	err       error
	published []*domain.CheckoutSession
}

func (m *mockPublisher) PublishCompleted(_ context.Context, session *domain.CheckoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	copied := *session
	m.published = append(m.published, &copied)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.published)
}
