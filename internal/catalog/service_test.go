package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrorack/storefront/internal/domain"
)

type mockRepository struct {
	mu       sync.Mutex
	product  *domain.Product
	err      error
	getCalls int
}

func (m *mockRepository) GetProduct(context.Context, int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

func (m *mockRepository) GetAllProducts(context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return []*domain.Product{m.product}, nil
}

type mockCache struct {
	mu      sync.Mutex
	product *domain.Product
	err     error
}

func (m *mockCache) Get(context.Context, int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.product == nil {
		return nil, ErrCacheMiss
	}
	return m.product, nil
}

func (m *mockCache) Set(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.product = product
	return nil
}

func (m *mockCache) cached() *domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.product
}

func TestGetProduct_CacheHitSkipsRepository(t *testing.T) {
	repo := &mockRepository{}
	cache := &mockCache{product: &domain.Product{ID: 1, Name: "suede jacket", Price: 120}}
	svc := NewService(repo, cache)

	product, err := svc.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "suede jacket", product.Name)
	assert.Equal(t, 0, repo.getCalls)
}

func TestGetProduct_CacheMissFillsCache(t *testing.T) {
	repo := &mockRepository{product: &domain.Product{ID: 2, Name: "denim", Price: 48}}
	cache := &mockCache{}
	svc := NewService(repo, cache)

	product, err := svc.GetProduct(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, int64(2), product.ID)

	// cache fill is async
	require.Eventually(t, func() bool {
		return cache.cached() != nil
	}, time.Second, 10*time.Millisecond)
}

func TestGetProduct_CacheErrorFallsThroughToRepository(t *testing.T) {
	repo := &mockRepository{product: &domain.Product{ID: 3, Name: "scarf"}}
	cache := &mockCache{err: errors.New("redis down")}
	svc := NewService(repo, cache)

	product, err := svc.GetProduct(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "scarf", product.Name)
}

func TestGetProduct_RepositoryErrorSurfaces(t *testing.T) {
	repo := &mockRepository{err: ErrProductNotFound}
	svc := NewService(repo, &mockCache{})

	_, err := svc.GetProduct(context.Background(), 404)

	assert.ErrorIs(t, err, ErrProductNotFound)
}
