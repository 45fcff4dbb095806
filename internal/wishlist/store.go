// Package wishlist is the persistence shell around the wishlist transitions,
// mirroring the cart store under its own reserved key.
package wishlist

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/retrorack/storefront/internal/domain"
	"github.com/retrorack/storefront/internal/kvstore"
)

// Store is the shared wishlist handle. Same last-write-wins caveat as the
// cart store when two processes share one adapter key.
type Store struct {
	mu    sync.Mutex
	state domain.WishlistState
	kv    kvstore.Store
	key   string
	now   func() time.Time
}

// New seeds the store from the adapter; missing or corrupted data means an
// empty wishlist.
func New(ctx context.Context, kv kvstore.Store) *Store {
	s := &Store{
		kv:  kv,
		key: kvstore.WishlistKey,
		now: time.Now,
	}

	items := kvstore.Load[domain.WishlistItem](ctx, kv, s.key)
	s.state = domain.SeedWishlist(items, s.now())

	return s
}

// Add saves the product; already-saved products are silently ignored.
func (s *Store) Add(ctx context.Context, candidate domain.WishlistItem) domain.WishlistState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.AddItem(candidate, s.now())
	s.persist(ctx)
	return s.state
}

// Remove drops the entry for the product; unknown products are a no-op.
func (s *Store) Remove(ctx context.Context, productID int64) domain.WishlistState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.RemoveItem(productID, s.now())
	s.persist(ctx)
	return s.state
}

// Toggle removes the product when present, otherwise adds it.
func (s *Store) Toggle(ctx context.Context, candidate domain.WishlistItem) domain.WishlistState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.ToggleItem(candidate, s.now())
	s.persist(ctx)
	return s.state
}

// Clear empties the wishlist.
func (s *Store) Clear(ctx context.Context) domain.WishlistState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.Clear(s.now())
	s.persist(ctx)
	return s.state
}

// Snapshot returns a copy of the current state for reading.
func (s *Store) Snapshot() domain.WishlistState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Contains is an exact membership test.
func (s *Store) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Contains(productID)
}

func (s *Store) persist(ctx context.Context) {
	if err := kvstore.Save(ctx, s.kv, s.key, s.state.Items); err != nil {
		log.Printf("wishlist: persist failed: %v", err)
	}
}
