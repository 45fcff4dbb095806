// Package cart wraps the pure cart transitions with persistence: every
// mutation is applied in memory first, then mirrored to the key-value
// adapter under the reserved cart key.
package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/retrorack/storefront/internal/domain"
	"github.com/retrorack/storefront/internal/kvstore"
)

// Store is the shared cart handle. One instance per process; HTTP consumers
// read snapshots and dispatch mutations, never hold the item list itself.
//
// Two processes pointed at the same adapter key overwrite each other on every
// mutation (last write wins). That matches the original single-tab model and
// is deliberately not papered over here.
type Store struct {
	mu    sync.Mutex
	state domain.CartState
	kv    kvstore.Store
	key   string
	now   func() time.Time
}

// New seeds the store from whatever the adapter holds under the cart key.
// Corrupted or missing data means an empty cart, never a failed construction.
func New(ctx context.Context, kv kvstore.Store) *Store {
	s := &Store{
		kv:  kv,
		key: kvstore.CartKey,
		now: time.Now,
	}

	items := kvstore.Load[domain.CartLine](ctx, kv, s.key)
	s.state = domain.SeedCart(items, s.now())

	return s
}

// Add merges or appends the candidate line and returns the new state.
func (s *Store) Add(ctx context.Context, candidate domain.CartLine) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.AddLine(candidate, s.now())
	s.persist(ctx)
	return s.state
}

// Remove drops the line with the given id; unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, lineID string) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.RemoveLine(lineID, s.now())
	s.persist(ctx)
	return s.state
}

// UpdateQuantity sets the quantity on the matching line; zero or negative
// quantities remove the line.
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, quantity int) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.SetQuantity(lineID, quantity, s.now())
	s.persist(ctx)
	return s.state
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.Clear(s.now())
	s.persist(ctx)
	return s.state
}

// Snapshot returns a copy of the current state for reading.
func (s *Store) Snapshot() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ItemQuantity reports the quantity held for a product, zero when absent.
func (s *Store) ItemQuantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ItemQuantity(productID)
}

// Contains reports whether the cart holds the product.
func (s *Store) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Contains(productID)
}

// persist mirrors the in-memory items to the adapter. A failed write is
// logged and otherwise ignored: the session keeps its in-memory cart even
// when the medium stops accepting writes.
func (s *Store) persist(ctx context.Context) {
	if err := kvstore.Save(ctx, s.kv, s.key, s.state.Items); err != nil {
		log.Printf("cart: persist failed: %v", err)
	}
}
