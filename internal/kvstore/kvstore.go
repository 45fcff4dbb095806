// Package kvstore is the persistence seam for the cart and wishlist stores:
// a durable key-value medium holding one JSON-encoded collection per key.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// Reserved keys, one per store type, so cart and wishlist data never collide.
const (
	CartKey     = "shopping-cart"
	WishlistKey = "product-wishlist"
)

var ErrNotFound = errors.New("key not found")

// Store is the raw byte-level medium. Consumers define this interface, not
// the Redis or SQLite implementation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
}

// Load decodes the collection stored under key. A missing key or an
// undecodable payload both yield an empty collection: corrupted storage
// degrades to empty, never an error and never a partial decode. Unmarshal
// can populate leading elements before hitting a type mismatch mid-array,
// so the result is discarded wholesale on any decode error.
func Load[T any](ctx context.Context, s Store, key string) []T {
	payload, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("kvstore: load %q failed: %v", key, err)
		return nil
	}

	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		log.Printf("kvstore: corrupted payload under %q, starting empty: %v", key, err)
		return nil
	}
	return items
}

// Save serializes the full collection and overwrites whatever was stored
// under key.
func Save(ctx context.Context, s Store, key string, items any) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %q payload failed: %w", key, err)
	}

	if err := s.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("store %q payload failed: %w", key, err)
	}
	return nil
}
