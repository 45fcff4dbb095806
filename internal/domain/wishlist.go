package domain

import "time"

// WishlistItem is a saved product reference with its add-time snapshot.
// Product ids are unique within a wishlist.
type WishlistItem struct {
	ID        string    `json:"id"`
	ProductID int64     `json:"productId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	AddedAt   time.Time `json:"addedAt"`
}

// WishlistState is the wishlist envelope, same shape as CartState.
type WishlistState struct {
	Items       []WishlistItem
	LastUpdated time.Time
}

// AddItem appends the candidate with a fresh id and AddedAt stamp. When the
// product is already saved the call is a silent no-op; the existing entry is
// not updated.
func (s WishlistState) AddItem(candidate WishlistItem, now time.Time) WishlistState {
	if s.Contains(candidate.ProductID) {
		return WishlistState{Items: cloneWishlistItems(s.Items), LastUpdated: now}
	}

	candidate.ID = NewLineID(candidate.ProductID, now)
	candidate.AddedAt = now

	items := cloneWishlistItems(s.Items)
	items = append(items, candidate)
	return WishlistState{Items: items, LastUpdated: now}
}

// RemoveItem drops the entry for the product. Unknown products are a no-op.
func (s WishlistState) RemoveItem(productID int64, now time.Time) WishlistState {
	items := make([]WishlistItem, 0, len(s.Items))
	for _, item := range s.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	return WishlistState{Items: items, LastUpdated: now}
}

// ToggleItem removes the product when present, otherwise adds it.
func (s WishlistState) ToggleItem(candidate WishlistItem, now time.Time) WishlistState {
	if s.Contains(candidate.ProductID) {
		return s.RemoveItem(candidate.ProductID, now)
	}
	return s.AddItem(candidate, now)
}

// Clear empties the wishlist.
func (s WishlistState) Clear(now time.Time) WishlistState {
	return WishlistState{Items: []WishlistItem{}, LastUpdated: now}
}

// SeedWishlist builds a state from persisted items, dropping any duplicate
// product ids after the first.
func SeedWishlist(items []WishlistItem, now time.Time) WishlistState {
	seen := make(map[int64]struct{}, len(items))
	deduped := make([]WishlistItem, 0, len(items))

	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		deduped = append(deduped, item)
	}

	return WishlistState{Items: deduped, LastUpdated: now}
}

// ItemCount is the number of saved products.
func (s WishlistState) ItemCount() int {
	return len(s.Items)
}

// Contains is an exact membership test; product ids are unique here.
func (s WishlistState) Contains(productID int64) bool {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func cloneWishlistItems(items []WishlistItem) []WishlistItem {
	cloned := make([]WishlistItem, len(items))
	copy(cloned, items)
	return cloned
}
