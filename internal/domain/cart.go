package domain

import (
	"fmt"
	"time"
)

// CartLine is one entry in the cart: a product reference plus a quantity and
// the product data snapshotted at add-time. Snapshots are never re-synced
// with the catalog.
type CartLine struct {
	ID          string  `json:"id"`
	ProductID   int64   `json:"productId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image"`
	MaxQuantity int     `json:"maxQuantity,omitempty"`
}

// CartState is the full cart envelope. Transition methods are pure: they
// return a new state and never touch storage. Persistence is the shell's job.
type CartState struct {
	Items       []CartLine
	LastUpdated time.Time
}

// NewLineID builds a line id from the product id and the add-time instant.
func NewLineID(productID int64, now time.Time) string {
	return fmt.Sprintf("%d-%d", productID, now.UnixMilli())
}

// AddLine merges the candidate into an existing line with the same product id,
// or appends it with a fresh line id. One line per product id always holds.
func (s CartState) AddLine(candidate CartLine, now time.Time) CartState {
	items := cloneLines(s.Items)

	for i := range items {
		if items[i].ProductID == candidate.ProductID {
			items[i].Quantity += candidate.Quantity
			return CartState{Items: items, LastUpdated: now}
		}
	}

	candidate.ID = NewLineID(candidate.ProductID, now)
	items = append(items, candidate)
	return CartState{Items: items, LastUpdated: now}
}

// RemoveLine drops the line with the given id. Unknown ids are a no-op.
func (s CartState) RemoveLine(lineID string, now time.Time) CartState {
	items := make([]CartLine, 0, len(s.Items))
	for _, line := range s.Items {
		if line.ID != lineID {
			items = append(items, line)
		}
	}
	return CartState{Items: items, LastUpdated: now}
}

// SetQuantity sets the quantity on the matching line, then filters out any
// line whose quantity dropped to zero or below. A zero quantity removes the
// line rather than leaving it empty.
func (s CartState) SetQuantity(lineID string, quantity int, now time.Time) CartState {
	items := make([]CartLine, 0, len(s.Items))
	for _, line := range s.Items {
		if line.ID == lineID {
			line.Quantity = quantity
		}
		if line.Quantity > 0 {
			items = append(items, line)
		}
	}
	return CartState{Items: items, LastUpdated: now}
}

// Clear empties the cart.
func (s CartState) Clear(now time.Time) CartState {
	return CartState{Items: []CartLine{}, LastUpdated: now}
}

// SeedCart builds a state from persisted lines. Lines sharing a product id
// are merged (first line keeps its position and id, quantities sum), so a
// payload written before the one-line-per-product rule collapses cleanly.
func SeedCart(items []CartLine, now time.Time) CartState {
	merged := make([]CartLine, 0, len(items))
	index := make(map[int64]int, len(items))

	for _, line := range items {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	return CartState{Items: merged, LastUpdated: now}
}

// ItemCount is the total quantity across all lines.
func (s CartState) ItemCount() int {
	count := 0
	for _, line := range s.Items {
		count += line.Quantity
	}
	return count
}

// Subtotal is the sum of price * quantity over all lines.
func (s CartState) Subtotal() float64 {
	total := 0.0
	for _, line := range s.Items {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// ItemQuantity reports the quantity held for a product, zero when absent.
func (s CartState) ItemQuantity(productID int64) int {
	for _, line := range s.Items {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// Contains reports whether any line references the product.
func (s CartState) Contains(productID int64) bool {
	return s.ItemQuantity(productID) > 0
}

func cloneLines(items []CartLine) []CartLine {
	cloned := make([]CartLine, len(items))
	copy(cloned, items)
	return cloned
}
