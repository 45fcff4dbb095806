package domain

import "time"

// Product is a catalog entry. Cart and wishlist lines copy Name, Price and
// ImageURL from here at add-time and never look back.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Category    string
	Size        string
	Era         string
	CreatedAt   time.Time
}
