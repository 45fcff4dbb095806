package domain

import "time"

type CheckoutStatus string

const (
	CheckoutStatusInitiated        CheckoutStatus = "INITIATED"
	CheckoutStatusPaymentPending   CheckoutStatus = "PAYMENT_PENDING"
	CheckoutStatusPaymentCompleted CheckoutStatus = "PAYMENT_COMPLETED"
	CheckoutStatusCompleted        CheckoutStatus = "COMPLETED"
	CheckoutStatusFailed           CheckoutStatus = "FAILED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCompleted || s == CheckoutStatusFailed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

// legal status transitions
var checkoutTransitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusInitiated:        {CheckoutStatusPaymentPending, CheckoutStatusFailed},
	CheckoutStatusPaymentPending:   {CheckoutStatusPaymentCompleted, CheckoutStatusFailed},
	CheckoutStatusPaymentCompleted: {CheckoutStatusCompleted},
}

// CanTransitionTo reports whether moving from s to next is a legal step.
func (s CheckoutStatus) CanTransitionTo(next CheckoutStatus) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type CartSnapshotItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// CartSnapshot represents the full cart state at checkout time
type CartSnapshot struct {
	Items       []CartSnapshotItem `json:"items"`
	TotalAmount float64            `json:"total_amount"`
	Currency    string             `json:"currency"`
	CapturedAt  time.Time          `json:"captured_at"`
}

// SnapshotCart freezes the cart for checkout.
func SnapshotCart(cart CartState, currency string, now time.Time) CartSnapshot {
	items := make([]CartSnapshotItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, CartSnapshotItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.Price,
			Subtotal:    line.Price * float64(line.Quantity),
		})
	}
	return CartSnapshot{
		Items:       items,
		TotalAmount: cart.Subtotal(),
		Currency:    currency,
		CapturedAt:  now,
	}
}

// CheckoutSession tracks one checkout attempt over its status lifecycle.
type CheckoutSession struct {
	ID             string
	IdempotencyKey string
	Status         CheckoutStatus
	Snapshot       CartSnapshot
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
