package checkout

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
	ErrSessionNotFound   = errors.New("checkout session not found")
	ErrPaymentDeclined   = errors.New("payment declined")
)
