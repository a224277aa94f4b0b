package checkout

import "errors"

// Failure taxonomy for the order placement workflow. Handlers map
// these onto the {success:false, error} response envelope; anything
// not listed here is treated as a generic failure.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrNotFound               = errors.New("not found")
	ErrInvalidOrExpired       = errors.New("coupon is invalid or expired")
	ErrUsageLimitReached      = errors.New("coupon usage limit reached")
	ErrPerUserLimitReached    = errors.New("coupon already used the maximum number of times")
	ErrMinimumPurchaseNotMet  = errors.New("cart subtotal is below the coupon minimum purchase")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidTransition      = errors.New("invalid order status transition")
)
