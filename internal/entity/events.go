package entity

import (
	"time"
)

// Domain events published on every cart and session mutation. Consumers
// (audit log, persistence stub) subscribe through the event bus.

// ItemAdded is emitted when a product first lands in the cart.
type ItemAdded struct {
	ProductID int       `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	At        time.Time `json:"at"`
}

// QuantityUpdated is emitted when an existing line's quantity changes,
// including the increment path of a repeated add.
type QuantityUpdated struct {
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	At        time.Time `json:"at"`
}

// ItemRemoved is emitted when a line leaves the cart.
type ItemRemoved struct {
	ProductID int       `json:"product_id"`
	At        time.Time `json:"at"`
}

// CartCleared is emitted when the cart is reset to empty.
type CartCleared struct {
	At time.Time `json:"at"`
}

// CouponApplied is emitted after a coupon validates against the cart total.
type CouponApplied struct {
	Code  string    `json:"code"`
	Saved float64   `json:"saved"`
	At    time.Time `json:"at"`
}

// CouponRemoved is emitted when the applied coupon is taken off the cart.
type CouponRemoved struct {
	Code string    `json:"code"`
	At   time.Time `json:"at"`
}

// CheckoutCompleted is emitted when checkout succeeds and the cart is
// cleared. Total includes tax and shipping.
type CheckoutCompleted struct {
	Total float64   `json:"total"`
	Items int       `json:"items"`
	At    time.Time `json:"at"`
}

// UserLoggedIn is emitted when a user session starts or is replaced.
type UserLoggedIn struct {
	UserID int       `json:"user_id"`
	Tier   Tier      `json:"tier"`
	At     time.Time `json:"at"`
}

// UserLoggedOut is emitted when the session is cleared.
type UserLoggedOut struct {
	UserID int       `json:"user_id"`
	At     time.Time `json:"at"`
}
