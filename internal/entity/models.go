package entity

import (
	"time"
)

// Product represents a product offered by the catalog.
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	InStock  bool    `json:"in_stock"`
	// Discount is a per-unit percentage discount in [0,100]. Zero means none.
	Discount float64 `json:"discount,omitempty"`
}

// CartLine is a line item within the cart. It snapshots the Product value at
// add-time; later catalog changes do not affect lines already in the cart.
type CartLine struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// CartState is the single authoritative cart snapshot. It is replaced
// wholesale on every mutation; observers never see partial edits.
type CartState struct {
	Lines           []CartLine `json:"lines"`
	TotalItems      int        `json:"total_items"`
	TotalPrice      float64    `json:"total_price"`
	DiscountedPrice float64    `json:"discounted_price"`
	AppliedCoupon   *Coupon    `json:"applied_coupon,omitempty"`
	Loading         bool       `json:"loading"`
	LastUpdated     time.Time  `json:"last_updated"`
}

// CartSummary is the read-only projection of CartState combined with the
// current user and the coupon registry. Derived, never stored.
type CartSummary struct {
	CartState

	MembershipDiscount float64  `json:"membership_discount"`
	RecommendedCoupons []Coupon `json:"recommended_coupons"`
	CanCheckout        bool     `json:"can_checkout"`
	EstimatedTax       float64  `json:"estimated_tax"`
	ShippingCost       float64  `json:"shipping_cost"`
}

// Coupon is a discount code. Codes match case-insensitively.
type Coupon struct {
	Code            string    `json:"code"`
	DiscountPercent float64   `json:"discount_percent"`
	MinAmount       float64   `json:"min_amount"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// Tier is a membership level controlling discount and shipping formulas.
type Tier string

const (
	TierNone   Tier = ""
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// User is a logged-in customer. At most one user is current at a time.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Tier  Tier   `json:"membership_level"`
}

// Severity classifies a notification message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// NotificationMessage is an ephemeral user-facing message. It auto-clears
// after a caller-chosen duration.
type NotificationMessage struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}
