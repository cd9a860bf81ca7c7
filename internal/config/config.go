// Package config exposes the timing and pricing constants as named,
// environment-overridable parameters.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every tunable the services recognize. Defaults mirror the
// fixed values the UI demos ship with.
type Config struct {
	// AddItemLatency is the simulated backend round trip on add-to-cart.
	AddItemLatency time.Duration
	// CouponValidationLatency is the simulated delay of coupon validation.
	CouponValidationLatency time.Duration
	// PersistDebounce is how long the item list must be stable before the
	// cart is handed to the persistence provider.
	PersistDebounce time.Duration
	// NotificationDuration is the default auto-clear delay for messages.
	NotificationDuration time.Duration
	// ExpiryPollInterval is how often the oldest cart line is checked.
	ExpiryPollInterval time.Duration
	// ExpiryWarningAfter is the age at which the expiry warning appears.
	ExpiryWarningAfter time.Duration
	// ExpiryCutoff is the age at which cart items count as expired.
	ExpiryCutoff time.Duration

	// ReplayBufferSize bounds the history demo's replay buffer.
	ReplayBufferSize int

	// TaxRate is applied to the discounted price.
	TaxRate float64
	// PremiumShippingThreshold is the cart total granting free shipping.
	PremiumShippingThreshold float64
	// MidShippingThreshold is the cart total granting reduced shipping.
	MidShippingThreshold float64
	// DiscountEligibleThreshold is the cart total at which the discount
	// coupon alert appears.
	DiscountEligibleThreshold float64
}

// Default returns the built-in constants.
func Default() Config {
	return Config{
		AddItemLatency:            500 * time.Millisecond,
		CouponValidationLatency:   800 * time.Millisecond,
		PersistDebounce:           2 * time.Second,
		NotificationDuration:      3 * time.Second,
		ExpiryPollInterval:        time.Minute,
		ExpiryWarningAfter:        30 * time.Minute,
		ExpiryCutoff:              60 * time.Minute,
		ReplayBufferSize:          3,
		TaxRate:                   0.08,
		PremiumShippingThreshold:  200,
		MidShippingThreshold:      100,
		DiscountEligibleThreshold: 50,
	}
}

// FromEnv returns Default overridden by any CART_* environment variables.
func FromEnv() Config {
	cfg := Default()
	cfg.AddItemLatency = envDuration("CART_ADD_ITEM_LATENCY", cfg.AddItemLatency)
	cfg.CouponValidationLatency = envDuration("CART_COUPON_VALIDATION_LATENCY", cfg.CouponValidationLatency)
	cfg.PersistDebounce = envDuration("CART_PERSIST_DEBOUNCE", cfg.PersistDebounce)
	cfg.NotificationDuration = envDuration("CART_NOTIFICATION_DURATION", cfg.NotificationDuration)
	cfg.ExpiryPollInterval = envDuration("CART_EXPIRY_POLL_INTERVAL", cfg.ExpiryPollInterval)
	cfg.ExpiryWarningAfter = envDuration("CART_EXPIRY_WARNING_AFTER", cfg.ExpiryWarningAfter)
	cfg.ExpiryCutoff = envDuration("CART_EXPIRY_CUTOFF", cfg.ExpiryCutoff)
	cfg.ReplayBufferSize = envInt("CART_REPLAY_BUFFER_SIZE", cfg.ReplayBufferSize)
	return cfg
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
