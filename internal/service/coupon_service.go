package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/reactivedemo/shopping-cart/internal/config"
	"github.com/reactivedemo/shopping-cart/internal/entity"
	"github.com/reactivedemo/shopping-cart/internal/pubsub"
)

// CouponValidationResult is the single outcome of validating a code:
// not-found, expired, below-minimum, or valid with the matched coupon.
type CouponValidationResult struct {
	Valid   bool
	Message string
	Coupon  *entity.Coupon
}

// CouponService is the coupon registry: a mutable coupon list, asynchronous
// validation with simulated latency, and synchronous recommendations.
type CouponService struct {
	cfg     config.Config
	clk     clock.Clock
	coupons *pubsub.Value[[]entity.Coupon]
}

func NewCouponService(cfg config.Config, clk clock.Clock, seed []entity.Coupon) *CouponService {
	return &CouponService{
		cfg:     cfg,
		clk:     clk,
		coupons: pubsub.NewValue(seed),
	}
}

// Coupons is the latest-value stream of the registry contents.
func (s *CouponService) Coupons() *pubsub.Value[[]entity.Coupon] {
	return s.coupons
}

// All returns the current coupon list.
func (s *CouponService) All() []entity.Coupon {
	return s.coupons.Get()
}

// Add registers a coupon.
func (s *CouponService) Add(coupon entity.Coupon) {
	current := s.coupons.Get()
	next := make([]entity.Coupon, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, coupon)
	s.coupons.Set(next)
}

// Remove drops the coupon with the exact code.
func (s *CouponService) Remove(code string) {
	current := s.coupons.Get()
	next := make([]entity.Coupon, 0, len(current))
	for _, c := range current {
		if c.Code != code {
			next = append(next, c)
		}
	}
	s.coupons.Set(next)
}

// Validate checks code against cartTotal after the simulated validation
// latency and delivers exactly one result on the returned channel.
func (s *CouponService) Validate(code string, cartTotal float64) <-chan CouponValidationResult {
	ch := make(chan CouponValidationResult, 1)
	s.validate(code, cartTotal, func(res CouponValidationResult) { ch <- res })
	return ch
}

func (s *CouponService) validate(code string, cartTotal float64, deliver func(CouponValidationResult)) {
	s.clk.AfterFunc(s.cfg.CouponValidationLatency, func() {
		deliver(s.evaluate(code, cartTotal))
	})
}

func (s *CouponService) evaluate(code string, cartTotal float64) CouponValidationResult {
	var coupon *entity.Coupon
	for _, c := range s.coupons.Get() {
		if strings.EqualFold(c.Code, code) {
			coupon = &c
			break
		}
	}

	switch {
	case coupon == nil:
		return CouponValidationResult{Message: "Invalid coupon code"}
	case coupon.ExpiresAt.Before(s.clk.Now()):
		return CouponValidationResult{Message: "Coupon has expired"}
	case cartTotal < coupon.MinAmount:
		min := strconv.FormatFloat(coupon.MinAmount, 'f', -1, 64)
		return CouponValidationResult{Message: fmt.Sprintf("Minimum order amount of $%s required", min)}
	default:
		saved := cartTotal * coupon.DiscountPercent / 100
		return CouponValidationResult{
			Valid:   true,
			Message: fmt.Sprintf("Coupon applied successfully! You saved $%.2f", saved),
			Coupon:  coupon,
		}
	}
}

// Recommend returns the unexpired coupons whose minimum is within 20% of
// being met. Pure filter, no side effects.
func (s *CouponService) Recommend(total float64) []entity.Coupon {
	now := s.clk.Now()
	var recommended []entity.Coupon
	for _, c := range s.coupons.Get() {
		if total >= c.MinAmount*0.8 && c.ExpiresAt.After(now) {
			recommended = append(recommended, c)
		}
	}
	return recommended
}

// CouponDiscount returns the amount the coupon takes off total, zero when
// the minimum is not met.
func (s *CouponService) CouponDiscount(coupon entity.Coupon, total float64) float64 {
	if total < coupon.MinAmount {
		return 0
	}
	return total * coupon.DiscountPercent / 100
}

// IsExpired reports whether the coupon's expiry timestamp has passed.
func (s *CouponService) IsExpired(coupon entity.Coupon) bool {
	return coupon.ExpiresAt.Before(s.clk.Now())
}
