package service

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/reactivedemo/shopping-cart/internal/catalog"
	"github.com/reactivedemo/shopping-cart/internal/config"
	"github.com/reactivedemo/shopping-cart/internal/entity"
)

func newCouponService() (*CouponService, *clock.Mock) {
	mock := clock.NewMock()
	return NewCouponService(config.Default(), mock, catalog.SeedCoupons(mock.Now())), mock
}

func validateNow(t *testing.T, s *CouponService, mock *clock.Mock, code string, total float64) CouponValidationResult {
	t.Helper()
	ch := s.Validate(code, total)
	mock.Add(config.Default().CouponValidationLatency)
	select {
	case res := <-ch:
		return res
	default:
		t.Fatal("validation did not complete after the simulated latency")
		return CouponValidationResult{}
	}
}

func TestValidateAtExactMinimumSucceeds(t *testing.T) {
	s, mock := newCouponService()

	res := validateNow(t, s, mock, "SAVE10", 50.00)
	require.True(t, res.Valid)
	require.NotNil(t, res.Coupon)
	require.Equal(t, "SAVE10", res.Coupon.Code)
	require.Equal(t, "Coupon applied successfully! You saved $5.00", res.Message)
}

func TestValidateBelowMinimumFails(t *testing.T) {
	s, mock := newCouponService()

	res := validateNow(t, s, mock, "SAVE10", 49.99)
	require.False(t, res.Valid)
	require.Equal(t, "Minimum order amount of $50 required", res.Message)
}

func TestValidateIsCaseInsensitive(t *testing.T) {
	s, mock := newCouponService()

	res := validateNow(t, s, mock, "save10", 80)
	require.True(t, res.Valid)
}

func TestValidateUnknownCode(t *testing.T) {
	s, mock := newCouponService()

	res := validateNow(t, s, mock, "NOPE", 500)
	require.False(t, res.Valid)
	require.Equal(t, "Invalid coupon code", res.Message)
}

func TestValidateExpiredCoupon(t *testing.T) {
	s, mock := newCouponService()
	s.Add(entity.Coupon{Code: "OLD", DiscountPercent: 50, MinAmount: 0, ExpiresAt: mock.Now().Add(-time.Hour)})

	res := validateNow(t, s, mock, "OLD", 500)
	require.False(t, res.Valid)
	require.Equal(t, "Coupon has expired", res.Message)
}

func TestValidateResultIsDeferred(t *testing.T) {
	s, mock := newCouponService()

	ch := s.Validate("SAVE10", 100)
	select {
	case <-ch:
		t.Fatal("result delivered before the simulated latency elapsed")
	default:
	}
	mock.Add(config.Default().CouponValidationLatency)
	require.True(t, (<-ch).Valid)
}

func TestRecommendWithin20PercentOfMinimum(t *testing.T) {
	s, _ := newCouponService()

	codes := func(coupons []entity.Coupon) []string {
		var out []string
		for _, c := range coupons {
			out = append(out, c.Code)
		}
		return out
	}

	// 40 is exactly 80% of SAVE10's minimum; the others are out of reach.
	require.Equal(t, []string{"SAVE10"}, codes(s.Recommend(40)))
	require.Empty(t, s.Recommend(39.99))
	require.Equal(t, []string{"SAVE10", "MEMBER20", "FREESHIP"}, codes(s.Recommend(150)))
}

func TestRecommendExcludesExpired(t *testing.T) {
	s, mock := newCouponService()
	s.Add(entity.Coupon{Code: "OLD", DiscountPercent: 5, MinAmount: 10, ExpiresAt: mock.Now().Add(-time.Minute)})

	for _, c := range s.Recommend(1000) {
		require.NotEqual(t, "OLD", c.Code)
	}
}

func TestAddAndRemove(t *testing.T) {
	s, mock := newCouponService()
	initial := len(s.All())

	s.Add(entity.Coupon{Code: "EXTRA5", DiscountPercent: 5, MinAmount: 20, ExpiresAt: mock.Now().Add(time.Hour)})
	require.Len(t, s.All(), initial+1)

	// Removal matches the exact code only.
	s.Remove("extra5")
	require.Len(t, s.All(), initial+1)
	s.Remove("EXTRA5")
	require.Len(t, s.All(), initial)
}

func TestCouponDiscount(t *testing.T) {
	s, mock := newCouponService()
	coupon := entity.Coupon{Code: "X", DiscountPercent: 10, MinAmount: 50, ExpiresAt: mock.Now().Add(time.Hour)}

	require.Zero(t, s.CouponDiscount(coupon, 49))
	require.InDelta(t, 10, s.CouponDiscount(coupon, 100), 1e-9)
}
