package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/reactivedemo/shopping-cart/internal/config"
	"github.com/reactivedemo/shopping-cart/internal/entity"
	"github.com/reactivedemo/shopping-cart/internal/messaging"
	"github.com/reactivedemo/shopping-cart/internal/pubsub"
	"github.com/reactivedemo/shopping-cart/internal/storage"
)

var (
	// ErrEmptyCart is returned by Checkout when there is nothing to buy.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCheckoutUnavailable is returned by Checkout while the cart is not
	// eligible, e.g. an operation is still in flight.
	ErrCheckoutUnavailable = errors.New("checkout unavailable")
	// ErrCheckoutFailed covers an unexpected failure during checkout.
	ErrCheckoutFailed = errors.New("checkout failed")
)

// CartService owns the authoritative cart state and derives the cart
// summary by recombining it with the user session and the coupon registry.
// Mutations are serialized through the store mutex; observers only ever see
// whole snapshots.
type CartService struct {
	cfg           config.Config
	clk           clock.Clock
	users         *UserService
	coupons       *CouponService
	notifications *NotificationService
	store         storage.CartStore
	events        messaging.EventPublisher

	// mu serializes every read-modify-write of the cart snapshot,
	// including the deferred completion of AddItem. Two overlapping adds
	// of the same product therefore both land (see DESIGN.md).
	mu      sync.Mutex
	state   *pubsub.Value[entity.CartState]
	summary *pubsub.Value[entity.CartSummary]

	cancels    []pubsub.CancelFunc
	stopExpiry func()
}

// NewCartService wires the cart store to its collaborators and starts the
// background subscriptions: summary recombination, debounced persistence,
// and the expiry poll.
func NewCartService(
	cfg config.Config,
	clk clock.Clock,
	users *UserService,
	coupons *CouponService,
	notifications *NotificationService,
	store storage.CartStore,
	events messaging.EventPublisher,
) *CartService {
	s := &CartService{
		cfg:           cfg,
		clk:           clk,
		users:         users,
		coupons:       coupons,
		notifications: notifications,
		store:         store,
		events:        events,
	}
	s.state = pubsub.NewValue(entity.CartState{LastUpdated: clk.Now()})
	s.summary = pubsub.NewValue(s.buildSummary(s.state.Get()))

	// The summary recombines cart state with the current user: a change to
	// either recomputes it.
	s.cancels = append(s.cancels,
		s.state.Subscribe(func(st entity.CartState) {
			s.summary.Set(s.buildSummary(st))
		}),
		users.Users().Subscribe(func(*entity.User) {
			s.summary.Set(s.buildSummary(s.state.Get()))
		}),
		pubsub.SubscribeDebounced(s.state, clk, cfg.PersistDebounce, sameLines,
			func(st entity.CartState) {
				s.store.SaveCart(context.Background(), st)
			}),
	)

	s.stopExpiry = notifications.StartExpiryTimer(s.oldestLine)
	return s
}

// Close stops the expiry poll and detaches the background subscriptions.
func (s *CartService) Close() {
	s.stopExpiry()
	for _, cancel := range s.cancels {
		cancel()
	}
}

// States is the latest-value stream of the authoritative cart snapshot.
func (s *CartService) States() *pubsub.Value[entity.CartState] {
	return s.state
}

// Summaries is the latest-value stream of the derived cart summary.
func (s *CartService) Summaries() *pubsub.Value[entity.CartSummary] {
	return s.summary
}

// State returns the current cart snapshot.
func (s *CartService) State() entity.CartState {
	return s.state.Get()
}

// Summary returns the current derived summary.
func (s *CartService) Summary() entity.CartSummary {
	return s.summary.Get()
}

// AddItem puts quantity units of product in the cart, merging into an
// existing line by product id. The mutation completes after the simulated
// backend latency; the loading flag is set in the meantime.
func (s *CartService) AddItem(ctx context.Context, product entity.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.setLoading(true)

	pctx := context.WithoutCancel(ctx)
	s.clk.AfterFunc(s.cfg.AddItemLatency, func() {
		s.mu.Lock()
		lines := cloneLines(s.state.Get().Lines)
		idx := -1
		for i, l := range lines {
			if l.Product.ID == product.ID {
				idx = i
				break
			}
		}

		var event any
		if idx >= 0 {
			lines[idx].Quantity += quantity
			s.notifications.ShowSuccess(fmt.Sprintf("Updated %s quantity in cart", product.Name))
			event = entity.QuantityUpdated{ProductID: product.ID, Quantity: lines[idx].Quantity, At: s.clk.Now()}
		} else {
			lines = append(lines, entity.CartLine{Product: product, Quantity: quantity, AddedAt: s.clk.Now()})
			s.notifications.ShowSuccess(fmt.Sprintf("Added %s to cart", product.Name))
			event = entity.ItemAdded{ProductID: product.ID, Name: product.Name, Quantity: quantity, At: s.clk.Now()}
		}
		s.applyLines(lines)
		s.mu.Unlock()

		s.publish(pctx, event)
	})
}

// RemoveItem drops the line with the matching product id. No-op when the
// product is not in the cart.
func (s *CartService) RemoveItem(ctx context.Context, productID int) {
	s.mu.Lock()
	current := s.state.Get().Lines
	lines := make([]entity.CartLine, 0, len(current))
	for _, l := range current {
		if l.Product.ID != productID {
			lines = append(lines, l)
		}
	}
	s.applyLines(lines)
	s.mu.Unlock()

	s.notifications.ShowInfo("Item removed from cart")
	s.publish(ctx, entity.ItemRemoved{ProductID: productID, At: s.clk.Now()})
}

// UpdateQuantity replaces the matching line's quantity. A quantity of zero
// or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, productID, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}

	s.mu.Lock()
	lines := cloneLines(s.state.Get().Lines)
	for i := range lines {
		if lines[i].Product.ID == productID {
			lines[i].Quantity = quantity
		}
	}
	s.applyLines(lines)
	s.mu.Unlock()

	s.publish(ctx, entity.QuantityUpdated{ProductID: productID, Quantity: quantity, At: s.clk.Now()})
}

// ClearCart replaces the state with an empty cart and resets every
// advisory alert.
func (s *CartService) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.applyLines(nil)
	s.mu.Unlock()

	s.notifications.ShowInfo("Cart cleared")
	s.notifications.ClearAll()
	s.publish(ctx, entity.CartCleared{At: s.clk.Now()})
}

// ApplyCoupon validates code against the current pre-discount total and,
// on success, stores the coupon and recomputes the discounted price. The
// returned channel delivers the eventual validity exactly once.
func (s *CartService) ApplyCoupon(ctx context.Context, code string) <-chan bool {
	s.setLoading(true)
	total := s.state.Get().TotalPrice
	pctx := context.WithoutCancel(ctx)

	out := make(chan bool, 1)
	s.coupons.validate(code, total, func(res CouponValidationResult) {
		if res.Valid && res.Coupon != nil {
			s.mu.Lock()
			st := s.state.Get()
			st.AppliedCoupon = res.Coupon
			st.Loading = false
			st.LastUpdated = s.clk.Now()
			st.DiscountedPrice = s.discountedPrice(st)
			s.state.Set(st)
			s.mu.Unlock()

			s.notifications.ShowSuccess(res.Message)
			s.publish(pctx, entity.CouponApplied{
				Code:  res.Coupon.Code,
				Saved: total * res.Coupon.DiscountPercent / 100,
				At:    s.clk.Now(),
			})
		} else {
			s.setLoading(false)
			s.notifications.ShowError(res.Message)
		}
		out <- res.Valid
	})
	return out
}

// RemoveCoupon clears the applied coupon and recomputes the discounted
// price from the remaining inputs.
func (s *CartService) RemoveCoupon(ctx context.Context) {
	s.mu.Lock()
	st := s.state.Get()
	code := ""
	if st.AppliedCoupon != nil {
		code = st.AppliedCoupon.Code
	}
	st.AppliedCoupon = nil
	st.LastUpdated = s.clk.Now()
	st.DiscountedPrice = s.discountedPrice(st)
	s.state.Set(st)
	s.mu.Unlock()

	s.notifications.ShowInfo("Coupon removed")
	s.publish(ctx, entity.CouponRemoved{Code: code, At: s.clk.Now()})
}

// Checkout validates eligibility, computes the final total including tax
// and shipping, clears the cart, and reports the order. Unexpected panics
// are caught and surfaced as a generic error notification.
func (s *CartService) Checkout(ctx context.Context) (total float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Checkout failed unexpectedly", "panic", r)
			s.notifications.ShowError("An error occurred during checkout.")
			total, err = 0, ErrCheckoutFailed
		}
	}()

	sum := s.summary.Get()
	if len(sum.Lines) == 0 {
		s.notifications.ShowError("Your cart is empty!")
		return 0, ErrEmptyCart
	}
	if !sum.CanCheckout {
		s.notifications.ShowError("Unable to checkout at this time.")
		return 0, ErrCheckoutUnavailable
	}

	total = sum.DiscountedPrice + sum.EstimatedTax + sum.ShippingCost
	items := sum.TotalItems
	s.ClearCart(ctx)
	s.notifications.Show(
		fmt.Sprintf("Order placed successfully! Total: %.2f", total),
		entity.SeveritySuccess,
		5*time.Second,
	)
	s.publish(ctx, entity.CheckoutCompleted{Total: total, Items: items, At: s.clk.Now()})
	return total, nil
}

// Value returns the current discounted cart value.
func (s *CartService) Value() float64 {
	return s.state.Get().DiscountedPrice
}

// ItemCount returns the aggregate quantity across all lines.
func (s *CartService) ItemCount() int {
	return s.state.Get().TotalItems
}

// HasItem reports whether the product is in the cart.
func (s *CartService) HasItem(productID int) bool {
	for _, l := range s.state.Get().Lines {
		if l.Product.ID == productID {
			return true
		}
	}
	return false
}

// ItemQuantity returns the line quantity for the product, zero if absent.
func (s *CartService) ItemQuantity(productID int) int {
	for _, l := range s.state.Get().Lines {
		if l.Product.ID == productID {
			return l.Quantity
		}
	}
	return 0
}

// applyLines installs a new line set, recomputing the aggregates and the
// discounted price, then feeds the new total to the value alert. Callers
// hold s.mu.
func (s *CartService) applyLines(lines []entity.CartLine) {
	totalItems := 0
	totalPrice := 0.0
	for _, l := range lines {
		totalItems += l.Quantity
		totalPrice += l.Product.Price * float64(l.Quantity)
	}

	st := s.state.Get()
	st.Lines = lines
	st.TotalItems = totalItems
	st.TotalPrice = totalPrice
	st.Loading = false
	st.LastUpdated = s.clk.Now()
	st.DiscountedPrice = s.discountedPrice(st)
	s.state.Set(st)

	s.notifications.UpdateCartValueAlert(totalPrice)
}

// discountedPrice computes the price in the fixed order: per-line
// percentage discounts off the grand total, then the coupon percentage on
// the remainder, then the membership discount on the post-coupon amount,
// floored at zero.
func (s *CartService) discountedPrice(st entity.CartState) float64 {
	price := st.TotalPrice
	for _, l := range st.Lines {
		if l.Product.Discount > 0 {
			price -= l.Product.Price * float64(l.Quantity) * l.Product.Discount / 100
		}
	}
	if st.AppliedCoupon != nil {
		price *= 1 - st.AppliedCoupon.DiscountPercent/100
	}
	if user := s.users.Current(); user != nil {
		price -= s.users.MembershipDiscount(price, user.Tier)
	}
	return math.Max(0, price)
}

// buildSummary recombines a cart snapshot with the current user and the
// coupon registry. The membership discount shown in the summary is
// computed from the pre-discount total; shipping works off the
// pre-discount total as well.
func (s *CartService) buildSummary(st entity.CartState) entity.CartSummary {
	tier := entity.TierNone
	if user := s.users.Current(); user != nil {
		tier = user.Tier
	}
	return entity.CartSummary{
		CartState:          st,
		MembershipDiscount: s.users.MembershipDiscount(st.TotalPrice, tier),
		RecommendedCoupons: s.coupons.Recommend(st.TotalPrice),
		CanCheckout:        len(st.Lines) > 0 && !st.Loading,
		EstimatedTax:       st.DiscountedPrice * s.cfg.TaxRate,
		ShippingCost:       s.users.ShippingCost(st.TotalPrice, tier),
	}
}

func (s *CartService) setLoading(loading bool) {
	s.mu.Lock()
	st := s.state.Get()
	st.Loading = loading
	s.state.Set(st)
	s.mu.Unlock()
}

func (s *CartService) oldestLine() (time.Time, bool) {
	lines := s.state.Get().Lines
	if len(lines) == 0 {
		return time.Time{}, false
	}
	oldest := lines[0].AddedAt
	for _, l := range lines[1:] {
		if l.AddedAt.Before(oldest) {
			oldest = l.AddedAt
		}
	}
	return oldest, true
}

func (s *CartService) publish(ctx context.Context, event any) {
	if err := s.events.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish cart event", "err", err)
	}
}

func cloneLines(lines []entity.CartLine) []entity.CartLine {
	cloned := make([]entity.CartLine, len(lines))
	copy(cloned, lines)
	return cloned
}

// sameLines compares two snapshots by the content of their item lists
// only, so transient flag changes do not count as a new state to persist.
func sameLines(a, b entity.CartState) bool {
	aj, err := json.Marshal(a.Lines)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b.Lines)
	if err != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}
