package service

import (
	"context"
	"log/slog"

	"github.com/benbjohnson/clock"

	"github.com/reactivedemo/shopping-cart/internal/config"
	"github.com/reactivedemo/shopping-cart/internal/entity"
	"github.com/reactivedemo/shopping-cart/internal/messaging"
	"github.com/reactivedemo/shopping-cart/internal/pubsub"
	"github.com/reactivedemo/shopping-cart/internal/storage"
)

// UserService owns the current user session. At most one user is logged in;
// logging in replaces, logging out clears. It also owns the membership
// discount and shipping formulas, which work off the tier alone so callers
// decide which amount they apply to.
type UserService struct {
	cfg    config.Config
	clk    clock.Clock
	store  storage.UserStore
	events messaging.EventPublisher
	users  *pubsub.Value[*entity.User]
}

func NewUserService(cfg config.Config, clk clock.Clock, store storage.UserStore, events messaging.EventPublisher) *UserService {
	return &UserService{
		cfg:    cfg,
		clk:    clk,
		store:  store,
		events: events,
		users:  pubsub.NewValue[*entity.User](nil),
	}
}

// Users is the latest-value stream of the current user. Nil means anonymous.
func (s *UserService) Users() *pubsub.Value[*entity.User] {
	return s.users
}

// Login replaces the current session and persists it.
func (s *UserService) Login(ctx context.Context, user entity.User) {
	s.users.Set(&user)
	s.store.SaveUser(ctx, &user)
	s.publish(ctx, entity.UserLoggedIn{UserID: user.ID, Tier: user.Tier, At: s.clk.Now()})
}

// Logout clears the session and persists the change.
func (s *UserService) Logout(ctx context.Context) {
	user := s.users.Get()
	if user == nil {
		return
	}
	s.users.Set(nil)
	s.store.ClearUser(ctx)
	s.publish(ctx, entity.UserLoggedOut{UserID: user.ID, At: s.clk.Now()})
}

// Current returns the logged-in user, or nil when anonymous.
func (s *UserService) Current() *entity.User {
	return s.users.Get()
}

func (s *UserService) IsLoggedIn() bool {
	return s.users.Get() != nil
}

// Tier returns the current user's membership tier, TierNone when anonymous.
func (s *UserService) Tier() entity.Tier {
	if u := s.users.Get(); u != nil {
		return u.Tier
	}
	return entity.TierNone
}

// MembershipDiscount is a flat percentage of amount: bronze 5%, silver 10%,
// gold 15%, anonymous 0%.
func (s *UserService) MembershipDiscount(amount float64, tier entity.Tier) float64 {
	switch tier {
	case entity.TierBronze:
		return amount * 0.05
	case entity.TierSilver:
		return amount * 0.10
	case entity.TierGold:
		return amount * 0.15
	default:
		return 0
	}
}

// ShippingCost is tiered by the pre-discount total and the membership
// level. Gold or the premium threshold wins over silver or the mid
// threshold, which wins over bronze, which wins over the default rate.
func (s *UserService) ShippingCost(total float64, tier entity.Tier) float64 {
	if total >= s.cfg.PremiumShippingThreshold || tier == entity.TierGold {
		return 0
	}
	if total >= s.cfg.MidShippingThreshold || tier == entity.TierSilver {
		return 5.99
	}
	if tier == entity.TierBronze {
		return 7.99
	}
	return 9.99
}

func (s *UserService) publish(ctx context.Context, event any) {
	if err := s.events.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish user event", "err", err)
	}
}
