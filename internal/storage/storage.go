// Package storage defines the persistence provider boundary. The core
// hands snapshots over and never awaits or checks a result; the shipped
// implementation is a log stub.
package storage

import (
	"context"
	"log/slog"

	"github.com/reactivedemo/shopping-cart/internal/entity"
)

// CartStore accepts cart snapshots for durable storage.
type CartStore interface {
	SaveCart(ctx context.Context, state entity.CartState)
}

// UserStore accepts user session changes for durable storage.
type UserStore interface {
	SaveUser(ctx context.Context, user *entity.User)
	ClearUser(ctx context.Context)
}

// LogStore is the stub persistence provider: every call is a log line.
type LogStore struct{}

// NewLogStore returns the stub store.
func NewLogStore() *LogStore {
	return &LogStore{}
}

func (s *LogStore) SaveCart(ctx context.Context, state entity.CartState) {
	slog.InfoContext(ctx, "Saved cart",
		"items", len(state.Lines),
		"total_items", state.TotalItems,
		"total_price", state.TotalPrice,
		"discounted_price", state.DiscountedPrice,
	)
}

func (s *LogStore) SaveUser(ctx context.Context, user *entity.User) {
	slog.InfoContext(ctx, "User saved", "user_id", user.ID, "tier", user.Tier)
}

func (s *LogStore) ClearUser(ctx context.Context) {
	slog.InfoContext(ctx, "User cleared from storage")
}
