package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/reactivedemo/shopping-cart/internal/entity"
)

const eventsTopic = "cart.events"

// Bus bundles the Watermill pieces: the gochannel transport, the router,
// the event bus the services publish through, and the processor the audit
// handlers hang off.
type Bus struct {
	Events *cqrs.EventBus

	pubSub    *gochannel.GoChannel
	router    *message.Router
	processor *cqrs.EventProcessor
}

// NewBus wires a gochannel Pub/Sub, a router, and a cqrs event bus and
// processor around a single events topic.
func NewBus(logger watermill.LoggerAdapter) (*Bus, error) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)

	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	marshaler := cqrs.JSONMarshaler{
		NewUUID: uuid.NewString,
	}

	eventBus, err := cqrs.NewEventBusWithConfig(pubSub, cqrs.EventBusConfig{
		GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
			return eventsTopic, nil
		},
		Marshaler: marshaler,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	processor, err := cqrs.NewEventProcessorWithConfig(router, cqrs.EventProcessorConfig{
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return eventsTopic, nil
		},
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return pubSub, nil
		},
		Marshaler: marshaler,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event processor: %w", err)
	}

	return &Bus{
		Events:    eventBus,
		pubSub:    pubSub,
		router:    router,
		processor: processor,
	}, nil
}

// RegisterAuditHandlers attaches handlers that log every domain event.
// This is where a real deployment would plug in projections or a broker
// bridge.
func (b *Bus) RegisterAuditHandlers() error {
	return b.processor.AddHandlers(
		cqrs.NewEventHandler("LogItemAdded", func(ctx context.Context, event *entity.ItemAdded) error {
			slog.Info("Item added to cart", "product_id", event.ProductID, "name", event.Name, "quantity", event.Quantity)
			return nil
		}),
		cqrs.NewEventHandler("LogQuantityUpdated", func(ctx context.Context, event *entity.QuantityUpdated) error {
			slog.Info("Cart quantity updated", "product_id", event.ProductID, "quantity", event.Quantity)
			return nil
		}),
		cqrs.NewEventHandler("LogItemRemoved", func(ctx context.Context, event *entity.ItemRemoved) error {
			slog.Info("Item removed from cart", "product_id", event.ProductID)
			return nil
		}),
		cqrs.NewEventHandler("LogCartCleared", func(ctx context.Context, event *entity.CartCleared) error {
			slog.Info("Cart cleared")
			return nil
		}),
		cqrs.NewEventHandler("LogCouponApplied", func(ctx context.Context, event *entity.CouponApplied) error {
			slog.Info("Coupon applied", "code", event.Code, "saved", event.Saved)
			return nil
		}),
		cqrs.NewEventHandler("LogCouponRemoved", func(ctx context.Context, event *entity.CouponRemoved) error {
			slog.Info("Coupon removed", "code", event.Code)
			return nil
		}),
		cqrs.NewEventHandler("LogCheckoutCompleted", func(ctx context.Context, event *entity.CheckoutCompleted) error {
			slog.Info("Checkout completed", "total", event.Total, "items", event.Items)
			return nil
		}),
		cqrs.NewEventHandler("LogUserLoggedIn", func(ctx context.Context, event *entity.UserLoggedIn) error {
			slog.Info("User logged in", "user_id", event.UserID, "tier", event.Tier)
			return nil
		}),
		cqrs.NewEventHandler("LogUserLoggedOut", func(ctx context.Context, event *entity.UserLoggedOut) error {
			slog.Info("User logged out", "user_id", event.UserID)
			return nil
		}),
	)
}

// Run starts the router and blocks until ctx is cancelled.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Running returns a channel that closes once the router is up.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

// Close shuts the transport down.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
