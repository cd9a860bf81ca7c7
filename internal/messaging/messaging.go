// Package messaging carries the domain events the services publish on
// every mutation. The concrete bus is Watermill over the in-process
// gochannel transport.
package messaging

import (
	"context"
)

// EventPublisher publishes a domain event to whoever is listening. The
// services treat publication as fire-and-forget; a failed publish is
// logged, never propagated to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// NopPublisher drops every event. Used in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, any) error { return nil }
