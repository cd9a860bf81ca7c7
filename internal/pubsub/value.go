// Package pubsub provides the in-process broadcast primitives the services
// are built on: a latest-value broadcaster, a bounded replay broadcaster,
// a complete-once broadcaster, and a debounced/distinct subscription helper.
//
// Delivery is serialized per broadcaster: subscribers see values in publish
// order and never concurrently. Subscriber callbacks must not publish back
// into the broadcaster that is delivering to them.
package pubsub

import (
	"sync"
)

// CancelFunc detaches a subscriber from its broadcaster.
type CancelFunc func()

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Value is a broadcast point that always holds a current value. New
// subscribers receive the current value immediately, then every later one.
type Value[T any] struct {
	mu       sync.Mutex
	dispatch sync.Mutex
	current  T
	subs     []subscriber[T]
	nextID   int
}

// NewValue returns a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the current value and delivers it to every subscriber in
// registration order.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.current = val
	subs := make([]subscriber[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	v.dispatch.Lock()
	defer v.dispatch.Unlock()
	for _, s := range subs {
		s.fn(val)
	}
}

// Subscribe registers fn and immediately delivers the current value.
func (v *Value[T]) Subscribe(fn func(T)) CancelFunc {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})
	cur := v.current
	v.mu.Unlock()

	v.dispatch.Lock()
	fn(cur)
	v.dispatch.Unlock()

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		for i, s := range v.subs {
			if s.id == id {
				v.subs = append(v.subs[:i], v.subs[i+1:]...)
				return
			}
		}
	}
}
