package pubsub

import (
	"sync"
)

// Replay is a broadcaster with a bounded history. New subscribers receive
// up to the last N published values in publish order before any live ones.
type Replay[T any] struct {
	mu       sync.Mutex
	dispatch sync.Mutex
	size     int
	buffer   []T
	subs     []subscriber[T]
	nextID   int
}

// NewReplay returns a Replay retaining the last size values.
func NewReplay[T any](size int) *Replay[T] {
	if size < 1 {
		size = 1
	}
	return &Replay[T]{size: size}
}

// Publish appends val to the history and delivers it to every subscriber.
func (r *Replay[T]) Publish(val T) {
	r.mu.Lock()
	r.buffer = append(r.buffer, val)
	if len(r.buffer) > r.size {
		r.buffer = r.buffer[len(r.buffer)-r.size:]
	}
	subs := make([]subscriber[T], len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	r.dispatch.Lock()
	defer r.dispatch.Unlock()
	for _, s := range subs {
		s.fn(val)
	}
}

// Subscribe registers fn and immediately replays the buffered history,
// oldest first.
func (r *Replay[T]) Subscribe(fn func(T)) CancelFunc {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs = append(r.subs, subscriber[T]{id: id, fn: fn})
	history := make([]T, len(r.buffer))
	copy(history, r.buffer)
	r.mu.Unlock()

	r.dispatch.Lock()
	for _, val := range history {
		fn(val)
	}
	r.dispatch.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}
