package pubsub

import (
	"sync"
)

// Single is a complete-once broadcaster. Nothing is delivered until
// Complete is called; then the final value goes to every waiting subscriber
// and to every subscriber that arrives afterwards. Complete is a no-op the
// second time.
type Single[T any] struct {
	mu       sync.Mutex
	dispatch sync.Mutex
	done     bool
	final    T
	subs     []subscriber[T]
	nextID   int
}

// NewSingle returns an uncompleted Single.
func NewSingle[T any]() *Single[T] {
	return &Single[T]{}
}

// Complete fixes the final value and delivers it to all current and future
// subscribers.
func (s *Single[T]) Complete(val T) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.final = val
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	s.dispatch.Lock()
	defer s.dispatch.Unlock()
	for _, sub := range subs {
		sub.fn(val)
	}
}

// Done reports whether the final value has been fixed.
func (s *Single[T]) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Subscribe registers fn. If the Single has completed, fn is called with
// the final value immediately; otherwise it waits for Complete.
func (s *Single[T]) Subscribe(fn func(T)) CancelFunc {
	s.mu.Lock()
	if s.done {
		final := s.final
		s.mu.Unlock()
		s.dispatch.Lock()
		fn(final)
		s.dispatch.Unlock()
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
