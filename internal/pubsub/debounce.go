package pubsub

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// SubscribeDebounced subscribes fn to v, forwarding only the latest value
// after it has been quiet for the given window, and only when eq reports it
// differs from the last forwarded value. The first elapsed value is always
// forwarded.
func SubscribeDebounced[T any](v *Value[T], clk clock.Clock, quiet time.Duration, eq func(a, b T) bool, fn func(T)) CancelFunc {
	d := &debouncer[T]{clk: clk, quiet: quiet, eq: eq, fn: fn}
	cancel := v.Subscribe(d.receive)
	return func() {
		cancel()
		d.stop()
	}
}

type debouncer[T any] struct {
	clk   clock.Clock
	quiet time.Duration
	eq    func(a, b T) bool
	fn    func(T)

	mu        sync.Mutex
	timer     *clock.Timer
	pending   T
	last      T
	forwarded bool
}

func (d *debouncer[T]) receive(val T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = val
	if d.timer == nil {
		d.timer = d.clk.AfterFunc(d.quiet, d.flush)
		return
	}
	d.timer.Reset(d.quiet)
}

func (d *debouncer[T]) flush() {
	d.mu.Lock()
	val := d.pending
	skip := d.forwarded && d.eq(d.last, val)
	if !skip {
		d.last = val
		d.forwarded = true
	}
	d.mu.Unlock()

	if !skip {
		d.fn(val)
	}
}

func (d *debouncer[T]) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
