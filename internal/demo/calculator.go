// Package demo holds the three standalone broadcast-pattern widgets: a
// complete-once calculation, a bounded event history, and a todo list with
// latest-value semantics.
package demo

import (
	"sync"

	"github.com/reactivedemo/shopping-cart/internal/pubsub"
)

// Calculator broadcasts the final result of a calculation exactly once.
// Subscribers see nothing until Run finalizes; from then on every
// subscriber, early or late, receives the same single value.
type Calculator struct {
	mu     sync.Mutex
	result *pubsub.Single[int]
}

func NewCalculator() *Calculator {
	return &Calculator{result: pubsub.NewSingle[int]()}
}

// Run sums the inputs and finalizes the result.
func (c *Calculator) Run(inputs []int) {
	total := 0
	for _, n := range inputs {
		total += n
	}

	c.mu.Lock()
	result := c.result
	c.mu.Unlock()
	result.Complete(total)
}

// Subscribe registers fn with the current run's broadcaster.
func (c *Calculator) Subscribe(fn func(int)) pubsub.CancelFunc {
	c.mu.Lock()
	result := c.result
	c.mu.Unlock()
	return result.Subscribe(fn)
}

// Done reports whether the current run has finalized.
func (c *Calculator) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result.Done()
}

// Reset re-arms the calculator for another run. Existing subscribers stay
// attached to the finished broadcaster.
func (c *Calculator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = pubsub.NewSingle[int]()
}
