package demo

import (
	"github.com/reactivedemo/shopping-cart/internal/pubsub"
)

// EventLog broadcasts event descriptions with a bounded replay: late
// subscribers receive only the most recent entries, oldest first.
type EventLog struct {
	history *pubsub.Replay[string]
}

// NewEventLog retains the last size events for late subscribers.
func NewEventLog(size int) *EventLog {
	return &EventLog{history: pubsub.NewReplay[string](size)}
}

// Record publishes an event description.
func (l *EventLog) Record(event string) {
	l.history.Publish(event)
}

// Watch registers fn, replaying the retained history first.
func (l *EventLog) Watch(fn func(string)) pubsub.CancelFunc {
	return l.history.Subscribe(fn)
}

// View collects the retained history most-recent-first, the order the
// widget displays it in.
type View struct {
	events []string
	cancel pubsub.CancelFunc
}

// WatchView attaches a display view to the log.
func (l *EventLog) WatchView() *View {
	v := &View{}
	v.cancel = l.Watch(func(event string) {
		v.events = append([]string{event}, v.events...)
	})
	return v
}

// Events returns the view contents, most recent first.
func (v *View) Events() []string {
	return v.events
}

// Close detaches the view from the log.
func (v *View) Close() {
	v.cancel()
}
