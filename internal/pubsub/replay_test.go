package pubsub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplayBuffersLastN(t *testing.T) {
	r := NewReplay[string](3)

	r.Publish("A")
	r.Publish("B")
	r.Publish("C")
	r.Publish("D")

	var got []string
	cancel := r.Subscribe(func(s string) { got = append(got, s) })
	defer cancel()

	require.Equal(t, []string{"B", "C", "D"}, got)
}

func TestReplayShortHistory(t *testing.T) {
	r := NewReplay[int](3)
	r.Publish(1)

	var got []int
	cancel := r.Subscribe(func(n int) { got = append(got, n) })
	defer cancel()

	require.Equal(t, []int{1}, got)
}

func TestReplayLiveDelivery(t *testing.T) {
	r := NewReplay[int](3)

	var got []int
	cancel := r.Subscribe(func(n int) { got = append(got, n) })
	defer cancel()

	r.Publish(1)
	r.Publish(2)

	require.Equal(t, []int{1, 2}, got)
}

func TestReplayCancel(t *testing.T) {
	r := NewReplay[int](3)
	r.Publish(1)

	var got []int
	cancel := r.Subscribe(func(n int) { got = append(got, n) })
	cancel()
	r.Publish(2)

	require.Equal(t, []int{1}, got)
}
