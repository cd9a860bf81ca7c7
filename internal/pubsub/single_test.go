package pubsub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSingleDeliversNothingBeforeComplete(t *testing.T) {
	s := NewSingle[int]()

	var got []int
	cancel := s.Subscribe(func(n int) { got = append(got, n) })
	defer cancel()

	require.Empty(t, got)
	require.False(t, s.Done())
}

func TestSingleDeliversFinalToEarlyAndLateSubscribers(t *testing.T) {
	s := NewSingle[int]()

	var early, late []int
	defer s.Subscribe(func(n int) { early = append(early, n) })()

	s.Complete(15)
	defer s.Subscribe(func(n int) { late = append(late, n) })()

	require.Equal(t, []int{15}, early)
	require.Equal(t, []int{15}, late)
	require.True(t, s.Done())
}

func TestSingleSecondCompleteIgnored(t *testing.T) {
	s := NewSingle[int]()

	var got []int
	defer s.Subscribe(func(n int) { got = append(got, n) })()

	s.Complete(1)
	s.Complete(2)

	require.Equal(t, []int{1}, got)

	var late []int
	defer s.Subscribe(func(n int) { late = append(late, n) })()
	require.Equal(t, []int{1}, late)
}

func TestSingleCancelBeforeComplete(t *testing.T) {
	s := NewSingle[int]()

	var got []int
	cancel := s.Subscribe(func(n int) { got = append(got, n) })
	cancel()
	s.Complete(1)

	require.Empty(t, got)
}
