package service

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/reactivedemo/shopping-cart/internal/config"
	"github.com/reactivedemo/shopping-cart/internal/entity"
)

func newNotificationService() (*NotificationService, *clock.Mock) {
	mock := clock.NewMock()
	return NewNotificationService(config.Default(), mock), mock
}

func TestShowPublishesAndAutoClears(t *testing.T) {
	s, mock := newNotificationService()

	s.ShowSuccess("Added Gaming Laptop to cart")
	msg := s.Notifications().Get()
	require.NotNil(t, msg)
	require.Equal(t, entity.SeveritySuccess, msg.Severity)
	require.Equal(t, "Added Gaming Laptop to cart", msg.Message)

	mock.Add(config.Default().NotificationDuration)
	require.Nil(t, s.Notifications().Get())
}

func TestShowHonorsCustomDuration(t *testing.T) {
	s, mock := newNotificationService()

	s.Show("Order placed successfully! Total: 1234.56", entity.SeveritySuccess, 5*time.Second)
	mock.Add(4 * time.Second)
	require.NotNil(t, s.Notifications().Get())
	mock.Add(time.Second)
	require.Nil(t, s.Notifications().Get())
}

func TestStaleClearDoesNotEraseNewerMessage(t *testing.T) {
	s, mock := newNotificationService()

	s.ShowInfo("first")
	mock.Add(time.Second)
	s.ShowError("second")

	// The first message's clear fires now; "second" must survive it.
	mock.Add(2 * time.Second)
	msg := s.Notifications().Get()
	require.NotNil(t, msg)
	require.Equal(t, "second", msg.Message)

	mock.Add(time.Second)
	require.Nil(t, s.Notifications().Get())
}

func TestCartValueAlertThresholds(t *testing.T) {
	s, _ := newNotificationService()

	tests := []struct {
		total float64
		want  string
	}{
		{0, ""},
		{49.99, ""},
		{50, "You qualify for a 10% discount coupon!"},
		{55, "You qualify for a 10% discount coupon!"},
		{100, "Add $100.00 more for premium shipping!"},
		{150, "Add $50.00 more for premium shipping!"},
		{200, "You qualify for premium free shipping!"},
		{500, "You qualify for premium free shipping!"},
	}
	for _, tt := range tests {
		s.UpdateCartValueAlert(tt.total)
		require.Equal(t, tt.want, s.CartValueAlert().Get(), "total %v", tt.total)
	}
}

func TestExpiryWarning(t *testing.T) {
	s, mock := newNotificationService()

	s.UpdateExpiryWarning(mock.Now().Add(-10*time.Minute), true)
	require.Empty(t, s.CartExpiryWarning().Get())

	s.UpdateExpiryWarning(mock.Now().Add(-31*time.Minute), true)
	require.Equal(t, "Your cart items will expire in 29 minutes", s.CartExpiryWarning().Get())

	s.UpdateExpiryWarning(mock.Now().Add(-61*time.Minute), true)
	require.Equal(t, "Your cart items have expired", s.CartExpiryWarning().Get())

	s.UpdateExpiryWarning(time.Time{}, false)
	require.Empty(t, s.CartExpiryWarning().Get())
}

func TestClearAllResetsEverything(t *testing.T) {
	s, _ := newNotificationService()

	s.ShowWarning("caution")
	s.UpdateCartValueAlert(120)
	s.UpdateExpiryWarning(s.clk.Now().Add(-40*time.Minute), true)

	s.ClearAll()

	require.Nil(t, s.Notifications().Get())
	require.Empty(t, s.CartValueAlert().Get())
	require.Empty(t, s.CartExpiryWarning().Get())
}

func TestStartExpiryTimerPolls(t *testing.T) {
	s, mock := newNotificationService()

	oldest := mock.Now()
	stop := s.StartExpiryTimer(func() (time.Time, bool) { return oldest, true })
	defer stop()

	// Freshly added: the immediate check finds nothing to warn about.
	require.Empty(t, s.CartExpiryWarning().Get())

	mock.Add(31 * time.Minute)
	require.Eventually(t, func() bool {
		return s.CartExpiryWarning().Get() == "Your cart items will expire in 29 minutes"
	}, time.Second, 5*time.Millisecond)
}
