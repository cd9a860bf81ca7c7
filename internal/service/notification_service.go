package service

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/reactivedemo/shopping-cart/internal/config"
	"github.com/reactivedemo/shopping-cart/internal/entity"
	"github.com/reactivedemo/shopping-cart/internal/pubsub"
)

// NotificationService holds the ephemeral user-facing message plus the two
// derived advisory signals: the cart-value alert and the expiry warning.
type NotificationService struct {
	cfg config.Config
	clk clock.Clock

	mu        sync.Mutex
	currentID string

	notification  *pubsub.Value[*entity.NotificationMessage]
	valueAlert    *pubsub.Value[string]
	expiryWarning *pubsub.Value[string]
}

func NewNotificationService(cfg config.Config, clk clock.Clock) *NotificationService {
	return &NotificationService{
		cfg:           cfg,
		clk:           clk,
		notification:  pubsub.NewValue[*entity.NotificationMessage](nil),
		valueAlert:    pubsub.NewValue(""),
		expiryWarning: pubsub.NewValue(""),
	}
}

// Notifications is the latest-value stream of the current message. Nil
// means nothing is showing.
func (s *NotificationService) Notifications() *pubsub.Value[*entity.NotificationMessage] {
	return s.notification
}

// CartValueAlert is the latest-value stream of the cart-value advisory.
func (s *NotificationService) CartValueAlert() *pubsub.Value[string] {
	return s.valueAlert
}

// CartExpiryWarning is the latest-value stream of the expiry advisory.
func (s *NotificationService) CartExpiryWarning() *pubsub.Value[string] {
	return s.expiryWarning
}

// Show publishes a message immediately and schedules its clear after
// duration (the default when duration is zero or negative). The clear is
// tied to this message's identity, so a newer message is never erased by a
// stale clear firing late.
func (s *NotificationService) Show(message string, severity entity.Severity, duration time.Duration) {
	if duration <= 0 {
		duration = s.cfg.NotificationDuration
	}
	msg := &entity.NotificationMessage{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		Timestamp: s.clk.Now(),
	}

	s.mu.Lock()
	s.currentID = msg.ID
	s.mu.Unlock()
	s.notification.Set(msg)

	s.clk.AfterFunc(duration, func() {
		s.mu.Lock()
		stale := s.currentID != msg.ID
		if !stale {
			s.currentID = ""
		}
		s.mu.Unlock()
		if !stale {
			s.notification.Set(nil)
		}
	})
}

func (s *NotificationService) ShowSuccess(message string) {
	s.Show(message, entity.SeveritySuccess, 0)
}

func (s *NotificationService) ShowError(message string) {
	s.Show(message, entity.SeverityError, 0)
}

func (s *NotificationService) ShowWarning(message string) {
	s.Show(message, entity.SeverityWarning, 0)
}

func (s *NotificationService) ShowInfo(message string) {
	s.Show(message, entity.SeverityInfo, 0)
}

// UpdateCartValueAlert recomputes the advisory for the given pre-discount
// total. Below the lowest threshold the alert is empty.
func (s *NotificationService) UpdateCartValueAlert(total float64) {
	var message string
	switch {
	case total >= s.cfg.PremiumShippingThreshold:
		message = "You qualify for premium free shipping!"
	case total >= s.cfg.MidShippingThreshold:
		message = fmt.Sprintf("Add $%.2f more for premium shipping!", s.cfg.PremiumShippingThreshold-total)
	case total >= s.cfg.DiscountEligibleThreshold:
		message = "You qualify for a 10% discount coupon!"
	}
	s.valueAlert.Set(message)
}

// UpdateExpiryWarning recomputes the expiry advisory from the oldest line's
// add timestamp. ok=false means the cart is empty and clears the warning.
func (s *NotificationService) UpdateExpiryWarning(oldest time.Time, ok bool) {
	if !ok {
		s.expiryWarning.Set("")
		return
	}

	elapsed := s.clk.Now().Sub(oldest)
	var message string
	if elapsed > s.cfg.ExpiryWarningAfter {
		left := int(math.Round((s.cfg.ExpiryCutoff - elapsed).Minutes()))
		if left > 0 {
			message = fmt.Sprintf("Your cart items will expire in %d minutes", left)
		} else {
			message = "Your cart items have expired"
		}
	}
	s.expiryWarning.Set(message)
}

// ClearAll resets the value alert, the expiry warning, and the current
// notification.
func (s *NotificationService) ClearAll() {
	s.mu.Lock()
	s.currentID = ""
	s.mu.Unlock()
	s.valueAlert.Set("")
	s.expiryWarning.Set("")
	s.notification.Set(nil)
}

// StartExpiryTimer checks the oldest cart line immediately and then once
// per poll interval, updating the expiry warning each time. The returned
// function stops the timer.
func (s *NotificationService) StartExpiryTimer(oldestLine func() (time.Time, bool)) (stop func()) {
	s.UpdateExpiryWarning(oldestLine())

	ticker := s.clk.Ticker(s.cfg.ExpiryPollInterval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.UpdateExpiryWarning(oldestLine())
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
