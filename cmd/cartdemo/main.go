package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/benbjohnson/clock"
	"github.com/joho/godotenv"

	"github.com/reactivedemo/shopping-cart/internal/catalog"
	"github.com/reactivedemo/shopping-cart/internal/config"
	"github.com/reactivedemo/shopping-cart/internal/entity"
	"github.com/reactivedemo/shopping-cart/internal/messaging"
	"github.com/reactivedemo/shopping-cart/internal/service"
	"github.com/reactivedemo/shopping-cart/internal/storage"
)

func main() {
	_ = godotenv.Load()
	slog.SetLogLoggerLevel(slog.LevelDebug)

	cfg := config.FromEnv()
	clk := clock.New()

	// --- Event bus ---
	bus, err := messaging.NewBus(watermill.NewSlogLogger(slog.Default()))
	if err != nil {
		slog.Error("Failed to create event bus", "err", err)
		os.Exit(1)
	}
	defer bus.Close()

	if err := bus.RegisterAuditHandlers(); err != nil {
		slog.Error("Failed to register audit handlers", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := bus.Run(ctx); err != nil {
			slog.Error("Event router stopped", "err", err)
			cancel()
		}
	}()
	<-bus.Running()

	// --- Services ---
	store := storage.NewLogStore()
	notifications := service.NewNotificationService(cfg, clk)
	coupons := service.NewCouponService(cfg, clk, catalog.SeedCoupons(clk.Now()))
	users := service.NewUserService(cfg, clk, store, bus.Events)
	cart := service.NewCartService(cfg, clk, users, coupons, notifications, store, bus.Events)
	defer cart.Close()

	// --- Observers (the UI stand-ins) ---
	cancelSummary := cart.Summaries().Subscribe(func(sum entity.CartSummary) {
		slog.Debug("Cart summary",
			"items", sum.TotalItems,
			"total", sum.TotalPrice,
			"discounted", sum.DiscountedPrice,
			"tax", sum.EstimatedTax,
			"shipping", sum.ShippingCost,
			"can_checkout", sum.CanCheckout,
		)
	})
	defer cancelSummary()

	cancelNotifications := notifications.Notifications().Subscribe(func(msg *entity.NotificationMessage) {
		if msg != nil {
			slog.Info("Notification", "severity", msg.Severity, "message", msg.Message)
		}
	})
	defer cancelNotifications()

	cancelAlerts := notifications.CartValueAlert().Subscribe(func(alert string) {
		if alert != "" {
			slog.Info("Cart value alert", "message", alert)
		}
	})
	defer cancelAlerts()

	// --- Scripted session ---
	products := catalog.SampleProducts()

	users.Login(ctx, entity.User{ID: 1, Name: "Ada", Email: "ada@example.com", Tier: entity.TierGold})

	cart.AddItem(ctx, products[0], 1) // Gaming Laptop
	cart.AddItem(ctx, products[1], 2) // Wireless Headphones (15% off)
	time.Sleep(cfg.AddItemLatency + 100*time.Millisecond)

	if ok := <-cart.ApplyCoupon(ctx, "SAVE10"); !ok {
		slog.Warn("Coupon was not applied")
	}

	total, err := cart.Checkout(ctx)
	if err != nil {
		slog.Error("Checkout failed", "err", err)
	} else {
		slog.Info("Order placed", "total", total)
	}

	// Let the debounced persistence and the audit handlers drain before
	// shutting down.
	select {
	case <-time.After(cfg.PersistDebounce + time.Second):
	case <-ctx.Done():
	}

	slog.Info("Shutting down...")
}
