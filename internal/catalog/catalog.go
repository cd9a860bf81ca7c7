// Package catalog stands in for the external catalog provider. The core
// only consumes Product values from it at add-time.
package catalog

import (
	"time"

	"github.com/reactivedemo/shopping-cart/internal/entity"
)

// SampleProducts returns the fixed product list the demo UI offers.
func SampleProducts() []entity.Product {
	return []entity.Product{
		{ID: 1, Name: "Gaming Laptop", Price: 999.99, Category: "Electronics", InStock: true},
		{ID: 2, Name: "Wireless Headphones", Price: 199.99, Category: "Electronics", InStock: true, Discount: 15},
		{ID: 3, Name: "Programming Book", Price: 29.99, Category: "Books", InStock: true},
		{ID: 4, Name: "Smart Coffee Maker", Price: 89.99, Category: "Appliances", InStock: true, Discount: 10},
		{ID: 5, Name: "Mechanical Keyboard", Price: 149.99, Category: "Electronics", InStock: false},
		{ID: 6, Name: "Desk Chair", Price: 299.99, Category: "Furniture", InStock: true, Discount: 20},
		{ID: 7, Name: "4K Monitor", Price: 349.99, Category: "Electronics", InStock: true},
		{ID: 8, Name: "Gaming Mouse Pad", Price: 24.99, Category: "Accessories", InStock: true},
		{ID: 9, Name: "Noise Cancelling Earbuds", Price: 129.99, Category: "Electronics", InStock: true, Discount: 5},
		{ID: 10, Name: "Portable SSD 1TB", Price: 159.99, Category: "Storage", InStock: true},
		{ID: 11, Name: "Ergonomic Desk Lamp", Price: 39.99, Category: "Home Office", InStock: true},
		{ID: 12, Name: "Webcam HD 1080p", Price: 69.99, Category: "Accessories", InStock: false},
	}
}

// SeedCoupons returns the coupon definitions the registry starts with,
// with expiry timestamps relative to now.
func SeedCoupons(now time.Time) []entity.Coupon {
	return []entity.Coupon{
		{Code: "SAVE10", DiscountPercent: 10, MinAmount: 50, ExpiresAt: now.Add(7 * 24 * time.Hour)},
		{Code: "MEMBER20", DiscountPercent: 20, MinAmount: 100, ExpiresAt: now.Add(30 * 24 * time.Hour)},
		{Code: "FREESHIP", DiscountPercent: 0, MinAmount: 75, ExpiresAt: now.Add(14 * 24 * time.Hour)},
	}
}
