package usecase

import (
	"context"
	"time"

	"milkrun/internal/domain/entity"
)

// ProductWithVendor is a product joined with its vendor's display name.
type ProductWithVendor struct {
	*entity.Product
	VendorName string `json:"vendor_name"`
}

// SubscriptionWithVendor is a subscription enriched with vendor display info.
type SubscriptionWithVendor struct {
	*entity.Subscription
	VendorName  string `json:"vendor_name"`
	VendorPhone string `json:"vendor_phone,omitempty"`
	ProductName string `json:"product_name,omitempty"`
}

// OrderItem is one resolved line of an order.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	// Missing is set when the product no longer exists.
	Missing bool `json:"missing,omitempty"`
}

// OrderDetails is an order with its products and parties resolved.
type OrderDetails struct {
	*entity.Order
	Items        []OrderItem `json:"items"`
	CustomerName string      `json:"customer_name"`
	VendorName   string      `json:"vendor_name"`
}

// Integrity issue kinds.
const (
	IssueDanglingUser       = "dangling_user"
	IssueDanglingVendor     = "dangling_vendor"
	IssueDanglingProduct    = "dangling_product"
	IssueMissingTransaction = "missing_transaction"
)

// IntegrityIssue is one broken cross-collection reference.
type IntegrityIssue struct {
	Kind       string `json:"kind"`
	Collection string `json:"collection"`
	RecordID   string `json:"record_id"`
	Field      string `json:"field,omitempty"`
	Ref        string `json:"ref,omitempty"`
}

// IntegrityReport lists every detected issue.
type IntegrityReport struct {
	CheckedAt time.Time        `json:"checked_at"`
	Issues    []IntegrityIssue `json:"issues"`
}

// MarketplaceUsecase stitches collections together for display. It never writes.
type MarketplaceUsecase interface {
	// ApprovedVendors returns the vendors consumers may see.
	ApprovedVendors(ctx context.Context) ([]*entity.PublicUser, error)

	// VendorNameForProduct returns the display name of the product's vendor.
	VendorNameForProduct(ctx context.Context, productID string) (string, error)

	// ProductsForApprovedVendors lists products of discoverable vendors,
	// optionally restricted to a category.
	ProductsForApprovedVendors(ctx context.Context, category string) ([]*ProductWithVendor, error)

	SubscriptionsWithVendor(ctx context.Context, userID string) ([]*SubscriptionWithVendor, error)

	// OrdersWithDetails returns the vendor's orders with products and customer resolved.
	OrdersWithDetails(ctx context.Context, vendorID string) ([]*OrderDetails, error)

	// OrdersForUser returns the consumer's orders with products and vendor resolved.
	OrdersForUser(ctx context.Context, userID string) ([]*OrderDetails, error)

	// IntegrityReport finds dangling references and orders without a transaction.
	IntegrityReport(ctx context.Context) (*IntegrityReport, error)
}
