package usecase

import (
	"context"

	"milkrun/internal/domain/entity"
)

// SubscribeInput defines a new recurring delivery.
type SubscribeInput struct {
	UserID       string                  `json:"-" validate:"required"`
	VendorID     string                  `json:"vendor_id"`
	ProductID    string                  `json:"product_id"`
	Quantity     int                     `json:"quantity" validate:"omitempty,min=1"`
	Type         entity.SubscriptionType `json:"type" validate:"required,oneof=daily weekly monthly"`
	StartDate    string                  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	PreferredDay string                  `json:"preferred_day"`
	DeliveryTime string                  `json:"delivery_time"`
	// Amount overrides the first billing period's price when set.
	Amount *float64 `json:"amount" validate:"omitempty,gte=0"`
}

// VacationInput suspends deliveries between two dates, both inclusive.
type VacationInput struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

// SubscriptionUsecase defines the interface for subscription management use cases.
type SubscriptionUsecase interface {
	// Subscribe creates an active subscription with an approved vendor and
	// records its first payment.
	Subscribe(ctx context.Context, input SubscribeInput) (*entity.Subscription, error)

	// SubscribeFromQR subscribes to the vendor named by a scanned QR payload.
	SubscribeFromQR(ctx context.Context, qrData string, input SubscribeInput) (*entity.Subscription, error)

	// VendorQRCode renders the vendor's subscribe QR code as PNG.
	VendorQRCode(ctx context.Context, vendorID string) ([]byte, error)

	// Status changes are allowed to the subscriber and admins. Cancelled
	// subscriptions are end-dated and cannot be resumed.
	Pause(ctx context.Context, actorID, subscriptionID string) (*entity.Subscription, error)
	Resume(ctx context.Context, actorID, subscriptionID string) (*entity.Subscription, error)
	Cancel(ctx context.Context, actorID, subscriptionID string) (*entity.Subscription, error)

	SetVacation(ctx context.Context, actorID, subscriptionID string, input VacationInput) (*entity.Subscription, error)
	ClearVacation(ctx context.Context, actorID, subscriptionID string) (*entity.Subscription, error)

	// MarkDelivery records the outcome of one day, by the vendor or an admin.
	MarkDelivery(ctx context.Context, actorID, subscriptionID, date string, status entity.DeliveryStatus) (*entity.Delivery, error)

	// Deliveries lists recorded days of a subscription visible to the actor.
	Deliveries(ctx context.Context, actorID, subscriptionID string) ([]*entity.Delivery, error)

	// VendorSubscriptions lists subscriptions held with the vendor.
	VendorSubscriptions(ctx context.Context, vendorID string) ([]*entity.Subscription, error)
}
