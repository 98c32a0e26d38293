package repository

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/errors"
)

// ErrDeliveryNotFound is returned when a delivery is not found.
var ErrDeliveryNotFound = errors.New("delivery not found")

// DeliveryRepository persists per-day subscription delivery records.
type DeliveryRepository interface {
	GetAll(ctx context.Context) ([]*entity.Delivery, error)
	GetBySubscription(ctx context.Context, subscriptionID string) ([]*entity.Delivery, error)
	GetByUser(ctx context.Context, userID string) ([]*entity.Delivery, error)
	GetByVendor(ctx context.Context, vendorID string) ([]*entity.Delivery, error)

	// Upsert sets the status of the subscription's delivery on date, creating
	// the record from the subscription the first time it is touched.
	Upsert(ctx context.Context, sub *entity.Subscription, date string, status entity.DeliveryStatus) (*entity.Delivery, error)
}
