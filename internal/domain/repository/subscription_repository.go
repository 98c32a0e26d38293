// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/errors"
)

// ErrSubscriptionNotFound is returned when a subscription is not found.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// SubscriptionStatusCheck vets a status change against the stored
// subscription while the collection is locked.
type SubscriptionStatusCheck func(current *entity.Subscription) error

// SubscriptionRepository defines the interface for subscription persistence.
type SubscriptionRepository interface {
	// GetAll returns every subscription.
	GetAll(ctx context.Context) ([]*entity.Subscription, error)

	// GetByID retrieves a subscription by its id.
	GetByID(ctx context.Context, id string) (*entity.Subscription, error)

	// GetByUser retrieves all subscriptions for a consumer.
	GetByUser(ctx context.Context, userID string) ([]*entity.Subscription, error)

	// GetByVendor retrieves all subscriptions held with a vendor.
	GetByVendor(ctx context.Context, vendorID string) ([]*entity.Subscription, error)

	// Add persists a new subscription. Status defaults to active and the start
	// date to today.
	Add(ctx context.Context, subscription *entity.Subscription) (*entity.Subscription, error)

	// Update merges the patch over the stored subscription.
	Update(ctx context.Context, id string, patch SubscriptionPatch) (*entity.Subscription, error)

	// UpdateStatus changes the status. Cancelling sets the end date to today
	// when none is recorded yet. A non-nil check that returns an error aborts
	// the write.
	UpdateStatus(ctx context.Context, id string, status entity.SubscriptionStatus, check SubscriptionStatusCheck) (*entity.Subscription, error)

	// SetVacation suspends deliveries between start and end (inclusive, DateLayout).
	SetVacation(ctx context.Context, id, start, end string) (*entity.Subscription, error)

	// ClearVacation turns vacation mode off.
	ClearVacation(ctx context.Context, id string) (*entity.Subscription, error)
}
