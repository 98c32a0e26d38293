package repository

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/errors"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderStatusCheck vets a status change against the stored order. It runs
// while the collection is locked, so current is the state the change applies to.
type OrderStatusCheck func(current *entity.Order) error

// OrderRepository defines the operations for order persistence.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]*entity.Order, error)
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByUser(ctx context.Context, userID string) ([]*entity.Order, error)
	GetByVendor(ctx context.Context, vendorID string) ([]*entity.Order, error)

	// GetReferencingProduct returns orders that list the product.
	GetReferencingProduct(ctx context.Context, productID string) ([]*entity.Order, error)

	// Add assigns a fresh "o"-prefixed id. Status defaults to pending unless set
	// by the caller; CreatedAt and UpdatedAt are stamped.
	Add(ctx context.Context, order *entity.Order) (*entity.Order, error)

	Update(ctx context.Context, id string, patch OrderPatch) (*entity.Order, error)

	// UpdateStatus sets the status and refreshes UpdatedAt. A non-nil check
	// that returns an error aborts the write and the error is returned as is.
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, check OrderStatusCheck) (*entity.Order, error)
}
