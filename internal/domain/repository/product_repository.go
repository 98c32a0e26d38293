package repository

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/errors"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the operations for vendor product persistence.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]*entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByVendor(ctx context.Context, vendorID string) ([]*entity.Product, error)
	GetByCategory(ctx context.Context, category string) ([]*entity.Product, error)

	// Add assigns a fresh "p"-prefixed id and persists the product.
	Add(ctx context.Context, product *entity.Product) (*entity.Product, error)

	Update(ctx context.Context, id string, patch ProductPatch) (*entity.Product, error)

	// Delete removes the product. References held by orders or subscriptions
	// are left untouched.
	Delete(ctx context.Context, id string) error
}
