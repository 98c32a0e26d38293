package usecase

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/repository"
)

// ProductInput defines a new product listing.
type ProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Unit        string  `json:"unit" validate:"required"`
	Image       string  `json:"image"`
	ImageBase64 string  `json:"image_base64"`
}

// DeleteProductResult reports what still points at a deleted product.
type DeleteProductResult struct {
	ProductID         string   `json:"product_id"`
	ReferencingOrders []string `json:"referencing_orders"`
}

// CatalogUsecase manages vendor products. Vendors edit their own listings;
// admins may edit any.
type CatalogUsecase interface {
	CreateProduct(ctx context.Context, vendorID string, input ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, actorID, productID string, patch repository.ProductPatch) (*entity.Product, error)

	// DeleteProduct never cascades; orders still listing the product are reported.
	DeleteProduct(ctx context.Context, actorID, productID string) (*DeleteProductResult, error)

	VendorProducts(ctx context.Context, vendorID string) ([]*entity.Product, error)
}
