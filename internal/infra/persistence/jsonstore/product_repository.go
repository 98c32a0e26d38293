package jsonstore

import (
	"context"
	"strings"

	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"
)

type productRepository struct {
	products collection[*entity.Product]
}

// NewProductRepository returns the document-backed product repository.
func NewProductRepository(store *Store) repository.ProductRepository {
	return &productRepository{
		products: newCollection(store, Products, ProductIDPrefix, func(p *entity.Product) string { return p.ID }),
	}
}

func (repo *productRepository) GetAll(ctx context.Context) ([]*entity.Product, error) {
	products, err := repo.products.all(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

func (repo *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, ok, err := repo.products.byID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find product")
	}
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return product, nil
}

func (repo *productRepository) GetByVendor(ctx context.Context, vendorID string) ([]*entity.Product, error) {
	products, err := repo.products.filter(ctx, func(p *entity.Product) bool { return p.VendorID == vendorID })
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vendor products")
	}

	return products, nil
}

// GetByCategory matches categories case-insensitively.
func (repo *productRepository) GetByCategory(ctx context.Context, category string) ([]*entity.Product, error) {
	products, err := repo.products.filter(ctx, func(p *entity.Product) bool {
		return strings.EqualFold(p.Category, category)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products by category")
	}

	return products, nil
}

func (repo *productRepository) Add(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	var created *entity.Product
	err := repo.products.mutate(ctx, func(products []*entity.Product) ([]*entity.Product, error) {
		record := *product
		record.ID = repo.products.nextID(products)
		now := repo.products.now().UTC()
		record.CreatedAt = now
		record.UpdatedAt = now
		created = &record

		return append(products, created), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add product")
	}

	return created, nil
}

func (repo *productRepository) Update(ctx context.Context, id string, patch repository.ProductPatch) (*entity.Product, error) {
	product, err := repo.products.updateByID(ctx, id, repository.ErrProductNotFound, func(p *entity.Product) error {
		patch.Apply(p)
		p.UpdatedAt = repo.products.now().UTC()

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

func (repo *productRepository) Delete(ctx context.Context, id string) error {
	err := repo.products.mutate(ctx, func(products []*entity.Product) ([]*entity.Product, error) {
		for i, p := range products {
			if p.ID == id {
				return append(products[:i], products[i+1:]...), nil
			}
		}

		return nil, repository.ErrProductNotFound
	})
	if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
		return errors.Wrap(err, "failed to delete product")
	}

	return err
}
