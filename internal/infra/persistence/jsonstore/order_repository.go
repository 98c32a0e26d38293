package jsonstore

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"
)

type orderRepository struct {
	orders collection[*entity.Order]
}

// NewOrderRepository returns the document-backed order repository.
func NewOrderRepository(store *Store) repository.OrderRepository {
	return &orderRepository{
		orders: newCollection(store, Orders, OrderIDPrefix, func(o *entity.Order) string { return o.ID }),
	}
}

func (repo *orderRepository) GetAll(ctx context.Context) ([]*entity.Order, error) {
	orders, err := repo.orders.all(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

func (repo *orderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	order, ok, err := repo.orders.byID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}
	if !ok {
		return nil, repository.ErrOrderNotFound
	}

	return order, nil
}

func (repo *orderRepository) GetByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	orders, err := repo.orders.filter(ctx, func(o *entity.Order) bool { return o.UserID == userID })
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user orders")
	}

	return orders, nil
}

func (repo *orderRepository) GetByVendor(ctx context.Context, vendorID string) ([]*entity.Order, error) {
	orders, err := repo.orders.filter(ctx, func(o *entity.Order) bool { return o.VendorID == vendorID })
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vendor orders")
	}

	return orders, nil
}

func (repo *orderRepository) GetReferencingProduct(ctx context.Context, productID string) ([]*entity.Order, error) {
	orders, err := repo.orders.filter(ctx, func(o *entity.Order) bool { return o.References(productID) })
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by product")
	}

	return orders, nil
}

func (repo *orderRepository) Add(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	var created *entity.Order
	err := repo.orders.mutate(ctx, func(orders []*entity.Order) ([]*entity.Order, error) {
		record := *order
		record.ID = repo.orders.nextID(orders)
		if record.Status == "" {
			record.Status = entity.OrderPending
		}
		now := repo.orders.now().UTC()
		record.CreatedAt = now
		record.UpdatedAt = now
		created = &record

		return append(orders, created), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add order")
	}

	return created, nil
}

func (repo *orderRepository) Update(ctx context.Context, id string, patch repository.OrderPatch) (*entity.Order, error) {
	order, err := repo.orders.updateByID(ctx, id, repository.ErrOrderNotFound, func(o *entity.Order) error {
		patch.Apply(o)
		o.UpdatedAt = repo.orders.now().UTC()

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to update order")
	}

	return order, nil
}

func (repo *orderRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status entity.OrderStatus,
	check repository.OrderStatusCheck,
) (*entity.Order, error) {
	var rejected error
	order, err := repo.orders.updateByID(ctx, id, repository.ErrOrderNotFound, func(o *entity.Order) error {
		if check != nil {
			if err := check(o); err != nil {
				rejected = err

				return err
			}
		}
		o.Status = status
		o.UpdatedAt = repo.orders.now().UTC()

		return nil
	})
	if err != nil {
		if rejected != nil || errors.Is(err, repository.ErrOrderNotFound) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to update order status")
	}

	return order, nil
}
