package jsonstore

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"
)

type deliveryRepository struct {
	deliveries collection[*entity.Delivery]
}

// NewDeliveryRepository returns the document-backed delivery repository.
func NewDeliveryRepository(store *Store) repository.DeliveryRepository {
	return &deliveryRepository{
		deliveries: newCollection(store, Deliveries, DeliveryIDPrefix, func(d *entity.Delivery) string { return d.ID }),
	}
}

func (repo *deliveryRepository) GetAll(ctx context.Context) ([]*entity.Delivery, error) {
	deliveries, err := repo.deliveries.all(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list deliveries")
	}

	return deliveries, nil
}

func (repo *deliveryRepository) list(ctx context.Context, keep func(*entity.Delivery) bool) ([]*entity.Delivery, error) {
	deliveries, err := repo.deliveries.filter(ctx, keep)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list deliveries")
	}

	return deliveries, nil
}

func (repo *deliveryRepository) GetBySubscription(ctx context.Context, subscriptionID string) ([]*entity.Delivery, error) {
	return repo.list(ctx, func(d *entity.Delivery) bool { return d.SubscriptionID == subscriptionID })
}

func (repo *deliveryRepository) GetByUser(ctx context.Context, userID string) ([]*entity.Delivery, error) {
	return repo.list(ctx, func(d *entity.Delivery) bool { return d.UserID == userID })
}

func (repo *deliveryRepository) GetByVendor(ctx context.Context, vendorID string) ([]*entity.Delivery, error) {
	return repo.list(ctx, func(d *entity.Delivery) bool { return d.VendorID == vendorID })
}

// Upsert keeps at most one record per subscription and date.
func (repo *deliveryRepository) Upsert(
	ctx context.Context,
	sub *entity.Subscription,
	date string,
	status entity.DeliveryStatus,
) (*entity.Delivery, error) {
	var result *entity.Delivery
	err := repo.deliveries.mutate(ctx, func(deliveries []*entity.Delivery) ([]*entity.Delivery, error) {
		now := repo.deliveries.now().UTC()
		for _, d := range deliveries {
			if d.SubscriptionID == sub.ID && d.ScheduledDate == date {
				d.Status = status
				d.UpdatedAt = now
				result = d

				return deliveries, nil
			}
		}

		result = &entity.Delivery{
			ID:             repo.deliveries.nextID(deliveries),
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			VendorID:       sub.VendorID,
			ScheduledDate:  date,
			Status:         status,
			UpdatedAt:      now,
		}

		return append(deliveries, result), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to record delivery")
	}

	return result, nil
}
