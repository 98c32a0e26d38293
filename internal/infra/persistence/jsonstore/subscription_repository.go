package jsonstore

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"
)

type subscriptionRepository struct {
	subs collection[*entity.Subscription]
}

// NewSubscriptionRepository returns the document-backed subscription repository.
func NewSubscriptionRepository(store *Store) repository.SubscriptionRepository {
	return &subscriptionRepository{
		subs: newCollection(store, Subscriptions, SubscriptionIDPrefix, func(s *entity.Subscription) string { return s.ID }),
	}
}

func (repo *subscriptionRepository) today() string {
	return repo.subs.now().Format(entity.DateLayout)
}

func (repo *subscriptionRepository) GetAll(ctx context.Context) ([]*entity.Subscription, error) {
	subs, err := repo.subs.all(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list subscriptions")
	}

	return subs, nil
}

func (repo *subscriptionRepository) GetByID(ctx context.Context, id string) (*entity.Subscription, error) {
	sub, ok, err := repo.subs.byID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find subscription")
	}
	if !ok {
		return nil, repository.ErrSubscriptionNotFound
	}

	return sub, nil
}

func (repo *subscriptionRepository) GetByUser(ctx context.Context, userID string) ([]*entity.Subscription, error) {
	subs, err := repo.subs.filter(ctx, func(s *entity.Subscription) bool { return s.UserID == userID })
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user subscriptions")
	}

	return subs, nil
}

func (repo *subscriptionRepository) GetByVendor(ctx context.Context, vendorID string) ([]*entity.Subscription, error) {
	subs, err := repo.subs.filter(ctx, func(s *entity.Subscription) bool { return s.VendorID == vendorID })
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vendor subscriptions")
	}

	return subs, nil
}

func (repo *subscriptionRepository) Add(ctx context.Context, subscription *entity.Subscription) (*entity.Subscription, error) {
	var created *entity.Subscription
	err := repo.subs.mutate(ctx, func(subs []*entity.Subscription) ([]*entity.Subscription, error) {
		record := *subscription
		record.ID = repo.subs.nextID(subs)
		if record.Status == "" {
			record.Status = entity.SubscriptionActive
		}
		if record.StartDate == "" {
			record.StartDate = repo.today()
		}
		now := repo.subs.now().UTC()
		record.CreatedAt = now
		record.UpdatedAt = now
		created = &record

		return append(subs, created), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add subscription")
	}

	return created, nil
}

func (repo *subscriptionRepository) update(ctx context.Context, id string, fn func(*entity.Subscription)) (*entity.Subscription, error) {
	return repo.checkedUpdate(ctx, id, nil, fn)
}

// checkedUpdate runs check against the locked record before fn mutates it.
// A rejection from check is returned unwrapped.
func (repo *subscriptionRepository) checkedUpdate(
	ctx context.Context,
	id string,
	check repository.SubscriptionStatusCheck,
	fn func(*entity.Subscription),
) (*entity.Subscription, error) {
	var rejected error
	sub, err := repo.subs.updateByID(ctx, id, repository.ErrSubscriptionNotFound, func(s *entity.Subscription) error {
		if check != nil {
			if err := check(s); err != nil {
				rejected = err

				return err
			}
		}
		fn(s)
		s.UpdatedAt = repo.subs.now().UTC()

		return nil
	})
	if err != nil {
		if rejected != nil || errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to update subscription")
	}

	return sub, nil
}

func (repo *subscriptionRepository) Update(ctx context.Context, id string, patch repository.SubscriptionPatch) (*entity.Subscription, error) {
	return repo.update(ctx, id, patch.Apply)
}

func (repo *subscriptionRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status entity.SubscriptionStatus,
	check repository.SubscriptionStatusCheck,
) (*entity.Subscription, error) {
	return repo.checkedUpdate(ctx, id, check, func(s *entity.Subscription) {
		s.Status = status
		if status == entity.SubscriptionCancelled && s.EndDate == "" {
			s.EndDate = repo.today()
		}
	})
}

func (repo *subscriptionRepository) SetVacation(ctx context.Context, id, start, end string) (*entity.Subscription, error) {
	return repo.update(ctx, id, func(s *entity.Subscription) {
		s.VacationMode = true
		s.VacationStart = start
		s.VacationEnd = end
	})
}

func (repo *subscriptionRepository) ClearVacation(ctx context.Context, id string) (*entity.Subscription, error) {
	return repo.update(ctx, id, func(s *entity.Subscription) {
		s.VacationMode = false
		s.VacationStart = ""
		s.VacationEnd = ""
	})
}
