package impl

import (
	"context"
	"sync"
	"testing"

	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/repository"
	"milkrun/internal/infra/persistence/jsonstore"
	"milkrun/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionService_Subscribe_RecordsFirstPayment(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	sub, err := f.subscribeSvc.Subscribe(ctx, usecase.SubscribeInput{
		UserID:    jsonstore.SeedConsumerID,
		VendorID:  jsonstore.SeedVendorID,
		ProductID: "p1",
		Quantity:  2,
		Type:      entity.SubscriptionDaily,
	})
	require.NoError(t, err)
	assert.Equal(t, "s2", sub.ID)
	assert.Equal(t, entity.SubscriptionActive, sub.Status)
	assert.NotEmpty(t, sub.StartDate)

	txns, err := f.transactions.GetAll(ctx)
	require.NoError(t, err)
	last := txns[len(txns)-1]
	assert.Equal(t, sub.ID, last.ReferenceID)
	assert.Equal(t, entity.TransactionSubscription, last.Type)
	assert.InDelta(t, 150.0, last.Amount, 1e-9)
}

func TestSubscriptionService_Subscribe_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.SubscribeInput
		wantErr error
	}{
		{
			name:    "unknown cadence",
			input:   usecase.SubscribeInput{UserID: jsonstore.SeedConsumerID, VendorID: jsonstore.SeedVendorID, Type: "hourly"},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "missing vendor",
			input:   usecase.SubscribeInput{UserID: jsonstore.SeedConsumerID, Type: entity.SubscriptionWeekly},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name: "pending vendor",
			input: usecase.SubscribeInput{
				UserID: jsonstore.SeedConsumerID, VendorID: jsonstore.SeedPendingVendorID, Type: entity.SubscriptionWeekly,
			},
			wantErr: domainerrors.ErrVendorNotApproved,
		},
		{
			name: "unknown product",
			input: usecase.SubscribeInput{
				UserID: jsonstore.SeedConsumerID, VendorID: jsonstore.SeedVendorID, ProductID: "p404", Type: entity.SubscriptionWeekly,
			},
			wantErr: domainerrors.ErrInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixtures(t)

			sub, err := f.subscribeSvc.Subscribe(context.Background(), tt.input)
			assert.Nil(t, sub)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubscriptionService_SubscribeFromQR(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	sub, err := f.subscribeSvc.SubscribeFromQR(ctx, "vendor:"+jsonstore.SeedVendorID, usecase.SubscribeInput{
		UserID: jsonstore.SeedConsumerID,
		Type:   entity.SubscriptionMonthly,
		Amount: ptr(40.0),
	})
	require.NoError(t, err)
	assert.Equal(t, jsonstore.SeedVendorID, sub.VendorID)

	_, err = f.subscribeSvc.SubscribeFromQR(ctx, "garbage", usecase.SubscribeInput{
		UserID: jsonstore.SeedConsumerID, Type: entity.SubscriptionMonthly,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidQRCode)

	png, err := f.subscribeSvc.VendorQRCode(ctx, jsonstore.SeedVendorID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png:"+jsonstore.SeedVendorID), png)

	_, err = f.subscribeSvc.VendorQRCode(ctx, jsonstore.SeedConsumerID)
	assert.ErrorIs(t, err, domainerrors.ErrNotAVendor)
}

func TestSubscriptionService_StatusLifecycle(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	_, err := f.subscribeSvc.Pause(ctx, jsonstore.SeedVendorID, "s1")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = f.subscribeSvc.Resume(ctx, jsonstore.SeedConsumerID, "s1")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	paused, err := f.subscribeSvc.Pause(ctx, jsonstore.SeedConsumerID, "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionPaused, paused.Status)

	resumed, err := f.subscribeSvc.Resume(ctx, jsonstore.SeedAdminID, "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionActive, resumed.Status)

	cancelled, err := f.subscribeSvc.Cancel(ctx, jsonstore.SeedConsumerID, "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionCancelled, cancelled.Status)
	assert.NotEmpty(t, cancelled.EndDate)

	_, err = f.subscribeSvc.Resume(ctx, jsonstore.SeedConsumerID, "s1")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	_, err = f.subscribeSvc.Pause(ctx, jsonstore.SeedConsumerID, "s404")
	assert.ErrorIs(t, err, domainerrors.ErrSubscriptionNotFound)
}

func TestSubscriptionService_Vacation(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	_, err := f.subscribeSvc.SetVacation(ctx, jsonstore.SeedConsumerID, "s1", usecase.VacationInput{
		Start: "2026-05-10", End: "2026-05-01",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	sub, err := f.subscribeSvc.SetVacation(ctx, jsonstore.SeedConsumerID, "s1", usecase.VacationInput{
		Start: "2026-05-01", End: "2026-05-10",
	})
	require.NoError(t, err)
	assert.True(t, sub.OnVacation("2026-05-05"))
	assert.False(t, sub.OnVacation("2026-05-11"))

	cleared, err := f.subscribeSvc.ClearVacation(ctx, jsonstore.SeedConsumerID, "s1")
	require.NoError(t, err)
	assert.False(t, cleared.OnVacation("2026-05-05"))
}

func TestSubscriptionService_MarkDelivery(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	_, err := f.subscribeSvc.MarkDelivery(ctx, jsonstore.SeedConsumerID, "s1", "2026-05-01", entity.DeliveryDelivered)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = f.subscribeSvc.MarkDelivery(ctx, jsonstore.SeedVendorID, "s1", "05/01/2026", entity.DeliveryDelivered)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = f.subscribeSvc.MarkDelivery(ctx, jsonstore.SeedVendorID, "s1", "2026-05-01", "lost")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	first, err := f.subscribeSvc.MarkDelivery(ctx, jsonstore.SeedVendorID, "s1", "2026-05-01", entity.DeliveryScheduled)
	require.NoError(t, err)
	again, err := f.subscribeSvc.MarkDelivery(ctx, jsonstore.SeedAdminID, "s1", "2026-05-01", entity.DeliveryDelivered)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, entity.DeliveryDelivered, again.Status)

	list, err := f.subscribeSvc.Deliveries(ctx, jsonstore.SeedConsumerID, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, jsonstore.SeedConsumerID, list[0].UserID)

	_, err = f.subscribeSvc.Deliveries(ctx, jsonstore.SeedPendingVendorID, "s1")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestSubscriptionService_VendorSubscriptions(t *testing.T) {
	f := newFixtures(t)

	subs, err := f.subscribeSvc.VendorSubscriptions(context.Background(), jsonstore.SeedVendorID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "s1", subs[0].ID)

	subs, err = f.subscribeSvc.VendorSubscriptions(context.Background(), jsonstore.SeedPendingVendorID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

type rendezvousSubscriptions struct {
	repository.SubscriptionRepository
	readers *sync.WaitGroup
}

func (r rendezvousSubscriptions) GetByID(ctx context.Context, id string) (*entity.Subscription, error) {
	sub, err := r.SubscriptionRepository.GetByID(ctx, id)
	r.readers.Done()
	r.readers.Wait()

	return sub, err
}

func TestSubscriptionService_ConcurrentPauseAppliesOnce(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	readers := &sync.WaitGroup{}
	readers.Add(2)
	svc := NewSubscriptionService(SubscriptionServiceParams{
		Users:         f.users,
		Products:      f.products,
		Subscriptions: rendezvousSubscriptions{SubscriptionRepository: f.subscriptions, readers: readers},
		Transactions:  f.transactions,
		Deliveries:    f.deliveries,
		QRCode:        stubQRCode{},
		Logger:        newDiscardLogger(),
	})

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Pause(ctx, jsonstore.SeedConsumerID, "s1")
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	stored, err := f.subscriptions.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionPaused, stored.Status)
}
