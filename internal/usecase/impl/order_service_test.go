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

func placeSampleOrder(t *testing.T, f *fixtures) *entity.Order {
	t.Helper()

	order, err := f.orderSvc.PlaceOrder(context.Background(), usecase.PlaceOrderInput{
		UserID:        jsonstore.SeedConsumerID,
		VendorID:      jsonstore.SeedVendorID,
		Products:      []string{"p1", "p3"},
		Quantities:    []int{2},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	return order
}

func TestOrderService_PlaceOrder_ComputesTotalAndRecordsTransaction(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	order := placeSampleOrder(t, f)
	assert.Equal(t, "o2", order.ID)
	assert.Equal(t, entity.OrderPending, order.Status)
	assert.InDelta(t, 6.75, order.Total, 1e-9)

	txns, err := f.transactions.GetByUser(ctx, jsonstore.SeedConsumerID)
	require.NoError(t, err)
	last := txns[len(txns)-1]
	assert.Equal(t, "t3", last.ID)
	assert.Equal(t, order.ID, last.OrderID)
	assert.Equal(t, entity.TransactionOrder, last.Type)
	assert.InDelta(t, order.Total, last.Amount, 1e-9)
}

func TestOrderService_PlaceOrder_ExplicitTotal(t *testing.T) {
	f := newFixtures(t)

	order, err := f.orderSvc.PlaceOrder(context.Background(), usecase.PlaceOrderInput{
		UserID:   jsonstore.SeedConsumerID,
		VendorID: jsonstore.SeedVendorID,
		Products: []string{"p2"},
		Total:    ptr(2.0),
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, order.Total, 1e-9)
}

func TestOrderService_PlaceOrder_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.PlaceOrderInput
		wantErr error
	}{
		{
			name:    "empty cart",
			input:   usecase.PlaceOrderInput{UserID: jsonstore.SeedConsumerID, VendorID: jsonstore.SeedVendorID},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name: "more quantities than products",
			input: usecase.PlaceOrderInput{
				UserID: jsonstore.SeedConsumerID, VendorID: jsonstore.SeedVendorID,
				Products: []string{"p1"}, Quantities: []int{1, 2},
			},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name: "anonymous",
			input: usecase.PlaceOrderInput{
				UserID: "404", VendorID: jsonstore.SeedVendorID, Products: []string{"p1"},
			},
			wantErr: domainerrors.ErrNotAuthenticated,
		},
		{
			name: "unknown vendor",
			input: usecase.PlaceOrderInput{
				UserID: jsonstore.SeedConsumerID, VendorID: "404", Products: []string{"p1"},
			},
			wantErr: domainerrors.ErrInvalidReference,
		},
		{
			name: "vendor pending approval",
			input: usecase.PlaceOrderInput{
				UserID: jsonstore.SeedConsumerID, VendorID: jsonstore.SeedPendingVendorID, Products: []string{"p1"},
			},
			wantErr: domainerrors.ErrVendorNotApproved,
		},
		{
			name: "vendor is a consumer",
			input: usecase.PlaceOrderInput{
				UserID: jsonstore.SeedConsumerID, VendorID: jsonstore.SeedConsumerID, Products: []string{"p1"},
			},
			wantErr: domainerrors.ErrNotAVendor,
		},
		{
			name: "unknown product",
			input: usecase.PlaceOrderInput{
				UserID: jsonstore.SeedConsumerID, VendorID: jsonstore.SeedVendorID, Products: []string{"p99"},
			},
			wantErr: domainerrors.ErrInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixtures(t)
			ctx := context.Background()

			order, err := f.orderSvc.PlaceOrder(ctx, tt.input)
			assert.Nil(t, order)
			assert.ErrorIs(t, err, tt.wantErr)

			orders, err := f.orders.GetAll(ctx)
			require.NoError(t, err)
			assert.Len(t, orders, 1)
		})
	}
}

func TestOrderService_Lifecycle(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	order := placeSampleOrder(t, f)

	// Customers cannot drive fulfilment.
	_, err := f.orderSvc.UpdateStatus(ctx, jsonstore.SeedConsumerID, order.ID, entity.OrderProcessing)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	for _, next := range []entity.OrderStatus{entity.OrderProcessing, entity.OrderOutForDelivery, entity.OrderDelivered} {
		updated, err := f.orderSvc.UpdateStatus(ctx, jsonstore.SeedVendorID, order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// Same status is a no-op, anything else is refused.
	same, err := f.orderSvc.UpdateStatus(ctx, jsonstore.SeedAdminID, order.ID, entity.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, same.Status)

	_, err = f.orderSvc.UpdateStatus(ctx, jsonstore.SeedAdminID, order.ID, entity.OrderPending)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	_, err = f.orderSvc.CancelOrder(ctx, jsonstore.SeedConsumerID, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)
}

func TestOrderService_UpdateStatus_Validation(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	_, err := f.orderSvc.UpdateStatus(ctx, jsonstore.SeedVendorID, "o1", "shipped")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = f.orderSvc.UpdateStatus(ctx, jsonstore.SeedVendorID, "o404", entity.OrderProcessing)
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)

	_, err = f.orderSvc.UpdateStatus(ctx, jsonstore.SeedPendingVendorID, "o1", entity.OrderCancelled)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestOrderService_CancelOrder(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	order := placeSampleOrder(t, f)

	_, err := f.orderSvc.CancelOrder(ctx, jsonstore.SeedVendorID, order.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	cancelled, err := f.orderSvc.CancelOrder(ctx, jsonstore.SeedConsumerID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.Status)

	stored, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, stored.Status)
}

// rendezvousOrders holds every GetByID caller until all of them have read, so
// each caller acts on the same snapshot.
type rendezvousOrders struct {
	repository.OrderRepository
	readers *sync.WaitGroup
}

func (r rendezvousOrders) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	order, err := r.OrderRepository.GetByID(ctx, id)
	r.readers.Done()
	r.readers.Wait()

	return order, err
}

func TestOrderService_ConcurrentDeliverAndCancel(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	order := placeSampleOrder(t, f)

	readers := &sync.WaitGroup{}
	readers.Add(2)
	svc := NewOrderService(OrderServiceParams{
		Users:        f.users,
		Products:     f.products,
		Orders:       rendezvousOrders{OrderRepository: f.orders, readers: readers},
		Transactions: f.transactions,
		Logger:       newDiscardLogger(),
	})

	var (
		wg                     sync.WaitGroup
		deliverErr, cancelErr  error
		delivered, cancelledTo *entity.Order
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		delivered, deliverErr = svc.UpdateStatus(ctx, jsonstore.SeedVendorID, order.ID, entity.OrderDelivered)
	}()
	go func() {
		defer wg.Done()
		cancelledTo, cancelErr = svc.CancelOrder(ctx, jsonstore.SeedConsumerID, order.ID)
	}()
	wg.Wait()

	stored, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)

	switch {
	case deliverErr == nil:
		require.ErrorIs(t, cancelErr, domainerrors.ErrInvalidStatusTransition)
		assert.Equal(t, entity.OrderDelivered, delivered.Status)
		assert.Equal(t, entity.OrderDelivered, stored.Status)
	case cancelErr == nil:
		require.ErrorIs(t, deliverErr, domainerrors.ErrInvalidStatusTransition)
		assert.Equal(t, entity.OrderCancelled, cancelledTo.Status)
		assert.Equal(t, entity.OrderCancelled, stored.Status)
	default:
		t.Fatalf("both status changes failed: %v, %v", deliverErr, cancelErr)
	}
}
