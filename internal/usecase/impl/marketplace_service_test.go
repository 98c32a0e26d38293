package impl

import (
	"context"
	"testing"

	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/infra/persistence/jsonstore"
	"milkrun/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketplaceService_ApprovedVendors(t *testing.T) {
	f := newFixtures(t)

	vendors, err := f.marketplace.ApprovedVendors(context.Background())
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, jsonstore.SeedVendorID, vendors[0].ID)
}

func TestMarketplaceService_ProductsForApprovedVendors(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	_, err := f.catalog.CreateProduct(ctx, jsonstore.SeedPendingVendorID, usecase.ProductInput{
		Name: "Goat Milk", Price: 4, Category: "milk", Unit: "litre",
	})
	require.NoError(t, err)

	all, err := f.marketplace.ProductsForApprovedVendors(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, p := range all {
		assert.Equal(t, "Fresh Dairy", p.VendorName)
	}

	milk, err := f.marketplace.ProductsForApprovedVendors(ctx, "MILK")
	require.NoError(t, err)
	assert.Len(t, milk, 2)
}

func TestMarketplaceService_VendorNameForProduct(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	name, err := f.marketplace.VendorNameForProduct(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Fresh Dairy", name)

	_, err = f.marketplace.VendorNameForProduct(ctx, "p404")
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	_, err = f.products.Add(ctx, &entity.Product{VendorID: "99", Name: "Orphan", Category: "milk", Unit: "l"})
	require.NoError(t, err)
	name, err = f.marketplace.VendorNameForProduct(ctx, "p4")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", name)
}

func TestMarketplaceService_SubscriptionsWithVendor(t *testing.T) {
	f := newFixtures(t)

	subs, err := f.marketplace.SubscriptionsWithVendor(context.Background(), jsonstore.SeedConsumerID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Fresh Dairy", subs[0].VendorName)
	assert.Equal(t, "Cow Milk", subs[0].ProductName)
	assert.NotEmpty(t, subs[0].VendorPhone)

	none, err := f.marketplace.SubscriptionsWithVendor(context.Background(), jsonstore.SeedAdminID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMarketplaceService_OrdersWithDetails(t *testing.T) {
	f := newFixtures(t)

	orders, err := f.marketplace.OrdersWithDetails(context.Background(), jsonstore.SeedVendorID)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, "Asha Consumer", o.CustomerName)
	assert.Equal(t, "Fresh Dairy", o.VendorName)
	require.Len(t, o.Items, 2)
	assert.Equal(t, usecase.OrderItem{ProductID: "p1", Name: "Cow Milk", Quantity: 2, Price: 2.5}, o.Items[0])
	assert.Equal(t, 1, o.Items[1].Quantity)
}

func TestMarketplaceService_IntegrityReport(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	clean, err := f.marketplace.IntegrityReport(ctx)
	require.NoError(t, err)
	assert.Empty(t, clean.Issues)

	_, err = f.orders.Add(ctx, &entity.Order{UserID: "77", VendorID: jsonstore.SeedVendorID, Products: []string{"p9"}})
	require.NoError(t, err)

	report, err := f.marketplace.IntegrityReport(ctx)
	require.NoError(t, err)

	kinds := make(map[string]int)
	for _, issue := range report.Issues {
		assert.Equal(t, "o2", issue.RecordID)
		kinds[issue.Kind]++
	}
	assert.Equal(t, map[string]int{
		usecase.IssueDanglingUser:       1,
		usecase.IssueDanglingProduct:    1,
		usecase.IssueMissingTransaction: 1,
	}, kinds)
}

func TestMarketplaceService_IntegrityReport_UnpaidSubscription(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	sub, err := f.subscriptions.Add(ctx, &entity.Subscription{
		UserID: jsonstore.SeedConsumerID, VendorID: jsonstore.SeedVendorID, ProductID: "p2",
		Quantity: 1, Type: entity.SubscriptionDaily,
	})
	require.NoError(t, err)

	report, err := f.marketplace.IntegrityReport(ctx)
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, usecase.IntegrityIssue{
		Kind: usecase.IssueMissingTransaction, Collection: "subscriptions", RecordID: sub.ID,
	}, report.Issues[0])

	// Subscribing through the usecase records the first payment.
	_, err = f.subscribeSvc.Subscribe(ctx, usecase.SubscribeInput{
		UserID: jsonstore.SeedConsumerID, VendorID: jsonstore.SeedVendorID, ProductID: "p3",
		Quantity: 1, Type: entity.SubscriptionWeekly, PreferredDay: "monday",
	})
	require.NoError(t, err)

	report, err = f.marketplace.IntegrityReport(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Issues, 1)
}
