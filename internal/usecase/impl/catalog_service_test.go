package impl

import (
	"context"
	"testing"

	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/repository"
	"milkrun/internal/infra/persistence/jsonstore"
	"milkrun/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_CreateProduct(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	input := usecase.ProductInput{Name: " Ghee ", Price: 12, Category: "ghee", Stock: 5, Unit: "jar"}

	product, err := f.catalog.CreateProduct(ctx, jsonstore.SeedVendorID, input)
	require.NoError(t, err)
	assert.Equal(t, "p4", product.ID)
	assert.Equal(t, "Ghee", product.Name)
	assert.Equal(t, jsonstore.SeedVendorID, product.VendorID)

	// Approval gates discovery, not product management.
	pending, err := f.catalog.CreateProduct(ctx, jsonstore.SeedPendingVendorID, input)
	require.NoError(t, err)
	assert.Equal(t, "p5", pending.ID)

	_, err = f.catalog.CreateProduct(ctx, jsonstore.SeedConsumerID, input)
	assert.ErrorIs(t, err, domainerrors.ErrNotAVendor)

	_, err = f.catalog.CreateProduct(ctx, jsonstore.SeedVendorID, usecase.ProductInput{Name: "x", Price: -1, Category: "c", Unit: "u"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	updated, err := f.catalog.UpdateProduct(ctx, jsonstore.SeedVendorID, "p1", repository.ProductPatch{Price: ptr(2.75)})
	require.NoError(t, err)
	assert.InDelta(t, 2.75, updated.Price, 1e-9)
	assert.Equal(t, "Cow Milk", updated.Name)

	_, err = f.catalog.UpdateProduct(ctx, jsonstore.SeedPendingVendorID, "p1", repository.ProductPatch{Price: ptr(1.0)})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = f.catalog.UpdateProduct(ctx, jsonstore.SeedAdminID, "p1", repository.ProductPatch{Stock: ptr(-3)})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = f.catalog.UpdateProduct(ctx, jsonstore.SeedAdminID, "p404", repository.ProductPatch{Stock: ptr(3)})
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestCatalogService_DeleteProduct_ReportsReferencingOrders(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	result, err := f.catalog.DeleteProduct(ctx, jsonstore.SeedVendorID, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", result.ProductID)
	assert.Equal(t, []string{"o1"}, result.ReferencingOrders)

	// The order keeps its dangling reference.
	order, err := f.orders.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Contains(t, order.Products, "p1")

	details, err := f.marketplace.OrdersForUser(ctx, jsonstore.SeedConsumerID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.True(t, details[0].Items[0].Missing)

	_, err = f.catalog.DeleteProduct(ctx, jsonstore.SeedVendorID, "p1")
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	noRefs, err := f.catalog.DeleteProduct(ctx, jsonstore.SeedAdminID, "p2")
	require.NoError(t, err)
	assert.Empty(t, noRefs.ReferencingOrders)
}

func TestCatalogService_VendorProducts(t *testing.T) {
	f := newFixtures(t)

	products, err := f.catalog.VendorProducts(context.Background(), jsonstore.SeedVendorID)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	_, err = f.catalog.VendorProducts(context.Background(), "404")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidReference)
}

func TestVendorApprovalService(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	_, err := f.approval.PendingVendors(ctx, jsonstore.SeedVendorID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = f.approval.PendingVendors(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)

	pending, err := f.approval.PendingVendors(ctx, jsonstore.SeedAdminID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, jsonstore.SeedPendingVendorID, pending[0].ID)

	approved, err := f.approval.Approve(ctx, jsonstore.SeedAdminID, jsonstore.SeedPendingVendorID)
	require.NoError(t, err)
	assert.Equal(t, "approved", string(approved.ApprovalStatus))

	vendors, err := f.marketplace.ApprovedVendors(ctx)
	require.NoError(t, err)
	assert.Len(t, vendors, 2)

	rejected, err := f.approval.Reject(ctx, jsonstore.SeedAdminID, jsonstore.SeedVendorID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", string(rejected.ApprovalStatus))

	_, err = f.approval.Approve(ctx, jsonstore.SeedAdminID, jsonstore.SeedConsumerID)
	assert.ErrorIs(t, err, domainerrors.ErrNotAVendor)

	pending, err = f.approval.PendingVendors(ctx, jsonstore.SeedAdminID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
