package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"
	"milkrun/internal/usecase"

	"go.uber.org/fx"
)

type catalogService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	logger   *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	Users    repository.UserRepository
	Products repository.ProductRepository
	Orders   repository.OrderRepository
	Logger   *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		users:    params.Users,
		products: params.Products,
		orders:   params.Orders,
		logger:   params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *catalogService) CreateProduct(ctx context.Context, vendorID string, input usecase.ProductInput) (*entity.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	actor, err := loadActor(ctx, srv.users, vendorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsVendor() {
		return nil, domainerrors.ErrNotAVendor
	}

	created, err := srv.products.Add(ctx, &entity.Product{
		VendorID:    actor.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Category:    strings.TrimSpace(input.Category),
		Stock:       input.Stock,
		Unit:        input.Unit,
		Image:       input.Image,
		ImageBase64: input.ImageBase64,
	})
	if err != nil {
		srv.log(ctx).Error("Failed to save product", slog.String("vendorID", actor.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to save product")
	}
	srv.log(ctx).Info("Product created", slog.String("productID", created.ID), slog.String("vendorID", actor.ID))

	return created, nil
}

// loadEditable returns the product if the actor owns it or is an admin.
func (srv *catalogService) loadEditable(ctx context.Context, actorID, productID string) (*entity.Product, error) {
	actor, err := loadActor(ctx, srv.users, actorID)
	if err != nil {
		return nil, err
	}
	product, err := srv.products.GetByID(ctx, productID)
	if err != nil {
		return nil, translate(err)
	}
	if actor.Role != entity.RoleAdmin && actor.ID != product.VendorID {
		return nil, domainerrors.ErrForbidden.WithDetails("product belongs to another vendor")
	}

	return product, nil
}

func (srv *catalogService) UpdateProduct(
	ctx context.Context,
	actorID, productID string,
	patch repository.ProductPatch,
) (*entity.Product, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("price failed on 'gte'")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("stock failed on 'gte'")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name failed on 'required'")
	}

	product, err := srv.loadEditable(ctx, actorID, productID)
	if err != nil {
		return nil, err
	}

	updated, err := srv.products.Update(ctx, product.ID, patch)
	if err != nil {
		return nil, translate(err)
	}

	return updated, nil
}

func (srv *catalogService) DeleteProduct(ctx context.Context, actorID, productID string) (*usecase.DeleteProductResult, error) {
	product, err := srv.loadEditable(ctx, actorID, productID)
	if err != nil {
		return nil, err
	}

	referencing, err := srv.orders.GetReferencingProduct(ctx, product.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up orders for product")
	}

	if err := srv.products.Delete(ctx, product.ID); err != nil {
		return nil, translate(err)
	}

	result := &usecase.DeleteProductResult{ProductID: product.ID, ReferencingOrders: make([]string, 0, len(referencing))}
	for _, o := range referencing {
		result.ReferencingOrders = append(result.ReferencingOrders, o.ID)
	}
	if len(result.ReferencingOrders) > 0 {
		srv.log(ctx).Warn("Deleted product is still referenced by orders",
			slog.String("productID", product.ID),
			slog.Any("orderIDs", result.ReferencingOrders),
		)
	}
	srv.log(ctx).Info("Product deleted", slog.String("productID", product.ID))

	return result, nil
}

func (srv *catalogService) VendorProducts(ctx context.Context, vendorID string) ([]*entity.Product, error) {
	if _, err := loadVendor(ctx, srv.users, vendorID); err != nil {
		return nil, err
	}

	products, err := srv.products.GetByVendor(ctx, vendorID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vendor products")
	}

	return products, nil
}
