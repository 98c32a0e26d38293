package impl

import (
	"context"
	"log/slog"
	"math"

	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"
	"milkrun/internal/usecase"

	"go.uber.org/fx"
)

type orderService struct {
	users        repository.UserRepository
	products     repository.ProductRepository
	orders       repository.OrderRepository
	transactions repository.TransactionRepository
	logger       *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	Users        repository.UserRepository
	Products     repository.ProductRepository
	Orders       repository.OrderRepository
	Transactions repository.TransactionRepository
	Logger       *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		users:        params.Users,
		products:     params.Products,
		orders:       params.Orders,
		transactions: params.Transactions,
		logger:       params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (srv *orderService) PlaceOrder(ctx context.Context, input usecase.PlaceOrderInput) (*entity.Order, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if len(input.Quantities) > len(input.Products) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("quantities has more entries than products")
	}

	if _, err := loadActor(ctx, srv.users, input.UserID); err != nil {
		return nil, err
	}
	vendor, err := loadVendor(ctx, srv.users, input.VendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsDiscoverable() {
		return nil, domainerrors.ErrVendorNotApproved
	}

	order := &entity.Order{
		UserID:          input.UserID,
		VendorID:        vendor.ID,
		Products:        input.Products,
		Quantities:      input.Quantities,
		DeliveryAddress: input.DeliveryAddress,
		DeliveryDate:    input.DeliveryDate,
		DeliveryTime:    input.DeliveryTime,
		PaymentMethod:   input.PaymentMethod,
	}

	var total float64
	for i, pid := range input.Products {
		product, err := srv.products.GetByID(ctx, pid)
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrInvalidReference.WithDetails("product " + pid + " does not exist")
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to load product")
		}
		if product.VendorID != vendor.ID {
			return nil, domainerrors.ErrInvalidReference.WithDetails("product " + pid + " is not sold by vendor " + vendor.ID)
		}
		total += product.Price * float64(order.QuantityAt(i))
	}
	order.Total = roundCents(total)
	if input.Total != nil {
		order.Total = *input.Total
	}

	created, err := srv.orders.Add(ctx, order)
	if err != nil {
		srv.log(ctx).Error("Failed to save order", slog.String("userID", input.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to save order")
	}

	txn, err := srv.transactions.Add(ctx, &entity.Transaction{
		UserID:   created.UserID,
		VendorID: created.VendorID,
		Amount:   created.Total,
		OrderID:  created.ID,
		Type:     entity.TransactionOrder,
	})
	if err != nil {
		// The order stands; the integrity report lists it as unpaid.
		srv.log(ctx).Error("Failed to record order transaction",
			slog.String("orderID", created.ID),
			slog.Float64("amount", created.Total),
			slog.Any("error", err),
		)
	} else {
		srv.log(ctx).Info("Order placed",
			slog.String("orderID", created.ID),
			slog.String("transactionID", txn.ID),
			slog.Float64("total", created.Total),
		)
	}

	return created, nil
}

func (srv *orderService) UpdateStatus(ctx context.Context, actorID, orderID string, status entity.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown order status '" + string(status) + "'")
	}

	actor, err := loadActor(ctx, srv.users, actorID)
	if err != nil {
		return nil, err
	}
	order, err := srv.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}
	if actor.Role != entity.RoleAdmin && actor.ID != order.VendorID {
		return nil, domainerrors.ErrForbidden.WithDetails("only the order's vendor or an admin may change its status")
	}

	return srv.transition(ctx, order.ID, status, nil)
}

func (srv *orderService) CancelOrder(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	actor, err := loadActor(ctx, srv.users, userID)
	if err != nil {
		return nil, err
	}
	order, err := srv.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}
	if order.UserID != actor.ID {
		return nil, domainerrors.ErrForbidden.WithDetails("only the customer may cancel the order")
	}

	return srv.transition(ctx, order.ID, entity.OrderCancelled, func(current *entity.Order) error {
		if current.Status != entity.OrderPending && current.Status != entity.OrderProcessing {
			return domainerrors.ErrInvalidStatusTransition.WithDetails("order is already " + string(current.Status))
		}

		return nil
	})
}

// transition moves the order to status. The move and guard are checked
// against the stored order under the collection lock.
func (srv *orderService) transition(
	ctx context.Context,
	orderID string,
	status entity.OrderStatus,
	guard repository.OrderStatusCheck,
) (*entity.Order, error) {
	var from entity.OrderStatus
	updated, err := srv.orders.UpdateStatus(ctx, orderID, status, func(current *entity.Order) error {
		from = current.Status
		if guard != nil {
			if err := guard(current); err != nil {
				return err
			}
		}
		if current.Status == status {
			return nil
		}
		if !entity.CanTransition(current.Status, status) {
			return domainerrors.ErrInvalidStatusTransition.WithDetails(
				"cannot move order from " + string(current.Status) + " to " + string(status))
		}

		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	if from != status {
		srv.log(ctx).Info("Order status changed",
			slog.String("orderID", orderID),
			slog.String("from", string(from)),
			slog.String("to", string(status)),
		)
	}

	return updated, nil
}
