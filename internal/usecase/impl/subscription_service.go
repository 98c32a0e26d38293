package impl

import (
	"context"
	"log/slog"
	"slices"
	"time"

	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/repository"
	"milkrun/internal/domain/service"
	"milkrun/internal/errors"
	"milkrun/internal/usecase"

	"go.uber.org/fx"
)

// billingPeriods is how many deliveries one monthly payment covers.
var billingPeriods = map[entity.SubscriptionType]float64{
	entity.SubscriptionDaily:   30,
	entity.SubscriptionWeekly:  4,
	entity.SubscriptionMonthly: 1,
}

type subscriptionService struct {
	users         repository.UserRepository
	products      repository.ProductRepository
	subscriptions repository.SubscriptionRepository
	transactions  repository.TransactionRepository
	deliveries    repository.DeliveryRepository
	qrcode        service.QRCodeService
	logger        *slog.Logger
	now           func() time.Time
}

// SubscriptionServiceParams holds dependencies for SubscriptionService, injected by Fx.
type SubscriptionServiceParams struct {
	fx.In

	Users         repository.UserRepository
	Products      repository.ProductRepository
	Subscriptions repository.SubscriptionRepository
	Transactions  repository.TransactionRepository
	Deliveries    repository.DeliveryRepository
	QRCode        service.QRCodeService
	Logger        *slog.Logger
}

// NewSubscriptionService is the constructor for subscriptionService.
func NewSubscriptionService(params SubscriptionServiceParams) usecase.SubscriptionUsecase {
	return &subscriptionService{
		users:         params.Users,
		products:      params.Products,
		subscriptions: params.Subscriptions,
		transactions:  params.Transactions,
		deliveries:    params.Deliveries,
		qrcode:        params.QRCode,
		logger:        params.Logger,
		now:           time.Now,
	}
}

func (srv *subscriptionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *subscriptionService) Subscribe(ctx context.Context, input usecase.SubscribeInput) (*entity.Subscription, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.VendorID == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("vendor_id failed on 'required'")
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

	var product *entity.Product
	if input.ProductID != "" {
		product, err = srv.products.GetByID(ctx, input.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrInvalidReference.WithDetails("product " + input.ProductID + " does not exist")
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to load product")
		}
		if product.VendorID != vendor.ID {
			return nil, domainerrors.ErrInvalidReference.WithDetails("product " + input.ProductID + " is not sold by vendor " + vendor.ID)
		}
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	created, err := srv.subscriptions.Add(ctx, &entity.Subscription{
		UserID:       input.UserID,
		VendorID:     vendor.ID,
		ProductID:    input.ProductID,
		Quantity:     quantity,
		Type:         input.Type,
		StartDate:    input.StartDate,
		PreferredDay: input.PreferredDay,
		DeliveryTime: input.DeliveryTime,
	})
	if err != nil {
		srv.log(ctx).Error("Failed to save subscription", slog.String("userID", input.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to save subscription")
	}

	var amount float64
	switch {
	case input.Amount != nil:
		amount = *input.Amount
	case product != nil:
		amount = roundCents(product.Price * float64(quantity) * billingPeriods[created.Type])
	}

	if _, err := srv.transactions.Add(ctx, &entity.Transaction{
		UserID:      created.UserID,
		VendorID:    created.VendorID,
		Amount:      amount,
		ReferenceID: created.ID,
		Type:        entity.TransactionSubscription,
	}); err != nil {
		srv.log(ctx).Error("Failed to record subscription transaction",
			slog.String("subscriptionID", created.ID),
			slog.Float64("amount", amount),
			slog.Any("error", err),
		)
	}

	srv.log(ctx).Info("Subscription created",
		slog.String("subscriptionID", created.ID),
		slog.String("vendorID", created.VendorID),
		slog.String("type", string(created.Type)),
	)

	return created, nil
}

func (srv *subscriptionService) SubscribeFromQR(ctx context.Context, qrData string, input usecase.SubscribeInput) (*entity.Subscription, error) {
	vendorID, err := srv.qrcode.ParseVendorQR(qrData)
	if err != nil {
		srv.log(ctx).Warn("Rejected QR payload", slog.Any("error", err))

		return nil, err
	}
	input.VendorID = vendorID

	return srv.Subscribe(ctx, input)
}

func (srv *subscriptionService) VendorQRCode(ctx context.Context, vendorID string) ([]byte, error) {
	vendor, err := loadVendor(ctx, srv.users, vendorID)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrcode.GenerateVendorQR(vendor.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render vendor QR code")
	}

	return png, nil
}

// loadOwned returns the subscription if the actor is its subscriber or an admin.
func (srv *subscriptionService) loadOwned(ctx context.Context, actorID, subscriptionID string) (*entity.Subscription, error) {
	actor, err := loadActor(ctx, srv.users, actorID)
	if err != nil {
		return nil, err
	}
	sub, err := srv.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, translate(err)
	}
	if actor.Role != entity.RoleAdmin && actor.ID != sub.UserID {
		return nil, domainerrors.ErrForbidden.WithDetails("subscription belongs to another user")
	}

	return sub, nil
}

func (srv *subscriptionService) changeStatus(
	ctx context.Context,
	actorID, subscriptionID string,
	to entity.SubscriptionStatus,
	from ...entity.SubscriptionStatus,
) (*entity.Subscription, error) {
	sub, err := srv.loadOwned(ctx, actorID, subscriptionID)
	if err != nil {
		return nil, err
	}

	var current entity.SubscriptionStatus
	updated, err := srv.subscriptions.UpdateStatus(ctx, sub.ID, to, func(stored *entity.Subscription) error {
		current = stored.Status
		if slices.Contains(from, stored.Status) {
			return nil
		}

		return domainerrors.ErrInvalidStatusTransition.WithDetails(
			"cannot move subscription from " + string(stored.Status) + " to " + string(to))
	})
	if err != nil {
		return nil, translate(err)
	}
	srv.log(ctx).Info("Subscription status changed",
		slog.String("subscriptionID", sub.ID),
		slog.String("from", string(current)),
		slog.String("to", string(to)),
	)

	return updated, nil
}

func (srv *subscriptionService) Pause(ctx context.Context, actorID, subscriptionID string) (*entity.Subscription, error) {
	return srv.changeStatus(ctx, actorID, subscriptionID, entity.SubscriptionPaused, entity.SubscriptionActive)
}

func (srv *subscriptionService) Resume(ctx context.Context, actorID, subscriptionID string) (*entity.Subscription, error) {
	return srv.changeStatus(ctx, actorID, subscriptionID, entity.SubscriptionActive, entity.SubscriptionPaused)
}

func (srv *subscriptionService) Cancel(ctx context.Context, actorID, subscriptionID string) (*entity.Subscription, error) {
	return srv.changeStatus(ctx, actorID, subscriptionID, entity.SubscriptionCancelled,
		entity.SubscriptionActive, entity.SubscriptionPaused)
}

func (srv *subscriptionService) SetVacation(
	ctx context.Context,
	actorID, subscriptionID string,
	input usecase.VacationInput,
) (*entity.Subscription, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.End < input.Start {
		return nil, domainerrors.ErrValidationFailed.WithDetails("end must not be before start")
	}

	sub, err := srv.loadOwned(ctx, actorID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Status == entity.SubscriptionCancelled {
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetails("subscription is cancelled")
	}

	updated, err := srv.subscriptions.SetVacation(ctx, sub.ID, input.Start, input.End)
	if err != nil {
		return nil, translate(err)
	}
	srv.log(ctx).Info("Vacation set", slog.String("subscriptionID", sub.ID), slog.String("start", input.Start), slog.String("end", input.End))

	return updated, nil
}

func (srv *subscriptionService) ClearVacation(ctx context.Context, actorID, subscriptionID string) (*entity.Subscription, error) {
	sub, err := srv.loadOwned(ctx, actorID, subscriptionID)
	if err != nil {
		return nil, err
	}

	updated, err := srv.subscriptions.ClearVacation(ctx, sub.ID)
	if err != nil {
		return nil, translate(err)
	}

	return updated, nil
}

func (srv *subscriptionService) MarkDelivery(
	ctx context.Context,
	actorID, subscriptionID, date string,
	status entity.DeliveryStatus,
) (*entity.Delivery, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown delivery status '" + string(status) + "'")
	}
	if date == "" {
		date = srv.now().UTC().Format(entity.DateLayout)
	}
	if _, err := time.Parse(entity.DateLayout, date); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("date must be YYYY-MM-DD")
	}

	actor, err := loadActor(ctx, srv.users, actorID)
	if err != nil {
		return nil, err
	}
	sub, err := srv.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, translate(err)
	}
	if actor.Role != entity.RoleAdmin && actor.ID != sub.VendorID {
		return nil, domainerrors.ErrForbidden.WithDetails("only the subscription's vendor or an admin may record deliveries")
	}
	if sub.Status == entity.SubscriptionCancelled {
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetails("subscription is cancelled")
	}

	delivery, err := srv.deliveries.Upsert(ctx, sub, date, status)
	if err != nil {
		return nil, translate(err)
	}
	srv.log(ctx).Info("Delivery recorded",
		slog.String("subscriptionID", sub.ID),
		slog.String("date", date),
		slog.String("status", string(status)),
	)

	return delivery, nil
}

func (srv *subscriptionService) Deliveries(ctx context.Context, actorID, subscriptionID string) ([]*entity.Delivery, error) {
	actor, err := loadActor(ctx, srv.users, actorID)
	if err != nil {
		return nil, err
	}
	sub, err := srv.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, translate(err)
	}
	if actor.Role != entity.RoleAdmin && actor.ID != sub.UserID && actor.ID != sub.VendorID {
		return nil, domainerrors.ErrForbidden
	}

	deliveries, err := srv.deliveries.GetBySubscription(ctx, sub.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list deliveries")
	}

	return deliveries, nil
}

func (srv *subscriptionService) VendorSubscriptions(ctx context.Context, vendorID string) ([]*entity.Subscription, error) {
	vendor, err := loadVendor(ctx, srv.users, vendorID)
	if err != nil {
		return nil, err
	}

	subs, err := srv.subscriptions.GetByVendor(ctx, vendor.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vendor subscriptions")
	}

	return subs, nil
}
