package impl

import (
	"context"
	"log/slog"

	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"
	"milkrun/internal/usecase"

	"go.uber.org/fx"
)

type vendorApprovalService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// VendorApprovalServiceParams holds dependencies for VendorApprovalService, injected by Fx.
type VendorApprovalServiceParams struct {
	fx.In

	Users  repository.UserRepository
	Logger *slog.Logger
}

// NewVendorApprovalService is the constructor for vendorApprovalService.
func NewVendorApprovalService(params VendorApprovalServiceParams) usecase.VendorApprovalUsecase {
	return &vendorApprovalService{
		users:  params.Users,
		logger: params.Logger,
	}
}

func (srv *vendorApprovalService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *vendorApprovalService) PendingVendors(ctx context.Context, adminID string) ([]*entity.PublicUser, error) {
	if _, err := loadAdmin(ctx, srv.users, adminID); err != nil {
		return nil, err
	}

	vendors, err := srv.users.GetByRole(ctx, entity.RoleVendor)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list vendors")
	}

	pending := make([]*entity.User, 0, len(vendors))
	for _, v := range vendors {
		// Vendors written before approval existed carry no status.
		if v.ApprovalStatus == entity.ApprovalPending || v.ApprovalStatus == "" {
			pending = append(pending, v)
		}
	}

	return publicUsers(pending), nil
}

func (srv *vendorApprovalService) Approve(ctx context.Context, adminID, vendorID string) (*entity.PublicUser, error) {
	return srv.decide(ctx, adminID, vendorID, entity.ApprovalApproved)
}

func (srv *vendorApprovalService) Reject(ctx context.Context, adminID, vendorID string) (*entity.PublicUser, error) {
	return srv.decide(ctx, adminID, vendorID, entity.ApprovalRejected)
}

func (srv *vendorApprovalService) decide(
	ctx context.Context,
	adminID, vendorID string,
	status entity.ApprovalStatus,
) (*entity.PublicUser, error) {
	admin, err := loadAdmin(ctx, srv.users, adminID)
	if err != nil {
		return nil, err
	}
	vendor, err := loadVendor(ctx, srv.users, vendorID)
	if err != nil {
		return nil, err
	}

	updated, err := srv.users.Update(ctx, vendor.ID, repository.UserPatch{ApprovalStatus: &status})
	if err != nil {
		return nil, translate(err)
	}
	srv.log(ctx).Info("Vendor approval decided",
		slog.String("vendorID", vendor.ID),
		slog.String("adminID", admin.ID),
		slog.String("status", string(status)),
	)

	return updated.Public(), nil
}
