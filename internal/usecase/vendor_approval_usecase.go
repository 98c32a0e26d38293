package usecase

import (
	"context"

	"milkrun/internal/domain/entity"
)

// VendorApprovalUsecase is the admin workflow that makes vendors discoverable.
type VendorApprovalUsecase interface {
	PendingVendors(ctx context.Context, adminID string) ([]*entity.PublicUser, error)
	Approve(ctx context.Context, adminID, vendorID string) (*entity.PublicUser, error)
	Reject(ctx context.Context, adminID, vendorID string) (*entity.PublicUser, error)
}
