package usecase

import (
	"context"

	"milkrun/internal/domain/entity"
)

// PlaceOrderInput defines a checkout from a single vendor.
type PlaceOrderInput struct {
	UserID     string   `json:"-" validate:"required"`
	VendorID   string   `json:"vendor_id" validate:"required"`
	Products   []string `json:"products" validate:"required,min=1,dive,required"`
	Quantities []int    `json:"quantities" validate:"omitempty,dive,min=1"`
	// Total overrides the computed price when set.
	Total           *float64 `json:"total" validate:"omitempty,gte=0"`
	DeliveryAddress string   `json:"delivery_address"`
	DeliveryDate    string   `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	DeliveryTime    string   `json:"delivery_time"`
	PaymentMethod   string   `json:"payment_method"`
}

// OrderUsecase covers checkout and the order status lifecycle.
type OrderUsecase interface {
	// PlaceOrder writes the order and then its transaction. The two writes are
	// not atomic; a failed transaction write is logged and the order kept.
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*entity.Order, error)

	// UpdateStatus is used by the order's vendor or an admin. Delivered and
	// cancelled orders accept no further changes.
	UpdateStatus(ctx context.Context, actorID, orderID string, status entity.OrderStatus) (*entity.Order, error)

	// CancelOrder lets the customer cancel while the order is pending or processing.
	CancelOrder(ctx context.Context, userID, orderID string) (*entity.Order, error)
}
