package handler

import (
	"net/http"

	"milkrun/internal/delivery/api/response"
	"milkrun/internal/domain/entity"
	"milkrun/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC       usecase.OrderUsecase
	MarketplaceUC usecase.MarketplaceUsecase
}

// OrderHandler serves checkout and order tracking.
type OrderHandler struct {
	orderUC       usecase.OrderUsecase
	marketplaceUC usecase.MarketplaceUsecase
}

// NewOrderHandler is the constructor for OrderHandler.
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC:       params.OrderUC,
		marketplaceUC: params.MarketplaceUC,
	}
}

// UpdateOrderStatusRequest is the body of PUT /orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status entity.OrderStatus `json:"status" validate:"required"`
}

// List returns the vendor's incoming orders or the consumer's own orders.
func (h *OrderHandler) List(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	var (
		orders []*usecase.OrderDetails
		err    error
	)
	if user.Role == entity.RoleVendor {
		orders, err = h.marketplaceUC.OrdersWithDetails(ctx, user.ID)
	} else {
		orders, err = h.marketplaceUC.OrdersForUser(ctx, user.ID)
	}
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, orders, "")
}

// Place checks out the cart of a single vendor.
func (h *OrderHandler) Place(c echo.Context) error {
	var input usecase.PlaceOrderInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid order input")
	}
	input.UserID = currentUser(c).ID

	order, err := h.orderUC.PlaceOrder(c.Request().Context(), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, order, "Order placed")
}

// UpdateStatus moves the order along its lifecycle.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	order, err := h.orderUC.UpdateStatus(c.Request().Context(), currentUser(c).ID, c.Param("id"), req.Status)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order, "Order updated")
}

// Cancel lets the customer withdraw an order that has not shipped.
func (h *OrderHandler) Cancel(c echo.Context) error {
	order, err := h.orderUC.CancelOrder(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, order, "Order cancelled")
}
