package handler

import (
	"net/http"

	"milkrun/internal/delivery/api/response"
	"milkrun/internal/domain/entity"
	"milkrun/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SubscriptionHandlerParams holds dependencies for SubscriptionHandler, injected by Fx.
type SubscriptionHandlerParams struct {
	fx.In

	SubscriptionUC usecase.SubscriptionUsecase
	MarketplaceUC  usecase.MarketplaceUsecase
}

// SubscriptionHandler serves recurring deliveries.
type SubscriptionHandler struct {
	subscriptionUC usecase.SubscriptionUsecase
	marketplaceUC  usecase.MarketplaceUsecase
}

// NewSubscriptionHandler is the constructor for SubscriptionHandler.
func NewSubscriptionHandler(params SubscriptionHandlerParams) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUC: params.SubscriptionUC,
		marketplaceUC:  params.MarketplaceUC,
	}
}

// UpdateSubscriptionStatusRequest is the body of PUT /subscriptions/:id/status.
type UpdateSubscriptionStatusRequest struct {
	Status entity.SubscriptionStatus `json:"status" validate:"required,oneof=active paused cancelled"`
}

// QRSubscribeRequest subscribes through a scanned vendor code.
type QRSubscribeRequest struct {
	QRData string `json:"qr_data" validate:"required"`
	usecase.SubscribeInput
}

// MarkDeliveryRequest is the body of PUT /subscriptions/:id/deliveries/:date.
type MarkDeliveryRequest struct {
	Status entity.DeliveryStatus `json:"status" validate:"required,oneof=scheduled delivered skipped missed"`
}

// List returns the vendor's subscribers or the consumer's own subscriptions.
func (h *SubscriptionHandler) List(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	if user.Role == entity.RoleVendor {
		subs, err := h.subscriptionUC.VendorSubscriptions(ctx, user.ID)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		return response.Success(c, http.StatusOK, subs, "")
	}

	subs, err := h.marketplaceUC.SubscriptionsWithVendor(ctx, user.ID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, subs, "")
}

func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	var input usecase.SubscribeInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid subscription input")
	}
	input.UserID = currentUser(c).ID

	sub, err := h.subscriptionUC.Subscribe(c.Request().Context(), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, sub, "Subscribed")
}

func (h *SubscriptionHandler) SubscribeFromQR(c echo.Context) error {
	var req QRSubscribeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid subscription input")
	}
	if req.QRData == "" {
		return response.BindingError(c, "qr_data is required")
	}
	req.UserID = currentUser(c).ID

	sub, err := h.subscriptionUC.SubscribeFromQR(c.Request().Context(), req.QRData, req.SubscribeInput)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, sub, "Subscribed")
}

// UpdateStatus pauses, resumes or cancels.
func (h *SubscriptionHandler) UpdateStatus(c echo.Context) error {
	var req UpdateSubscriptionStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	ctx := c.Request().Context()
	actorID, subID := currentUser(c).ID, c.Param("id")

	var (
		sub *entity.Subscription
		err error
	)
	switch req.Status {
	case entity.SubscriptionPaused:
		sub, err = h.subscriptionUC.Pause(ctx, actorID, subID)
	case entity.SubscriptionActive:
		sub, err = h.subscriptionUC.Resume(ctx, actorID, subID)
	case entity.SubscriptionCancelled:
		sub, err = h.subscriptionUC.Cancel(ctx, actorID, subID)
	}
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, sub, "Subscription updated")
}

func (h *SubscriptionHandler) SetVacation(c echo.Context) error {
	var input usecase.VacationInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid vacation input")
	}

	sub, err := h.subscriptionUC.SetVacation(c.Request().Context(), currentUser(c).ID, c.Param("id"), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, sub, "Vacation set")
}

func (h *SubscriptionHandler) ClearVacation(c echo.Context) error {
	sub, err := h.subscriptionUC.ClearVacation(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, sub, "Vacation cleared")
}

func (h *SubscriptionHandler) Deliveries(c echo.Context) error {
	deliveries, err := h.subscriptionUC.Deliveries(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, deliveries, "")
}

func (h *SubscriptionHandler) MarkDelivery(c echo.Context) error {
	var req MarkDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid delivery input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	delivery, err := h.subscriptionUC.MarkDelivery(c.Request().Context(), currentUser(c).ID, c.Param("id"), c.Param("date"), req.Status)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, delivery, "Delivery recorded")
}
