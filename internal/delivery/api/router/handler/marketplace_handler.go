package handler

import (
	"net/http"

	"milkrun/internal/delivery/api/response"
	"milkrun/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// MarketplaceHandlerParams holds dependencies for MarketplaceHandler, injected by Fx.
type MarketplaceHandlerParams struct {
	fx.In

	MarketplaceUC  usecase.MarketplaceUsecase
	SubscriptionUC usecase.SubscriptionUsecase
	ApprovalUC     usecase.VendorApprovalUsecase
}

// MarketplaceHandler serves the public catalogue and the admin screens.
type MarketplaceHandler struct {
	marketplaceUC  usecase.MarketplaceUsecase
	subscriptionUC usecase.SubscriptionUsecase
	approvalUC     usecase.VendorApprovalUsecase
}

// NewMarketplaceHandler is the constructor for MarketplaceHandler.
func NewMarketplaceHandler(params MarketplaceHandlerParams) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplaceUC:  params.MarketplaceUC,
		subscriptionUC: params.SubscriptionUC,
		approvalUC:     params.ApprovalUC,
	}
}

// ListVendors returns approved vendors.
func (h *MarketplaceHandler) ListVendors(c echo.Context) error {
	vendors, err := h.marketplaceUC.ApprovedVendors(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, vendors, "")
}

// ListProducts returns products of approved vendors, filtered by ?category=.
func (h *MarketplaceHandler) ListProducts(c echo.Context) error {
	products, err := h.marketplaceUC.ProductsForApprovedVendors(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, products, "")
}

// VendorQRCode renders the vendor's subscribe QR code as PNG.
func (h *MarketplaceHandler) VendorQRCode(c echo.Context) error {
	png, err := h.subscriptionUC.VendorQRCode(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// PendingVendors lists vendors awaiting a decision.
func (h *MarketplaceHandler) PendingVendors(c echo.Context) error {
	vendors, err := h.approvalUC.PendingVendors(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, vendors, "")
}

// ApproveVendor makes the vendor discoverable.
func (h *MarketplaceHandler) ApproveVendor(c echo.Context) error {
	vendor, err := h.approvalUC.Approve(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, vendor, "Vendor approved")
}

// RejectVendor hides the vendor from consumers.
func (h *MarketplaceHandler) RejectVendor(c echo.Context) error {
	vendor, err := h.approvalUC.Reject(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, vendor, "Vendor rejected")
}

// Integrity returns the cross-collection reference report.
func (h *MarketplaceHandler) Integrity(c echo.Context) error {
	report, err := h.marketplaceUC.IntegrityReport(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, report, "")
}

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "")
}
