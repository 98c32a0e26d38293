package handler

import (
	"net/http"

	"milkrun/internal/delivery/api/response"
	"milkrun/internal/domain/repository"
	"milkrun/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
}

// CatalogHandler serves a vendor's own product listings.
type CatalogHandler struct {
	catalogUC usecase.CatalogUsecase
}

// NewCatalogHandler is the constructor for CatalogHandler.
func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{catalogUC: params.CatalogUC}
}

// ListOwn returns the logged-in vendor's products.
func (h *CatalogHandler) ListOwn(c echo.Context) error {
	products, err := h.catalogUC.VendorProducts(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, products, "")
}

func (h *CatalogHandler) Create(c echo.Context) error {
	var input usecase.ProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid product input")
	}

	product, err := h.catalogUC.CreateProduct(c.Request().Context(), currentUser(c).ID, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created")
}

func (h *CatalogHandler) Update(c echo.Context) error {
	var patch repository.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return response.BindingError(c, "Invalid product input")
	}

	product, err := h.catalogUC.UpdateProduct(c.Request().Context(), currentUser(c).ID, c.Param("id"), patch)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated")
}

func (h *CatalogHandler) Delete(c echo.Context) error {
	result, err := h.catalogUC.DeleteProduct(c.Request().Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Product deleted")
}
