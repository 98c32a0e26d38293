// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"milkrun/internal/delivery/api/middleware"
	"milkrun/internal/delivery/api/router/handler"
	"milkrun/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	MarketplaceHandler  *handler.MarketplaceHandler
	CatalogHandler      *handler.CatalogHandler
	OrderHandler        *handler.OrderHandler
	SubscriptionHandler *handler.SubscriptionHandler
	SessionMiddleware   *middleware.SessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	marketplaceHandler  *handler.MarketplaceHandler
	catalogHandler      *handler.CatalogHandler
	orderHandler        *handler.OrderHandler
	subscriptionHandler *handler.SubscriptionHandler
	session             *middleware.SessionMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		marketplaceHandler:  params.MarketplaceHandler,
		catalogHandler:      params.CatalogHandler,
		orderHandler:        params.OrderHandler,
		subscriptionHandler: params.SubscriptionHandler,
		session:             params.SessionMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.Signup)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)

		account := authGroup.Group("", r.session.RequireUser)
		account.GET("/me", r.authHandler.Me)
		account.PUT("/me", r.authHandler.UpdateMe)
		account.PUT("/password", r.authHandler.ChangePassword)
	}

	// Browsing needs no account
	e.GET("/vendors", r.marketplaceHandler.ListVendors)
	e.GET("/vendors/:id/qrcode", r.marketplaceHandler.VendorQRCode)
	e.GET("/products", r.marketplaceHandler.ListProducts)

	ordersGroup := e.Group("/orders", r.session.RequireUser)
	{
		ordersGroup.GET("", r.orderHandler.List)
		ordersGroup.POST("", r.orderHandler.Place)
		ordersGroup.PUT("/:id/status", r.orderHandler.UpdateStatus)
		ordersGroup.POST("/:id/cancel", r.orderHandler.Cancel)
	}

	subscriptionsGroup := e.Group("/subscriptions", r.session.RequireUser)
	{
		subscriptionsGroup.GET("", r.subscriptionHandler.List)
		subscriptionsGroup.POST("", r.subscriptionHandler.Subscribe)
		subscriptionsGroup.POST("/qr", r.subscriptionHandler.SubscribeFromQR)
		subscriptionsGroup.PUT("/:id/status", r.subscriptionHandler.UpdateStatus)
		subscriptionsGroup.PUT("/:id/vacation", r.subscriptionHandler.SetVacation)
		subscriptionsGroup.DELETE("/:id/vacation", r.subscriptionHandler.ClearVacation)
		subscriptionsGroup.GET("/:id/deliveries", r.subscriptionHandler.Deliveries)
		subscriptionsGroup.PUT("/:id/deliveries/:date", r.subscriptionHandler.MarkDelivery)
	}

	vendorGroup := e.Group("/vendor", r.session.RequireUser, r.session.RequireRole(entity.RoleVendor))
	{
		vendorGroup.GET("/products", r.catalogHandler.ListOwn)
		vendorGroup.POST("/products", r.catalogHandler.Create)
		vendorGroup.PUT("/products/:id", r.catalogHandler.Update)
		vendorGroup.DELETE("/products/:id", r.catalogHandler.Delete)
	}

	adminGroup := e.Group("/admin", r.session.RequireUser, r.session.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/vendors/pending", r.marketplaceHandler.PendingVendors)
		adminGroup.POST("/vendors/:id/approve", r.marketplaceHandler.ApproveVendor)
		adminGroup.POST("/vendors/:id/reject", r.marketplaceHandler.RejectVendor)
		adminGroup.GET("/integrity", r.marketplaceHandler.Integrity)
	}
}
