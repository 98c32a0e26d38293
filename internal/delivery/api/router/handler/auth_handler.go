// Package handler contains the HTTP handlers of the local API.
package handler

import (
	"log/slog"
	"net/http"

	"milkrun/internal/delivery/api/response"
	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/domain/entity"
	"milkrun/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler serves signup, login and the current user's account.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// currentUser is only nil on routes not guarded by RequireUser.
func currentUser(c echo.Context) *entity.PublicUser {
	return deliverycontext.GetCurrentUser(c)
}

// Signup creates the account and logs it in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var input usecase.SignupInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid signup input")
	}
	input.AutoLogin = true

	user, err := h.authUC.Signup(c.Request().Context(), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	message := "Account created"
	if user.Role == entity.RoleVendor {
		message = "Account created, waiting for admin approval"
	}

	return response.Success(c, http.StatusCreated, user, message)
}

// Login handles the user login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid login input")
	}

	user, err := h.authUC.Login(c.Request().Context(), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user, "Login successful")
}

// Logout handles the user logout request.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authUC.Logout(c.Request().Context()); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Logged out")
}

// Me returns the logged-in user.
func (h *AuthHandler) Me(c echo.Context) error {
	return response.Success(c, http.StatusOK, currentUser(c), "")
}

// UpdateMe applies a partial profile edit to the logged-in user.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	var input usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid profile input")
	}

	user, err := h.authUC.UpdateProfile(c.Request().Context(), currentUser(c).ID, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user, "Profile updated")
}

// ChangePassword checks the current password before storing the new one.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var input usecase.ChangePasswordInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid password input")
	}

	if err := h.authUC.ChangePassword(c.Request().Context(), currentUser(c).ID, input); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Password changed")
}
