package middleware

import (
	"slices"

	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/errors"
	"milkrun/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SessionMiddlewareParams holds dependencies for SessionMiddleware, injected by Fx.
type SessionMiddlewareParams struct {
	fx.In

	Auth usecase.AuthUsecase
}

// SessionMiddleware resolves the persisted session to a user for every request.
type SessionMiddleware struct {
	auth usecase.AuthUsecase
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(params SessionMiddlewareParams) *SessionMiddleware {
	return &SessionMiddleware{auth: params.Auth}
}

// Resolve puts the logged-in user on the echo context. Anonymous requests
// pass through; session storage failures abort the request.
func (m *SessionMiddleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.auth.CurrentUser(c.Request().Context())
		switch {
		case err == nil:
			deliverycontext.SetCurrentUser(c, user)
		case errors.Is(err, domainerrors.ErrNotAuthenticated):
			// anonymous
		default:
			return err
		}

		return next(c)
	}
}

// RequireUser rejects anonymous requests.
func (m *SessionMiddleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if deliverycontext.GetCurrentUser(c) == nil {
			return domainerrors.ErrNotAuthenticated
		}

		return next(c)
	}
}

// RequireRole must be used after RequireUser.
func (m *SessionMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := deliverycontext.GetCurrentUser(c)
			if user == nil {
				return domainerrors.ErrNotAuthenticated
			}
			if !slices.Contains(roles, user.Role) {
				return domainerrors.ErrForbidden.WithDetails("requires role " + string(roles[0]))
			}

			return next(c)
		}
	}
}
