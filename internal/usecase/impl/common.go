// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	return v
}

// validateInput runs the struct's validate tags and folds failures into
// ErrValidationFailed with one detail per field.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate input")
	}

	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(details, "; "))
}

// translate maps repository sentinels onto user-facing domain errors. Storage
// and unexpected errors pass through unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrUserNotFound):
		return domainerrors.ErrUserNotFound
	case errors.Is(err, repository.ErrEmailTaken):
		return domainerrors.ErrUserAlreadyExists
	case errors.Is(err, repository.ErrProductNotFound):
		return domainerrors.ErrProductNotFound
	case errors.Is(err, repository.ErrOrderNotFound):
		return domainerrors.ErrOrderNotFound
	case errors.Is(err, repository.ErrSubscriptionNotFound):
		return domainerrors.ErrSubscriptionNotFound
	case errors.Is(err, repository.ErrTransactionNotFound), errors.Is(err, repository.ErrDeliveryNotFound):
		return domainerrors.ErrNotFound
	default:
		return err
	}
}

// loadActor resolves the acting user. Unknown ids mean the caller is not
// logged in as anyone real.
func loadActor(ctx context.Context, users repository.UserRepository, id string) (*entity.User, error) {
	if id == "" {
		return nil, domainerrors.ErrNotAuthenticated
	}

	user, err := users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrNotAuthenticated
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load acting user")
	}

	return user, nil
}

func loadAdmin(ctx context.Context, users repository.UserRepository, id string) (*entity.User, error) {
	actor, err := loadActor(ctx, users, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != entity.RoleAdmin {
		return nil, domainerrors.ErrForbidden.WithDetails("admin role required")
	}

	return actor, nil
}

// loadVendor resolves a vendor reference held by another record.
func loadVendor(ctx context.Context, users repository.UserRepository, id string) (*entity.User, error) {
	vendor, err := users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrInvalidReference.WithDetails("vendor " + id + " does not exist")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load vendor")
	}
	if !vendor.IsVendor() {
		return nil, domainerrors.ErrNotAVendor
	}

	return vendor, nil
}

func publicUsers(users []*entity.User) []*entity.PublicUser {
	out := make([]*entity.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}

	return out
}

func indexUsers(users []*entity.User) map[string]*entity.User {
	byID := make(map[string]*entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	return byID
}

func indexProducts(products []*entity.Product) map[string]*entity.Product {
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	return byID
}
