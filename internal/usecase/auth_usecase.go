// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/repository"
)

// --- Input DTOs ---

// LoginInput defines the credentials for a login attempt.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupInput defines the data required to create an account.
type SignupInput struct {
	Email       string             `json:"email" validate:"required,email"`
	Password    string             `json:"password" validate:"required"`
	Name        string             `json:"name" validate:"required"`
	Role        entity.Role        `json:"role" validate:"omitempty,oneof=user vendor admin"`
	ProfileInfo entity.ProfileInfo `json:"profile_info"`
	// AutoLogin opens a session for the new account.
	AutoLogin bool `json:"auto_login"`
}

// ChangePasswordInput defines a password change by the account owner.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// UpdateProfileInput defines a partial profile edit.
type UpdateProfileInput struct {
	Name        *string                      `json:"name,omitempty" validate:"omitempty,min=1"`
	ProfileInfo *repository.ProfileInfoPatch `json:"profile_info,omitempty"`
}

// AuthUsecase manages credentials and the device's single session.
// Users returned from it never carry password material.
type AuthUsecase interface {
	// Login checks credentials and persists the session. Unknown email and
	// wrong password fail identically with ErrInvalidCredentials.
	Login(ctx context.Context, input LoginInput) (*entity.PublicUser, error)

	// Signup creates an account. Vendors start pending approval; admins
	// cannot self-register.
	Signup(ctx context.Context, input SignupInput) (*entity.PublicUser, error)

	// Logout clears the session. Calling it while anonymous is not an error.
	Logout(ctx context.Context) error

	// Session returns the persisted session state without resolving the user.
	Session(ctx context.Context) (entity.Session, error)

	// CurrentUser resolves the session to a user. A session pointing to a
	// vanished user is cleared and ErrNotAuthenticated returned.
	CurrentUser(ctx context.Context) (*entity.PublicUser, error)

	VerifyPassword(ctx context.Context, userID, password string) (bool, error)
	UpdatePassword(ctx context.Context, userID, newPassword string) error
	ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error

	// UpdateProfile merges profile changes over the stored user.
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.PublicUser, error)
}
