// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"milkrun/internal/domain/entity"
	"milkrun/internal/errors"
)

var (
	// ErrUserNotFound is a domain-specific error returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned by Add when another user already has the email, in any casing.
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// GetAll returns every user in storage order.
	GetAll(ctx context.Context) ([]*entity.User, error)

	// GetByID retrieves a single user by exact id.
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetByEmail retrieves a single user by email, compared case-insensitively.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByRole returns all users holding the role.
	GetByRole(ctx context.Context, role entity.Role) ([]*entity.User, error)

	// Add assigns a fresh id, persists the user and returns the stored record.
	// It is the only place email uniqueness is enforced.
	Add(ctx context.Context, user *entity.User) (*entity.User, error)

	// Update merges the patch over the stored user, nested profile fields included.
	Update(ctx context.Context, id string, patch UserPatch) (*entity.User, error)

	// UpdatePassword overwrites the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
