package jsonstore

import (
	"context"
	"strings"

	"milkrun/internal/domain/entity"
	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"
)

// userRepository implements repository.UserRepository over the users document.
type userRepository struct {
	users collection[*entity.User]
}

// NewUserRepository returns the document-backed user repository.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{
		users: newCollection(store, Users, "", func(u *entity.User) string { return u.ID }),
	}
}

func (repo *userRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	users, err := repo.users.all(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

func (repo *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok, err := repo.users.byID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by id")
	}
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (repo *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, ok, err := repo.users.find(ctx, func(u *entity.User) bool { return u.HasEmail(email) })
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by email")
	}
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (repo *userRepository) GetByRole(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	users, err := repo.users.filter(ctx, func(u *entity.User) bool { return u.Role == role })
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users by role")
	}

	return users, nil
}

// Add rejects the user when the email is already registered in any casing.
// The check and the insert happen under the same collection lock.
func (repo *userRepository) Add(ctx context.Context, user *entity.User) (*entity.User, error) {
	var created *entity.User
	err := repo.users.mutate(ctx, func(users []*entity.User) ([]*entity.User, error) {
		for _, existing := range users {
			if existing.HasEmail(user.Email) {
				return nil, repository.ErrEmailTaken
			}
		}

		record := *user
		record.ID = repo.users.nextID(users)
		record.Email = strings.TrimSpace(record.Email)
		now := repo.users.now().UTC()
		record.CreatedAt = now
		record.UpdatedAt = now
		created = &record

		return append(users, created), nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to add user")
	}

	return created, nil
}

func (repo *userRepository) Update(ctx context.Context, id string, patch repository.UserPatch) (*entity.User, error) {
	var updated *entity.User
	err := repo.users.mutate(ctx, func(users []*entity.User) ([]*entity.User, error) {
		var target *entity.User
		for _, u := range users {
			if u.ID == id {
				target = u
				break
			}
		}
		if target == nil {
			return nil, repository.ErrUserNotFound
		}

		if patch.Email != nil {
			for _, u := range users {
				if u.ID != id && u.HasEmail(*patch.Email) {
					return nil, repository.ErrEmailTaken
				}
			}
			trimmed := strings.TrimSpace(*patch.Email)
			patch.Email = &trimmed
		}

		patch.Apply(target)
		target.UpdatedAt = repo.users.now().UTC()
		updated = target

		return users, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, repository.ErrEmailTaken) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to update user")
	}

	return updated, nil
}

func (repo *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := repo.users.updateByID(ctx, id, repository.ErrUserNotFound, func(u *entity.User) error {
		u.PasswordHash = passwordHash
		u.UpdatedAt = repo.users.now().UTC()

		return nil
	})
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to update password")
	}

	return err
}
