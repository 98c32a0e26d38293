package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	deliverycontext "milkrun/internal/delivery/context"
	"milkrun/internal/domain/entity"
	domainerrors "milkrun/internal/domain/errors"
	"milkrun/internal/domain/repository"
	"milkrun/internal/domain/service"
	"milkrun/internal/errors"
	"milkrun/internal/usecase"

	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	users    repository.UserRepository
	sessions repository.KeyValueStore
	hasher   service.PasswordHasher
	logger   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	Users    repository.UserRepository
	Sessions repository.KeyValueStore
	Hasher   service.PasswordHasher
	Logger   *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		users:    params.Users,
		sessions: params.Sessions,
		hasher:   params.Hasher,
		logger:   params.Logger,
	}
}

func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// burnCheck spends a hash comparison on unknown emails so that both failure
// paths take about as long.
func (srv *authService) burnCheck(password string) {
	srv.dummyOnce.Do(func() {
		srv.dummyHash, _ = srv.hasher.Hash("milkrun-dummy-password")
	})
	if srv.dummyHash != "" {
		srv.hasher.Check(password, srv.dummyHash)
	}
}

func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*entity.PublicUser, error) {
	if err := validateInput(input); err != nil {
		return nil, domainerrors.ErrInvalidCredentials
	}

	user, err := srv.users.GetByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.burnCheck(input.Password)
		srv.log(ctx).Warn("Login failed: unknown email")

		return nil, domainerrors.ErrInvalidCredentials
	}
	if err != nil {
		srv.log(ctx).Error("Login failed to load user", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed: wrong password", slog.String("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	if err := srv.sessions.Set(ctx, repository.SessionKey, user.ID); err != nil {
		srv.log(ctx).Error("Failed to persist session", slog.String("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to persist session")
	}

	srv.log(ctx).Info("User logged in", slog.String("userID", user.ID), slog.String("role", user.Role.String()))

	return user.Public(), nil
}

func (srv *authService) Signup(ctx context.Context, input usecase.SignupInput) (*entity.PublicUser, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	if role == entity.RoleAdmin {
		return nil, domainerrors.ErrForbidden.WithDetails("admin accounts cannot be self-registered")
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during signup", slog.Any("error", err))

		return nil, err
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	user := &entity.User{
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Role:         role,
		ProfileInfo:  input.ProfileInfo,
	}
	if role == entity.RoleVendor {
		user.ApprovalStatus = entity.ApprovalPending
		if user.ProfileInfo.BusinessName == "" {
			user.ProfileInfo.BusinessName = user.Name
		}
	}

	created, err := srv.users.Add(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			srv.log(ctx).Warn("Signup rejected: email already registered")

			return nil, domainerrors.ErrUserAlreadyExists
		}
		srv.log(ctx).Error("Failed to create user", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create user")
	}

	srv.log(ctx).Info("User signed up", slog.String("userID", created.ID), slog.String("role", created.Role.String()))

	if input.AutoLogin {
		if err := srv.sessions.Set(ctx, repository.SessionKey, created.ID); err != nil {
			// The account exists; the caller can still log in explicitly.
			srv.log(ctx).Error("Auto-login after signup failed", slog.String("userID", created.ID), slog.Any("error", err))
		}
	}

	return created.Public(), nil
}

func (srv *authService) Logout(ctx context.Context) error {
	if err := srv.sessions.Delete(ctx, repository.SessionKey); err != nil {
		srv.log(ctx).Error("Failed to clear session", slog.Any("error", err))

		return errors.Wrap(err, "failed to clear session")
	}

	return nil
}

func (srv *authService) Session(ctx context.Context) (entity.Session, error) {
	userID, ok, err := srv.sessions.Get(ctx, repository.SessionKey)
	if err != nil {
		return entity.AnonymousSession(), errors.Wrap(err, "failed to read session")
	}
	if !ok || userID == "" {
		return entity.AnonymousSession(), nil
	}

	return entity.AuthenticatedSession(userID), nil
}

func (srv *authService) CurrentUser(ctx context.Context) (*entity.PublicUser, error) {
	session, err := srv.Session(ctx)
	if err != nil {
		return nil, err
	}
	if !session.IsAuthenticated() {
		return nil, domainerrors.ErrNotAuthenticated
	}

	user, err := srv.users.GetByID(ctx, session.UserID())
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Warn("Clearing stale session", slog.String("userID", session.UserID()))
		if err := srv.sessions.Delete(ctx, repository.SessionKey); err != nil {
			srv.log(ctx).Error("Failed to clear stale session", slog.Any("error", err))
		}

		return nil, domainerrors.ErrNotAuthenticated
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve session user")
	}

	return user.Public(), nil
}

func (srv *authService) VerifyPassword(ctx context.Context, userID, password string) (bool, error) {
	user, err := srv.users.GetByID(ctx, userID)
	if err != nil {
		return false, translate(err)
	}

	return srv.hasher.Check(password, user.PasswordHash), nil
}

func (srv *authService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if err := srv.hasher.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := srv.hasher.Hash(newPassword)
	if err != nil {
		srv.log(ctx).Error("Failed to hash new password", slog.String("userID", userID), slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	if err := srv.users.UpdatePassword(ctx, userID, hash); err != nil {
		return translate(err)
	}
	srv.log(ctx).Info("Password updated", slog.String("userID", userID))

	return nil
}

func (srv *authService) ChangePassword(ctx context.Context, userID string, input usecase.ChangePasswordInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	if input.NewPassword != input.ConfirmPassword {
		return domainerrors.ErrPasswordMismatch
	}

	ok, err := srv.VerifyPassword(ctx, userID, input.CurrentPassword)
	if err != nil {
		return err
	}
	if !ok {
		srv.log(ctx).Warn("Password change rejected: wrong current password", slog.String("userID", userID))

		return domainerrors.ErrIncorrectPassword
	}

	return srv.UpdatePassword(ctx, userID, input.NewPassword)
}

func (srv *authService) UpdateProfile(ctx context.Context, userID string, input usecase.UpdateProfileInput) (*entity.PublicUser, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	updated, err := srv.users.Update(ctx, userID, repository.UserPatch{
		Name:        input.Name,
		ProfileInfo: input.ProfileInfo,
	})
	if err != nil {
		return nil, translate(err)
	}

	return updated.Public(), nil
}
