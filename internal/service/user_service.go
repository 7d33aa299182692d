package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/auth"
	"github.com/spec-kit/membership-service/internal/config"
	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/repository"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// ProfileUpdateInput carries partial profile changes; nil fields are
// left untouched.
type ProfileUpdateInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
}

// UserService covers profile self-service and admin user management.
type UserService struct {
	users      repository.UserRepository
	logger     *zap.Logger
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(cfg config.AuthConfig, users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger, bcryptCost: cfg.BcryptCost}
}

// GetProfile loads the caller's account.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("user", nil)
	}
	return user, err
}

// UpdateProfile merges the provided fields over the stored account. An
// email change re-checks uniqueness.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*input.Email))
		if newEmail != user.Email {
			if existing, err := s.users.GetByEmail(ctx, newEmail); err == nil && existing.ID != userID {
				return nil, apperrors.NewConflict("email already in use", nil)
			} else if err != nil && err != pgx.ErrNoRows {
				return nil, err
			}
			user.Email = newEmail
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the caller's account. The application row, if
// any, goes with it via the store's cascade.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.users.Delete(ctx, userID)
	if err == pgx.ErrNoRows {
		return apperrors.NewNotFound("user", nil)
	}
	return err
}

// CreateAdmin provisions an admin account. Restricted to superadmin at
// the route level.
func (s *UserService) CreateAdmin(ctx context.Context, firstName, lastName, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	admin := &domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: &hash,
		Provider:     domain.ProviderEmail,
		Role:         domain.RoleAdmin,
		Stage:        domain.StageNewAccount,
		Verified:     true,
		Active:       true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("admin account created", zap.String("email", admin.Email))
	return admin, nil
}

// ListUsers returns all accounts for admin review.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes an account by id (admin action).
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	err := s.users.Delete(ctx, id)
	if err == pgx.ErrNoRows {
		return apperrors.NewNotFound("user", nil)
	}
	return err
}
