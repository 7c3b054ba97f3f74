package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/app/models/dto"
	"github.com/yigit/ssis/internal/pkg/apperrors"
	"github.com/yigit/ssis/internal/pkg/auth"
)

// UserService defines the interface for user account operations
type UserService interface {
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (int64, error)
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}

type userServiceImpl struct {
	users  UserStore
	logger zerolog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(users UserStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		users:  users,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// ListUsers returns every account without its password
func (s *userServiceImpl) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserResponse{ID: u.ID, Username: u.Username, Role: u.Role})
	}
	return out, nil
}

// CreateUser stores a new account with a bcrypt-hashed password
func (s *userServiceImpl) CreateUser(ctx context.Context, req dto.CreateUserRequest) (int64, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return 0, apperrors.ErrCredentialsRequired
	}

	if len(req.Password) > auth.MaxPasswordBytes {
		return 0, apperrors.ErrPasswordTooLong
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = models.DefaultRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return 0, fmt.Errorf("error hashing password: %w", err)
	}

	id, err := s.users.Create(ctx, &models.User{Username: username, Password: hash, Role: role})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return 0, err
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Int64("id", id).Str("username", username).Str("role", role).Msg("User created")
	return id, nil
}

// EnsureAdmin creates an administrator when no user exists yet. It reports
// whether an account was created.
func (s *userServiceImpl) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	n, err := s.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("error counting users: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	if _, err := s.CreateUser(ctx, dto.CreateUserRequest{Username: username, Password: password, Role: models.RoleAdmin}); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
