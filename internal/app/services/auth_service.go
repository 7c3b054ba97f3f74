package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/pkg/apperrors"
	"github.com/yigit/ssis/internal/pkg/auth"
	"github.com/yigit/ssis/internal/pkg/metrics"
)

// revokedTokenRetention is how long revoked refresh tokens are kept for auditing
const revokedTokenRetention = 7 * 24 * time.Hour

// LoginResult holds the authenticated user and the tokens to set as cookies
type LoginResult struct {
	User         *models.User
	AccessToken  *auth.IssuedToken
	RefreshToken *auth.IssuedToken
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.IssuedToken, error)
	CurrentUser(ctx context.Context, userID int64) (*models.User, error)
	Logout(ctx context.Context, refreshToken string) error
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type authServiceImpl struct {
	users      UserStore
	tokens     TokenStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
	now        func() time.Time
	dummyHash  string
}

// NewAuthService creates a new auth service instance
func NewAuthService(users UserStore, tokens TokenStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	s := &authServiceImpl{
		users:      users,
		tokens:     tokens,
		jwtService: jwtService,
		logger:     logger.With().Str("service", "auth").Logger(),
		now:        time.Now,
	}
	// compared against when the username is unknown so both failures take similar time
	if h, err := auth.HashPassword("ssis-unknown-user"); err == nil {
		s.dummyHash = h
	}
	return s
}

// Login verifies the credentials and issues an access and a refresh token.
// A plaintext credential is replaced by a hash after a successful login.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.ErrCredentialsRequired
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			if s.dummyHash != "" {
				auth.CheckPassword(s.dummyHash, password)
			}
			metrics.RecordLogin("invalid")
			s.logger.Info().Str("username", username).Msg("Login failed: unknown user")
			return nil, apperrors.ErrLoginFailed
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	credential := auth.ParseCredential(user.Password)
	if !credential.Verify(password) {
		metrics.RecordLogin("invalid")
		s.logger.Info().Str("username", username).Msg("Login failed: wrong password")
		return nil, apperrors.ErrLoginFailed
	}

	if credential.NeedsRehash() {
		s.rehash(ctx, user, password)
	}

	access, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.CreateToken(ctx, &models.RefreshToken{
		JTI:       refresh.JTI,
		UserID:    user.ID,
		ExpiresAt: refresh.ExpiresAt,
	}); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	metrics.RecordLogin("success")
	s.logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("User logged in")

	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// rehash upgrades a plaintext credential; failure does not fail the login
func (s *authServiceImpl) rehash(ctx context.Context, user *models.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to hash legacy password")
		return
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to store rehashed password")
		return
	}
	user.Password = hash
	metrics.RecordRehash(1)
	s.logger.Info().Int64("userID", user.ID).Msg("Legacy plaintext password rehashed")
}

// Refresh validates a refresh token and issues a new access token
func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*auth.IssuedToken, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	stored, err := s.tokens.GetToken(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if !stored.ExpiresAt.After(s.now()) {
		return nil, apperrors.ErrTokenExpired
	}
	if stored.UserID != claims.UserID {
		return nil, apperrors.ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	return s.jwtService.GenerateAccessToken(user)
}

// CurrentUser returns the user behind an access token
func (s *authServiceImpl) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// Logout revokes the refresh token when one is presented. An absent or
// unusable token is not an error; the caller clears the cookies regardless.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.jwtService.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Logout with unusable refresh token")
		return nil
	}

	if err := s.tokens.RevokeToken(ctx, claims.ID); err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return nil
		}
		return fmt.Errorf("error revoking refresh token: %w", err)
	}

	s.logger.Info().Int64("userID", claims.UserID).Msg("User logged out")
	return nil
}

// PurgeExpiredTokens deletes expired refresh tokens and old revoked ones
func (s *authServiceImpl) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.tokens.CleanupExpiredTokens(ctx, s.now(), revokedTokenRetention)
	if err != nil {
		return 0, err
	}
	metrics.RecordTokensPurged(n)
	return n, nil
}
