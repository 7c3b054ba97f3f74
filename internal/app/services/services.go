package services

import (
	"context"
	"time"

	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/app/repositories"
)

// Stores consumed by the services. The repositories package satisfies them;
// tests substitute in-memory fakes.

// CollegeStore persists colleges
type CollegeStore interface {
	GetAll(ctx context.Context) ([]models.College, error)
	Create(ctx context.Context, c *models.College) error
	Update(ctx context.Context, code string, c *models.College) error
	Delete(ctx context.Context, code string) error
}

// ProgramStore persists programs
type ProgramStore interface {
	GetAll(ctx context.Context) ([]models.Program, error)
	Create(ctx context.Context, p *models.Program) error
	Update(ctx context.Context, code string, p *models.Program) error
	Delete(ctx context.Context, code string) error
}

// StudentStore persists students
type StudentStore interface {
	List(ctx context.Context) ([]models.Student, error)
	StudentIDExists(ctx context.Context, studentID string) (bool, error)
	GetProfileImage(ctx context.Context, id int64) (*string, error)
	Create(ctx context.Context, s *models.Student) (int64, error)
	Update(ctx context.Context, s *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// UserStore persists users
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, u *models.User) (int64, error)
	UpdatePassword(ctx context.Context, id int64, password string) error
	Count(ctx context.Context) (int64, error)
}

// PasswordStore lists and rewrites stored passwords inside one transaction
type PasswordStore interface {
	ListStoredPasswords(ctx context.Context) ([]models.StoredPassword, error)
	UpdatePassword(ctx context.Context, id int64, password string) error
}

// PasswordTransactor runs fn against a PasswordStore bound to a transaction
type PasswordTransactor interface {
	TransactPasswords(ctx context.Context, fn func(ctx context.Context, store PasswordStore) error) error
}

// TokenStore persists refresh tokens
type TokenStore interface {
	CreateToken(ctx context.Context, token *models.RefreshToken) error
	GetToken(ctx context.Context, jti string) (*models.RefreshToken, error)
	RevokeToken(ctx context.Context, jti string) error
	CleanupExpiredTokens(ctx context.Context, now time.Time, revokedRetention time.Duration) (int64, error)
}

var (
	_ CollegeStore = (*repositories.CollegeRepository)(nil)
	_ ProgramStore = (*repositories.ProgramRepository)(nil)
	_ StudentStore = (*repositories.StudentRepository)(nil)
	_ UserStore    = (*repositories.UserRepository)(nil)
	_ TokenStore   = (*repositories.TokenRepository)(nil)
)

// userTransactor adapts UserRepository.Transact to PasswordTransactor
type userTransactor struct {
	repo *repositories.UserRepository
}

// NewPasswordTransactor wraps the user repository for the password migration
func NewPasswordTransactor(repo *repositories.UserRepository) PasswordTransactor {
	return userTransactor{repo: repo}
}

func (t userTransactor) TransactPasswords(ctx context.Context, fn func(ctx context.Context, store PasswordStore) error) error {
	return t.repo.Transact(ctx, func(ctx context.Context, repo *repositories.UserRepository) error {
		return fn(ctx, repo)
	})
}
