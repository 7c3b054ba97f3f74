package repositories

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/ssis/internal/db"
	"github.com/yigit/ssis/internal/pkg/apperrors"
)

// Repositories holds all the repository instances
type Repositories struct {
	CollegeRepository *CollegeRepository
	ProgramRepository *ProgramRepository
	StudentRepository *StudentRepository
	UserRepository    *UserRepository
	TokenRepository   *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		CollegeRepository: NewCollegeRepository(conn),
		ProgramRepository: NewProgramRepository(conn),
		StudentRepository: NewStudentRepository(conn),
		UserRepository:    NewUserRepository(conn),
		TokenRepository:   NewTokenRepository(conn),
	}
}

// statementBuilder returns a squirrel builder using PostgreSQL placeholders
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// databaseError wraps a driver error so callers can match apperrors.ErrDatabase
func databaseError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", apperrors.ErrDatabase, op, err)
}
