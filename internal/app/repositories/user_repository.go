package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/db"
	"github.com/yigit/ssis/internal/pkg/apperrors"
	"github.com/yigit/ssis/internal/pkg/dberrors"
	"github.com/yigit/ssis/internal/pkg/logger"
)

// UserRepository handles user database operations
type UserRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(conn db.DBTX) *UserRepository {
	return &UserRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// Transact runs fn with a repository bound to a single transaction
func (r *UserRepository) Transact(ctx context.Context, fn func(ctx context.Context, repo *UserRepository) error) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewUserRepository(tx))
	})
}

// List retrieves every user ordered by id. Passwords are not selected.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	sql, args, err := r.sb.Select("id", "username", "role", "created_at").
		From("users").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list users SQL")
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list users query")
		return nil, databaseError("querying users", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning user row")
			return nil, databaseError("scanning user row", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating user rows")
		return nil, databaseError("iterating user rows", err)
	}
	return users, nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	sql, args, err := r.sb.Select("id", "username", "password", "role", "created_at").
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	u := &models.User{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.Username, &u.Password, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, databaseError("getting user", err)
	}
	return u, nil
}

// GetByUsername retrieves a user, including the stored password, by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// Create inserts a user and returns its id. The password must already be hashed.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	sql, args, err := r.sb.Insert("users").
		Columns("username", "password", "role").
		Values(u.Username, u.Password, u.Role).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrUsernameAlreadyExists
		}
		logger.Error().Err(err).Str("username", u.Username).Msg("Error executing create user query")
		return 0, databaseError("creating user", err)
	}
	return id, nil
}

// UpdatePassword replaces the stored password of a user
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, password string) error {
	sql, args, err := r.sb.Update("users").
		Set("password", password).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", id).Msg("Error executing update password query")
		return databaseError("updating password", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Count returns the number of users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("users").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count users query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Msg("Error counting users")
		return 0, databaseError("counting users", err)
	}
	return n, nil
}

// ListStoredPasswords returns every user's stored password, locking the rows
// when called inside a transaction
func (r *UserRepository) ListStoredPasswords(ctx context.Context) ([]models.StoredPassword, error) {
	sql, args, err := r.sb.Select("id", "password").
		From("users").
		OrderBy("id ASC").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list passwords query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list passwords query")
		return nil, databaseError("querying passwords", err)
	}
	defer rows.Close()

	var out []models.StoredPassword
	for rows.Next() {
		var sp models.StoredPassword
		if err := rows.Scan(&sp.UserID, &sp.Password); err != nil {
			return nil, databaseError("scanning password row", err)
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, databaseError("iterating password rows", err)
	}
	return out, nil
}
