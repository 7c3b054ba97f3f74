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

// CollegeRepository handles college database operations
type CollegeRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCollegeRepository creates a new CollegeRepository
func NewCollegeRepository(conn db.DBTX) *CollegeRepository {
	return &CollegeRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// GetAll retrieves all colleges ordered by code
func (r *CollegeRepository) GetAll(ctx context.Context) ([]models.College, error) {
	sql, args, err := r.sb.Select("college_code", "college_name").
		From("colleges").
		OrderBy("college_code ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all colleges SQL")
		return nil, fmt.Errorf("failed to build get all colleges query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all colleges query")
		return nil, databaseError("querying colleges", err)
	}
	defer rows.Close()

	colleges := []models.College{}
	for rows.Next() {
		var c models.College
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			logger.Error().Err(err).Msg("Error scanning college row")
			return nil, databaseError("scanning college row", err)
		}
		colleges = append(colleges, c)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating college rows")
		return nil, databaseError("iterating college rows", err)
	}

	return colleges, nil
}

// GetByCode retrieves a college by its code
func (r *CollegeRepository) GetByCode(ctx context.Context, code string) (*models.College, error) {
	sql, args, err := r.sb.Select("college_code", "college_name").
		From("colleges").
		Where(squirrel.Eq{"college_code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get college SQL")
		return nil, fmt.Errorf("failed to build get college query: %w", err)
	}

	c := &models.College{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.Code, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCollegeNotFound
		}
		logger.Error().Err(err).Str("collegeCode", code).Msg("Error scanning college row")
		return nil, databaseError("getting college", err)
	}
	return c, nil
}

// Create inserts a new college
func (r *CollegeRepository) Create(ctx context.Context, c *models.College) error {
	sql, args, err := r.sb.Insert("colleges").
		Columns("college_code", "college_name").
		Values(c.Code, c.Name).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create college SQL")
		return fmt.Errorf("failed to build create college query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCollegeAlreadyExists
		}
		logger.Error().Err(err).Str("collegeCode", c.Code).Msg("Error executing create college query")
		return databaseError("creating college", err)
	}
	return nil
}

// Update replaces the college identified by code. Renaming the code cascades
// to programs through the foreign key.
func (r *CollegeRepository) Update(ctx context.Context, code string, c *models.College) error {
	sql, args, err := r.sb.Update("colleges").
		Set("college_code", c.Code).
		Set("college_name", c.Name).
		Where(squirrel.Eq{"college_code": code}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update college SQL")
		return fmt.Errorf("failed to build update college query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCollegeAlreadyExists
		}
		logger.Error().Err(err).Str("collegeCode", code).Msg("Error executing update college query")
		return databaseError("updating college", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCollegeNotFound
	}
	return nil
}

// Delete removes a college that no program references
func (r *CollegeRepository) Delete(ctx context.Context, code string) error {
	var hasPrograms bool
	checkSQL, checkArgs, err := r.sb.Select("1").
		From("programs").
		Where(squirrel.Eq{"college": code}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building check programs SQL")
		return fmt.Errorf("failed to build check programs query: %w", err)
	}

	if err := r.db.QueryRow(ctx, checkSQL, checkArgs...).Scan(&hasPrograms); err != nil {
		logger.Error().Err(err).Str("collegeCode", code).Msg("Error checking associated programs")
		return databaseError("checking associated programs", err)
	}
	if hasPrograms {
		return apperrors.ErrCollegeHasPrograms
	}

	sql, args, err := r.sb.Delete("colleges").
		Where(squirrel.Eq{"college_code": code}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete college SQL")
		return fmt.Errorf("failed to build delete college query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCollegeHasPrograms
		}
		logger.Error().Err(err).Str("collegeCode", code).Msg("Error executing delete college query")
		return databaseError("deleting college", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCollegeNotFound
	}
	return nil
}

// Exists reports whether a college with the given code exists
func (r *CollegeRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	sql, args, err := r.sb.Select("1").
		From("colleges").
		Where(squirrel.Eq{"college_code": code}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build college exists query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("collegeCode", code).Msg("Error checking college existence")
		return false, databaseError("checking college", err)
	}
	return exists, nil
}
