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

// ProgramRepository handles program database operations
type ProgramRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewProgramRepository creates a new ProgramRepository
func NewProgramRepository(conn db.DBTX) *ProgramRepository {
	return &ProgramRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// programWriteError maps constraint violations raised by program writes
func programWriteError(op string, err error) error {
	switch {
	case dberrors.IsUniqueViolation(err):
		return apperrors.ErrProgramAlreadyExists
	case dberrors.IsForeignKeyViolation(err):
		return apperrors.ErrUnknownProgramCollege
	default:
		return databaseError(op, err)
	}
}

// GetAll retrieves all programs ordered by code
func (r *ProgramRepository) GetAll(ctx context.Context) ([]models.Program, error) {
	sql, args, err := r.sb.Select("program_code", "program_name", "college").
		From("programs").
		OrderBy("program_code ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all programs SQL")
		return nil, fmt.Errorf("failed to build get all programs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all programs query")
		return nil, databaseError("querying programs", err)
	}
	defer rows.Close()

	programs := []models.Program{}
	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.Code, &p.Name, &p.College); err != nil {
			logger.Error().Err(err).Msg("Error scanning program row")
			return nil, databaseError("scanning program row", err)
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating program rows")
		return nil, databaseError("iterating program rows", err)
	}

	return programs, nil
}

// GetByCode retrieves a program by its code
func (r *ProgramRepository) GetByCode(ctx context.Context, code string) (*models.Program, error) {
	sql, args, err := r.sb.Select("program_code", "program_name", "college").
		From("programs").
		Where(squirrel.Eq{"program_code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get program SQL")
		return nil, fmt.Errorf("failed to build get program query: %w", err)
	}

	p := &models.Program{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.Code, &p.Name, &p.College); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgramNotFound
		}
		logger.Error().Err(err).Str("programCode", code).Msg("Error scanning program row")
		return nil, databaseError("getting program", err)
	}
	return p, nil
}

// Create inserts a new program
func (r *ProgramRepository) Create(ctx context.Context, p *models.Program) error {
	sql, args, err := r.sb.Insert("programs").
		Columns("program_code", "program_name", "college").
		Values(p.Code, p.Name, p.College).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create program SQL")
		return fmt.Errorf("failed to build create program query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		mapped := programWriteError("creating program", err)
		if errors.Is(mapped, apperrors.ErrDatabase) {
			logger.Error().Err(err).Str("programCode", p.Code).Msg("Error executing create program query")
		}
		return mapped
	}
	return nil
}

// Update replaces the program identified by code. When the code changes, the
// students enrolled under the old code are moved to the new one in the same transaction.
func (r *ProgramRepository) Update(ctx context.Context, code string, p *models.Program) error {
	updateSQL, updateArgs, err := r.sb.Update("programs").
		Set("program_code", p.Code).
		Set("program_name", p.Name).
		Set("college", p.College).
		Where(squirrel.Eq{"program_code": code}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update program SQL")
		return fmt.Errorf("failed to build update program query: %w", err)
	}

	cascadeSQL, cascadeArgs, err := r.sb.Update("students").
		Set("course", p.Code).
		Where(squirrel.Eq{"course": code}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building cascade program code SQL")
		return fmt.Errorf("failed to build cascade program code query: %w", err)
	}

	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, updateSQL, updateArgs...)
		if err != nil {
			mapped := programWriteError("updating program", err)
			if errors.Is(mapped, apperrors.ErrDatabase) {
				logger.Error().Err(err).Str("programCode", code).Msg("Error executing update program query")
			}
			return mapped
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrProgramNotFound
		}

		if p.Code == code {
			return nil
		}

		moved, err := tx.Exec(ctx, cascadeSQL, cascadeArgs...)
		if err != nil {
			logger.Error().Err(err).Str("from", code).Str("to", p.Code).Msg("Error moving students to renamed program")
			return databaseError("moving students to renamed program", err)
		}
		logger.Info().Str("from", code).Str("to", p.Code).Int64("students", moved.RowsAffected()).Msg("Program code renamed")
		return nil
	})
}

// Delete removes a program that no student references
func (r *ProgramRepository) Delete(ctx context.Context, code string) error {
	var hasStudents bool
	checkSQL, checkArgs, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"course": code}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building check students SQL")
		return fmt.Errorf("failed to build check students query: %w", err)
	}

	if err := r.db.QueryRow(ctx, checkSQL, checkArgs...).Scan(&hasStudents); err != nil {
		logger.Error().Err(err).Str("programCode", code).Msg("Error checking enrolled students")
		return databaseError("checking enrolled students", err)
	}
	if hasStudents {
		return apperrors.ErrProgramHasStudents
	}

	sql, args, err := r.sb.Delete("programs").
		Where(squirrel.Eq{"program_code": code}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete program SQL")
		return fmt.Errorf("failed to build delete program query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("programCode", code).Msg("Error executing delete program query")
		return databaseError("deleting program", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProgramNotFound
	}
	return nil
}
