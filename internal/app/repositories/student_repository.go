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

// StudentRepository handles student database operations
type StudentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(conn db.DBTX) *StudentRepository {
	return &StudentRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// studentColumns are selected with the college resolved through the student's program
var studentColumns = []string{
	"s.id", "s.student_id", "s.first_name", "s.last_name", "s.gender",
	"s.year_level", "s.course", "p.college", "s.profile_image",
}

func (r *StudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(studentColumns...).
		From("students s").
		LeftJoin("programs p ON s.course = p.program_code")
}

func scanStudent(row pgx.Row, s *models.Student) error {
	return row.Scan(&s.ID, &s.StudentID, &s.FirstName, &s.LastName, &s.Gender,
		&s.YearLevel, &s.Course, &s.College, &s.ProfileImage)
}

// List retrieves every student ordered by id. College is null when the
// student's course matches no program.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	sql, args, err := r.selectStudents().OrderBy("s.id ASC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, databaseError("querying students", err)
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		var s models.Student
		if err := scanStudent(rows, &s); err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, databaseError("scanning student row", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, databaseError("iterating student rows", err)
	}

	return students, nil
}

// GetByID retrieves a student by internal id
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.selectStudents().
		Where(squirrel.Eq{"s.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s := &models.Student{}
	if err := scanStudent(r.db.QueryRow(ctx, sql, args...), s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error scanning student row")
		return nil, databaseError("getting student", err)
	}
	return s, nil
}

// StudentIDExists reports whether the external student id is already taken
func (r *StudentRepository) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	sql, args, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"student_id": studentID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build student id exists query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error checking student id")
		return false, databaseError("checking student id", err)
	}
	return exists, nil
}

// GetProfileImage returns the stored image name of a student, nil when none
func (r *StudentRepository) GetProfileImage(ctx context.Context, id int64) (*string, error) {
	sql, args, err := r.sb.Select("profile_image").
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile image query: %w", err)
	}

	var image *string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&image); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error getting profile image")
		return nil, databaseError("getting profile image", err)
	}
	return image, nil
}

// Create inserts a student and returns its generated id
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("student_id", "first_name", "last_name", "gender", "year_level", "course", "profile_image").
		Values(s.StudentID, s.FirstName, s.LastName, s.Gender, s.YearLevel, s.Course, s.ProfileImage).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrStudentIDAlreadyExists
		}
		logger.Error().Err(err).Str("studentID", s.StudentID).Msg("Error executing create student query")
		return 0, databaseError("creating student", err)
	}
	return id, nil
}

// Update overwrites every column of the student identified by s.ID
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	sql, args, err := r.sb.Update("students").
		Set("student_id", s.StudentID).
		Set("first_name", s.FirstName).
		Set("last_name", s.LastName).
		Set("gender", s.Gender).
		Set("year_level", s.YearLevel).
		Set("course", s.Course).
		Set("profile_image", s.ProfileImage).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrStudentIDAlreadyExists
		}
		logger.Error().Err(err).Int64("id", s.ID).Msg("Error executing update student query")
		return databaseError("updating student", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student row
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error executing delete student query")
		return databaseError("deleting student", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
