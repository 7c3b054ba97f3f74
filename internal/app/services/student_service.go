package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/app/models/dto"
	"github.com/yigit/ssis/internal/pkg/apperrors"
	"github.com/yigit/ssis/internal/pkg/filestorage"
	"github.com/yigit/ssis/internal/pkg/metrics"
)

// StudentUpdate is the body of an update request, resolved once by the controller.
// It is either a FormUpdate or a JSONUpdate.
type StudentUpdate interface {
	studentFields() dto.StudentRequest
	newImage() *multipart.FileHeader
}

// FormUpdate is a multipart update that may replace the profile image
type FormUpdate struct {
	Fields dto.StudentRequest
	Image  *multipart.FileHeader
}

// JSONUpdate is a JSON update; the profile image is left unchanged
type JSONUpdate struct {
	Fields dto.StudentRequest
}

func (u FormUpdate) studentFields() dto.StudentRequest { return u.Fields }
func (u FormUpdate) newImage() *multipart.FileHeader   { return u.Image }
func (u JSONUpdate) studentFields() dto.StudentRequest { return u.Fields }
func (u JSONUpdate) newImage() *multipart.FileHeader   { return nil }

// StudentService defines the interface for student-related operations
type StudentService interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	CreateStudent(ctx context.Context, req dto.StudentRequest, image *multipart.FileHeader) (int64, error)
	UpdateStudent(ctx context.Context, id int64, update StudentUpdate) error
	DeleteStudent(ctx context.Context, id int64) error
}

type studentServiceImpl struct {
	students StudentStore
	assets   filestorage.AssetStore
	logger   zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(students StudentStore, assets filestorage.AssetStore, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		students: students,
		assets:   assets,
		logger:   logger.With().Str("service", "student").Logger(),
	}
}

// studentFromRequest checks the required fields in order and reports the first missing one
func studentFromRequest(req dto.StudentRequest) (*models.Student, error) {
	s := &models.Student{
		StudentID: strings.TrimSpace(req.StudentID),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Gender:    strings.TrimSpace(req.Gender),
		YearLevel: strings.TrimSpace(req.YearLevel),
		Course:    strings.TrimSpace(req.Course),
	}

	required := []struct {
		field string
		value string
	}{
		{"student_id", s.StudentID},
		{"first_name", s.FirstName},
		{"last_name", s.LastName},
		{"gender", s.Gender},
		{"year_level", s.YearLevel},
		{"course", s.Course},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, apperrors.NewRequiredFieldError(r.field)
		}
	}
	return s, nil
}

// ListStudents returns all students with their college
func (s *studentServiceImpl) ListStudents(ctx context.Context) ([]models.Student, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

func (s *studentServiceImpl) saveImage(image *multipart.FileHeader) (string, error) {
	name, err := s.assets.Save(image)
	metrics.RecordAsset("save", err)
	return name, err
}

func (s *studentServiceImpl) deleteImage(name string) error {
	err := s.assets.Delete(name)
	metrics.RecordAsset("delete", err)
	return err
}

// CreateStudent validates the request, stores the image if any and inserts the row
func (s *studentServiceImpl) CreateStudent(ctx context.Context, req dto.StudentRequest, image *multipart.FileHeader) (int64, error) {
	student, err := studentFromRequest(req)
	if err != nil {
		return 0, err
	}

	exists, err := s.students.StudentIDExists(ctx, student.StudentID)
	if err != nil {
		return 0, fmt.Errorf("error checking student id: %w", err)
	}
	if exists {
		return 0, apperrors.ErrStudentIDAlreadyExists
	}

	if image != nil {
		name, err := s.saveImage(image)
		if err != nil {
			return 0, err
		}
		student.ProfileImage = &name
	}

	id, err := s.students.Create(ctx, student)
	if err != nil {
		// the stored file may be shared with another student of the same
		// file name, so it is left in place
		if student.HasImage() {
			s.logger.Warn().Err(err).Str("file", *student.ProfileImage).Msg("Student insert failed after image was stored")
		}
		if errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
			return 0, err
		}
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	s.logger.Info().Int64("id", id).Str("studentID", student.StudentID).Msg("Student created")
	return id, nil
}

// UpdateStudent replaces every column of the student. A new image is written
// before the row is updated and the previous file is removed afterwards.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, update StudentUpdate) error {
	if update == nil {
		return apperrors.NewValidationError("", "Request body is required.")
	}

	student, err := studentFromRequest(update.studentFields())
	if err != nil {
		return err
	}
	student.ID = id

	current, err := s.students.GetProfileImage(ctx, id)
	if err != nil {
		return err
	}
	student.ProfileImage = current

	image := update.newImage()
	if image != nil {
		name, err := s.saveImage(image)
		if err != nil {
			return err
		}
		student.ProfileImage = &name
	}

	if err := s.students.Update(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) || errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		return fmt.Errorf("error updating student: %w", err)
	}

	if image != nil && current != nil && *current != "" && *current != *student.ProfileImage {
		exists, err := s.assets.Exists(*current)
		if err != nil {
			return err
		}
		if exists {
			if err := s.deleteImage(*current); err != nil {
				return err
			}
		}
	}

	s.logger.Info().Int64("id", id).Bool("imageReplaced", image != nil).Msg("Student updated")
	return nil
}

// DeleteStudent removes the student's image file, then the row
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	current, err := s.students.GetProfileImage(ctx, id)
	if err != nil {
		return err
	}

	if current != nil && *current != "" {
		if err := s.deleteImage(*current); err != nil {
			return err
		}
	}

	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return err
		}
		return fmt.Errorf("error deleting student: %w", err)
	}

	s.logger.Info().Int64("id", id).Msg("Student deleted")
	return nil
}
