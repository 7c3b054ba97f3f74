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
)

// CollegeService defines the interface for college-related operations
type CollegeService interface {
	ListColleges(ctx context.Context) ([]models.College, error)
	CreateCollege(ctx context.Context, req dto.CollegeRequest) (*models.College, error)
	UpdateCollege(ctx context.Context, code string, req dto.CollegeRequest) (*models.College, error)
	DeleteCollege(ctx context.Context, code string) error
}

type collegeServiceImpl struct {
	colleges CollegeStore
	logger   zerolog.Logger
}

// NewCollegeService creates a new college service instance
func NewCollegeService(colleges CollegeStore, logger zerolog.Logger) CollegeService {
	return &collegeServiceImpl{
		colleges: colleges,
		logger:   logger.With().Str("service", "college").Logger(),
	}
}

func collegeFromRequest(req dto.CollegeRequest) (*models.College, error) {
	c := &models.College{
		Code: strings.TrimSpace(req.CollegeCode),
		Name: strings.TrimSpace(req.CollegeName),
	}
	if c.Code == "" {
		return nil, apperrors.NewRequiredFieldError("college_code")
	}
	if c.Name == "" {
		return nil, apperrors.NewRequiredFieldError("college_name")
	}
	return c, nil
}

// passThrough reports whether err already carries an API-mappable kind
func passThrough(err error) bool {
	return errors.Is(err, apperrors.ErrResourceNotFound) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrValidationFailed)
}

func (s *collegeServiceImpl) ListColleges(ctx context.Context) ([]models.College, error) {
	colleges, err := s.colleges.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving colleges: %w", err)
	}
	return colleges, nil
}

func (s *collegeServiceImpl) CreateCollege(ctx context.Context, req dto.CollegeRequest) (*models.College, error) {
	c, err := collegeFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.colleges.Create(ctx, c); err != nil {
		if passThrough(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating college: %w", err)
	}
	s.logger.Info().Str("code", c.Code).Msg("College created")
	return c, nil
}

func (s *collegeServiceImpl) UpdateCollege(ctx context.Context, code string, req dto.CollegeRequest) (*models.College, error) {
	c, err := collegeFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.colleges.Update(ctx, code, c); err != nil {
		if passThrough(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating college: %w", err)
	}
	s.logger.Info().Str("code", code).Str("newCode", c.Code).Msg("College updated")
	return c, nil
}

func (s *collegeServiceImpl) DeleteCollege(ctx context.Context, code string) error {
	if err := s.colleges.Delete(ctx, code); err != nil {
		if passThrough(err) {
			return err
		}
		return fmt.Errorf("error deleting college: %w", err)
	}
	s.logger.Info().Str("code", code).Msg("College deleted")
	return nil
}
