package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/app/models/dto"
	"github.com/yigit/ssis/internal/pkg/apperrors"
)

// ProgramService defines the interface for program-related operations
type ProgramService interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	CreateProgram(ctx context.Context, req dto.ProgramRequest) (*models.Program, error)
	UpdateProgram(ctx context.Context, code string, req dto.ProgramRequest) (*models.Program, error)
	DeleteProgram(ctx context.Context, code string) error
}

type programServiceImpl struct {
	programs ProgramStore
	logger   zerolog.Logger
}

// NewProgramService creates a new program service instance
func NewProgramService(programs ProgramStore, logger zerolog.Logger) ProgramService {
	return &programServiceImpl{
		programs: programs,
		logger:   logger.With().Str("service", "program").Logger(),
	}
}

func programFromRequest(req dto.ProgramRequest) (*models.Program, error) {
	p := &models.Program{
		Code:    strings.TrimSpace(req.ProgramCode),
		Name:    strings.TrimSpace(req.ProgramName),
		College: strings.TrimSpace(req.College),
	}
	switch {
	case p.Code == "":
		return nil, apperrors.NewRequiredFieldError("program_code")
	case p.Name == "":
		return nil, apperrors.NewRequiredFieldError("program_name")
	case p.College == "":
		return nil, apperrors.NewRequiredFieldError("college")
	}
	return p, nil
}

func (s *programServiceImpl) ListPrograms(ctx context.Context) ([]models.Program, error) {
	programs, err := s.programs.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving programs: %w", err)
	}
	return programs, nil
}

func (s *programServiceImpl) CreateProgram(ctx context.Context, req dto.ProgramRequest) (*models.Program, error) {
	p, err := programFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.programs.Create(ctx, p); err != nil {
		if passThrough(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating program: %w", err)
	}
	s.logger.Info().Str("code", p.Code).Str("college", p.College).Msg("Program created")
	return p, nil
}

func (s *programServiceImpl) UpdateProgram(ctx context.Context, code string, req dto.ProgramRequest) (*models.Program, error) {
	p, err := programFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.programs.Update(ctx, code, p); err != nil {
		if passThrough(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating program: %w", err)
	}
	s.logger.Info().Str("code", code).Str("newCode", p.Code).Msg("Program updated")
	return p, nil
}

func (s *programServiceImpl) DeleteProgram(ctx context.Context, code string) error {
	if err := s.programs.Delete(ctx, code); err != nil {
		if passThrough(err) {
			return err
		}
		return fmt.Errorf("error deleting program: %w", err)
	}
	s.logger.Info().Str("code", code).Msg("Program deleted")
	return nil
}
