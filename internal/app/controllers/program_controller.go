package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/app/models/dto"
	"github.com/yigit/ssis/internal/app/services"
	"github.com/yigit/ssis/internal/middleware"
)

// ProgramController handles program-related operations
type ProgramController struct {
	programService services.ProgramService
	logger         zerolog.Logger
}

// NewProgramController creates a new ProgramController
func NewProgramController(programService services.ProgramService, logger zerolog.Logger) *ProgramController {
	return &ProgramController{
		programService: programService,
		logger:         logger,
	}
}

// ListPrograms returns all programs ordered by code
// @Summary List programs
// @Tags programs
// @Produce json
// @Success 200 {array} models.Program
// @Router /programs [get]
func (c *ProgramController) ListPrograms(ctx *gin.Context) {
	programs, err := c.programService.ListPrograms(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if programs == nil {
		programs = []models.Program{}
	}
	ctx.JSON(http.StatusOK, programs)
}

// CreateProgram adds a program under an existing college
// @Summary Create program
// @Tags programs
// @Accept json
// @Produce json
// @Param request body dto.ProgramRequest true "Program"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Missing field, duplicate code or unknown college"
// @Router /programs [post]
func (c *ProgramController) CreateProgram(ctx *gin.Context) {
	var req dto.ProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingError(err))
		return
	}

	program, err := c.programService.CreateProgram(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreatedResponse{Message: "Program added successfully", ID: program.Code})
}

// UpdateProgram replaces a program; students follow a renamed code
// @Summary Update program
// @Tags programs
// @Accept json
// @Produce json
// @Param code path string true "Program code"
// @Param request body dto.ProgramRequest true "Program"
// @Success 200 {object} dto.CreatedResponse
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Router /programs/{code} [put]
func (c *ProgramController) UpdateProgram(ctx *gin.Context) {
	var req dto.ProgramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingError(err))
		return
	}

	program, err := c.programService.UpdateProgram(ctx.Request.Context(), ctx.Param("code"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CreatedResponse{Message: "Program updated successfully", ID: program.Code})
}

// DeleteProgram removes a program no student is enrolled in
// @Summary Delete program
// @Tags programs
// @Produce json
// @Param code path string true "Program code"
// @Success 200 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Program still has students"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Router /programs/{code} [delete]
func (c *ProgramController) DeleteProgram(ctx *gin.Context) {
	code := ctx.Param("code")
	if err := c.programService.DeleteProgram(ctx.Request.Context(), code); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CreatedResponse{Message: "Program deleted successfully", ID: code})
}
