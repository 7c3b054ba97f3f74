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

// CollegeController handles college-related operations
type CollegeController struct {
	collegeService services.CollegeService
	logger         zerolog.Logger
}

// NewCollegeController creates a new CollegeController
func NewCollegeController(collegeService services.CollegeService, logger zerolog.Logger) *CollegeController {
	return &CollegeController{
		collegeService: collegeService,
		logger:         logger,
	}
}

// ListColleges returns all colleges ordered by code
// @Summary List colleges
// @Tags colleges
// @Produce json
// @Success 200 {array} models.College
// @Router /colleges [get]
func (c *CollegeController) ListColleges(ctx *gin.Context) {
	colleges, err := c.collegeService.ListColleges(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if colleges == nil {
		colleges = []models.College{}
	}
	ctx.JSON(http.StatusOK, colleges)
}

// CreateCollege adds a college
// @Summary Create college
// @Tags colleges
// @Accept json
// @Produce json
// @Param request body dto.CollegeRequest true "College"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Missing field or duplicate code"
// @Router /colleges [post]
func (c *CollegeController) CreateCollege(ctx *gin.Context) {
	var req dto.CollegeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingError(err))
		return
	}

	college, err := c.collegeService.CreateCollege(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreatedResponse{Message: "College added successfully", ID: college.Code})
}

// UpdateCollege replaces a college; a new code cascades to its programs
// @Summary Update college
// @Tags colleges
// @Accept json
// @Produce json
// @Param code path string true "College code"
// @Param request body dto.CollegeRequest true "College"
// @Success 200 {object} dto.CreatedResponse
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Router /colleges/{code} [put]
func (c *CollegeController) UpdateCollege(ctx *gin.Context) {
	var req dto.CollegeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, middleware.BindingError(err))
		return
	}

	college, err := c.collegeService.UpdateCollege(ctx.Request.Context(), ctx.Param("code"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CreatedResponse{Message: "College updated successfully", ID: college.Code})
}

// DeleteCollege removes a college that has no programs
// @Summary Delete college
// @Tags colleges
// @Produce json
// @Param code path string true "College code"
// @Success 200 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "College still has programs"
// @Failure 404 {object} dto.ErrorResponse "College not found"
// @Router /colleges/{code} [delete]
func (c *CollegeController) DeleteCollege(ctx *gin.Context) {
	code := ctx.Param("code")
	if err := c.collegeService.DeleteCollege(ctx.Request.Context(), code); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CreatedResponse{Message: "College deleted successfully", ID: code})
}
