// Package controllers handles HTTP request handling
package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/app/models/dto"
	"github.com/yigit/ssis/internal/app/services"
	"github.com/yigit/ssis/internal/middleware"
	"github.com/yigit/ssis/internal/pkg/apperrors"
)

// StudentController handles student-related operations
type StudentController struct {
	studentService services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// parseStudentID reads the internal id path parameter. A value that is not a
// number can never match a row, so it is reported as not found.
func parseStudentID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrStudentNotFound
	}
	return id, nil
}

// resolveUpdate binds the request body once into the update variant matching its content type
func resolveUpdate(ctx *gin.Context) (services.StudentUpdate, error) {
	if ctx.ContentType() == binding.MIMEJSON {
		var req dto.StudentRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, middleware.BindingError(err)
		}
		return services.JSONUpdate{Fields: req}, nil
	}

	var req dto.StudentFormRequest
	if err := ctx.ShouldBind(&req); err != nil {
		return nil, middleware.BindingError(err)
	}
	return services.FormUpdate{Fields: req.StudentRequest, Image: req.ProfileImage}, nil
}

// ListStudents returns every student
// @Summary List students
// @Description Returns all students ordered by id, with the college resolved through the program
// @Tags students
// @Produce json
// @Success 200 {array} models.Student
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	ctx.JSON(http.StatusOK, students)
}

// CreateStudent adds a student with an optional profile image
// @Summary Create student
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param student_id formData string true "Student ID"
// @Param first_name formData string true "First name"
// @Param last_name formData string true "Last name"
// @Param gender formData string true "Gender"
// @Param year_level formData string true "Year level"
// @Param course formData string true "Program code"
// @Param profile_image formData file false "Profile image"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Missing field or duplicate student ID"
// @Failure 413 {object} dto.ErrorResponse "Upload too large"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	update, err := resolveUpdate(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var (
		req   dto.StudentRequest
		image *multipart.FileHeader
	)
	switch u := update.(type) {
	case services.FormUpdate:
		req, image = u.Fields, u.Image
	case services.JSONUpdate:
		req = u.Fields
	}

	id, err := c.studentService.CreateStudent(ctx.Request.Context(), req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreatedResponse{
		Message: "Student added successfully",
		ID:      id,
	})
}

// UpdateStudent replaces a student's fields and optionally the profile image
// @Summary Update student
// @Description Accepts multipart/form-data (with an optional new profile_image) or a JSON body
// @Tags students
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param id path int true "Student internal id"
// @Success 200 {object} dto.CreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Missing field or duplicate student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, err := parseStudentID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	update, err := resolveUpdate(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if _, ok := update.(services.JSONUpdate); ok {
		c.logger.Debug().Int64("studentID", id).Msg("JSON update, keeping stored profile image")
	}

	if err := c.studentService.UpdateStudent(ctx.Request.Context(), id, update); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CreatedResponse{
		Message: "Student updated successfully",
		ID:      id,
	})
}

// DeleteStudent removes a student and its profile image
// @Summary Delete student
// @Tags students
// @Produce json
// @Param id path int true "Student internal id"
// @Success 200 {object} dto.CreatedResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "File storage error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, err := parseStudentID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.studentService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CreatedResponse{
		Message: "Student deleted successfully",
		ID:      id,
	})
}
