package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/ssis/internal/app/models/dto"
	"github.com/yigit/ssis/internal/app/services"
	"github.com/yigit/ssis/internal/middleware"
	"github.com/yigit/ssis/internal/pkg/apperrors"
	"github.com/yigit/ssis/internal/pkg/auth"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	cookies     *auth.CookieWriter
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, cookies *auth.CookieWriter, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

// Login handles user login
// @Summary User login
// @Description Verifies the credentials and sets the access and refresh token cookies
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing username or password"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 429 {object} dto.ErrorResponse "Too many attempts"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrCredentialsRequired)
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.cookies.SetAccess(ctx.Writer, result.AccessToken)
	c.cookies.SetRefresh(ctx.Writer, result.RefreshToken)

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Message:  "Login successful",
		Username: result.User.Username,
		Role:     result.User.Role,
	})
}

// Refresh issues a new access token cookie from the refresh token cookie
// @Summary Refresh access token
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse "Missing, invalid, expired or revoked refresh token"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	refreshToken, err := ctx.Cookie(c.cookies.RefreshName())
	if err != nil || refreshToken == "" {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthorized)
		return
	}

	access, err := c.authService.Refresh(ctx.Request.Context(), refreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.cookies.SetAccess(ctx.Writer, access)
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Token refreshed"})
}

// Me returns the authenticated user
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthorized)
		return
	}

	user, err := c.authService.CurrentUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UserResponse{ID: user.ID, Username: user.Username, Role: user.Role})
}

// Logout clears both cookies and revokes the refresh token when one is sent
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	refreshToken, _ := ctx.Cookie(c.cookies.RefreshName())
	if err := c.authService.Logout(ctx.Request.Context(), refreshToken); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to revoke refresh token on logout")
	}

	c.cookies.Clear(ctx.Writer)
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logout successful"})
}
