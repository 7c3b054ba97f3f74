package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/ssis/internal/app/controllers"
	"github.com/yigit/ssis/internal/middleware"
	"github.com/yigit/ssis/internal/pkg/metrics"
)

// Handlers groups the controllers and middleware mounted by SetupRouter
type Handlers struct {
	Auth           *controllers.AuthController
	Student        *controllers.StudentController
	College        *controllers.CollegeController
	Program        *controllers.ProgramController
	User           *controllers.UserController
	Upload         *controllers.UploadController
	Health         *controllers.HealthController
	AuthMiddleware *middleware.AuthMiddleware
	LoginLimiter   *middleware.RateLimiter
}

// SetupRouter configures all application routes. When protect is false the
// resource routes are reachable without an access token.
func SetupRouter(router *gin.Engine, h Handlers, protect bool) {
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/uploads/:filename", h.Upload.ServeFile)

	api := router.Group("/api")
	api.GET("/health", h.Health.Health)
	api.GET("/uploads/:filename", h.Upload.ServeFile)

	// --- Public Auth routes ---
	api.POST("/login", h.LoginLimiter.Handler(), h.Auth.Login)
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.LoginLimiter.Handler(), h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", h.AuthMiddleware.RequireAuth(), h.Auth.Me)
	}

	// --- Resource routes ---
	resources := api.Group("")
	if protect {
		resources.Use(h.AuthMiddleware.RequireAuth())
	}

	students := resources.Group("/students")
	{
		students.GET("", h.Student.ListStudents)
		students.POST("", h.Student.CreateStudent)
		students.PUT("/:id", h.Student.UpdateStudent)
		students.DELETE("/:id", h.Student.DeleteStudent)
	}

	users := resources.Group("/users")
	{
		users.GET("", h.User.ListUsers)
		users.POST("", h.User.CreateUser)
	}

	colleges := resources.Group("/colleges")
	{
		colleges.GET("", h.College.ListColleges)
		colleges.POST("", h.College.CreateCollege)
		colleges.PUT("/:code", h.College.UpdateCollege)
		colleges.DELETE("/:code", h.College.DeleteCollege)
	}

	programs := resources.Group("/programs")
	{
		programs.GET("", h.Program.ListPrograms)
		programs.POST("", h.Program.CreateProgram)
		programs.PUT("/:code", h.Program.UpdateProgram)
		programs.DELETE("/:code", h.Program.DeleteProgram)
	}
}
