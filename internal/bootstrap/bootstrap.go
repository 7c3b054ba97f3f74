package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/ssis/internal/app/controllers"
	appMigrations "github.com/yigit/ssis/internal/app/migrations"
	appRepos "github.com/yigit/ssis/internal/app/repositories"
	appRoutes "github.com/yigit/ssis/internal/app/routes"
	appServices "github.com/yigit/ssis/internal/app/services"
	"github.com/yigit/ssis/internal/config"
	"github.com/yigit/ssis/internal/db"
	appMiddleware "github.com/yigit/ssis/internal/middleware"
	pkgAuth "github.com/yigit/ssis/internal/pkg/auth"
	"github.com/yigit/ssis/internal/pkg/filestorage"
	"github.com/yigit/ssis/internal/pkg/helpers"
	"github.com/yigit/ssis/internal/pkg/logger"
	"github.com/yigit/ssis/internal/scheduler"
	"github.com/yigit/ssis/internal/seed"
)

// limiterIdleTTL is how long an idle client keeps its login rate limit state
const limiterIdleTTL = 10 * time.Minute

// Dependencies holds all the application dependencies
type Dependencies struct {
	StudentService appServices.StudentService
	CollegeService appServices.CollegeService
	ProgramService appServices.ProgramService
	UserService    appServices.UserService
	AuthService    appServices.AuthService

	Handlers appRoutes.Handlers

	Repos        *appRepos.Repositories
	JWTService   *pkgAuth.JWTService
	Cookies      *pkgAuth.CookieWriter
	LoginLimiter *appMiddleware.RateLimiter
	FileStorage  *filestorage.LocalStorage
	Logger       zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Str("path", cfg.Database.MigrationsDir).Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, cfg.Database.MigrationsDir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	pkgAuth.BcryptCost = cfg.Auth.BcryptCost
	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 15*time.Minute),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	sameSite, err := pkgAuth.ParseSameSite(cfg.Cookies.SameSite)
	if err != nil {
		return nil, err
	}
	deps.Cookies = pkgAuth.NewCookieWriter(pkgAuth.CookieConfig{
		AccessName:  cfg.Cookies.AccessName,
		RefreshName: cfg.Cookies.RefreshName,
		AccessPath:  cfg.Cookies.AccessPath,
		RefreshPath: cfg.Cookies.RefreshPath,
		Domain:      cfg.Cookies.Domain,
		Secure:      cfg.Cookies.Secure,
		HTTPOnly:    cfg.Cookies.HTTPOnly,
		SameSite:    sameSite,
	})

	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, deps.FileStorage, lgr)
	deps.CollegeService = appServices.NewCollegeService(deps.Repos.CollegeRepository, lgr)
	deps.ProgramService = appServices.NewProgramService(deps.Repos.ProgramRepository, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, lgr)
	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.Repos.TokenRepository, deps.JWTService, lgr)

	deps.LoginLimiter = appMiddleware.NewRateLimiter(cfg.Auth.LoginRatePerSecond, cfg.Auth.LoginBurst)

	deps.Handlers = appRoutes.Handlers{
		Auth:           appControllers.NewAuthController(deps.AuthService, deps.Cookies, lgr),
		Student:        appControllers.NewStudentController(deps.StudentService, lgr),
		College:        appControllers.NewCollegeController(deps.CollegeService, lgr),
		Program:        appControllers.NewProgramController(deps.ProgramService, lgr),
		User:           appControllers.NewUserController(deps.UserService, lgr),
		Upload:         appControllers.NewUploadController(deps.FileStorage),
		Health:         appControllers.NewHealthController(database.Pool),
		AuthMiddleware: appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Cookies.AccessName()),
		LoginLimiter:   deps.LoginLimiter,
	}

	return deps, nil
}

// SeedDefaultData creates the configured bootstrap admin when the users table is empty
func SeedDefaultData(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if err := seed.CreateDefaultData(ctx, deps.UserService, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, deps.Logger); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterValidatorTagNames()

	router := gin.New()
	router.MaxMultipartMemory = cfg.Storage.MaxUploadBytes
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(),
		appMiddleware.Metrics(),
		appMiddleware.CORS(cfg.Server.AllowedOrigins),
		appMiddleware.RequestTimeout(helpers.ParseDuration(cfg.Server.RequestTimeout, 15*time.Second)),
		appMiddleware.BodyLimit(cfg.Storage.MaxUploadBytes),
	)
	router.NoRoute(appMiddleware.NoRoute())

	appRoutes.SetupRouter(router, deps.Handlers, cfg.Auth.ProtectRoutes)
	if !cfg.Auth.ProtectRoutes {
		lgr.Warn().Msg("Route protection disabled: resource routes accept unauthenticated requests")
	}

	return router
}

// SetupScheduler registers the maintenance jobs
func SetupScheduler(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*scheduler.Scheduler, error) {
	s := scheduler.New(lgr, time.Minute)

	if err := s.Add("refresh-token-cleanup", cfg.Jobs.TokenCleanupSchedule, func(ctx context.Context) error {
		_, err := deps.AuthService.PurgeExpiredTokens(ctx)
		return err
	}); err != nil {
		return nil, err
	}

	if err := s.Add("login-limiter-cleanup", "@every 10m", func(ctx context.Context) error {
		removed := deps.LoginLimiter.Cleanup(limiterIdleTTL)
		lgr.Debug().Int("removed", removed).Msg("Login rate limiter entries pruned")
		return nil
	}); err != nil {
		return nil, err
	}

	return s, nil
}
