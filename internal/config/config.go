package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string   `yaml:"port" env:"SERVER_PORT"`
		Mode            string   `yaml:"mode" env:"SERVER_MODE"`
		RequestTimeout  string   `yaml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT"`
		ShutdownTimeout string   `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
		AllowedOrigins  []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxConns        int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
		MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Cookies struct {
		Secure      bool   `yaml:"secure" env:"COOKIE_SECURE"`
		HTTPOnly    bool   `yaml:"httponly" env:"COOKIE_HTTPONLY"`
		SameSite    string `yaml:"samesite" env:"COOKIE_SAMESITE"`
		Domain      string `yaml:"domain" env:"COOKIE_DOMAIN"`
		AccessName  string `yaml:"access_name" env:"COOKIE_ACCESS_NAME"`
		RefreshName string `yaml:"refresh_name" env:"COOKIE_REFRESH_NAME"`
		AccessPath  string `yaml:"access_path" env:"COOKIE_ACCESS_PATH"`
		RefreshPath string `yaml:"refresh_path" env:"COOKIE_REFRESH_PATH"`
	} `yaml:"cookies"`

	Auth struct {
		ProtectRoutes      bool    `yaml:"protect_routes" env:"AUTH_PROTECT_ROUTES"`
		LoginRatePerSecond float64 `yaml:"login_rate_per_second" env:"AUTH_LOGIN_RATE_PER_SECOND"`
		LoginBurst         int     `yaml:"login_burst" env:"AUTH_LOGIN_BURST"`
		BcryptCost         int     `yaml:"bcrypt_cost" env:"AUTH_BCRYPT_COST"`
		AdminUsername      string  `yaml:"admin_username" env:"AUTH_ADMIN_USERNAME"`
		AdminPassword      string  `yaml:"admin_password" env:"AUTH_ADMIN_PASSWORD"`
	} `yaml:"auth"`

	Storage struct {
		Path           string `yaml:"path" env:"STORAGE_PATH"`
		MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"STORAGE_MAX_UPLOAD_BYTES"`
	} `yaml:"storage"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Jobs struct {
		TokenCleanupSchedule string `yaml:"token_cleanup_schedule" env:"JOBS_TOKEN_CLEANUP_SCHEDULE"`
	} `yaml:"jobs"`
}

// LoadConfig loads configuration from a file, a .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional; real environment variables take precedence over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.RequestTimeout = "15s"
	config.Server.ShutdownTimeout = "10s"
	config.Server.AllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "ssis"
	config.Database.SSLMode = "disable"
	config.Database.MaxConns = 10
	config.Database.MinConns = 1
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = "15m"
	config.JWT.RefreshTokenExpiration = "720h"
	config.JWT.Issuer = "ssis"

	config.Cookies.HTTPOnly = true
	config.Cookies.SameSite = "Lax"
	config.Cookies.AccessName = "access_token_cookie"
	config.Cookies.RefreshName = "refresh_token_cookie"
	config.Cookies.AccessPath = "/"
	config.Cookies.RefreshPath = "/api/auth"

	config.Auth.ProtectRoutes = true
	config.Auth.LoginRatePerSecond = 1
	config.Auth.LoginBurst = 5
	config.Auth.BcryptCost = 12

	config.Storage.Path = "uploads"
	config.Storage.MaxUploadBytes = 5 << 20

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Jobs.TokenCleanupSchedule = "@hourly"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"server request timeout":           config.Server.RequestTimeout,
		"server shutdown timeout":          config.Server.ShutdownTimeout,
		"database connection max lifetime": config.Database.ConnMaxLifetime,
		"JWT access token expiration":      config.JWT.AccessTokenExpiration,
		"JWT refresh token expiration":     config.JWT.RefreshTokenExpiration,
	}
	for name, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	switch strings.ToLower(config.Cookies.SameSite) {
	case "lax", "strict":
	case "none":
		if !config.Cookies.Secure {
			return fmt.Errorf("cookies with SameSite=None must be Secure")
		}
	default:
		return fmt.Errorf("unknown cookie SameSite value %q", config.Cookies.SameSite)
	}

	if config.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}
	if config.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("storage max_upload_bytes must be positive")
	}

	if config.Auth.LoginRatePerSecond <= 0 || config.Auth.LoginBurst <= 0 {
		return fmt.Errorf("login rate limit must be positive")
	}
	if config.Auth.BcryptCost < 4 || config.Auth.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be between 4 and 31")
	}

	if config.Database.MaxConns < 1 || config.Database.MinConns < 0 || config.Database.MinConns > config.Database.MaxConns {
		return fmt.Errorf("invalid database pool sizes (min %d, max %d)", config.Database.MinConns, config.Database.MaxConns)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// IsProduction reports whether the server runs in release mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production" || c.Server.Mode == "release"
}
