package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Auth     AuthConfig
	Log      LogConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver       string
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	SlowQuery    time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Environment       string
	Port              string
	DefaultFiscalYear int
	CORSAllowOrigins  string
	SentryDSN         string
}

// AuthConfig holds token settings
type AuthConfig struct {
	JWTSecret    string
	TokenExpires time.Duration
	Required     bool
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string
	File  string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	var errs []error
	intVar := func(key string, fallback int) int {
		v, err := getEnvInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	tokenSeconds := intVar("JWT_ACCESS_TOKEN_EXPIRES", 86400)
	slowMillis := intVar("SLOW_QUERY_MS", 200)

	authRequired, err := getEnvBool("AUTH_REQUIRED", false)
	if err != nil {
		errs = append(errs, err)
	}

	config := &Config{
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:          getEnv("SQLALCHEMY_DATABASE_URI", getEnv("DATABASE_URL", "")),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			DBName:       getEnv("DB_NAME", "sales_analytics"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: intVar("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns: intVar("DB_MAX_IDLE_CONNS", 10),
			SlowQuery:    time.Duration(slowMillis) * time.Millisecond,
		},
		App: AppConfig{
			Environment:       getEnv("APP_ENV", "development"),
			Port:              getEnv("APP_PORT", "5000"),
			DefaultFiscalYear: intVar("DEFAULT_FISCAL_YEAR", 2024),
			CORSAllowOrigins:  getEnv("CORS_ALLOW_ORIGINS", "*"),
			SentryDSN:         getEnv("SENTRY_DSN", ""),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET_KEY", ""),
			TokenExpires: time.Duration(tokenSeconds) * time.Second,
			Required:     authRequired,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	switch config.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", config.Database.Driver))
	}

	if config.IsProduction() && config.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY must be set in production"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return config, nil
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

// IsDevelopment reports whether APP_ENV is development
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.Environment, "development")
}

// GetDSN returns the database connection string for the configured driver
func (c *DatabaseConfig) GetDSN() string {
	if c.URL != "" {
		return c.URL
	}
	switch c.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	case "sqlite":
		return c.DBName + ".db"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("%s must be a boolean, got %q", key, value)
	}
	return b, nil
}
