package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	App      AppConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	Leave    LeaveConfig
	Storage  StorageConfig
	Import   ImportConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// MongoConfig holds the document store used for employee history and shared login codes
type MongoConfig struct {
	URI  string
	Name string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	PublicURL   string
	FrontendURL string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// AuthConfig holds the shared dashboard password and the login code settings
type AuthConfig struct {
	PasswordHash string
	HREmail      string
	CodeStore    string // "memory" or "mongo"
	CodeTTL      time.Duration
}

type LeaveConfig struct {
	MonthlyAccrual  decimal.Decimal
	AccrualSchedule string
	TimeZone        string
}

type StorageConfig struct {
	Type     string
	BasePath string
}

type ImportConfig struct {
	TemplatesPath string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.ParseInt(getEnv("DB_MIN_CONNS", "2"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	config.Mongo = MongoConfig{
		URI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Name: getEnv("MONGO_DB", "hris_attendance"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		PublicURL:   strings.TrimRight(getEnv("PUBLIC_URL", fmt.Sprintf("http://localhost:%d", appPort)), "/"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@localhost"),
		FromName: getEnv("SMTP_FROM_NAME", "HR Attendance"),
	}

	codeTTL, err := time.ParseDuration(getEnv("LOGIN_CODE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_CODE_TTL: %w", err)
	}

	config.Auth = AuthConfig{
		PasswordHash: getEnv("AUTH_PASSWORD_HASH", ""),
		HREmail:      getEnv("HR_EMAIL", ""),
		CodeStore:    getEnv("LOGIN_CODE_STORE", "memory"),
		CodeTTL:      codeTTL,
	}

	accrual, err := decimal.NewFromString(getEnv("LEAVE_MONTHLY_ACCRUAL", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_MONTHLY_ACCRUAL: %w", err)
	}

	config.Leave = LeaveConfig{
		MonthlyAccrual:  accrual,
		AccrualSchedule: getEnv("LEAVE_ACCRUAL_SCHEDULE", ""),
		TimeZone:        getEnv("LEAVE_ACCRUAL_TIMEZONE", "Asia/Kolkata"),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./data"),
	}

	config.Import = ImportConfig{
		TemplatesPath: getEnv("MACHINE_TEMPLATES_PATH", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.MaxConns < 1 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS, and DB_MAX_CONNS at least 1")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Auth.PasswordHash == "" {
		return fmt.Errorf("AUTH_PASSWORD_HASH is required")
	}
	if c.Auth.HREmail == "" {
		return fmt.Errorf("HR_EMAIL is required")
	}
	if c.Auth.CodeStore != "memory" && c.Auth.CodeStore != "mongo" {
		return fmt.Errorf("LOGIN_CODE_STORE must be memory or mongo")
	}
	if !c.Leave.MonthlyAccrual.IsPositive() {
		return fmt.Errorf("LEAVE_MONTHLY_ACCRUAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
