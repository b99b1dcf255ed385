package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageTypePostgres = "postgres"
	StorageTypeMemory   = "memory"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Storage  StorageConfig
	Punch    PunchConfig
	Cron     CronConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// StorageConfig selects the persistence backend. SeedEmployees is only read
// by the memory backend.
type StorageConfig struct {
	Type          string
	SeedEmployees []SeedEmployee
}

type SeedEmployee struct {
	ID       string
	FullName string
}

// PunchConfig throttles punch requests per employee
type PunchConfig struct {
	RateLimit float64
	RateBurst int
}

// CronConfig drives the background shared credential job. A zero interval
// disables it.
type CronConfig struct {
	SharedRotationInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "qr_attendance"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: autoMigrate,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Local"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	seeds, err := parseSeedEmployees(getEnv("MEMORY_EMPLOYEES", ""))
	if err != nil {
		return nil, err
	}
	config.Storage = StorageConfig{
		Type:          strings.ToLower(getEnv("STORAGE_TYPE", StorageTypePostgres)),
		SeedEmployees: seeds,
	}

	// Punch throttling
	rateLimit, err := strconv.ParseFloat(getEnv("PUNCH_RATE_LIMIT", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_RATE_LIMIT: %w", err)
	}
	rateBurst, err := strconv.Atoi(getEnv("PUNCH_RATE_BURST", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_RATE_BURST: %w", err)
	}
	config.Punch = PunchConfig{RateLimit: rateLimit, RateBurst: rateBurst}

	rotationInterval, err := time.ParseDuration(getEnv("SHARED_ROTATION_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHARED_ROTATION_INTERVAL: %w", err)
	}
	config.Cron = CronConfig{SharedRotationInterval: rotationInterval}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	switch c.Storage.Type {
	case StorageTypePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageTypeMemory:
	default:
		return fmt.Errorf("STORAGE_TYPE must be %q or %q", StorageTypePostgres, StorageTypeMemory)
	}
	if c.Cron.SharedRotationInterval < 0 {
		return fmt.Errorf("SHARED_ROTATION_INTERVAL must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location is the single wall clock every punch and period is read in.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
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

// parseSeedEmployees reads "id:Full Name,id2:Other Name".
func parseSeedEmployees(value string) ([]SeedEmployee, error) {
	if value == "" {
		return nil, nil
	}
	var seeds []SeedEmployee
	for _, entry := range strings.Split(value, ",") {
		id, name, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || id == "" || name == "" {
			return nil, fmt.Errorf("invalid MEMORY_EMPLOYEES entry %q, want id:name", entry)
		}
		seeds = append(seeds, SeedEmployee{ID: id, FullName: name})
	}
	return seeds, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string = strings.Split(value, ",")
	return result
}
