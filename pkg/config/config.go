// Package config reads the service configuration from the environment.
// A .env file in the working directory is loaded first when present.
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

// Store backends.
const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// Config holds every setting of the API and the lambdas.
type Config struct {
	HTTPPort     string
	StoreBackend string

	RequestsTable string
	WalletsTable  string
	AuditTable    string
	UsersTable    string

	EventsQueueURL string

	RedisAddr      string
	RedisPassword  string
	DisplayNameTTL time.Duration

	TxMaxAttempts          int
	CORSAllowedOrigins     []string
	StaleApprovalThreshold time.Duration
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var errs []error
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", BackendDynamoDB)),
		RequestsTable:  os.Getenv("DYNAMODB_REQUESTS_TABLE_NAME"),
		WalletsTable:   os.Getenv("DYNAMODB_WALLETS_TABLE_NAME"),
		AuditTable:     os.Getenv("DYNAMODB_AUDIT_TABLE_NAME"),
		UsersTable:     os.Getenv("DYNAMODB_USERS_TABLE_NAME"),
		EventsQueueURL: os.Getenv("SQS_EVENTS_QUEUE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),

		DisplayNameTTL:         getDuration("DISPLAY_NAME_TTL", 10*time.Minute, &errs),
		TxMaxAttempts:          getInt("TX_MAX_ATTEMPTS", 5, &errs),
		CORSAllowedOrigins:     getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		StaleApprovalThreshold: getDuration("STALE_APPROVAL_THRESHOLD", 24*time.Hour, &errs),
	}

	switch cfg.StoreBackend {
	case BackendDynamoDB:
		if cfg.RequestsTable == "" || cfg.WalletsTable == "" || cfg.AuditTable == "" {
			errs = append(errs, errors.New("one or more DynamoDB table name environment variables are not set"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendDynamoDB, BackendMemory, cfg.StoreBackend))
	}
	if cfg.TxMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("TX_MAX_ATTEMPTS must be at least 1, got %d", cfg.TxMaxAttempts))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s must be a positive duration, got %q", key, v))
		return fallback
	}
	return d
}

func getInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer, got %q", key, v))
		return fallback
	}
	return n
}
