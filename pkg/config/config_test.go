package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTables(t *testing.T) {
	t.Setenv("DYNAMODB_REQUESTS_TABLE_NAME", "requests")
	t.Setenv("DYNAMODB_WALLETS_TABLE_NAME", "wallets")
	t.Setenv("DYNAMODB_AUDIT_TABLE_NAME", "audit")
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		setTables(t)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, BackendDynamoDB, cfg.StoreBackend)
		assert.Equal(t, 10*time.Minute, cfg.DisplayNameTTL)
		assert.Equal(t, 5, cfg.TxMaxAttempts)
		assert.Equal(t, 24*time.Hour, cfg.StaleApprovalThreshold)
		assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	})

	t.Run("Overrides", func(t *testing.T) {
		setTables(t)
		t.Setenv("HTTP_PORT", "9090")
		t.Setenv("TX_MAX_ATTEMPTS", "8")
		t.Setenv("DISPLAY_NAME_TTL", "30s")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://console.example.com, https://ops.example.com")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.HTTPPort)
		assert.Equal(t, 8, cfg.TxMaxAttempts)
		assert.Equal(t, 30*time.Second, cfg.DisplayNameTTL)
		assert.Equal(t, []string{"https://console.example.com", "https://ops.example.com"}, cfg.CORSAllowedOrigins)
	})

	t.Run("Memory Backend Needs No Tables", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "memory")
		t.Setenv("DYNAMODB_REQUESTS_TABLE_NAME", "")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, BackendMemory, cfg.StoreBackend)
	})

	t.Run("Missing Tables", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "dynamodb")
		t.Setenv("DYNAMODB_REQUESTS_TABLE_NAME", "")

		_, err := Load()

		assert.ErrorContains(t, err, "table name")
	})

	t.Run("Invalid Values Are Reported Together", func(t *testing.T) {
		setTables(t)
		t.Setenv("TX_MAX_ATTEMPTS", "lots")
		t.Setenv("STALE_APPROVAL_THRESHOLD", "-1h")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "TX_MAX_ATTEMPTS")
		assert.Contains(t, err.Error(), "STALE_APPROVAL_THRESHOLD")
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "postgres")

		_, err := Load()

		assert.ErrorContains(t, err, "STORE_BACKEND")
	})
}
