package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory so no config.toml or .env leaks in
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func setProductionBase(t *testing.T) {
	t.Helper()
	t.Setenv("ERP_APP_ENV", "production")
	t.Setenv("ERP_JWT_ENABLED", "true")
	t.Setenv("ERP_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
	t.Setenv("ERP_DATABASE_PASSWORD", "secure-password")
	t.Setenv("ERP_DATABASE_SSLMODE", "require")
	t.Setenv("ERP_SWAGGER_ENABLED", "false")
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "procurement", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "procurement", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, "procurement:", cfg.Redis.KeyPrefix)
	assert.True(t, cfg.Event.ProcessorEnabled)
	assert.Equal(t, 5*time.Second, cfg.Event.PollInterval)
	assert.Equal(t, 24*time.Hour, cfg.HTTP.IdempotencyTTL)
	assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Idempotency-Key")
	assert.Equal(t, "purchase-orders", cfg.Storage.DispatchPrefix)
	assert.False(t, cfg.Storage.Enabled)
	assert.False(t, cfg.Printing.Enabled)
	assert.Equal(t, "A4", cfg.Printing.PaperSize)
	assert.Equal(t, 30*time.Second, cfg.Printing.Timeout)
	assert.Equal(t, "procurement", cfg.Telemetry.ServiceName)
	assert.False(t, cfg.JWT.Enabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := isolate(t)
	t.Setenv("ERP_APP_PORT", "9000")
	t.Setenv("ERP_DATABASE_HOST", "db.internal")
	t.Setenv("ERP_DATABASE_MAX_OPEN_CONNS", "50")
	t.Setenv("ERP_DATABASE_MAX_IDLE_CONNS", "10")
	t.Setenv("ERP_REDIS_ENABLED", "false")
	t.Setenv("ERP_EVENT_POLL_INTERVAL", "2s")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Event.PollInterval)
}

func TestLoad_ConfigFileAndDotEnv(t *testing.T) {
	dir := isolate(t)
	toml := `
[app]
name = "po-service"

[storage]
enabled = true
bucket = "dispatch"
use_path_style = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ERP_DATABASE_USER=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ERP_DATABASE_USER") })

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "po-service", cfg.App.Name)
	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, "dispatch", cfg.Storage.Bucket)
	assert.True(t, cfg.Storage.UsePathStyle)
	assert.Equal(t, "from-dotenv", cfg.Database.User)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "idle conns cannot exceed open conns",
			env:     map[string]string{"ERP_DATABASE_MAX_OPEN_CONNS": "10", "ERP_DATABASE_MAX_IDLE_CONNS": "20"},
			wantErr: "cannot exceed",
		},
		{
			name:    "idle conns cannot be negative",
			env:     map[string]string{"ERP_DATABASE_MAX_IDLE_CONNS": "-1"},
			wantErr: "max_idle_conns cannot be negative",
		},
		{
			name:    "jwt needs a secret when enabled",
			env:     map[string]string{"ERP_JWT_ENABLED": "true"},
			wantErr: "jwt.secret is required",
		},
		{
			name:    "storage needs a bucket when enabled",
			env:     map[string]string{"ERP_STORAGE_ENABLED": "true"},
			wantErr: "storage.bucket is required",
		},
		{
			name:    "sampling ratio is bounded",
			env:     map[string]string{"ERP_TELEMETRY_SAMPLING_RATIO": "1.5"},
			wantErr: "sampling_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadFrom(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ProductionValidation(t *testing.T) {
	t.Run("valid production config", func(t *testing.T) {
		dir := isolate(t)
		setProductionBase(t)

		cfg, err := LoadFrom(dir)
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("short jwt secret", func(t *testing.T) {
		dir := isolate(t)
		setProductionBase(t)
		t.Setenv("ERP_JWT_SECRET", "short-secret")

		_, err := LoadFrom(dir)
		assert.ErrorContains(t, err, "at least 32 characters")
	})

	t.Run("auth must be enabled", func(t *testing.T) {
		dir := isolate(t)
		setProductionBase(t)
		t.Setenv("ERP_JWT_ENABLED", "false")

		_, err := LoadFrom(dir)
		assert.ErrorContains(t, err, "jwt.enabled must be true")
	})

	t.Run("ssl required", func(t *testing.T) {
		dir := isolate(t)
		setProductionBase(t)
		t.Setenv("ERP_DATABASE_SSLMODE", "disable")

		_, err := LoadFrom(dir)
		assert.ErrorContains(t, err, "database.sslmode cannot be 'disable'")
	})

	t.Run("open swagger refused", func(t *testing.T) {
		dir := isolate(t)
		setProductionBase(t)
		t.Setenv("ERP_SWAGGER_ENABLED", "true")

		_, err := LoadFrom(dir)
		assert.ErrorContains(t, err, "swagger endpoint must be disabled or IP restricted")
	})

	t.Run("wildcard cors refused", func(t *testing.T) {
		dir := isolate(t)
		setProductionBase(t)
		t.Setenv("ERP_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := LoadFrom(dir)
		assert.ErrorContains(t, err, "cors_allow_origins")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "pass@word#123",
		DBName:   "procurement",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "/procurement")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "pass%40word%23123")
}
