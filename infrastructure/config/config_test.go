package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsLambda)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_address: ":9090"
storage_backend: dynamodb
dynamodb_table: maps-from-file
cache_ttl: 15s
rate_limit_per_minute: 120
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DYNAMODB_TABLE", "maps-from-env")
	t.Setenv("TABLE_NAME", "")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, StorageDynamoDB, cfg.StorageBackend)
	assert.Equal(t, "maps-from-env", cfg.DynamoDBTable)
	assert.Equal(t, 15*time.Second, cfg.CacheTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
}

func TestLoadConfig_BadFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.StorageBackend = "postgres" },
			wantErr: "unknown storage backend",
		},
		{
			name:    "auth without secret",
			mutate:  func(c *Config) { c.EnableAuth = true },
			wantErr: "JWT_SECRET",
		},
		{
			name: "production needs auth",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.StorageBackend = StorageDynamoDB
			},
			wantErr: "authentication must be enabled",
		},
		{
			name: "production needs dynamodb",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.EnableAuth = true
				c.JWTSecret = "s3cret"
			},
			wantErr: "dynamodb storage backend",
		},
		{
			name: "valid production",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.EnableAuth = true
				c.JWTSecret = "s3cret"
				c.StorageBackend = StorageDynamoDB
			},
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.RateLimitPerMinute = -1 },
			wantErr: "RATE_LIMIT_PER_MINUTE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
