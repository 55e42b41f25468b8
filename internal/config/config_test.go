package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  host: "0.0.0.0"

storage:
  type: "dynamodb"
  dynamodb_table: "marketing-site-prod"
  aws_region: "us-east-1"
  timeout_seconds: 10

cors:
  allowed_origins:
    - "https://ignitesms.io"
    - "http://localhost:5173"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "dynamodb", cfg.Storage.Type)
	assert.Equal(t, "marketing-site-prod", cfg.Storage.DynamoDBTable)
	assert.Equal(t, "us-east-1", cfg.Storage.AWSRegion)
	assert.Equal(t, 10, cfg.Storage.TimeoutSeconds)
	assert.Equal(t, []string{"https://ignitesms.io", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Notify.Enabled)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "server: {}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "dynamodb", cfg.Storage.Type)
	assert.Equal(t, "marketing-site", cfg.Storage.DynamoDBTable)
	assert.Equal(t, "us-west-2", cfg.Storage.AWSRegion)
	assert.Equal(t, 5, cfg.Storage.TimeoutSeconds)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
storage:
  type: "dynamodb"
`)

	t.Setenv("PORT", "9999")
	t.Setenv("STORAGE_TYPE", "local")
	t.Setenv("DYNAMODB_TABLE", "override-table")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("NOTIFY_FROM_ADDRESS", "noreply@ignitesms.io")
	t.Setenv("NOTIFY_TO_ADDRESS", "sales@ignitesms.io")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "override-table", cfg.Storage.DynamoDBTable)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Notify.Enabled)
	assert.Equal(t, "noreply@ignitesms.io", cfg.Notify.FromAddress)
	assert.Equal(t, "sales@ignitesms.io", cfg.Notify.ToAddress)
}

func TestGetAWSProfile(t *testing.T) {
	cfg := StorageConfig{AWSProfile: "dev"}

	t.Setenv("AWS_PROFILE_OVERRIDE", "")
	assert.Equal(t, "dev", cfg.GetAWSProfile())

	t.Setenv("AWS_PROFILE_OVERRIDE", "staging")
	assert.Equal(t, "staging", cfg.GetAWSProfile())

	t.Setenv("AWS_PROFILE_OVERRIDE", "iam")
	assert.Equal(t, "", cfg.GetAWSProfile())
}
