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
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.Equal(t, "openai/gpt-4.1", cfg.Registry.DefaultModel)
	assert.Equal(t, "https://ai-gateway.vercel.sh/v1", cfg.Gateway.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("AI_GATEWAY_API_KEY", "sk-gateway-123")

	configContent := `
server:
  port: "7070"
  env: production
  api_keys: ["sk-client"]
gateway:
  base_url: "http://localhost:9999/v1"
  timeout: 5s
registry:
  default_model: "anthropic/claude-haiku-4-5"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configContent), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, []string{"sk-client"}, cfg.Server.APIKeys)
	assert.Equal(t, "http://localhost:9999/v1", cfg.Gateway.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "sk-gateway-123", cfg.Gateway.APIKey)
	assert.Equal(t, "anthropic/claude-haiku-4-5", cfg.Registry.DefaultModel)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Server:    ServerConfig{Port: "8080", Env: "development"},
		Registry:  RegistryConfig{DefaultModel: "openai/gpt-4.1"},
		RateLimit: RateLimitConfig{RequestsPerSecond: 1, Burst: 1},
	}
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.Registry.DefaultModel = "gpt-4.1"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Server.Port = "http"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Gateway.BaseURL = "not a url"
	assert.Error(t, bad.Validate())
}
