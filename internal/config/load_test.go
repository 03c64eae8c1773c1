package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets environment variables for the duration of the test. An empty
// value unsets the variable.
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
		if value == "" {
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

// TestLoadDefaults verifies the defaults applied when only required values are set.
func TestLoadDefaults(t *testing.T) {
	setupEnv(t, map[string]string{
		"WRAPPED_LLM_GEMINI_API_KEY": "test-api-key",
		"WRAPPED_SERVER_PORT":        "",
		"WRAPPED_SERVER_LOG_LEVEL":   "",
		"WRAPPED_CACHE_BACKEND":      "",
		"WRAPPED_ARCHIVE_BACKEND":    "",
	})

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeoutSeconds)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 24, cfg.Cache.TTLHours)
	assert.Equal(t, "memory", cfg.Archive.Backend)
	assert.Equal(t, "gpt-image-1", cfg.Images.Model)
	assert.Equal(t, 8, cfg.Generation.MaxConcurrency)
	assert.Equal(t, 60, cfg.LLM.CallTimeoutSeconds)
}

// TestLoadFromEnv verifies that environment variables override defaults.
func TestLoadFromEnv(t *testing.T) {
	setupEnv(t, map[string]string{
		"WRAPPED_SERVER_PORT":                "9090",
		"WRAPPED_SERVER_LOG_LEVEL":           "debug",
		"WRAPPED_LLM_GEMINI_API_KEY":         "env-key",
		"WRAPPED_CACHE_BACKEND":              "redis",
		"WRAPPED_CACHE_REDIS_URL":            "redis://localhost:6379/0",
		"WRAPPED_ARCHIVE_BACKEND":            "gcs",
		"WRAPPED_ARCHIVE_BUCKET":             "wrapped-decks",
		"WRAPPED_ONCHAIN_REPUTATION_URL":     "https://reputation.example.com/v1",
		"WRAPPED_GENERATION_GENERATORS_FILE": "generators.yaml",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "env-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, "wrapped-decks", cfg.Archive.Bucket)
	assert.Equal(t, "https://reputation.example.com/v1", cfg.Onchain.ReputationURL)
	assert.Equal(t, "generators.yaml", cfg.Generation.GeneratorsFile)
}

// TestLoadFromFile verifies that a config file is read and env still wins.
func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
server:
  port: 7070
  log_level: warn
llm:
  gemini_api_key: file-key
generation:
  max_concurrency: 3
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	setupEnv(t, map[string]string{
		"WRAPPED_SERVER_PORT":        "7171",
		"WRAPPED_LLM_GEMINI_API_KEY": "",
		"WRAPPED_SERVER_LOG_LEVEL":   "",
	})

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 7171, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Server.LogLevel)
	assert.Equal(t, "file-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, 3, cfg.Generation.MaxConcurrency)

	_, err = LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// TestLoadValidationErrors verifies that invalid configuration is rejected.
func TestLoadValidationErrors(t *testing.T) {
	base := map[string]string{
		"WRAPPED_LLM_GEMINI_API_KEY": "test-api-key",
		"WRAPPED_SERVER_PORT":        "",
		"WRAPPED_SERVER_LOG_LEVEL":   "",
		"WRAPPED_CACHE_BACKEND":      "",
		"WRAPPED_CACHE_REDIS_URL":    "",
		"WRAPPED_ARCHIVE_BACKEND":    "",
		"WRAPPED_ARCHIVE_BUCKET":     "",
	}

	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "valid", env: map[string]string{}},
		{name: "missing gemini key", env: map[string]string{"WRAPPED_LLM_GEMINI_API_KEY": ""}, wantErr: true},
		{name: "port out of range", env: map[string]string{"WRAPPED_SERVER_PORT": "70000"}, wantErr: true},
		{name: "bad log level", env: map[string]string{"WRAPPED_SERVER_LOG_LEVEL": "verbose"}, wantErr: true},
		{name: "unknown cache backend", env: map[string]string{"WRAPPED_CACHE_BACKEND": "memcached"}, wantErr: true},
		{name: "redis without url", env: map[string]string{"WRAPPED_CACHE_BACKEND": "redis"}, wantErr: true},
		{name: "gcs without bucket", env: map[string]string{"WRAPPED_ARCHIVE_BACKEND": "gcs"}, wantErr: true},
		{
			name: "gcs with bucket",
			env: map[string]string{
				"WRAPPED_ARCHIVE_BACKEND": "gcs",
				"WRAPPED_ARCHIVE_BUCKET":  "decks",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := make(map[string]string, len(base)+len(tc.env))
			for k, v := range base {
				env[k] = v
			}
			for k, v := range tc.env {
				env[k] = v
			}
			setupEnv(t, env)

			cfg, err := Load()
			if tc.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, cfg)
		})
	}
}
