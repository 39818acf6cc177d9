package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestInitialize_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Initialize(context.Background(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, DefaultDueDiligenceURL, cfg.Services.DueDiligenceURL)
	assert.Equal(t, "/upload", cfg.Services.UploadPath)
	assert.Equal(t, 5*time.Second, cfg.Compliance.PollInterval)
	assert.Equal(t, 3, cfg.Compliance.MaxPollFailures)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.NATSEnabled())
}

func TestInitialize_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv("CASEDESK_TEST_DD_HOST", "https://dd.staging.example.law")
	dir := writeConfig(t, `
backend:
  base_url: https://api.staging.example.law/
compliance:
  poll_interval: 2s
services:
  due_diligence_url: "{{.CASEDESK_TEST_DD_HOST}}"
nats:
  url: nats://127.0.0.1:4222
`)

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ConfigDir())
	assert.Equal(t, "https://api.staging.example.law", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout, "unset field keeps default")
	assert.Equal(t, 2*time.Second, cfg.Compliance.PollInterval)
	assert.Equal(t, 3, cfg.Compliance.MaxPollFailures)
	assert.Equal(t, "https://dd.staging.example.law", cfg.Services.DueDiligenceURL)
	assert.Equal(t, DefaultUploadURL, cfg.Services.UploadURL)
	assert.True(t, cfg.NATSEnabled())
	assert.Equal(t, "casedesk", cfg.NATS.Name)
}

func TestInitialize_EnvOverridesYAML(t *testing.T) {
	dir := writeConfig(t, "backend:\n  base_url: https://from-yaml.example.law\n")
	t.Setenv("CASEDESK_API_URL", "https://from-env.example.law")
	t.Setenv("CASEDESK_POLL_INTERVAL", "10s")
	t.Setenv("CASEDESK_MAX_POLL_FAILURES", "1")
	t.Setenv("CASEDESK_HTTP_PORT", "9090")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.example.law", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Compliance.PollInterval)
	assert.Equal(t, 1, cfg.Compliance.MaxPollFailures)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestInitialize_IgnoresUnprefixedEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("API_URL", "https://unrelated.example.com")
	t.Setenv("HTTP_PORT", "3000")
	t.Setenv("POLL_INTERVAL", "1ms")
	t.Setenv("NATS_URL", "nats://unrelated:4222")

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, cfg.Backend.BaseURL)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Compliance.PollInterval)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.False(t, cfg.NATSEnabled())
}

func TestInitialize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr error
		wantMsg string
	}{
		{
			name:    "invalid YAML",
			yaml:    "backend: [unclosed",
			wantErr: ErrInvalidYAML,
			wantMsg: "failed to load configuration",
		},
		{
			name:    "invalid URL",
			yaml:    "backend:\n  base_url: not a url\n",
			wantErr: ErrValidationFailed,
			wantMsg: "base_url",
		},
		{
			name:    "non-positive poll interval",
			yaml:    "compliance:\n  poll_interval: -1s\n",
			wantErr: ErrValidationFailed,
			wantMsg: "poll_interval",
		},
		{
			name:    "bad env duration",
			env:     map[string]string{"CASEDESK_API_TIMEOUT": "soon"},
			wantMsg: "environment overrides",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			dir := writeConfig(t, tt.yaml)

			_, err := Initialize(context.Background(), dir)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestInitialize_ValidationErrorIsTyped(t *testing.T) {
	dir := writeConfig(t, "server:\n  port: http\n")

	_, err := Initialize(context.Background(), dir)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "server", vErr.Section)
	assert.Equal(t, "port", vErr.Field)
}
