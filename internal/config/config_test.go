package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlelieser/avatarmon/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GENERATE_API_BASE_URL", "https://api.example.com")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.GenerationTimeout)
	assert.Equal(t, "avatars", cfg.SupabaseStorageBucket)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("GENERATE_API_BASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATE_API_BASE_URL")

	t.Setenv("GENERATE_API_BASE_URL", "https://api.example.com")
	t.Setenv("JWT_SECRET", "")

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_DurationOverrides(t *testing.T) {
	t.Setenv("GENERATE_API_BASE_URL", "https://api.example.com")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("POLL_INTERVAL", "500ms")
	t.Setenv("GENERATION_TIMEOUT", "1m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, time.Minute, cfg.GenerationTimeout)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("GENERATE_API_BASE_URL", "https://api.example.com")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("POLL_INTERVAL", "soon")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.PollInterval)
}
