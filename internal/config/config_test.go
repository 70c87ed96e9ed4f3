package config_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/gptme-harness/internal/config"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := config.Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "I am a curious human programmer.", cfg.Prompt["about_user"])
	assert.Equal(t, "Basic concepts don't need to be explained.", cfg.Prompt["response_preference"])

	project, ok := cfg.Prompt["project"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, config.AboutActivityWatch, project["activitywatch"])
	assert.Equal(t, config.AboutGptme, project["gptme"])

	assert.Empty(t, cfg.Env)
}

func TestDictLayout(t *testing.T) {
	cfg := &config.Config{
		Prompt: map[string]any{"about_user": "me"},
		Env:    map[string]string{"A": "1"},
	}

	d := cfg.Dict()
	assert.Equal(t, map[string]any{"about_user": "me"}, d["prompt"])
	assert.Equal(t, map[string]any{"A": "1"}, d["env"])
}

func TestGetEnvPrefersProcessEnvironment(t *testing.T) {
	t.Setenv("GPTME_TEST_FOO", "live")
	cfg := &config.Config{Env: map[string]string{"GPTME_TEST_FOO": "stale"}}

	assert.Equal(t, "live", cfg.GetEnv("GPTME_TEST_FOO", "default"))
}

func TestGetEnvFallsBackToPersistedThenDefault(t *testing.T) {
	cfg := &config.Config{Env: map[string]string{"GPTME_TEST_PERSISTED": "stale"}}

	assert.Equal(t, "stale", cfg.GetEnv("GPTME_TEST_PERSISTED", "default"))
	assert.Equal(t, "default", cfg.GetEnv("GPTME_TEST_NOWHERE", "default"))
	assert.Equal(t, "", cfg.GetEnv("GPTME_TEST_NOWHERE", ""))
}

func TestGetEnvTreatsEmptyProcessValueAsUnset(t *testing.T) {
	t.Setenv("GPTME_TEST_EMPTY", "")
	cfg := &config.Config{Env: map[string]string{"GPTME_TEST_EMPTY": "persisted"}}

	assert.Equal(t, "persisted", cfg.GetEnv("GPTME_TEST_EMPTY", ""))
}

func TestGetEnvRequired(t *testing.T) {
	t.Setenv("GPTME_TEST_LIVE", "live")
	cfg := &config.Config{Env: map[string]string{"GPTME_TEST_PERSISTED": "stale"}}

	v, err := cfg.GetEnvRequired("GPTME_TEST_LIVE")
	require.NoError(t, err)
	assert.Equal(t, "live", v)

	v, err = cfg.GetEnvRequired("GPTME_TEST_PERSISTED")
	require.NoError(t, err)
	assert.Equal(t, "stale", v)

	_, err = cfg.GetEnvRequired("GPTME_TEST_NOWHERE")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingEnv)

	var missing *config.MissingEnvError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "GPTME_TEST_NOWHERE", missing.Key)
}
