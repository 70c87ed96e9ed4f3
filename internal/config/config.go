// Package config resolves the settings the assistant runs with.
//
// A Config combines two sources with a fixed precedence for environment
// lookups: live process environment > the persisted [env] table > the
// caller-supplied default. The persisted file is owned by internal/settings;
// Source is the caller-owned handle that caches the resolved Config and
// rebuilds it after every write.
package config

import (
	"errors"
	"fmt"
	"os"
)

// Texts used in the default prompt section.
const (
	AboutActivityWatch = "ActivityWatch is a free and open-source automated time-tracker that helps you track how you spend your time on your devices."
	AboutGptme         = "gptme is a CLI to interact with large language models in a Chat-style interface, enabling the assistant to execute commands and code on the local machine, letting them assist in all kinds of development and terminal-based work."
)

// ErrMissingKey is returned when a required top-level key is absent from the
// settings file.
var ErrMissingKey = errors.New("required key missing in config")

// ErrMissingEnv matches every *MissingEnvError.
var ErrMissingEnv = errors.New("environment variable not set")

// MissingEnvError reports a required variable found neither in the process
// environment nor in the persisted env table.
type MissingEnvError struct {
	Key string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("environment variable %s not set in env or config, see README", e.Key)
}

func (e *MissingEnvError) Is(target error) bool {
	return target == ErrMissingEnv
}

// EnvLookup resolves the value for an environment variable.
type EnvLookup func(string) (string, bool)

// DefaultEnvLookup reads the process environment.
var DefaultEnvLookup EnvLookup = os.LookupEnv

// Config is the resolved, read-only view of the settings file. Treat the maps
// as immutable; a changed file produces a new Config.
type Config struct {
	Prompt map[string]any
	Env    map[string]string

	lookup EnvLookup
}

// Default returns the configuration written to a fresh settings file.
func Default() *Config {
	return &Config{
		Prompt: map[string]any{
			"about_user":          "I am a curious human programmer.",
			"response_preference": "Basic concepts don't need to be explained.",
			"project": map[string]any{
				"activitywatch": AboutActivityWatch,
				"gptme":         AboutGptme,
			},
		},
		// TOML has no null, so unset variables are simply absent.
		Env: map[string]string{},
	}
}

// Dict returns the config as the document layout persisted on disk.
func (c *Config) Dict() map[string]any {
	env := make(map[string]any, len(c.Env))
	for k, v := range c.Env {
		env[k] = v
	}
	return map[string]any{
		"prompt": c.Prompt,
		"env":    env,
	}
}

// GetEnv returns key from the process environment, falling back to the
// persisted env table and then to def. Empty values count as unset.
func (c *Config) GetEnv(key, def string) string {
	if v := c.lookupEnv(key); v != "" {
		return v
	}
	return def
}

// GetEnvRequired is GetEnv without a default: it fails with a
// *MissingEnvError when key is set nowhere.
func (c *Config) GetEnvRequired(key string) (string, error) {
	if v := c.lookupEnv(key); v != "" {
		return v, nil
	}
	return "", &MissingEnvError{Key: key}
}

func (c *Config) lookupEnv(key string) string {
	lookup := c.lookup
	if lookup == nil {
		lookup = DefaultEnvLookup
	}
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return c.Env[key]
}
