package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CodexForgeBR/gptme-harness/internal/logging"
	"github.com/CodexForgeBR/gptme-harness/internal/settings"
)

// Option customises how a Source resolves configuration.
type Option func(*Source)

// WithEnv supplies a custom environment lookup implementation.
func WithEnv(lookup EnvLookup) Option {
	return func(s *Source) {
		s.lookup = lookup
	}
}

// DefaultPath returns the per-user settings file location:
// $XDG_CONFIG_HOME/gptme/config.toml, or ~/.config/gptme/config.toml.
func DefaultPath(lookup EnvLookup) (string, error) {
	if lookup == nil {
		lookup = DefaultEnvLookup
	}
	if xdg, ok := lookup("XDG_CONFIG_HOME"); ok && xdg != "" {
		return filepath.Join(xdg, "gptme", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gptme", "config.toml"), nil
}

// LogsDir returns the directory conversation logs (and eval workspaces) live
// under: $XDG_DATA_HOME/gptme/logs, or ~/.local/share/gptme/logs.
func LogsDir(lookup EnvLookup) (string, error) {
	if lookup == nil {
		lookup = DefaultEnvLookup
	}
	if xdg, ok := lookup("XDG_DATA_HOME"); ok && xdg != "" {
		return filepath.Join(xdg, "gptme", "logs"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "gptme", "logs"), nil
}

// DefaultDocument renders Default() as a settings document.
func DefaultDocument() (*settings.Document, error) {
	return settings.FromMap(Default().Dict())
}

// NewStore returns a settings store for path seeded with DefaultDocument.
func NewStore(path string) *settings.Store {
	return settings.NewStore(path, DefaultDocument)
}

// Load resolves a Config from the settings store. Both "prompt" and "env" must
// be present; any other top-level key is reported and ignored.
func Load(store *settings.Store, lookup EnvLookup) (*Config, error) {
	doc, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	m, err := doc.Map()
	if err != nil {
		return nil, err
	}
	return fromMap(m, lookup)
}

func fromMap(m map[string]any, lookup EnvLookup) (*Config, error) {
	rawPrompt, ok := m["prompt"]
	if !ok {
		return nil, fmt.Errorf("%w: prompt", ErrMissingKey)
	}
	rawEnv, ok := m["env"]
	if !ok {
		return nil, fmt.Errorf("%w: env", ErrMissingKey)
	}

	prompt, ok := rawPrompt.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("prompt must be a table, got %T", rawPrompt)
	}
	envTable, ok := rawEnv.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("env must be a table, got %T", rawEnv)
	}
	env := make(map[string]string, len(envTable))
	for k, v := range envTable {
		if s, isString := v.(string); isString {
			env[k] = s
		} else {
			env[k] = fmt.Sprint(v)
		}
	}

	var unknown []string
	for k := range m {
		if k != "prompt" && k != "env" {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		logging.Warnf("Unknown keys in config: %s", strings.Join(unknown, ", "))
	}

	return &Config{Prompt: prompt, Env: env, lookup: lookup}, nil
}

// Source is a caller-owned handle on the resolved configuration. It caches one
// Config and drops it whenever the underlying store is written, so the next
// Config call reflects the file. A Source is not safe for concurrent writes.
type Source struct {
	store  *settings.Store
	lookup EnvLookup
	cached *Config
}

// NewSource binds a Source to store.
func NewSource(store *settings.Store, opts ...Option) *Source {
	s := &Source{store: store, lookup: DefaultEnvLookup}
	for _, opt := range opts {
		opt(s)
	}
	store.OnChange(func() { s.cached = nil })
	return s
}

// Store returns the settings store backing s.
func (s *Source) Store() *settings.Store { return s.store }

// Config returns the cached Config, loading it on first use.
func (s *Source) Config() (*Config, error) {
	if s.cached != nil {
		return s.cached, nil
	}
	return s.Reload()
}

// Reload rebuilds the Config from the settings file.
func (s *Source) Reload() (*Config, error) {
	cfg, err := Load(s.store, s.lookup)
	if err != nil {
		return nil, err
	}
	s.cached = cfg
	return cfg, nil
}

// SetValue writes keyPath through the store and rebuilds the Config.
func (s *Source) SetValue(keyPath string, value any) error {
	if err := s.store.SetValue(keyPath, value); err != nil {
		return err
	}
	_, err := s.Reload()
	return err
}

// CommentOut comments keyPath out through the store and rebuilds the Config.
func (s *Source) CommentOut(keyPath, annotation string) error {
	if err := s.store.CommentOut(keyPath, annotation); err != nil {
		return err
	}
	_, err := s.Reload()
	return err
}
