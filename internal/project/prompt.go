// Package project reads the optional per-workspace gptme.toml and renders the
// files it selects into a system prompt supplement.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/CodexForgeBR/gptme-harness/internal/logging"
)

// FileName is the project configuration file name.
const FileName = "gptme.toml"

// promptHeader introduces the rendered files.
const promptHeader = "\n\nSelected project files, read more with cat:\n"

// ErrProjectFileMissing matches every *FileMissingError.
var ErrProjectFileMissing = errors.New("project file missing")

// FileMissingError reports a path listed in a project config that does not
// exist.
type FileMissingError struct {
	Config string
	Path   string
}

func (e *FileMissingError) Error() string {
	return fmt.Sprintf("file %s specified in project config %s does not exist", e.Path, e.Config)
}

func (e *FileMissingError) Is(target error) bool {
	return target == ErrProjectFileMissing
}

// Config is the project-level configuration, such as which files to include in
// the context by default.
type Config struct {
	Files []string `toml:"files"`
}

// candidates lists where a project config may live, in lookup order.
func candidates(workspace string) []string {
	return []string{
		filepath.Join(workspace, FileName),
		filepath.Join(workspace, ".github", FileName),
	}
}

// Find returns the project config path for workspace, or "" if there is none.
func Find(workspace string) string {
	for _, p := range candidates(workspace) {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadConfig parses a project config file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse project config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logging.Warnf("Unknown keys in project config %s: %v", path, undecoded)
	}
	return &cfg, nil
}

// ExpandFiles resolves the glob patterns of cfg relative to workspace. Pattern
// order is kept, as is the (lexical) match order within each pattern. A
// pattern without glob metacharacters must name an existing file.
func ExpandFiles(workspace, configPath string, cfg *Config) ([]string, error) {
	var files []string
	for _, pattern := range cfg.Files {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(workspace, pattern)
		}

		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q in %s: %w", pattern, configPath, err)
		}
		if len(matches) == 0 && !hasMeta(pattern) {
			return nil, &FileMissingError{Config: configPath, Path: full}
		}
		for _, m := range matches {
			// A match can vanish between globbing and reading.
			if _, err := os.Stat(m); err != nil {
				return nil, &FileMissingError{Config: configPath, Path: m}
			}
			files = append(files, m)
		}
	}
	return files, nil
}

// WorkspacePrompt renders the files selected by the workspace's project config.
// It returns "" when the workspace has no project config.
func WorkspacePrompt(workspace string) (string, error) {
	path := Find(workspace)
	if path == "" {
		return "", nil
	}
	logging.Infof("Using project configuration at %s", withTilde(path))

	cfg, err := LoadConfig(path)
	if err != nil {
		return "", err
	}
	files, err := ExpandFiles(workspace, path, cfg)
	if err != nil {
		logging.Error(err.Error())
		return "", err
	}

	blocks := make([]string, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("read project file: %w", err)
		}
		blocks = append(blocks, fmt.Sprintf("```%s\n%s\n```", filepath.Base(f), content))
	}
	return promptHeader + strings.Join(blocks, "\n\n"), nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[\`)
}

// withTilde shortens paths under the home directory for display.
func withTilde(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.Join("~", rel)
	}
	return path
}
