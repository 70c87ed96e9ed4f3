// Package files moves filesystem snapshots in and out of an agent workspace.
package files

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Files is a snapshot of a directory tree: slash-separated paths relative to
// the tree root, mapped to file content.
type Files map[string][]byte

// Paths returns the snapshot's paths in sorted order.
func (f Files) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Store materializes snapshots under a single directory.
type Store struct {
	dir string
}

// NewStore returns a Store bound to dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory the store is bound to.
func (s *Store) Dir() string { return s.dir }

// Upload writes every file of snapshot under the store directory, creating
// parent directories as needed. Existing files are overwritten.
func (s *Store) Upload(snapshot Files) error {
	for _, name := range snapshot.Paths() {
		target, err := s.resolve(name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", name, err)
		}
		if err := os.WriteFile(target, snapshot[name], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// Download returns every regular file currently under the store directory.
func (s *Store) Download() (Files, error) {
	snapshot := Files{}
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		snapshot[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", s.dir, err)
	}
	return snapshot, nil
}

// resolve maps a snapshot path onto the filesystem, refusing paths that would
// land outside the store directory.
func (s *Store) resolve(name string) (string, error) {
	cleaned := path.Clean("/" + filepath.ToSlash(name))
	if cleaned == "/" || strings.Contains(name, "\x00") {
		return "", fmt.Errorf("invalid file path %q", name)
	}
	rel := strings.TrimPrefix(cleaned, "/")
	if rel != filepath.ToSlash(filepath.Clean(name)) {
		return "", fmt.Errorf("file path %q escapes workspace", name)
	}
	return filepath.Join(s.dir, filepath.FromSlash(rel)), nil
}
