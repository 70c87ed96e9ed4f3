// Package settings owns the persisted user-level settings file.
//
// The file is TOML. It is held as an ordered node Document so point edits
// (SetValue, CommentOut) rewrite only the key they address and keep every other
// line, including human-written comments, byte-for-byte.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CodexForgeBR/gptme-harness/internal/logging"
)

// ErrIO marks failures reading or writing the settings file.
var ErrIO = errors.New("settings file i/o")

// Store reads and writes a single settings file.
type Store struct {
	path     string
	defaults func() (*Document, error)
	onChange []func()
}

// NewStore returns a Store bound to path. defaults renders the document written
// when the file does not exist yet; nil means an empty document.
func NewStore(path string, defaults func() (*Document, error)) *Store {
	if defaults == nil {
		defaults = func() (*Document, error) { return &Document{}, nil }
	}
	return &Store{path: path, defaults: defaults}
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// OnChange registers fn to run after every successful write.
func (s *Store) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

// Load parses the settings file, creating it from the defaults first when it
// does not exist.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.create()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return doc, nil
}

func (s *Store) create() (*Document, error) {
	def, err := s.defaults()
	if err != nil {
		return nil, fmt.Errorf("render default settings: %w", err)
	}
	if err := s.write(def.Bytes()); err != nil {
		return nil, err
	}
	logging.Infof("Created config file at %s", s.path)

	return Parse(def.Bytes())
}

// Save writes doc back to the settings file and notifies change listeners.
func (s *Store) Save(doc *Document) error {
	if err := s.write(doc.Bytes()); err != nil {
		return err
	}
	for _, fn := range s.onChange {
		fn()
	}
	return nil
}

// SetValue sets the dot-separated keyPath (e.g. "env.API_KEY") to value and
// writes the file. Missing intermediate tables are created. The value is not
// checked against any schema.
func (s *Store) SetValue(keyPath string, value any) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}
	if err := doc.Set(keyPath, value); err != nil {
		return err
	}
	return s.Save(doc)
}

// CommentOut turns the key at keyPath into a "key = value # annotation"
// comment in place. A missing key leaves the document untouched and is not an
// error.
func (s *Store) CommentOut(keyPath, annotation string) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}
	if !doc.CommentOut(keyPath, annotation) {
		logging.Debugf("%s not set, nothing to comment out", keyPath)
	}
	return s.Save(doc)
}

// write replaces the file atomically through a sibling temp file.
func (s *Store) write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create config dir: %w", ErrIO, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrIO, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
