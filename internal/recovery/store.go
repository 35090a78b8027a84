// Package recovery persists raw post input across failed runs. The
// recovery file exists exactly when a prior run captured input but did
// not complete the insertion.
package recovery

import (
	"errors"
	"os"
	"strings"

	"github.com/google/renameio"
)

// Store keeps the raw input of an unfinished run at a fixed path.
type Store struct {
	Path string
}

// NewStore returns a Store over the given path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Exists reports whether a recovery file is present.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.Path)
	return err == nil && info.Mode().IsRegular()
}

// Read returns the recovery file's content.
func (s *Store) Read() (string, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Write persists raw input before any rendering starts, overwriting any
// prior content. What lands on disk is the trimmed input plus exactly one
// trailing newline.
func (s *Store) Write(raw string) error {
	return renameio.WriteFile(s.Path, []byte(strings.TrimSpace(raw)+"\n"), 0o644)
}

// Clear removes the recovery file after a successful insertion. A missing
// file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
