// Package cache persists normalized catalog artifacts on disk and decides,
// against a fixed daily reset boundary, when they must be regenerated.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound reports that an artifact has never been written.
var ErrNotFound = errors.New("artifact not found")

// Store reads and writes per-entity artifacts under a content directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the artifact file path for the kind.
func (s *Store) Path(kind Kind) string {
	return filepath.Join(s.dir, kind.Filename())
}

// ModTime returns the artifact's last-write timestamp, or ErrNotFound.
func (s *Store) ModTime(kind Kind) (time.Time, error) {
	info, err := os.Stat(s.Path(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", kind.Filename(), err)
	}
	return info.ModTime(), nil
}

// Age returns the duration since the artifact was last written, or
// ErrNotFound.
func (s *Store) Age(kind Kind) (time.Duration, error) {
	mod, err := s.ModTime(kind)
	if err != nil {
		return 0, err
	}
	return time.Since(mod), nil
}

// Write serializes payload as pretty JSON and persists it, replacing any
// prior artifact. The write goes through a temp file and rename so a reader
// never observes a partial artifact.
func (s *Store) Write(kind Kind, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s artifact: %w", kind, err)
	}
	return s.writeFile(kind, append(data, '\n'))
}

// WriteLines persists a newline-delimited text artifact. An empty list
// yields an empty file rather than a lone newline.
func (s *Store) WriteLines(kind Kind, lines []string) error {
	if len(lines) == 0 {
		return s.writeFile(kind, nil)
	}
	return s.writeFile(kind, []byte(strings.Join(lines, "\n")+"\n"))
}

func (s *Store) writeFile(kind Kind, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, kind.Filename()+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to write %s artifact: %w", kind, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s artifact: %w", kind, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s artifact: %w", kind, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(kind)); err != nil {
		return fmt.Errorf("failed to replace %s artifact: %w", kind, err)
	}
	return nil
}
