// Package filesink writes extracted files into a directory.
package filesink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrExists is returned when the destination exists and overwrite is off.
	ErrExists = errors.New("filesink: file exists")

	// ErrUnsafeName is returned for names that are not plain base names.
	ErrUnsafeName = errors.New("filesink: unsafe name")
)

// Sink writes files into a directory with atomic writes.
//
// Files are written to a temporary file in the destination directory,
// then renamed to the final path. Partially written files are never
// visible at the final path. A Sink is safe for concurrent use as long as
// each name is written once.
type Sink struct {
	destDir       string
	overwrite     bool
	preserveTimes bool
}

// Option configures a Sink.
type Option func(*Sink)

// WithOverwrite allows overwriting existing files.
// By default, existing files are left alone and Write returns ErrExists.
func WithOverwrite(overwrite bool) Option {
	return func(s *Sink) {
		s.overwrite = overwrite
	}
}

// WithPreserveTimes sets each file's modification time from the archive.
// By default, files get the current time.
func WithPreserveTimes(preserve bool) Option {
	return func(s *Sink) {
		s.preserveTimes = preserve
	}
}

// New creates a Sink that writes to destDir, creating it if needed.
func New(destDir string, opts ...Option) (*Sink, error) {
	s := &Sink{destDir: destDir}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", destDir, err)
	}
	return s, nil
}

// Dir returns the destination directory.
func (s *Sink) Dir() string {
	return s.destDir
}

// Write copies r to name inside the destination directory.
func (s *Sink) Write(name string, modTime time.Time, r io.Reader) error {
	if !safeName(name) {
		return fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	destPath := filepath.Join(s.destDir, name)
	if !s.overwrite {
		if _, err := os.Lstat(destPath); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, destPath)
		}
	}

	tmp, err := os.CreateTemp(s.destDir, ".filekind-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()        //nolint:errcheck // cleaning up
		_ = os.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		return err
	}

	if _, err := io.Copy(tmp, r); err != nil {
		return fail(fmt.Errorf("write %s: %w", name, err))
	}
	if err := tmp.Close(); err != nil {
		return fail(fmt.Errorf("close temp file: %w", err))
	}
	if s.preserveTimes && !modTime.IsZero() {
		if err := os.Chtimes(tmpPath, modTime, modTime); err != nil {
			return fail(fmt.Errorf("chtimes: %w", err))
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fail(fmt.Errorf("rename to %s: %w", destPath, err))
	}
	return nil
}

func safeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
