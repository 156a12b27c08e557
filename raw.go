package filekind

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ByteSource provides random access to file content.
//
// Implementations exist for in-memory data and local files.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// RawFile is a named, immutable blob of bytes.
//
// A RawFile opened with OpenRawFile holds an OS file handle and must be
// closed. Memory-backed files need no cleanup, but Close is always safe.
type RawFile struct {
	name   string
	source ByteSource
	file   *os.File
}

// NewRawFile creates a RawFile backed by data. The slice must not be
// modified afterwards.
func NewRawFile(name string, data []byte) *RawFile {
	return &RawFile{name: name, source: bytes.NewReader(data)}
}

// NewRawFileFromSource creates a RawFile backed by an arbitrary ByteSource.
func NewRawFileFromSource(name string, source ByteSource) *RawFile {
	return &RawFile{name: name, source: source}
}

// OpenRawFile opens a local file for random access.
// The RawFile is named after the path's base name.
func OpenRawFile(path string) (*RawFile, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	source, err := newFileSource(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &RawFile{name: filepath.Base(path), source: source, file: f}, nil
}

// Name returns the file name, including any directory prefix it was given.
func (r *RawFile) Name() string {
	return r.name
}

// Size returns the content length in bytes.
func (r *RawFile) Size() int64 {
	return r.source.Size()
}

// Source returns the underlying byte source.
func (r *RawFile) Source() ByteSource {
	return r.source
}

// Reader returns a new reader positioned at the start of the content.
func (r *RawFile) Reader() io.Reader {
	return io.NewSectionReader(r.source, 0, r.source.Size())
}

// Close releases the OS file handle, if any.
func (r *RawFile) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// fileSource wraps *os.File to implement ByteSource.
// os.File has ReadAt but not Size, so we cache the size at construction.
type fileSource struct {
	file *os.File
	size int64
}

func newFileSource(f *os.File) (*fileSource, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open file: %s is a directory", f.Name())
	}
	return &fileSource{file: f, size: info.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (fs *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return fs.file.ReadAt(p, off)
}

// Size returns the total size of the file.
func (fs *fileSource) Size() int64 {
	return fs.size
}

// Interface compliance.
var (
	_ ByteSource = (*fileSource)(nil)
	_ ByteSource = (*bytes.Reader)(nil)
)
