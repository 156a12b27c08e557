package filekind

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/text/encoding"
)

// Loader maps raw files to their typed wrappers by extension.
//
// A Loader is immutable after construction and safe for concurrent use.
// Wrappers built by a Loader keep a reference to it: ZIP wrappers feed
// their entries back through the same Loader.
type Loader struct {
	logger       *slog.Logger
	maxTextSize  int64
	maxEntrySize int64
	jsonComments bool
	nameEncoding encoding.Encoding
}

var defaultLoader = NewLoader()

// NewLoader creates a Loader with the given options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		maxTextSize:  DefaultMaxTextSize,
		maxEntrySize: DefaultMaxEntrySize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// log returns the logger, falling back to a discard logger if nil.
func (l *Loader) log() *slog.Logger {
	if l.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.logger
}

// Load identifies raw with the default Loader.
func Load(raw *RawFile) (TypedFile, error) {
	return defaultLoader.Load(raw)
}

// Load identifies raw by its extension and constructs the matching wrapper.
//
// It returns ErrMissingExtension when the name has no extension and
// ErrUnsupportedType when the extension is not psd, json, csv or zip.
// Load does not read file content.
func (l *Loader) Load(raw *RawFile) (TypedFile, error) {
	ext, err := PrimaryExtension(raw.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingExtension, raw.Name())
	}
	tag, err := ParseTag(ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %q has extension %q", ErrUnsupportedType, raw.Name(), ext)
	}

	tf, err := l.construct(tag, raw)
	if err != nil {
		if errors.Is(err, ErrInvalidExtension) || errors.Is(err, ErrMissingExtension) {
			return nil, fmt.Errorf("%w: %w", ErrInternalConsistency, err)
		}
		return nil, err
	}
	l.log().Debug("file identified", "name", raw.Name(), "tag", tag)
	return tf, nil
}

// construct dispatches over the closed Tag set. Adding a Tag requires a case
// here; TestLoaderCoversEveryTag fails otherwise.
func (l *Loader) construct(tag Tag, raw *RawFile) (TypedFile, error) {
	switch tag {
	case TagPSD:
		f, err := newPSDFile(l, raw)
		if err != nil {
			return nil, err
		}
		return f, nil
	case TagJSON:
		f, err := newJSONFile(l, raw)
		if err != nil {
			return nil, err
		}
		return f, nil
	case TagCSV:
		f, err := newCSVFile(l, raw)
		if err != nil {
			return nil, err
		}
		return f, nil
	case TagZip:
		f, err := newZipFile(l, raw)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: no wrapper for tag %q", ErrInternalConsistency, tag)
	}
}
