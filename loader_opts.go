package filekind

import (
	"log/slog"

	"golang.org/x/text/encoding"
)

const (
	// DefaultMaxTextSize is the default limit for JSON and CSV content (10MB).
	DefaultMaxTextSize = 10 << 20

	// DefaultMaxEntrySize is the default limit for a single decompressed
	// archive entry (256MB).
	DefaultMaxEntrySize = 256 << 20
)

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a logger for the loader and the wrappers it builds.
// If nil, a discard logger is used (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithMaxTextSize sets the default size limit used by JSON and CSV reads.
// Values <= 0 restore DefaultMaxTextSize.
func WithMaxTextSize(limit int64) Option {
	return func(l *Loader) {
		if limit <= 0 {
			limit = DefaultMaxTextSize
		}
		l.maxTextSize = limit
	}
}

// WithMaxEntrySize limits the decompressed size of a single archive entry.
// Set limit to 0 to disable the limit.
func WithMaxEntrySize(limit int64) Option {
	return func(l *Loader) {
		if limit < 0 {
			limit = 0
		}
		l.maxEntrySize = limit
	}
}

// WithJSONComments allows // and /* */ comments and trailing commas in JSON
// files. They are stripped before parsing.
func WithJSONComments(enabled bool) Option {
	return func(l *Loader) {
		l.jsonComments = enabled
	}
}

// WithLegacyNameEncoding decodes archive entry names that are not flagged as
// UTF-8 with enc before they are repaired, e.g. japanese.ShiftJIS for
// archives created on Japanese Windows. Nil disables decoding (default).
func WithLegacyNameEncoding(enc encoding.Encoding) Option {
	return func(l *Loader) {
		l.nameEncoding = enc
	}
}
