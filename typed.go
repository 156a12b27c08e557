package filekind

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/meigma/filekind/internal/sizing"
)

// TypedFile is a RawFile whose extension has been validated against a Tag.
type TypedFile interface {
	// Tag returns the validated file type.
	Tag() Tag
	// Name returns the underlying file name.
	Name() string
	// Extension returns the extension as it appears in the name.
	Extension() string
	// Raw returns the underlying file.
	Raw() *RawFile
}

// Interface compliance.
var (
	_ TypedFile = (*PSDFile)(nil)
	_ TypedFile = (*JSONFile)(nil)
	_ TypedFile = (*CSVFile)(nil)
	_ TypedFile = (*ZipFile)(nil)
)

// extensionCheck is a variant's verdict on an extension. tag is the variant's
// own tag whether or not ok is set.
type extensionCheck struct {
	ok  bool
	tag Tag
}

type extensionChecker func(ext string) extensionCheck

func checkPSD(ext string) extensionCheck {
	return extensionCheck{ok: strings.EqualFold(ext, string(TagPSD)), tag: TagPSD}
}

func checkJSON(ext string) extensionCheck {
	return extensionCheck{ok: strings.EqualFold(ext, string(TagJSON)), tag: TagJSON}
}

func checkCSV(ext string) extensionCheck {
	return extensionCheck{ok: strings.EqualFold(ext, string(TagCSV)), tag: TagCSV}
}

func checkZip(ext string) extensionCheck {
	return extensionCheck{ok: strings.EqualFold(ext, string(TagZip)), tag: TagZip}
}

// typedBase holds the fields shared by every wrapper.
type typedBase struct {
	raw    *RawFile
	ext    string
	tag    Tag
	loader *Loader
}

func newTypedBase(l *Loader, raw *RawFile, check extensionChecker) (typedBase, error) {
	ext, err := PrimaryExtension(raw.Name())
	if err != nil {
		return typedBase{}, &ExtensionError{Name: raw.Name(), Want: check("").tag, Err: ErrMissingExtension}
	}
	res := check(ext)
	if !res.ok {
		return typedBase{}, &ExtensionError{Name: raw.Name(), Want: res.tag, Err: ErrInvalidExtension}
	}
	return typedBase{raw: raw, ext: ext, tag: res.tag, loader: l}, nil
}

// Tag returns the validated file type.
func (b *typedBase) Tag() Tag { return b.tag }

// Name returns the underlying file name.
func (b *typedBase) Name() string { return b.raw.Name() }

// Extension returns the extension as it appears in the name.
func (b *typedBase) Extension() string { return b.ext }

// Raw returns the underlying file.
func (b *typedBase) Raw() *RawFile { return b.raw }

// Size returns the content length in bytes.
func (b *typedBase) Size() int64 { return b.raw.Size() }

// readText reads the whole file as UTF-8 text, dropping a leading byte order mark.
func (b *typedBase) readText(limit int64) (string, error) {
	data, err := sizing.ReadAllWithLimit(b.raw.Reader(), limit, ErrSizeExceeded)
	if err != nil {
		if errors.Is(err, ErrSizeExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: content is not valid UTF-8", ErrRead)
	}
	return strings.TrimPrefix(string(data), "\uFEFF"), nil
}

// PSDFile is a Photoshop document. Its content is opaque to this package.
type PSDFile struct {
	typedBase
}

// NewPSDFile wraps raw as a PSD file. The extension must be "psd" in any case.
func NewPSDFile(raw *RawFile) (*PSDFile, error) {
	return newPSDFile(defaultLoader, raw)
}

func newPSDFile(l *Loader, raw *RawFile) (*PSDFile, error) {
	b, err := newTypedBase(l, raw, checkPSD)
	if err != nil {
		return nil, err
	}
	return &PSDFile{typedBase: b}, nil
}

// CSVFile is a comma-separated values file.
type CSVFile struct {
	typedBase
}

// NewCSVFile wraps raw as a CSV file. The extension must be "csv" in any case.
func NewCSVFile(raw *RawFile) (*CSVFile, error) {
	return newCSVFile(defaultLoader, raw)
}

func newCSVFile(l *Loader, raw *RawFile) (*CSVFile, error) {
	b, err := newTypedBase(l, raw, checkCSV)
	if err != nil {
		return nil, err
	}
	return &CSVFile{typedBase: b}, nil
}

// Records reads and parses the file. Rows may have differing field counts.
// Content larger than the loader's text limit returns ErrSizeExceeded.
func (f *CSVFile) Records() ([][]string, error) {
	text, err := f.readText(f.loader.maxTextSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: parse csv: %w", f.Name(), err)
	}
	return records, nil
}
