package filekind

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/opencontainers/go-digest"

	"github.com/meigma/filekind/internal/namefix"
	"github.com/meigma/filekind/internal/pathutil"
	"github.com/meigma/filekind/internal/sizing"
)

// Entry describes a file inside a ZIP archive.
type Entry struct {
	// Path is the entry path inside the archive (e.g., "folder/sub/a.psd"),
	// decoded with the loader's legacy name encoding when one is set.
	Path string

	// Name is the repaired base name used for the extracted file.
	Name string

	// Size is the uncompressed size recorded in the archive.
	Size int64

	// Modified is the modification time recorded in the archive.
	Modified time.Time

	// Digest is the SHA256 digest of the content. It is empty until the
	// entry has been extracted.
	Digest digest.Digest
}

// SkippedEntry records an archive entry that was left out of an extraction.
type SkippedEntry struct {
	Path string
	Err  error
}

// ExtractReport summarises an extraction.
type ExtractReport struct {
	// Extracted lists the entries that made it into the result, in archive order.
	Extracted []Entry

	// Skipped lists entries that could not be read or identified.
	Skipped []SkippedEntry

	// OpenErr is set when the archive itself could not be opened.
	OpenErr error
}

func (r *ExtractReport) skip(logger *slog.Logger, archive, path string, err error) {
	r.Skipped = append(r.Skipped, SkippedEntry{Path: path, Err: err})
	logger.Warn("archive entry skipped", "archive", archive, "path", path, "error", err)
}

// ZipFile is a ZIP archive whose entries can be listed and extracted.
//
// Every method opens the archive afresh; nothing is cached between calls.
// Entries are visited in the archive's central directory order and directory
// entries are always ignored. Nested folders are simply longer entry paths.
type ZipFile struct {
	typedBase
}

// NewZipFile wraps raw as a ZIP archive. The extension must be "zip" in any
// case. Options configure the Loader that extracted entries are fed through.
func NewZipFile(raw *RawFile, opts ...Option) (*ZipFile, error) {
	l := defaultLoader
	if len(opts) > 0 {
		l = NewLoader(opts...)
	}
	return newZipFile(l, raw)
}

func newZipFile(l *Loader, raw *RawFile) (*ZipFile, error) {
	b, err := newTypedBase(l, raw, checkZip)
	if err != nil {
		return nil, err
	}
	return &ZipFile{typedBase: b}, nil
}

// archiveEntry pairs a non-directory zip member with its decoded path.
type archiveEntry struct {
	file *zip.File
	path string
}

func (z *ZipFile) open() ([]archiveEntry, error) {
	zr, err := zip.NewReader(z.raw.Source(), z.raw.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArchiveOpen, z.Name(), err)
	}
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())

	entries := make([]archiveEntry, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || pathutil.IsDir(f.Name) {
			continue
		}
		entries = append(entries, archiveEntry{file: f, path: z.decodeName(f)})
	}
	return entries, nil
}

func (z *ZipFile) decodeName(f *zip.File) string {
	enc := z.loader.nameEncoding
	if enc == nil || !f.NonUTF8 {
		return f.Name
	}
	decoded, err := enc.NewDecoder().String(f.Name)
	if err != nil {
		z.loader.log().Debug("entry name decode failed", "archive", z.Name(), "path", f.Name, "error", err)
		return f.Name
	}
	return decoded
}

func (z *ZipFile) read(e archiveEntry) ([]byte, error) {
	limit := z.loader.maxEntrySize
	declared, err := sizing.ToInt64(e.file.UncompressedSize64, ErrSizeExceeded)
	if err != nil {
		return nil, err
	}
	if sizing.Exceeds(declared, limit) {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrSizeExceeded, declared, limit)
	}

	rc, err := e.file.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry: %w", err)
	}
	defer rc.Close()

	data, err := sizing.ReadAllWithLimit(rc, limit, ErrSizeExceeded)
	if err != nil {
		return nil, fmt.Errorf("read entry: %w", err)
	}
	return data, nil
}

// extract reads an entry into a synthetic RawFile named after its repaired
// base name.
func (z *ZipFile) extract(e archiveEntry) (*RawFile, Entry, error) {
	data, err := z.read(e)
	if err != nil {
		return nil, Entry{}, err
	}
	base := pathutil.Base(e.path)
	name := namefix.Repair(base)
	if name != base {
		z.loader.log().Debug("entry name repaired", "archive", z.Name(), "path", e.path, "name", name)
	}
	entry := z.entry(e, name)
	entry.Digest = digest.FromBytes(data)
	return NewRawFile(name, data), entry, nil
}

func (z *ZipFile) entry(e archiveEntry, name string) Entry {
	size, _ := sizing.ToInt64(e.file.UncompressedSize64, ErrSizeExceeded)
	return Entry{
		Path:     e.path,
		Name:     name,
		Size:     size,
		Modified: e.file.Modified,
	}
}

// ExtractByExtension extracts every entry whose path has the extension tag
// and identifies it with the Loader.
//
// Entries that cannot be read or identified are skipped and recorded in the
// report. If the archive cannot be opened the result is empty and the error
// wraps ErrArchiveOpen.
func (z *ZipFile) ExtractByExtension(tag Tag) ([]TypedFile, *ExtractReport, error) {
	return z.extractMatching(func(p string) bool {
		return MatchesExtension(p, tag)
	})
}

// ExtractSupported extracts every entry whose extension is one of Tags and
// identifies it with the Loader. Nested archives are returned as *ZipFile
// values and are not expanded.
func (z *ZipFile) ExtractSupported() ([]TypedFile, *ExtractReport, error) {
	return z.extractMatching(func(p string) bool {
		ext, err := PrimaryExtension(p)
		if err != nil {
			return false
		}
		_, err = ParseTag(ext)
		return err == nil
	})
}

func (z *ZipFile) extractMatching(match func(path string) bool) ([]TypedFile, *ExtractReport, error) {
	report := &ExtractReport{}
	entries, err := z.open()
	if err != nil {
		return z.openFailed(report, err)
	}

	files := make([]TypedFile, 0)
	for _, e := range entries {
		if !match(e.path) {
			continue
		}
		raw, entry, err := z.extract(e)
		if err != nil {
			report.skip(z.loader.log(), z.Name(), e.path, err)
			continue
		}
		tf, err := z.loader.Load(raw)
		if err != nil {
			report.skip(z.loader.log(), z.Name(), e.path, err)
			continue
		}
		files = append(files, tf)
		report.Extracted = append(report.Extracted, entry)
	}
	return files, report, nil
}

// ExtractAll extracts every file entry as a RawFile named after its repaired
// base name. No identification is performed.
func (z *ZipFile) ExtractAll() ([]*RawFile, *ExtractReport, error) {
	report := &ExtractReport{}
	entries, err := z.open()
	if err != nil {
		_, report, err = z.openFailed(report, err)
		return []*RawFile{}, report, err
	}

	files := make([]*RawFile, 0, len(entries))
	for _, e := range entries {
		raw, entry, err := z.extract(e)
		if err != nil {
			report.skip(z.loader.log(), z.Name(), e.path, err)
			continue
		}
		files = append(files, raw)
		report.Extracted = append(report.Extracted, entry)
	}
	return files, report, nil
}

func (z *ZipFile) openFailed(report *ExtractReport, err error) ([]TypedFile, *ExtractReport, error) {
	report.OpenErr = err
	z.loader.log().Error("archive open failed", "archive", z.Name(), "error", err)
	return []TypedFile{}, report, err
}

// ExtractPSD extracts the PSD files in the archive.
func (z *ZipFile) ExtractPSD() ([]*PSDFile, *ExtractReport, error) {
	return extractAs[*PSDFile](z, TagPSD)
}

// ExtractJSON extracts the JSON files in the archive.
func (z *ZipFile) ExtractJSON() ([]*JSONFile, *ExtractReport, error) {
	return extractAs[*JSONFile](z, TagJSON)
}

// ExtractCSV extracts the CSV files in the archive.
func (z *ZipFile) ExtractCSV() ([]*CSVFile, *ExtractReport, error) {
	return extractAs[*CSVFile](z, TagCSV)
}

// extractAs narrows ExtractByExtension to one variant. An entry whose
// repaired name identifies as a different variant is moved to the skipped list.
func extractAs[T TypedFile](z *ZipFile, tag Tag) ([]T, *ExtractReport, error) {
	files, report, err := z.ExtractByExtension(tag)
	out := make([]T, 0, len(files))
	if err != nil {
		return out, report, err
	}

	extracted := report.Extracted[:0]
	for i, tf := range files {
		entry := report.Extracted[i]
		v, ok := tf.(T)
		if !ok {
			report.skip(z.loader.log(), z.Name(), entry.Path,
				fmt.Errorf("%w: %q identified as %s, want %s", ErrInvalidExtension, tf.Name(), tf.Tag(), tag))
			continue
		}
		out = append(out, v)
		extracted = append(extracted, entry)
	}
	report.Extracted = extracted
	return out, report, nil
}

// Entries lists the file entries without reading their content.
func (z *ZipFile) Entries() ([]Entry, error) {
	entries, err := z.open()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, z.entry(e, namefix.Repair(pathutil.Base(e.path))))
	}
	return out, nil
}

// ListEntryPaths returns the full path of every file entry.
// It returns an empty list when the archive cannot be opened.
func (z *ZipFile) ListEntryPaths() []string {
	return z.list(func(p string) string { return p })
}

// ListEntryNames returns the base name of every file entry.
// It returns an empty list when the archive cannot be opened.
func (z *ZipFile) ListEntryNames() []string {
	return z.list(pathutil.Base)
}

func (z *ZipFile) list(fn func(string) string) []string {
	entries, err := z.open()
	if err != nil {
		z.loader.log().Error("archive open failed", "archive", z.Name(), "error", err)
		return []string{}
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fn(e.path))
	}
	return out
}

// ContainsExtension reports whether any file entry has the extension tag.
// It returns false when the archive cannot be opened.
func (z *ZipFile) ContainsExtension(tag Tag) bool {
	entries, err := z.open()
	if err != nil {
		z.loader.log().Error("archive open failed", "archive", z.Name(), "error", err)
		return false
	}
	for _, e := range entries {
		if MatchesExtension(e.path, tag) {
			return true
		}
	}
	return false
}
