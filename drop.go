package filekind

import "fmt"

// LoadJSONFromDrop identifies the first dropped file and requires it to be JSON.
func LoadJSONFromDrop(files []*RawFile) (*JSONFile, error) {
	return defaultLoader.LoadJSONFromDrop(files)
}

// LoadJSONFromDrop identifies the first dropped file and requires it to be JSON.
//
// It returns ErrNoFiles for an empty drop and ErrNotJSON when the file is
// identified as another type.
func (l *Loader) LoadJSONFromDrop(files []*RawFile) (*JSONFile, error) {
	if len(files) == 0 || files[0] == nil {
		return nil, ErrNoFiles
	}
	tf, err := l.Load(files[0])
	if err != nil {
		return nil, fmt.Errorf("validate dropped file: %w", err)
	}
	jf, ok := tf.(*JSONFile)
	if !ok {
		return nil, fmt.Errorf("%w: %q detected as %s", ErrNotJSON, tf.Name(), tf.Tag())
	}
	return jf, nil
}

// LoadDropped identifies every dropped file with the default Loader.
func LoadDropped(files []*RawFile) (*DropResult, error) {
	return defaultLoader.LoadDropped(files)
}

// DropResult is the outcome of LoadDropped.
type DropResult struct {
	// Files holds the typed files in drop order, with ZIP archives replaced
	// by their identified entries.
	Files []TypedFile

	// Rejected lists dropped files that could not be identified.
	Rejected []SkippedEntry

	// Archives maps each expanded archive's name to its extraction report.
	Archives map[string]*ExtractReport
}

// LoadDropped identifies every dropped file. ZIP archives are expanded one
// level: each entry with a supported extension is identified and added in
// place of the archive. Files that fail identification are rejected, not fatal.
func (l *Loader) LoadDropped(files []*RawFile) (*DropResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	res := &DropResult{Archives: make(map[string]*ExtractReport)}
	for _, raw := range files {
		if raw == nil {
			continue
		}
		tf, err := l.Load(raw)
		if err != nil {
			res.Rejected = append(res.Rejected, SkippedEntry{Path: raw.Name(), Err: err})
			l.log().Warn("dropped file rejected", "name", raw.Name(), "error", err)
			continue
		}
		zf, ok := tf.(*ZipFile)
		if !ok {
			res.Files = append(res.Files, tf)
			continue
		}
		inner, report, err := zf.ExtractSupported()
		if err != nil {
			res.Rejected = append(res.Rejected, SkippedEntry{Path: raw.Name(), Err: err})
			continue
		}
		res.Files = append(res.Files, inner...)
		res.Archives[zf.Name()] = report
	}
	return res, nil
}
