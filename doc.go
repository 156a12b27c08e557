// Package filekind identifies files by extension and wraps them in typed
// handles.
//
// A [RawFile] is a name plus an immutable byte source, however it was
// obtained (upload, drag and drop, file picker or an archive entry). The
// [Loader] inspects the name's extension and constructs the matching
// [TypedFile] variant:
//
//   - [PSDFile] and [CSVFile]: opaque handles
//   - [JSONFile]: size-bounded read and validated parse
//   - [ZipFile]: archive listing and extraction
//
// # Quick Start
//
// Identify a file:
//
//	raw, err := filekind.OpenRawFile("assets.zip")
//	if err != nil {
//	    return err
//	}
//	defer raw.Close()
//
//	tf, err := filekind.Load(raw)
//	if err != nil {
//	    return err
//	}
//
// Flatten an archive into typed files:
//
//	zf := tf.(*filekind.ZipFile)
//	psds, report, err := zf.ExtractByExtension(filekind.TagPSD)
//
// Entries that fail identification are skipped and listed in the report.
// Opening a corrupt archive fails the whole call with [ErrArchiveOpen].
//
// Parse JSON into a validated value:
//
//	type settings struct {
//	    Name string `json:"name"`
//	}
//	jf := tf.(*filekind.JSONFile)
//	s, err := filekind.ParseToObject(jf, func(s settings) error {
//	    if s.Name == "" {
//	        return errors.New("name is required")
//	    }
//	    return nil
//	})
//
// JSON failures are returned as [*JSONError] values tagged with the phase
// that failed.
package filekind
