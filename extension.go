package filekind

import (
	"strings"

	"github.com/meigma/filekind/internal/pathutil"
)

// Tag identifies a supported file type by its extension.
type Tag string

// Supported tags. The set is closed: Load dispatches over exactly these values.
const (
	TagPSD  Tag = "psd"
	TagJSON Tag = "json"
	TagCSV  Tag = "csv"
	TagZip  Tag = "zip"
)

// Tags returns every supported tag in dispatch order.
func Tags() []Tag {
	return []Tag{TagPSD, TagJSON, TagCSV, TagZip}
}

// ParseTag maps a case-insensitive extension to a Tag.
func ParseTag(ext string) (Tag, error) {
	t := Tag(strings.ToLower(ext))
	if !t.Valid() {
		return "", ErrUnsupportedType
	}
	return t, nil
}

// Valid reports whether t is one of the supported tags.
func (t Tag) Valid() bool {
	switch t {
	case TagPSD, TagJSON, TagCSV, TagZip:
		return true
	default:
		return false
	}
}

func (t Tag) String() string {
	return string(t)
}

// PrimaryExtension returns the substring after the last '.' in name, case preserved.
func PrimaryExtension(name string) (string, error) {
	ext, ok := pathutil.LastSegment(name)
	if !ok {
		return "", ErrMissingExtension
	}
	return ext, nil
}

// SecondaryExtension returns the second-to-last dot segment of name.
// For "archive.tar.gz" it returns "tar". Names with fewer than three
// segments return ErrMissingExtension.
func SecondaryExtension(name string) (string, error) {
	parts := strings.Split(name, ".")
	if len(parts) < 3 {
		return "", ErrMissingExtension
	}
	return parts[len(parts)-2], nil
}

// BaseName returns the final segment of a path split on '/' or '\'.
func BaseName(path string) string {
	return pathutil.Base(path)
}

// MatchesExtension reports whether name's primary extension equals tag,
// ignoring case.
func MatchesExtension(name string, tag Tag) bool {
	ext, err := PrimaryExtension(name)
	if err != nil {
		return false
	}
	return strings.EqualFold(ext, string(tag))
}
