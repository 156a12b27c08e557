// Package pathutil provides helpers for archive entry paths and file names.
package pathutil

import "strings"

// Base returns the final segment of a path split on '/' or '\'.
// Unlike path.Base it does not trim trailing separators, so "dir/" yields "".
func Base(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// IsDir reports whether an archive entry path names a directory.
func IsDir(p string) bool {
	return strings.HasSuffix(p, "/") || strings.HasSuffix(p, `\`)
}

// LastSegment returns the substring after the last '.' in name.
// ok is false when name contains no '.'.
func LastSegment(name string) (seg string, ok bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", false
	}
	return name[i+1:], true
}

// Stem returns name up to the last '.', or name itself when it has no '.'.
func Stem(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}
