// Package namefix repairs file names read from archives written with an
// unknown or mismatched name encoding.
package namefix

import (
	"strings"
	"unicode/utf8"
)

// Fallback is the stem used when nothing readable survives repair.
const Fallback = "unknown_file"

// defaultExtension is used when the original extension cannot be trusted.
const defaultExtension = "psd"

// knownExtensions are the extensions kept when a garbled name is rebuilt.
var knownExtensions = map[string]struct{}{
	"psd":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"csv":  {},
	"txt":  {},
	"json": {},
	"xml":  {},
}

// Repair returns a usable file name for an archive entry's base name.
//
// Control characters are removed. A name that still contains '?' or a rune
// outside printable ASCII, kana and CJK ideographs is considered garbled and
// rebuilt from its printable ASCII stem plus its extension, or replaced by
// "unknown_file.<ext>". Garbled names with an unrecognised extension become
// "unknown_file.psd". Blank results and dot-leading results also fall back to
// "unknown_file.<ext>".
func Repair(name string) string {
	cleaned := stripControl(name)

	if strings.ContainsRune(cleaned, '?') || !allReadable(cleaned) {
		// The stripped form is replaced in both branches below; the stem is
		// recovered from the original name.
		ext := lastSegmentLower(name)
		if _, ok := knownExtensions[ext]; ok {
			if stem := printableASCII(stemOf(name)); stem != "" {
				cleaned = stem + "." + ext
			} else {
				cleaned = Fallback + "." + ext
			}
		} else {
			cleaned = Fallback + "." + defaultExtension
		}
	}

	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" || strings.HasPrefix(cleaned, ".") {
		ext := lastSegmentLower(name)
		if ext == "" {
			ext = defaultExtension
		}
		cleaned = Fallback + "." + ext
	}
	return cleaned
}

// Garbled reports whether Repair would rebuild name rather than keep it.
func Garbled(name string) bool {
	cleaned := stripControl(name)
	return strings.ContainsRune(cleaned, '?') || !allReadable(cleaned)
}

func isControl(r rune) bool {
	return r <= 0x1F || (r >= 0x7F && r <= 0x9F)
}

func isReadable(r rune) bool {
	switch {
	case r >= 0x20 && r <= 0x7E:
		return true
	case r >= 0x3040 && r <= 0x309F: // hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // katakana
		return true
	case r >= 0x4E00 && r <= 0x9FAF: // CJK unified ideographs
		return true
	default:
		return false
	}
}

func stripControl(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func allReadable(s string) bool {
	for _, r := range s {
		if r == utf8.RuneError || !isReadable(r) {
			return false
		}
	}
	return true
}

func printableASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 0x20 && r <= 0x7E {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// lastSegmentLower returns the lower-cased text after the last '.', or the
// whole name when it has no '.'.
func lastSegmentLower(name string) string {
	return strings.ToLower(name[strings.LastIndexByte(name, '.')+1:])
}

// stemOf returns name up to the last '.', or "" when it has no '.'.
func stemOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[:i]
}
