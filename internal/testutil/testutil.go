// Package testutil builds archive fixtures for tests.
package testutil

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// fixtureTime keeps fixture archives byte-for-byte reproducible.
var fixtureTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// ZipEntry describes one member of a fixture archive.
// A Name ending in "/" produces a directory entry.
type ZipEntry struct {
	Name string
	Data []byte

	// Method is the compression method (zip.Deflate by default).
	// zstd.ZipMethodWinZip is supported.
	Method uint16

	// NonUTF8 stores Name as raw bytes without the UTF-8 flag.
	NonUTF8 bool
}

// BuildZip returns an in-memory ZIP archive containing entries in order.
func BuildZip(tb testing.TB, entries ...ZipEntry) []byte {
	tb.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	w.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())

	for _, e := range entries {
		method := e.Method
		if method == 0 {
			method = zip.Deflate
		}
		hdr := &zip.FileHeader{
			Name:     e.Name,
			Method:   method,
			Modified: fixtureTime,
			NonUTF8:  e.NonUTF8,
		}
		if len(e.Name) > 0 && e.Name[len(e.Name)-1] == '/' {
			hdr.Method = zip.Store
		}
		fw, err := w.CreateHeader(hdr)
		if err != nil {
			tb.Fatalf("create zip entry %q: %v", e.Name, err)
		}
		if len(e.Data) == 0 {
			continue
		}
		if _, err := io.Copy(fw, bytes.NewReader(e.Data)); err != nil {
			tb.Fatalf("write zip entry %q: %v", e.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		tb.Fatalf("close zip writer: %v", err)
	}
	return buf.Bytes()
}

// File is a shorthand for a deflated ZipEntry.
func File(name, content string) ZipEntry {
	return ZipEntry{Name: name, Data: []byte(content)}
}

// Dir is a shorthand for a directory ZipEntry. A trailing "/" is added if missing.
func Dir(name string) ZipEntry {
	if len(name) == 0 || name[len(name)-1] != '/' {
		name += "/"
	}
	return ZipEntry{Name: name}
}
