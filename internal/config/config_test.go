package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "filekind.yaml")
	content := `
log_level: debug
json:
  max_size: 1024
  comments: true
archive:
  name_encoding: shift_jis
api:
  base_url: http://example.test/
  timeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(1024), cfg.JSON.MaxSize)
	assert.True(t, cfg.JSON.Comments)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "http://example.test/", cfg.API.BaseURL)

	// Unset keys keep their defaults.
	assert.Equal(t, Default().Archive.MaxEntrySize, cfg.Archive.MaxEntrySize)
	assert.Equal(t, 4, cfg.Extract.Workers)

	enc, err := cfg.NameEncoding()
	require.NoError(t, err)
	assert.Equal(t, japanese.ShiftJIS, enc)

	opts, err := cfg.LoaderOptions(nil)
	require.NoError(t, err)
	assert.Len(t, opts, 5)
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "colour: red\n", "colour"},
		{"bad level", "log_level: loud\n", "log_level"},
		{"bad encoding", "archive:\n  name_encoding: klingon\n", "klingon"},
		{"negative size", "json:\n  max_size: -1\n", "json.max_size"},
		{"no workers", "extract:\n  workers: 0\n", "extract.workers"},
		{"no retries", "api:\n  max_retries: 0\n", "api.max_retries"},
		{"bad duration", "api:\n  timeout: soon\n", "parse config"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
