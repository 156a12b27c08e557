package filekind

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRawFile(t *testing.T) {
	t.Parallel()

	raw := NewRawFile("data.json", []byte(`{"a":1}`))
	assert.Equal(t, "data.json", raw.Name())
	assert.Equal(t, int64(7), raw.Size())

	// Each reader starts from the beginning.
	for i := 0; i < 2; i++ {
		data, err := io.ReadAll(raw.Reader())
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(data))
	}
	assert.NoError(t, raw.Close())
}

func TestOpenRawFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "photo.psd")
	require.NoError(t, os.WriteFile(path, []byte("8BPS"), 0o644))

	raw, err := OpenRawFile(path)
	require.NoError(t, err)
	defer raw.Close()

	assert.Equal(t, "photo.psd", raw.Name())
	assert.Equal(t, int64(4), raw.Size())

	buf := make([]byte, 2)
	n, err := raw.Source().ReadAt(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("PS"), buf)

	require.NoError(t, raw.Close())
	require.NoError(t, raw.Close())
}

func TestOpenRawFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := OpenRawFile(filepath.Join(dir, "missing.psd"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")

	_, err = OpenRawFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}
