package filekind

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPSDFile(t *testing.T) {
	t.Parallel()

	f, err := NewPSDFile(NewRawFile("photo.PSD", []byte("8BPS")))
	require.NoError(t, err)
	assert.Equal(t, TagPSD, f.Tag())
	assert.Equal(t, "PSD", f.Extension())
	assert.Equal(t, int64(4), f.Size())

	_, err = NewPSDFile(NewRawFile("photo.json", nil))
	require.ErrorIs(t, err, ErrInvalidExtension)

	var extErr *ExtensionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "photo.json", extErr.Name)
	assert.Equal(t, TagPSD, extErr.Want)
	assert.Contains(t, err.Error(), "photo.json")
	assert.Contains(t, err.Error(), "psd")
}

func TestWrapperFactories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		build   func(*RawFile) (TypedFile, error)
		valid   string
		invalid string
	}{
		{"psd", func(r *RawFile) (TypedFile, error) { return NewPSDFile(r) }, "a.psd", "a.csv"},
		{"json", func(r *RawFile) (TypedFile, error) { return NewJSONFile(r) }, "a.JSON", "a.psd"},
		{"csv", func(r *RawFile) (TypedFile, error) { return NewCSVFile(r) }, "a.Csv", "a.zip"},
		{"zip", func(r *RawFile) (TypedFile, error) { return NewZipFile(r) }, "a.ZIP", "a.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf, err := tt.build(NewRawFile(tt.valid, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, tf.Raw().Name())

			_, err = tt.build(NewRawFile(tt.invalid, nil))
			require.ErrorIs(t, err, ErrInvalidExtension)

			_, err = tt.build(NewRawFile("noext", nil))
			require.ErrorIs(t, err, ErrMissingExtension)
		})
	}
}

func TestCSVRecords(t *testing.T) {
	t.Parallel()

	content := "\uFEFFname,count\nalpha,1\nbeta,2,extra\n"
	f, err := NewCSVFile(NewRawFile("table.csv", []byte(content)))
	require.NoError(t, err)

	records, err := f.Records()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"name", "count"},
		{"alpha", "1"},
		{"beta", "2", "extra"},
	}, records)
}

func TestCSVRecordsErrors(t *testing.T) {
	t.Parallel()

	l := NewLoader(WithMaxTextSize(8))
	f, err := newCSVFile(l, NewRawFile("big.csv", []byte(strings.Repeat("a,", 10))))
	require.NoError(t, err)
	_, err = f.Records()
	require.ErrorIs(t, err, ErrSizeExceeded)

	f, err = NewCSVFile(NewRawFile("bad.csv", []byte("\xff\xfe,a")))
	require.NoError(t, err)
	_, err = f.Records()
	require.ErrorIs(t, err, ErrRead)

	f, err = NewCSVFile(NewRawFile("quote.csv", []byte(`a,"b`+"\n")))
	require.NoError(t, err)
	_, err = f.Records()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse csv")
}
