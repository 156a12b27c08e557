package filekind

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/meigma/filekind/internal/sizing"
)

// Validator checks a decoded value. A non-nil error rejects the value as a
// structural mismatch.
type Validator[T any] func(T) error

// JSONFile is a JSON document with size-bounded reads and validated parsing.
type JSONFile struct {
	typedBase
}

// NewJSONFile wraps raw as a JSON file. The extension must be "json" in any case.
func NewJSONFile(raw *RawFile) (*JSONFile, error) {
	return newJSONFile(defaultLoader, raw)
}

func newJSONFile(l *Loader, raw *RawFile) (*JSONFile, error) {
	b, err := newTypedBase(l, raw, checkJSON)
	if err != nil {
		return nil, err
	}
	return &JSONFile{typedBase: b}, nil
}

// CheckSizeLimit returns a size-phase *JSONError when the file is larger than
// maxBytes. Values <= 0 use the loader's text limit (DefaultMaxTextSize unless
// configured).
func (f *JSONFile) CheckSizeLimit(maxBytes int64) error {
	limit := f.limit(maxBytes)
	if sizing.Exceeds(f.Size(), limit) {
		return jsonError(PhaseSize, f.Name(), ErrSizeExceeded,
			fmt.Errorf("%d bytes exceeds limit of %d", f.Size(), limit))
	}
	return nil
}

// ReadAsText reads the whole file as UTF-8 text.
// Failures are read-phase *JSONError values wrapping ErrRead.
func (f *JSONFile) ReadAsText() (string, error) {
	text, err := f.readText(0)
	if err != nil {
		return "", jsonError(PhaseRead, f.Name(), err, nil)
	}
	return text, nil
}

// ParseToObject reads f and decodes it into a T.
//
// The phases run in order and stop at the first failure: size check against
// the loader's text limit, read, JSON syntax, decoding into T and finally
// validate (which may be nil). Every failure is a *JSONError carrying the
// phase; type mismatches during decoding and validator rejections both wrap
// ErrStructure.
func ParseToObject[T any](f *JSONFile, validate Validator[T]) (T, error) {
	return parse(f, validate, 0)
}

// LoadAndParse is ParseToObject with an optional size limit. When maxBytes > 0
// it replaces the loader's text limit for this call.
func LoadAndParse[T any](f *JSONFile, validate Validator[T], maxBytes int64) (T, error) {
	return parse(f, validate, maxBytes)
}

func parse[T any](f *JSONFile, validate Validator[T], maxBytes int64) (T, error) {
	var zero T

	limit := f.limit(maxBytes)
	if err := f.CheckSizeLimit(limit); err != nil {
		return zero, err
	}

	text, err := f.readText(limit)
	if err != nil {
		phase := PhaseRead
		if errors.Is(err, ErrSizeExceeded) {
			phase = PhaseSize
		}
		return zero, jsonError(phase, f.Name(), err, nil)
	}

	data := []byte(text)
	if f.loader.jsonComments {
		data = jsonc.ToJSON(data)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		// Unmarshal validates the whole document before decoding, so syntax
		// errors are always reported ahead of type errors.
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return zero, jsonError(PhaseSyntax, f.Name(), ErrSyntax, err)
		}
		return zero, jsonError(PhaseStructure, f.Name(), ErrStructure, err)
	}

	if validate != nil {
		if err := validate(v); err != nil {
			return zero, jsonError(PhaseStructure, f.Name(), ErrStructure, err)
		}
	}

	f.loader.log().Debug("json parsed", "name", f.Name(), "bytes", len(data))
	return v, nil
}

func (f *JSONFile) limit(maxBytes int64) int64 {
	if maxBytes > 0 {
		return maxBytes
	}
	return f.loader.maxTextSize
}
