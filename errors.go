package filekind

import (
	"errors"
	"fmt"
)

// Sentinel errors for identification and construction.
var (
	// ErrMissingExtension is returned when a file name has no dot-delimited suffix.
	ErrMissingExtension = errors.New("filekind: missing extension")

	// ErrInvalidExtension is returned when a wrapper is constructed from a file
	// whose extension does not match the wrapper's variant.
	ErrInvalidExtension = errors.New("filekind: invalid extension")

	// ErrUnsupportedType is returned when an extension is not in the dispatch table.
	ErrUnsupportedType = errors.New("filekind: unsupported file type")

	// ErrInternalConsistency is returned when the loader picks a variant that
	// then rejects the file. It indicates a bug, not bad input.
	ErrInternalConsistency = errors.New("filekind: internal consistency error")
)

// Sentinel errors for JSON operations.
var (
	// ErrSizeExceeded is returned when a file is larger than the allowed limit.
	ErrSizeExceeded = errors.New("filekind: size exceeded")

	// ErrRead is returned when file content cannot be read as text.
	ErrRead = errors.New("filekind: read failed")

	// ErrSyntax is returned when content is not well-formed JSON.
	ErrSyntax = errors.New("filekind: syntax error")

	// ErrStructure is returned when parsed JSON does not have the expected shape.
	ErrStructure = errors.New("filekind: structural mismatch")
)

// Sentinel errors for archives and drops.
var (
	// ErrArchiveOpen is returned when an archive cannot be opened.
	ErrArchiveOpen = errors.New("filekind: archive open failed")

	// ErrNoFiles is returned when a drop contains no files.
	ErrNoFiles = errors.New("filekind: no files")

	// ErrNotJSON is returned when a dropped file is not a JSON file.
	ErrNotJSON = errors.New("filekind: not a json file")
)

// ExtensionError reports a wrapper construction that failed extension validation.
type ExtensionError struct {
	// Name is the offending file name.
	Name string
	// Want is the variant that rejected the file.
	Want Tag
	// Err is the underlying sentinel (ErrMissingExtension or ErrInvalidExtension).
	Err error
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("%v: %s file cannot be built from %q", e.Err, e.Want, e.Name)
}

func (e *ExtensionError) Unwrap() error {
	return e.Err
}

// Phase identifies the step of a JSON operation that failed.
type Phase uint8

// JSON operation phases, in execution order.
const (
	PhaseSize Phase = iota + 1
	PhaseRead
	PhaseSyntax
	PhaseStructure
)

func (p Phase) String() string {
	switch p {
	case PhaseSize:
		return "size"
	case PhaseRead:
		return "read"
	case PhaseSyntax:
		return "syntax"
	case PhaseStructure:
		return "structure"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// JSONError reports a failed JSON operation together with the phase that failed.
type JSONError struct {
	Phase Phase
	Name  string
	Err   error
}

func (e *JSONError) Error() string {
	return fmt.Sprintf("%s: %s phase: %v", e.Name, e.Phase, e.Err)
}

func (e *JSONError) Unwrap() error {
	return e.Err
}

func jsonError(phase Phase, name string, sentinel, cause error) *JSONError {
	err := sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return &JSONError{Phase: phase, Name: name, Err: err}
}
