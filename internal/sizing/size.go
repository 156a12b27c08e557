// Package sizing provides bounded reads and size conversions that cannot overflow.
package sizing

import (
	"io"
	"math"
)

// ToInt64 converts a uint64 to int64, returning overflowErr if it doesn't fit.
func ToInt64(size uint64, overflowErr error) (int64, error) {
	if size > uint64(math.MaxInt64) {
		return 0, overflowErr
	}
	return int64(size), nil
}

// Exceeds reports whether size is above a positive limit.
// A limit <= 0 disables the check.
func Exceeds(size, limit int64) bool {
	return limit > 0 && size > limit
}

// ReadAllWithLimit reads r to EOF, returning overflowErr if more than
// maxSize bytes are available. A maxSize <= 0 disables the limit.
//
// The reader is consumed one byte past the limit so that content of exactly
// maxSize bytes is accepted.
func ReadAllWithLimit(r io.Reader, maxSize int64, overflowErr error) ([]byte, error) {
	if maxSize <= 0 {
		return io.ReadAll(r)
	}
	if maxSize > math.MaxInt64-1 {
		return nil, overflowErr
	}
	lr := &io.LimitedReader{R: r, N: maxSize + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxSize {
		return nil, overflowErr
	}
	return data, nil
}
