// Package saerr defines the typed error values shared by the
// bitvector, rank, selectsup, and sparsearray packages.
package saerr

import "errors"

// Sentinel errors. Callers should match them with errors.Is, since every
// public operation wraps one of these with operation-specific detail.
var (
	// ErrOutOfBounds is returned when a position argument exceeds the
	// legal domain for a query (i > n for rank, i >= n for an indexed
	// lookup, position >= n for append).
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrOutOfOrder is returned when Append is called with a position
	// that is not strictly greater than the previously appended one.
	ErrOutOfOrder = errors.New("out of order")

	// ErrOutOfRange is returned when select is called with an index of
	// zero or greater than the population count.
	ErrOutOfRange = errors.New("out of range")

	// ErrIoFailure is returned when an underlying persistence read or
	// write fails.
	ErrIoFailure = errors.New("io failure")

	// ErrDecodeFailure is returned when a saved artifact is malformed,
	// truncated, or version-mismatched.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrInvalidState is returned when a builder is used after it has
	// already been finalized.
	ErrInvalidState = errors.New("invalid state")
)
