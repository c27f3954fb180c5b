package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a document extension has no loader.
	// Fatal for that ingestion only.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrDimensionMismatch indicates an embedding length disagrees with the
	// dimensionality fixed by the tenant index. Fatal for that insertion batch.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrCorruptPersistedState indicates the persisted index triple could not
	// be decoded. The store treats it as absent and starts empty.
	ErrCorruptPersistedState = errors.New("corrupt persisted state")

	// ErrEmbeddingUnavailable indicates no embedding service could be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreClosed indicates the vector store registry has been closed.
	ErrStoreClosed = errors.New("vector store closed")
)

// UnsupportedFormatError names the extension that has no loader.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported file type: %s", ext)
}

// Unwrap allows errors.Is(err, ErrUnsupportedFormat).
func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}

// DimensionMismatchError reports the expected and received vector lengths.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// Unwrap allows errors.Is(err, ErrDimensionMismatch).
func (e *DimensionMismatchError) Unwrap() error {
	return ErrDimensionMismatch
}
