package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidChunkConfig indicates an invalid chunk size, overlap or
	// max-chunks combination. Ingestion rejects the document before any
	// chunking occurs.
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// ErrProviderUnavailable indicates the embedding or generation backend
	// is unreachable, timed out, or rejected the credentials. Callers may
	// retry with backoff; the system never silently substitutes a
	// different provider mid-document.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrDimensionMismatch indicates a vector of the wrong dimension was
	// inserted or compared. This points at a provider misconfiguration
	// (e.g. switching embedding models without rebuilding the index) and
	// is detected eagerly on insert.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrGenerationFailed indicates the text-generation backend returned
	// an error for an otherwise valid prompt.
	ErrGenerationFailed = errors.New("text generation failed")

	// ErrUnsupportedType indicates no normaliser handles the file type.
	ErrUnsupportedType = errors.New("unsupported type")
)
