package driven

import (
	"context"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
)

// Normaliser extracts per-page text from a source file, producing a
// Document ready for chunking. Each normaliser handles specific file
// extensions (e.g. .pdf, .txt).
type Normaliser interface {
	// Supports reports whether this normaliser handles the extension.
	// The extension includes the leading dot and is lower-case.
	Supports(ext string) bool

	// Normalise reads the file at path and returns a Document with its
	// ordered (page number, text) pairs populated.
	Normalise(ctx context.Context, path string) (*domain.Document, error)
}
