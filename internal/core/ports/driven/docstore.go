package driven

import (
	"context"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
)

// DocumentStore persists ingested documents and their chunks.
//
// Chunks are stored with their embeddings in insertion order so the
// in-memory VectorIndex can be rebuilt exactly on startup, preserving the
// stable tie-break ordering of equal-score entries.
type DocumentStore interface {
	// SaveDocument stores document metadata.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks appends chunks (with embeddings) for a document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// ListDocuments returns metadata for all stored documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// LoadChunks returns every stored chunk in original insertion order.
	LoadChunks(ctx context.Context) ([]domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, documentID string) error

	// Close closes the underlying storage.
	Close() error
}
