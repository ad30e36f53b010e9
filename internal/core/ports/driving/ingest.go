package driving

import (
	"context"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
)

// IngestReport summarises a single document ingestion.
type IngestReport struct {
	// DocumentID is the ingested document.
	DocumentID string

	// ChunksStored is the number of chunks embedded and indexed.
	ChunksStored int

	// Truncated reports that the max-chunks ceiling was reached and
	// remaining text was dropped.
	Truncated bool
}

// IngestService runs the ingestion pipeline: chunk, embed, index.
type IngestService interface {
	// Ingest chunks the document, embeds the chunks and inserts them into
	// the vector index (and the document store when configured).
	// Invalid chunking parameters fail with domain.ErrInvalidChunkConfig
	// before any work is done.
	Ingest(ctx context.Context, doc *domain.Document) (IngestReport, error)

	// IngestAll ingests each document independently: one failing document
	// does not block the others. The error aggregates per-document
	// failures, if any.
	IngestAll(ctx context.Context, docs []*domain.Document) ([]IngestReport, error)
}
