package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contextiq-labs/contextiq/internal/chunker"
	"github.com/contextiq-labs/contextiq/internal/core/domain"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driven"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driving"
	"github.com/contextiq-labs/contextiq/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// embedAttempts bounds retries against a flaky embedding provider.
const embedAttempts = 3

// IngestService runs the ingestion pipeline: chunk, embed, persist, index.
type IngestService struct {
	chunker          *chunker.Chunker
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	docStore         driven.DocumentStore
}

// NewIngestService creates a new ingestion service.
// The docStore parameter is optional (can be nil for index-only operation).
func NewIngestService(
	ch *chunker.Chunker,
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	docStore driven.DocumentStore,
) *IngestService {
	return &IngestService{
		chunker:          ch,
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		docStore:         docStore,
	}
}

// Ingest chunks the document, embeds the chunks and inserts them into the
// vector index. When a document store is configured, the document and its
// chunks are persisted only after the index accepts them, so a rejected
// batch (a dimension mismatch, say) leaves no rows behind to poison the
// index rebuild on the next run. A crash between indexing and persisting
// loses at most this document; the store stays consistent either way.
func (s *IngestService) Ingest(ctx context.Context, doc *domain.Document) (driving.IngestReport, error) {
	if doc == nil {
		return driving.IngestReport{}, domain.ErrInvalidInput
	}

	logger.Section("Ingestion")
	logger.Debug("Document: %q (%s)", doc.Title, doc.URI)

	chunks, truncated, err := s.chunker.Chunk(doc)
	if err != nil {
		return driving.IngestReport{}, fmt.Errorf("chunk document: %w", err)
	}
	if truncated {
		logger.Warn("Document %q truncated at %d chunks", doc.Title, len(chunks))
	}
	logger.Debug("Chunks: %d", len(chunks))

	if len(chunks) == 0 {
		// Nothing to embed; still record the document if a store exists.
		if s.docStore != nil {
			if err := s.docStore.SaveDocument(ctx, doc); err != nil {
				return driving.IngestReport{}, fmt.Errorf("save document: %w", err)
			}
		}
		return driving.IngestReport{DocumentID: doc.ID, Truncated: truncated}, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.embedWithRetry(ctx, texts)
	if err != nil {
		return driving.IngestReport{}, fmt.Errorf("embed chunks: %w", err)
	}

	entries := make([]driven.Entry, len(chunks))
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
		entries[i] = driven.Entry{
			Meta: driven.EntryMeta{
				DocumentID: chunks[i].DocumentID,
				Page:       chunks[i].Page,
				ChunkIndex: chunks[i].Index,
				Content:    chunks[i].Content,
			},
			Vector: vectors[i],
		}
	}

	if err := s.vectorIndex.Insert(ctx, entries); err != nil {
		return driving.IngestReport{}, fmt.Errorf("index chunks: %w", err)
	}

	if s.docStore != nil {
		if err := s.docStore.SaveDocument(ctx, doc); err != nil {
			return driving.IngestReport{}, fmt.Errorf("save document: %w", err)
		}
		if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
			return driving.IngestReport{}, fmt.Errorf("save chunks: %w", err)
		}
	}

	logger.Info("Ingested %q: %d chunks", doc.Title, len(chunks))

	return driving.IngestReport{
		DocumentID:   doc.ID,
		ChunksStored: len(chunks),
		Truncated:    truncated,
	}, nil
}

// IngestAll ingests each document independently. One failing document does
// not block the others; failures are aggregated into the returned error.
func (s *IngestService) IngestAll(ctx context.Context, docs []*domain.Document) ([]driving.IngestReport, error) {
	var reports []driving.IngestReport
	var errs []error

	for _, doc := range docs {
		report, err := s.Ingest(ctx, doc)
		if err != nil {
			title := "<nil>"
			if doc != nil {
				title = doc.Title
			}
			logger.Warn("Ingestion of %q failed: %v", title, err)
			errs = append(errs, fmt.Errorf("ingest %q: %w", title, err))
			continue
		}
		reports = append(reports, report)
	}

	return reports, errors.Join(errs...)
}

// embedWithRetry calls EmbedBatch, retrying provider outages with a short
// backoff. Other errors fail immediately.
func (s *IngestService) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error

	for attempt := 1; attempt <= embedAttempts; attempt++ {
		vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		if !errors.Is(err, domain.ErrProviderUnavailable) {
			return nil, err
		}
		if attempt == embedAttempts {
			break
		}

		backoff := time.Duration(attempt) * time.Second
		logger.Warn("Embedding provider unavailable (attempt %d/%d), retrying in %s: %v",
			attempt, embedAttempts, backoff, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, lastErr
}
