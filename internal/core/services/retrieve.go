package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driven"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driving"
	"github.com/contextiq-labs/contextiq/internal/logger"
)

// Ensure RetrieveService implements the interface.
var _ driving.RetrieveService = (*RetrieveService)(nil)

// RetrieveService embeds queries and searches the vector index.
type RetrieveService struct {
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	thresholds       domain.ConfidenceThresholds
}

// NewRetrieveService creates a new retrieval service.
func NewRetrieveService(
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	thresholds domain.ConfidenceThresholds,
) *RetrieveService {
	return &RetrieveService{
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		thresholds:       thresholds,
	}
}

// Retrieve returns the top-k chunks for the query, restricted to
// targetDocuments when non-empty. An empty index, no matches or a
// non-positive k all yield an empty low-confidence result, not an error.
func (s *RetrieveService) Retrieve(
	ctx context.Context, query string, k int, targetDocuments []string,
) (domain.RetrievalResult, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q, k=%d", query, k)

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.RetrievalResult{}, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}
	if k <= 0 {
		logger.Debug("Non-positive k, nothing to retrieve")
		return domain.RetrievalResult{Confidence: domain.ConfidenceLow}, nil
	}

	if s.vectorIndex.Len() == 0 {
		logger.Debug("Index is empty")
		return domain.RetrievalResult{Confidence: domain.ConfidenceLow}, nil
	}

	embedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("embed query: %w", err)
	}

	var filter driven.EntryFilter
	if len(targetDocuments) > 0 {
		logger.Debug("Document filter: %v", targetDocuments)
		allowed := make(map[string]bool, len(targetDocuments))
		for _, id := range targetDocuments {
			allowed[id] = true
		}
		filter = func(meta driven.EntryMeta) bool {
			return allowed[meta.DocumentID]
		}
	}

	hits, err := s.vectorIndex.Search(ctx, embedding, k, filter)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("vector search: %w", err)
	}

	result := scoreHits(hits, s.thresholds)
	logger.Info("Retrieved %d chunks (max=%.3f, avg=%.3f, confidence=%s)",
		len(result.Chunks), result.MaxScore, result.AvgScore, result.Confidence)

	return result, nil
}

// scoreHits derives statistics and a confidence label over the returned
// set only. Hits arrive already sorted descending by score.
func scoreHits(hits []driven.Hit, thresholds domain.ConfidenceThresholds) domain.RetrievalResult {
	if len(hits) == 0 {
		return domain.RetrievalResult{Confidence: domain.ConfidenceLow}
	}

	chunks := make([]domain.ScoredChunk, len(hits))
	var sum float64
	for i, hit := range hits {
		chunks[i] = domain.ScoredChunk{
			DocumentID: hit.Meta.DocumentID,
			Page:       hit.Meta.Page,
			ChunkIndex: hit.Meta.ChunkIndex,
			Content:    hit.Meta.Content,
			Score:      hit.Score,
		}
		sum += hit.Score
	}

	maxScore := hits[0].Score
	avgScore := sum / float64(len(hits))

	return domain.RetrievalResult{
		Chunks:     chunks,
		MaxScore:   maxScore,
		AvgScore:   avgScore,
		Confidence: thresholds.Label(maxScore),
	}
}
