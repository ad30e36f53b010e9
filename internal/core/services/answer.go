package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driven"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driving"
	"github.com/contextiq-labs/contextiq/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// DefaultAnswerTopK is the retrieval depth when the caller does not set one.
const DefaultAnswerTopK = 10

// FallbackAnswer is returned when retrieval finds nothing to ground an
// answer in. The generator is never called in that case.
const FallbackAnswer = "I could not find any relevant content in the ingested documents to answer your question."

// systemPrompt keeps the generator grounded in the retrieved excerpts.
const systemPrompt = "You are a careful research assistant. Answer the question using only the " +
	"provided excerpts. If the excerpts do not contain the answer, say so " +
	"plainly instead of guessing. Cite page numbers where relevant."

// combinedTriggers are query phrasings that ask for one answer across all
// documents rather than one answer per document.
var combinedTriggers = []string{
	"these papers",
	"all papers",
	"these documents",
	"all documents",
	"combined",
	"together",
}

// AnswerService assembles grounded answers from retrieved chunks.
type AnswerService struct {
	retriever driving.RetrieveService
	generator driven.Generator
}

// NewAnswerService creates a new answering service.
func NewAnswerService(retriever driving.RetrieveService, generator driven.Generator) *AnswerService {
	return &AnswerService{
		retriever: retriever,
		generator: generator,
	}
}

// Answer retrieves supporting chunks and delegates to the generation
// backend. With nothing retrieved it returns the fixed fallback answer.
func (s *AnswerService) Answer(
	ctx context.Context, query string, opts driving.AnswerOptions,
) (*driving.Answer, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultAnswerTopK
	}

	result, err := s.retriever.Retrieve(ctx, query, topK, opts.TargetDocuments)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	if result.Empty() {
		logger.Info("No relevant chunks retrieved, returning fallback answer")
		return &driving.Answer{
			Mode:       driving.AnswerModeNone,
			Text:       FallbackAnswer,
			Confidence: domain.ConfidenceLow,
		}, nil
	}

	byDocument := groupByDocument(result.Chunks)

	answer := &driving.Answer{
		Attributions: attributions(result.Chunks),
		Confidence:   result.Confidence,
		MaxScore:     result.MaxScore,
		AvgScore:     result.AvgScore,
	}

	if opts.Combined || wantsCombined(query) || len(byDocument) == 1 {
		logger.Debug("Answer mode: combined (%d documents)", len(byDocument))
		text, err := s.generator.Generate(ctx, combinedPrompt(query, result.Chunks), systemPrompt)
		if err != nil {
			return nil, fmt.Errorf("generate answer: %w", err)
		}
		answer.Mode = driving.AnswerModeCombined
		answer.Text = text
		return answer, nil
	}

	logger.Debug("Answer mode: per-document (%d documents)", len(byDocument))
	perDocument := make(map[string]string, len(byDocument))
	for _, docID := range documentOrder(result.Chunks) {
		text, err := s.generator.Generate(ctx, documentPrompt(query, docID, byDocument[docID]), systemPrompt)
		if err != nil {
			return nil, fmt.Errorf("generate answer for %s: %w", docID, err)
		}
		perDocument[docID] = text
	}

	answer.Mode = driving.AnswerModePerDocument
	answer.PerDocument = perDocument
	return answer, nil
}

// wantsCombined reports whether the query wording asks for one answer
// spanning all documents.
func wantsCombined(query string) bool {
	lower := strings.ToLower(query)
	for _, trigger := range combinedTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// groupByDocument buckets chunks by owning document, keeping score order
// within each bucket.
func groupByDocument(chunks []domain.ScoredChunk) map[string][]domain.ScoredChunk {
	grouped := make(map[string][]domain.ScoredChunk)
	for _, chunk := range chunks {
		grouped[chunk.DocumentID] = append(grouped[chunk.DocumentID], chunk)
	}
	return grouped
}

// documentOrder lists document IDs by their best-scoring chunk, which is
// first appearance since chunks arrive descending by score.
func documentOrder(chunks []domain.ScoredChunk) []string {
	seen := make(map[string]bool)
	var order []string
	for _, chunk := range chunks {
		if !seen[chunk.DocumentID] {
			seen[chunk.DocumentID] = true
			order = append(order, chunk.DocumentID)
		}
	}
	return order
}

// attributions maps the retrieved chunks to answer citations, descending
// by score.
func attributions(chunks []domain.ScoredChunk) []domain.Attribution {
	result := make([]domain.Attribution, len(chunks))
	for i, chunk := range chunks {
		result[i] = domain.Attribution{
			DocumentID: chunk.DocumentID,
			Page:       chunk.Page,
			Score:      chunk.Score,
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}

// combinedPrompt builds one prompt over all retrieved chunks.
func combinedPrompt(query string, chunks []domain.ScoredChunk) string {
	var b strings.Builder
	b.WriteString("Excerpts from the ingested documents:\n\n")
	writeExcerpts(&b, chunks, true)
	fmt.Fprintf(&b, "\nQuestion: %s\n", query)
	return b.String()
}

// documentPrompt builds a prompt over a single document's chunks.
func documentPrompt(query, docID string, chunks []domain.ScoredChunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Excerpts from document %s:\n\n", docID)
	writeExcerpts(&b, chunks, false)
	fmt.Fprintf(&b, "\nQuestion: %s\n", query)
	return b.String()
}

// writeExcerpts renders chunks as cited blocks.
func writeExcerpts(b *strings.Builder, chunks []domain.ScoredChunk, withDocument bool) {
	for _, chunk := range chunks {
		if withDocument {
			fmt.Fprintf(b, "[Document %s, page %d]\n", chunk.DocumentID, chunk.Page)
		} else {
			fmt.Fprintf(b, "[Page %d]\n", chunk.Page)
		}
		b.WriteString(strings.TrimSpace(chunk.Content))
		b.WriteString("\n\n")
	}
}
