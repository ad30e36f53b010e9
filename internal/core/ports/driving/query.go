package driving

import (
	"context"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
)

// RetrieveService exposes raw retrieval: embed the query, search the index,
// score the results.
type RetrieveService interface {
	// Retrieve returns the top-k chunks for the query, restricted to
	// targetDocuments when non-empty. An empty index or no matches yields
	// an empty result with low confidence, not an error.
	Retrieve(ctx context.Context, query string, k int, targetDocuments []string) (domain.RetrievalResult, error)
}

// AnswerMode describes how an answer was assembled.
type AnswerMode string

// Answer modes, mirroring how retrieved chunks were grouped.
const (
	// AnswerModeNone means nothing was retrieved; the answer is a
	// fixed fallback message.
	AnswerModeNone AnswerMode = "none"

	// AnswerModeCombined means one answer over all retrieved documents.
	AnswerModeCombined AnswerMode = "combined"

	// AnswerModePerDocument means one answer per retrieved document.
	AnswerModePerDocument AnswerMode = "per_document"
)

// AnswerOptions configures a question-answering call.
type AnswerOptions struct {
	// TopK is the number of chunks to retrieve (default 10).
	TopK int

	// TargetDocuments restricts retrieval to these document IDs.
	// Empty means all documents.
	TargetDocuments []string

	// Combined forces a single combined answer across documents.
	// When false, the mode is inferred from the query wording.
	Combined bool
}

// Answer is a grounded natural-language answer with attribution.
type Answer struct {
	// Mode is how the answer was assembled.
	Mode AnswerMode

	// Text is the combined answer (modes none and combined).
	Text string

	// PerDocument holds one answer per document ID (mode per_document).
	PerDocument map[string]string

	// Attributions lists supporting locations, descending by score.
	Attributions []domain.Attribution

	// Confidence labels the retrieval grounding.
	Confidence domain.Confidence

	// MaxScore and AvgScore are computed over the retrieved set only.
	MaxScore float64
	AvgScore float64
}

// AnswerService answers questions over the ingested documents using
// retrieval-augmented generation.
type AnswerService interface {
	// Answer retrieves supporting chunks and delegates to the configured
	// text-generation backend. Provider failures surface as errors
	// wrapping domain.ErrProviderUnavailable; they never produce a stale
	// or ungrounded answer.
	Answer(ctx context.Context, query string, opts AnswerOptions) (*Answer, error)
}
