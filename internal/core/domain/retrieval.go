package domain

// Confidence is a coarse human-readable bucket derived from retrieval
// similarity scores.
type Confidence string

// Confidence labels, ordered from weakest to strongest grounding.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ConfidenceThresholds maps a max similarity score to a confidence label.
// The thresholds are a surfaced design choice, not an internal constant:
// callers (and tests) may override them.
type ConfidenceThresholds struct {
	// High is the minimum max-score for ConfidenceHigh.
	High float64

	// Medium is the minimum max-score for ConfidenceMedium.
	// Anything below is ConfidenceLow.
	Medium float64
}

// DefaultConfidenceThresholds returns the standard labelling policy:
// high >= 0.75, medium >= 0.5, low otherwise.
func DefaultConfidenceThresholds() ConfidenceThresholds {
	return ConfidenceThresholds{High: 0.75, Medium: 0.5}
}

// Label buckets a max similarity score. An empty result set labels as low;
// callers pass maxScore = 0 in that case.
func (t ConfidenceThresholds) Label(maxScore float64) Confidence {
	switch {
	case maxScore >= t.High:
		return ConfidenceHigh
	case maxScore >= t.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ScoredChunk is a retrieved chunk with its cosine similarity score.
type ScoredChunk struct {
	// DocumentID is the owning document.
	DocumentID string

	// Page is the page number the chunk starts on.
	Page int

	// ChunkIndex is the chunk's ordinal position within its document.
	ChunkIndex int

	// Content is the chunk text.
	Content string

	// Score is the cosine similarity to the query, in [-1, 1]
	// (practically [0, 1] for normalised text embeddings).
	Score float64
}

// RetrievalResult is the ordered outcome of a retrieval: scored chunks
// descending by score, plus derived statistics and a confidence label.
// An empty result with ConfidenceLow is a valid outcome, not an error.
type RetrievalResult struct {
	// Chunks are the retrieved chunks, descending by score. Equal scores
	// keep insertion order for reproducibility.
	Chunks []ScoredChunk

	// MaxScore is the highest score over the returned set only.
	MaxScore float64

	// AvgScore is the mean score over the returned set only.
	AvgScore float64

	// Confidence labels the strength of the grounding.
	Confidence Confidence
}

// Empty reports whether no chunks were retrieved.
func (r RetrievalResult) Empty() bool {
	return len(r.Chunks) == 0
}

// Attribution maps an answer back to a supporting document location.
type Attribution struct {
	// DocumentID is the supporting document.
	DocumentID string

	// Page is the supporting page number.
	Page int

	// Score is the similarity score of the supporting chunk.
	Score float64
}
