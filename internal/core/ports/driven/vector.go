package driven

import "context"

// VectorIndex holds chunk vectors plus metadata and answers k-nearest
// neighbour queries by cosine similarity.
//
// Entries are append-only within a session: there is no update-in-place,
// and re-ingestion creates new entries. The index is in-memory only and is
// rebuilt from the DocumentStore on startup.
type VectorIndex interface {
	// Insert appends entries to the index. The first inserted entry fixes
	// the index dimension; any later entry of a different dimension fails
	// with domain.ErrDimensionMismatch before anything is appended.
	Insert(ctx context.Context, entries []Entry) error

	// Search returns up to k entries most similar to the query vector,
	// descending by cosine similarity. Entries with equal scores keep
	// insertion order. When filter is non-nil it is applied before
	// ranking, so the result is the top-k among matching entries.
	Search(ctx context.Context, query []float32, k int, filter EntryFilter) ([]Hit, error)

	// Len returns the number of entries in the index.
	Len() int

	// Dimensions returns the index dimension, or 0 while empty.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// EntryMeta is the chunk metadata stored alongside each vector.
type EntryMeta struct {
	// DocumentID is the owning document.
	DocumentID string

	// Page is the page number the chunk starts on.
	Page int

	// ChunkIndex is the chunk's ordinal position within its document.
	ChunkIndex int

	// Content is the chunk text.
	Content string
}

// Entry pairs chunk metadata with its embedding vector.
type Entry struct {
	Meta   EntryMeta
	Vector []float32
}

// EntryFilter restricts a search to entries whose metadata matches.
// A nil filter matches everything.
type EntryFilter func(EntryMeta) bool

// Hit is a single similarity search result.
type Hit struct {
	// Meta is the matched entry's metadata.
	Meta EntryMeta

	// Score is the cosine similarity in [-1, 1]. A zero-magnitude vector
	// on either side scores 0.
	Score float64
}
