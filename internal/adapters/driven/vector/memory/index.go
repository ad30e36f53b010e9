// Package memory provides an in-memory vector index with brute-force
// cosine similarity search.
//
// The index is process-wide, shared across concurrent requests, and rebuilt
// from the document store on startup. There is no persistence of its own
// and no deletion: entries are append-only within a session.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores L2-normalised vectors and their chunk metadata.
//
// Vectors are normalised on insert and queries are normalised on search, so
// similarity is a plain dot product. Writers hold the exclusive lock only
// for the append itself; embedding calls never happen under the lock.
type Index struct {
	mu      sync.RWMutex
	dim     int
	vectors [][]float32
	metas   []driven.EntryMeta
}

// NewIndex creates an empty index. The dimension is fixed by the first
// inserted entry.
func NewIndex() *Index {
	return &Index{}
}

// Insert appends entries. Every entry is dimension-checked against the
// index before anything is appended, so a provider misconfiguration fails
// eagerly instead of surfacing as a cryptic arithmetic failure at search
// time.
func (idx *Index) Insert(_ context.Context, entries []driven.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	dim := idx.dim
	if dim == 0 {
		dim = len(entries[0].Vector)
		if dim == 0 {
			return fmt.Errorf("insert: empty vector: %w", domain.ErrDimensionMismatch)
		}
	}
	for _, e := range entries {
		if len(e.Vector) != dim {
			return fmt.Errorf("insert: got dimension %d, index has %d: %w",
				len(e.Vector), dim, domain.ErrDimensionMismatch)
		}
	}

	idx.dim = dim
	for _, e := range entries {
		idx.vectors = append(idx.vectors, normalise(e.Vector))
		idx.metas = append(idx.metas, e.Meta)
	}
	return nil
}

// Search returns the top-k entries by cosine similarity, descending.
// The filter is applied before ranking, so the result is the top-k among
// matching entries, not the global top-k filtered afterwards. Equal scores
// keep insertion order, which makes repeated searches reproducible.
func (idx *Index) Search(_ context.Context, query []float32, k int, filter driven.EntryFilter) ([]driven.Hit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if k <= 0 || len(idx.vectors) == 0 {
		return nil, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("search: got dimension %d, index has %d: %w",
			len(query), idx.dim, domain.ErrDimensionMismatch)
	}

	q := normalise(query)

	hits := make([]driven.Hit, 0, len(idx.vectors))
	for i, vec := range idx.vectors {
		if filter != nil && !filter(idx.metas[i]) {
			continue
		}
		hits = append(hits, driven.Hit{Meta: idx.metas[i], Score: dot(vec, q)})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of entries in the index.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Dimensions returns the index dimension, or 0 while empty.
func (idx *Index) Dimensions() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dim
}

// Close releases resources. The in-memory index holds none.
func (idx *Index) Close() error {
	return nil
}

// normalise returns an L2-normalised copy of v. A zero-magnitude vector is
// copied as-is, so its similarity to anything is 0 rather than a division
// by zero.
func normalise(v []float32) []float32 {
	out := make([]float32, len(v))
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		copy(out, v)
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// dot computes the dot product in float64 for precision.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
