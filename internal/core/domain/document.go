package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Document represents an ingested document as an ordered sequence of pages.
// Documents are immutable after ingestion; re-ingesting a file produces a
// new document with new chunks.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// URI is the original location (file path, URL, etc).
	URI string

	// Pages is the ordered per-page text. Page numbers are 1-based and
	// preserved from the source even when a page carries no text.
	Pages []Page

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Page is a single page of extracted text.
type Page struct {
	// Number is the 1-based page number within the document.
	Number int

	// Text is the raw extracted text for the page.
	Text string
}

// Chunk is the retrieval unit: a bounded span of a document's text.
// Consecutive chunks within a document overlap by the configured overlap
// length, except possibly the last chunk.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Index is the ordinal position within the document.
	Index int

	// Page is the page number containing the chunk's first character.
	// A chunk spanning a page boundary is attributed to its start page.
	Page int

	// Content is the text content of this chunk.
	Content string

	// Embedding is the vector representation for similarity search.
	// All chunks in one index must share the same dimension.
	Embedding []float32
}

// ChunkConfig holds the chunking parameters.
type ChunkConfig struct {
	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is the number of characters shared between consecutive
	// chunks. Must satisfy 0 <= Overlap < Size.
	Overlap int

	// MaxChunks caps the number of chunks per document. Text beyond the
	// cap is dropped and the truncation is reported, not silently lost.
	MaxChunks int
}

// Default chunking parameters, matching common LLM context budgets.
const (
	DefaultChunkSize    = 1500
	DefaultChunkOverlap = 200
	DefaultMaxChunks    = 500
)

// DefaultChunkConfig returns the default chunking parameters.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:      DefaultChunkSize,
		Overlap:   DefaultChunkOverlap,
		MaxChunks: DefaultMaxChunks,
	}
}

// Validate rejects parameter combinations that cannot produce a terminating
// chunk sequence. It is checked before any chunking occurs.
func (c ChunkConfig) Validate() error {
	if c.Size <= 0 {
		return ErrInvalidChunkConfig
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return ErrInvalidChunkConfig
	}
	if c.MaxChunks <= 0 {
		return ErrInvalidChunkConfig
	}
	return nil
}

// TitleFromURI derives a human-readable title from a file path or URL.
func TitleFromURI(uri string) string {
	filename := filepath.Base(uri)

	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}
