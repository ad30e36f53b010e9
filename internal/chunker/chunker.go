// Package chunker splits documents into overlapping fixed-size spans with
// page provenance.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
)

// Chunker cuts a document's page texts into overlapping chunks.
//
// Page texts are concatenated while page-start offsets are retained, so
// every chunk can be attributed to the page containing its first character.
// A chunk spanning a page boundary belongs to its start page.
type Chunker struct {
	cfg domain.ChunkConfig
}

// pageStart marks where a page's text begins in the concatenated document.
type pageStart struct {
	offset int // rune offset into the concatenated text
	number int // 1-based page number
}

// New creates a chunker, rejecting invalid parameter combinations with
// domain.ErrInvalidChunkConfig before any chunking can occur.
func New(cfg domain.ChunkConfig) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("chunker: size=%d overlap=%d maxChunks=%d: %w",
			cfg.Size, cfg.Overlap, cfg.MaxChunks, err)
	}
	return &Chunker{cfg: cfg}, nil
}

// Config returns the chunking parameters in use.
func (c *Chunker) Config() domain.ChunkConfig {
	return c.cfg
}

// Chunk splits the document into chunks of up to Size runes, each advanced
// by Size-Overlap from the previous one. It stops at MaxChunks and reports
// truncation so dropped text is never silently lost.
//
// Whitespace-only pages contribute no text but keep their page numbers, so
// attribution stays consistent with the source document.
func (c *Chunker) Chunk(doc *domain.Document) ([]domain.Chunk, bool, error) {
	if doc == nil {
		return nil, false, domain.ErrInvalidInput
	}

	var text []rune
	var starts []pageStart
	for _, page := range doc.Pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		starts = append(starts, pageStart{offset: len(text), number: page.Number})
		text = append(text, []rune(page.Text)...)
	}

	if len(text) == 0 {
		return nil, false, nil
	}

	step := c.cfg.Size - c.cfg.Overlap
	estimated := len(text)/step + 1
	if estimated > c.cfg.MaxChunks {
		estimated = c.cfg.MaxChunks
	}
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	for start < len(text) {
		if len(chunks) == c.cfg.MaxChunks {
			return chunks, true, nil
		}

		end := start + c.cfg.Size
		if end > len(text) {
			end = len(text)
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Index:      len(chunks),
			Page:       pageAt(starts, start),
			Content:    string(text[start:end]),
		})

		// The last chunk reaches the end; a further overlap-only chunk
		// would duplicate text already emitted.
		if end == len(text) {
			break
		}
		start += step
	}

	return chunks, false, nil
}

// pageAt returns the number of the page containing the rune offset.
func pageAt(starts []pageStart, offset int) int {
	page := 0
	for _, s := range starts {
		if s.offset > offset {
			break
		}
		page = s.number
	}
	return page
}
