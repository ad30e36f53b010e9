package plaintext

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text and markdown files. The whole file becomes
// a single page; attribution for these formats is document-level anyway.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Supports reports whether this normaliser handles the extension.
func (n *Normaliser) Supports(ext string) bool {
	switch ext {
	case ".txt", ".text", ".md", ".markdown":
		return true
	}
	return false
}

// Normalise reads the file and returns a single-page document.
func (n *Normaliser) Normalise(_ context.Context, path string) (*domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &domain.Document{
		ID:    uuid.New().String(),
		Title: domain.TitleFromURI(path),
		URI:   path,
		Pages: []domain.Page{
			{Number: 1, Text: string(content)},
		},
		CreatedAt: time.Now(),
	}, nil
}
