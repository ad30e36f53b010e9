package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driven"
	"github.com/contextiq-labs/contextiq/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser extracts text from PDF files, one Page per PDF page, so
// answers can cite the page a passage came from.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Supports reports whether this normaliser handles the extension.
func (n *Normaliser) Supports(ext string) bool {
	return ext == ".pdf"
}

// Normalise reads the PDF at path page by page. Pages whose text cannot
// be extracted are skipped with a warning rather than failing the whole
// document; scanned PDFs often have a few such pages.
func (n *Normaliser) Normalise(ctx context.Context, path string) (*domain.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var pages []domain.Page
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("Failed to extract text from page %d of %s: %v", i, path, err)
			continue
		}

		pages = append(pages, domain.Page{Number: i, Text: text})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no extractable text in %s: %w", path, domain.ErrInvalidInput)
	}

	return &domain.Document{
		ID:        uuid.New().String(),
		Title:     titleFromPages(pages, path),
		URI:       path,
		Pages:     pages,
		CreatedAt: time.Now(),
	}, nil
}

// titleFromPages uses the first non-empty line of the first page as the
// title when it looks like one, falling back to the file name.
func titleFromPages(pages []domain.Page, path string) string {
	for _, line := range strings.Split(pages[0].Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Headings are short; a long first line is body text.
		if len(line) <= 120 {
			return line
		}
		break
	}
	return domain.TitleFromURI(path)
}
