package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
)

func testConfig(size, overlap, maxChunks int) domain.ChunkConfig {
	return domain.ChunkConfig{Size: size, Overlap: overlap, MaxChunks: maxChunks}
}

func singlePageDoc(text string) *domain.Document {
	return &domain.Document{
		ID:    "doc-1",
		Pages: []domain.Page{{Number: 1, Text: text}},
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.ChunkConfig
	}{
		{"zero size", testConfig(0, 0, 10)},
		{"overlap equals size", testConfig(100, 100, 10)},
		{"negative overlap", testConfig(100, -1, 10)},
		{"zero max chunks", testConfig(100, 20, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if err == nil {
				t.Fatal("expected error for invalid config")
			}
			if !errors.Is(err, domain.ErrInvalidChunkConfig) {
				t.Errorf("expected ErrInvalidChunkConfig, got %v", err)
			}
		})
	}
}

func TestChunk_ShortDocumentYieldsOneChunk(t *testing.T) {
	c, err := New(testConfig(1500, 200, 500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := singlePageDoc("a short document")
	chunks, truncated, err := c.Chunk(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if truncated {
		t.Error("expected no truncation")
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "a short document" {
		t.Errorf("chunk content does not match document text")
	}
	if chunks[0].Page != 1 {
		t.Errorf("expected page 1, got %d", chunks[0].Page)
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
}

func TestChunk_DocumentShorterThanSizeIsOneChunk(t *testing.T) {
	// 1400 characters is shorter than size but longer than size-overlap;
	// the whole document still fits in a single chunk.
	c, err := New(testConfig(1500, 200, 500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks, _, err := c.Chunk(singlePageDoc(strings.Repeat("y", 1400)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if len(chunks[0].Content) != 1400 {
		t.Errorf("expected full document in one chunk, got %d chars", len(chunks[0].Content))
	}
}

func TestChunk_OffsetsAndCount(t *testing.T) {
	// 3200 characters with size=1500, overlap=200 must yield exactly 3
	// chunks, with the second chunk starting at offset 1300.
	text := make([]byte, 3200)
	for i := range text {
		text[i] = byte('a' + i%26)
	}

	c, err := New(testConfig(1500, 200, 500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks, truncated, err := c.Chunk(singlePageDoc(string(text)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if truncated {
		t.Error("expected no truncation")
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	if got, want := chunks[0].Content, string(text[0:1500]); got != want {
		t.Error("chunk 1 content mismatch")
	}
	if got, want := chunks[1].Content, string(text[1300:2800]); got != want {
		t.Error("chunk 2 should start at offset 1300")
	}
	if got, want := chunks[2].Content, string(text[2600:3200]); got != want {
		t.Error("chunk 3 should start at offset 2600")
	}
}

func TestChunk_ReconstructsOriginalText(t *testing.T) {
	// Concatenating chunks with the overlap regions removed must
	// reconstruct the original text.
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 80)

	c, err := New(testConfig(300, 50, 500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks, truncated, err := c.Chunk(singlePageDoc(text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if truncated {
		t.Fatal("expected no truncation")
	}

	var rebuilt strings.Builder
	for i, chunk := range chunks {
		content := []rune(chunk.Content)
		if i > 0 {
			// Drop this chunk's leading overlap, already emitted by
			// the previous chunk.
			keep := len(content) - 50
			if keep < 0 {
				keep = 0
			}
			content = content[len(content)-keep:]
		}
		rebuilt.WriteString(string(content))
	}

	if rebuilt.String() != text {
		t.Error("reconstructed text does not match original")
	}
}

func TestChunk_MaxChunksTruncates(t *testing.T) {
	// Naive chunking would produce 600 chunks; the ceiling keeps 500 and
	// reports truncation.
	cfg := testConfig(100, 0, 500)
	text := strings.Repeat("x", 600*100)

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks, truncated, err := c.Chunk(singlePageDoc(text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !truncated {
		t.Error("expected truncation to be reported")
	}
	if len(chunks) != 500 {
		t.Errorf("expected exactly 500 chunks, got %d", len(chunks))
	}
}

func TestChunk_PageAttribution(t *testing.T) {
	// Pages of 80 characters each with size=100, overlap=0: the second
	// chunk starts at offset 100, inside page 2, even though it spans
	// into page 3.
	page := strings.Repeat("p", 80)
	doc := &domain.Document{
		ID: "doc-1",
		Pages: []domain.Page{
			{Number: 1, Text: page},
			{Number: 2, Text: page},
			{Number: 3, Text: page},
		},
	}

	c, err := New(testConfig(100, 0, 500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks, _, err := c.Chunk(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	// Chunk starts: 0 (page 1), 100 (page 2), 200 (page 3).
	for i, want := range []int{1, 2, 3} {
		if chunks[i].Page != want {
			t.Errorf("chunk %d: expected page %d, got %d", i, want, chunks[i].Page)
		}
	}
}

func TestChunk_SkipsWhitespaceOnlyPages(t *testing.T) {
	// A whitespace-only page contributes no text but page numbering is
	// preserved: text starting on page 3 is attributed to page 3.
	doc := &domain.Document{
		ID: "doc-1",
		Pages: []domain.Page{
			{Number: 1, Text: strings.Repeat("a", 50)},
			{Number: 2, Text: "   \n\t  "},
			{Number: 3, Text: strings.Repeat("b", 50)},
		},
	}

	c, err := New(testConfig(60, 10, 500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks, _, err := c.Chunk(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Page != 1 {
		t.Errorf("expected first chunk on page 1, got %d", chunks[0].Page)
	}
	// Second chunk starts at offset 50, which is where page 3 begins.
	if chunks[1].Page != 3 {
		t.Errorf("expected second chunk on page 3, got %d", chunks[1].Page)
	}
	if strings.Contains(chunks[0].Content+chunks[1].Content, "\t") {
		t.Error("whitespace-only page text should not appear in chunks")
	}
}

func TestChunk_EmptyDocument(t *testing.T) {
	c, err := New(testConfig(100, 20, 500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks, truncated, err := c.Chunk(&domain.Document{ID: "doc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if truncated {
		t.Error("expected no truncation")
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty document, got %d", len(chunks))
	}
}
