package services

import (
	"context"
	"fmt"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driven"
)

// mockEmbedder returns canned vectors by text, optionally failing the
// first failures calls with failErr.
type mockEmbedder struct {
	vectors  map[string][]float32
	dim      int
	failures int
	failErr  error
	calls    int
}

func newMockEmbedder(dim int) *mockEmbedder {
	return &mockEmbedder{vectors: make(map[string][]float32), dim: dim}
}

func (m *mockEmbedder) set(text string, vector []float32) {
	m.vectors[text] = vector
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.failures > 0 {
		m.failures--
		return nil, m.failErr
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return make([]float32, m.dim), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.failures > 0 {
		m.failures--
		return nil, m.failErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := m.vectors[text]; ok {
			result[i] = v
		} else {
			result[i] = make([]float32, m.dim)
		}
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dim }
func (m *mockEmbedder) ModelName() string            { return "mock" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockStore records saved documents and chunks in memory.
type mockStore struct {
	docs    []domain.Document
	chunks  []domain.Chunk
	saveErr error
}

func (m *mockStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs = append(m.docs, *doc)
	return nil
}

func (m *mockStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *mockStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *mockStore) LoadChunks(_ context.Context) ([]domain.Chunk, error) {
	return m.chunks, nil
}

func (m *mockStore) DeleteDocument(_ context.Context, _ string) error { return nil }
func (m *mockStore) Close() error                                     { return nil }

// mockGenerator records prompts and echoes a canned answer.
type mockGenerator struct {
	prompts       []string
	systemPrompts []string
	response      string
	err           error
}

func (m *mockGenerator) Generate(_ context.Context, prompt, systemPrompt string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.prompts = append(m.prompts, prompt)
	m.systemPrompts = append(m.systemPrompts, systemPrompt)
	return fmt.Sprintf("%s #%d", m.response, len(m.prompts)), nil
}

func (m *mockGenerator) ModelName() string            { return "mock" }
func (m *mockGenerator) Ping(_ context.Context) error { return nil }
func (m *mockGenerator) Close() error                 { return nil }

// mockRetriever returns a fixed retrieval result.
type mockRetriever struct {
	result domain.RetrievalResult
	err    error

	lastQuery   string
	lastK       int
	lastTargets []string
}

func (m *mockRetriever) Retrieve(
	_ context.Context, query string, k int, targetDocuments []string,
) (domain.RetrievalResult, error) {
	m.lastQuery = query
	m.lastK = k
	m.lastTargets = targetDocuments
	return m.result, m.err
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)
var _ driven.DocumentStore = (*mockStore)(nil)
var _ driven.Generator = (*mockGenerator)(nil)
