package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contextiq-labs/contextiq/internal/adapters/driven/vector/memory"
	"github.com/contextiq-labs/contextiq/internal/core/domain"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driven"
)

func seedIndex(t *testing.T, index *memory.Index, entries []driven.Entry) {
	t.Helper()
	require.NoError(t, index.Insert(context.Background(), entries))
}

func newTestRetrieveService(t *testing.T, embedder *mockEmbedder) (*RetrieveService, *memory.Index) {
	t.Helper()
	index := memory.NewIndex()
	svc := NewRetrieveService(embedder, index, domain.DefaultConfidenceThresholds())
	return svc, index
}

func TestRetrieve_RanksAndScores(t *testing.T) {
	embedder := newMockEmbedder(3)
	embedder.set("what is attention", []float32{1, 0, 0})
	svc, index := newTestRetrieveService(t, embedder)

	seedIndex(t, index, []driven.Entry{
		{Meta: driven.EntryMeta{DocumentID: "doc-a", Page: 1, Content: "about attention"}, Vector: []float32{1, 0, 0}},
		{Meta: driven.EntryMeta{DocumentID: "doc-a", Page: 2, Content: "partly related"}, Vector: []float32{1, 1, 0}},
		{Meta: driven.EntryMeta{DocumentID: "doc-b", Page: 1, Content: "unrelated"}, Vector: []float32{0, 0, 1}},
	})

	result, err := svc.Retrieve(context.Background(), "what is attention", 2, nil)
	require.NoError(t, err)

	require.Len(t, result.Chunks, 2)
	assert.Equal(t, "about attention", result.Chunks[0].Content)
	assert.InDelta(t, 1.0, result.Chunks[0].Score, 1e-6)
	assert.InDelta(t, 0.7071, result.Chunks[1].Score, 1e-3)

	assert.InDelta(t, result.Chunks[0].Score, result.MaxScore, 1e-12)
	wantAvg := (result.Chunks[0].Score + result.Chunks[1].Score) / 2
	assert.InDelta(t, wantAvg, result.AvgScore, 1e-12)
	assert.Equal(t, domain.ConfidenceHigh, result.Confidence)
}

func TestRetrieve_ConfidenceBuckets(t *testing.T) {
	tests := []struct {
		name   string
		vector []float32
		want   domain.Confidence
	}{
		{"identical is high", []float32{1, 0, 0}, domain.ConfidenceHigh},
		{"diagonal is medium", []float32{1, 1, 0}, domain.ConfidenceMedium},
		{"orthogonal is low", []float32{0, 0, 1}, domain.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder := newMockEmbedder(3)
			embedder.set("query", []float32{1, 0, 0})
			svc, index := newTestRetrieveService(t, embedder)

			seedIndex(t, index, []driven.Entry{
				{Meta: driven.EntryMeta{DocumentID: "doc", Page: 1, Content: "c"}, Vector: tt.vector},
			})

			result, err := svc.Retrieve(context.Background(), "query", 1, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Confidence)
		})
	}
}

func TestRetrieve_EmptyIndexIsLowConfidenceNotError(t *testing.T) {
	embedder := newMockEmbedder(3)
	svc, _ := newTestRetrieveService(t, embedder)

	result, err := svc.Retrieve(context.Background(), "anything", 5, nil)
	require.NoError(t, err)

	assert.True(t, result.Empty())
	assert.Equal(t, domain.ConfidenceLow, result.Confidence)
	assert.Zero(t, result.MaxScore)
	// The query is never embedded when there is nothing to search.
	assert.Equal(t, 0, embedder.calls)
}

func TestRetrieve_DocumentFilter(t *testing.T) {
	embedder := newMockEmbedder(3)
	embedder.set("query", []float32{1, 0, 0})
	svc, index := newTestRetrieveService(t, embedder)

	// doc-b scores higher but is filtered out; top-k comes from matches.
	seedIndex(t, index, []driven.Entry{
		{Meta: driven.EntryMeta{DocumentID: "doc-a", Page: 1, Content: "a1"}, Vector: []float32{1, 1, 0}},
		{Meta: driven.EntryMeta{DocumentID: "doc-b", Page: 1, Content: "b1"}, Vector: []float32{1, 0, 0}},
		{Meta: driven.EntryMeta{DocumentID: "doc-a", Page: 2, Content: "a2"}, Vector: []float32{1, 2, 0}},
	})

	result, err := svc.Retrieve(context.Background(), "query", 2, []string{"doc-a"})
	require.NoError(t, err)

	require.Len(t, result.Chunks, 2)
	for _, chunk := range result.Chunks {
		assert.Equal(t, "doc-a", chunk.DocumentID)
	}
	assert.Equal(t, "a1", result.Chunks[0].Content)
}

func TestRetrieve_BlankQueryIsInvalid(t *testing.T) {
	svc, _ := newTestRetrieveService(t, newMockEmbedder(3))

	_, err := svc.Retrieve(context.Background(), "   ", 5, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetrieve_NonPositiveKIsLowConfidenceNotError(t *testing.T) {
	embedder := newMockEmbedder(3)
	embedder.set("query", []float32{1, 0, 0})
	svc, index := newTestRetrieveService(t, embedder)

	// Seeded index, so this exercises the k check rather than the
	// empty-index path.
	seedIndex(t, index, []driven.Entry{
		{Meta: driven.EntryMeta{DocumentID: "doc", Page: 1, Content: "c"}, Vector: []float32{1, 0, 0}},
	})

	for _, k := range []int{0, -1} {
		result, err := svc.Retrieve(context.Background(), "query", k, nil)
		require.NoError(t, err)
		assert.True(t, result.Empty())
		assert.Equal(t, domain.ConfidenceLow, result.Confidence)
	}
	assert.Equal(t, 0, embedder.calls)
}

func TestRetrieve_EmbedderFailurePropagates(t *testing.T) {
	embedder := newMockEmbedder(3)
	embedder.failures = 5
	embedder.failErr = domain.ErrProviderUnavailable
	svc, index := newTestRetrieveService(t, embedder)

	seedIndex(t, index, []driven.Entry{
		{Meta: driven.EntryMeta{DocumentID: "doc", Page: 1, Content: "c"}, Vector: []float32{1, 0, 0}},
	})

	_, err := svc.Retrieve(context.Background(), "query", 1, nil)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}
