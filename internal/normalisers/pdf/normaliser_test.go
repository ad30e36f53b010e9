package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
)

func TestSupports(t *testing.T) {
	n := New()

	assert.True(t, n.Supports(".pdf"))
	assert.False(t, n.Supports(".txt"))
	assert.False(t, n.Supports(".docx"))
}

func TestNormalise_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0600))

	_, err := New().Normalise(context.Background(), path)
	assert.Error(t, err)
}

func TestNormalise_MissingFile(t *testing.T) {
	_, err := New().Normalise(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}

func TestTitleFromPages(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
	}{
		{
			name: "first line is the heading",
			text: "Attention Is All You Need\n\nAbstract\nThe dominant sequence...",
			want: "Attention Is All You Need",
		},
		{
			name: "leading blank lines skipped",
			text: "\n\n  Retrieval-Augmented Generation  \nfor everyone",
			want: "Retrieval-Augmented Generation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := []domain.Page{{Number: 1, Text: tt.text}}
			assert.Equal(t, tt.want, titleFromPages(pages, "/papers/some_paper.pdf"))
		})
	}
}

func TestTitleFromPages_FallsBackToFileName(t *testing.T) {
	longLine := make([]byte, 200)
	for i := range longLine {
		longLine[i] = 'x'
	}

	pages := []domain.Page{{Number: 1, Text: string(longLine)}}
	assert.Equal(t, "some paper", titleFromPages(pages, "/papers/some_paper.pdf"))
}
