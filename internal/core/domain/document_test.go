package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChunkConfig_Validate tests chunking parameter validation
func TestChunkConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ChunkConfig
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			config:  DefaultChunkConfig(),
			wantErr: false,
		},
		{
			name:    "zero overlap is valid",
			config:  ChunkConfig{Size: 100, Overlap: 0, MaxChunks: 10},
			wantErr: false,
		},
		{
			name:    "zero size",
			config:  ChunkConfig{Size: 0, Overlap: 0, MaxChunks: 10},
			wantErr: true,
		},
		{
			name:    "negative overlap",
			config:  ChunkConfig{Size: 100, Overlap: -1, MaxChunks: 10},
			wantErr: true,
		},
		{
			name:    "overlap equals size",
			config:  ChunkConfig{Size: 100, Overlap: 100, MaxChunks: 10},
			wantErr: true,
		},
		{
			name:    "overlap exceeds size",
			config:  ChunkConfig{Size: 100, Overlap: 150, MaxChunks: 10},
			wantErr: true,
		},
		{
			name:    "zero max chunks",
			config:  ChunkConfig{Size: 100, Overlap: 20, MaxChunks: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidChunkConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestDefaultChunkConfig tests the default parameters
func TestDefaultChunkConfig(t *testing.T) {
	cfg := DefaultChunkConfig()

	assert.Equal(t, 1500, cfg.Size)
	assert.Equal(t, 200, cfg.Overlap)
	assert.Equal(t, 500, cfg.MaxChunks)
}

// TestTitleFromURI tests title derivation from paths
func TestTitleFromURI(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "pdf filename",
			uri:      "/papers/attention_is_all_you_need.pdf",
			expected: "attention is all you need",
		},
		{
			name:     "dashes replaced",
			uri:      "quarterly-report.txt",
			expected: "quarterly report",
		},
		{
			name:     "no extension",
			uri:      "/docs/README",
			expected: "README",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TitleFromURI(tt.uri))
		})
	}
}
