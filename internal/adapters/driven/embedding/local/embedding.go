// Package local provides a deterministic, offline embedding service.
//
// Texts are embedded by hashing word unigrams and bigrams into a
// fixed-dimension vector (the hashing trick) and L2-normalising the result.
// The same text always produces the same vector across calls and processes,
// with no network involved, which makes retrieval reproducible and keeps
// the pipeline usable without any API credentials.
package local

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/contextiq-labs/contextiq/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the default vector size.
const DefaultDimensions = 256

// ModelName identifies this embedding scheme. Changing the hashing scheme
// must change the name, since vectors from different schemes must never
// share an index.
const ModelName = "feature-hash-v1"

// Config holds configuration for the local embedding service.
type Config struct {
	// Dimensions is the vector size (default: 256).
	Dimensions int
}

// EmbeddingService generates deterministic embeddings locally.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a new local embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Dimensions < 0 {
		return nil, fmt.Errorf("local: dimensions must be positive, got %d", cfg.Dimensions)
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: cfg.Dimensions}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	return s.embed(text), nil
}

// EmbedBatch generates embeddings for multiple texts.
// The result preserves input order and has the same length.
func (s *EmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = s.embed(text)
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding scheme.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Ping always succeeds: there is nothing remote to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) embed(text string) []float32 {
	vec := make([]float32, s.dimensions)

	tokens := tokenise(text)
	if len(tokens) == 0 {
		return vec
	}

	for i, token := range tokens {
		addFeature(vec, token)
		if i+1 < len(tokens) {
			addFeature(vec, token+" "+tokens[i+1])
		}
	}

	normalise(vec)
	return vec
}

// addFeature hashes the feature into a bucket with a hash-derived sign.
// The signed variant keeps the expected dot product of unrelated texts
// near zero instead of biasing it positive.
func addFeature(vec []float32, feature string) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()

	bucket := int(sum % uint64(len(vec)))
	if sum&(1<<63) != 0 {
		vec[bucket]--
	} else {
		vec[bucket]++
	}
}

// tokenise lower-cases and splits on anything that is not a letter or digit.
func tokenise(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalise(vec []float32) {
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i, x := range vec {
		vec[i] = float32(float64(x) / norm)
	}
}
