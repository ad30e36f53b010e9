package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorIndex which stores and searches vectors.
// EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations may include:
//   - A local deterministic model (same text always yields the same vector,
//     no network)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//
// Vectors from different providers or dimensions must never share an index;
// the VectorIndex enforces this eagerly on insert.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Remote implementations report transport, timeout and auth failures
	// as domain.ErrProviderUnavailable.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// The result preserves input order and has the same length.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 256, 1536).
	// This is fixed per provider instance and must match the VectorIndex.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Local implementations return nil.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
