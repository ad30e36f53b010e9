// Package domain defines the core business entities for ContextIQ.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document with per-page text
//   - Chunk: The retrieval unit cut from a document
//   - ChunkConfig: Chunking parameters and their validation
//   - RetrievalResult: Scored chunks with a confidence label
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
