// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding providers, the vector index,
// text generation backends, document storage and file normalisers.
//
// Implementations live under internal/adapters/driven and
// internal/normalisers.
package driven
