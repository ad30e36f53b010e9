// Package normalisers provides implementations of the Normaliser interface
// for the supported source formats. Each normaliser knows how to extract
// per-page text from a specific file type.
package normalisers
