// Package services contains the core application logic, wiring driven
// ports (embedding, vector index, document store, generator) into the
// driving operations: ingestion, retrieval and question answering.
package services
