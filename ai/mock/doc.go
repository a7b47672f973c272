// Package mock provides test doubles for the ai interfaces.
//
// The mock embedder produces deterministic vectors derived from the input
// text, so tests get stable similarity orderings without an embedding server.
package mock
