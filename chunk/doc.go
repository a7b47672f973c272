// Package chunk splits extracted documents into overlapping, retrieval-sized
// pieces with full provenance: every chunk records the file it came from,
// its kind, and its position in the split sequence.
package chunk
