// Package reindex re-embeds every stored chunk with a new or updated
// embedding model.
//
// Changing the embedding model invalidates every vector in the chunk store
// while the text itself stays good. Reindexing walks the store in batches,
// regenerates each chunk's vector from its content, and writes the chunks
// back in place. The package supports progress tracking, retry logic with
// exponential backoff, and vector normalization for cosine similarity.
package reindex
