package storage

import (
	"context"

	"github.com/veridian-labs/corpusit/core"
)

// Match pairs a stored chunk with its distance from a query vector.
// Distance is 1 minus cosine similarity: 0 means identical direction,
// larger values mean less related.
type Match struct {
	Chunk    *core.Chunk
	Distance float32
}

// Repository provides common storage operations shared across backends.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing text chunks and their
// embedding vectors.
type ChunkRepository interface {
	Repository

	// AddChunks stores one or more chunks, keyed by their content-derived IDs.
	// Re-adding a chunk with an unchanged ID overwrites it in place, so
	// re-ingesting an unchanged file is idempotent. Sets InsertedAt if zero.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// UpdateChunks overwrites existing chunks in place.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// DeleteChunks removes chunks by their IDs, including source index entries.
	// Returns ErrNotFound if any chunk doesn't exist.
	DeleteChunks(ctx context.Context, ids ...core.ID) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error)

	// ListChunkIDs returns the IDs of all stored chunks.
	ListChunkIDs(ctx context.Context) ([]core.ID, error)

	// GetChunkIDsBySource returns the IDs of all chunks originating from the
	// given source path.
	GetChunkIDsBySource(ctx context.Context, sourcePath string) ([]core.ID, error)

	// Sources returns every distinct source path with its chunk count.
	Sources(ctx context.Context) (map[string]int, error)

	// CountChunks returns the total number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// FindSimilar finds the chunks whose vectors are closest to the given
	// vector, up to limit results, ordered by distance ascending.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*Match, error)
}
