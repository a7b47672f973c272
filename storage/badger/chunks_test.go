package badger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-labs/corpusit/core"
	"github.com/veridian-labs/corpusit/storage"
)

func newTestRepo(t *testing.T) storage.ChunkRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func makeTestChunk(path string, seq int, content string, vector []float32) *core.Chunk {
	return &core.Chunk{
		Id:         core.ChunkID(path, seq, content),
		Content:    content,
		SourceFile: filepath.Base(path),
		SourcePath: path,
		Kind:       core.KindPlainText,
		Seq:        seq,
		ChunkSize:  len(content),
		Vector:     vector,
		InsertedAt: time.Now().UTC(),
	}
}

func TestAddAndGetChunk(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	chunk := makeTestChunk("/data/file.txt", 0, "stored content for retrieval", []float32{1, 0})
	_, err := repo.AddChunks(ctx, chunk)
	require.NoError(t, err)

	got, err := repo.GetChunk(ctx, chunk.Id)
	require.NoError(t, err)
	assert.Equal(t, chunk.Content, got.Content)
	assert.Equal(t, chunk.SourcePath, got.SourcePath)
	assert.Equal(t, chunk.Vector, got.Vector)
}

func TestGetChunk_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetChunk(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddChunks_UpsertIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	chunk := makeTestChunk("/data/file.txt", 0, "unchanged content stays put", []float32{1, 0})
	_, err := repo.AddChunks(ctx, chunk)
	require.NoError(t, err)
	_, err = repo.AddChunks(ctx, chunk)
	require.NoError(t, err)

	count, err := repo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddChunks_RejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)

	bad := makeTestChunk("/data/file.txt", 0, "content with a wrong size", []float32{1})
	bad.ChunkSize = 7

	_, err := repo.AddChunks(context.Background(), bad)
	assert.ErrorIs(t, err, core.ErrInvalidChunk)
}

func TestUpdateChunks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	chunk := makeTestChunk("/data/file.txt", 0, "content awaiting a fresh vector", nil)
	_, err := repo.AddChunks(ctx, chunk)
	require.NoError(t, err)

	chunk.Vector = []float32{0.5, 0.5}
	_, err = repo.UpdateChunks(ctx, chunk)
	require.NoError(t, err)

	got, err := repo.GetChunk(ctx, chunk.Id)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, got.Vector)
}

func TestUpdateChunks_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	missing := makeTestChunk("/data/file.txt", 0, "never stored anywhere at all", nil)
	_, err := repo.UpdateChunks(context.Background(), missing)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteChunks_CleansSourceIndex(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	chunk := makeTestChunk("/data/file.txt", 0, "content that will be deleted", nil)
	_, err := repo.AddChunks(ctx, chunk)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteChunks(ctx, chunk.Id))

	_, err = repo.GetChunk(ctx, chunk.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ids, err := repo.GetChunkIDsBySource(ctx, "/data/file.txt")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGetChunkIDsBySource(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a0 := makeTestChunk("/data/aaaa.txt", 0, "first chunk of file a here", nil)
	a1 := makeTestChunk("/data/aaaa.txt", 1, "second chunk of file a here", nil)
	b0 := makeTestChunk("/data/bbbb.txt", 0, "only chunk of file b here", nil)

	_, err := repo.AddChunks(ctx, a0, a1, b0)
	require.NoError(t, err)

	ids, err := repo.GetChunkIDsBySource(ctx, "/data/aaaa.txt")
	require.NoError(t, err)
	assert.ElementsMatch(t, []core.ID{a0.Id, a1.Id}, ids)

	// A path that is a prefix of a stored path must not match its chunks.
	ids, err = repo.GetChunkIDsBySource(ctx, "/data/aaaa")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSources(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddChunks(ctx,
		makeTestChunk("/data/aaaa.txt", 0, "first chunk of file a here", nil),
		makeTestChunk("/data/aaaa.txt", 1, "second chunk of file a here", nil),
		makeTestChunk("/data/bbbb.txt", 0, "only chunk of file b here", nil),
	)
	require.NoError(t, err)

	sources, err := repo.Sources(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"/data/aaaa.txt": 2,
		"/data/bbbb.txt": 1,
	}, sources)
}

func TestListChunkIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c1 := makeTestChunk("/data/file.txt", 0, "list test chunk number one", nil)
	c2 := makeTestChunk("/data/file.txt", 1, "list test chunk number two", nil)
	_, err := repo.AddChunks(ctx, c1, c2)
	require.NoError(t, err)

	ids, err := repo.ListChunkIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []core.ID{c1.Id, c2.Id}, ids)
}

func TestFindSimilar_OrdersByDistance(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	exact := makeTestChunk("/data/file.txt", 0, "points exactly along the query", []float32{1, 0})
	near := makeTestChunk("/data/file.txt", 1, "points close to the query axis", []float32{0.9, 0.1})
	far := makeTestChunk("/data/file.txt", 2, "points orthogonal to the query", []float32{0, 1})
	unembedded := makeTestChunk("/data/file.txt", 3, "chunk without any vector yet", nil)

	_, err := repo.AddChunks(ctx, exact, near, far, unembedded)
	require.NoError(t, err)

	matches, err := repo.FindSimilar(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 3, "unembedded chunks must be skipped")

	assert.Equal(t, exact.Id, matches[0].Chunk.Id)
	assert.Equal(t, near.Id, matches[1].Chunk.Id)
	assert.Equal(t, far.Id, matches[2].Chunk.Id)

	assert.InDelta(t, 0.0, matches[0].Distance, 1e-6)
	assert.InDelta(t, 1.0, matches[2].Distance, 1e-6)
}

func TestFindSimilar_Limit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		c := makeTestChunk("/data/file.txt", i, "limited similarity result chunk", []float32{1, float32(i)})
		c.Id = core.ID(i + 1)
		_, err := repo.AddChunks(ctx, c)
		require.NoError(t, err)
	}

	matches, err := repo.FindSimilar(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestFindSimilar_InvalidLimit(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindSimilar(context.Background(), []float32{1, 0}, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}
