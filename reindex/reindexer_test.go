package reindex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-labs/corpusit/ai/mock"
	"github.com/veridian-labs/corpusit/core"
	"github.com/veridian-labs/corpusit/storage"
	"github.com/veridian-labs/corpusit/storage/badger"
)

func newTestStore(t *testing.T, chunkCount int) storage.ChunkRepository {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	ctx := context.Background()
	for i := 0; i < chunkCount; i++ {
		content := fmt.Sprintf("stored chunk content number %d", i)
		chunk := &core.Chunk{
			Id:         core.ChunkID("/data/file.txt", i, content),
			Content:    content,
			SourceFile: "file.txt",
			SourcePath: "/data/file.txt",
			Kind:       core.KindPlainText,
			Seq:        i,
			ChunkSize:  len(content),
			Vector:     []float32{9, 9}, // stale vector from the old model
			InsertedAt: time.Now().UTC(),
		}
		_, err := repo.AddChunks(ctx, chunk)
		require.NoError(t, err)
	}

	return repo
}

func TestReindexer_RewritesAllVectors(t *testing.T) {
	repo := newTestStore(t, 7)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{3, 4}
		}
		return vectors, nil
	}

	var buf bytes.Buffer
	r := NewReindexer(repo, embedder, &Config{BatchSize: 3, ReportInterval: 1, MaxRetries: 1, RetryDelay: time.Millisecond}, &buf)
	require.NoError(t, r.Run(context.Background()))

	ctx := context.Background()
	ids, err := repo.ListChunkIDs(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 7)

	for _, id := range ids {
		chunk, err := repo.GetChunk(ctx, id)
		require.NoError(t, err)
		// (3,4) normalized is (0.6, 0.8)
		assert.InDelta(t, 0.6, chunk.Vector[0], 1e-6)
		assert.InDelta(t, 0.8, chunk.Vector[1], 1e-6)
	}

	assert.Contains(t, buf.String(), "Reindex complete")
}

func TestReindexer_EmptyStore(t *testing.T) {
	repo := newTestStore(t, 0)

	var buf bytes.Buffer
	r := NewReindexer(repo, mock.NewMockEmbedder(), nil, &buf)
	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, buf.String(), "No chunks found")
}

func TestReindexer_RetriesTransientFailures(t *testing.T) {
	repo := newTestStore(t, 2)
	embedder := mock.NewMockEmbedder()

	attempts := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("transient embedding failure")
		}
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0}
		}
		return vectors, nil
	}

	var buf bytes.Buffer
	r := NewReindexer(repo, embedder, &Config{BatchSize: 10, ReportInterval: 100, MaxRetries: 3, RetryDelay: time.Millisecond}, &buf)
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 2, attempts)
}

func TestReindexer_GivesUpAfterMaxRetries(t *testing.T) {
	repo := newTestStore(t, 2)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding server down")
	}

	var buf bytes.Buffer
	r := NewReindexer(repo, embedder, &Config{BatchSize: 10, ReportInterval: 100, MaxRetries: 2, RetryDelay: time.Millisecond}, &buf)
	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding server down")
}
