package reindex

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-labs/corpusit/core"
)

func TestChunkIterator_BatchesAll(t *testing.T) {
	repo := newTestStore(t, 10)
	it := NewChunkIterator(repo, 4)

	var batches [][]*core.Chunk
	err := it.ForEach(context.Background(), func(chunks []*core.Chunk) error {
		batches = append(batches, chunks)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, batches, 3) // 4 + 4 + 2
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	assert.Equal(t, 10, total)
}

func TestChunkIterator_EmptyStore(t *testing.T) {
	repo := newTestStore(t, 0)
	it := NewChunkIterator(repo, 4)

	calls := 0
	err := it.ForEach(context.Background(), func(chunks []*core.Chunk) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
}

func TestChunkIterator_StopsOnError(t *testing.T) {
	repo := newTestStore(t, 10)
	it := NewChunkIterator(repo, 2)

	sentinel := errors.New("stop here")
	calls := 0
	err := it.ForEach(context.Background(), func(chunks []*core.Chunk) error {
		calls++
		if calls == 2 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
}

func TestChunkIterator_DefaultBatchSize(t *testing.T) {
	repo := newTestStore(t, 1)
	it := NewChunkIterator(repo, 0)
	assert.Equal(t, DefaultBatchSize, it.batchSize)
}

func TestChunkIterator_CancelledContext(t *testing.T) {
	repo := newTestStore(t, 4)
	it := NewChunkIterator(repo, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := it.ForEach(ctx, func(chunks []*core.Chunk) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
