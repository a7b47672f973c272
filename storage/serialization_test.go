package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-labs/corpusit/core"
)

func TestIDRoundTrip(t *testing.T) {
	ids := []core.ID{0, 1, 255, 1 << 20, 1<<63 - 1}
	for _, id := range ids {
		data := MarshalID(id)
		got, err := UnmarshalID(data)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestChunkRoundTrip(t *testing.T) {
	chunk := &core.Chunk{
		Id:         core.ChunkID("/data/sketch.ino", 2, "void setup() {}"),
		Content:    "void setup() {}",
		SourceFile: "sketch.ino",
		SourcePath: "/data/sketch.ino",
		Kind:       core.KindSourceCode,
		Seq:        2,
		ChunkSize:  15,
		Vector:     []float32{0.25, -0.5, 0.125},
		InsertedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}

	data := MarshalChunk(chunk)
	got, err := UnmarshalChunk(data)
	require.NoError(t, err)
	assert.Equal(t, chunk, got)
}

func TestChunkRoundTrip_EmptyVector(t *testing.T) {
	chunk := &core.Chunk{
		Id:         42,
		Content:    "not yet embedded",
		SourceFile: "a.txt",
		SourcePath: "/a.txt",
		Kind:       core.KindPlainText,
		ChunkSize:  16,
		InsertedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	got, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)
	assert.Empty(t, got.Vector)
	assert.Equal(t, chunk.Content, got.Content)
	assert.True(t, chunk.InsertedAt.Equal(got.InsertedAt))
}

func TestUnmarshalChunk_Truncated(t *testing.T) {
	chunk := &core.Chunk{
		Id: 7, Content: "some content here", SourceFile: "f", SourcePath: "/f",
		Kind: core.KindPlainText, ChunkSize: 17, InsertedAt: time.Now().UTC(),
	}
	data := MarshalChunk(chunk)

	_, err := UnmarshalChunk(data[:len(data)/2])
	assert.Error(t, err)
}
