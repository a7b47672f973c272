package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for types persisted by the storage layer.
// Field order is part of the on-disk format; append new fields, never reorder.

var vectorMUS = ord.NewSliceSer[float32](raw.Float32)

// IDMUS serializes IDs as varint-encoded uint64.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (s idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

// ChunkMUS serializes Chunk records. Timestamps are stored as Unix
// microseconds.
var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(c Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(c.Id, bs)
	n += ord.String.Marshal(c.Content, bs[n:])
	n += ord.String.Marshal(c.SourceFile, bs[n:])
	n += ord.String.Marshal(c.SourcePath, bs[n:])
	n += varint.PositiveInt.Marshal(int(c.Kind), bs[n:])
	n += varint.PositiveInt.Marshal(c.Seq, bs[n:])
	n += varint.PositiveInt.Marshal(c.ChunkSize, bs[n:])
	n += vectorMUS.Marshal(c.Vector, bs[n:])
	n += varint.Int64.Marshal(c.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (s chunkMUS) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var n1 int
	c.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	c.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.SourceFile, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.SourcePath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var kind int
	kind, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Kind = FileKind(kind)
	c.Seq, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.ChunkSize, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.InsertedAt = time.UnixMicro(micros).UTC()
	return
}

func (s chunkMUS) Size(c Chunk) (size int) {
	size = IDMUS.Size(c.Id)
	size += ord.String.Size(c.Content)
	size += ord.String.Size(c.SourceFile)
	size += ord.String.Size(c.SourcePath)
	size += varint.PositiveInt.Size(int(c.Kind))
	size += varint.PositiveInt.Size(c.Seq)
	size += varint.PositiveInt.Size(c.ChunkSize)
	size += vectorMUS.Size(c.Vector)
	size += varint.Int64.Size(c.InsertedAt.UnixMicro())
	return size
}
