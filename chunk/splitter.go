// Copyright 2026 Veridian Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chunk

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/tmc/langchaingo/textsplitter"
	"github.com/veridian-labs/corpusit/core"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultOverlap is the number of characters shared between adjacent
	// chunks so sentences straddling a boundary survive in at least one.
	DefaultOverlap = 200
)

// Splitter breaks raw documents into provenance-stamped chunks.
type Splitter struct {
	chunkSize int
	overlap   int
	logger    *slog.Logger
}

// Option configures a Splitter.
type Option func(*Splitter) error

// WithChunkSize sets the target chunk length in characters.
// Default is DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(s *Splitter) error {
		if size <= 0 {
			return fmt.Errorf("chunk size must be positive, got %d", size)
		}
		s.chunkSize = size
		return nil
	}
}

// WithOverlap sets the overlap between adjacent chunks.
// Default is DefaultOverlap.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) error {
		if overlap < 0 {
			return fmt.Errorf("overlap must be non-negative, got %d", overlap)
		}
		s.overlap = overlap
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Splitter) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a Splitter.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
		logger:    slog.Default().With("component", "splitter"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", s.overlap, s.chunkSize)
	}
	return s, nil
}

// Split breaks documents into chunks, each stamped with its origin file,
// kind, and position. Chunk identity is derived from path, sequence, and
// content, so re-splitting an unchanged file reproduces the same IDs.
//
// The sequence counter runs across all documents of one file: page two of a
// PDF continues where page one left off.
func (s *Splitter) Split(docs []core.RawDocument, kind core.FileKind) ([]core.Chunk, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.chunkSize),
		textsplitter.WithChunkOverlap(s.overlap),
	)

	var chunks []core.Chunk
	seq := 0
	now := time.Now().UTC()

	for _, doc := range docs {
		pieces, err := splitter.SplitText(doc.Text)
		if err != nil {
			return nil, fmt.Errorf("splitting %s: %w", doc.OriginPath, err)
		}

		for _, piece := range pieces {
			if piece == "" {
				continue
			}
			chunks = append(chunks, core.Chunk{
				Id:         core.ChunkID(doc.OriginPath, seq, piece),
				Content:    piece,
				SourceFile: filepath.Base(doc.OriginPath),
				SourcePath: doc.OriginPath,
				Kind:       kind,
				Seq:        seq,
				ChunkSize:  len(piece),
				InsertedAt: now,
			})
			seq++
		}
	}

	s.logger.Debug("split documents", "documents", len(docs), "chunks", len(chunks))

	return chunks, nil
}
