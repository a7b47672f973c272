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

package corpusit

import (
	"io"
	"log/slog"

	"github.com/veridian-labs/corpusit/ai"
	"github.com/veridian-labs/corpusit/ai/openai"
	"github.com/veridian-labs/corpusit/chunk"
	"github.com/veridian-labs/corpusit/extract"
	"github.com/veridian-labs/corpusit/ingest"
	"github.com/veridian-labs/corpusit/reindex"
	"github.com/veridian-labs/corpusit/search"
	"github.com/veridian-labs/corpusit/storage"
	"github.com/veridian-labs/corpusit/storage/badger"
)

// Engine owns the chunk store, the embedding provider, and the ingestion
// ledger, and hands out the pipelines that operate on them.
type Engine struct {
	backend   *badger.Backend
	chunkRepo storage.ChunkRepository
	provider  ai.Provider
	ledger    *ingest.Ledger
	options   *engineOptions
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig  *ai.Config
	chunkSize int
	overlap   int
	tolerance float64
	inMemory  bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithChunking sets the chunk size and overlap used when splitting documents.
func WithChunking(chunkSize, overlap int) EngineOption {
	return func(o *engineOptions) {
		o.chunkSize = chunkSize
		o.overlap = overlap
	}
}

// WithReingestTolerance sets the auto-ingest tolerance: the fraction of
// supported files that may be missing before a directory is re-ingested.
func WithReingestTolerance(tolerance float64) EngineOption {
	return func(o *engineOptions) {
		o.tolerance = tolerance
	}
}

// WithInMemoryStore keeps the chunk store in memory instead of on disk.
// Intended for tests and throwaway sessions.
func WithInMemoryStore() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine opens the chunk store at filePath and wires up the embedding
// provider.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:  ai.DefaultConfig(),
		chunkSize: chunk.DefaultChunkSize,
		overlap:   chunk.DefaultOverlap,
		tolerance: -1, // pipeline default unless overridden
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:   backend,
		chunkRepo: chunkRepo,
		provider:  provider,
		ledger:    ingest.NewLedger(),
		options:   options,
		logger:    slog.Default(),
	}, nil
}

// Close releases the embedding provider and the chunk store.
func (e *Engine) Close() error {
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	if err := e.chunkRepo.Close(); err != nil {
		e.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ChunkRepository exposes the underlying chunk store.
func (e *Engine) ChunkRepository() storage.ChunkRepository {
	return e.chunkRepo
}

// Ledger exposes the engine's ingestion ledger, shared by every pipeline the
// engine creates.
func (e *Engine) Ledger() *ingest.Ledger {
	return e.ledger
}

// NewPipeline creates an ingestion pipeline over the engine's store, ledger,
// and embedder.
func (e *Engine) NewPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	extractor, err := extract.New()
	if err != nil {
		return nil, err
	}

	splitter, err := chunk.New(
		chunk.WithChunkSize(e.options.chunkSize),
		chunk.WithOverlap(e.options.overlap),
	)
	if err != nil {
		return nil, err
	}

	merged := []ingest.Option{ingest.WithLedger(e.ledger)}
	if e.options.tolerance >= 0 {
		merged = append(merged, ingest.WithTolerance(e.options.tolerance))
	}
	merged = append(merged, opts...)

	return ingest.NewPipeline(e.chunkRepo, e.provider.Embedder(), extractor, splitter, merged...)
}

// NewSearcher creates a searcher over the engine's store and embedder.
func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(e.chunkRepo, e.provider.Embedder(), opts...)
}

// NewReindexer creates a reindexer that re-embeds every stored chunk,
// reporting progress to the given writer.
func (e *Engine) NewReindexer(config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(e.chunkRepo, e.provider.Embedder(), config, progress)
}
