package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/veridian-labs/corpusit/ai"
	"github.com/veridian-labs/corpusit/classify"
	"github.com/veridian-labs/corpusit/core"
	"github.com/veridian-labs/corpusit/storage"
)

// DefaultLimit is the number of results returned when the caller doesn't
// specify one.
const DefaultLimit = 3

// Searcher answers similarity queries over the ingested chunk index.
type Searcher struct {
	repository storage.ChunkRepository
	embedder   ai.Embedder
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repository storage.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		repository: repository,
		embedder:   embedder,
		logger:     slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to limit chunks most similar to the query, highest
// similarity first. A non-positive limit falls back to DefaultLimit.
//
// Similarity is rendered as (1 - distance) * 100. The conversion assumes the
// index reports a normalized distance in [0, 1]; out-of-range distances
// produce an out-of-range percentage rather than being silently clamped.
//
// If the embedding service or the index is unavailable, Search returns a
// single sentinel result describing the problem instead of an error, so
// interactive callers always have something to display.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, limit, nil)
}

// SearchWithMonitor runs Search with observability callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, limit int, monitor SearchMonitor) ([]core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	monitor.Start(query)

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return s.unavailable(monitor, err), nil
	}
	monitor.AfterQueryEmbedding(len(vector))

	matches, err := s.repository.FindSimilar(ctx, vector, limit)
	if err != nil {
		s.logger.Error("error querying for similar chunks", "err", err)
		return s.unavailable(monitor, err), nil
	}
	monitor.AfterIndexQuery(len(matches))

	// Matches arrive distance-ascending, which is similarity-descending.
	results := make([]core.SearchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, core.SearchResult{
			Content:    match.Chunk.Content,
			SourceFile: match.Chunk.SourceFile,
			SourcePath: match.Chunk.SourcePath,
			Kind:       match.Chunk.Kind,
			Label:      classify.Label(match.Chunk.SourcePath),
			Similarity: float64(1-match.Distance) * 100,
			ChunkSize:  match.Chunk.ChunkSize,
		})
	}

	monitor.Finish(results)

	return results, nil
}

// unavailable builds the sentinel result returned when the index or the
// embedding service cannot be reached.
func (s *Searcher) unavailable(monitor SearchMonitor, err error) []core.SearchResult {
	results := []core.SearchResult{{
		Content: core.ErrIndexUnavailable.Error() + ": " + err.Error(),
	}}
	monitor.Finish(results)
	return results
}
