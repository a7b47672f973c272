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

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/veridian-labs/corpusit/ai"
	"github.com/veridian-labs/corpusit/chunk"
	"github.com/veridian-labs/corpusit/classify"
	"github.com/veridian-labs/corpusit/core"
	"github.com/veridian-labs/corpusit/extract"
	"github.com/veridian-labs/corpusit/storage"
)

const (
	// defaultTolerance is the fraction of uningested supported files a
	// directory may carry before EnsureIngested triggers a batch ingest.
	defaultTolerance = 0.05

	// progressInterval is how many files pass between progress log lines
	// during a batch.
	progressInterval = 50

	// maxReasonLength caps stored failure reasons so one pathological
	// parser error doesn't flood reports.
	maxReasonLength = 100
)

// Pipeline orchestrates the ingestion workflow for files and directories.
// Batch ingestion is sequential: one file at a time, failures isolated.
type Pipeline struct {
	repository storage.ChunkRepository
	embedder   ai.Embedder
	extractor  *extract.Extractor
	splitter   *chunk.Splitter
	ledger     *Ledger
	tolerance  float64
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithTolerance sets the auto-ingest tolerance: the fraction of supported
// files that may be missing from the ledger before EnsureIngested re-ingests
// a directory. Default is 0.05.
func WithTolerance(tolerance float64) Option {
	return func(p *Pipeline) error {
		if tolerance < 0 || tolerance > 1 {
			return fmt.Errorf("tolerance must be in [0, 1], got %g", tolerance)
		}
		p.tolerance = tolerance
		return nil
	}
}

// WithLedger shares an existing ledger instead of creating a fresh one.
func WithLedger(ledger *Ledger) Option {
	return func(p *Pipeline) error {
		if ledger == nil {
			return errors.New("ledger must not be nil")
		}
		p.ledger = ledger
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	repository storage.ChunkRepository,
	embedder ai.Embedder,
	extractor *extract.Extractor,
	splitter *chunk.Splitter,
	opts ...Option,
) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}

	p := &Pipeline{
		repository: repository,
		embedder:   embedder,
		extractor:  extractor,
		splitter:   splitter,
		ledger:     NewLedger(),
		tolerance:  defaultTolerance,
		logger:     slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Ledger returns the pipeline's ingestion ledger.
func (p *Pipeline) Ledger() *Ledger {
	return p.ledger
}

// IngestFile runs one file through the full workflow: classify, extract,
// split, embed, store, record. The returned Outcome always describes what
// happened; errors never escape as panics or abort conditions.
func (p *Pipeline) IngestFile(ctx context.Context, path string) core.Outcome {
	kind := classify.Classify(path)
	label := classify.Label(path)

	// Skip decisions are made on the name alone, before any file access.
	switch kind {
	case core.KindBinarySkip:
		return core.Outcome{Status: core.OutcomeSkipped, Kind: kind, Label: label, Reason: "binary file"}
	case core.KindUnsupported:
		return core.Outcome{
			Status: core.OutcomeSkipped, Kind: kind, Label: label,
			Reason: fmt.Sprintf("unsupported file type %q", filepath.Ext(path)),
		}
	}

	docs, err := p.extractor.Extract(path, kind)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyContent):
			return core.Outcome{Status: core.OutcomeSkipped, Kind: kind, Label: label, Reason: truncateReason(err)}
		default:
			return core.Outcome{Status: core.OutcomeFailed, Kind: kind, Label: label, Reason: truncateReason(err)}
		}
	}

	chunks, err := p.splitter.Split(docs, kind)
	if err != nil {
		return core.Outcome{Status: core.OutcomeFailed, Kind: kind, Label: label, Reason: truncateReason(err)}
	}
	if len(chunks) == 0 {
		return core.Outcome{Status: core.OutcomeSkipped, Kind: kind, Label: label, Reason: "no content extracted"}
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return core.Outcome{Status: core.OutcomeFailed, Kind: kind, Label: label, Reason: truncateReason(err)}
	}
	if len(vectors) != len(chunks) {
		return core.Outcome{
			Status: core.OutcomeFailed, Kind: kind, Label: label,
			Reason: fmt.Sprintf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks)),
		}
	}

	stored := make([]*core.Chunk, len(chunks))
	for i := range chunks {
		chunks[i].Vector = vectors[i]
		stored[i] = &chunks[i]
	}

	if _, err := p.repository.AddChunks(ctx, stored...); err != nil {
		return core.Outcome{Status: core.OutcomeFailed, Kind: kind, Label: label, Reason: truncateReason(err)}
	}

	var byteSize int64
	if info, statErr := os.Stat(path); statErr == nil {
		byteSize = info.Size()
	}

	p.ledger.Record(core.IngestionRecord{
		Path:       path,
		Kind:       kind,
		Label:      label,
		ChunkCount: len(chunks),
		ByteSize:   byteSize,
		IngestedAt: time.Now().UTC(),
	})

	p.logger.Debug("ingested file", "path", path, "kind", label, "chunks", len(chunks))

	return core.Outcome{Status: core.OutcomeSuccess, Kind: kind, Label: label, ChunkCount: len(chunks)}
}

// IngestDirectory ingests every file under root, sequentially.
// With recursive set, subdirectories are descended; otherwise only direct
// entries are considered. Individual file failures are reported, never
// propagated: the returned report always covers the whole batch.
//
// A missing or unreadable root is itself reported as a single failure
// rather than an error, so callers treat every batch uniformly.
func (p *Pipeline) IngestDirectory(ctx context.Context, root string, recursive bool) *core.BatchReport {
	report := &core.BatchReport{}

	files, err := enumerateFiles(root, recursive)
	if err != nil {
		report.FailCount = 1
		report.Errors = append(report.Errors, core.BatchError{File: root, Reason: truncateReason(err)})
		return report
	}

	supported := 0
	for _, path := range files {
		if core.IsIngestibleKind(classify.Classify(path)) {
			supported++
		}
	}
	if supported == 0 {
		report.Note = "no supported files found"
		return report
	}

	p.logger.Info("starting batch ingestion", "root", root, "files", len(files), "supported", supported)

	// Sequential on purpose: local embedding servers degrade badly under
	// parallel batch loads, and outcome order stays reproducible.
	seen := make(map[string]bool)
	processed := 0
	for _, path := range files {
		if ctx.Err() != nil {
			report.Errors = append(report.Errors, core.BatchError{File: path, Reason: truncateReason(ctx.Err())})
			report.FailCount++
			break
		}

		key := canonicalPath(path)
		if seen[key] {
			continue
		}
		seen[key] = true

		outcome := p.IngestFile(ctx, path)
		switch outcome.Status {
		case core.OutcomeSuccess:
			report.SuccessCount++
		case core.OutcomeSkipped:
			report.SkippedCount++
		case core.OutcomeFailed:
			report.FailCount++
			report.Errors = append(report.Errors, core.BatchError{File: path, Reason: outcome.Reason})
		}

		processed++
		if processed%progressInterval == 0 {
			p.logger.Info("ingestion progress",
				"processed", processed,
				"total", len(files),
				"succeeded", report.SuccessCount,
				"failed", report.FailCount,
			)
		}
	}

	p.logger.Info("batch ingestion complete",
		"root", root,
		"succeeded", report.SuccessCount,
		"skipped", report.SkippedCount,
		"failed", report.FailCount,
	)

	return report
}

// EnsureIngested ingests root only if the ledger's coverage of its supported
// files has fallen below the configured tolerance. Returns nil when coverage
// is sufficient and no work was done.
func (p *Pipeline) EnsureIngested(ctx context.Context, root string, recursive bool) (*core.BatchReport, error) {
	files, err := enumerateFiles(root, recursive)
	if err != nil {
		return nil, err
	}

	supported := 0
	missing := 0
	for _, path := range files {
		if !core.IsIngestibleKind(classify.Classify(path)) {
			continue
		}
		supported++
		if !p.ledger.IsIngested(path) {
			missing++
		}
	}

	if supported == 0 {
		return nil, nil
	}

	if float64(missing)/float64(supported) <= p.tolerance {
		p.logger.Debug("ingestion coverage sufficient", "root", root, "supported", supported, "missing", missing)
		return nil, nil
	}

	p.logger.Info("ingestion coverage below tolerance, re-ingesting",
		"root", root, "supported", supported, "missing", missing)

	return p.IngestDirectory(ctx, root, recursive), nil
}

// RebuildLedger reconstructs the ledger from the chunk store's source index,
// recovering session state after a restart. Returns the number of files
// recorded. File sizes are re-read best-effort; files deleted since their
// ingestion keep a zero size.
func (p *Pipeline) RebuildLedger(ctx context.Context) (int, error) {
	sources, err := p.repository.Sources(ctx)
	if err != nil {
		return 0, err
	}

	for path, chunkCount := range sources {
		var byteSize int64
		if info, statErr := os.Stat(path); statErr == nil {
			byteSize = info.Size()
		}

		p.ledger.Record(core.IngestionRecord{
			Path:       path,
			Kind:       classify.Classify(path),
			Label:      classify.Label(path),
			ChunkCount: chunkCount,
			ByteSize:   byteSize,
			IngestedAt: time.Now().UTC(),
		})
	}

	p.logger.Info("ledger rebuilt from chunk store", "files", len(sources))

	return len(sources), nil
}

// enumerateFiles lists the regular files under root in deterministic order.
func enumerateFiles(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				files = append(files, filepath.Join(root, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// truncateReason renders an error for a report, capped at maxReasonLength.
func truncateReason(err error) string {
	msg := err.Error()
	if len(msg) > maxReasonLength {
		msg = msg[:maxReasonLength]
	}
	return msg
}
