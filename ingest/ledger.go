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
	"path/filepath"
	"sort"
	"sync"

	"github.com/veridian-labs/corpusit/core"
)

// Ledger tracks which files have been ingested, keyed by canonical absolute
// path so the same file reached through different relative paths or symlinks
// counts once. Safe for concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string]core.IngestionRecord
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[string]core.IngestionRecord),
	}
}

// canonicalPath resolves a path to its canonical absolute form.
// Symlink resolution is best-effort: if the target doesn't resolve (for
// example, the file was deleted after ingestion), the absolute path is used.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// Record stores an ingestion record, replacing any previous record for the
// same canonical path.
func (l *Ledger) Record(rec core.IngestionRecord) {
	key := canonicalPath(rec.Path)
	rec.Path = key

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[key] = rec
}

// IsIngested reports whether a file has been recorded in this ledger.
func (l *Ledger) IsIngested(path string) bool {
	key := canonicalPath(path)

	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[key]
	return ok
}

// Get returns the ingestion record for a path, if present.
func (l *Ledger) Get(path string) (core.IngestionRecord, bool) {
	key := canonicalPath(path)

	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.entries[key]
	return rec, ok
}

// Count returns the number of recorded files.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Records returns all ingestion records, ordered by path.
func (l *Ledger) Records() []core.IngestionRecord {
	l.mu.RLock()
	records := make([]core.IngestionRecord, 0, len(l.entries))
	for _, rec := range l.entries {
		records = append(records, rec)
	}
	l.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
	return records
}
