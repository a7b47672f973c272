package core

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored chunks.
// It is generated from chunk content and provenance, so re-ingesting an
// unchanged file produces the same IDs and upserts in place.
type ID uint64

// IDFromContent generates a deterministic ID from text using BLAKE2b hashing.
// Identical input always produces the same ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FileKind classifies a file by its extension and drives the extraction
// strategy for it.
type FileKind int

const (
	// KindUnsupported marks extensions with no entry in the supported table.
	KindUnsupported FileKind = iota
	// KindPDF is a PDF document, extracted page by page.
	KindPDF
	// KindPlainText is a plain text document.
	KindPlainText
	// KindMarkup is a lightweight markup document (Markdown, AsciiDoc).
	KindMarkup
	// KindSourceCode is program source read verbatim as text.
	KindSourceCode
	// KindConfigData is structured configuration or data read as text.
	KindConfigData
	// KindBinarySkip marks extensions deliberately excluded from ingestion.
	KindBinarySkip
)

// String returns the kind's short name.
func (k FileKind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindPlainText:
		return "text"
	case KindMarkup:
		return "markup"
	case KindSourceCode:
		return "source"
	case KindConfigData:
		return "config"
	case KindBinarySkip:
		return "binary-skip"
	default:
		return "unsupported"
	}
}

// RawDocument is one logical unit of extracted text. Most files yield a single
// document; PDFs yield one per page.
type RawDocument struct {
	Text       string
	OriginPath string
}

// Chunk is the unit stored in and retrieved from the corpus index: a bounded
// slice of extracted text with provenance metadata.
type Chunk struct {
	Id         ID
	Content    string
	SourceFile string // basename of the originating file
	SourcePath string // full path of the originating file
	Kind       FileKind
	Seq        int // position within the originating document, 0-based
	ChunkSize  int // length of Content in bytes
	Vector     []float32
	InsertedAt time.Time
}

// ChunkID derives the deterministic ID for a chunk from its provenance and
// content.
func ChunkID(sourcePath string, seq int, content string) ID {
	return IDFromContent(fmt.Sprintf("%s\x00%d\x00%s", sourcePath, seq, content))
}

// IngestionRecord describes one successfully ingested file.
// Records are keyed by resolved absolute path in the ledger.
type IngestionRecord struct {
	Path       string
	Kind       FileKind
	Label      string // human-readable kind label, e.g. "PDF Document"
	ChunkCount int
	ByteSize   int64
	IngestedAt time.Time
}

// OutcomeStatus is the terminal state of a single-file ingestion.
type OutcomeStatus int

const (
	// OutcomeSuccess means the file's chunks were stored and the ledger updated.
	OutcomeSuccess OutcomeStatus = iota + 1
	// OutcomeSkipped means the file was deliberately not ingested
	// (binary-skip, unsupported, or no usable content). Not an error.
	OutcomeSkipped
	// OutcomeFailed means a step raised and the file could not be ingested.
	OutcomeFailed
)

// Outcome is the result of ingesting a single file. A file is never partially
// ingested: it either contributes all of its chunks or none.
type Outcome struct {
	Status     OutcomeStatus
	Kind       FileKind
	Label      string
	ChunkCount int
	Reason     string // populated for Skipped and Failed
}

// Success reports whether the outcome is a successful ingestion.
func (o Outcome) Success() bool { return o.Status == OutcomeSuccess }

// Message renders the outcome as a human-readable one-liner.
func (o Outcome) Message(file string) string {
	switch o.Status {
	case OutcomeSuccess:
		return fmt.Sprintf("added %d chunks from %s (%s)", o.ChunkCount, filepath.Base(file), o.Label)
	case OutcomeSkipped:
		return fmt.Sprintf("skipped %s: %s", filepath.Base(file), o.Reason)
	default:
		return fmt.Sprintf("failed %s: %s", filepath.Base(file), o.Reason)
	}
}

// BatchError records one failed file within a batch.
type BatchError struct {
	File   string
	Reason string
}

// BatchReport aggregates the outcomes of a directory ingestion. It is created
// fresh per batch call and never persisted.
type BatchReport struct {
	SuccessCount int
	FailCount    int
	SkippedCount int
	Errors       []BatchError
	Note         string // informational, e.g. "no supported files found"
}

// KindStats aggregates scan statistics for one file kind.
type KindStats struct {
	Label  string
	Count  int
	SizeMB float64
}

// ScanReport describes what a directory ingestion would process, without
// side effects. Binary-skip and unsupported files are excluded; content
// heuristics (PDF size floors and the like) are not applied.
type ScanReport struct {
	Directory   string
	TotalFiles  int
	TotalSizeMB float64
	ByKind      map[FileKind]*KindStats
}

// SearchResult is one ranked hit from a similarity query.
// Similarity is a percentage derived from the index distance as (1-d)*100;
// a distance outside [0,1] produces an out-of-range percentage and is
// deliberately not corrected.
type SearchResult struct {
	Content    string
	SourceFile string
	SourcePath string
	Kind       FileKind
	Label      string
	Similarity float64
	ChunkSize  int
}
