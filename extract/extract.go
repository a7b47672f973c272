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

package extract

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/veridian-labs/corpusit/core"
)

const (
	// minPDFBytes is the size floor below which a PDF is treated as a
	// corrupt or placeholder file.
	minPDFBytes = 100

	// minPageChars is the per-page stripped-text floor. A PDF where every
	// page falls below it is treated as scanned-image-only.
	minPageChars = 50

	// minTextChars is the stripped-length floor for text-family files.
	minTextChars = 10
)

// Extractor converts classified files into raw text documents.
// Extraction is best-effort: decode and parse failures are returned as typed
// errors, never panics, so a single malformed file cannot abort a batch.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// New creates an Extractor.
func New(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		logger: slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Extract produces zero or more raw documents from the file at path.
//
// BinarySkip and Unsupported kinds return immediately without touching the
// filesystem. PDF files yield one document per page. Text-family files yield
// a single document decoded permissively (invalid byte sequences dropped).
//
// Errors are always one of the core taxonomy: ErrBinarySkipped,
// ErrUnsupportedType, ErrNotFound, ErrEmptyContent, or ErrExtractionFailed.
func (e *Extractor) Extract(path string, kind core.FileKind) ([]core.RawDocument, error) {
	switch kind {
	case core.KindBinarySkip:
		return nil, core.ErrBinarySkipped
	case core.KindUnsupported:
		return nil, core.ErrUnsupportedType
	case core.KindPDF:
		return e.extractPDF(path)
	default:
		return e.extractText(path)
	}
}

// extractText reads a text-family file with permissive decoding.
func (e *Extractor) extractText(path string) ([]core.RawDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrExtractionFailed, err)
	}

	// Drop invalid byte sequences rather than failing the file.
	text := strings.ToValidUTF8(string(raw), "")

	if len(strings.TrimSpace(text)) < minTextChars {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptyContent, path)
	}

	return []core.RawDocument{{Text: text, OriginPath: path}}, nil
}
