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


package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - SourcePath must not be empty
//   - Kind must be an ingestible kind (not BinarySkip or Unsupported)
//   - ChunkSize must equal the content length
//
// NOT validated (populated later in the pipeline):
//   - Vector (can be empty until the chunk is embedded)
//   - InsertedAt (set by the store)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: content is empty", ErrInvalidChunk)
	}

	if chunk.SourcePath == "" {
		return fmt.Errorf("%w: source path is empty", ErrInvalidChunk)
	}

	if !IsIngestibleKind(chunk.Kind) {
		return fmt.Errorf("%w: kind %s is not ingestible", ErrInvalidChunk, chunk.Kind)
	}

	if chunk.ChunkSize != len(chunk.Content) {
		return fmt.Errorf("%w: chunk size %d does not match content length %d",
			ErrInvalidChunk, chunk.ChunkSize, len(chunk.Content))
	}

	return nil
}

// IsIngestibleKind reports whether files of the given kind can contribute
// chunks to the corpus index.
func IsIngestibleKind(kind FileKind) bool {
	switch kind {
	case KindPDF, KindPlainText, KindMarkup, KindSourceCode, KindConfigData:
		return true
	default:
		return false
	}
}
