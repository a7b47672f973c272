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

import "errors"

// Ingestion error taxonomy. Per-file errors are always recovered locally and
// converted into outcomes; none of these aborts a directory-wide ingestion.
var (
	// ErrNotFound indicates the target path does not exist.
	ErrNotFound = errors.New("path not found")

	// ErrUnsupportedType indicates an extension with no entry in the
	// supported table.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrBinarySkipped indicates an extension explicitly excluded from
	// ingestion. A deliberate no-op, not a failure.
	ErrBinarySkipped = errors.New("binary file skipped")

	// ErrEmptyContent indicates extraction produced no usable text.
	ErrEmptyContent = errors.New("no content extracted")

	// ErrExtractionFailed indicates the underlying decode or parse failed.
	// The cause is captured and truncated, never propagated raw.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrIndexUnavailable indicates the index or the embedding service
	// rejected a query, or failed to initialize.
	ErrIndexUnavailable = errors.New("knowledge index unavailable")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")
)
