// Package classify maps file extensions to semantic file kinds.
//
// Classification is a pure lookup: every extension maps to exactly one
// FileKind, binary formats are excluded through the same table, and unmapped
// extensions are Unsupported. The table is the interface contract for which
// files the ingestion pipeline will touch.
package classify
