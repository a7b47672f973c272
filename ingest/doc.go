// Package ingest orchestrates the file ingestion workflow: classify,
// extract, split, embed, store, record.
//
// Files in a batch are processed sequentially, preserving a predictable
// load on local embedding servers. A failure on one file is recorded in the
// batch report and never aborts the rest of the batch.
//
// The pipeline keeps an in-memory ledger of what it has ingested this
// session, which backs idempotency checks and the auto-ingest coverage
// heuristic. Directory scanning, a read-only operation, is the one place
// the package fans out work across a goroutine pool.
package ingest
