// Package extract converts classified files into raw text documents.
//
// Extraction is best-effort by contract: a malformed file yields a typed
// error (ErrEmptyContent or ErrExtractionFailed) rather than a panic or a raw
// parser error, so batch ingestion can account for it and continue. PDF files
// produce one document per page; all other supported kinds produce a single
// permissively decoded document.
package extract
