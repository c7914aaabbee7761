// Package core provides the ingestion and query logic for annual-account
// documents.
//
// This package sits between the transports (HTTP handlers and the CLI) and
// the extraction and storage packages. It contains no HTTP or terminal code
// and can be used by web handlers, CLI tools, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Reading: [ReadDocument] turns an uploaded CSV or XLSX file into text,
//     skipping a BOM and falling back to Windows-1252 for non-UTF-8 input.
//   - Loading: [LoadYears] extracts several fiscal years concurrently for the
//     CLI and reports per-year failures on the records themselves.
//   - Service: [Service] ingests documents into a [database.Store], answers
//     queries and caches the derived analysis per company.
//   - Limiting: [UploadLimiter] caps how many documents are decoded at once.
//
// # Ingestion
//
// The flow of [Service.Ingest] is:
//
//  1. Normalize the company key and validate the fiscal year
//  2. Acquire an upload slot, waiting at most the configured time
//  3. Read and decode the document within the size limit
//  4. Extract the record, classify its data quality and store it
//  5. Record the upload in the history and drop the cached analysis
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DOC001-DOC006: Document errors (empty, unsupported, unknown company or year)
//   - DB001-DB005: Database errors (duplicates, connections, locks, timeouts)
//   - VAL001-VAL002: Request validation errors
//   - FILE001-FILE003: File errors (size, encoding, missing file)
//   - UPL001-UPL003: Upload errors (busy, cancelled, timeout)
//
// # History
//
// Every ingest attempt is recorded with its client, size and outcome.
// [Service.StartHistoryPruner] removes entries older than the configured
// retention.
package core
