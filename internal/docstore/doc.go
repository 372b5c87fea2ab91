// Package docstore provides the primitive persistence layer: a durable
// key-value document store over named collections, backed by SQLite.
//
// Documents are dictionaries of primitives (see Dict) and are persisted as
// JSON in a single documents table keyed by (collection, key). Writes are
// write-through: every mutating call durably persists before returning.
// Concurrent writes to the same key serialize last-writer-wins; WAL mode
// keeps reads from blocking on unrelated writes.
//
// Error taxonomy:
//
//   - ErrNotFound: key absent; recoverable, caller decides
//   - ErrUnavailable: engine-level failure, fatal to the calling operation
//   - ErrCorruption: stored bytes do not parse; surfaced, never repaired
//
// Typed access over this layer lives in the record package.
package docstore
