// ABOUTME: Core types and errors for the primitive document store
// ABOUTME: Defines Dict, Entry and the error taxonomy shared by all backends

package docstore

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrUnavailable is returned when the backing engine cannot serve the
// operation (closed handle, I/O failure). Fatal to the calling operation;
// never retried internally.
var ErrUnavailable = errors.New("storage unavailable")

// ErrCorruption is returned when stored bytes fail to parse as a dictionary.
// Surfaced for operator intervention, never auto-repaired.
var ErrCorruption = errors.New("stored document corrupted")

// Dict is the canonical dictionary-of-primitives form. Values are JSON
// primitives (string, float64/int64, bool, nil) or nested Dict / []any of
// the same. This is the only shape the store persists.
type Dict = map[string]any

// Entry is one (key, document) pair from a collection scan. A document that
// fails to parse carries its error in Err with a nil Doc; the scan itself
// continues past it.
type Entry struct {
	Key string
	Doc Dict
	Err error
}

// engineErr tags an engine-level failure so callers can match ErrUnavailable
// while keeping the driver error in the chain.
func engineErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
}

// corruptErr tags an unparseable stored document.
func corruptErr(collection, key string, err error) error {
	return fmt.Errorf("collection %q key %q: %w", collection, key, errors.Join(ErrCorruption, err))
}
