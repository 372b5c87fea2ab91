// ABOUTME: Generic typed record storage over a docstore collection
// ABOUTME: Composes a Codec with the primitive store for get/put/delete/list

package record

import (
	"context"
	"fmt"

	"github.com/skiff-mail/skiff/internal/docstore"
)

// Entry is one (key, typed value) pair from a collection scan.
type Entry[T any] struct {
	Key   string
	Value T
}

// Storage is a typed facade over one docstore collection. It owns no
// resources of its own; it borrows the collection's store handle, so it must
// not outlive the hub that opened the store.
type Storage[T any] struct {
	coll  *docstore.Collection
	codec Codec[T]
}

// NewStorage binds a codec to a collection.
func NewStorage[T any](coll *docstore.Collection, codec Codec[T]) *Storage[T] {
	return &Storage[T]{coll: coll, codec: codec}
}

// Collection exposes the underlying raw collection view.
func (s *Storage[T]) Collection() *docstore.Collection { return s.coll }

// Get loads and decodes the record under key. Propagates
// docstore.ErrNotFound and ErrSchemaMismatch unchanged.
func (s *Storage[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	doc, err := s.coll.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	v, err := s.codec.Decode(doc)
	if err != nil {
		return zero, fmt.Errorf("decoding %s/%s: %w", s.coll.Name(), key, err)
	}
	return v, nil
}

// Put encodes the record and upserts it under key.
func (s *Storage[T]) Put(ctx context.Context, key string, v T) error {
	doc, err := s.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", s.coll.Name(), key, err)
	}
	return s.coll.Put(ctx, key, doc)
}

// Delete removes the record under key. No-op if absent.
func (s *Storage[T]) Delete(ctx context.Context, key string) error {
	return s.coll.Delete(ctx, key)
}

// List decodes every entry of the collection snapshot. A malformed entry is
// reported in the returned error slice without aborting the rest: one corrupt
// record must not deny access to all others. The final error covers scan
// failure only.
func (s *Storage[T]) List(ctx context.Context) ([]Entry[T], []error, error) {
	raw, err := s.coll.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	var entries []Entry[T]
	var failed []error
	for _, e := range raw {
		if e.Err != nil {
			failed = append(failed, e.Err)
			continue
		}
		v, err := s.codec.Decode(e.Doc)
		if err != nil {
			failed = append(failed, fmt.Errorf("decoding %s/%s: %w", s.coll.Name(), e.Key, err))
			continue
		}
		entries = append(entries, Entry[T]{Key: e.Key, Value: v})
	}
	return entries, failed, nil
}
