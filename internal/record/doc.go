// Package record provides typed access over the primitive document store.
//
// A Codec converts one domain type to and from the canonical dictionary form
// (docstore.Dict) under the round-trip law Decode(Encode(v)) == v. Codecs are
// explicit per type: every identity entity writes out its own Encode/Decode
// pair using the field helpers here, so schema drift surfaces as a compile
// error instead of a runtime decode failure.
//
// Storage composes a Codec with one docstore collection into a typed
// get/put/delete/list facade. Decode failures surface as ErrSchemaMismatch;
// List reports per-entry failures on a side channel and keeps going.
package record
