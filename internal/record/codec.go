// ABOUTME: Codec contract and dictionary field helpers for typed records
// ABOUTME: Explicit per-type codecs convert between domain types and docstore.Dict

package record

import (
	"errors"
	"fmt"
	"math"

	"github.com/skiff-mail/skiff/internal/docstore"
)

// ErrSchemaMismatch is returned when a stored dictionary does not decode to
// the expected type: a required key is absent or a value's primitive type
// does not match. Never silently defaulted.
var ErrSchemaMismatch = errors.New("schema mismatch")

// SchemaError describes which field failed to decode. It wraps
// ErrSchemaMismatch for errors.Is matching.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch: field %q: %s", e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }

// Codec converts between a typed record and its canonical dictionary form.
// Encode must be total over valid instances; Decode(Encode(v)) == v for
// every valid v. Codecs are written out per type rather than derived by
// reflection, so a field rename breaks the build, not a production decode.
type Codec[T any] interface {
	Encode(v T) (docstore.Dict, error)
	Decode(d docstore.Dict) (T, error)
}

// StringField reads a required string field.
func StringField(d docstore.Dict, name string) (string, error) {
	raw, ok := d[name]
	if !ok {
		return "", &SchemaError{Field: name, Reason: "missing"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &SchemaError{Field: name, Reason: fmt.Sprintf("expected string, got %T", raw)}
	}
	return s, nil
}

// OptionalStringField reads a string field, treating absence and nil as "".
func OptionalStringField(d docstore.Dict, name string) (string, error) {
	raw, ok := d[name]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &SchemaError{Field: name, Reason: fmt.Sprintf("expected string, got %T", raw)}
	}
	return s, nil
}

// Int64Field reads a required integer field. Accepts the native int forms a
// codec emits and the float64 form JSON decoding produces, as long as the
// value is integral.
func Int64Field(d docstore.Dict, name string) (int64, error) {
	raw, ok := d[name]
	if !ok {
		return 0, &SchemaError{Field: name, Reason: "missing"}
	}
	return coerceInt64(name, raw)
}

// OptionalInt64Field reads an integer field, treating absence and nil as 0.
func OptionalInt64Field(d docstore.Dict, name string) (int64, error) {
	raw, ok := d[name]
	if !ok || raw == nil {
		return 0, nil
	}
	return coerceInt64(name, raw)
}

func coerceInt64(name string, raw any) (int64, error) {
	switch n := raw.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, &SchemaError{Field: name, Reason: fmt.Sprintf("expected integer, got %v", n)}
		}
		return int64(n), nil
	default:
		return 0, &SchemaError{Field: name, Reason: fmt.Sprintf("expected integer, got %T", raw)}
	}
}

// IntField reads a required integer field as int.
func IntField(d docstore.Dict, name string) (int, error) {
	n, err := Int64Field(d, name)
	return int(n), err
}

// OptionalIntField reads an integer field as int, treating absence as 0.
func OptionalIntField(d docstore.Dict, name string) (int, error) {
	n, err := OptionalInt64Field(d, name)
	return int(n), err
}

// BoolField reads a required boolean field.
func BoolField(d docstore.Dict, name string) (bool, error) {
	raw, ok := d[name]
	if !ok {
		return false, &SchemaError{Field: name, Reason: "missing"}
	}
	b, ok := raw.(bool)
	if !ok {
		return false, &SchemaError{Field: name, Reason: fmt.Sprintf("expected bool, got %T", raw)}
	}
	return b, nil
}

// StringSliceField reads a sequence-of-strings field. Absence and nil decode
// as nil. Accepts both []string (codec-native) and []any (JSON round-trip).
func StringSliceField(d docstore.Dict, name string) ([]string, error) {
	raw, ok := d[name]
	if !ok || raw == nil {
		return nil, nil
	}
	switch seq := raw.(type) {
	case []string:
		out := make([]string, len(seq))
		copy(out, seq)
		return out, nil
	case []any:
		out := make([]string, 0, len(seq))
		for i, el := range seq {
			s, ok := el.(string)
			if !ok {
				return nil, &SchemaError{Field: name, Reason: fmt.Sprintf("element %d: expected string, got %T", i, el)}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &SchemaError{Field: name, Reason: fmt.Sprintf("expected string sequence, got %T", raw)}
	}
}

// StringMapField reads a string-to-string dictionary field. Absence and nil
// decode as nil. Accepts both map[string]string and the JSON round-trip form.
func StringMapField(d docstore.Dict, name string) (map[string]string, error) {
	raw, ok := d[name]
	if !ok || raw == nil {
		return nil, nil
	}
	switch m := raw.(type) {
	case map[string]string:
		out := make(map[string]string, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, v := range m {
			s, ok := v.(string)
			if !ok {
				return nil, &SchemaError{Field: name, Reason: fmt.Sprintf("key %q: expected string, got %T", k, v)}
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, &SchemaError{Field: name, Reason: fmt.Sprintf("expected string dictionary, got %T", raw)}
	}
}
