package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiff-mail/skiff/internal/docstore"
)

func TestStringField(t *testing.T) {
	d := docstore.Dict{"name": "alice", "age": 30}

	s, err := StringField(d, "name")
	require.NoError(t, err)
	assert.Equal(t, "alice", s)

	_, err = StringField(d, "missing")
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = StringField(d, "age")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestOptionalStringField(t *testing.T) {
	d := docstore.Dict{"a": "x", "b": nil}

	for _, name := range []string{"b", "missing"} {
		s, err := OptionalStringField(d, name)
		require.NoError(t, err)
		assert.Empty(t, s)
	}

	s, err := OptionalStringField(d, "a")
	require.NoError(t, err)
	assert.Equal(t, "x", s)
}

func TestInt64Field_AcceptsJSONNumbers(t *testing.T) {
	d := docstore.Dict{
		"native":   int64(42),
		"plain":    7,
		"roundtrip": float64(1700000000),
		"frac":     float64(1.5),
		"text":     "9",
	}

	for _, name := range []string{"native", "plain", "roundtrip"} {
		_, err := Int64Field(d, name)
		assert.NoError(t, err, name)
	}

	n, err := Int64Field(d, "roundtrip")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), n)

	_, err = Int64Field(d, "frac")
	assert.ErrorIs(t, err, ErrSchemaMismatch, "fractional values are not integers")

	_, err = Int64Field(d, "text")
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = Int64Field(d, "missing")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestBoolField(t *testing.T) {
	d := docstore.Dict{"yes": true, "n": 0}

	b, err := BoolField(d, "yes")
	require.NoError(t, err)
	assert.True(t, b)

	_, err = BoolField(d, "n")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestStringSliceField(t *testing.T) {
	d := docstore.Dict{
		"native":    []string{"a", "b"},
		"roundtrip": []any{"a", "b"},
		"mixed":     []any{"a", 1},
		"wrong":     "a,b",
	}

	for _, name := range []string{"native", "roundtrip"} {
		got, err := StringSliceField(d, name)
		require.NoError(t, err, name)
		assert.Equal(t, []string{"a", "b"}, got)
	}

	got, err := StringSliceField(d, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = StringSliceField(d, "mixed")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	_, err = StringSliceField(d, "wrong")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestStringMapField(t *testing.T) {
	d := docstore.Dict{
		"native":    map[string]string{"Inbox": "box-1"},
		"roundtrip": map[string]any{"Inbox": "box-1"},
		"bad":       map[string]any{"Inbox": 5},
	}

	for _, name := range []string{"native", "roundtrip"} {
		got, err := StringMapField(d, name)
		require.NoError(t, err, name)
		assert.Equal(t, map[string]string{"Inbox": "box-1"}, got)
	}

	_, err := StringMapField(d, "bad")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestSchemaError_Message(t *testing.T) {
	err := &SchemaError{Field: "username", Reason: "missing"}
	assert.Contains(t, err.Error(), "username")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
