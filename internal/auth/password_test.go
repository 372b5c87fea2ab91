package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	ok, err := hasher.Verify("s3cret", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBcryptHasher_WrongPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("s3cret")
	require.NoError(t, err)

	ok, err := hasher.Verify("not-it", hash)
	require.NoError(t, err, "a mismatch is not an error")
	assert.False(t, ok)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Verify("s3cret", "not a bcrypt hash")
	assert.Error(t, err)
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}
