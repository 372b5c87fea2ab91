package spf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiff-mail/skiff/internal/workpool"
)

func TestCheck_InvalidIP(t *testing.T) {
	checker := NewChecker(workpool.New(1))

	_, err := checker.Check("not-an-ip", "alice@example.org", "example.org").Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sender ip")
}

func TestCheck_LoopbackHasNoPolicy(t *testing.T) {
	checker := NewChecker(workpool.New(1))

	// Loopback has no SPF record, so evaluation yields a verdict rather
	// than a call failure even when the resolver goes nowhere.
	v, err := checker.Check("127.0.0.1", "alice@localhost", "localhost").Wait(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, StatusPass, v.Status)
}
