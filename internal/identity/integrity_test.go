package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiff-mail/skiff/internal/docstore"
)

func TestCheckDanglingProfiles(t *testing.T) {
	store := setupIdentityStore(t)
	users := NewUserStorage(store.Collection("users"))
	profiles := NewProfileStorage(store.Collection("profiles"))
	ctx := context.Background()

	// Healthy user
	p, err := profiles.Create(ctx)
	require.NoError(t, err)
	_, err = users.Create(ctx, "alice", "hash", p.ID)
	require.NoError(t, err)

	// User referencing a profile that was never created
	_, err = users.Create(ctx, "ghost", "hash", "p-missing")
	require.NoError(t, err)

	findings, err := CheckDanglingProfiles(ctx, users, profiles)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "ghost", findings[0].Key)
	assert.Equal(t, "p-missing", findings[0].ProfileID)
	assert.Contains(t, findings[0].String(), "dangling")
}

func TestCheckDanglingProfiles_CleanStore(t *testing.T) {
	store := setupIdentityStore(t)
	users := NewUserStorage(store.Collection("users"))
	profiles := NewProfileStorage(store.Collection("profiles"))
	ctx := context.Background()

	for _, name := range []string{"a", "b"} {
		p, err := profiles.Create(ctx)
		require.NoError(t, err)
		_, err = users.Create(ctx, name, "hash", p.ID)
		require.NoError(t, err)
	}

	findings, err := CheckDanglingProfiles(ctx, users, profiles)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCheckDanglingProfiles_ReportsUndecodableUsers(t *testing.T) {
	store := setupIdentityStore(t)
	users := NewUserStorage(store.Collection("users"))
	profiles := NewProfileStorage(store.Collection("profiles"))
	ctx := context.Background()

	// Not a valid user record, but a valid dictionary
	require.NoError(t, store.Collection("users").Put(ctx, "broken", docstore.Dict{"username": "broken"}))

	findings, err := CheckDanglingProfiles(ctx, users, profiles)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Reason, "password_hash")
}
