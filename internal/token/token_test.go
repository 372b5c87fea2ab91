package token

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiff-mail/skiff/internal/docstore"
)

func setupTokenStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := docstore.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewStorage(store.Collection("tokens"))
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := Codec{}
	records := []Record{
		{Token: "t1", ProfileID: "p1", AppID: AppIDPassword, Scope: Scope{ScopeActAsUser}, IssuedAt: 1700000000},
		{Token: "t2", ProfileID: "p2", AppID: "7", AppRev: "rev3", Scope: Scope{ScopeMailRead, ScopeMailSend}, IssuedAt: 1700000000, ExpiresAt: 1700003600},
	}
	for _, want := range records {
		d, err := codec.Encode(want)
		require.NoError(t, err)
		got, err := codec.Decode(d)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCodec_Decode_SchemaMismatch(t *testing.T) {
	codec := Codec{}

	_, err := codec.Decode(docstore.Dict{"token": "t"})
	assert.Error(t, err, "missing profile_id must fail")

	_, err = codec.Decode(docstore.Dict{
		"token": "t", "profile_id": "p", "app_id": "-1",
		"scope": "act_as_user", "issued_at": 1,
	})
	assert.Error(t, err, "scalar scope must fail")
}

func TestStorage_CreateAndFind(t *testing.T) {
	storage := setupTokenStorage(t)
	ctx := context.Background()

	created, err := storage.Create(ctx, "p1", CreateOptions{
		Scope: Scope{ScopeMailRead},
		TTL:   time.Hour,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Token)
	assert.Equal(t, "p1", created.ProfileID)
	assert.Equal(t, AppIDPassword, created.AppID)
	assert.False(t, created.Expired(time.Now()))

	found, err := storage.Find(ctx, created.Token)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestStorage_Create_Defaults(t *testing.T) {
	storage := setupTokenStorage(t)

	created, err := storage.Create(context.Background(), "p1", CreateOptions{TTL: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, Scope{ScopeActAsUser}, created.Scope)
	assert.Equal(t, AppIDPassword, created.AppID)
}

func TestStorage_Revoke_MakesTokenUnfindable(t *testing.T) {
	storage := setupTokenStorage(t)
	ctx := context.Background()

	created, err := storage.Create(ctx, "p1", CreateOptions{TTL: time.Hour})
	require.NoError(t, err)

	require.NoError(t, storage.Revoke(ctx, created.Token))
	_, err = storage.Find(ctx, created.Token)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	// Revoking again is a no-op
	assert.NoError(t, storage.Revoke(ctx, created.Token))
}

func TestRecord_Expired(t *testing.T) {
	now := time.Now().UTC()

	forever := Record{}
	assert.False(t, forever.Expired(now), "zero expiry means no expiry")

	live := Record{IssuedAt: now.Unix(), ExpiresAt: now.Add(time.Hour).Unix()}
	assert.False(t, live.Expired(now))
	assert.True(t, live.Expired(now.Add(2*time.Hour)))

	// ttl=0: expiry equals issuance, never usable
	stillborn := Record{IssuedAt: now.Unix(), ExpiresAt: now.Unix()}
	assert.True(t, stillborn.Expired(now))
}

func TestStorage_Create_ZeroTTLExpiresImmediately(t *testing.T) {
	storage := setupTokenStorage(t)

	created, err := storage.Create(context.Background(), "p1", CreateOptions{TTL: 0})
	require.NoError(t, err)
	assert.True(t, created.Expired(time.Now()))
}
