package hub

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiff-mail/skiff/internal/docstore"
	"github.com/skiff-mail/skiff/internal/identity"
)

func setupTestHub(t *testing.T) *Hub {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "skiff.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestProvisionUser(t *testing.T) {
	h := setupTestHub(t)
	ctx := context.Background()

	user, err := h.ProvisionUser(ctx, "alice", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	require.NotEmpty(t, user.ProfileID)

	// The referenced profile exists
	profile, err := h.Profiles().Find(ctx, user.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, user.ProfileID, profile.ID)

	// Default mailboxes are created and bound
	require.Len(t, user.Mailboxes, len(identity.DefaultMailboxes))
	for _, name := range identity.DefaultMailboxes {
		boxID, ok := user.Mailboxes[name]
		require.True(t, ok, "missing mailbox %q", name)
		_, err := h.Mailboxes().Get(ctx, boxID)
		assert.NoError(t, err, "mailbox %q not persisted", name)
	}

	// The stored user carries the mailbox map
	stored, err := h.Users().Find(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.Mailboxes, stored.Mailboxes)

	// Provisioning leaves no integrity findings
	findings, err := identity.CheckDanglingProfiles(ctx, h.Users(), h.Profiles())
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestResolveMailbox(t *testing.T) {
	h := setupTestHub(t)
	ctx := context.Background()

	user, err := h.ProvisionUser(ctx, "alice", "hash")
	require.NoError(t, err)
	inboxID := user.Mailboxes[identity.MailboxInbox]

	box, err := h.ResolveMailbox(ctx, inboxID)
	require.NoError(t, err)
	assert.Equal(t, identity.MailboxInbox, box.Name)
	assert.Equal(t, "alice", box.OwnerUsername)
	assert.Equal(t, user.ProfileID, box.OwnerProfileID)

	// Message references resolve through the mailbox
	_, err = h.MailRefs().Add(ctx, inboxID, "msg-1")
	require.NoError(t, err)
	refs, failed, err := box.Messages(ctx)
	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, refs, 1)
	assert.Equal(t, "msg-1", refs[0].MessageID)
}

func TestResolveMailbox_NotFound(t *testing.T) {
	h := setupTestHub(t)

	_, err := h.ResolveMailbox(context.Background(), "no-such-box")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestEquivalentViews(t *testing.T) {
	h := setupTestHub(t)
	ctx := context.Background()

	// Two views over the same collection see each other's writes
	a := h.Users()
	b := h.Users()
	_, err := a.Create(ctx, "alice", "hash", "p1")
	require.NoError(t, err)

	got, err := b.Find(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestClose_InvalidatesViews(t *testing.T) {
	h, err := Open(filepath.Join(t.TempDir(), "skiff.db"))
	require.NoError(t, err)

	users := h.Users()
	require.NoError(t, h.Close())

	_, err = users.Find(context.Background(), "alice")
	assert.ErrorIs(t, err, docstore.ErrUnavailable)
}
