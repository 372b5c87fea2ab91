// ABOUTME: Storage hub owning the document store handle and the named typed storages
// ABOUTME: Single source of truth for storage lifecycle; passed explicitly, never global

package hub

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skiff-mail/skiff/internal/docstore"
	"github.com/skiff-mail/skiff/internal/identity"
	"github.com/skiff-mail/skiff/internal/token"
)

// Collection names persisted by the hub.
const (
	CollectionUsers     = "users"
	CollectionProfiles  = "profiles"
	CollectionMailboxes = "mailboxes"
	CollectionMailRefs  = "mail_refs"
	CollectionTokens    = "tokens"
)

// Hub owns the one document store handle of the process and hands out typed
// storage views over it. It is constructed once at startup, injected into
// every component that needs storage, and closed once at shutdown. Views
// borrow the handle and must not outlive Close.
type Hub struct {
	store  *docstore.Store
	logger *slog.Logger
}

// Open opens or creates the backing store at path. This is the only place a
// docstore.ErrUnavailable aborts initialization.
func Open(path string) (*Hub, error) {
	store, err := docstore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening storage hub: %w", err)
	}
	return &Hub{
		store:  store,
		logger: slog.Default().With("component", "hub"),
	}, nil
}

// Close flushes and releases the store handle. Every view handed out
// before this call fails with docstore.ErrUnavailable afterwards.
func (h *Hub) Close() error {
	return h.store.Close()
}

// Docs returns a raw collection view for callers outside the typed model.
func (h *Hub) Docs(name string) *docstore.Collection {
	return h.store.Collection(name)
}

// Users returns a user storage view. Calling twice returns independent but
// functionally-equivalent views over the same collection.
func (h *Hub) Users() *identity.UserStorage {
	return identity.NewUserStorage(h.store.Collection(CollectionUsers))
}

// Profiles returns a profile storage view.
func (h *Hub) Profiles() *identity.ProfileStorage {
	return identity.NewProfileStorage(h.store.Collection(CollectionProfiles))
}

// Mailboxes returns a mailbox storage view.
func (h *Hub) Mailboxes() *identity.MailboxStorage {
	return identity.NewMailboxStorage(h.store.Collection(CollectionMailboxes))
}

// MailRefs returns a mail-reference storage view.
func (h *Hub) MailRefs() *identity.MailRefStorage {
	return identity.NewMailRefStorage(h.store.Collection(CollectionMailRefs))
}

// Tokens returns a token storage view.
func (h *Hub) Tokens() *token.Storage {
	return token.NewStorage(h.store.Collection(CollectionTokens))
}

// ProvisionUser creates a profile, an account referencing it, and the
// default mailbox set, then persists the account with its mailbox map
// filled in. The password must already be hashed; hashing is the auth
// layer's business. The writes are not atomic (see the integrity audit in
// the identity package), but they are ordered so the profile always exists
// before any user references it.
func (h *Hub) ProvisionUser(ctx context.Context, username, passwordHash string) (*identity.UserRecord, error) {
	profiles := h.Profiles()
	users := h.Users()
	mailboxes := h.Mailboxes()

	profile, err := profiles.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	user, err := users.Create(ctx, username, passwordHash, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	for _, name := range identity.DefaultMailboxes {
		box, err := mailboxes.Create(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating mailbox %q: %w", name, err)
		}
		user.Mailboxes[name] = box.ID
	}

	if err := users.Put(ctx, user.Username, *user); err != nil {
		return nil, fmt.Errorf("binding mailboxes: %w", err)
	}

	h.logger.Info("provisioned user", "username", username, "profile_id", profile.ID)
	return user, nil
}
