// ABOUTME: Logical mailbox resolution for the transport layer
// ABOUTME: Maps a mailbox id to its record, owning user and ProfileID

package hub

import (
	"context"
	"fmt"

	"github.com/skiff-mail/skiff/internal/identity"
)

// Mailbox is the resolved view of one delivery destination: the stored
// record plus its owner. A mailbox id resolves to exactly one owning
// ProfileID.
type Mailbox struct {
	Record         identity.MailboxRecord
	Name           string // the owner's name for this mailbox, e.g. "Inbox"
	OwnerUsername  string
	OwnerProfileID string

	refs *identity.MailRefStorage
}

// Messages lists the message references this mailbox owns, alongside any
// per-entry decode failures.
func (m *Mailbox) Messages(ctx context.Context) ([]identity.MailRef, []error, error) {
	return m.refs.ListForMailbox(ctx, m.Record.ID)
}

// ResolveMailbox loads the mailbox record for boxID and finds its owner by
// scanning user mailbox maps. Returns docstore.ErrNotFound when no record
// exists. A mailbox without an owner resolves with empty owner fields; the
// integrity audit is the place that flags those.
func (h *Hub) ResolveMailbox(ctx context.Context, boxID string) (*Mailbox, error) {
	rec, err := h.Mailboxes().Get(ctx, boxID)
	if err != nil {
		return nil, err
	}

	resolved := &Mailbox{Record: rec, refs: h.MailRefs()}

	entries, _, err := h.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning mailbox owners: %w", err)
	}
	for _, e := range entries {
		for name, id := range e.Value.Mailboxes {
			if id == boxID {
				resolved.Name = name
				resolved.OwnerUsername = e.Value.Username
				resolved.OwnerProfileID = e.Value.ProfileID
				return resolved, nil
			}
		}
	}
	return resolved, nil
}
