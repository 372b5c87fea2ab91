// ABOUTME: MailboxRecord and MailRef entities binding delivery destinations to owners
// ABOUTME: Mailboxes hold metadata only; message content storage is elsewhere

package identity

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/skiff-mail/skiff/internal/docstore"
	"github.com/skiff-mail/skiff/internal/record"
)

// Default mailbox names provisioned for every new user.
const (
	MailboxInbox    = "Inbox"
	MailboxDrafts   = "Drafts"
	MailboxSent     = "Sent"
	MailboxArchives = "Archives"
	MailboxJunk     = "Junk"
	MailboxDeleted  = "Deleted"
)

// DefaultMailboxes is the standard folder set created on provisioning.
var DefaultMailboxes = []string{
	MailboxInbox,
	MailboxDrafts,
	MailboxSent,
	MailboxArchives,
	MailboxJunk,
	MailboxDeleted,
}

// MailboxRecord is the metadata for one logical delivery destination. It
// resolves to exactly one owning user (and through it one ProfileID) via the
// user record's mailbox map.
type MailboxRecord struct {
	ID             string
	ReadOnly       bool
	PermanentFlags []string
}

// MailboxCodec is the explicit dictionary codec for MailboxRecord.
type MailboxCodec struct{}

func (MailboxCodec) Encode(m MailboxRecord) (docstore.Dict, error) {
	flags := make([]string, len(m.PermanentFlags))
	copy(flags, m.PermanentFlags)
	sort.Strings(flags)
	return docstore.Dict{
		"id":              m.ID,
		"readonly":        m.ReadOnly,
		"permanent_flags": flags,
	}, nil
}

func (MailboxCodec) Decode(d docstore.Dict) (MailboxRecord, error) {
	var m MailboxRecord
	var err error
	if m.ID, err = record.StringField(d, "id"); err != nil {
		return MailboxRecord{}, err
	}
	if m.ReadOnly, err = record.BoolField(d, "readonly"); err != nil {
		return MailboxRecord{}, err
	}
	if m.PermanentFlags, err = record.StringSliceField(d, "permanent_flags"); err != nil {
		return MailboxRecord{}, err
	}
	return m, nil
}

// MailboxStorage persists mailbox records keyed by mailbox id.
type MailboxStorage struct {
	*record.Storage[MailboxRecord]
}

// NewMailboxStorage binds mailbox storage to a docstore collection.
func NewMailboxStorage(coll *docstore.Collection) *MailboxStorage {
	return &MailboxStorage{Storage: record.NewStorage[MailboxRecord](coll, MailboxCodec{})}
}

// Create mints a new writable mailbox and persists it.
func (s *MailboxStorage) Create(ctx context.Context) (*MailboxRecord, error) {
	m := MailboxRecord{ID: uuid.NewString()}
	if err := s.Put(ctx, m.ID, m); err != nil {
		return nil, err
	}
	return &m, nil
}

// MailRef marks one mailbox's ownership of one message. The message body
// lives in the mail store, not here.
type MailRef struct {
	MailboxID string
	MessageID string
}

// MailRefCodec is the explicit dictionary codec for MailRef.
type MailRefCodec struct{}

func (MailRefCodec) Encode(r MailRef) (docstore.Dict, error) {
	return docstore.Dict{
		"mailbox_id": r.MailboxID,
		"message_id": r.MessageID,
	}, nil
}

func (MailRefCodec) Decode(d docstore.Dict) (MailRef, error) {
	var r MailRef
	var err error
	if r.MailboxID, err = record.StringField(d, "mailbox_id"); err != nil {
		return MailRef{}, err
	}
	if r.MessageID, err = record.StringField(d, "message_id"); err != nil {
		return MailRef{}, err
	}
	return r, nil
}

// MailRefStorage persists mailbox-message ownership marks.
type MailRefStorage struct {
	*record.Storage[MailRef]
}

// NewMailRefStorage binds mail-ref storage to a docstore collection.
func NewMailRefStorage(coll *docstore.Collection) *MailRefStorage {
	return &MailRefStorage{Storage: record.NewStorage[MailRef](coll, MailRefCodec{})}
}

// Add records that mailboxID owns messageID. Keys are synthetic; one
// message may be referenced by many mailboxes.
func (s *MailRefStorage) Add(ctx context.Context, mailboxID, messageID string) (*MailRef, error) {
	r := MailRef{MailboxID: mailboxID, MessageID: messageID}
	if err := s.Put(ctx, uuid.NewString(), r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListForMailbox returns every message reference owned by mailboxID,
// alongside any per-entry decode failures from the scan.
func (s *MailRefStorage) ListForMailbox(ctx context.Context, mailboxID string) ([]MailRef, []error, error) {
	entries, failed, err := s.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	var refs []MailRef
	for _, e := range entries {
		if e.Value.MailboxID == mailboxID {
			refs = append(refs, e.Value)
		}
	}
	return refs, failed, nil
}
