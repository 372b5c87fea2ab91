// ABOUTME: ProfileRecord entity, codec and typed storage for platform-agnostic identity
// ABOUTME: ProfileID is the globally unique, immutable logical identity key

package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/skiff-mail/skiff/internal/docstore"
	"github.com/skiff-mail/skiff/internal/record"
)

// ProfileRecord holds identity data independent of any platform account.
// Subsystems may reference a person purely by ProfileID without ever loading
// a UserRecord. The ID never changes once assigned.
type ProfileRecord struct {
	ID       string
	MemberNo string // empty when unassigned
	Name     string // shown only to granted people; empty when unset
	Age      int    // 0 when unset
}

// ProfileCodec is the explicit dictionary codec for ProfileRecord.
type ProfileCodec struct{}

func (ProfileCodec) Encode(p ProfileRecord) (docstore.Dict, error) {
	return docstore.Dict{
		"id":        p.ID,
		"member_no": p.MemberNo,
		"name":      p.Name,
		"age":       p.Age,
	}, nil
}

func (ProfileCodec) Decode(d docstore.Dict) (ProfileRecord, error) {
	var p ProfileRecord
	var err error
	if p.ID, err = record.StringField(d, "id"); err != nil {
		return ProfileRecord{}, err
	}
	if p.MemberNo, err = record.OptionalStringField(d, "member_no"); err != nil {
		return ProfileRecord{}, err
	}
	if p.Name, err = record.OptionalStringField(d, "name"); err != nil {
		return ProfileRecord{}, err
	}
	if p.Age, err = record.OptionalIntField(d, "age"); err != nil {
		return ProfileRecord{}, err
	}
	return p, nil
}

// ProfileStorage persists profiles in the profiles collection, keyed by
// ProfileID.
type ProfileStorage struct {
	*record.Storage[ProfileRecord]
}

// NewProfileStorage binds profile storage to a docstore collection.
func NewProfileStorage(coll *docstore.Collection) *ProfileStorage {
	return &ProfileStorage{Storage: record.NewStorage[ProfileRecord](coll, ProfileCodec{})}
}

// Create mints a new profile with a fresh ProfileID and persists it.
func (s *ProfileStorage) Create(ctx context.Context) (*ProfileRecord, error) {
	p := ProfileRecord{ID: uuid.NewString()}
	if err := s.Put(ctx, p.ID, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Find loads a profile by its ProfileID.
func (s *ProfileStorage) Find(ctx context.Context, profileID string) (*ProfileRecord, error) {
	p, err := s.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
