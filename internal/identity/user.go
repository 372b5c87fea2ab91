// ABOUTME: UserRecord entity, codec and typed storage for platform accounts
// ABOUTME: Users reference a ProfileRecord by ProfileID and own named mailboxes

package identity

import (
	"context"
	"fmt"

	"github.com/skiff-mail/skiff/internal/docstore"
	"github.com/skiff-mail/skiff/internal/record"
)

// Status gates whether an account may log in.
type Status string

const (
	StatusActive Status = "active"
	StatusLocked Status = "locked"
)

// Role bounds which scopes an account can be granted.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserRecord holds platform-specific account data. The stable logical
// identity is the referenced ProfileID; the username is only the login key.
type UserRecord struct {
	Username     string
	Nickname     string
	PasswordHash string
	ProfileID    string
	Mailboxes    map[string]string // mailbox name -> mailbox id
	EmailAddress string
	Status       Status
	Role         Role
}

// UserCodec is the explicit dictionary codec for UserRecord.
type UserCodec struct{}

func (UserCodec) Encode(u UserRecord) (docstore.Dict, error) {
	mailboxes := make(map[string]string, len(u.Mailboxes))
	for k, v := range u.Mailboxes {
		mailboxes[k] = v
	}
	return docstore.Dict{
		"username":      u.Username,
		"nickname":      u.Nickname,
		"password_hash": u.PasswordHash,
		"profile_id":    u.ProfileID,
		"mailboxes":     mailboxes,
		"email_address": u.EmailAddress,
		"status":        string(u.Status),
		"role":          string(u.Role),
	}, nil
}

func (UserCodec) Decode(d docstore.Dict) (UserRecord, error) {
	var u UserRecord
	var err error
	if u.Username, err = record.StringField(d, "username"); err != nil {
		return UserRecord{}, err
	}
	if u.Nickname, err = record.OptionalStringField(d, "nickname"); err != nil {
		return UserRecord{}, err
	}
	if u.PasswordHash, err = record.StringField(d, "password_hash"); err != nil {
		return UserRecord{}, err
	}
	if u.ProfileID, err = record.StringField(d, "profile_id"); err != nil {
		return UserRecord{}, err
	}
	if u.Mailboxes, err = record.StringMapField(d, "mailboxes"); err != nil {
		return UserRecord{}, err
	}
	if u.Mailboxes == nil {
		u.Mailboxes = map[string]string{}
	}
	if u.EmailAddress, err = record.OptionalStringField(d, "email_address"); err != nil {
		return UserRecord{}, err
	}

	status, err := record.StringField(d, "status")
	if err != nil {
		return UserRecord{}, err
	}
	switch Status(status) {
	case StatusActive, StatusLocked:
		u.Status = Status(status)
	default:
		return UserRecord{}, &record.SchemaError{Field: "status", Reason: fmt.Sprintf("unknown value %q", status)}
	}

	role, err := record.StringField(d, "role")
	if err != nil {
		return UserRecord{}, err
	}
	switch Role(role) {
	case RoleUser, RoleAdmin:
		u.Role = Role(role)
	default:
		return UserRecord{}, &record.SchemaError{Field: "role", Reason: fmt.Sprintf("unknown value %q", role)}
	}

	return u, nil
}

// UserStorage persists user records in the users collection, keyed by
// username.
type UserStorage struct {
	*record.Storage[UserRecord]
}

// NewUserStorage binds user storage to a docstore collection.
func NewUserStorage(coll *docstore.Collection) *UserStorage {
	return &UserStorage{Storage: record.NewStorage[UserRecord](coll, UserCodec{})}
}

// Create persists a new active user with the given credentials reference.
// The caller provisions the profile and mailboxes around it.
func (s *UserStorage) Create(ctx context.Context, username, passwordHash, profileID string) (*UserRecord, error) {
	u := UserRecord{
		Username:     username,
		PasswordHash: passwordHash,
		ProfileID:    profileID,
		Mailboxes:    map[string]string{},
		Status:       StatusActive,
		Role:         RoleUser,
	}
	if err := s.Put(ctx, username, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Find loads a user by username.
func (s *UserStorage) Find(ctx context.Context, username string) (*UserRecord, error) {
	u, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
