// ABOUTME: TokenRecord entity, codec and typed storage for issued credentials
// ABOUTME: Tokens are opaque stored records; revocation is deletion, expiry is derived

package token

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skiff-mail/skiff/internal/docstore"
	"github.com/skiff-mail/skiff/internal/record"
)

// AppIDPassword marks tokens issued through username/password login rather
// than an application grant.
const AppIDPassword = "-1"

// Record is one issued credential. The scope set is immutable after
// issuance: widening or narrowing a grant means issuing a new token, and
// revocation deletes the record outright so there is no revoked flag to
// check or to miss.
type Record struct {
	Token     string
	ProfileID string
	AppID     string
	AppRev    string
	Scope     Scope
	IssuedAt  int64 // unix seconds
	ExpiresAt int64 // unix seconds; 0 means no expiry
}

// Expired reports whether the token is past its expiry at the given time.
// Expiry is computed, never stored as a flag. A token whose expiry equals
// its issuance instant (ttl=0) is expired from the moment it exists.
func (r *Record) Expired(now time.Time) bool {
	return r.ExpiresAt != 0 && now.Unix() >= r.ExpiresAt
}

// Codec is the explicit dictionary codec for Record.
type Codec struct{}

func (Codec) Encode(r Record) (docstore.Dict, error) {
	return docstore.Dict{
		"token":      r.Token,
		"profile_id": r.ProfileID,
		"app_id":     r.AppID,
		"app_rev":    r.AppRev,
		"scope":      []string(r.Scope.clone()),
		"issued_at":  r.IssuedAt,
		"expires_at": r.ExpiresAt,
	}, nil
}

func (Codec) Decode(d docstore.Dict) (Record, error) {
	var r Record
	var err error
	if r.Token, err = record.StringField(d, "token"); err != nil {
		return Record{}, err
	}
	if r.ProfileID, err = record.StringField(d, "profile_id"); err != nil {
		return Record{}, err
	}
	if r.AppID, err = record.StringField(d, "app_id"); err != nil {
		return Record{}, err
	}
	if r.AppRev, err = record.OptionalStringField(d, "app_rev"); err != nil {
		return Record{}, err
	}
	scope, err := record.StringSliceField(d, "scope")
	if err != nil {
		return Record{}, err
	}
	r.Scope = Scope(scope)
	if r.IssuedAt, err = record.Int64Field(d, "issued_at"); err != nil {
		return Record{}, err
	}
	if r.ExpiresAt, err = record.OptionalInt64Field(d, "expires_at"); err != nil {
		return Record{}, err
	}
	return r, nil
}

// CreateOptions controls token issuance.
type CreateOptions struct {
	AppID    string        // defaults to AppIDPassword
	AppRev   string        // application config revision at grant time
	Scope    Scope         // defaults to {act_as_user}
	TTL      time.Duration // 0 expires at issuance unless NoExpiry is set
	NoExpiry bool
}

// Storage persists token records in the tokens collection, keyed by the
// opaque token string.
type Storage struct {
	*record.Storage[Record]
}

// NewStorage binds token storage to a docstore collection.
func NewStorage(coll *docstore.Collection) *Storage {
	return &Storage{Storage: record.NewStorage[Record](coll, Codec{})}
}

// Create mints and persists a new token for profileID.
func (s *Storage) Create(ctx context.Context, profileID string, opts CreateOptions) (*Record, error) {
	if opts.AppID == "" {
		opts.AppID = AppIDPassword
	}
	scope := opts.Scope.clone()
	if len(scope) == 0 {
		scope = Scope{ScopeActAsUser}
	}

	now := time.Now().UTC()
	r := Record{
		Token:     uuid.NewString(),
		ProfileID: profileID,
		AppID:     opts.AppID,
		AppRev:    opts.AppRev,
		Scope:     scope,
		IssuedAt:  now.Unix(),
	}
	if !opts.NoExpiry {
		r.ExpiresAt = now.Add(opts.TTL).Unix()
	}

	if err := s.Put(ctx, r.Token, r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Find loads the record for a token string. Returns docstore.ErrNotFound
// for unknown (or revoked) tokens.
func (s *Storage) Find(ctx context.Context, tokenKey string) (*Record, error) {
	r, err := s.Get(ctx, tokenKey)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Revoke deletes the record. A revoked token is simply unfindable;
// revoking twice is a no-op.
func (s *Storage) Revoke(ctx context.Context, tokenKey string) error {
	return s.Delete(ctx, tokenKey)
}
