// ABOUTME: Auth provider: credential checks, token issuance and authorization
// ABOUTME: Normalizes lookup failures into invalid-credentials to avoid existence leaks

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/skiff-mail/skiff/internal/docstore"
	"github.com/skiff-mail/skiff/internal/identity"
	"github.com/skiff-mail/skiff/internal/token"
	"github.com/skiff-mail/skiff/internal/workpool"
)

// Auth errors. All are recoverable: the caller denies and reports, the
// process never terminates over them.
var (
	// ErrInvalidCredentials covers wrong password, unknown username and
	// locked account alike, so a caller cannot probe which accounts exist
	// or which are locked.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrScopeNotGrantable is returned when a requested scope exceeds what
	// the account's role permits.
	ErrScopeNotGrantable = errors.New("scope not grantable")

	ErrTokenNotFound     = errors.New("token not found")
	ErrTokenExpired      = errors.New("token expired")
	ErrInsufficientScope = errors.New("insufficient scope")
)

// Default TTL for issued tokens: 30 days.
const DefaultTokenTTL = 30 * 24 * time.Hour

// Maximum TTL for issued tokens: 365 days.
const MaxTokenTTL = 365 * 24 * time.Hour

// Provider answers the three authorization questions: who is this
// (Authenticate), what may they be granted (IssueToken), and is this grant
// sufficient (Authorize). Every decision is a query over stored records.
type Provider struct {
	users  *identity.UserStorage
	tokens *token.Storage
	hasher Hasher
	pool   *workpool.Pool
	logger *slog.Logger
}

// NewProvider wires the provider to its storages, the password hashing
// collaborator and the worker pool that keeps hashing off storage threads.
func NewProvider(users *identity.UserStorage, tokens *token.Storage, hasher Hasher, pool *workpool.Pool) *Provider {
	return &Provider{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		pool:   pool,
		logger: slog.Default().With("component", "auth"),
	}
}

// HashPassword derives a storable hash on the worker pool.
func (p *Provider) HashPassword(ctx context.Context, password string) (string, error) {
	fut := workpool.Submit(p.pool, func() (string, error) {
		return p.hasher.Hash(password)
	})
	return fut.Wait(ctx)
}

// Authenticate verifies username/password and resolves the account's
// ProfileID. Unknown username, wrong password and locked account all fail
// with the same ErrInvalidCredentials. Storage failures other than
// not-found propagate unchanged.
func (p *Provider) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := p.users.Find(ctx, username)
	if errors.Is(err, docstore.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("loading user: %w", err)
	}

	fut := workpool.Submit(p.pool, func() (bool, error) {
		return p.hasher.Verify(password, user.PasswordHash)
	})
	ok, err := fut.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("verifying password: %w", err)
	}
	if !ok || user.Status != identity.StatusActive {
		p.logger.Debug("authentication denied", "username", username)
		return "", ErrInvalidCredentials
	}

	return user.ProfileID, nil
}

// grantableScope returns the widest scope a role permits.
func grantableScope(role identity.Role) token.Scope {
	base := token.Scope{token.ScopeActAsUser, token.ScopeMail, token.ScopeProfile}
	if role == identity.RoleAdmin {
		return append(base, token.ScopeAdmin)
	}
	return base
}

// IssueToken mints and persists a token for profileID. Grantability is
// enforced here, at issuance: the requested scope must be covered by what
// the account's role permits, and every label must be a defined capability.
// ttl=0 issues a token that is expired from birth; callers wanting the
// default lifetime pass DefaultTokenTTL.
func (p *Provider) IssueToken(ctx context.Context, profileID string, scope token.Scope, ttl time.Duration) (*token.Record, error) {
	if ttl > MaxTokenTTL {
		return nil, fmt.Errorf("ttl %v exceeds maximum %v", ttl, MaxTokenTTL)
	}

	user, err := p.findByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	for _, label := range scope {
		if !token.ValidLabel(label) {
			return nil, fmt.Errorf("%w: unknown capability %q", ErrScopeNotGrantable, label)
		}
	}
	if !grantableScope(user.Role).CoversAll(scope) {
		return nil, fmt.Errorf("%w: role %s cannot grant %v", ErrScopeNotGrantable, user.Role, scope)
	}

	rec, err := p.tokens.Create(ctx, profileID, token.CreateOptions{
		Scope: scope,
		TTL:   ttl,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting token: %w", err)
	}

	p.logger.Info("issued token", "profile_id", profileID, "scope", rec.Scope, "ttl", ttl)
	return rec, nil
}

// findByProfile locates the account owning profileID.
func (p *Provider) findByProfile(ctx context.Context, profileID string) (*identity.UserRecord, error) {
	entries, _, err := p.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning users: %w", err)
	}
	for _, e := range entries {
		if e.Value.ProfileID == profileID {
			u := e.Value
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: no account for profile %q", docstore.ErrNotFound, profileID)
}

// Authorize checks a presented token string against the required scope and
// returns the token record on grant. The check is pure: it mutates nothing,
// so it is safe to call concurrently and repeatedly. Denials:
// ErrTokenNotFound (absent or revoked), ErrTokenExpired (past TTL,
// computed now), ErrInsufficientScope (conjunctive covering failed).
func (p *Provider) Authorize(ctx context.Context, tokenKey string, required token.Scope) (*token.Record, error) {
	rec, err := p.tokens.Find(ctx, tokenKey)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}

	if rec.Expired(time.Now()) {
		return nil, ErrTokenExpired
	}
	if !rec.Scope.CoversAll(required) {
		return nil, fmt.Errorf("%w: token grants %v, required %v", ErrInsufficientScope, rec.Scope, required)
	}
	return rec, nil
}
