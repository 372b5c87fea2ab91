// Package auth provides authentication and authorization for skiff.
//
// # Password Login
//
// Accounts authenticate with a username and password. Passwords are stored
// as bcrypt hashes and verified through the Hasher interface:
//
//	profileID, err := provider.Authenticate(ctx, username, password)
//
// Every failure mode (unknown account, wrong password, locked account)
// returns ErrInvalidCredentials so callers cannot probe which accounts exist.
// Hashing and verification run on a bounded worker pool to keep expensive
// key derivation off request goroutines.
//
// # Tokens and Scopes
//
// Successful login yields access through opaque tokens bound to a profile:
//
//	rec, err := provider.IssueToken(ctx, profileID, scope, ttl)
//	rec, err := provider.Authorize(ctx, tokenKey, required)
//
// Scopes are dot-hierarchical capability labels ("mail" covers "mail.read").
// Authorization is conjunctive: every requested label must be covered by the
// token's granted set. Grantability is enforced at issuance, so a stored
// token never carries a scope its owner's role could not hold.
//
// Revocation deletes the token record. A revoked token is indistinguishable
// from one that never existed.
package auth
