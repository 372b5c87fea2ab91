// Package token defines capability scopes and issued-credential records.
//
// A token is an opaque key into the tokens collection. Its lifecycle is
// Issued -> Active -> (Expired | Revoked): expiry is derived at check time
// from the stored issuance time and TTL, and revocation deletes the record,
// so neither state is ever a stored flag.
package token
