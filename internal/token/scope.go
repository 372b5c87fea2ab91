// ABOUTME: Scope type and capability labels for token authorization
// ABOUTME: Labels form a dot-separated hierarchy; a broader label covers its children

package token

import "strings"

// Capability labels. The enumeration is closed but extensible: new labels
// slot into the hierarchy without touching the matching rules.
const (
	ScopeActAsUser    = "act_as_user"
	ScopeMail         = "mail"
	ScopeMailRead     = "mail.read"
	ScopeMailWrite    = "mail.write"
	ScopeMailSend     = "mail.send"
	ScopeProfile      = "user.profile"
	ScopeProfileRead  = "user.profile.read"
	ScopeProfileWrite = "user.profile.write"
	ScopeAdmin        = "admin"
)

// KnownScopes lists every defined capability label.
var KnownScopes = []string{
	ScopeActAsUser,
	ScopeMail,
	ScopeMailRead,
	ScopeMailWrite,
	ScopeMailSend,
	ScopeProfile,
	ScopeProfileRead,
	ScopeProfileWrite,
	ScopeAdmin,
}

// Scope is a set of granted capability labels.
type Scope []string

// matchLabel reports whether a granted label covers a requested one.
// Areas are split by ".": "mail" covers "mail.read", "mail.read" covers
// only itself, and "mail.read" never covers "mail".
func matchLabel(granted, requested string) bool {
	g := strings.Split(granted, ".")
	r := strings.Split(requested, ".")
	if len(g) > len(r) {
		return false
	}
	for i := range g {
		if g[i] != r[i] {
			return false
		}
	}
	return true
}

// Covers reports whether any granted label covers the requested label.
func (s Scope) Covers(requested string) bool {
	for _, g := range s {
		if matchLabel(g, requested) {
			return true
		}
	}
	return false
}

// CoversAll reports whether every required label is covered. Checks are
// conjunctive: one uncovered label denies the whole request.
func (s Scope) CoversAll(required Scope) bool {
	for _, r := range required {
		if !s.Covers(r) {
			return false
		}
	}
	return true
}

// ValidLabel reports whether label is a defined capability or an ancestor
// of one (e.g. "user.profile" is valid because its children are defined).
func ValidLabel(label string) bool {
	if label == "" {
		return false
	}
	for _, known := range KnownScopes {
		if label == known || matchLabel(label, known) {
			return true
		}
	}
	return false
}

// clone returns an independent copy so stored scope sets stay immutable.
func (s Scope) clone() Scope {
	if s == nil {
		return nil
	}
	out := make(Scope, len(s))
	copy(out, s)
	return out
}
