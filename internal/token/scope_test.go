package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLabel(t *testing.T) {
	tests := []struct {
		granted   string
		requested string
		want      bool
	}{
		{"mail", "mail", true},
		{"mail", "mail.read", true},
		{"mail", "mail.read.deep", true},
		{"mail.read", "mail", false},
		{"mail.read", "mail.read", true},
		{"mail.read", "mail.write", false},
		{"mail", "user.profile.read", false},
		{"act_as_user", "act_as_user", true},
		{"admin", "mail.read", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchLabel(tt.granted, tt.requested),
			"granted=%s requested=%s", tt.granted, tt.requested)
	}
}

func TestScope_Covers(t *testing.T) {
	s := Scope{ScopeMail, ScopeProfileRead}

	assert.True(t, s.Covers(ScopeMailRead))
	assert.True(t, s.Covers(ScopeMailSend))
	assert.True(t, s.Covers(ScopeProfileRead))
	assert.False(t, s.Covers(ScopeProfileWrite))
	assert.False(t, s.Covers(ScopeAdmin))
}

func TestScope_CoversAll_Conjunctive(t *testing.T) {
	granted := Scope{ScopeMailRead, ScopeMailSend}

	assert.True(t, granted.CoversAll(Scope{ScopeMailRead}))
	assert.True(t, granted.CoversAll(Scope{ScopeMailRead, ScopeMailSend}))

	// One uncovered label denies the whole set
	assert.False(t, granted.CoversAll(Scope{ScopeMailRead, ScopeMailWrite}))
	assert.False(t, granted.CoversAll(Scope{ScopeAdmin}))

	// Empty requirement is trivially covered
	assert.True(t, granted.CoversAll(nil))
}

func TestValidLabel(t *testing.T) {
	for _, label := range KnownScopes {
		assert.True(t, ValidLabel(label), label)
	}
	// Ancestors of defined labels are valid grants
	assert.True(t, ValidLabel("user"))
	assert.True(t, ValidLabel("user.profile"))

	assert.False(t, ValidLabel(""))
	assert.False(t, ValidLabel("mail.purge"))
	assert.False(t, ValidLabel("root"))
}
