// ABOUTME: Referential integrity audit over stored identity records
// ABOUTME: Flags users whose ProfileID resolves to no ProfileRecord

package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/skiff-mail/skiff/internal/docstore"
)

// Finding is one integrity problem surfaced by an audit pass.
type Finding struct {
	Key       string // user key, where known
	ProfileID string // the dangling reference, where applicable
	Reason    string
}

func (f Finding) String() string {
	if f.ProfileID != "" {
		return fmt.Sprintf("user %q: %s (profile %q)", f.Key, f.Reason, f.ProfileID)
	}
	return fmt.Sprintf("user %q: %s", f.Key, f.Reason)
}

// CheckDanglingProfiles scans every user record and flags those referencing
// a nonexistent ProfileID. User creation is two independent writes with no
// multi-key atomicity, so integrity is verified by this audit pass rather
// than enforced at write time. Records that fail to decode are reported as
// findings too, never silently skipped.
func CheckDanglingProfiles(ctx context.Context, users *UserStorage, profiles *ProfileStorage) ([]Finding, error) {
	entries, failed, err := users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning users: %w", err)
	}

	var findings []Finding
	for _, decodeErr := range failed {
		findings = append(findings, Finding{Reason: decodeErr.Error()})
	}

	for _, e := range entries {
		if e.Value.ProfileID == "" {
			findings = append(findings, Finding{Key: e.Key, Reason: "empty profile reference"})
			continue
		}
		_, err := profiles.Find(ctx, e.Value.ProfileID)
		if errors.Is(err, docstore.ErrNotFound) {
			findings = append(findings, Finding{
				Key:       e.Key,
				ProfileID: e.Value.ProfileID,
				Reason:    "dangling profile reference",
			})
			continue
		}
		if err != nil {
			return findings, fmt.Errorf("resolving profile %q for user %q: %w", e.Value.ProfileID, e.Key, err)
		}
	}
	return findings, nil
}
