package auth

import (
	"fmt"

	"github.com/linkdesk/videolink/internal/domain"
)

// Policy decides which admins may mutate the video link.
type Policy string

const (
	// PolicyAnyAdmin lets any stored admin set or clear the video link.
	PolicyAnyAdmin Policy = "any_admin"
	// PolicyMainAdmin restricts video link mutation to the main admin.
	PolicyMainAdmin Policy = "main_admin"
)

// AllPolicies returns all valid video link policies.
func AllPolicies() []Policy {
	return []Policy{PolicyAnyAdmin, PolicyMainAdmin}
}

// ParsePolicy converts a configuration value into a Policy.
func ParsePolicy(s string) (Policy, error) {
	for _, p := range AllPolicies() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown video link policy %q (want %q or %q)", s, PolicyAnyAdmin, PolicyMainAdmin)
}

// AllowsVideoLinkMutation reports whether a verified account may set or clear the link.
func (p Policy) AllowsVideoLinkMutation(account *domain.AdminAccount) bool {
	if account == nil {
		return false
	}
	if p == PolicyMainAdmin {
		return account.IsMainAdmin()
	}
	return true
}

// AllowsAdminCreation reports whether a verified account may create further admins.
// Only the main admin may, whatever the video link policy.
func AllowsAdminCreation(account *domain.AdminAccount) bool {
	return account.IsMainAdmin()
}
