// Copyright (c) 2026 Confero. All rights reserved.

package sec

import "fmt"

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Submits articles into an assigned publication
	RoleAuthor Role = "author"

	// Reviews up to three assigned articles during the review window
	RoleReviewer Role = "reviewer"

	// Unrestricted system access: creates publications, assigns roles
	RoleAdmin Role = "admin"
)

// # Wire Mapping

// Roles are persisted as small integers (0=author, 1=reviewer, 2=admin).
// This is the single canonical mapping for the whole system; every layer
// goes through it so an unrecognized value fails loudly instead of
// silently degrading to author.

// Num returns the persisted integer form of the role.
func (r Role) Num() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleReviewer:
		return 1
	default:
		return 0
	}
}

// RoleFromNum maps a persisted integer back to a [Role].
//
// # Errors
//
// Returns an error for integers outside 0..2. Callers at the storage
// boundary must propagate it rather than defaulting.
func RoleFromNum(num int) (Role, error) {
	switch num {
	case 0:
		return RoleAuthor, nil
	case 1:
		return RoleReviewer, nil
	case 2:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("sec: unknown role number %d", num)
	}
}

// ParseRole maps a role name (as carried in JWT claims and API payloads)
// back to a [Role].
func ParseRole(name string) (Role, error) {
	switch Role(name) {
	case RoleAuthor, RoleReviewer, RoleAdmin:
		return Role(name), nil
	default:
		return "", fmt.Errorf("sec: unknown role %q", name)
	}
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleReviewer:
		return 20
	case RoleAuthor:
		return 10
	default:
		return 0
	}
}
