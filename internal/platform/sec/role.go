// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level carried in the token.
type UserRole string

const (
	// Catalogue maintenance, including bulk imports
	RoleAdmin UserRole = "admin"

	// Can curate zones created by others
	RoleModerator UserRole = "moderator"

	// Default role for registered users
	RoleMember UserRole = "member"
)

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleMember:
		return 10
	default:
		return 0
	}
}
