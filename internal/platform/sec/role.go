// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted access, including other authors' posts
	RoleAdmin UserRole = "admin"

	// Can publish and manage their own posts
	RoleAuthor UserRole = "author"

	// Default role for registered readers, may comment
	RoleReader UserRole = "reader"
)

// IsValid reports whether r is a recognised [UserRole].
func (r UserRole) IsValid() bool {
	return r.level() > 0
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale leaves room for intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleAuthor:
		return 20
	case RoleReader:
		return 10
	default:
		return 0
	}
}
