// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Identity is the resolved caller attached to an authenticated request.
//
// It is produced by the authentication middleware after the bearer token has
// been verified and its subject looked up in the account store, so Role always
// reflects the stored account rather than the token payload.
type Identity struct {
	UserID   int64    `json:"id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// IsAdmin reports whether the identity holds the admin role.
func (identity *Identity) IsAdmin() bool {
	return identity != nil && identity.Role == RoleAdmin
}

// CanModify reports whether the identity may mutate a resource owned by ownerID.
// Admins may modify anything; everyone else only what they own.
func (identity *Identity) CanModify(ownerID int64) bool {
	if identity == nil {
		return false
	}
	return identity.IsAdmin() || identity.UserID == ownerID
}
