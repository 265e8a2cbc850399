// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Username  string
	Password  string
	Role      string
	AvatarURL string
	Bio       string
	CreatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Username:  "username",
	Password:  "passwordhash",
	Role:      "role",
	AvatarURL: "avatarurl",
	Bio:       "bio",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Password, t.Role, t.AvatarURL, t.Bio, t.CreatedAt}
}
