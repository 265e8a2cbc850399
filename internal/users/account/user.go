// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account implements the blog's user accounts and sign-in.

It owns the users.account table, issues access tokens on login and resolves
token subjects back to a stored identity for the authentication middleware.

# Architecture

  - Service: Login, identity resolution (cache first) and the current user.
  - Repository: Postgres for accounts, Redis for the identity cache.
  - Security: bcrypt password hashes and HS256 access tokens from [sec].

Registration is out of scope; accounts are provisioned by operators.
*/
package account

import (
	"time"

	"github.com/taibuivan/inkwell/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the blog.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	Avatar       *string      `json:"avatar"`
	Bio          *string      `json:"bio"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Identity projects the account onto the request identity.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

// LoginResult is returned after successful authentication.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
	User        *User  `json:"user"`
}

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldPassword = "password"
)
