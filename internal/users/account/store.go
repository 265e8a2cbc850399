// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"time"

	"github.com/taibuivan/inkwell/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound when absent, or database failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound when absent, or database failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)
}

// # Volatile Data Access

// IdentityCache stores resolved identities for a short time.
type IdentityCache interface {

	/*
		Get returns the cached identity for userID.

		Returns:
		  - *sec.Identity: nil on a cache miss
		  - error: Connectivity or decoding failures
	*/
	Get(context context.Context, userID int64) (*sec.Identity, error)

	// Set stores identity for ttl.
	Set(context context.Context, identity *sec.Identity, ttl time.Duration) error
}
