// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/internal/platform/sec"
	"github.com/taibuivan/inkwell/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID int64, username, role string, timeToLive time.Duration) (string, error)
}

// Options tunes token and cache lifetimes.
type Options struct {
	AccessTokenTTL   time.Duration
	IdentityCacheTTL time.Duration
}

// dummyHash is compared against when the username is unknown, so a failed
// lookup costs the same bcrypt work as a wrong password.
var dummyHash, _ = sec.HashPassword("inkwell-timing-equalizer")

// Service implements account use cases.
type Service struct {
	users   UserRepository
	cache   IdentityCache
	tokens  TokenProvider
	options Options
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users UserRepository, cache IdentityCache, tokens TokenProvider, options Options) *Service {
	return &Service{
		users:   users,
		cache:   cache,
		tokens:  tokens,
		options: options,
	}
}

// # Login Flow

// LoginInput holds the credentials submitted by a user.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate implements [validation.Validatable].
func (input LoginInput) Validate() error {
	return validation.ValidateStruct(&input,
		validation.Field(&input.Username, validation.Required, validate.NotBlank),
		validation.Field(&input.Password, validation.Required),
	)
}

/*
Login verifies credentials and issues an access token.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Token and the authenticated user
  - error: ValidationError, or Unauthorized with a generic message
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	input.Username = strings.TrimSpace(input.Username)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	// 1. Look up the account. Unknown users still pay the bcrypt cost.
	user, err := service.users.FindByUsername(context, input.Username)
	if err != nil {
		if !apperr.HasCode(err, "NOT_FOUND") {
			return nil, err
		}
		sec.CheckPasswordHash(input.Password, dummyHash)
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// 2. Constant-time password comparison inside bcrypt
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// 3. Issue the access token
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role), service.options.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("account_service_token_generation_failed: %w", err))
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_logged_in", slog.Int64("user_id", user.ID))

	return &LoginResult{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(service.options.AccessTokenTTL.Seconds()),
		User:        user,
	}, nil
}

// # Identity Resolution

/*
Resolve maps a verified token subject to the stored identity.

Description: The Redis cache is consulted first. Cache failures are logged
and bypassed, never fatal. A missing account yields NotFound, so tokens of
deleted users stop working once the cache entry expires.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *sec.Identity: Stored username and role
  - error: NotFound or database failures
*/
func (service *Service) Resolve(context context.Context, userID int64) (*sec.Identity, error) {
	logger := ctxutil.GetLogger(context)

	// 1. Cache lookup
	cached, err := service.cache.Get(context, userID)
	if err != nil {
		logger.WarnContext(context, "identity_cache_read_failed", slog.String("error", err.Error()))
	}
	if cached != nil {
		return cached, nil
	}

	// 2. Authoritative lookup
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	identity := user.Identity()

	// 3. Populate the cache for subsequent requests
	if err := service.cache.Set(context, identity, service.options.IdentityCacheTTL); err != nil {
		logger.WarnContext(context, "identity_cache_write_failed", slog.String("error", err.Error()))
	}

	return identity, nil
}

/*
Me returns the full account of the authenticated caller.

Returns:
  - *User: The stored account
  - error: Unauthorized for anonymous callers, NotFound if deleted meanwhile
*/
func (service *Service) Me(context context.Context, identity *sec.Identity) (*User, error) {
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return service.users.FindByID(context, identity.UserID)
}
