// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/sec"
	"github.com/taibuivan/inkwell/internal/users/account"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) (*account.Service, *memoryUsers, *memoryCache, *sec.TokenService) {
	t.Helper()

	hash, err := sec.HashPassword("s3cret-pass")
	require.NoError(t, err)

	users := newMemoryUsers(&account.User{ID: 7, Username: "ada", PasswordHash: hash, Role: sec.RoleAuthor})
	cache := newMemoryCache()

	tokens, err := sec.NewTokenService(testSecret, "inkwell.test")
	require.NoError(t, err)

	service := account.NewService(users, cache, tokens, account.Options{
		AccessTokenTTL:   time.Hour,
		IdentityCacheTTL: time.Minute,
	})
	return service, users, cache, tokens
}

/*
TestService_Login covers successful and rejected sign-in attempts.
*/
func TestService_Login(t *testing.T) {
	service, _, _, tokens := newTestService(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		result, err := service.Login(ctx, account.LoginInput{Username: " ada ", Password: "s3cret-pass"})
		require.NoError(t, err)

		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, int64(3600), result.ExpiresIn)
		assert.Equal(t, int64(7), result.User.ID)

		claims, err := tokens.VerifyToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.UserID)
		assert.Equal(t, "author", claims.Role)
	})

	tests := []struct {
		name  string
		input account.LoginInput
		code  string
	}{
		{"wrong_password", account.LoginInput{Username: "ada", Password: "nope"}, "UNAUTHORIZED"},
		{"unknown_user", account.LoginInput{Username: "bob", Password: "s3cret-pass"}, "UNAUTHORIZED"},
		{"missing_fields", account.LoginInput{}, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.Login(ctx, tt.input)
			assert.Nil(t, result)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}
}

/*
TestService_Resolve verifies the cache-first resolution path.
*/
func TestService_Resolve(t *testing.T) {
	service, users, cache, _ := newTestService(t)
	ctx := context.Background()

	// 1. Miss populates the cache from storage
	identity, err := service.Resolve(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAuthor, identity.Role)
	assert.Equal(t, 1, users.lookups)
	assert.NotNil(t, cache.entries[7])

	// 2. Hit skips storage
	_, err = service.Resolve(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, users.lookups)

	// 3. Unknown users are rejected
	_, err = service.Resolve(ctx, 99)
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}

/*
TestService_Resolve_CacheDown ensures a failing cache degrades to storage reads.
*/
func TestService_Resolve_CacheDown(t *testing.T) {
	service, users, cache, _ := newTestService(t)
	cache.failing = true

	identity, err := service.Resolve(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "ada", identity.Username)
	assert.Equal(t, 1, users.lookups)
}

/*
TestService_Me verifies the current-user lookup.
*/
func TestService_Me(t *testing.T) {
	service, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Me(ctx, nil)
	assert.True(t, apperr.HasCode(err, "UNAUTHORIZED"))

	user, err := service.Me(ctx, &sec.Identity{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
}
