// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkwell/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

/*
TestTokenService_RoundTrip verifies that a signed token verifies and carries its claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, "inkwell.test")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(42, "ada", string(sec.RoleAuthor), time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, "author", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

/*
TestTokenService_Rejects covers the ways a token can fail verification.
*/
func TestTokenService_Rejects(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, "inkwell.test")
	require.NoError(t, err)

	other, err := sec.NewTokenService(strings.Repeat("x", 40), "inkwell.test")
	require.NoError(t, err)

	otherIssuer, err := sec.NewTokenService(testSecret, "someone.else")
	require.NoError(t, err)

	expired, err := service.GenerateAccessToken(1, "ada", "reader", -time.Minute)
	require.NoError(t, err)

	foreign, err := other.GenerateAccessToken(1, "ada", "reader", time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := otherIssuer.GenerateAccessToken(1, "ada", "reader", time.Hour)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong_secret", foreign},
		{"wrong_issuer", wrongIssuer},
		{"alg_none", noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.VerifyToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

/*
TestNewTokenService_WeakSecret ensures short secrets are refused at construction.
*/
func TestNewTokenService_WeakSecret(t *testing.T) {
	_, err := sec.NewTokenService("short", "inkwell.test")
	assert.ErrorIs(t, err, sec.ErrWeakSecret)
}

/*
TestPasswordHash verifies bcrypt hashing and comparison.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("battery staple", hash))

	_, err = sec.HashPassword(strings.Repeat("x", sec.MaxPasswordBytes+1))
	assert.ErrorIs(t, err, sec.ErrPasswordTooLong)
}

/*
TestUserRole_AtLeast checks the role hierarchy.
*/
func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		role   sec.UserRole
		target sec.UserRole
		want   bool
	}{
		{sec.RoleAdmin, sec.RoleAuthor, true},
		{sec.RoleAuthor, sec.RoleAuthor, true},
		{sec.RoleReader, sec.RoleAuthor, false},
		{sec.UserRole("ghost"), sec.RoleReader, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"_"+string(tt.target), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.target))
		})
	}

	assert.True(t, sec.RoleReader.IsValid())
	assert.False(t, sec.UserRole("ghost").IsValid())
}

/*
TestIdentity_CanModify verifies ownership rules for mutating resources.
*/
func TestIdentity_CanModify(t *testing.T) {
	author := &sec.Identity{UserID: 1, Role: sec.RoleAuthor}
	admin := &sec.Identity{UserID: 2, Role: sec.RoleAdmin}
	var anonymous *sec.Identity

	assert.True(t, author.CanModify(1))
	assert.False(t, author.CanModify(3))
	assert.True(t, admin.CanModify(3))
	assert.False(t, anonymous.CanModify(1))
}
