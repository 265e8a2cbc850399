// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the bcrypt input limit. Longer secrets are rejected
// instead of being silently truncated.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by [HashPassword] for inputs over [MaxPasswordBytes].
var ErrPasswordTooLong = errors.New("sec: password exceeds 72 bytes")

// HashPassword returns the bcrypt hash stored in users.account.password.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPasswordHash reports whether password matches the stored hash.
// The comparison runs in constant time inside bcrypt.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
