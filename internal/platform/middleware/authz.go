// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/constants"
	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/internal/platform/respond"
	"github.com/taibuivan/inkwell/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// IdentityResolver maps a verified token subject to the stored account.
//
// The returned identity carries the role from storage, not from the token.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID int64) (*sec.Identity, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, verify the JWT via [TokenVerifier].
//  4. Resolve the subject via [IdentityResolver] (the account must still exist).
//  5. Inject [*sec.Identity] into the request context for downstream use.
//
// Any failure in steps 3-4, including a panic, answers 401.
func Authenticate(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Verification & Resolution ──────────────────────────────────
			identity, err := authenticate(request.Context(), verifier, resolver, strings.TrimSpace(token))
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "authentication_failed",
					slog.String(constants.FieldError, err.Error()),
				)
				respond.Error(writer, request, apperr.Unauthorized("Not authorized, token failed"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.Int64("user_id", identity.UserID)))

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// authenticate runs verification and resolution, converting panics into errors.
func authenticate(ctx context.Context, verifier TokenVerifier, resolver IdentityResolver, token string) (identity *sec.Identity, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			identity, err = nil, fmt.Errorf("authenticate: recovered panic: %v", recovered)
		}
	}()

	claims, err := verifier.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	identity, err = resolver.Resolve(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, fmt.Errorf("authenticate: user %d no longer exists", claims.UserID)
	}

	return identity, nil
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetIdentity(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// Must be registered in the router AFTER [Authenticate]. It implies [RequireAuth].
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
