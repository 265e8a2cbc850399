// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkwell/internal/api"
	"github.com/taibuivan/inkwell/internal/blog/post"
	"github.com/taibuivan/inkwell/internal/blog/tag"
	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/config"
	"github.com/taibuivan/inkwell/internal/platform/sec"
	"github.com/taibuivan/inkwell/internal/users/account"
	"github.com/taibuivan/inkwell/pkg/pagination"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// # Stubs

type emptyPosts struct{ post.Repository }

func (emptyPosts) List(context.Context, post.Filter, pagination.Params) ([]*post.PostSummary, int, error) {
	return []*post.PostSummary{}, 0, nil
}

func (emptyPosts) ViewBySlug(context.Context, string) (*post.PostDetail, error) {
	return nil, post.ErrNotFound
}

type emptyTags struct{}

func (emptyTags) List(context.Context) ([]*tag.Summary, error) { return []*tag.Summary{}, nil }

func (emptyTags) FindBySlug(context.Context, string) (*tag.Summary, error) {
	return nil, tag.ErrNotFound
}

type staticUsers struct{ users map[int64]*account.User }

func (store staticUsers) FindByID(_ context.Context, id int64) (*account.User, error) {
	if user, ok := store.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (store staticUsers) FindByUsername(context.Context, string) (*account.User, error) {
	return nil, apperr.NotFound("User")
}

type noCache struct{}

func (noCache) Get(context.Context, int64) (*sec.Identity, error)       { return nil, nil }
func (noCache) Set(context.Context, *sec.Identity, time.Duration) error { return nil }

func newTestServer(t *testing.T, deps api.HealthDependencies) (http.Handler, *sec.TokenService) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	tokens, err := sec.NewTokenService(testSecret, "inkwell.test")
	require.NoError(t, err)

	users := staticUsers{users: map[int64]*account.User{
		7:  {ID: 7, Username: "ada", Role: sec.RoleAuthor},
		10: {ID: 10, Username: "rita", Role: sec.RoleReader},
	}}
	accounts := account.NewService(users, noCache{}, tokens, account.Options{AccessTokenTTL: time.Hour, IdentityCacheTTL: time.Minute})

	liveness, readiness := api.NewHealthHandlers(deps)
	cfg := &config.Config{ServerPort: "0", AllowedOrigins: []string{"*"}, RateLimitRPS: 1000, RateLimitBurst: 1000}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	server := api.NewServer(ctx, cfg, logger, api.Security{Verifier: tokens, Resolver: accounts}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Account:   account.NewHandler(accounts),
		Post:      post.NewHandler(post.NewService(emptyPosts{})),
		Tag:       tag.NewHandler(tag.NewService(emptyTags{})),
	})
	return server.Handler(), tokens
}

func serve(handler http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestServer_Routing verifies mounting, the auth chain and the error envelope.
*/
func TestServer_Routing(t *testing.T) {
	handler, tokens := newTestServer(t, api.HealthDependencies{})

	readerToken, err := tokens.GenerateAccessToken(10, "rita", "author", time.Hour)
	require.NoError(t, err)
	ghostToken, err := tokens.GenerateAccessToken(99, "ghost", "admin", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
	}{
		{"list_posts", http.MethodGet, "/api/v1/posts", "", "", http.StatusOK},
		{"missing_post", http.MethodGet, "/api/v1/posts/nope", "", "", http.StatusNotFound},
		{"list_tags", http.MethodGet, "/api/v1/tags", "", "", http.StatusOK},
		{"create_anonymous", http.MethodPost, "/api/v1/posts", "", `{}`, http.StatusUnauthorized},
		{"role_from_account_not_token", http.MethodPost, "/api/v1/posts", readerToken, `{}`, http.StatusForbidden},
		{"deleted_user_token", http.MethodGet, "/api/v1/posts", ghostToken, "", http.StatusUnauthorized},
		{"garbage_token", http.MethodGet, "/api/v1/posts", "not-a-jwt", "", http.StatusUnauthorized},
		{"me", http.MethodGet, "/api/v1/auth/me", readerToken, "", http.StatusOK},
		{"unknown_route", http.MethodGet, "/api/v1/nothing", "", "", http.StatusNotFound},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(handler, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
			assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
		})
	}

	t.Run("listing_shape", func(t *testing.T) {
		recorder := serve(handler, http.MethodGet, "/api/v1/posts?page=2&limit=500", "", "")

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, float64(2), body["page"])
		assert.Equal(t, float64(pagination.MaxLimit), body["limit"])
		assert.Equal(t, float64(0), body["total"])
		assert.Equal(t, []any{}, body["posts"])
	})
}

/*
TestHealth verifies liveness and readiness reporting.
*/
func TestHealth(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		healthy := func(context.Context) error { return nil }
		handler, _ := newTestServer(t, api.HealthDependencies{CheckDatabase: healthy, CheckCache: healthy})

		assert.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "/health", "", "").Code)

		recorder := serve(handler, http.MethodGet, "/ready", "", "")
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"ready"`)
	})

	t.Run("degraded", func(t *testing.T) {
		handler, _ := newTestServer(t, api.HealthDependencies{
			CheckDatabase: func(context.Context) error { return nil },
			CheckCache:    func(context.Context) error { return errors.New("dial tcp: connection refused") },
		})

		recorder := serve(handler, http.MethodGet, "/ready", "", "")
		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
		assert.Contains(t, recorder.Body.String(), `{"name":"redis","ok":false}`)
		assert.NotContains(t, recorder.Body.String(), "connection refused")
	})
}
