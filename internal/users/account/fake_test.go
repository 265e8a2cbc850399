// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/sec"
	"github.com/taibuivan/inkwell/internal/users/account"
)

type memoryUsers struct {
	mu      sync.Mutex
	byID    map[int64]*account.User
	lookups int
}

func newMemoryUsers(users ...*account.User) *memoryUsers {
	store := &memoryUsers{byID: make(map[int64]*account.User)}
	for _, user := range users {
		store.byID[user.ID] = user
	}
	return store
}

func (store *memoryUsers) FindByID(_ context.Context, id int64) (*account.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.lookups++
	if user, ok := store.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (store *memoryUsers) FindByUsername(_ context.Context, username string) (*account.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, user := range store.byID {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[int64]*sec.Identity
	failing bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[int64]*sec.Identity)}
}

func (cache *memoryCache) Get(_ context.Context, userID int64) (*sec.Identity, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.failing {
		return nil, errors.New("cache unavailable")
	}
	return cache.entries[userID], nil
}

func (cache *memoryCache) Set(_ context.Context, identity *sec.Identity, _ time.Duration) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.failing {
		return errors.New("cache unavailable")
	}
	cache.entries[identity.UserID] = identity
	return nil
}
