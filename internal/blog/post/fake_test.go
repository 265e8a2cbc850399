// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/inkwell/internal/blog/post"
	"github.com/taibuivan/inkwell/internal/blog/tag"
	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/pkg/pagination"
	"github.com/taibuivan/inkwell/pkg/pointer"
)

// memoryRepository mirrors the Postgres semantics in memory: tags are
// upserted by slug, deletes cascade to comments and listings only see
// published posts.
type memoryRepository struct {
	mu       sync.Mutex
	authors  map[int64]post.AuthorProfile
	posts    map[int64]*post.Post
	tags     map[string]tag.Tag
	links    map[int64][]string
	comments map[int64][]*post.Comment
	nextID   int64
	clock    time.Time
}

func newMemoryRepository(authors ...post.AuthorProfile) *memoryRepository {
	repository := &memoryRepository{
		authors:  make(map[int64]post.AuthorProfile),
		posts:    make(map[int64]*post.Post),
		tags:     make(map[string]tag.Tag),
		links:    make(map[int64][]string),
		comments: make(map[int64][]*post.Comment),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, author := range authors {
		repository.authors[author.ID] = author
	}
	return repository
}

func (repository *memoryRepository) id() int64 {
	repository.nextID++
	return repository.nextID
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (repository *memoryRepository) tick() time.Time {
	repository.clock = repository.clock.Add(time.Second)
	return repository.clock
}

func (repository *memoryRepository) attach(postID int64, tags []tag.Tag) {
	for _, candidate := range tags {
		stored, found := repository.tags[candidate.Slug]
		if !found {
			stored = tag.Tag{ID: repository.id(), Name: candidate.Name, Slug: candidate.Slug}
			repository.tags[candidate.Slug] = stored
		}

		linked := false
		for _, existing := range repository.links[postID] {
			if existing == stored.Slug {
				linked = true
			}
		}
		if !linked {
			repository.links[postID] = append(repository.links[postID], stored.Slug)
		}
	}
}

func (repository *memoryRepository) hydrate(p *post.Post) post.Post {
	copied := *p
	copied.Tags = make([]tag.Tag, 0, len(repository.links[p.ID]))
	for _, slug := range repository.links[p.ID] {
		copied.Tags = append(copied.Tags, repository.tags[slug])
	}
	sort.Slice(copied.Tags, func(i, j int) bool { return copied.Tags[i].Name < copied.Tags[j].Name })
	return copied
}

func (repository *memoryRepository) summary(p *post.Post) *post.PostSummary {
	return &post.PostSummary{
		Post:         repository.hydrate(p),
		Author:       repository.authors[p.AuthorID].Author,
		CommentCount: len(repository.comments[p.ID]),
	}
}

func (repository *memoryRepository) List(_ context.Context, filter post.Filter, params pagination.Params) ([]*post.PostSummary, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matches := make([]*post.PostSummary, 0)
	for _, p := range repository.posts {
		hydrated := repository.hydrate(p)
		if p.Published && filter.Matches(&hydrated) {
			matches = append(matches, repository.summary(p))
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})

	total := len(matches)
	start := min(params.Offset(), total)
	end := min(start+params.Limit, total)

	return matches[start:end], total, nil
}

func (repository *memoryRepository) ViewBySlug(_ context.Context, slug string) (*post.PostDetail, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, p := range repository.posts {
		if p.Slug != slug || !p.Published {
			continue
		}

		p.ViewCount++
		comments := append([]*post.Comment{}, repository.comments[p.ID]...)
		return &post.PostDetail{
			Post:     repository.hydrate(p),
			Author:   repository.authors[p.AuthorID],
			Comments: comments,
		}, nil
	}

	return nil, post.ErrNotFound
}

func (repository *memoryRepository) FindByID(_ context.Context, id int64) (*post.PostSummary, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	p, found := repository.posts[id]
	if !found {
		return nil, post.ErrNotFound
	}
	return repository.summary(p), nil
}

func (repository *memoryRepository) Create(_ context.Context, p *post.Post, tags []tag.Tag) (*post.PostSummary, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, found := repository.authors[p.AuthorID]; !found {
		return nil, apperr.NotFound("Author")
	}
	for _, existing := range repository.posts {
		if existing.Slug == p.Slug {
			return nil, apperr.Conflict("Resource already exists")
		}
	}

	stored := *p
	stored.ID = repository.id()
	stored.CreatedAt = repository.tick()
	stored.UpdatedAt = stored.CreatedAt
	stored.Tags = nil
	if stored.Excerpt != nil {
		stored.Excerpt = pointer.NilIfZero(*stored.Excerpt)
	}
	if stored.CoverImage != nil {
		stored.CoverImage = pointer.NilIfZero(*stored.CoverImage)
	}
	repository.posts[stored.ID] = &stored
	repository.attach(stored.ID, tags)

	return repository.summary(&stored), nil
}

func (repository *memoryRepository) Update(_ context.Context, id int64, changes post.Changes) (*post.PostSummary, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	p, found := repository.posts[id]
	if !found {
		return nil, post.ErrNotFound
	}

	if changes.Title != nil {
		p.Title = *changes.Title
	}
	if changes.Content != nil {
		p.Content = *changes.Content
	}
	if changes.ReadTime != nil {
		p.ReadTime = *changes.ReadTime
	}
	if changes.Excerpt != nil {
		p.Excerpt = pointer.NilIfZero(*changes.Excerpt)
	}
	if changes.CoverImage != nil {
		p.CoverImage = pointer.NilIfZero(*changes.CoverImage)
	}
	if changes.Published != nil {
		p.Published = *changes.Published
	}
	if changes.Tags != nil {
		repository.links[id] = nil
		repository.attach(id, *changes.Tags)
	}
	p.UpdatedAt = repository.tick()

	return repository.summary(p), nil
}

func (repository *memoryRepository) Delete(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, found := repository.posts[id]; !found {
		return post.ErrNotFound
	}

	delete(repository.posts, id)
	delete(repository.links, id)
	delete(repository.comments, id)
	return nil
}

func (repository *memoryRepository) CreateComment(_ context.Context, comment *post.Comment) (*post.Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, found := repository.posts[comment.PostID]; !found {
		return nil, post.ErrNotFound
	}

	stored := *comment
	stored.ID = repository.id()
	stored.CreatedAt = repository.tick()
	stored.Author = repository.authors[comment.AuthorID].Author
	repository.comments[comment.PostID] = append(repository.comments[comment.PostID], &stored)

	return &stored, nil
}

// commentCount reports the stored comments of a post.
func (repository *memoryRepository) commentCount(postID int64) int {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	return len(repository.comments[postID])
}

func (repository *memoryRepository) tagExists(slug string) bool {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	_, found := repository.tags[slug]
	return found
}
