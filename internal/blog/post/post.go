// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post implements the blog's posts and their comment threads.

It is the core of the API: listing with tag and search filters, the detail
view with its atomic view counter, authoring (create, update, delete) and
commenting.

# Architecture

  - Service: Validation, slug and read-time derivation, ownership checks.
  - Repository: PostgreSQL via pgx. Every mutation runs in one transaction.
  - Tags: Normalized and upserted through [tag.Attach] inside that transaction.
*/
package post

import (
	"strings"
	"time"

	"github.com/taibuivan/inkwell/internal/blog/tag"
	"github.com/taibuivan/inkwell/pkg/pagination"
)

// # Domain Entities

// Author holds the public fields of a post or comment author.
type Author struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// AuthorProfile extends [Author] with the biography shown on the detail view.
type AuthorProfile struct {
	Author
	Bio *string `json:"bio"`
}

// Post is a blog article.
type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Excerpt    *string   `json:"excerpt"`
	CoverImage *string   `json:"coverImage"`
	Published  bool      `json:"published"`
	ViewCount  int64     `json:"viewCount"`
	ReadTime   int       `json:"readTime"`
	AuthorID   int64     `json:"authorId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Tags       []tag.Tag `json:"tags"`
}

// PostSummary is a post as it appears in listings and mutation responses.
type PostSummary struct {
	Post
	Author       Author `json:"author"`
	CommentCount int    `json:"commentCount"`
}

// PostDetail is a post with its full author profile and comment thread.
type PostDetail struct {
	Post
	Author   AuthorProfile `json:"author"`
	Comments []*Comment    `json:"comments"`
}

// Comment is a reader's reply to a post. Comments are immutable.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	PostID    int64     `json:"postId"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	Author    Author    `json:"author"`
}

// ListResult is the paginated listing payload.
type ListResult struct {
	Posts []*PostSummary `json:"posts"`
	pagination.Meta
}

// # Filtering

// TagPredicate matches posts carrying a tag with exactly this slug.
type TagPredicate struct {
	Slug string
}

// SearchPredicate matches posts whose title or content contains Term,
// case-insensitively. Wildcard characters in Term are literal.
type SearchPredicate struct {
	Term string
}

// Filter is the conjunction of its non-nil predicates.
type Filter struct {
	ByTag    *TagPredicate
	BySearch *SearchPredicate
}

// NewFilter builds a [Filter] from raw query values. Blank values are ignored.
func NewFilter(tagSlug, search string) Filter {
	var filter Filter

	if tagSlug = strings.ToLower(strings.TrimSpace(tagSlug)); tagSlug != "" {
		filter.ByTag = &TagPredicate{Slug: tagSlug}
	}
	if search = strings.TrimSpace(search); search != "" {
		filter.BySearch = &SearchPredicate{Term: search}
	}

	return filter
}

// Matches reports whether p satisfies every predicate of the filter.
// Repositories that cannot push the filter down to storage use it directly.
func (filter Filter) Matches(p *Post) bool {
	if filter.ByTag != nil {
		found := false
		for _, t := range p.Tags {
			if t.Slug == filter.ByTag.Slug {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if filter.BySearch != nil {
		term := strings.ToLower(filter.BySearch.Term)
		if !strings.Contains(strings.ToLower(p.Title), term) && !strings.Contains(strings.ToLower(p.Content), term) {
			return false
		}
	}

	return true
}

// # Field Identifiers

const (
	FieldTitle      = "title"
	FieldContent    = "content"
	FieldExcerpt    = "excerpt"
	FieldCoverImage = "coverImage"
	FieldTags       = "tags"
)
