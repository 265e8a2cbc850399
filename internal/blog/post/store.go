// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"

	"github.com/taibuivan/inkwell/internal/blog/tag"
	"github.com/taibuivan/inkwell/pkg/pagination"
)

// Changes carries the columns of an update. Nil fields are left untouched.
//
// An empty Excerpt or CoverImage clears the column. A non-nil Tags replaces
// the whole tag set, and an empty slice removes every tag.
type Changes struct {
	Title      *string
	Content    *string
	ReadTime   *int
	Excerpt    *string
	CoverImage *string
	Published  *bool
	Tags       *[]tag.Tag
}

// Repository defines the persistence contract for posts and comments.
type Repository interface {
	// List returns one page of published posts matching filter, newest first,
	// together with the total number of matches.
	List(context context.Context, filter Filter, params pagination.Params) ([]*PostSummary, int, error)

	// ViewBySlug increments the view counter of the published post and returns
	// it with its comment thread. NotFound if no published post has the slug.
	ViewBySlug(context context.Context, slug string) (*PostDetail, error)

	// FindByID returns a post regardless of its published state.
	FindByID(context context.Context, id int64) (*PostSummary, error)

	// Create stores the post and attaches tags in one transaction.
	Create(context context.Context, post *Post, tags []tag.Tag) (*PostSummary, error)

	// Update applies changes in one transaction. NotFound for an unknown id.
	Update(context context.Context, id int64, changes Changes) (*PostSummary, error)

	// Delete removes the post, its comments and tag links. NotFound for an unknown id.
	Delete(context context.Context, id int64) error

	// CreateComment stores the comment. NotFound if the post does not exist.
	CreateComment(context context.Context, comment *Comment) (*Comment, error)
}
