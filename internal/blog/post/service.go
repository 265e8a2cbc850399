// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/microcosm-cc/bluemonday"

	"github.com/taibuivan/inkwell/internal/blog/tag"
	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/internal/platform/metrics"
	"github.com/taibuivan/inkwell/internal/platform/sec"
	"github.com/taibuivan/inkwell/internal/platform/validate"
	"github.com/taibuivan/inkwell/pkg/pagination"
	"github.com/taibuivan/inkwell/pkg/pointer"
	"github.com/taibuivan/inkwell/pkg/slug"
)

const (
	// WordsPerMinute is the reading speed behind the read-time estimate.
	WordsPerMinute = 200

	MaxTitleLength   = 200
	MaxExcerptLength = 500
	MaxCommentLength = 5000

	// fallbackSlug is the slug base for titles without slug-able characters.
	fallbackSlug = "post"
)

// # Service

// Service implements post and comment use cases.
type Service struct {
	repo      Repository
	now       func() time.Time
	sanitizer *bluemonday.Policy
}

// Option customizes a [Service].
type Option func(*Service)

// WithClock overrides the time source used for slug suffixes.
func WithClock(now func() time.Time) Option {
	return func(service *Service) {
		service.now = now
	}
}

// NewService constructs a new [Service].
func NewService(repo Repository, options ...Option) *Service {
	service := &Service{
		repo:      repo,
		now:       time.Now,
		sanitizer: bluemonday.StrictPolicy(),
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// maxDecodePasses bounds how many layers of entity encoding plainText unwraps.
const maxDecodePasses = 4

// plainText strips every HTML element and decodes entities. Decoding can
// reveal markup that was entity-encoded (&lt;script&gt;), so the strip and
// decode repeat until the text no longer changes. Text that is still
// changing after maxDecodePasses is returned in its escaped form.
func (service *Service) plainText(input string) string {
	text := input
	for range maxDecodePasses {
		next := html.UnescapeString(service.sanitizer.Sanitize(text))
		if next == text {
			return strings.TrimSpace(text)
		}
		text = next
	}
	return strings.TrimSpace(service.sanitizer.Sanitize(text))
}

// # Derivations

// ReadTime estimates reading minutes for content, rounding up. Minimum 1.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// newSlug derives a unique slug from the title and the creation instant.
func (service *Service) newSlug(title string) string {
	base := slug.From(title)
	if base == "" {
		base = fallbackSlug
	}
	return fmt.Sprintf("%s-%d", base, service.now().UnixNano())
}

// # Inputs

// CreateInput is the payload for a new post.
type CreateInput struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    *string  `json:"excerpt"`
	CoverImage *string  `json:"coverImage"`
	Published  bool     `json:"published"`
	Tags       []string `json:"tags"`
}

// Validate implements [validation.Validatable].
func (input CreateInput) Validate() error {
	return validation.ValidateStruct(&input,
		validation.Field(&input.Title, validation.Required, validate.NotBlank, validation.RuneLength(0, MaxTitleLength)),
		validation.Field(&input.Content, validation.Required, validate.NotBlank),
		validation.Field(&input.Excerpt, validation.RuneLength(0, MaxExcerptLength)),
		validation.Field(&input.CoverImage, validate.HTTPURL),
	)
}

// UpdateInput is a partial update. Absent fields stay unchanged.
type UpdateInput struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Excerpt    *string   `json:"excerpt"`
	CoverImage *string   `json:"coverImage"`
	Published  *bool     `json:"published"`
	Tags       *[]string `json:"tags"`
}

// Validate implements [validation.Validatable].
func (input UpdateInput) Validate() error {
	return validation.ValidateStruct(&input,
		validation.Field(&input.Title, validation.NilOrNotEmpty, validate.NotBlank, validation.RuneLength(0, MaxTitleLength)),
		validation.Field(&input.Content, validation.NilOrNotEmpty, validate.NotBlank),
		validation.Field(&input.Excerpt, validation.RuneLength(0, MaxExcerptLength)),
		validation.Field(&input.CoverImage, validate.HTTPURL),
	)
}

// CommentInput is the payload for a new comment.
type CommentInput struct {
	Content string `json:"content"`
}

// Validate implements [validation.Validatable].
func (input CommentInput) Validate() error {
	return validation.ValidateStruct(&input,
		validation.Field(&input.Content, validation.Required, validate.NotBlank, validation.RuneLength(0, MaxCommentLength)),
	)
}

// # Queries

/*
ListPosts returns one page of published posts matching the filter.

Parameters:
  - context: context.Context
  - filter: Filter (tag AND search)
  - params: pagination.Params, already normalized

Returns:
  - *ListResult: Posts plus pagination metadata
  - error: Database failures
*/
func (service *Service) ListPosts(context context.Context, filter Filter, params pagination.Params) (*ListResult, error) {
	params = pagination.New(params.Page, params.Limit)

	posts, total, err := service.repo.List(context, filter, params)
	if err != nil {
		return nil, err
	}

	return &ListResult{Posts: posts, Meta: pagination.NewMeta(params, total)}, nil
}

// GetPost returns the published post with the slug and counts the view.
func (service *Service) GetPost(context context.Context, postSlug string) (*PostDetail, error) {
	postSlug = strings.TrimSpace(postSlug)
	if postSlug == "" {
		return nil, ErrNotFound
	}

	detail, err := service.repo.ViewBySlug(context, postSlug)
	if err != nil {
		return nil, err
	}

	metrics.PostViews.Inc()
	return detail, nil
}

// # Commands

/*
CreatePost validates the input and stores a new post owned by actor.

Description: The slug is derived from the title with a nanosecond suffix,
the read time from the content word count. Tags are normalized and
deduplicated by slug before the repository upserts them.

Parameters:
  - context: context.Context
  - actor: *sec.Identity, the authenticated author
  - input: CreateInput

Returns:
  - *PostSummary: The created post with author and tags
  - error: Unauthorized, ValidationError or database failures
*/
func (service *Service) CreatePost(context context.Context, actor *sec.Identity, input CreateInput) (*PostSummary, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	// 1. Validation
	input.Title = strings.TrimSpace(input.Title)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	tags, err := tag.Normalize(input.Tags)
	if err != nil {
		return nil, err
	}

	// 2. Derived fields
	post := &Post{
		Title:      input.Title,
		Slug:       service.newSlug(input.Title),
		Content:    input.Content,
		Excerpt:    service.cleanOptional(input.Excerpt),
		CoverImage: trimOptional(input.CoverImage),
		Published:  input.Published,
		ReadTime:   ReadTime(input.Content),
		AuthorID:   actor.UserID,
	}

	// 3. Persist
	created, err := service.repo.Create(context, post, tags)
	if err != nil {
		return nil, err
	}

	metrics.PostsCreated.Inc()
	ctxutil.GetLogger(context).InfoContext(context, "post_created",
		slog.Int64("post_id", created.ID),
		slog.String("slug", created.Slug),
		slog.Int64("author_id", actor.UserID),
	)

	return created, nil
}

/*
UpdatePost applies a partial update to a post the actor may modify.

Description: Authors may only change their own posts, admins any post.
Supplied tags replace the previous set wholesale. The slug never changes.

Returns:
  - *PostSummary: The updated post
  - error: Unauthorized, ValidationError, NotFound or Forbidden
*/
func (service *Service) UpdatePost(context context.Context, actor *sec.Identity, id int64, input UpdateInput) (*PostSummary, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	// 1. Validation
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		input.Title = &trimmed
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	changes := Changes{
		Title:      input.Title,
		Content:    input.Content,
		Excerpt:    service.cleanOptional(input.Excerpt),
		CoverImage: trimOptional(input.CoverImage),
		Published:  input.Published,
	}
	if input.Content != nil {
		readTime := ReadTime(*input.Content)
		changes.ReadTime = &readTime
	}
	if input.Tags != nil {
		tags, err := tag.Normalize(*input.Tags)
		if err != nil {
			return nil, err
		}
		changes.Tags = &tags
	}

	// 2. Ownership
	if err := service.authorize(context, actor, id); err != nil {
		return nil, err
	}

	// 3. Persist
	updated, err := service.repo.Update(context, id, changes)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "post_updated",
		slog.Int64("post_id", id),
		slog.Int64("actor_id", actor.UserID),
	)

	return updated, nil
}

// DeletePost removes a post the actor may modify. A second delete reports NotFound.
func (service *Service) DeletePost(context context.Context, actor *sec.Identity, id int64) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}

	if err := service.authorize(context, actor, id); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "post_deleted",
		slog.Int64("post_id", id),
		slog.Int64("actor_id", actor.UserID),
	)

	return nil
}

/*
AddComment attaches a plain-text comment by actor to an existing post.

Returns:
  - *Comment: The stored comment with its author
  - error: Unauthorized, ValidationError or NotFound for an unknown post
*/
func (service *Service) AddComment(context context.Context, actor *sec.Identity, postID int64, input CommentInput) (*Comment, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	// Markup-only content is empty once sanitized
	content := service.plainText(input.Content)
	if content == "" {
		return nil, validate.Field(FieldContent, "must not be blank")
	}

	created, err := service.repo.CreateComment(context, &Comment{
		Content:  content,
		PostID:   postID,
		AuthorID: actor.UserID,
	})
	if err != nil {
		return nil, err
	}

	metrics.CommentsCreated.Inc()
	ctxutil.GetLogger(context).InfoContext(context, "comment_created",
		slog.Int64("comment_id", created.ID),
		slog.Int64("post_id", postID),
		slog.Int64("author_id", actor.UserID),
	)

	return created, nil
}

// # Helpers

// authorize loads the post and checks the actor owns it or is an admin.
func (service *Service) authorize(context context.Context, actor *sec.Identity, id int64) error {
	existing, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if !actor.CanModify(existing.AuthorID) {
		return apperr.Forbidden("You can only modify your own posts")
	}

	return nil
}

// cleanOptional sanitizes an optional text field. An empty result clears it.
func (service *Service) cleanOptional(value *string) *string {
	if value == nil {
		return nil
	}
	return pointer.To(service.plainText(*value))
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	return pointer.To(strings.TrimSpace(*value))
}
