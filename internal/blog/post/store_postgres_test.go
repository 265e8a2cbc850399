// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package post_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkwell/internal/blog/post"
	"github.com/taibuivan/inkwell/internal/blog/tag"
	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/postgres/pgtest"
	"github.com/taibuivan/inkwell/internal/platform/sec"
	"github.com/taibuivan/inkwell/pkg/pagination"
	"github.com/taibuivan/inkwell/pkg/pointer"
)

/*
TestPostgresRepository exercises the SQL against a real PostgreSQL instance.
*/
func TestPostgresRepository(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Start(t)

	authorID := pgtest.SeedUser(t, pool, "ada", "author")
	readerID := pgtest.SeedUser(t, pool, "rita", "reader")

	repository := post.NewPostgresRepository(pool)
	tags := tag.NewPostgresRepository(pool)
	service := post.NewService(repository)
	author := &sec.Identity{UserID: authorID, Username: "ada", Role: sec.RoleAuthor}
	commenter := &sec.Identity{UserID: readerID, Username: "rita", Role: sec.RoleReader}

	t.Run("create_upserts_tags_once", func(t *testing.T) {
		created, err := service.CreatePost(ctx, author, post.CreateInput{
			Title: "Hello World", Content: "words", Published: true, Tags: []string{"Go", "go", "SQL"},
		})
		require.NoError(t, err)

		assert.Regexp(t, `^hello-world-\d+$`, created.Slug)
		assert.Equal(t, authorID, created.AuthorID)
		assert.ElementsMatch(t, []string{"go", "sql"}, tagSlugs(created.Tags))

		again, err := service.CreatePost(ctx, author, post.CreateInput{Title: "Again", Content: "x", Tags: []string{"GO"}})
		require.NoError(t, err)
		assert.Equal(t, created.Tags[0].ID, again.Tags[0].ID)

		catalogue, err := tags.FindBySlug(ctx, "go")
		require.NoError(t, err)
		assert.Equal(t, "Go", catalogue.Name)
		assert.Equal(t, 1, catalogue.PostCount)
	})

	t.Run("concurrent_views", func(t *testing.T) {
		created, err := service.CreatePost(ctx, author, post.CreateInput{Title: "Viewed", Content: "x", Published: true})
		require.NoError(t, err)

		const readers = 20
		var wg sync.WaitGroup
		for range readers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repository.ViewBySlug(ctx, created.Slug)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		stored, err := repository.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(readers), stored.ViewCount)
	})

	t.Run("concurrent_shared_tags", func(t *testing.T) {
		orders := [][]string{{"Alpha", "Beta", "Gamma"}, {"Gamma", "Beta", "Alpha"}}

		const writers = 16
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := service.CreatePost(ctx, author, post.CreateInput{
					Title: fmt.Sprintf("Shared %d", i), Content: "x", Published: true, Tags: orders[i%2],
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}

		for _, slug := range []string{"alpha", "beta", "gamma"} {
			shared, err := tags.FindBySlug(ctx, slug)
			require.NoError(t, err)
			assert.Equal(t, writers, shared.PostCount)
		}
	})

	t.Run("update_replaces_tags", func(t *testing.T) {
		target, err := service.CreatePost(ctx, author, post.CreateInput{Title: "Target", Content: "x", Tags: []string{"A", "B"}})
		require.NoError(t, err)
		other, err := service.CreatePost(ctx, author, post.CreateInput{Title: "Other", Content: "x", Tags: []string{"A"}})
		require.NoError(t, err)

		updated, err := service.UpdatePost(ctx, author, target.ID, post.UpdateInput{
			Tags:    &[]string{"B", "C"},
			Excerpt: pointer.To(""),
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"b", "c"}, tagSlugs(updated.Tags))
		assert.Nil(t, updated.Excerpt)
		assert.Equal(t, target.Slug, updated.Slug)

		_, err = tags.FindBySlug(ctx, "a")
		require.NoError(t, err)

		untouched, err := repository.FindByID(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, tagSlugs(untouched.Tags))
	})

	t.Run("comments_and_cascade", func(t *testing.T) {
		created, err := service.CreatePost(ctx, author, post.CreateInput{Title: "Thread", Content: "x", Published: true})
		require.NoError(t, err)

		for _, body := range []string{"first", "second"} {
			_, err := service.AddComment(ctx, commenter, created.ID, post.CommentInput{Content: body})
			require.NoError(t, err)
		}

		detail, err := repository.ViewBySlug(ctx, created.Slug)
		require.NoError(t, err)
		require.Len(t, detail.Comments, 2)
		assert.Equal(t, "first", detail.Comments[0].Content)
		assert.Equal(t, "rita", detail.Comments[0].Author.Username)

		require.NoError(t, repository.Delete(ctx, created.ID))

		var remaining int
		require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM blog.comment WHERE postid = $1`, created.ID).Scan(&remaining))
		assert.Zero(t, remaining)

		assert.True(t, apperr.HasCode(repository.Delete(ctx, created.ID), "NOT_FOUND"))
		_, err = repository.ViewBySlug(ctx, created.Slug)
		assert.True(t, apperr.HasCode(err, "NOT_FOUND"))

		_, err = repository.CreateComment(ctx, &post.Comment{Content: "late", PostID: created.ID, AuthorID: readerID})
		assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
	})

	t.Run("list_filters_and_pages", func(t *testing.T) {
		for i := range 12 {
			_, err := service.CreatePost(ctx, author, post.CreateInput{
				Title: fmt.Sprintf("Needle %d", i), Content: "x", Published: true, Tags: []string{"haystack"},
			})
			require.NoError(t, err)
		}
		_, err := service.CreatePost(ctx, author, post.CreateInput{Title: "Needle draft", Content: "x", Tags: []string{"haystack"}})
		require.NoError(t, err)
		_, err = service.CreatePost(ctx, author, post.CreateInput{Title: "100% literal_", Content: "x", Published: true})
		require.NoError(t, err)

		result, err := service.ListPosts(ctx, post.NewFilter("", "needle"), pagination.New(1, 5))
		require.NoError(t, err)
		assert.Len(t, result.Posts, 5)
		assert.Equal(t, 12, result.Total)
		assert.Equal(t, 3, result.TotalPages)
		assert.Equal(t, "Needle 11", result.Posts[0].Title)

		both, err := service.ListPosts(ctx, post.NewFilter("haystack", "Needle 1"), pagination.New(1, 10))
		require.NoError(t, err)
		assert.Equal(t, 3, both.Total) // Needle 1, 10, 11

		wildcard, err := service.ListPosts(ctx, post.NewFilter("", "0%"), pagination.New(1, 10))
		require.NoError(t, err)
		require.Equal(t, 1, wildcard.Total)
		assert.Equal(t, "100% literal_", wildcard.Posts[0].Title)
	})
}
