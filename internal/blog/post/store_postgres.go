// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
PostgreSQL implementation of the post [Repository].

Queries hydrate authors with a JOIN and aggregate tags into a JSON array with
json_agg, so a page of posts is loaded in one round-trip. Mutations run in a
single transaction through [postgres.WithTx].
*/
package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/inkwell/internal/blog/tag"
	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/database/schema"
	"github.com/taibuivan/inkwell/internal/platform/dberr"
	"github.com/taibuivan/inkwell/internal/platform/postgres"
	"github.com/taibuivan/inkwell/pkg/pagination"
)

// ErrNotFound is returned when the referenced post does not exist.
var ErrNotFound = apperr.NotFound("Post")

// commentPostConstraint is the foreign key from blog.comment to blog.post.
const commentPostConstraint = "comment_postid_fkey"

// PostgresRepository implements [Repository] on top of pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres-backed [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// querier is satisfied by both [*pgxpool.Pool] and [pgx.Tx].
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// # Query Fragments

var (
	postTable    = schema.BlogPost
	accountTable = schema.UserAccount
	commentTable = schema.BlogComment
	tagTable     = schema.BlogTag
	linkTable    = schema.BlogPostTag
)

// prefixed qualifies every column with a table alias.
func prefixed(alias string, columns []string) string {
	qualified := make([]string, len(columns))
	for index, column := range columns {
		qualified[index] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}

var (
	// tagsAggregate yields the tags of post p as a JSON array ordered by name.
	tagsAggregate = fmt.Sprintf(`COALESCE((
		SELECT json_agg(json_build_object('id', t.%[1]s, 'name', t.%[2]s, 'slug', t.%[3]s) ORDER BY t.%[2]s)
		FROM %[4]s t JOIN %[5]s pt ON pt.%[6]s = t.%[1]s
		WHERE pt.%[7]s = p.%[8]s
	), '[]')`,
		tagTable.ID, tagTable.Name, tagTable.Slug, tagTable.Table,
		linkTable.Table, linkTable.TagID, linkTable.PostID, postTable.ID,
	)

	commentCount = fmt.Sprintf(`(SELECT COUNT(*) FROM %s c WHERE c.%s = p.%s)`,
		commentTable.Table, commentTable.PostID, postTable.ID,
	)

	// summarySelect loads posts with their author's public fields.
	summarySelect = fmt.Sprintf(`
		SELECT %s, a.%s, a.%s, a.%s, %s, %s
		FROM %s p JOIN %s a ON a.%s = p.%s`,
		prefixed("p", postTable.Columns()),
		accountTable.ID, accountTable.Username, accountTable.AvatarURL,
		commentCount, tagsAggregate,
		postTable.Table, accountTable.Table, accountTable.ID, postTable.AuthorID,
	)

	// viewQuery increments the counter and returns the post with its author profile.
	viewQuery = fmt.Sprintf(`
		UPDATE %[1]s p SET %[2]s = p.%[2]s + 1
		FROM %[3]s a
		WHERE a.%[4]s = p.%[5]s AND p.%[6]s = $1 AND p.%[7]s
		RETURNING %[8]s, a.%[4]s, a.%[9]s, a.%[10]s, a.%[11]s, %[12]s`,
		postTable.Table, postTable.ViewCount,
		accountTable.Table, accountTable.ID, postTable.AuthorID,
		postTable.Slug, postTable.IsPublished,
		prefixed("p", postTable.Columns()),
		accountTable.Username, accountTable.AvatarURL, accountTable.Bio,
		tagsAggregate,
	)

	commentsQuery = fmt.Sprintf(`
		SELECT %s, a.%s, a.%s, a.%s
		FROM %s c JOIN %s a ON a.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC, c.%s ASC`,
		prefixed("c", commentTable.Columns()),
		accountTable.ID, accountTable.Username, accountTable.AvatarURL,
		commentTable.Table, accountTable.Table, accountTable.ID, commentTable.AuthorID,
		commentTable.PostID,
		commentTable.CreatedAt, commentTable.ID,
	)
)

// escapeLike makes LIKE wildcards in a user term match literally.
var escapeLike = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace

// # Scanning

func scanSummary(row pgx.Row) (*PostSummary, error) {
	summary := &PostSummary{}
	var tagsJSON []byte

	err := row.Scan(
		&summary.ID, &summary.Title, &summary.Slug, &summary.Content,
		&summary.Excerpt, &summary.CoverImage, &summary.Published,
		&summary.ViewCount, &summary.ReadTime, &summary.AuthorID,
		&summary.CreatedAt, &summary.UpdatedAt,
		&summary.Author.ID, &summary.Author.Username, &summary.Author.Avatar,
		&summary.CommentCount, &tagsJSON,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsJSON, &summary.Tags); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal tags: %w", err)
	}

	return summary, nil
}

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID, &comment.Content, &comment.PostID, &comment.AuthorID, &comment.CreatedAt,
		&comment.Author.ID, &comment.Author.Username, &comment.Author.Avatar,
	)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// # Reads

/*
List returns one page of published posts and the total match count.

Description: Filter predicates become WHERE conditions joined by AND. The
tag predicate is an EXISTS sub-query on the junction table, the search
predicate an ILIKE on title and content with wildcards escaped. The total
comes from a separate COUNT so that a page past the end still reports it.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params

Returns:
  - []*PostSummary: The page, newest first
  - int: Total number of matching posts
  - error: Database execution errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*PostSummary, int, error) {

	// 1. Dynamic WHERE clause construction
	conditions := []string{"p." + postTable.IsPublished}
	var args []any
	argID := 1

	if filter.ByTag != nil {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM %s pt JOIN %s t ON t.%s = pt.%s WHERE pt.%s = p.%s AND t.%s = $%d)`,
			linkTable.Table, tagTable.Table, tagTable.ID, linkTable.TagID,
			linkTable.PostID, postTable.ID, tagTable.Slug, argID,
		))
		args = append(args, filter.ByTag.Slug)
		argID++
	}

	if filter.BySearch != nil {
		conditions = append(conditions, fmt.Sprintf(
			`(p.%[1]s ILIKE $%[3]d ESCAPE '\' OR p.%[2]s ILIKE $%[3]d ESCAPE '\')`,
			postTable.Title, postTable.Content, argID,
		))
		args = append(args, "%"+escapeLike(filter.BySearch.Term)+"%")
		argID++
	}

	where := strings.Join(conditions, " AND ")

	// 2. Total count
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s p WHERE %s`, postTable.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_posts")
	}

	// 3. Page query
	query := fmt.Sprintf(`%s WHERE %s ORDER BY p.%s DESC, p.%s DESC LIMIT $%d OFFSET $%d`,
		summarySelect, where, postTable.CreatedAt, postTable.ID, argID, argID+1,
	)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}
	defer rows.Close()

	posts := make([]*PostSummary, 0, params.Limit)
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_post")
		}
		posts = append(posts, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_posts")
	}

	return posts, total, nil
}

/*
ViewBySlug counts a view of the published post and loads its detail.

Description: The counter is bumped by a single UPDATE ... RETURNING, so
concurrent readers never lose an increment. The comment thread is read in
the same transaction, oldest first.

Returns:
  - *PostDetail: Post, author profile, tags and comments
  - error: NotFound when no published post has the slug
*/
func (repository *PostgresRepository) ViewBySlug(context context.Context, slug string) (*PostDetail, error) {
	var detail *PostDetail

	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {

		// 1. Atomic increment returning the hydrated post
		detail = &PostDetail{}
		var tagsJSON []byte

		err := tx.QueryRow(context, viewQuery, slug).Scan(
			&detail.ID, &detail.Title, &detail.Slug, &detail.Content,
			&detail.Excerpt, &detail.CoverImage, &detail.Published,
			&detail.ViewCount, &detail.ReadTime, &detail.AuthorID,
			&detail.CreatedAt, &detail.UpdatedAt,
			&detail.Author.ID, &detail.Author.Username, &detail.Author.Avatar, &detail.Author.Bio,
			&tagsJSON,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return dberr.Wrap(err, "view_post")
		}

		if err := json.Unmarshal(tagsJSON, &detail.Tags); err != nil {
			return apperr.Internal(fmt.Errorf("postgres: failed to unmarshal tags: %w", err))
		}

		// 2. Comment thread
		detail.Comments, err = listComments(context, tx, detail.ID)
		return err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "view_post")
	}

	return detail, nil
}

func listComments(context context.Context, db querier, postID int64) ([]*Comment, error) {
	rows, err := db.Query(context, commentsQuery, postID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}

	return comments, dberr.Wrap(rows.Err(), "iterate_comments")
}

// FindByID returns the post regardless of its published state.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*PostSummary, error) {
	return findSummary(context, repository.pool, id)
}

func findSummary(context context.Context, db querier, id int64) (*PostSummary, error) {
	query := fmt.Sprintf(`%s WHERE p.%s = $1`, summarySelect, postTable.ID)

	summary, err := scanSummary(db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, dberr.Wrap(err, "find_post")
	}

	return summary, nil
}

// # Writes

var insertPostQuery = fmt.Sprintf(`
	INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
	VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8)
	RETURNING %s`,
	postTable.Table,
	postTable.Title, postTable.Slug, postTable.Content, postTable.Excerpt,
	postTable.CoverImage, postTable.IsPublished, postTable.ReadTime, postTable.AuthorID,
	postTable.ID,
)

/*
Create inserts the post and attaches its tags in one transaction.

Returns:
  - *PostSummary: The stored post with author and tags
  - error: Conflict on a duplicate slug, NotFound if the author vanished
*/
func (repository *PostgresRepository) Create(context context.Context, post *Post, tags []tag.Tag) (*PostSummary, error) {
	var created *PostSummary

	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {

		// 1. Insert the post row
		var id int64
		err := tx.QueryRow(context, insertPostQuery,
			post.Title, post.Slug, post.Content, post.Excerpt, post.CoverImage,
			post.Published, post.ReadTime, post.AuthorID,
		).Scan(&id)
		if err != nil {
			if dberr.IsForeignKeyViolation(err) {
				return apperr.NotFound("Author")
			}
			return dberr.Wrap(err, "insert_post")
		}

		// 2. Upsert and link tags
		if _, err := tag.Attach(context, tx, id, tags); err != nil {
			return err
		}

		// 3. Read back the hydrated post
		created, err = findSummary(context, tx, id)
		return err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "create_post")
	}

	return created, nil
}

/*
Update applies the non-nil changes and bumps updatedat.

Description: Tag replacement is wholesale. Existing links are removed and
the new set is attached with the same upsert-by-slug as creation. Tags that
lose their last post are kept.

Returns:
  - *PostSummary: The updated post with author and tags
  - error: NotFound for an unknown id
*/
func (repository *PostgresRepository) Update(context context.Context, id int64, changes Changes) (*PostSummary, error) {

	// 1. Dynamic SET clause construction
	setClauses := []string{postTable.UpdatedAt + " = now()"}
	var args []any
	argID := 1

	assign := func(column, placeholder string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = "+placeholder, column, argID))
		args = append(args, value)
		argID++
	}

	if changes.Title != nil {
		assign(postTable.Title, "$%d", *changes.Title)
	}
	if changes.Content != nil {
		assign(postTable.Content, "$%d", *changes.Content)
	}
	if changes.ReadTime != nil {
		assign(postTable.ReadTime, "$%d", *changes.ReadTime)
	}
	if changes.Excerpt != nil {
		assign(postTable.Excerpt, "NULLIF($%d, '')", *changes.Excerpt)
	}
	if changes.CoverImage != nil {
		assign(postTable.CoverImage, "NULLIF($%d, '')", *changes.CoverImage)
	}
	if changes.Published != nil {
		assign(postTable.IsPublished, "$%d", *changes.Published)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d`,
		postTable.Table, strings.Join(setClauses, ", "), postTable.ID, argID,
	)
	args = append(args, id)

	var updated *PostSummary
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {

		// 2. Column update
		result, err := tx.Exec(context, query, args...)
		if err != nil {
			return dberr.Wrap(err, "update_post")
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}

		// 3. Wholesale tag replacement
		if changes.Tags != nil {
			if err := replaceTags(context, tx, id, *changes.Tags); err != nil {
				return err
			}
		}

		// 4. Read back
		updated, err = findSummary(context, tx, id)
		return err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "update_post")
	}

	return updated, nil
}

func replaceTags(context context.Context, tx pgx.Tx, postID int64, tags []tag.Tag) error {
	if err := tag.Detach(context, tx, postID); err != nil {
		return err
	}
	_, err := tag.Attach(context, tx, postID, tags)
	return err
}

// Delete removes the post. Comments and tag links follow through ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, postTable.Table, postTable.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_post")
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

var insertCommentQuery = fmt.Sprintf(`
	WITH inserted AS (
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s) VALUES ($1, $2, $3)
		RETURNING %[5]s
	)
	SELECT %[6]s, a.%[7]s, a.%[8]s, a.%[9]s
	FROM inserted c JOIN %[10]s a ON a.%[7]s = c.%[4]s`,
	commentTable.Table, commentTable.Content, commentTable.PostID, commentTable.AuthorID,
	strings.Join(commentTable.Columns(), ", "),
	prefixed("c", commentTable.Columns()),
	accountTable.ID, accountTable.Username, accountTable.AvatarURL,
	accountTable.Table,
)

/*
CreateComment stores a comment and returns it with its author.

Returns:
  - *Comment: The stored comment
  - error: NotFound when the post (or the author) does not exist
*/
func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) (*Comment, error) {
	created, err := scanComment(repository.pool.QueryRow(context, insertCommentQuery,
		comment.Content, comment.PostID, comment.AuthorID,
	))
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			if dberr.ConstraintName(err) == commentPostConstraint {
				return nil, ErrNotFound
			}
			return nil, apperr.NotFound("Author")
		}
		return nil, dberr.Wrap(err, "insert_comment")
	}

	return created, nil
}
