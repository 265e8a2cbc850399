// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/inkwell/internal/platform/database/schema"
	"github.com/taibuivan/inkwell/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on top of pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres-backed [Repository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// summaryQuery selects tags with the count of published posts linked to them.
var summaryQuery = fmt.Sprintf(`
	SELECT t.%[1]s, t.%[2]s, t.%[3]s,
	       (SELECT COUNT(*) FROM %[5]s pt JOIN %[8]s p ON p.%[9]s = pt.%[6]s
	        WHERE pt.%[7]s = t.%[1]s AND p.%[10]s) AS postcount
	FROM %[4]s t`,
	schema.BlogTag.ID, schema.BlogTag.Name, schema.BlogTag.Slug, schema.BlogTag.Table,
	schema.BlogPostTag.Table, schema.BlogPostTag.PostID, schema.BlogPostTag.TagID,
	schema.BlogPost.Table, schema.BlogPost.ID, schema.BlogPost.IsPublished,
)

// List returns every tag ordered by name.
func (repository *PostgresRepository) List(context context.Context) ([]*Summary, error) {
	query := summaryQuery + fmt.Sprintf(` ORDER BY t.%s ASC`, schema.BlogTag.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tags")
	}
	defer rows.Close()

	tags := make([]*Summary, 0)
	for rows.Next() {
		summary := &Summary{}
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Slug, &summary.PostCount); err != nil {
			return nil, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, summary)
	}

	return tags, dberr.Wrap(rows.Err(), "iterate_tags")
}

// FindBySlug returns one tag by slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Summary, error) {
	query := summaryQuery + fmt.Sprintf(` WHERE t.%s = $1`, schema.BlogTag.Slug)

	summary := &Summary{}
	err := repository.db.QueryRow(context, query, slug).Scan(&summary.ID, &summary.Name, &summary.Slug, &summary.PostCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, dberr.Wrap(err, "find_tag")
	}

	return summary, nil
}

// # Post Attachment

var (
	upsertQuery = fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s) VALUES ($1, $2)
		ON CONFLICT (%[3]s) DO UPDATE SET %[3]s = EXCLUDED.%[3]s
		RETURNING %[4]s, %[2]s, %[3]s`,
		schema.BlogTag.Table, schema.BlogTag.Name, schema.BlogTag.Slug, schema.BlogTag.ID,
	)

	linkQuery = fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		schema.BlogPostTag.Table, schema.BlogPostTag.PostID, schema.BlogPostTag.TagID,
	)

	unlinkQuery = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.BlogPostTag.Table, schema.BlogPostTag.PostID,
	)
)

/*
Attach upserts each tag by slug and links it to the post, inside tx.

Description: The upsert is a single INSERT ... ON CONFLICT statement, so
concurrent writers adding the same new tag converge on one row. An existing
tag keeps its original name. The upsert row-locks each tag until commit, so
tags are written in slug order and two posts sharing tags always lock them
in the same sequence.

Returns:
  - []Tag: The stored tags, with IDs and canonical names, in slug order
  - error: Wrapped database failures
*/
func Attach(context context.Context, tx pgx.Tx, postID int64, tags []Tag) ([]Tag, error) {
	ordered := inLockOrder(tags)
	stored := make([]Tag, 0, len(ordered))

	for _, candidate := range ordered {
		var tag Tag
		if err := tx.QueryRow(context, upsertQuery, candidate.Name, candidate.Slug).Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return nil, dberr.Wrap(err, "upsert_tag")
		}

		if _, err := tx.Exec(context, linkQuery, postID, tag.ID); err != nil {
			return nil, dberr.Wrap(err, "link_tag")
		}

		stored = append(stored, tag)
	}

	return stored, nil
}

// Detach removes every tag link of the post. Tags themselves are kept.
func Detach(context context.Context, tx pgx.Tx, postID int64) error {
	if _, err := tx.Exec(context, unlinkQuery, postID); err != nil {
		return dberr.Wrap(err, "unlink_tags")
	}
	return nil
}

// inLockOrder returns a copy of tags sorted by slug.
func inLockOrder(tags []Tag) []Tag {
	ordered := slices.Clone(tags)
	slices.SortFunc(ordered, func(a, b Tag) int { return strings.Compare(a.Slug, b.Slug) })
	return ordered
}
