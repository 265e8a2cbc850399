// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BlogPostTable represents the 'blog.post' table
type BlogPostTable struct {
	Table       string
	ID          string
	Title       string
	Slug        string
	Content     string
	Excerpt     string
	CoverImage  string
	IsPublished string
	ViewCount   string
	ReadTime    string
	AuthorID    string
	CreatedAt   string
	UpdatedAt   string
}

// BlogPost is the schema definition for blog.post
var BlogPost = BlogPostTable{
	Table:       "blog.post",
	ID:          "id",
	Title:       "title",
	Slug:        "slug",
	Content:     "content",
	Excerpt:     "excerpt",
	CoverImage:  "coverimage",
	IsPublished: "ispublished",
	ViewCount:   "viewcount",
	ReadTime:    "readtime",
	AuthorID:    "authorid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t BlogPostTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Content, t.Excerpt, t.CoverImage, t.IsPublished,
		t.ViewCount, t.ReadTime, t.AuthorID, t.CreatedAt, t.UpdatedAt,
	}
}
