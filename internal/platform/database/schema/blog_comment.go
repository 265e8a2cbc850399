// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BlogCommentTable represents the 'blog.comment' table
type BlogCommentTable struct {
	Table     string
	ID        string
	Content   string
	PostID    string
	AuthorID  string
	CreatedAt string
}

// BlogComment is the schema definition for blog.comment
var BlogComment = BlogCommentTable{
	Table:     "blog.comment",
	ID:        "id",
	Content:   "content",
	PostID:    "postid",
	AuthorID:  "authorid",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t BlogCommentTable) Columns() []string {
	return []string{t.ID, t.Content, t.PostID, t.AuthorID, t.CreatedAt}
}
