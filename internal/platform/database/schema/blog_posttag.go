// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BlogPostTagTable represents the 'blog.posttag' junction table
type BlogPostTagTable struct {
	Table  string
	PostID string
	TagID  string
}

// BlogPostTag is the schema definition for blog.posttag
var BlogPostTag = BlogPostTagTable{
	Table:  "blog.posttag",
	PostID: "postid",
	TagID:  "tagid",
}
