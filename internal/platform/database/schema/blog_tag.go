// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BlogTagTable represents the 'blog.tag' table
type BlogTagTable struct {
	Table string
	ID    string
	Name  string
	Slug  string
}

// BlogTag is the schema definition for blog.tag
var BlogTag = BlogTagTable{
	Table: "blog.tag",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

// Columns returns all standard column names
func (t BlogTagTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
