// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import "context"

// Repository defines read access to the tag catalogue.
type Repository interface {
	// List returns every tag ordered by name, with published post counts.
	List(context context.Context) ([]*Summary, error)

	// FindBySlug returns one tag or [ErrNotFound].
	FindBySlug(context context.Context, slug string) (*Summary, error)
}
