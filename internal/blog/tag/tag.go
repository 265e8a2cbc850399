// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package tag owns blog tags: normalization of user-supplied names, the
// upsert-by-slug used when posts are written, and the public tag catalogue.
package tag

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/validate"
	"github.com/taibuivan/inkwell/pkg/slug"
)

// MaxNameLength bounds a tag name in runes.
const MaxNameLength = 64

// Tag is a label attached to posts, identified by its slug.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Summary is a catalogue entry with the number of published posts carrying the tag.
type Summary struct {
	Tag
	PostCount int `json:"postCount"`
}

// Normalize turns raw names into distinct tags keyed by slug.
//
// Names are trimmed, the first spelling of each slug wins and order is kept.
// A name without any slug-able character is a validation error.
func Normalize(names []string) ([]Tag, error) {
	seen := make(map[string]struct{}, len(names))
	tags := make([]Tag, 0, len(names))

	for index, raw := range names {
		field := fmt.Sprintf("tags[%d]", index)
		name := strings.TrimSpace(raw)

		if utf8.RuneCountInString(name) > MaxNameLength {
			return nil, validate.Field(field, fmt.Sprintf("Maximum %d characters", MaxNameLength))
		}

		tagSlug := slug.From(name)
		if tagSlug == "" {
			return nil, validate.Field(field, "must contain at least one letter or digit")
		}

		if _, duplicate := seen[tagSlug]; duplicate {
			continue
		}
		seen[tagSlug] = struct{}{}
		tags = append(tags, Tag{Name: name, Slug: tagSlug})
	}

	return tags, nil
}

// ErrNotFound is returned when no tag has the requested slug.
var ErrNotFound = apperr.NotFound("Tag")
