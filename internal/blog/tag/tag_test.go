// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkwell/internal/blog/tag"
	"github.com/taibuivan/inkwell/internal/platform/apperr"
)

/*
TestNormalize covers deduplication by slug, ordering and rejection of unusable names.
*/
func TestNormalize(t *testing.T) {
	t.Run("dedupes_by_slug", func(t *testing.T) {
		tags, err := tag.Normalize([]string{"Go", "go", " GO "})
		require.NoError(t, err)
		assert.Equal(t, []tag.Tag{{Name: "Go", Slug: "go"}}, tags)
	})

	t.Run("keeps_order", func(t *testing.T) {
		tags, err := tag.Normalize([]string{"Web Dev", "Go", "web-dev"})
		require.NoError(t, err)
		assert.Equal(t, []tag.Tag{{Name: "Web Dev", Slug: "web-dev"}, {Name: "Go", Slug: "go"}}, tags)
	})

	t.Run("empty_input", func(t *testing.T) {
		tags, err := tag.Normalize(nil)
		require.NoError(t, err)
		assert.Empty(t, tags)
	})

	rejected := []struct {
		name  string
		input []string
		field string
	}{
		{"blank", []string{"Go", "  "}, "tags[1]"},
		{"symbols_only", []string{"!!!"}, "tags[0]"},
		{"too_long", []string{strings.Repeat("a", tag.MaxNameLength+1)}, "tags[0]"},
	}

	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tag.Normalize(tt.input)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}
