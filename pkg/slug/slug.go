// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs identify posts and tags in URLs (e.g., "hello-world", "go").
// This package handles normalization, accent removal, and character sanitization.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)

	// stripMarks drops non-spacing marks left behind by NFD decomposition.
	stripMarks = runes.Remove(runes.In(unicode.Mn))
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Replaces everything outside [a-z0-9] with hyphens.
// 5. Collapses multiple hyphens and trims leading/trailing hyphens.
//
// The result is empty when s has no characters that survive the pipeline.
func From(s string) string {
	// 1. Normalize and remove accents
	result, _, _ := transform.String(transform.Chain(norm.NFD, stripMarks, norm.NFC), s)

	// 2. Lowercase and map to the slug alphabet
	result = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, strings.ToLower(result))

	// 3. Clean up hyphenation
	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
