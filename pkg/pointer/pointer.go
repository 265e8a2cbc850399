// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides generic helpers for optional values.

Optional JSON fields are modelled as pointers, where nil means "absent".
*/
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// NilIfZero returns nil for the zero value of T, otherwise a pointer to v.
func NilIfZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
