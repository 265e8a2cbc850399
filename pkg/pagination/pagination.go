// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is returned alongside list results.
package pagination

import (
	"math"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 10
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage keeps (MaxPage-1)*MaxLimit within int.
	MaxPage = math.MaxInt / MaxLimit
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// New normalizes page and limit: non-positive values fall back to the
// defaults, page is clamped to [MaxPage] and limit to [MaxLimit].
func New(page, limit int) Params {
	switch {
	case page < 1:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}

	switch {
	case limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip, (Page-1)*Limit. It saturates
// at math.MaxInt for Params built without [New].
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewMeta constructs pagination metadata with TotalPages = ceil(total/limit).
func NewMeta(params Params, total int) Meta {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromQuery parses "page" and "limit" from query values.
//
// Missing or non-numeric values behave as absent, see [New].
func FromQuery(query url.Values) Params {
	return New(parseInt(query.Get("page")), parseInt(query.Get("limit")))
}

// parseInt returns 0 for empty or malformed input.
func parseInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
