// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"strings"
)

// Service exposes the tag catalogue.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (service *Service) ListTags(context context.Context) ([]*Summary, error) {
	return service.repo.List(context)
}

// GetTagBySlug looks the tag up by its slug; surrounding whitespace and case are ignored.
func (service *Service) GetTagBySlug(context context.Context, slug string) (*Summary, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, ErrNotFound
	}
	return service.repo.FindBySlug(context, slug)
}
