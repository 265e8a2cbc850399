// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/inkwell/internal/platform/request"
	"github.com/taibuivan/inkwell/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listTags)
	router.Get("/{slug}", handler.getTag)
	return router
}

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.ListTags(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

func (handler *Handler) getTag(writer http.ResponseWriter, request *http.Request) {
	tag, err := handler.service.GetTagBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}
