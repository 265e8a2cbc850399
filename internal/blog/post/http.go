// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/inkwell/internal/platform/middleware"
	requestutil "github.com/taibuivan/inkwell/internal/platform/request"
	"github.com/taibuivan/inkwell/internal/platform/respond"
	"github.com/taibuivan/inkwell/internal/platform/sec"
	"github.com/taibuivan/inkwell/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the post and comment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with post routes.
//
// # Endpoints
//   - GET    /                : Published posts (page, limit, tag, search).
//   - GET    /{slug}          : Post detail, counts one view.
//   - POST   /                : Create a post (author role).
//   - PUT    /{id}            : Update a post (owner or admin).
//   - PATCH  /{id}            : Same as PUT, absent fields unchanged.
//   - DELETE /{id}            : Delete a post (owner or admin).
//   - POST   /{id}/comments   : Comment on a post (any signed-in user).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public Access
	router.Get("/", handler.listPosts)
	router.Get("/{slug}", handler.getPost)

	// Authoring
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAuthor))
		r.Post("/", handler.createPost)
		r.Put("/{id}", handler.updatePost)
		r.Patch("/{id}", handler.updatePost)
		r.Delete("/{id}", handler.deletePost)
	})

	// Conversation
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/{id}/comments", handler.addComment)
	})

	return router
}

// # Handlers

func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	result, err := handler.service.ListPosts(request.Context(),
		NewFilter(query.Get("tag"), query.Get("search")),
		pagination.FromQuery(query),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.GetPost(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreatePost(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.UpdatePost(request.Context(), actor, id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeletePost(request.Context(), actor, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CommentInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.AddComment(request.Context(), actor, postID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}
