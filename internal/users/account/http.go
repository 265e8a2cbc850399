// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/inkwell/internal/platform/middleware"
	requestutil "github.com/taibuivan/inkwell/internal/platform/request"
	"github.com/taibuivan/inkwell/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the sign-in endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with account routes.
//
// # Endpoints
//   - POST /login : Authenticates and returns an access token.
//   - GET  /me    : Returns the authenticated account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Handlers

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.Me(request.Context(), requestutil.Identity(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
