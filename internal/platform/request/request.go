// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/internal/platform/sec"
	"github.com/taibuivan/inkwell/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Int64Param parses a named URL parameter as a positive integer ID.

Returns:
  - int64: The parsed ID
  - error: apperr.ValidationError if the parameter is not a positive integer
*/
func Int64Param(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validate.Field(name, "must be a positive integer")
	}

	return id, nil
}

/*
Identity extracts the authenticated caller from the request context.

Returns nil if the request is anonymous.
*/
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request is authenticated and returns the caller.

Returns:
  - *sec.Identity: The authenticated caller
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return identity, nil
}
