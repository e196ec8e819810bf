// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/apperr"
	"github.com/taibuivan/innkeep/internal/platform/ctxutil"
	"github.com/taibuivan/innkeep/internal/platform/validate"
	"github.com/taibuivan/innkeep/pkg/uuid"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named UUID path parameter.

A malformed id cannot match any row, so it is reported as the resource being
absent rather than as a database type error.

Returns:
  - string: the id
  - error: apperr.NotFound(resource) if the parameter is not a UUID
*/
func ID(request *http.Request, name, resource string) (string, error) {
	value := chi.URLParam(request, name)
	if !uuid.Valid(value) {
		return "", apperr.NotFound(resource)
	}
	return value, nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Principal extracts the session principal from the request context.

Returns nil if the request is not authenticated. Handlers pass the result to
services unchanged; the service decides whether anonymous access is allowed.
*/
func Principal(request *http.Request) *access.Principal {
	return ctxutil.GetPrincipal(request.Context())
}
