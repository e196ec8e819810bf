// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/innkeep/internal/platform/request"
	"github.com/taibuivan/innkeep/internal/platform/respond"
	"github.com/taibuivan/innkeep/internal/platform/sec"
	"github.com/taibuivan/innkeep/internal/platform/validate"
)

// Handler implements the account administration endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/managers", handler.listManagers)
	router.Patch("/{id}/role", handler.changeRole)
	router.Delete("/{id}", handler.deleteUser)

	return router
}

/*
GET /api/v1/users/managers.

Response:
  - 200: []User ordered by full name
  - 403: Caller is not an admin
*/
func (handler *Handler) listManagers(writer http.ResponseWriter, request *http.Request) {
	managers, err := handler.accountService.ListManagers(request.Context(), requestutil.Principal(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, managers)
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
PATCH /api/v1/users/{id}/role.

Response:
  - 200: User: The account with its new role
  - 400: Unknown role
  - 403: Not an admin, or changing one's own role
  - 404: Unknown account
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id", "User")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.ChangeRole(request.Context(), requestutil.Principal(request), userID, sec.UserRole(input.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
DELETE /api/v1/users/{id}.

Response:
  - 204: Deleted
  - 403: Not an admin, or deleting oneself
  - 404: Unknown account
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id", "User")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteUser(request.Context(), requestutil.Principal(request), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
