package guesthouse

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/innkeep/internal/platform/request"
	"github.com/taibuivan/innkeep/internal/platform/respond"
	"github.com/taibuivan/innkeep/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the guesthouse endpoints on a router scoped to /guesthouses.
// Authorization (admin vs manager) is decided by the service, not by route guards.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listGuesthouses)
	router.Post("/", handler.createGuesthouse)
	router.Get("/{id}", handler.getGuesthouse)
	router.Put("/{id}", handler.updateGuesthouse)
	router.Delete("/{id}", handler.deleteGuesthouse)
}

func (handler *Handler) listGuesthouses(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get("q"),
	}

	page, err := handler.service.List(request.Context(), requestutil.Principal(request), filter, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Items, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, page.Total))
}

func (handler *Handler) getGuesthouse(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Guesthouse")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	guesthouse, err := handler.service.Get(request.Context(), requestutil.Principal(request), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, guesthouse)
}

func (handler *Handler) createGuesthouse(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	guesthouse, err := handler.service.Create(request.Context(), requestutil.Principal(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, guesthouse)
}

func (handler *Handler) updateGuesthouse(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Guesthouse")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	guesthouse, err := handler.service.Update(request.Context(), requestutil.Principal(request), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, guesthouse)
}

func (handler *Handler) deleteGuesthouse(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Guesthouse")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Principal(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
