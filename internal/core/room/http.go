package room

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/innkeep/internal/platform/apperr"
	requestutil "github.com/taibuivan/innkeep/internal/platform/request"
	"github.com/taibuivan/innkeep/internal/platform/respond"
	"github.com/taibuivan/innkeep/pkg/pagination"
	"github.com/taibuivan/innkeep/pkg/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the room endpoints on a router scoped to /rooms.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listRooms)
	router.Post("/", handler.createRoom)
	router.Get("/{id}", handler.getRoom)
	router.Put("/{id}", handler.updateRoom)
	router.Delete("/{id}", handler.deleteRoom)
}

func (handler *Handler) listRooms(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{Query: query.Get("q")}
	if guesthouseID := query.Get("guesthouse_id"); guesthouseID != "" {
		if !uuid.Valid(guesthouseID) {
			respond.Error(writer, request, apperr.NotFound("Guesthouse"))
			return
		}
		filter.GuesthouseID = &guesthouseID
	}

	page, err := handler.service.List(request.Context(), requestutil.Principal(request), filter, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page.Items, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, page.Total))
}

func (handler *Handler) getRoom(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Room")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	room, err := handler.service.Get(request.Context(), requestutil.Principal(request), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, room)
}

func (handler *Handler) createRoom(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	room, err := handler.service.Create(request.Context(), requestutil.Principal(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, room)
}

func (handler *Handler) updateRoom(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Room")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	room, err := handler.service.Update(request.Context(), requestutil.Principal(request), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, room)
}

func (handler *Handler) deleteRoom(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", "Room")
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
