package photo

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/innkeep/internal/platform/apperr"
	requestutil "github.com/taibuivan/innkeep/internal/platform/request"
	"github.com/taibuivan/innkeep/internal/platform/respond"
	"github.com/taibuivan/innkeep/internal/platform/validate"
)

// multipartOverhead is allowed on top of the file for boundaries and form fields.
const multipartOverhead = 1 << 20

type Handler struct {
	service  *Service
	maxBytes int64
}

func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// RegisterGuesthouseRoutes mounts the gallery endpoints under /guesthouses.
func (handler *Handler) RegisterGuesthouseRoutes(router chi.Router) {
	router.Get("/{id}/photos", handler.listPhotos)
	router.Post("/{id}/photos", handler.uploadPhoto)
	router.Put("/{id}/photos/order", handler.reorderPhotos)
}

// RegisterRoutes mounts single-photo endpoints on a router scoped to /photos.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Patch("/{id}", handler.updateCaption)
	router.Delete("/{id}", handler.deletePhoto)
}

func (handler *Handler) listPhotos(writer http.ResponseWriter, request *http.Request) {
	guesthouseID, err := requestutil.ID(request, "id", "Guesthouse")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	photos, err := handler.service.List(request.Context(), requestutil.Principal(request), guesthouseID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, photos)
}

func (handler *Handler) uploadPhoto(writer http.ResponseWriter, request *http.Request) {
	guesthouseID, err := requestutil.ID(request, "id", "Guesthouse")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, handler.maxBytes+multipartOverhead)
	if err := request.ParseMultipartForm(handler.maxBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, apperr.ValidationError("File is too large",
				apperr.FieldError{Field: FieldFile, Message: "File exceeds the upload limit"}))
			return
		}
		respond.Error(writer, request, validate.RequiredError(FieldFile, "Expected a multipart form with a file"))
		return
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	file, header, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldFile, "A file is required"))
		return
	}
	defer file.Close()

	upload := Upload{FileName: header.Filename, Body: file}
	if caption := request.FormValue(FieldCaption); caption != "" {
		upload.Caption = &caption
	}

	photo, err := handler.service.Upload(request.Context(), requestutil.Principal(request), guesthouseID, upload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, photo)
}

type reorderRequest struct {
	PhotoIDs []string `json:"photo_ids"`
}

func (handler *Handler) reorderPhotos(writer http.ResponseWriter, request *http.Request) {
	guesthouseID, err := requestutil.ID(request, "id", "Guesthouse")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body reorderRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	photos, err := handler.service.Reorder(request.Context(), requestutil.Principal(request), guesthouseID, body.PhotoIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, photos)
}

type captionRequest struct {
	Caption *string `json:"caption"`
}

func (handler *Handler) updateCaption(writer http.ResponseWriter, request *http.Request) {
	photoID, err := requestutil.ID(request, "id", "Photo")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body captionRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	photo, err := handler.service.UpdateCaption(request.Context(), requestutil.Principal(request), photoID, body.Caption)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, photo)
}

func (handler *Handler) deletePhoto(writer http.ResponseWriter, request *http.Request) {
	photoID, err := requestutil.ID(request, "id", "Photo")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Principal(request), photoID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
