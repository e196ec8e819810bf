package availability

import (
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/innkeep/internal/platform/apperr"
	requestutil "github.com/taibuivan/innkeep/internal/platform/request"
	"github.com/taibuivan/innkeep/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts availability under the room routes (/rooms/{id}/availability).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Put("/{id}/availability", handler.setAvailability)
	router.Get("/{id}/availability", handler.getAvailability)
	router.Get("/{id}/availability/calendar", handler.getCalendar)
}

// UpdateRequest selects days either as a start/end range or as a list of dates.
type UpdateRequest struct {
	Start       *civil.Date  `json:"start"`
	End         *civil.Date  `json:"end"`
	Dates       []civil.Date `json:"dates"`
	IsAvailable *bool        `json:"is_available"`
	Notes       *string      `json:"notes"`
}

type UpdateResponse struct {
	DaysWritten int `json:"days_written"`
}

func (handler *Handler) setAvailability(writer http.ResponseWriter, request *http.Request) {
	roomID, err := requestutil.ID(request, "id", "Room")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body UpdateRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if body.IsAvailable == nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid availability update",
			apperr.FieldError{Field: FieldIsAvailable, Message: "This field is required"}))
		return
	}
	change := Change{IsAvailable: *body.IsAvailable, Notes: body.Notes}

	var written int
	switch {
	case len(body.Dates) > 0:
		written, err = handler.service.SetAvailabilityDates(request.Context(), requestutil.Principal(request), roomID, body.Dates, change)
	case body.Start != nil && body.End != nil:
		written, err = handler.service.SetAvailability(request.Context(), requestutil.Principal(request), roomID, *body.Start, *body.End, change)
	default:
		err = apperr.ValidationError("Invalid availability update",
			apperr.FieldError{Field: FieldDates, Message: "Provide start and end, or a list of dates"})
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, UpdateResponse{DaysWritten: written})
}

func (handler *Handler) getAvailability(writer http.ResponseWriter, request *http.Request) {
	roomID, err := requestutil.ID(request, "id", "Room")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query()
	start, startErr := civil.ParseDate(query.Get(FieldStart))
	end, endErr := civil.ParseDate(query.Get(FieldEnd))

	var details []apperr.FieldError
	if startErr != nil {
		details = append(details, apperr.FieldError{Field: FieldStart, Message: "Must be a date (YYYY-MM-DD)"})
	}
	if endErr != nil {
		details = append(details, apperr.FieldError{Field: FieldEnd, Message: "Must be a date (YYYY-MM-DD)"})
	}
	if len(details) > 0 {
		respond.Error(writer, request, apperr.ValidationError("Invalid date range", details...))
		return
	}

	days, err := handler.service.GetAvailability(request.Context(), requestutil.Principal(request), roomID, start, end)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, days)
}

func (handler *Handler) getCalendar(writer http.ResponseWriter, request *http.Request) {
	roomID, err := requestutil.ID(request, "id", "Room")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The current month unless asked otherwise.
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	query := request.URL.Query()
	if raw := query.Get(FieldYear); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			respond.Error(writer, request, apperr.ValidationError("Invalid calendar month",
				apperr.FieldError{Field: FieldYear, Message: "Must be a number"}))
			return
		}
	}
	if raw := query.Get(FieldMonth); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil {
			respond.Error(writer, request, apperr.ValidationError("Invalid calendar month",
				apperr.FieldError{Field: FieldMonth, Message: "Must be a number"}))
			return
		}
	}

	days, err := handler.service.Calendar(request.Context(), requestutil.Principal(request), roomID, year, time.Month(month))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, days)
}
