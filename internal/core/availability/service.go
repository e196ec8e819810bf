package availability

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/apperr"
	"github.com/taibuivan/innkeep/internal/platform/constants"
	"github.com/taibuivan/innkeep/internal/platform/metrics"
	"github.com/taibuivan/innkeep/internal/platform/validate"
)

type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(repo Repository, collector *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		metrics: collector,
		logger:  logger,
	}
}

// ExpandRange lists every date from start to end inclusive, in order.
func ExpandRange(start, end civil.Date) ([]civil.Date, error) {
	validator := &validate.Validator{}
	validator.
		Custom(FieldStart, !start.IsValid(), "Must be a valid date").
		Custom(FieldEnd, !end.IsValid(), "Must be a valid date")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if end.Before(start) {
		return nil, apperr.InvalidRange("End date must not be before start date")
	}

	count := end.DaysSince(start) + 1
	if count > constants.MaxAvailabilityRangeDays {
		return nil, apperr.ValidationError("Date range is too long", apperr.FieldError{
			Field:   FieldEnd,
			Message: fmt.Sprintf("At most %d days per update", constants.MaxAvailabilityRangeDays),
		})
	}

	dates := make([]civil.Date, 0, count)
	for date := start; !date.After(end); date = date.AddDays(1) {
		dates = append(dates, date)
	}
	return dates, nil
}

// SetAvailability upserts one row per day of the inclusive range. Days are
// written independently: on failure the days already written stay written and
// their count is returned with the error.
func (service *Service) SetAvailability(context context.Context, principal *access.Principal, roomID string, start, end civil.Date, change Change) (int, error) {
	if err := access.Authenticated(principal); err != nil {
		return 0, err
	}

	dates, err := ExpandRange(start, end)
	if err != nil {
		return 0, err
	}

	return service.write(context, principal, roomID, dates, change)
}

// SetAvailabilityDates is [Service.SetAvailability] for an arbitrary selection
// of days. Duplicates are written once, in date order.
func (service *Service) SetAvailabilityDates(context context.Context, principal *access.Principal, roomID string, dates []civil.Date, change Change) (int, error) {
	if err := access.Authenticated(principal); err != nil {
		return 0, err
	}

	validator := &validate.Validator{}
	validator.
		Custom(FieldDates, len(dates) == 0, "Select at least one date").
		Custom(FieldDates, len(dates) > constants.MaxAvailabilityRangeDays,
			fmt.Sprintf("At most %d days per update", constants.MaxAvailabilityRangeDays))
	for _, date := range dates {
		if !date.IsValid() {
			validator.Custom(FieldDates, true, "Must contain only valid dates")
			break
		}
	}
	if err := validator.Err(); err != nil {
		return 0, err
	}

	ordered := slices.Clone(dates)
	slices.SortFunc(ordered, civil.Date.Compare)
	ordered = slices.Compact(ordered)

	return service.write(context, principal, roomID, ordered, change)
}

func (service *Service) write(context context.Context, principal *access.Principal, roomID string, dates []civil.Date, change Change) (int, error) {
	change, err := normalizeChange(change)
	if err != nil {
		return 0, err
	}

	managerID, err := service.repo.RoomOwner(context, roomID)
	if err != nil {
		return 0, err
	}

	if err := access.Check(principal, access.UpdateAvailability, access.Owned(managerID)); err != nil {
		return 0, err
	}

	written := 0
	for _, date := range dates {
		if err := service.repo.Upsert(context, roomID, date, change); err != nil {
			service.metrics.DaysWritten(written, len(dates)-written)
			service.logger.Error("availability_update_interrupted",
				slog.String("room_id", roomID),
				slog.String("failed_date", date.String()),
				slog.Int("days_written", written),
				slog.Int("days_requested", len(dates)),
				slog.Any("error", err),
			)
			return written, err
		}
		written++
	}

	service.metrics.DaysWritten(written, 0)

	service.logger.Info("availability_updated",
		slog.String("room_id", roomID),
		slog.String("first_date", dates[0].String()),
		slog.String("last_date", dates[len(dates)-1].String()),
		slog.Int("days_written", written),
		slog.Bool("is_available", change.IsAvailable),
		slog.String("updated_by", principal.ID),
	)
	return written, nil
}

// GetAvailability returns the stored days of the inclusive range. Days without
// a row are not included.
func (service *Service) GetAvailability(context context.Context, principal *access.Principal, roomID string, start, end civil.Date) ([]Day, error) {
	if err := access.Authenticated(principal); err != nil {
		return nil, err
	}

	if _, err := ExpandRange(start, end); err != nil {
		return nil, err
	}

	if err := service.authorizeRead(context, principal, roomID); err != nil {
		return nil, err
	}

	return service.repo.ListRange(context, roomID, start, end)
}

// Calendar returns every day of a month, stored or not.
func (service *Service) Calendar(context context.Context, principal *access.Principal, roomID string, year int, month time.Month) ([]Day, error) {
	if err := access.Authenticated(principal); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.
		Range(FieldYear, year, 1, 9999).
		Range(FieldMonth, int(month), 1, 12)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.authorizeRead(context, principal, roomID); err != nil {
		return nil, err
	}

	first := civil.Date{Year: year, Month: month, Day: 1}
	last := civil.DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))

	stored, err := service.repo.ListRange(context, roomID, first, last)
	if err != nil {
		return nil, err
	}

	byDate := make(map[civil.Date]Day, len(stored))
	for _, day := range stored {
		byDate[day.Date] = day
	}

	days := make([]Day, 0, last.Day)
	for date := first; !date.After(last); date = date.AddDays(1) {
		if day, ok := byDate[date]; ok {
			days = append(days, day)
			continue
		}
		days = append(days, Day{Date: date, IsAvailable: true})
	}
	return days, nil
}

func (service *Service) authorizeRead(context context.Context, principal *access.Principal, roomID string) error {
	managerID, err := service.repo.RoomOwner(context, roomID)
	if err != nil {
		return err
	}
	return access.Check(principal, access.ReadAvailability, access.Owned(managerID))
}

// normalizeChange maps a blank note to NULL and bounds its length.
func normalizeChange(change Change) (Change, error) {
	if change.Notes != nil {
		text := strings.TrimSpace(*change.Notes)
		if text == "" {
			change.Notes = nil
		} else {
			change.Notes = &text
		}
	}

	if change.Notes != nil {
		validator := &validate.Validator{}
		validator.MaxLen(FieldNotes, *change.Notes, constants.MaxAvailabilityNotesLength)
		if err := validator.Err(); err != nil {
			return change, err
		}
	}
	return change, nil
}
