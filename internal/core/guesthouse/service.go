package guesthouse

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/apperr"
	"github.com/taibuivan/innkeep/internal/platform/cache"
	"github.com/taibuivan/innkeep/internal/platform/validate"
	"github.com/taibuivan/innkeep/pkg/pagination"
	"github.com/taibuivan/innkeep/pkg/uuid"
)

// MediaCleaner deletes photo blobs left behind by a guesthouse delete.
// Failures are its own to log; a guesthouse delete never fails because of them.
type MediaCleaner interface {
	DeleteBlobs(context context.Context, urls []string)
}

type Service struct {
	repo   Repository
	media  MediaCleaner
	views  *cache.Views
	logger *slog.Logger
}

func NewService(repo Repository, media MediaCleaner, views *cache.Views, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		media:  media,
		views:  views,
		logger: logger,
	}
}

// List returns the guesthouses visible to principal. Managers only ever see
// guesthouses they manage; the filter is applied in SQL.
func (service *Service) List(ctx context.Context, principal *access.Principal, filter Filter, params pagination.Params) (*Page, error) {
	if err := access.Check(principal, access.ListGuesthouses, access.Resource{}); err != nil {
		return nil, err
	}

	filter.ManagerID = access.Scope(principal)
	filter.Query = strings.TrimSpace(filter.Query)

	key := cache.Key(cache.NamespaceGuesthouses, access.ScopeKey(principal),
		strconv.Itoa(params.Page), strconv.Itoa(params.Limit), filter.Query)

	return cache.Load(ctx, service.views, key, func(ctx context.Context) (*Page, error) {
		items, total, err := service.repo.List(ctx, filter, params.Limit, params.Offset())
		if err != nil {
			return nil, err
		}
		return &Page{Items: items, Total: total}, nil
	})
}

// Get reads the guesthouse from storage on every call so the ownership check
// never sees a reassigned manager.
func (service *Service) Get(context context.Context, principal *access.Principal, id string) (*Guesthouse, error) {
	if err := access.Authenticated(principal); err != nil {
		return nil, err
	}

	guesthouse, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	if err := access.Check(principal, access.ViewGuesthouse, access.Owned(guesthouse.ManagerID)); err != nil {
		return nil, err
	}
	return guesthouse, nil
}

func (service *Service) Create(context context.Context, principal *access.Principal, input Input) (*Guesthouse, error) {
	if err := access.Check(principal, access.CreateGuesthouse, access.Resource{}); err != nil {
		return nil, err
	}

	guesthouse, err := service.validate(context, input)
	if err != nil {
		return nil, err
	}
	guesthouse.ID = uuid.New()

	if err := service.repo.Create(context, guesthouse); err != nil {
		return nil, err
	}

	service.views.Invalidate(context, cache.NamespaceGuesthouses, cache.NamespaceDashboard)

	service.logger.Info("guesthouse_created",
		slog.String("guesthouse_id", guesthouse.ID),
		slog.String("created_by", principal.ID),
	)
	return guesthouse, nil
}

func (service *Service) Update(context context.Context, principal *access.Principal, id string, input Input) (*Guesthouse, error) {
	if err := access.Check(principal, access.UpdateGuesthouse, access.Resource{}); err != nil {
		return nil, err
	}

	guesthouse, err := service.validate(context, input)
	if err != nil {
		return nil, err
	}
	guesthouse.ID = id

	if err := service.repo.Update(context, guesthouse); err != nil {
		return nil, err
	}

	// Room listings carry the guesthouse name and are scoped by its manager.
	service.views.Invalidate(context,
		cache.NamespaceGuesthouses,
		cache.NamespaceRooms,
		cache.NamespaceDashboard,
	)

	service.logger.Info("guesthouse_updated", slog.String("guesthouse_id", id))
	return guesthouse, nil
}

// Delete removes a guesthouse with its rooms, availability and photos. Photo
// blobs are removed after the rows, best-effort.
func (service *Service) Delete(context context.Context, principal *access.Principal, id string) error {
	if err := access.Check(principal, access.DeleteGuesthouse, access.Resource{}); err != nil {
		return err
	}

	urls, err := service.repo.Delete(context, id)
	if err != nil {
		return err
	}

	if service.media != nil && len(urls) > 0 {
		service.media.DeleteBlobs(context, urls)
	}

	service.views.Invalidate(context,
		cache.NamespaceGuesthouses,
		cache.NamespaceRooms,
		cache.NamespacePhotos,
		cache.NamespaceDashboard,
	)

	service.logger.Warn("guesthouse_deleted",
		slog.String("guesthouse_id", id),
		slog.Int("photos", len(urls)),
	)
	return nil
}

// validate normalizes input and checks it, including that the manager exists.
func (service *Service) validate(context context.Context, input Input) (*Guesthouse, error) {
	guesthouse := &Guesthouse{
		Name:        strings.TrimSpace(input.Name),
		Description: trimmed(input.Description),
		Address:     trimmed(input.Address),
		City:        trimmed(input.City),
		Country:     trimmed(input.Country),
		ManagerID:   trimmed(input.ManagerID),
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, guesthouse.Name).MaxLen(FieldName, guesthouse.Name, maxNameLength)
	if guesthouse.City != nil {
		validator.MaxLen(FieldCity, *guesthouse.City, maxLocationLength)
	}
	if guesthouse.Country != nil {
		validator.MaxLen(FieldCountry, *guesthouse.Country, maxLocationLength)
	}
	if guesthouse.ManagerID != nil {
		validator.UUID(FieldManagerID, *guesthouse.ManagerID)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if guesthouse.ManagerID != nil {
		exists, err := service.repo.ManagerExists(context, *guesthouse.ManagerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.ValidationError("Invalid input", apperr.FieldError{
				Field:   FieldManagerID,
				Message: "Manager does not exist",
			})
		}
	}

	return guesthouse, nil
}

// trimmed maps blank optional text to nil.
func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	text := strings.TrimSpace(*value)
	if text == "" {
		return nil
	}
	return &text
}
