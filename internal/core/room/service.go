package room

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/cache"
	"github.com/taibuivan/innkeep/internal/platform/validate"
	"github.com/taibuivan/innkeep/pkg/pagination"
	"github.com/taibuivan/innkeep/pkg/uuid"
)

type Service struct {
	repo   Repository
	views  *cache.Views
	logger *slog.Logger
}

func NewService(repo Repository, views *cache.Views, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		views:  views,
		logger: logger,
	}
}

// List returns rooms visible to principal, optionally narrowed to one
// guesthouse. A manager asking for a foreign guesthouse gets an empty page.
func (service *Service) List(ctx context.Context, principal *access.Principal, filter Filter, params pagination.Params) (*Page, error) {
	if err := access.Check(principal, access.ListRooms, access.Resource{}); err != nil {
		return nil, err
	}

	filter.ManagerID = access.Scope(principal)
	filter.Query = strings.TrimSpace(filter.Query)

	guesthouseKey := "any"
	if filter.GuesthouseID != nil {
		guesthouseKey = *filter.GuesthouseID
	}

	key := cache.Key(cache.NamespaceRooms, access.ScopeKey(principal), guesthouseKey,
		strconv.Itoa(params.Page), strconv.Itoa(params.Limit), filter.Query)

	return cache.Load(ctx, service.views, key, func(ctx context.Context) (*Page, error) {
		items, total, err := service.repo.List(ctx, filter, params.Limit, params.Offset())
		if err != nil {
			return nil, err
		}
		return &Page{Items: items, Total: total}, nil
	})
}

// Get is uncached; the owning manager is checked against the current row.
func (service *Service) Get(context context.Context, principal *access.Principal, id string) (*Room, error) {
	if err := access.Authenticated(principal); err != nil {
		return nil, err
	}

	room, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	if err := access.Check(principal, access.ViewRoom, access.Owned(room.ManagerID)); err != nil {
		return nil, err
	}
	return room, nil
}

func (service *Service) Create(context context.Context, principal *access.Principal, input Input) (*Room, error) {
	if err := access.Authenticated(principal); err != nil {
		return nil, err
	}

	room, err := normalize(input)
	if err != nil {
		return nil, err
	}

	guesthouseID := strings.TrimSpace(input.GuesthouseID)
	validator := &validate.Validator{}
	validator.Required(FieldGuesthouseID, guesthouseID)
	if guesthouseID != "" {
		validator.UUID(FieldGuesthouseID, guesthouseID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	parent, err := service.repo.Parent(context, guesthouseID)
	if err != nil {
		return nil, err
	}

	if err := access.Check(principal, access.CreateRoom, access.Owned(parent.ManagerID)); err != nil {
		return nil, err
	}

	room.ID = uuid.New()
	room.GuesthouseID = guesthouseID
	room.GuesthouseName = parent.Name
	room.ManagerID = parent.ManagerID

	if err := service.repo.Create(context, room); err != nil {
		return nil, err
	}

	service.views.Invalidate(context, cache.NamespaceRooms, cache.NamespaceDashboard)

	service.logger.Info("room_created",
		slog.String("room_id", room.ID),
		slog.String("guesthouse_id", guesthouseID),
		slog.String("created_by", principal.ID),
	)
	return room, nil
}

// Update rewrites the room's own fields. The owning guesthouse never changes.
func (service *Service) Update(context context.Context, principal *access.Principal, id string, input Input) (*Room, error) {
	if err := access.Authenticated(principal); err != nil {
		return nil, err
	}

	changes, err := normalize(input)
	if err != nil {
		return nil, err
	}

	existing, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	if err := access.Check(principal, access.UpdateRoom, access.Owned(existing.ManagerID)); err != nil {
		return nil, err
	}

	existing.Name = changes.Name
	existing.Description = changes.Description
	existing.Capacity = changes.Capacity
	existing.PricePerNight = changes.PricePerNight

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.views.Invalidate(context, cache.NamespaceRooms)

	service.logger.Info("room_updated", slog.String("room_id", id))
	return existing, nil
}

// Delete removes the room; its availability rows cascade.
func (service *Service) Delete(context context.Context, principal *access.Principal, id string) error {
	if err := access.Authenticated(principal); err != nil {
		return err
	}

	existing, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}

	if err := access.Check(principal, access.DeleteRoom, access.Owned(existing.ManagerID)); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.views.Invalidate(context, cache.NamespaceRooms, cache.NamespaceDashboard)

	service.logger.Warn("room_deleted",
		slog.String("room_id", id),
		slog.String("guesthouse_id", existing.GuesthouseID),
	)
	return nil
}

// normalize trims input and validates the room's own fields.
func normalize(input Input) (*Room, error) {
	room := &Room{
		Name:          strings.TrimSpace(input.Name),
		Capacity:      defaultCapacity,
		PricePerNight: input.PricePerNight,
	}
	if input.Description != nil {
		if text := strings.TrimSpace(*input.Description); text != "" {
			room.Description = &text
		}
	}
	if input.Capacity != nil {
		room.Capacity = *input.Capacity
	}

	validator := &validate.Validator{}
	validator.
		Required(FieldName, room.Name).
		MaxLen(FieldName, room.Name, maxNameLength).
		Min(FieldCapacity, room.Capacity, 1).
		NonNegative(FieldPricePerNight, room.PricePerNight)

	if err := validator.Err(); err != nil {
		return nil, err
	}
	return room, nil
}
