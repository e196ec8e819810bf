package guesthouse_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/innkeep/internal/core/guesthouse"
	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/apperr"
	"github.com/taibuivan/innkeep/internal/platform/cache"
	"github.com/taibuivan/innkeep/internal/platform/sec"
	"github.com/taibuivan/innkeep/pkg/pagination"
	"github.com/taibuivan/innkeep/pkg/pointer"
)

const (
	managerA = "0190a0b0-0000-7000-8000-00000000000a"
	managerB = "0190a0b0-0000-7000-8000-00000000000b"
	ghostID  = "0190a0b0-0000-7000-8000-0000000000ff"
)

var (
	admin    = &access.Principal{ID: "admin-1", Role: sec.RoleAdmin}
	manager  = &access.Principal{ID: managerA, Role: sec.RoleManager}
	allPages = pagination.Params{Page: 1, Limit: 20}
)

// memoryRepository is an in-memory [guesthouse.Repository].
type memoryRepository struct {
	houses   map[string]*guesthouse.Guesthouse
	order    []string
	photos   map[string][]string
	managers map[string]bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		houses:   map[string]*guesthouse.Guesthouse{},
		photos:   map[string][]string{},
		managers: map[string]bool{managerA: true, managerB: true},
	}
}

func (m *memoryRepository) List(_ context.Context, filter guesthouse.Filter, limit, offset int) ([]*guesthouse.Guesthouse, int, error) {
	items := []*guesthouse.Guesthouse{}
	for _, id := range m.order {
		house := m.houses[id]
		if filter.ManagerID != nil && (house.ManagerID == nil || *house.ManagerID != *filter.ManagerID) {
			continue
		}
		items = append(items, house)
	}
	return items, len(items), nil
}

func (m *memoryRepository) Get(_ context.Context, id string) (*guesthouse.Guesthouse, error) {
	house, ok := m.houses[id]
	if !ok {
		return nil, apperr.NotFound("Guesthouse")
	}
	return house, nil
}

func (m *memoryRepository) Create(_ context.Context, house *guesthouse.Guesthouse) error {
	m.houses[house.ID] = house
	m.order = append(m.order, house.ID)
	return nil
}

func (m *memoryRepository) Update(_ context.Context, house *guesthouse.Guesthouse) error {
	if _, ok := m.houses[house.ID]; !ok {
		return apperr.NotFound("Guesthouse")
	}
	m.houses[house.ID] = house
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id string) ([]string, error) {
	if _, ok := m.houses[id]; !ok {
		return nil, apperr.NotFound("Guesthouse")
	}
	delete(m.houses, id)
	return m.photos[id], nil
}

func (m *memoryRepository) ManagerExists(_ context.Context, userID string) (bool, error) {
	return m.managers[userID], nil
}

type recordingCleaner struct {
	urls []string
}

func (r *recordingCleaner) DeleteBlobs(_ context.Context, urls []string) {
	r.urls = append(r.urls, urls...)
}

func newService() (*guesthouse.Service, *memoryRepository, *recordingCleaner) {
	repo := newMemoryRepository()
	cleaner := &recordingCleaner{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return guesthouse.NewService(repo, cleaner, nil, logger), repo, cleaner
}

func newCachedService(t *testing.T) (*guesthouse.Service, *memoryRepository) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	views := cache.New(client, time.Minute, nil, logger)

	repo := newMemoryRepository()
	return guesthouse.NewService(repo, &recordingCleaner{}, views, logger), repo
}

/*
TestList_ManagerScoping verifies managers never see foreign guesthouses.
*/
func TestList_ManagerScoping(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()

	for _, input := range []guesthouse.Input{
		{Name: "Seaside", ManagerID: pointer.To(managerA)},
		{Name: "Hillside", ManagerID: pointer.To(managerB)},
		{Name: "Unmanaged"},
	} {
		_, err := service.Create(ctx, admin, input)
		require.NoError(t, err)
	}

	all, err := service.List(ctx, admin, guesthouse.Filter{}, allPages)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)

	own, err := service.List(ctx, manager, guesthouse.Filter{}, allPages)
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
	assert.Equal(t, "Seaside", own.Items[0].Name)

	// A manager cannot widen the scope through the filter.
	own, err = service.List(ctx, manager, guesthouse.Filter{ManagerID: pointer.To(managerB)}, allPages)
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
	assert.Equal(t, "Seaside", own.Items[0].Name)

	_, err = service.List(ctx, nil, guesthouse.Filter{}, allPages)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

/*
TestCreate_Authorization covers anonymous, manager and admin callers.
*/
func TestCreate_Authorization(t *testing.T) {
	ctx := context.Background()
	service, repo, _ := newService()

	_, err := service.Create(ctx, nil, guesthouse.Input{Name: "Seaside"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = service.Create(ctx, manager, guesthouse.Input{Name: "Seaside"})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
	assert.Empty(t, repo.houses)

	created, err := service.Create(ctx, admin, guesthouse.Input{
		Name:        "  Seaside  ",
		City:        pointer.To("Da Nang"),
		Description: pointer.To("   "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Seaside", created.Name)
	assert.Nil(t, created.Description)
	assert.NotEmpty(t, created.ID)
}

/*
TestCreate_Validation rejects blank names and unknown managers.
*/
func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()

	tests := []struct {
		name  string
		input guesthouse.Input
	}{
		{"blank_name", guesthouse.Input{Name: "  "}},
		{"malformed_manager", guesthouse.Input{Name: "Seaside", ManagerID: pointer.To("not-a-uuid")}},
		{"unknown_manager", guesthouse.Input{Name: "Seaside", ManagerID: pointer.To(ghostID)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, admin, tt.input)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
		})
	}
}

/*
TestGet_Ownership lets managers read only what they manage.
*/
func TestGet_Ownership(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()

	own, err := service.Create(ctx, admin, guesthouse.Input{Name: "Seaside", ManagerID: pointer.To(managerA)})
	require.NoError(t, err)
	foreign, err := service.Create(ctx, admin, guesthouse.Input{Name: "Hillside", ManagerID: pointer.To(managerB)})
	require.NoError(t, err)

	got, err := service.Get(ctx, manager, own.ID)
	require.NoError(t, err)
	assert.Equal(t, "Seaside", got.Name)

	_, err = service.Get(ctx, manager, foreign.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = service.Get(ctx, admin, ghostID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestUpdate_AdminOnly checks managers cannot edit even their own guesthouse.
*/
func TestUpdate_AdminOnly(t *testing.T) {
	ctx := context.Background()
	service, repo, _ := newService()

	house, err := service.Create(ctx, admin, guesthouse.Input{Name: "Seaside", ManagerID: pointer.To(managerA)})
	require.NoError(t, err)

	_, err = service.Update(ctx, manager, house.ID, guesthouse.Input{Name: "Renamed"})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	updated, err := service.Update(ctx, admin, house.ID, guesthouse.Input{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Nil(t, repo.houses[house.ID].ManagerID, "an omitted manager unassigns")

	_, err = service.Update(ctx, admin, ghostID, guesthouse.Input{Name: "Renamed"})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestDelete_CleansPhotoBlobs hands the cascaded photo URLs to the cleaner.
*/
func TestDelete_CleansPhotoBlobs(t *testing.T) {
	ctx := context.Background()
	service, repo, cleaner := newService()

	house, err := service.Create(ctx, admin, guesthouse.Input{Name: "Seaside"})
	require.NoError(t, err)
	repo.photos[house.ID] = []string{"/media/guesthouse-1/a.jpg", "/media/guesthouse-1/b.jpg"}

	err = service.Delete(ctx, manager, house.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	require.NoError(t, service.Delete(ctx, admin, house.ID))
	assert.Empty(t, repo.houses)
	assert.Equal(t, repo.photos[house.ID], cleaner.urls)

	err = service.Delete(ctx, admin, house.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestReassignManager_RevokesCachedAccess moves a guesthouse to another manager
while views are cached; the previous manager must lose access at once.
*/
func TestReassignManager_RevokesCachedAccess(t *testing.T) {
	ctx := context.Background()
	service, _ := newCachedService(t)
	other := &access.Principal{ID: managerB, Role: sec.RoleManager}

	house, err := service.Create(ctx, admin, guesthouse.Input{Name: "Seaside", ManagerID: pointer.To(managerA)})
	require.NoError(t, err)

	_, err = service.Get(ctx, manager, house.ID)
	require.NoError(t, err)
	own, err := service.List(ctx, manager, guesthouse.Filter{}, allPages)
	require.NoError(t, err)
	require.Len(t, own.Items, 1)

	_, err = service.Update(ctx, admin, house.ID, guesthouse.Input{Name: "Seaside", ManagerID: pointer.To(managerB)})
	require.NoError(t, err)

	_, err = service.Get(ctx, manager, house.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	own, err = service.List(ctx, manager, guesthouse.Filter{}, allPages)
	require.NoError(t, err)
	assert.Empty(t, own.Items)

	got, err := service.Get(ctx, other, house.ID)
	require.NoError(t, err)
	assert.Equal(t, managerB, *got.ManagerID)
}

/*
TestGet_ReadsStorage verifies details always come from storage, even with a
view cache configured.
*/
func TestGet_ReadsStorage(t *testing.T) {
	ctx := context.Background()
	service, repo := newCachedService(t)

	house, err := service.Create(ctx, admin, guesthouse.Input{Name: "Seaside", ManagerID: pointer.To(managerA)})
	require.NoError(t, err)

	_, err = service.Get(ctx, manager, house.ID)
	require.NoError(t, err)

	// A write that bypasses the service leaves no cache entry to go stale.
	repo.houses[house.ID] = &guesthouse.Guesthouse{ID: house.ID, Name: "Seaside", ManagerID: pointer.To(managerB)}

	_, err = service.Get(ctx, manager, house.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}
