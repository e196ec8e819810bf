package availability_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/innkeep/internal/core/availability"
	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/apperr"
	"github.com/taibuivan/innkeep/internal/platform/metrics"
	"github.com/taibuivan/innkeep/internal/platform/sec"
	"github.com/taibuivan/innkeep/pkg/pointer"
)

const (
	oceanView = "room-ocean-view"
	attic     = "room-attic"
)

var (
	admin   = &access.Principal{ID: "admin-1", Role: sec.RoleAdmin}
	manager = &access.Principal{ID: "manager-1", Role: sec.RoleManager}
)

func date(value string) civil.Date {
	d, err := civil.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

type dayKey struct {
	room string
	date civil.Date
}

// memoryRepository keeps one row per (room, date) like the unique constraint.
type memoryRepository struct {
	owners map[string]*string
	rows   map[dayKey]availability.Change
	writes int

	// failAt makes the n-th upsert (1-based) fail when set.
	failAt int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		owners: map[string]*string{
			oceanView: pointer.To("manager-1"),
			attic:     pointer.To("manager-2"),
		},
		rows: map[dayKey]availability.Change{},
	}
}

func (m *memoryRepository) RoomOwner(_ context.Context, roomID string) (*string, error) {
	owner, ok := m.owners[roomID]
	if !ok {
		return nil, apperr.NotFound("Room")
	}
	return owner, nil
}

func (m *memoryRepository) Upsert(_ context.Context, roomID string, d civil.Date, change availability.Change) error {
	m.writes++
	if m.failAt > 0 && m.writes == m.failAt {
		return apperr.StorageFailure(errors.New("connection reset"))
	}
	m.rows[dayKey{roomID, d}] = change
	return nil
}

func (m *memoryRepository) ListRange(_ context.Context, roomID string, start, end civil.Date) ([]availability.Day, error) {
	days := []availability.Day{}
	for d := start; !d.After(end); d = d.AddDays(1) {
		if change, ok := m.rows[dayKey{roomID, d}]; ok {
			days = append(days, availability.Day{Date: d, IsAvailable: change.IsAvailable, Notes: change.Notes, Explicit: true})
		}
	}
	return days, nil
}

func newService(collector *metrics.Metrics) (*availability.Service, *memoryRepository) {
	repo := newMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return availability.NewService(repo, collector, logger), repo
}

var maintenance = availability.Change{IsAvailable: false, Notes: pointer.To("maintenance")}

/*
TestExpandRange covers ordering, single days and bounds.
*/
func TestExpandRange(t *testing.T) {
	dates, err := availability.ExpandRange(date("2024-02-27"), date("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, []civil.Date{date("2024-02-27"), date("2024-02-28"), date("2024-02-29"), date("2024-03-01")}, dates)

	dates, err = availability.ExpandRange(date("2024-06-01"), date("2024-06-01"))
	require.NoError(t, err)
	assert.Len(t, dates, 1)

	_, err = availability.ExpandRange(date("2024-06-03"), date("2024-06-01"))
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidRange))

	dates, err = availability.ExpandRange(date("2024-01-01"), date("2025-12-31"))
	require.NoError(t, err)
	assert.Len(t, dates, 731)

	_, err = availability.ExpandRange(date("2024-01-01"), date("2026-01-01"))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = availability.ExpandRange(civil.Date{Year: 2024, Month: 2, Day: 30}, date("2024-03-01"))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestSetAvailability_MaintenanceScenario marks Ocean View (Seaside) unavailable
for 2024-06-01..03 and reads it back.
*/
func TestSetAvailability_MaintenanceScenario(t *testing.T) {
	ctx := context.Background()
	collector := metrics.New()
	service, repo := newService(collector)

	written, err := service.SetAvailability(ctx, manager, oceanView, date("2024-06-01"), date("2024-06-03"), maintenance)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	days, err := service.GetAvailability(ctx, manager, oceanView, date("2024-05-31"), date("2024-06-04"))
	require.NoError(t, err)
	require.Len(t, days, 3)
	for i, day := range days {
		assert.Equal(t, date("2024-06-01").AddDays(i), day.Date)
		assert.False(t, day.IsAvailable)
		assert.Equal(t, "maintenance", *day.Notes)
	}

	// Idempotent: the same update leaves the same three rows.
	written, err = service.SetAvailability(ctx, manager, oceanView, date("2024-06-01"), date("2024-06-03"), maintenance)
	require.NoError(t, err)
	assert.Equal(t, 3, written)
	assert.Len(t, repo.rows, 3)

	recorder := httptest.NewRecorder()
	collector.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, recorder.Body.String(), `innkeep_availability_days_written_total{result="written"} 6`)
}

/*
TestSetAvailability_InvalidRangeWritesNothing checks the range is rejected
before the room is even looked up.
*/
func TestSetAvailability_InvalidRangeWritesNothing(t *testing.T) {
	service, repo := newService(nil)

	written, err := service.SetAvailability(context.Background(), admin, "room-missing", date("2024-06-03"), date("2024-06-01"), maintenance)
	assert.Equal(t, 0, written)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidRange))
	assert.Zero(t, repo.writes)

	_, err = service.SetAvailability(context.Background(), admin, "room-missing", date("2024-06-01"), date("2024-06-03"), maintenance)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestSetAvailability_PartialFailure keeps written days and reports how many.
*/
func TestSetAvailability_PartialFailure(t *testing.T) {
	service, repo := newService(nil)
	repo.failAt = 3

	written, err := service.SetAvailability(context.Background(), admin, oceanView, date("2024-06-01"), date("2024-06-05"), maintenance)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeStorageFailure))
	assert.Equal(t, 2, written)
	assert.Len(t, repo.rows, 2)
}

/*
TestSetAvailability_Authorization restricts managers to their own rooms.
*/
func TestSetAvailability_Authorization(t *testing.T) {
	service, repo := newService(nil)

	_, err := service.SetAvailability(context.Background(), manager, attic, date("2024-06-01"), date("2024-06-01"), maintenance)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = service.SetAvailability(context.Background(), nil, oceanView, date("2024-06-01"), date("2024-06-01"), maintenance)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = service.GetAvailability(context.Background(), manager, attic, date("2024-06-01"), date("2024-06-01"))
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = service.SetAvailability(context.Background(), admin, attic, date("2024-06-01"), date("2024-06-01"), maintenance)
	require.NoError(t, err)
	assert.Len(t, repo.rows, 1)
}

/*
TestSetAvailabilityDates dedupes and orders a scattered selection.
*/
func TestSetAvailabilityDates(t *testing.T) {
	service, repo := newService(nil)

	written, err := service.SetAvailabilityDates(context.Background(), manager, oceanView,
		[]civil.Date{date("2024-06-10"), date("2024-06-02"), date("2024-06-10")},
		availability.Change{IsAvailable: true, Notes: pointer.To("   ")},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	change, ok := repo.rows[dayKey{oceanView, date("2024-06-02")}]
	require.True(t, ok)
	assert.Nil(t, change.Notes, "blank notes are stored as NULL")

	_, err = service.SetAvailabilityDates(context.Background(), manager, oceanView, nil, maintenance)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestCalendar fills days without rows as available.
*/
func TestCalendar(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(nil)

	_, err := service.SetAvailability(ctx, admin, oceanView, date("2024-06-01"), date("2024-06-03"), maintenance)
	require.NoError(t, err)

	days, err := service.Calendar(ctx, manager, oceanView, 2024, time.June)
	require.NoError(t, err)
	require.Len(t, days, 30)

	assert.False(t, days[0].IsAvailable)
	assert.True(t, days[0].Explicit)
	assert.True(t, days[3].IsAvailable)
	assert.False(t, days[3].Explicit)
	assert.Equal(t, date("2024-06-30"), days[29].Date)

	february, err := service.Calendar(ctx, admin, oceanView, 2024, time.February)
	require.NoError(t, err)
	assert.Len(t, february, 29)

	_, err = service.Calendar(ctx, admin, oceanView, 2024, 13)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}
