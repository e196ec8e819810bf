package room

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/innkeep/internal/platform/apperr"
	"github.com/taibuivan/innkeep/pkg/pointer"
)

/*
TestBuildListQuery asserts scope and guesthouse filter are both applied.
*/
func TestBuildListQuery(t *testing.T) {
	sql, args, err := buildListQuery(Filter{
		ManagerID:    pointer.To("manager-1"),
		GuesthouseID: pointer.To("gh-2"),
	}, 20, 0)
	require.NoError(t, err)

	assert.Contains(t, sql, `INNER JOIN "guesthouses" AS "g" ON ("r"."guesthouse_id" = "g"."id")`)
	assert.Contains(t, sql, `("g"."manager_id" = $1)`)
	assert.Contains(t, sql, `("r"."guesthouse_id" = $2)`)
	require.GreaterOrEqual(t, len(args), 2)
	assert.Equal(t, "manager-1", args[0])
	assert.Equal(t, "gh-2", args[1])

	sql, _, err = buildCountQuery(Filter{})
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT COUNT(*)")
	assert.NotContains(t, sql, "WHERE")
}

/*
TestPostgresRepository_Get scans the joined guesthouse fields.
*/
func TestPostgresRepository_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT r.id, r.guesthouse_id, g.name, g.manager_id").
		WithArgs("room-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "guesthouse_id", "name", "manager_id", "name", "description",
			"capacity", "price_per_night", "created_at", "updated_at",
		}).AddRow("room-1", "gh-1", "Seaside", pointer.To("manager-1"), "Ocean View", nil,
			2, pointer.To(89.5), now, now))

	repository := NewPostgresRepository(mock)
	got, err := repository.Get(context.Background(), "room-1")
	require.NoError(t, err)

	assert.Equal(t, "Seaside", got.GuesthouseName)
	assert.Equal(t, "manager-1", *got.ManagerID)
	assert.Equal(t, 2, got.Capacity)
	assert.Equal(t, 89.5, *got.PricePerNight)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_Delete maps zero affected rows to NotFound.
*/
func TestPostgresRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repository := NewPostgresRepository(mock)

	mock.ExpectExec("DELETE FROM rooms WHERE id = \\$1").
		WithArgs("room-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repository.Delete(context.Background(), "room-1"))

	mock.ExpectExec("DELETE FROM rooms").
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	err = repository.Delete(context.Background(), "ghost")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Equal(t, "Room not found", err.Error())

	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_Parent reports a missing guesthouse.
*/
func TestPostgresRepository_Parent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT name, manager_id FROM guesthouses").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"name", "manager_id"}))

	_, err = NewPostgresRepository(mock).Parent(context.Background(), "ghost")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Equal(t, "Guesthouse not found", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}
