package dashboard

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/innkeep/pkg/pointer"
)

/*
TestBuildCountsQuery scopes every count through the owning guesthouse.
*/
func TestBuildCountsQuery(t *testing.T) {
	sql, args, err := buildCountsQuery(pointer.To("manager-1"))
	require.NoError(t, err)

	assert.Contains(t, sql, `(SELECT COUNT(*) FROM "guesthouses" AS "g" WHERE ("g"."manager_id" = $1)) AS "guesthouses"`)
	assert.Contains(t, sql, `INNER JOIN "guesthouses" AS "g" ON ("r"."guesthouse_id" = "g"."id") WHERE ("g"."manager_id" = $2)`)
	assert.Contains(t, sql, `AS "photos"`)
	assert.Equal(t, []any{"manager-1", "manager-1", "manager-1"}, args)

	sql, args, err = buildCountsQuery(nil)
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}

func TestPostgresRepository_Counts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT \(SELECT COUNT\(\*\) FROM "guesthouses"`).
		WillReturnRows(pgxmock.NewRows([]string{"guesthouses", "rooms", "photos"}).AddRow(2, 5, 7))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	repository := NewPostgresRepository(mock)

	stats, err := repository.Counts(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{Guesthouses: 2, Rooms: 5, Photos: 7}, *stats)

	users, err := repository.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}
