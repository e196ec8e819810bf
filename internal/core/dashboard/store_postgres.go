package dashboard

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/taibuivan/innkeep/internal/platform/database/schema"
	"github.com/taibuivan/innkeep/internal/platform/dberr"
	"github.com/taibuivan/innkeep/internal/platform/postgres"
)

var dialect = goqu.Dialect("postgres")

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	houses = goqu.T(schema.Guesthouses.Table).As("g")
	rooms  = goqu.T(schema.Rooms.Table).As("r")
	photos = goqu.T(schema.Photos.Table).As("p")
)

// buildCountsQuery counts the three entity tables in one round trip, each
// through the owning guesthouse so the manager scope applies uniformly.
func buildCountsQuery(managerID *string) (string, []any, error) {
	count := goqu.COUNT(goqu.Star())

	houseCount := dialect.From(houses).Select(count)
	roomCount := dialect.From(rooms).
		InnerJoin(houses, goqu.On(rooms.Col(schema.Rooms.GuesthouseID).Eq(houses.Col(schema.Guesthouses.ID)))).
		Select(count)
	photoCount := dialect.From(photos).
		InnerJoin(houses, goqu.On(photos.Col(schema.Photos.GuesthouseID).Eq(houses.Col(schema.Guesthouses.ID)))).
		Select(count)

	if managerID != nil {
		scope := houses.Col(schema.Guesthouses.ManagerID).Eq(*managerID)
		houseCount = houseCount.Where(scope)
		roomCount = roomCount.Where(scope)
		photoCount = photoCount.Where(scope)
	}

	return dialect.Select(
		houseCount.As("guesthouses"),
		roomCount.As("rooms"),
		photoCount.As("photos"),
	).Prepared(true).ToSQL()
}

func (repository *PostgresRepository) Counts(context context.Context, managerID *string) (*Stats, error) {
	query, args, err := buildCountsQuery(managerID)
	if err != nil {
		return nil, fmt.Errorf("build_dashboard_counts: %w", err)
	}

	stats := &Stats{}
	if err := repository.db.QueryRow(context, query, args...).Scan(&stats.Guesthouses, &stats.Rooms, &stats.Photos); err != nil {
		return nil, dberr.Wrap(err, "dashboard_counts")
	}
	return stats, nil
}

func (repository *PostgresRepository) CountUsers(context context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.Users.Table)

	var total int
	if err := repository.db.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_users")
	}
	return total, nil
}
