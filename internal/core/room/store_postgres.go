package room

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
	rooms  = goqu.T(schema.Rooms.Table).As("r")
	houses = goqu.T(schema.Guesthouses.Table).As("g")
)

func listDataset(filter Filter) *goqu.SelectDataset {
	ds := dialect.From(rooms).
		InnerJoin(houses, goqu.On(rooms.Col(schema.Rooms.GuesthouseID).Eq(houses.Col(schema.Guesthouses.ID)))).
		Prepared(true)

	// Scope and guesthouse filter combine; neither replaces the other.
	if filter.ManagerID != nil {
		ds = ds.Where(houses.Col(schema.Guesthouses.ManagerID).Eq(*filter.ManagerID))
	}
	if filter.GuesthouseID != nil {
		ds = ds.Where(rooms.Col(schema.Rooms.GuesthouseID).Eq(*filter.GuesthouseID))
	}
	if filter.Query != "" {
		ds = ds.Where(rooms.Col(schema.Rooms.Name).ILike("%" + filter.Query + "%"))
	}

	return ds
}

func buildListQuery(filter Filter, limit, offset int) (string, []any, error) {
	return listDataset(filter).
		Select(
			rooms.Col(schema.Rooms.ID), rooms.Col(schema.Rooms.GuesthouseID),
			houses.Col(schema.Guesthouses.Name), houses.Col(schema.Guesthouses.ManagerID),
			rooms.Col(schema.Rooms.Name), rooms.Col(schema.Rooms.Description),
			rooms.Col(schema.Rooms.Capacity), rooms.Col(schema.Rooms.PricePerNight),
			rooms.Col(schema.Rooms.CreatedAt), rooms.Col(schema.Rooms.UpdatedAt),
		).
		Order(rooms.Col(schema.Rooms.CreatedAt).Desc(), rooms.Col(schema.Rooms.ID).Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
}

func buildCountQuery(filter Filter) (string, []any, error) {
	return listDataset(filter).Select(goqu.COUNT(goqu.Star())).ToSQL()
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Room, int, error) {
	countSQL, countArgs, err := buildCountQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("build_count_rooms: %w", err)
	}

	var total int
	if err := repository.db.QueryRow(context, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_rooms")
	}

	listSQL, args, err := buildListQuery(filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("build_list_rooms: %w", err)
	}

	rows, err := repository.db.Query(context, listSQL, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_rooms")
	}
	defer rows.Close()

	result := []*Room{}
	for rows.Next() {
		r := &Room{}
		if err := rows.Scan(
			&r.ID, &r.GuesthouseID, &r.GuesthouseName, &r.ManagerID,
			&r.Name, &r.Description, &r.Capacity, &r.PricePerNight,
			&r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_room")
		}
		result = append(result, r)
	}

	return result, total, dberr.Wrap(rows.Err(), "list_rooms")
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Room, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, g.%s, g.%s, r.%s, r.%s, r.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s g ON g.%s = r.%s
		WHERE r.%s = $1
	`,
		schema.Rooms.ID, schema.Rooms.GuesthouseID,
		schema.Guesthouses.Name, schema.Guesthouses.ManagerID,
		schema.Rooms.Name, schema.Rooms.Description, schema.Rooms.Capacity, schema.Rooms.PricePerNight,
		schema.Rooms.CreatedAt, schema.Rooms.UpdatedAt,
		schema.Rooms.Table, schema.Guesthouses.Table, schema.Guesthouses.ID, schema.Rooms.GuesthouseID,
		schema.Rooms.ID,
	)

	r := &Room{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&r.ID, &r.GuesthouseID, &r.GuesthouseName, &r.ManagerID,
		&r.Name, &r.Description, &r.Capacity, &r.PricePerNight,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.NotFoundAs(dberr.Wrap(err, "get_room"), "Room")
	}
	return r, nil
}

func (repository *PostgresRepository) Create(context context.Context, r *Room) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s
	`,
		schema.Rooms.Table,
		schema.Rooms.ID, schema.Rooms.GuesthouseID, schema.Rooms.Name,
		schema.Rooms.Description, schema.Rooms.Capacity, schema.Rooms.PricePerNight,
		schema.Rooms.CreatedAt, schema.Rooms.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		r.ID, r.GuesthouseID, r.Name, r.Description, r.Capacity, r.PricePerNight,
	).Scan(&r.CreatedAt, &r.UpdatedAt)

	// A guesthouse deleted between the parent check and the insert surfaces as a FK violation.
	return dberr.NotFoundAs(dberr.Wrap(err, "create_room"), "Guesthouse")
}

func (repository *PostgresRepository) Update(context context.Context, r *Room) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.Rooms.Table,
		schema.Rooms.Name, schema.Rooms.Description, schema.Rooms.Capacity, schema.Rooms.PricePerNight,
		schema.Rooms.UpdatedAt,
		schema.Rooms.ID,
		schema.Rooms.CreatedAt, schema.Rooms.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		r.ID, r.Name, r.Description, r.Capacity, r.PricePerNight,
	).Scan(&r.CreatedAt, &r.UpdatedAt)

	return dberr.NotFoundAs(dberr.Wrap(err, "update_room"), "Room")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Rooms.Table, schema.Rooms.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_room")
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFoundAs(dberr.ErrNotFound, "Room")
	}
	return nil
}

func (repository *PostgresRepository) Parent(context context.Context, guesthouseID string) (*Parent, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		schema.Guesthouses.Name, schema.Guesthouses.ManagerID,
		schema.Guesthouses.Table, schema.Guesthouses.ID,
	)

	parent := &Parent{}
	if err := repository.db.QueryRow(context, query, guesthouseID).Scan(&parent.Name, &parent.ManagerID); err != nil {
		return nil, dberr.NotFoundAs(dberr.Wrap(err, "get_room_parent"), "Guesthouse")
	}
	return parent, nil
}
