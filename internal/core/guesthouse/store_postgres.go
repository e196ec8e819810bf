package guesthouse

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"

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
	houses   = goqu.T(schema.Guesthouses.Table).As("g")
	managers = goqu.T(schema.Users.Table).As("u")
)

// listDataset is the manager-joined listing both the page and the count share.
func listDataset(filter Filter) *goqu.SelectDataset {
	ds := dialect.From(houses).
		LeftJoin(managers, goqu.On(houses.Col(schema.Guesthouses.ManagerID).Eq(managers.Col(schema.Users.ID)))).
		Prepared(true)

	if filter.ManagerID != nil {
		ds = ds.Where(houses.Col(schema.Guesthouses.ManagerID).Eq(*filter.ManagerID))
	}

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		ds = ds.Where(goqu.Or(
			houses.Col(schema.Guesthouses.Name).ILike(pattern),
			houses.Col(schema.Guesthouses.City).ILike(pattern),
		))
	}

	return ds
}

func buildListQuery(filter Filter, limit, offset int) (string, []any, error) {
	return listDataset(filter).
		Select(
			houses.Col(schema.Guesthouses.ID), houses.Col(schema.Guesthouses.Name),
			houses.Col(schema.Guesthouses.Description), houses.Col(schema.Guesthouses.Address),
			houses.Col(schema.Guesthouses.City), houses.Col(schema.Guesthouses.Country),
			houses.Col(schema.Guesthouses.ManagerID),
			managers.Col(schema.Users.FullName), managers.Col(schema.Users.Email),
			houses.Col(schema.Guesthouses.CreatedAt), houses.Col(schema.Guesthouses.UpdatedAt),
		).
		Order(houses.Col(schema.Guesthouses.CreatedAt).Desc(), houses.Col(schema.Guesthouses.ID).Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
}

func buildCountQuery(filter Filter) (string, []any, error) {
	return listDataset(filter).Select(goqu.COUNT(goqu.Star())).ToSQL()
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Guesthouse, int, error) {
	countSQL, countArgs, err := buildCountQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("build_count_guesthouses: %w", err)
	}

	var total int
	if err := repository.db.QueryRow(context, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_guesthouses")
	}

	listSQL, args, err := buildListQuery(filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("build_list_guesthouses: %w", err)
	}

	rows, err := repository.db.Query(context, listSQL, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_guesthouses")
	}
	defer rows.Close()

	guesthouses := []*Guesthouse{}
	for rows.Next() {
		g := &Guesthouse{}
		if err := rows.Scan(
			&g.ID, &g.Name, &g.Description, &g.Address, &g.City, &g.Country,
			&g.ManagerID, &g.ManagerName, &g.ManagerEmail, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_guesthouse")
		}
		guesthouses = append(guesthouses, g)
	}

	return guesthouses, total, dberr.Wrap(rows.Err(), "list_guesthouses")
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Guesthouse, error) {
	query := fmt.Sprintf(`
		SELECT g.%s, g.%s, g.%s, g.%s, g.%s, g.%s, g.%s, u.%s, u.%s, g.%s, g.%s
		FROM %s g
		LEFT JOIN %s u ON u.%s = g.%s
		WHERE g.%s = $1
	`,
		schema.Guesthouses.ID, schema.Guesthouses.Name, schema.Guesthouses.Description,
		schema.Guesthouses.Address, schema.Guesthouses.City, schema.Guesthouses.Country,
		schema.Guesthouses.ManagerID, schema.Users.FullName, schema.Users.Email,
		schema.Guesthouses.CreatedAt, schema.Guesthouses.UpdatedAt,
		schema.Guesthouses.Table, schema.Users.Table, schema.Users.ID, schema.Guesthouses.ManagerID,
		schema.Guesthouses.ID,
	)

	g := &Guesthouse{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&g.ID, &g.Name, &g.Description, &g.Address, &g.City, &g.Country,
		&g.ManagerID, &g.ManagerName, &g.ManagerEmail, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.NotFoundAs(dberr.Wrap(err, "get_guesthouse"), "Guesthouse")
	}
	return g, nil
}

func (repository *PostgresRepository) Create(context context.Context, g *Guesthouse) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s
	`,
		schema.Guesthouses.Table,
		schema.Guesthouses.ID, schema.Guesthouses.Name, schema.Guesthouses.Description,
		schema.Guesthouses.Address, schema.Guesthouses.City, schema.Guesthouses.Country,
		schema.Guesthouses.ManagerID,
		schema.Guesthouses.CreatedAt, schema.Guesthouses.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		g.ID, g.Name, g.Description, g.Address, g.City, g.Country, g.ManagerID,
	).Scan(&g.CreatedAt, &g.UpdatedAt)

	return dberr.Wrap(err, "create_guesthouse")
}

func (repository *PostgresRepository) Update(context context.Context, g *Guesthouse) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.Guesthouses.Table,
		schema.Guesthouses.Name, schema.Guesthouses.Description, schema.Guesthouses.Address,
		schema.Guesthouses.City, schema.Guesthouses.Country, schema.Guesthouses.ManagerID,
		schema.Guesthouses.UpdatedAt,
		schema.Guesthouses.ID,
		schema.Guesthouses.CreatedAt, schema.Guesthouses.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		g.ID, g.Name, g.Description, g.Address, g.City, g.Country, g.ManagerID,
	).Scan(&g.CreatedAt, &g.UpdatedAt)

	return dberr.NotFoundAs(dberr.Wrap(err, "update_guesthouse"), "Guesthouse")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) ([]string, error) {
	photosQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Photos.URL, schema.Photos.Table, schema.Photos.GuesthouseID,
	)
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Guesthouses.Table, schema.Guesthouses.ID)

	var urls []string
	err := postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(context, photosQuery, id)
		if err != nil {
			return err
		}
		urls, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}

		tag, err := tx.Exec(context, deleteQuery, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return dberr.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, dberr.NotFoundAs(dberr.Wrap(err, "delete_guesthouse"), "Guesthouse")
	}

	return urls, nil
}

func (repository *PostgresRepository) ManagerExists(context context.Context, userID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.Users.Table, schema.Users.ID)

	var exists bool
	if err := repository.db.QueryRow(context, query, userID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_manager")
	}
	return exists, nil
}
