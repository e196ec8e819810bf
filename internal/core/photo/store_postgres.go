package photo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/innkeep/internal/platform/apperr"
	"github.com/taibuivan/innkeep/internal/platform/database/schema"
	"github.com/taibuivan/innkeep/internal/platform/dberr"
	"github.com/taibuivan/innkeep/internal/platform/postgres"
)

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var photoColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s",
	schema.Photos.ID, schema.Photos.GuesthouseID, schema.Photos.URL,
	schema.Photos.Caption, schema.Photos.DisplayOrder, schema.Photos.CreatedAt,
)

func scanPhoto(row pgx.Row) (*Photo, error) {
	p := &Photo{}
	err := row.Scan(&p.ID, &p.GuesthouseID, &p.URL, &p.Caption, &p.DisplayOrder, &p.CreatedAt)
	return p, err
}

func (repository *PostgresRepository) GuesthouseOwner(context context.Context, guesthouseID string) (*string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Guesthouses.ManagerID, schema.Guesthouses.Table, schema.Guesthouses.ID,
	)

	var managerID *string
	if err := repository.db.QueryRow(context, query, guesthouseID).Scan(&managerID); err != nil {
		return nil, dberr.NotFoundAs(dberr.Wrap(err, "get_photo_guesthouse"), "Guesthouse")
	}
	return managerID, nil
}

func (repository *PostgresRepository) Create(context context.Context, p *Photo) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		SELECT $1, $2, $3, $4, COALESCE(MAX(%s) + 1, 0)
		FROM %s
		WHERE %s = $2
		RETURNING %s, %s
	`,
		schema.Photos.Table,
		schema.Photos.ID, schema.Photos.GuesthouseID, schema.Photos.URL,
		schema.Photos.Caption, schema.Photos.DisplayOrder,
		schema.Photos.DisplayOrder,
		schema.Photos.Table,
		schema.Photos.GuesthouseID,
		schema.Photos.DisplayOrder, schema.Photos.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, p.ID, p.GuesthouseID, p.URL, p.Caption).
		Scan(&p.DisplayOrder, &p.CreatedAt)

	return dberr.NotFoundAs(dberr.Wrap(err, "create_photo"), "Guesthouse")
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Photo, error) {
	query := fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, g.%s
		FROM %s p
		JOIN %s g ON g.%s = p.%s
		WHERE p.%s = $1
	`,
		schema.Photos.ID, schema.Photos.GuesthouseID, schema.Photos.URL,
		schema.Photos.Caption, schema.Photos.DisplayOrder, schema.Photos.CreatedAt,
		schema.Guesthouses.ManagerID,
		schema.Photos.Table, schema.Guesthouses.Table, schema.Guesthouses.ID, schema.Photos.GuesthouseID,
		schema.Photos.ID,
	)

	p := &Photo{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&p.ID, &p.GuesthouseID, &p.URL, &p.Caption, &p.DisplayOrder, &p.CreatedAt, &p.ManagerID,
	)
	if err != nil {
		return nil, dberr.NotFoundAs(dberr.Wrap(err, "get_photo"), "Photo")
	}
	return p, nil
}

func (repository *PostgresRepository) List(context context.Context, guesthouseID string) ([]*Photo, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s, %s DESC`,
		photoColumns, schema.Photos.Table, schema.Photos.GuesthouseID,
		schema.Photos.DisplayOrder, schema.Photos.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, guesthouseID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_photos")
	}
	defer rows.Close()

	photos := []*Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_photo")
		}
		photos = append(photos, p)
	}
	return photos, dberr.Wrap(rows.Err(), "list_photos")
}

func (repository *PostgresRepository) UpdateCaption(context context.Context, id string, caption *string) (*Photo, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 RETURNING %s`,
		schema.Photos.Table, schema.Photos.Caption, schema.Photos.ID, photoColumns,
	)

	p, err := scanPhoto(repository.db.QueryRow(context, query, id, caption))
	if err != nil {
		return nil, dberr.NotFoundAs(dberr.Wrap(err, "update_photo_caption"), "Photo")
	}
	return p, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Photos.Table, schema.Photos.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_photo")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Photo")
	}
	return nil
}

func (repository *PostgresRepository) Reorder(context context.Context, guesthouseID string, orderedIDs []string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2 AND %s = $3`,
		schema.Photos.Table, schema.Photos.DisplayOrder, schema.Photos.ID, schema.Photos.GuesthouseID,
	)

	err := postgres.WithTx(context, repository.db, func(tx pgx.Tx) error {
		for position, id := range orderedIDs {
			tag, err := tx.Exec(context, query, position, id, guesthouseID)
			if err != nil {
				return err
			}
			// Unknown id, or a photo of another guesthouse.
			if tag.RowsAffected() == 0 {
				return apperr.NotFound("Photo")
			}
		}
		return nil
	})
	return dberr.Wrap(err, "reorder_photos")
}

func (repository *PostgresRepository) URLs(context context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, schema.Photos.URL, schema.Photos.Table)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_photo_urls")
	}

	urls, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return urls, dberr.Wrap(err, "list_photo_urls")
}
