package availability

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/taibuivan/innkeep/internal/platform/database/schema"
	"github.com/taibuivan/innkeep/internal/platform/dberr"
	"github.com/taibuivan/innkeep/internal/platform/postgres"
	"github.com/taibuivan/innkeep/pkg/uuid"
)

type PostgresRepository struct {
	db postgres.DB
}

func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// sqlDate maps a calendar date onto the value pgx encodes as DATE.
func sqlDate(date civil.Date) time.Time {
	return date.In(time.UTC)
}

func (repository *PostgresRepository) RoomOwner(context context.Context, roomID string) (*string, error) {
	query := fmt.Sprintf(`
		SELECT g.%s
		FROM %s r
		JOIN %s g ON g.%s = r.%s
		WHERE r.%s = $1
	`,
		schema.Guesthouses.ManagerID,
		schema.Rooms.Table, schema.Guesthouses.Table, schema.Guesthouses.ID, schema.Rooms.GuesthouseID,
		schema.Rooms.ID,
	)

	var managerID *string
	if err := repository.db.QueryRow(context, query, roomID).Scan(&managerID); err != nil {
		return nil, dberr.NotFoundAs(dberr.Wrap(err, "get_room_owner"), "Room")
	}
	return managerID, nil
}

func (repository *PostgresRepository) Upsert(context context.Context, roomID string, date civil.Date, change Change) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s
	`,
		schema.RoomAvailability.Table,
		schema.RoomAvailability.ID, schema.RoomAvailability.RoomID, schema.RoomAvailability.Date,
		schema.RoomAvailability.IsAvailable, schema.RoomAvailability.Notes,
		schema.RoomAvailability.RoomID, schema.RoomAvailability.Date,
		schema.RoomAvailability.IsAvailable, schema.RoomAvailability.IsAvailable,
		schema.RoomAvailability.Notes, schema.RoomAvailability.Notes,
	)

	_, err := repository.db.Exec(context, query,
		uuid.New(), roomID, sqlDate(date), change.IsAvailable, change.Notes,
	)

	// The room vanished mid-update (cascade) if the FK fails here.
	return dberr.NotFoundAs(dberr.Wrap(err, "upsert_availability"), "Room")
}

func (repository *PostgresRepository) ListRange(context context.Context, roomID string, start, end civil.Date) ([]Day, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s >= $2 AND %s <= $3
		ORDER BY %s
	`,
		schema.RoomAvailability.Date, schema.RoomAvailability.IsAvailable, schema.RoomAvailability.Notes,
		schema.RoomAvailability.Table,
		schema.RoomAvailability.RoomID, schema.RoomAvailability.Date, schema.RoomAvailability.Date,
		schema.RoomAvailability.Date,
	)

	rows, err := repository.db.Query(context, query, roomID, sqlDate(start), sqlDate(end))
	if err != nil {
		return nil, dberr.Wrap(err, "list_availability")
	}
	defer rows.Close()

	days := []Day{}
	for rows.Next() {
		var (
			date time.Time
			day  = Day{Explicit: true}
		)
		if err := rows.Scan(&date, &day.IsAvailable, &day.Notes); err != nil {
			return nil, dberr.Wrap(err, "scan_availability")
		}
		day.Date = civil.DateOf(date)
		days = append(days, day)
	}

	return days, dberr.Wrap(rows.Err(), "list_availability")
}
