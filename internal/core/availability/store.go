package availability

import (
	"context"

	"cloud.google.com/go/civil"
)

type Repository interface {
	// RoomOwner returns the manager of the room's guesthouse, or NotFound.
	RoomOwner(context context.Context, roomID string) (*string, error)

	// Upsert writes a single day. Each call is atomic on its own.
	Upsert(context context.Context, roomID string, date civil.Date, change Change) error

	// ListRange returns stored days between start and end inclusive, ordered by date.
	ListRange(context context.Context, roomID string, start, end civil.Date) ([]Day, error)
}
