package room

import "context"

type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Room, int, error)
	Get(context context.Context, id string) (*Room, error)
	Create(context context.Context, room *Room) error
	Update(context context.Context, room *Room) error
	Delete(context context.Context, id string) error

	// Parent loads the guesthouse a room is (or will be) attached to.
	Parent(context context.Context, guesthouseID string) (*Parent, error)
}
