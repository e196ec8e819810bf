package guesthouse

import "context"

type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Guesthouse, int, error)
	Get(context context.Context, id string) (*Guesthouse, error)
	Create(context context.Context, guesthouse *Guesthouse) error
	Update(context context.Context, guesthouse *Guesthouse) error

	// Delete removes the guesthouse (rooms, availability and photos cascade)
	// and returns the URLs of the photos that were attached to it.
	Delete(context context.Context, id string) ([]string, error)

	ManagerExists(context context.Context, userID string) (bool, error)
}
