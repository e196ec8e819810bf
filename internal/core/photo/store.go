package photo

import "context"

type Repository interface {
	// GuesthouseOwner returns the guesthouse's manager, or NotFound.
	GuesthouseOwner(context context.Context, guesthouseID string) (*string, error)

	// Create inserts the photo at the end of its gallery and fills DisplayOrder and CreatedAt.
	Create(context context.Context, photo *Photo) error

	Get(context context.Context, id string) (*Photo, error)
	List(context context.Context, guesthouseID string) ([]*Photo, error)
	UpdateCaption(context context.Context, id string, caption *string) (*Photo, error)
	Delete(context context.Context, id string) error

	// Reorder sets display_order to each id's position, all or nothing.
	Reorder(context context.Context, guesthouseID string, orderedIDs []string) error

	// URLs returns the URL of every photo row.
	URLs(context context.Context) ([]string, error)
}
