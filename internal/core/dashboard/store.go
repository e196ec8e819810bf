package dashboard

import "context"

type Repository interface {
	// Counts returns entity counts, limited to guesthouses managed by managerID when set.
	Counts(context context.Context, managerID *string) (*Stats, error)
	CountUsers(context context.Context) (int, error)
}
