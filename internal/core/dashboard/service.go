package dashboard

import (
	"context"

	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/cache"
)

type Service struct {
	repo  Repository
	views *cache.Views
}

func NewService(repo Repository, views *cache.Views) *Service {
	return &Service{repo: repo, views: views}
}

// Stats returns the counts visible to principal. Managers see their own
// guesthouses only; the user count is for admins.
func (service *Service) Stats(ctx context.Context, principal *access.Principal) (*Stats, error) {
	if err := access.Check(principal, access.ViewDashboard, access.Resource{}); err != nil {
		return nil, err
	}

	key := cache.Key(cache.NamespaceDashboard, access.ScopeKey(principal))

	return cache.Load(ctx, service.views, key, func(ctx context.Context) (*Stats, error) {
		stats, err := service.repo.Counts(ctx, access.Scope(principal))
		if err != nil {
			return nil, err
		}

		if principal.IsAdmin() {
			users, err := service.repo.CountUsers(ctx)
			if err != nil {
				return nil, err
			}
			stats.Users = &users
		}
		return stats, nil
	})
}
