// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"

	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/apperr"
	"github.com/taibuivan/innkeep/internal/platform/cache"
	"github.com/taibuivan/innkeep/internal/platform/sec"
	"github.com/taibuivan/innkeep/internal/platform/validate"
	"github.com/taibuivan/innkeep/internal/users/auth"
)

// # Service Layer

// Service orchestrates account administration.
type Service struct {
	accountRepository AccountRepository
	views             *cache.Views
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(accountRepo AccountRepository, views *cache.Views, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		views:             views,
		logger:            logger,
	}
}

// ListManagers returns the accounts that can be assigned to guesthouses.
func (service *Service) ListManagers(context context.Context, principal *access.Principal) ([]*auth.User, error) {
	if err := access.Check(principal, access.ManageUsers, access.Resource{}); err != nil {
		return nil, err
	}
	return service.accountRepository.ListByRole(context, sec.RoleManager)
}

/*
ChangeRole promotes or demotes an account.

Admins cannot change their own role, so the last admin cannot lock the
system out by accident.

Returns:
  - *auth.User: The account with its new role
  - error: Forbidden, ValidationError, NotFound or storage failures
*/
func (service *Service) ChangeRole(context context.Context, principal *access.Principal, userID string, role sec.UserRole) (*auth.User, error) {
	if err := access.Check(principal, access.ManageUsers, access.Resource{}); err != nil {
		return nil, err
	}

	if principal.ID == userID {
		return nil, apperr.Forbidden("You cannot change your own role")
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldRole, role.String(), sec.RoleAdmin.String(), sec.RoleManager.String())
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if user.Role == role {
		return user, nil
	}

	if err := service.accountRepository.UpdateRole(context, userID, role); err != nil {
		return nil, err
	}
	user.Role = role

	service.logger.Warn("user_role_changed",
		slog.String("user_id", userID),
		slog.String("role", role.String()),
		slog.String("changed_by", principal.ID),
	)

	return user, nil
}

/*
DeleteUser removes an account.

Guesthouses managed by the account become unmanaged. Cached guesthouse and
room listings scoped to the manager are invalidated.
*/
func (service *Service) DeleteUser(context context.Context, principal *access.Principal, userID string) error {
	if err := access.Check(principal, access.ManageUsers, access.Resource{}); err != nil {
		return err
	}

	if principal.ID == userID {
		return apperr.Forbidden("You cannot delete your own account")
	}

	if err := service.accountRepository.Delete(context, userID); err != nil {
		return err
	}

	service.views.Invalidate(context,
		cache.NamespaceGuesthouses,
		cache.NamespaceRooms,
		cache.NamespaceDashboard,
	)

	service.logger.Warn("user_account_deleted",
		slog.String("user_id", userID),
		slog.String("deleted_by", principal.ID),
	)

	return nil
}
