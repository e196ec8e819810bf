// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles administration of staff accounts.

Admins list the managers they can assign to guesthouses, promote or demote
accounts, and remove accounts. Removing a manager leaves their guesthouses in
place with no manager (the foreign key is ON DELETE SET NULL).

# Architecture

  - Entities: reuses [auth.User]; this package owns no table of its own.
  - Security: every operation is admin only and passes through the access gate.
*/
package account

import (
	"context"

	"github.com/taibuivan/innkeep/internal/platform/sec"
	"github.com/taibuivan/innkeep/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for account administration.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *auth.User: The hydrated user
		  - error: NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	// ListByRole returns every account holding role, ordered by full name.
	ListByRole(context context.Context, role sec.UserRole) ([]*auth.User, error)

	// UpdateRole replaces the role of an account.
	UpdateRole(context context.Context, id string, role sec.UserRole) error

	// Delete removes an account. Guesthouses it managed keep existing.
	Delete(context context.Context, id string) error
}

// # Field Identifiers

const (
	FieldRole = "role"
)
