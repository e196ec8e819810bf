// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for staff accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given (normalized) email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: Conflict on a duplicate email, storage failures otherwise
	*/
	Create(context context.Context, user *User) error

	// UpdatePassword replaces only the account's password hash.
	UpdatePassword(context context.Context, userID, newHash string) error
}

// # Revocation Data Access

// RevocationStore records session tokens that were ended before their expiry.
type RevocationStore interface {

	// Revoke marks the token id as revoked for ttl (the token's remaining lifetime).
	Revoke(context context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked reports whether the token id was revoked.
	IsRevoked(context context.Context, tokenID string) (bool, error)
}
