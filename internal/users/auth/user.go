// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the credential store and session issuer.

It owns the staff accounts (admins and guesthouse managers), verifies passwords,
and issues the signed session tokens the middleware resolves on every request.

# Architecture

  - Service: Register, Authenticate, ResolveSession, EndSession.
  - Repository: Postgres for accounts, Redis for the revoked-token set.
  - Security: bcrypt hashes and HS256 session tokens from the sec package.
*/
package auth

import (
	"time"

	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/sec"
)

// # Domain Entities

// User represents a staff account.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	FullName     string       `json:"full_name"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Principal returns the identity services authorize against.
func (user *User) Principal() *access.Principal {
	if user == nil {
		return nil
	}
	return &access.Principal{ID: user.ID, Email: user.Email, Role: user.Role}
}

// # Constraints

const (
	// MinPasswordLength is the shortest password accepted at registration.
	MinPasswordLength = 8

	// MaxNameLength bounds full names and emails.
	MaxNameLength = 255
)

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldFullName = "full_name"
	FieldRole     = "role"
	FieldToken    = "token"
	FieldUser     = "user"
	FieldExpires  = "expires_at"
)
