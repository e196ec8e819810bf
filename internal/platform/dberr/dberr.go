// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/innkeep/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// The action names the failing operation (e.g. "create_room") and is kept in the
// cause chain for server-side logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack.
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations carry a SQLSTATE we can classify.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			conflict := apperr.Conflict("Resource already exists")
			conflict.Cause = fmt.Errorf("%s: %w", action, err)
			return conflict
		case pgerrcode.ForeignKeyViolation:
			missing := apperr.NotFound("Referenced resource")
			missing.Cause = fmt.Errorf("%s: %w", action, err)
			return missing
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.InvalidTextRepresentation:
			invalid := apperr.ValidationError("Invalid input")
			invalid.Cause = fmt.Errorf("%s: %w", action, err)
			return invalid
		}
	}

	// 3. Everything else is an infrastructure failure.
	if errors.Is(err, context.Canceled) {
		return apperr.Internal(fmt.Errorf("%s: %w", action, err))
	}

	return apperr.StorageFailure(fmt.Errorf("%s: %w", action, err))
}

// IsNotFound reports whether err represents a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || apperr.HasCode(err, apperr.CodeNotFound)
}

// NotFoundAs rewrites a generic not-found into a resource-specific one so the
// client sees "Room not found" rather than "Resource not found".
func NotFoundAs(err error, resource string) error {
	if IsNotFound(err) {
		return apperr.NotFound(resource)
	}
	return err
}
