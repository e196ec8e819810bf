// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/innkeep/internal/platform/database/schema"
	"github.com/taibuivan/innkeep/internal/platform/dberr"
	"github.com/taibuivan/innkeep/internal/platform/postgres"
	"github.com/taibuivan/innkeep/internal/platform/sec"
	"github.com/taibuivan/innkeep/internal/users/auth"
)

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	db postgres.DB
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(db postgres.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

var accountColumns = strings.Join([]string{
	schema.Users.ID, schema.Users.Email, schema.Users.FullName,
	schema.Users.Role, schema.Users.CreatedAt, schema.Users.UpdatedAt,
}, ", ")

// FindByID retrieves a user record by primary key. The password hash is not loaded.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, accountColumns, schema.Users.Table, schema.Users.ID)

	user, err := scanAccount(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.NotFoundAs(dberr.Wrap(err, "find_account"), "User")
	}
	return user, nil
}

// ListByRole returns every account holding role.
func (repository *PostgresAccountRepository) ListByRole(context context.Context, role sec.UserRole) ([]*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC, %s ASC`,
		accountColumns, schema.Users.Table, schema.Users.Role, schema.Users.FullName, schema.Users.Email,
	)

	rows, err := repository.db.Query(context, query, role.String())
	if err != nil {
		return nil, dberr.Wrap(err, "list_accounts")
	}
	defer rows.Close()

	users := []*auth.User{}
	for rows.Next() {
		user, err := scanAccount(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_account")
		}
		users = append(users, user)
	}

	return users, dberr.Wrap(rows.Err(), "list_accounts")
}

// UpdateRole replaces the role of an account.
func (repository *PostgresAccountRepository) UpdateRole(context context.Context, id string, role sec.UserRole) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.Users.Table, schema.Users.Role, schema.Users.UpdatedAt, schema.Users.ID,
	)

	tag, err := repository.db.Exec(context, query, id, role.String())
	if err != nil {
		return dberr.Wrap(err, "update_account_role")
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFoundAs(dberr.ErrNotFound, "User")
	}
	return nil
}

// Delete removes an account row; guesthouses.manager_id is nulled by the foreign key.
func (repository *PostgresAccountRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Users.Table, schema.Users.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_account")
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFoundAs(dberr.ErrNotFound, "User")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*auth.User, error) {
	user := &auth.User{}
	var role string

	if err := row.Scan(&user.ID, &user.Email, &user.FullName, &role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}

	user.Role = sec.UserRole(role)
	return user, nil
}
