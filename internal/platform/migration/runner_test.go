// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/app":   "pgx5://u:p@db:5432/app",
		"postgresql://u:p@db:5432/app": "pgx5://u:p@db:5432/app",
		"pgx5://u:p@db:5432/app":       "pgx5://u:p@db:5432/app",
		"host=db user=u":               "host=db user=u",
	}

	for in, want := range tests {
		assert.Equal(t, want, convertToPgx5DSN(in))
	}
}

/*
TestInitMigration_Ownership checks the cascade and weak-reference rules are in the schema.
*/
func TestInitMigration_Ownership(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "data", "migrations", "000001_init.up.sql"))
	require.NoError(t, err)
	sql := string(raw)

	for _, fragment := range []string{
		"REFERENCES users (id) ON DELETE SET NULL",
		"REFERENCES guesthouses (id) ON DELETE CASCADE",
		"REFERENCES rooms (id) ON DELETE CASCADE",
		"UNIQUE (room_id, date)",
		"CHECK (capacity >= 1)",
		"CHECK (price_per_night >= 0)",
		"CHECK (role IN ('admin', 'manager'))",
	} {
		assert.True(t, strings.Contains(sql, fragment), "missing %q", fragment)
	}
}
