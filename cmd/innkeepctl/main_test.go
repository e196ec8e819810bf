// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestRun_UsageErrors checks argument mistakes fail before any config is loaded.
*/
func TestRun_UsageErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		args []string
	}{
		{"no_command", nil},
		{"unknown_command", []string{"drop-everything"}},
		{"seed_admin_without_email", []string{"seed-admin", "-password", "correct-horse"}},
		{"reset_without_password", []string{"reset-password", "-email", "a@b.example"}},
		{"migrate_bad_flag", []string{"migrate", "-down", "many"}},
		{"sweep_unknown_flag", []string{"sweep-blobs", "-force"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.args, io.Discard, logger)
			assert.ErrorIs(t, err, errUsage)
		})
	}
}
