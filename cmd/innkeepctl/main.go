// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command innkeepctl is the operator CLI for Innkeep.
//
// # Subcommands
//
//	migrate [-down N]                             Apply (or roll back N) schema migrations.
//	seed-admin -email E -password P [-name N]     Create an admin account.
//	reset-password -email E -password P           Replace an account's password.
//	sweep-blobs [-dry-run]                        Delete photo objects no row references.
//
// Configuration is read from the same environment as the API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/innkeep/internal/core/photo"
	"github.com/taibuivan/innkeep/internal/platform/blob"
	"github.com/taibuivan/innkeep/internal/platform/config"
	"github.com/taibuivan/innkeep/internal/platform/constants"
	"github.com/taibuivan/innkeep/internal/platform/migration"
	pgstore "github.com/taibuivan/innkeep/internal/platform/postgres"
	"github.com/taibuivan/innkeep/internal/platform/sec"
	"github.com/taibuivan/innkeep/internal/users/auth"
)

const usage = `usage: innkeepctl <command> [flags]

commands:
  migrate          apply pending migrations (-down N rolls back N steps)
  seed-admin       create an admin account
  reset-password   replace the password of an existing account
  sweep-blobs      delete unreferenced photo objects (-dry-run to report only)
`

// errUsage marks argument errors that should print the usage text.
var errUsage = errors.New("invalid usage")

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With(slog.String("app", "innkeepctl"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, log); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		log.Error("command_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// run dispatches one subcommand. Flags are parsed before any configuration is
// loaded so argument mistakes fail without touching the database.
func run(ctx context.Context, args []string, out io.Writer, log *slog.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	command, rest := args[0], args[1:]
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	switch command {
	case "migrate":
		down := flags.Int("down", 0, "number of migrations to roll back")
		if err := flags.Parse(rest); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if *down > 0 {
			return migration.RunDown(cfg.DSN(), cfg.MigrationPath, *down, log)
		}
		return migration.RunUp(cfg.DSN(), cfg.MigrationPath, log)

	case "seed-admin":
		email := flags.String("email", "", "admin email")
		password := flags.String("password", "", "admin password")
		name := flags.String("name", "", "admin full name")
		if err := parseRequired(flags, rest, "email", "password"); err != nil {
			return err
		}
		return withAuth(ctx, log, func(service *auth.Service) error {
			user, err := service.CreateUser(ctx, auth.RegisterInput{
				Email:    *email,
				Password: *password,
				FullName: *name,
				Role:     sec.RoleAdmin,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "created admin %s (%s)\n", user.Email, user.ID)
			return nil
		})

	case "reset-password":
		email := flags.String("email", "", "account email")
		password := flags.String("password", "", "new password")
		if err := parseRequired(flags, rest, "email", "password"); err != nil {
			return err
		}
		return withAuth(ctx, log, func(service *auth.Service) error {
			if err := service.ResetPassword(ctx, *email, *password); err != nil {
				return err
			}
			fmt.Fprintf(out, "password reset for %s\n", *email)
			return nil
		})

	case "sweep-blobs":
		dryRun := flags.Bool("dry-run", false, "report orphans without deleting")
		if err := flags.Parse(rest); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return sweepBlobs(ctx, out, log, *dryRun)
	}

	return fmt.Errorf("%w: unknown command %q", errUsage, command)
}

// parseRequired parses flags and fails when any named flag is left empty.
func parseRequired(flags *flag.FlagSet, args []string, names ...string) error {
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	for _, name := range names {
		if flags.Lookup(name).Value.String() == "" {
			return fmt.Errorf("%w: -%s is required", errUsage, name)
		}
	}
	return nil
}

// connect loads configuration and opens a small pool for one-shot commands.
func connect(ctx context.Context, log *slog.Logger) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	pool, err := pgstore.NewPool(ctx, cfg.DSN(), 2, log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

// withAuth runs fn against an auth service backed by Postgres only. Account
// commands never issue or revoke sessions, so no token service or Redis is wired.
func withAuth(ctx context.Context, log *slog.Logger, fn func(service *auth.Service) error) error {
	cfg, pool, err := connect(ctx, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	service := auth.NewService(auth.NewUserRepository(pool), nil, nil, auth.Options{SessionTTL: cfg.SessionTTL}, log)
	return fn(service)
}

func sweepBlobs(ctx context.Context, out io.Writer, log *slog.Logger, dryRun bool) error {
	cfg, pool, err := connect(ctx, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	store, err := blob.New(cfg)
	if err != nil {
		return err
	}

	photos := photo.NewService(photo.NewPostgresRepository(pool), store, nil, nil, cfg.MaxUploadBytes, log)

	report, err := blob.NewSweeper(store, photos, log).Sweep(ctx, dryRun)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]any{
		constants.FieldStatus: "ok",
		constants.FieldData:   report,
	})
}
