// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/innkeep/internal/platform/constants"
)

// ReferenceSource lists every photo URL currently stored in the database.
type ReferenceSource interface {
	ReferencedURLs(ctx context.Context) ([]string, error)
}

// SweepReport summarizes one reconciliation pass.
type SweepReport struct {
	Scanned int      `json:"scanned"`
	Orphans []string `json:"orphans"`
	Deleted int      `json:"deleted"`
	Failed  int      `json:"failed"`
}

// Sweeper deletes objects no photo row references.
//
// Upload writes the object before the row, and photo deletion removes the row
// before the object; either can leave an orphan behind when the second step
// fails. Objects younger than the grace period are skipped so an upload whose
// row is still being inserted is never swept.
type Sweeper struct {
	store  Store
	refs   ReferenceSource
	grace  time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewSweeper creates a sweeper with the default grace period.
func NewSweeper(store Store, refs ReferenceSource, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:  store,
		refs:   refs,
		grace:  constants.BlobSweepGracePeriod,
		now:    time.Now,
		logger: logger,
	}
}

// Sweep lists photo objects and deletes unreferenced ones. With dryRun set the
// orphans are only reported.
func (sweeper *Sweeper) Sweep(ctx context.Context, dryRun bool) (*SweepReport, error) {
	urls, err := sweeper.refs.ReferencedURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("blob_sweep_references_failed: %w", err)
	}

	referenced := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		if key, ok := sweeper.store.Key(url); ok {
			referenced[key] = struct{}{}
		}
	}

	keys, err := sweeper.store.List(ctx, constants.BlobKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("blob_sweep_list_failed: %w", err)
	}

	report := &SweepReport{Scanned: len(keys)}
	cutoff := sweeper.now().Add(-sweeper.grace)

	for _, key := range keys {
		if _, ok := referenced[key]; ok {
			continue
		}
		if uploadedAt, ok := KeyTime(key); ok && uploadedAt.After(cutoff) {
			continue
		}

		report.Orphans = append(report.Orphans, key)
		if dryRun {
			continue
		}

		if err := sweeper.store.Delete(ctx, key); err != nil {
			report.Failed++
			sweeper.logger.Warn("blob_sweep_delete_failed", slog.String("key", key), slog.Any("error", err))
			continue
		}
		report.Deleted++
	}

	sweeper.logger.Info("blob_sweep_finished",
		slog.Bool("dry_run", dryRun),
		slog.Int("scanned", report.Scanned),
		slog.Int("orphans", len(report.Orphans)),
		slog.Int("deleted", report.Deleted),
		slog.Int("failed", report.Failed),
	)

	return report, nil
}
