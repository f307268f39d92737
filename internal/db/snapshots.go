package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"agentdeals/internal/models"
)

// scanSnapshotEntry scans a row into a vendor and its SnapshotEntry.
func scanSnapshotEntry(row pgx.Row) (string, models.SnapshotEntry, error) {
	var (
		vendor    string
		entry     models.SnapshotEntry
		errorText *string
	)
	if err := row.Scan(&vendor, &entry.URL, &entry.Hash, &entry.CheckedAt, &errorText); err != nil {
		return "", models.SnapshotEntry{}, err
	}
	if errorText != nil {
		entry.Error = *errorText
	}
	return vendor, entry, nil
}

// ListSnapshotEntries returns the full stored snapshot.
func (d *DB) ListSnapshotEntries(ctx context.Context) (models.Snapshot, error) {
	rows, err := d.Pool.Query(ctx, `SELECT vendor, url, hash, checked_at, error FROM pricing_snapshots`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap := make(models.Snapshot)
	for rows.Next() {
		vendor, entry, err := scanSnapshotEntry(rows)
		if err != nil {
			return nil, err
		}
		snap[vendor] = entry
	}
	return snap, rows.Err()
}

// ReplaceSnapshot swaps the stored snapshot for snap in a single transaction.
func (d *DB) ReplaceSnapshot(ctx context.Context, snap models.Snapshot) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM pricing_snapshots`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	batch := &pgx.Batch{}
	for vendor, entry := range snap {
		var errorText *string
		if entry.Error != "" {
			errorText = &entry.Error
		}
		batch.Queue(`
			INSERT INTO pricing_snapshots (vendor, url, hash, checked_at, error, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
		`, vendor, entry.URL, entry.Hash, entry.CheckedAt, errorText)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// RecordCheckRun stores a run summary and sets its ID.
func (d *DB) RecordCheckRun(ctx context.Context, run *models.CheckRun) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	return d.Pool.QueryRow(ctx, `
		INSERT INTO pricing_check_runs (started_at, checked, changed, unchanged, baseline, errors, skipped, exit_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, run.StartedAt, run.Checked, run.Changed, run.Unchanged, run.Baseline, run.Errors, run.Skipped, run.ExitCode).Scan(&run.ID)
}

// ListCheckRuns returns the most recent runs, newest first.
func (d *DB) ListCheckRuns(ctx context.Context, limit int) ([]models.CheckRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.Pool.Query(ctx, `
		SELECT id, started_at, checked, changed, unchanged, baseline, errors, skipped, exit_code
		FROM pricing_check_runs
		ORDER BY started_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.CheckRun
	for rows.Next() {
		var r models.CheckRun
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Checked, &r.Changed, &r.Unchanged, &r.Baseline, &r.Errors, &r.Skipped, &r.ExitCode); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
