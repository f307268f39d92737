package snapshot

import (
	"context"

	"agentdeals/internal/db"
	"agentdeals/internal/models"
)

// PostgresStore keeps the snapshot in the pricing_snapshots table.
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore wraps an open, migrated database.
func NewPostgresStore(database *db.DB) *PostgresStore {
	return &PostgresStore{db: database}
}

func (s *PostgresStore) Load(ctx context.Context) (models.Snapshot, error) {
	return s.db.ListSnapshotEntries(ctx)
}

func (s *PostgresStore) Save(ctx context.Context, snap models.Snapshot) error {
	return s.db.ReplaceSnapshot(ctx, snap)
}

// RecordRun stores a run summary in pricing_check_runs.
func (s *PostgresStore) RecordRun(ctx context.Context, run *models.CheckRun) error {
	return s.db.RecordCheckRun(ctx, run)
}

// RecentRuns lists recorded runs from pricing_check_runs, newest first.
func (s *PostgresStore) RecentRuns(ctx context.Context, limit int) ([]models.CheckRun, error) {
	return s.db.ListCheckRuns(ctx, limit)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
