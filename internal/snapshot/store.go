// Package snapshot persists pricing page fingerprints between drift runs.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"agentdeals/internal/db"
	"agentdeals/internal/models"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown snapshot backend")

// Store loads and saves the whole snapshot. Save replaces the previous
// snapshot entirely.
type Store interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snap models.Snapshot) error
	Close() error
}

// RunRecorder is implemented by stores that also keep run history.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *models.CheckRun) error
}

// RunHistory lists recorded runs, newest first.
type RunHistory interface {
	RecentRuns(ctx context.Context, limit int) ([]models.CheckRun, error)
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Path        string
	BoltPath    string
	DatabaseURL string
	Logger      *slog.Logger
}

// Open returns the store for opts.Backend. An empty backend means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Path, logger), nil
	case BackendBolt:
		return NewBoltStore(opts.BoltPath)
	case BackendPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("%s backend requires DATABASE_URL", BackendPostgres)
		}
		database, err := db.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(opts.DatabaseURL); err != nil {
			database.Close()
			return nil, err
		}
		return NewPostgresStore(database), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
