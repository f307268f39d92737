package jobs

import (
	"context"
	"log/slog"

	"agentdeals/internal/catalog"
	"agentdeals/internal/config"
	"agentdeals/internal/drift"
	"agentdeals/internal/email"
	"agentdeals/internal/snapshot"
)

// NewFetcher picks the page fetcher for cfg: Firecrawl when an API key is
// configured, direct HTTP otherwise.
func NewFetcher(cfg *config.Config) (drift.Fetcher, error) {
	if cfg.FirecrawlAPIKey != "" {
		return drift.NewFirecrawlFetcher(cfg.FirecrawlAPIKey, cfg.FirecrawlAPIURL)
	}
	var opts []drift.HTTPFetcherOption
	if cfg.FetchDelay > 0 {
		opts = append(opts, drift.WithRateLimit(cfg.FetchDelay))
	}
	return drift.NewHTTPFetcher(cfg.FetchTimeout, opts...), nil
}

// OpenSnapshotStore opens the snapshot backend named by cfg. The caller must
// close it.
func OpenSnapshotStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (snapshot.Store, error) {
	return snapshot.Open(ctx, snapshot.Options{
		Backend:     cfg.SnapshotBackend,
		Path:        cfg.SnapshotPath,
		BoltPath:    cfg.SnapshotBoltPath,
		DatabaseURL: cfg.DatabaseURL,
		Logger:      logger,
	})
}

// NewPricingCheck wires a PricingCheck from configuration over an open store.
func NewPricingCheck(cfg *config.Config, yc *config.YAMLConfig, svc *catalog.Service, store snapshot.Store, logger *slog.Logger) (*PricingCheck, error) {
	fetcher, err := NewFetcher(cfg)
	if err != nil {
		return nil, err
	}

	return &PricingCheck{
		Catalog:   svc,
		Checker:   drift.NewChecker(fetcher, drift.WithConcurrency(cfg.FetchConcurrency), drift.WithLogger(logger)),
		Store:     store,
		Overrides: yc.PricingOverrides(),
		Skip:      yc.SkipVendors(),
		Notifier:  email.NewNotifier(cfg),
	}, nil
}
