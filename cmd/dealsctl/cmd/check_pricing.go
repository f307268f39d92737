package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"agentdeals/internal/catalog"
	"agentdeals/internal/drift"
	"agentdeals/internal/jobs"
)

var (
	pricingBackend  string
	pricingSnapshot string
	pricingOffers   string
)

var checkPricingCmd = &cobra.Command{
	Use:   "check-pricing",
	Short: "Detect vendor pricing page changes",
	Long: `Fetch every vendor pricing page, fingerprint its visible text and compare
against the previous snapshot.

Exit status: 0 no changes, 1 changes detected, 2 fetch errors, 3 both, 4 fatal.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runCheckPricing,
}

func init() {
	f := checkPricingCmd.Flags()
	f.StringVar(&pricingBackend, "backend", "", "Snapshot backend: file, bolt or postgres (default $SNAPSHOT_BACKEND)")
	f.StringVar(&pricingSnapshot, "snapshot", "", "Snapshot file or bolt database path")
	f.StringVar(&pricingOffers, "offers", "", "Offers document (default $OFFERS_PATH)")
}

func runCheckPricing(cmd *cobra.Command, args []string) error {
	cfg, yamlCfg, logger, err := loadConfig()
	if err != nil {
		return fatal(err)
	}
	if pricingBackend != "" {
		cfg.SnapshotBackend = pricingBackend
	}
	if pricingSnapshot != "" {
		cfg.SnapshotPath = pricingSnapshot
		cfg.SnapshotBoltPath = pricingSnapshot
	}
	if pricingOffers != "" {
		cfg.OffersPath = pricingOffers
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := catalog.NewService(catalog.NewStore(catalog.FileSource{Path: cfg.OffersPath}, nil, logger))
	store, err := jobs.OpenSnapshotStore(ctx, cfg, logger)
	if err != nil {
		return fatal(err)
	}
	defer store.Close()

	check, err := jobs.NewPricingCheck(cfg, yamlCfg, svc, store, logger)
	if err != nil {
		return fatal(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checking vendor pricing pages (%s snapshot)...\n\n", backendName(cfg.SnapshotBackend))

	report, err := check.Run(ctx)
	if err != nil {
		return fatal(err)
	}
	if err := drift.WriteSummary(out, report); err != nil {
		return fatal(err)
	}

	if code := report.ExitCode(); code != drift.ExitClean {
		return exitError{code: code}
	}
	return nil
}

func fatal(err error) error {
	return exitError{code: drift.ExitFatal, err: fmt.Errorf("check-pricing: %w", err)}
}

func backendName(b string) string {
	if b == "" {
		return "file"
	}
	return b
}
