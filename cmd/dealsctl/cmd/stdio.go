package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"agentdeals/internal/catalog"
	"agentdeals/internal/mcp"
	"agentdeals/internal/metrics"
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve the tool protocol on stdin/stdout",
	RunE:  runStdio,
}

func runStdio(cmd *cobra.Command, args []string) error {
	cfg, _, logger, err := loadConfig()
	if err != nil {
		return err
	}
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := catalog.NewService(catalog.NewStore(
		catalog.FileSource{Path: cfg.OffersPath},
		catalog.FileSource{Path: cfg.ChangesPath},
		logger,
	))
	server := mcp.NewServer(svc,
		mcp.WithLogger(logger),
		mcp.WithToolObserver(metrics.ObserveToolCall),
	)

	log.Printf("Serving %s tools on stdio", mcp.ServerName)
	return server.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}
