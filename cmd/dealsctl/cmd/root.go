package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"agentdeals/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "dealsctl",
	Short: "AgentDeals catalog tools",
	Long:  "Serve the offer catalog to agents over stdio and run the pricing and staleness checks.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional
		_ = godotenv.Load()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(stdioCmd)
	rootCmd.AddCommand(checkPricingCmd)
	rootCmd.AddCommand(checkStalenessCmd)
}

// loadConfig reads env and the optional YAML file. Logs go to stderr so
// stdout stays free for protocol traffic and reports.
func loadConfig() (*config.Config, *config.YAMLConfig, *slog.Logger, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	cfg.ApplyYAML(yamlCfg)
	return cfg, yamlCfg, logger, nil
}
