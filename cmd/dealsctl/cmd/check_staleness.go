package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"agentdeals/internal/catalog"
	"agentdeals/internal/models"
)

// Staleness exit codes.
const (
	staleNone    = 0
	staleFound   = 1
	staleInvalid = 2
)

var stalenessOffers string

var checkStalenessCmd = &cobra.Command{
	Use:   "check-staleness [days]",
	Short: "List offers not verified recently",
	Long: `List offers whose verifiedDate is older than the threshold (default
$STALE_THRESHOLD_DAYS, 30).

Exit status: 0 none stale, 1 stale entries found, 2 invalid input or unreadable index.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runCheckStaleness,
}

func init() {
	checkStalenessCmd.Flags().StringVar(&stalenessOffers, "offers", "", "Offers document (default $OFFERS_PATH)")
}

func runCheckStaleness(cmd *cobra.Command, args []string) error {
	cfg, _, _, err := loadConfig()
	if err != nil {
		return exitError{code: staleInvalid, err: err}
	}

	threshold := cfg.StaleThresholdDays
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return exitError{code: staleInvalid, err: fmt.Errorf("invalid threshold: %s. Must be a non-negative integer", args[0])}
		}
		threshold = n
	}

	path := cfg.OffersPath
	if stalenessOffers != "" {
		path = stalenessOffers
	}
	offers, err := catalog.LoadOffers(catalog.FileSource{Path: path})
	if err != nil {
		return exitError{code: staleInvalid, err: fmt.Errorf("failed to read index: %w", err)}
	}

	code, err := checkStaleness(cmd.OutOrStdout(), offers, threshold, time.Now())
	if err != nil {
		return exitError{code: staleInvalid, err: err}
	}
	if code != staleNone {
		return exitError{code: code}
	}
	return nil
}

// checkStaleness writes the staleness report and returns the exit code.
func checkStaleness(w io.Writer, offers []models.Offer, threshold int, now time.Time) (int, error) {
	stale, err := catalog.FindStale(offers, threshold, now)
	if err != nil {
		return staleInvalid, err
	}

	if len(stale) == 0 {
		fmt.Fprintf(w, "All %d entries verified within %d days.\n", len(offers), threshold)
		return staleNone, nil
	}

	fmt.Fprintf(w, "Found %d stale entries (threshold: %d days):\n\n", len(stale), threshold)
	for _, e := range stale {
		age := "never verified"
		if !e.NeverVerified() {
			age = fmt.Sprintf("%d days ago", *e.DaysSince)
		}
		fmt.Fprintf(w, "  %s (%s) - %s\n", e.Vendor, e.Category, age)
	}
	return staleFound, nil
}
