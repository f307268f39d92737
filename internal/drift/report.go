package drift

import (
	"fmt"
	"io"
	"time"

	"agentdeals/internal/models"
)

// WriteSummary prints a human-readable run summary.
func WriteSummary(w io.Writer, r *Report) error {
	checked := len(r.Results)
	if r.IsBaseline {
		_, err := fmt.Fprintf(w, "Baseline established for %d vendors (%d errors, %d skipped).\n",
			r.Baseline, len(r.Errors), len(r.Skipped))
		if err != nil {
			return err
		}
		return writeErrors(w, r)
	}

	if _, err := fmt.Fprintf(w, "Checked %d pricing pages: %d changed, %d unchanged, %d new, %d errors, %d skipped.\n",
		checked, len(r.Changed), r.Unchanged, r.Baseline, len(r.Errors), len(r.Skipped)); err != nil {
		return err
	}

	if len(r.Changed) > 0 {
		if _, err := fmt.Fprintln(w, "\nChanged:"); err != nil {
			return err
		}
		for _, c := range r.Changed {
			if _, err := fmt.Fprintf(w, "  - %s (%s)\n", c.Vendor, c.URL); err != nil {
				return err
			}
		}
	}
	return writeErrors(w, r)
}

func writeErrors(w io.Writer, r *Report) error {
	if len(r.Errors) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nErrors:"); err != nil {
		return err
	}
	for _, e := range r.Errors {
		if _, err := fmt.Fprintf(w, "  - %s: %s\n", e.Vendor, e.Err); err != nil {
			return err
		}
	}
	return nil
}

// Summary condenses the report into a run record.
func (r *Report) Summary(startedAt time.Time) models.CheckRun {
	return models.CheckRun{
		StartedAt: startedAt,
		Checked:   len(r.Results),
		Changed:   len(r.Changed),
		Unchanged: r.Unchanged,
		Baseline:  r.Baseline,
		Errors:    len(r.Errors),
		Skipped:   len(r.Skipped),
		ExitCode:  r.ExitCode(),
	}
}
