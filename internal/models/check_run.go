package models

import "time"

// CheckRun summarizes one pricing drift run.
type CheckRun struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"startedAt"`
	Checked   int       `json:"checked"`
	Changed   int       `json:"changed"`
	Unchanged int       `json:"unchanged"`
	Baseline  int       `json:"baseline"`
	Errors    int       `json:"errors"`
	Skipped   int       `json:"skipped"`
	ExitCode  int       `json:"exitCode"`
}
