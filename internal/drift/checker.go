package drift

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"agentdeals/internal/models"
	"agentdeals/internal/validation"
)

// DefaultConcurrency is the number of pages fetched in parallel.
const DefaultConcurrency = 4

// Outcome classifies a single target's check.
type Outcome string

const (
	OutcomeBaseline  Outcome = "baseline"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeChanged   Outcome = "changed"
	OutcomeError     Outcome = "error"
)

// Target is a vendor pricing page to check.
type Target struct {
	Vendor string
	URL    string
}

// Result is the outcome of checking one target.
type Result struct {
	Target
	Outcome      Outcome
	Hash         string
	PreviousHash string
	Err          string
}

// Report aggregates a run.
type Report struct {
	Snapshot   models.Snapshot
	Results    []Result
	Changed    []Result
	Errors     []Result
	Unchanged  int
	Baseline   int
	Skipped    []string
	IsBaseline bool
}

// Exit code bits.
const (
	ExitClean   = 0
	ExitChanged = 1
	ExitErrors  = 2
	ExitFatal   = 4
)

// ExitCode returns ExitChanged and ExitErrors or'ed together. Baseline runs
// never report changes.
func (r *Report) ExitCode() int {
	code := ExitClean
	if len(r.Changed) > 0 {
		code |= ExitChanged
	}
	if len(r.Errors) > 0 {
		code |= ExitErrors
	}
	return code
}

// Checker fetches pricing pages and compares their fingerprints against a
// previous snapshot.
type Checker struct {
	fetcher     Fetcher
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithConcurrency sets the worker pool size.
func WithConcurrency(n int) CheckerOption {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger used for per-vendor diagnostics.
func WithLogger(l *slog.Logger) CheckerOption {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the time source for checkedAt stamps.
func WithClock(now func() time.Time) CheckerOption {
	return func(c *Checker) { c.now = now }
}

// NewChecker creates a checker around fetcher.
func NewChecker(fetcher Fetcher, opts ...CheckerOption) *Checker {
	c := &Checker{
		fetcher:     fetcher,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run checks every target. Fetch failures are isolated per vendor and never
// abort the run; the returned error is only set when ctx is cancelled.
func (c *Checker) Run(ctx context.Context, targets []Target, previous models.Snapshot) (*Report, error) {
	results := make([]Result, len(targets))
	entries := make([]models.SnapshotEntry, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, t := range targets {
		prev, hasPrev := previous[t.Vendor]
		g.Go(func() error {
			results[i], entries[i] = c.check(gctx, t, prev, hasPrev)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		Snapshot:   make(models.Snapshot, len(targets)),
		Results:    results,
		IsBaseline: len(previous) == 0,
	}
	for i, r := range results {
		report.Snapshot[r.Vendor] = entries[i]
		switch r.Outcome {
		case OutcomeBaseline:
			report.Baseline++
		case OutcomeUnchanged:
			report.Unchanged++
		case OutcomeChanged:
			report.Changed = append(report.Changed, r)
		case OutcomeError:
			report.Errors = append(report.Errors, r)
		}
	}
	return report, nil
}

func (c *Checker) check(ctx context.Context, t Target, prev models.SnapshotEntry, hasPrev bool) (Result, models.SnapshotEntry) {
	res := Result{Target: t}
	if hasPrev && prev.HasHash() {
		res.PreviousHash = *prev.Hash
	}

	html, err := c.fetcher.Fetch(ctx, t.URL)
	if err != nil {
		res.Outcome = OutcomeError
		res.Err = err.Error()
		c.logger.Warn("pricing page fetch failed", "vendor", t.Vendor, "url", t.URL, "error", err)
		if hasPrev {
			return res, prev
		}
		return res, models.SnapshotEntry{URL: t.URL, Error: res.Err}
	}

	hash := Fingerprint(html)
	res.Hash = hash
	switch {
	case res.PreviousHash == "":
		res.Outcome = OutcomeBaseline
	case res.PreviousHash != hash:
		res.Outcome = OutcomeChanged
	default:
		res.Outcome = OutcomeUnchanged
	}

	checked := c.now().UTC()
	return res, models.SnapshotEntry{URL: t.URL, Hash: &hash, CheckedAt: &checked}
}

// TargetsFromOffers builds the check list from catalog offers. Offers without
// a URL, and vendors in skip, are returned as skipped. overrides replaces a
// vendor's URL with a dedicated pricing page.
func TargetsFromOffers(offers []models.Offer, overrides map[string]string, skip []string) (targets []Target, skipped []string) {
	skipSet := make(map[string]struct{}, len(skip))
	for _, v := range skip {
		skipSet[validation.NormalizeVendor(v)] = struct{}{}
	}
	lowerOverrides := make(map[string]string, len(overrides))
	for v, u := range overrides {
		lowerOverrides[validation.NormalizeVendor(v)] = u
	}

	for _, o := range offers {
		key := validation.NormalizeVendor(o.Vendor)
		if _, ok := skipSet[key]; ok {
			skipped = append(skipped, o.Vendor)
			continue
		}
		url := o.URL
		if u, ok := lowerOverrides[key]; ok && u != "" {
			url = u
		}
		if url == "" {
			skipped = append(skipped, o.Vendor)
			continue
		}
		targets = append(targets, Target{Vendor: o.Vendor, URL: url})
	}
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].Vendor < targets[j].Vendor })
	return targets, skipped
}
