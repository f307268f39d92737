// Package jobs runs the pricing drift check, once or on a schedule.
package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"agentdeals/internal/catalog"
	"agentdeals/internal/drift"
	"agentdeals/internal/email"
	"agentdeals/internal/metrics"
	"agentdeals/internal/models"
	"agentdeals/internal/snapshot"
)

// PricingCheck wires one drift run: catalog targets, fetch and compare, then
// persist the new snapshot.
type PricingCheck struct {
	Catalog   *catalog.Service
	Checker   *drift.Checker
	Store     snapshot.Store
	Overrides map[string]string
	Skip      []string
	Notifier  *email.Notifier
}

// Run performs one check and saves the resulting snapshot. The snapshot is
// not saved when ctx is cancelled mid-run.
func (p *PricingCheck) Run(ctx context.Context) (*drift.Report, error) {
	started := time.Now().UTC()

	if err := p.Catalog.Store().OffersErr(); err != nil {
		return nil, fmt.Errorf("offers unavailable: %w", err)
	}

	previous, err := p.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	targets, skipped := drift.TargetsFromOffers(p.Catalog.Store().Offers(), p.Overrides, p.Skip)
	report, err := p.Checker.Run(ctx, targets, previous)
	if err != nil {
		return nil, err
	}
	report.Skipped = skipped

	if err := p.Store.Save(ctx, report.Snapshot); err != nil {
		return report, fmt.Errorf("save snapshot: %w", err)
	}

	run := report.Summary(started)
	if recorder, ok := p.Store.(snapshot.RunRecorder); ok {
		if err := recorder.RecordRun(ctx, &run); err != nil {
			log.Printf("Pricing monitor: failed to record run: %v", err)
		}
	}
	metrics.RecordPricingRun(run)
	p.Notifier.NotifyPricingChanges(report)

	return report, nil
}

// maxRecentRuns bounds the run summaries a monitor keeps in memory.
const maxRecentRuns = 50

// PricingMonitor repeats the pricing check on an interval.
type PricingMonitor struct {
	check    *PricingCheck
	interval time.Duration

	mu   sync.RWMutex
	runs []models.CheckRun // newest first
}

// NewPricingMonitor creates a new monitor.
func NewPricingMonitor(check *PricingCheck, interval time.Duration) *PricingMonitor {
	return &PricingMonitor{check: check, interval: interval}
}

// Start begins the background check loop. It blocks until ctx is done.
func (m *PricingMonitor) Start(ctx context.Context) {
	log.Printf("Pricing monitor started (interval: %v)", m.interval)

	// Run immediately on start
	m.runOnce(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Pricing monitor stopped")
			return
		case <-ticker.C:
			m.runOnce(ctx)
		}
	}
}

// RecentRuns returns up to limit run summaries from this process, newest
// first. It serves run history when the snapshot store keeps none.
func (m *PricingMonitor) RecentRuns(_ context.Context, limit int) ([]models.CheckRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.runs) {
		limit = len(m.runs)
	}
	out := make([]models.CheckRun, limit)
	copy(out, m.runs)
	return out, nil
}

func (m *PricingMonitor) runOnce(ctx context.Context) {
	started := time.Now().UTC()
	report, err := m.check.Run(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("Pricing monitor: run failed: %v", err)
		}
		if report == nil {
			return
		}
	}

	run := report.Summary(started)
	m.mu.Lock()
	m.runs = append([]models.CheckRun{run}, m.runs...)
	if len(m.runs) > maxRecentRuns {
		m.runs = m.runs[:maxRecentRuns]
	}
	m.mu.Unlock()

	log.Printf("Pricing monitor: %d checked, %d changed, %d errors", run.Checked, run.Changed, run.Errors)
}
