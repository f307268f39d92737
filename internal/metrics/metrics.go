// Package metrics exposes catalog, tool and pricing drift metrics to Prometheus.
package metrics

import (
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"agentdeals/internal/catalog"
	"agentdeals/internal/models"
)

const namespace = "agentdeals"

var (
	offersDesc = prometheus.NewDesc(
		namespace+"_offers",
		"Number of catalog offers by category",
		[]string{"category"},
		nil,
	)
	dealChangesDesc = prometheus.NewDesc(
		namespace+"_deal_changes",
		"Number of recorded deal changes by change type",
		[]string{"change_type"},
		nil,
	)
	staleOffersDesc = prometheus.NewDesc(
		namespace+"_stale_offers",
		"Number of offers whose verification date is past the staleness threshold",
		nil,
		nil,
	)
	catalogUpDesc = prometheus.NewDesc(
		namespace+"_catalog_up",
		"1 when the offers file loaded without error",
		nil,
		nil,
	)
)

var (
	toolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tool_calls_total",
		Help:      "Tool protocol calls by tool and outcome",
	}, []string{"tool", "outcome"})

	toolDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tool_call_duration_seconds",
		Help:      "Tool protocol call latency",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"tool"})

	vendorLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vendor_lookups_total",
		Help:      "Vendor detail lookups by outcome",
	}, []string{"outcome"})

	pricingPages = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pricing_pages",
		Help:      "Pricing pages by outcome in the last drift run",
	}, []string{"outcome"})

	pricingLastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pricing_check_last_run_timestamp_seconds",
		Help:      "Unix time the last pricing drift run started",
	})
)

// CatalogCollector reads catalog counts on each scrape.
type CatalogCollector struct {
	svc            *catalog.Service
	staleThreshold int
}

// Describe sends the metric descriptors to the channel.
func (c *CatalogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- offersDesc
	ch <- dealChangesDesc
	ch <- staleOffersDesc
	ch <- catalogUpDesc
}

// Collect emits per-category offer counts, change counts and staleness.
func (c *CatalogCollector) Collect(ch chan<- prometheus.Metric) {
	up := 1.0
	if c.svc.Store().OffersErr() != nil {
		up = 0
	}
	ch <- prometheus.MustNewConstMetric(catalogUpDesc, prometheus.GaugeValue, up)

	for _, cat := range c.svc.Categories() {
		ch <- prometheus.MustNewConstMetric(offersDesc, prometheus.GaugeValue, float64(cat.Count), cat.Name)
	}

	byType := make(map[string]int, len(models.ChangeTypes))
	for _, t := range models.ChangeTypes {
		byType[t] = 0
	}
	for _, dc := range c.svc.Store().DealChanges() {
		byType[dc.ChangeType]++
	}
	for t, n := range byType {
		ch <- prometheus.MustNewConstMetric(dealChangesDesc, prometheus.GaugeValue, float64(n), t)
	}

	stale, err := c.svc.Stale(c.staleThreshold)
	if err != nil {
		slog.Error("failed to collect staleness metrics", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(staleOffersDesc, prometheus.GaugeValue, float64(len(stale.Stale)))
}

var registerOnce sync.Once

// Init registers the collectors with the default registry. Must be called
// once at startup.
func Init(svc *catalog.Service, staleThreshold int) {
	registerOnce.Do(func() {
		if err := Register(prometheus.DefaultRegisterer, svc, staleThreshold); err != nil {
			slog.Error("failed to register metrics", "error", err)
		}
	})
}

// Register adds every collector to reg.
func Register(reg prometheus.Registerer, svc *catalog.Service, staleThreshold int) error {
	collectors := []prometheus.Collector{
		toolCalls, toolDuration, vendorLookups, pricingPages, pricingLastRun,
	}
	if svc != nil {
		collectors = append(collectors, &CatalogCollector{svc: svc, staleThreshold: staleThreshold})
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveToolCall records one tools/call. Its signature matches mcp.ToolObserver.
func ObserveToolCall(tool string, isError bool, elapsed time.Duration) {
	toolCalls.WithLabelValues(tool, outcome(isError)).Inc()
	toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// RecordVendorLookup counts a detail lookup as a hit or miss.
func RecordVendorLookup(found bool) {
	if found {
		vendorLookups.WithLabelValues("hit").Inc()
		return
	}
	vendorLookups.WithLabelValues("miss").Inc()
}

// RecordPricingRun publishes the outcome counts of a drift run.
func RecordPricingRun(run models.CheckRun) {
	pricingLastRun.Set(float64(run.StartedAt.Unix()))
	pricingPages.WithLabelValues("changed").Set(float64(run.Changed))
	pricingPages.WithLabelValues("unchanged").Set(float64(run.Unchanged))
	pricingPages.WithLabelValues("baseline").Set(float64(run.Baseline))
	pricingPages.WithLabelValues("error").Set(float64(run.Errors))
	pricingPages.WithLabelValues("skipped").Set(float64(run.Skipped))
}

func outcome(isError bool) string {
	if isError {
		return "error"
	}
	return "ok"
}
