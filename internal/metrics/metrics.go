// Package metrics provides Prometheus metrics for tree synchronization.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scan metrics
	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treesync_scans_total",
			Help: "Total number of scan requests by outcome",
		},
		[]string{"status"},
	)

	scanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "treesync_scan_duration_seconds",
			Help:    "Time spent waiting for scan results",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Build metrics
	buildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "treesync_builds_total",
			Help: "Total number of tree builds",
		},
	)

	buildEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treesync_build_entries_total",
			Help: "Entries seen by tree builds, by how they were placed",
		},
		[]string{"placement"},
	)

	treeSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "treesync_tree_size",
			Help: "Number of nodes in the latest published tree",
		},
	)

	staleDiscards = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "treesync_stale_discards_total",
			Help: "Scan results discarded because a newer request was issued",
		},
	)
)

// WriteFile writes every registered metric to path in the Prometheus text
// format, for a node exporter textfile collector to pick up.
func WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// RecordScan records a finished scan request.
func RecordScan(duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	scansTotal.WithLabelValues(status).Inc()
	scanDuration.Observe(duration.Seconds())
}

// RecordBuild records a tree build and how its entries were placed.
func RecordBuild(placed, skipped, orphaned, outside, duplicates int) {
	buildsTotal.Inc()
	buildEntries.WithLabelValues("placed").Add(float64(placed))
	buildEntries.WithLabelValues("skipped").Add(float64(skipped))
	buildEntries.WithLabelValues("orphaned").Add(float64(orphaned))
	buildEntries.WithLabelValues("outside").Add(float64(outside))
	buildEntries.WithLabelValues("duplicate").Add(float64(duplicates))
}

// SetTreeSize sets the node count of the published tree.
func SetTreeSize(size int) {
	treeSize.Set(float64(size))
}

// RecordStaleDiscard records a scan result dropped for being stale.
func RecordStaleDiscard() {
	staleDiscards.Inc()
}
