// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collector over thread pool statistics and the HTTP endpoint
// exposing it.

package control

import (
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/momentics/hioload-pool/internal/concurrency"
)

// StatsSource is anything reporting pool statistics.
type StatsSource interface {
	Stats() concurrency.Stats
}

// PoolCollector exports StatsSource snapshots. It implements prometheus.Collector.
type PoolCollector struct {
	src StatsSource

	workers   *prometheus.Desc
	busy      *prometheus.Desc
	pending   *prometheus.Desc
	submitted *prometheus.Desc
	completed *prometheus.Desc
	panicked  *prometheus.Desc
}

// NewPoolCollector returns a collector reading src on every scrape.
func NewPoolCollector(namespace string, src StatsSource) *PoolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &PoolCollector{
		src:       src,
		workers:   desc("workers", "Number of live pool workers."),
		busy:      desc("busy_workers", "Number of workers currently executing a job."),
		pending:   desc("pending_jobs", "Number of jobs waiting in the queue."),
		submitted: desc("jobs_submitted_total", "Jobs accepted by the pool."),
		completed: desc("jobs_completed_total", "Jobs that returned or panicked."),
		panicked:  desc("jobs_panicked_total", "Jobs that panicked."),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.workers
	ch <- c.busy
	ch <- c.pending
	ch <- c.submitted
	ch <- c.completed
	ch <- c.panicked
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.workers, prometheus.GaugeValue, float64(st.Workers))
	ch <- prometheus.MustNewConstMetric(c.busy, prometheus.GaugeValue, float64(st.Busy))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(st.Pending))
	ch <- prometheus.MustNewConstMetric(c.submitted, prometheus.CounterValue, float64(st.Submitted))
	ch <- prometheus.MustNewConstMetric(c.completed, prometheus.CounterValue, float64(st.Completed))
	ch <- prometheus.MustNewConstMetric(c.panicked, prometheus.CounterValue, float64(st.Panicked))
}

// NewMetricsHandler serves reg at /metrics with combined-format access logs
// written to accessLog.
func NewMetricsHandler(reg *prometheus.Registry, accessLog io.Writer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return handlers.CombinedLoggingHandler(accessLog, mux)
}
