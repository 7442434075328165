// Package metrics exposes enumeration progress as Prometheus metrics.
//
// A Recorder owns a private registry so that several runs in one process
// never collide, and implements ribbon.Observer so it can be handed straight
// to ribbon.Enumerate. Batch runs export the registry with WriteTextfile for
// the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dyluth/agnr/pkg/ribbon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder collects search metrics for one or more enumeration runs.
// It is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	nodes          *prometheus.CounterVec
	closures       *prometheus.CounterVec
	found          *prometheus.CounterVec
	dropped        *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	lengthDuration prometheus.Histogram
	total          prometheus.Gauge
}

var _ ribbon.Observer = (*Recorder)(nil)

// NewRecorder registers the agnr collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		nodes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agnr_search_nodes_total",
			Help: "Partial specs visited by the backtracking search",
		}, []string{"length"}),

		closures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agnr_closures_total",
			Help: "Full-length walks that closed across the periodic boundary",
		}, []string{"length"}),

		found: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agnr_specs_found_total",
			Help: "Canonical specs added to the result, after repeat removal",
		}, []string{"length"}),

		dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agnr_repeats_dropped_total",
			Help: "Canonical specs dropped as repetitions of a shorter period",
		}, []string{"length"}),

		searchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agnr_search_duration_seconds",
			Help:    "Duration of one search for a (starting width, length) pair",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"width"}),

		lengthDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "agnr_length_duration_seconds",
			Help:    "Wall time to enumerate every starting width of one length",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),

		total: factory.NewGauge(prometheus.GaugeOpts{
			Name: "agnr_specs_total",
			Help: "Canonical specs accumulated by the current run",
		}),
	}
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSearch records one finished search.
func (r *Recorder) ObserveSearch(length, width int, stats ribbon.SearchStats, found int, elapsed time.Duration) {
	l := strconv.Itoa(length)
	r.nodes.WithLabelValues(l).Add(float64(stats.Nodes))
	r.closures.WithLabelValues(l).Add(float64(stats.Closures))
	r.searchDuration.WithLabelValues(strconv.Itoa(width)).Observe(elapsed.Seconds())
}

// ObserveLength records the merged outcome for one length.
func (r *Recorder) ObserveLength(stats ribbon.LengthStats) {
	l := strconv.Itoa(stats.Length)
	r.found.WithLabelValues(l).Add(float64(stats.Added))
	r.dropped.WithLabelValues(l).Add(float64(stats.Dropped))
	r.lengthDuration.Observe(stats.Elapsed.Seconds())
	r.total.Set(float64(stats.Total))
}

// WriteTextfile writes every collected metric to path in the Prometheus text
// format. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
