package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"Unhoster/internal/domain"
	"Unhoster/internal/ports"
)

const namespace = "unhoster"

// Collector tracks per-asset outcomes of a run in its own registry.
type Collector struct {
	registry *prometheus.Registry
	assets   *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ ports.Recorder = (*Collector)(nil)

// NewCollector registers the run metrics on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		assets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assets_total",
			Help:      "Processed asset references by category and outcome.",
		}, []string{"category", "outcome"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloaded_bytes_total",
			Help:      "Bytes fetched by category.",
		}, []string{"category"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching a single asset.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"category"}),
	}
	c.registry.MustRegister(c.assets, c.bytes, c.duration)
	return c
}

// Observe records the outcome of one reference.
func (c *Collector) Observe(result domain.FetchResult, outcome domain.PersistOutcome) {
	category := result.Reference.Category.String()
	c.assets.WithLabelValues(category, string(outcome)).Inc()
	c.duration.WithLabelValues(category).Observe(result.Duration.Seconds())
	if result.OK() {
		c.bytes.WithLabelValues(category).Add(float64(len(result.Data)))
	}
}

// Gatherer exposes the registry, e.g. for tests or an HTTP handler.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile dumps the metrics in the text exposition format for the
// node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
