// Package metrics counts match activity for export to Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ggnmatch/internal/matching"
)

// Recorder counts engine events on a private registry. It satisfies
// matching.Observer.
type Recorder struct {
	registry        *prometheus.Registry
	outcomes        *prometheus.CounterVec
	skipped         prometheus.Counter
	transportErrors prometheus.Counter
	waitSeconds     prometheus.Counter
}

// NewRecorder builds a recorder with every outcome kind pre-initialized to zero.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ggnmatch_outcomes_total",
			Help: "Match outcomes by kind.",
		}, []string{"kind"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ggnmatch_entries_skipped_total",
			Help: "Catalog entries skipped for a missing name or id.",
		}),
		transportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ggnmatch_transport_errors_total",
			Help: "Lookups that failed to reach the tracker.",
		}),
		waitSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ggnmatch_rate_limit_wait_seconds_total",
			Help: "Time spent waiting for the rate limiter.",
		}),
	}
	r.registry.MustRegister(r.outcomes, r.skipped, r.transportErrors, r.waitSeconds)
	for _, kind := range matching.Kinds {
		r.outcomes.WithLabelValues(string(kind))
	}
	return r
}

// Registry exposes the recorder's metrics for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) EntrySkipped(matching.Entry, string) {
	r.skipped.Inc()
}

func (r *Recorder) RateLimited(_ matching.Entry, waited time.Duration) {
	r.waitSeconds.Add(waited.Seconds())
}

func (r *Recorder) LookupFailed(matching.Entry, error) {
	r.transportErrors.Inc()
}

func (r *Recorder) Matched(result matching.Result) {
	r.outcomes.WithLabelValues(string(result.Outcome.Kind)).Inc()
}

// WriteTextfile writes the current values in the text exposition format,
// atomically replacing path, for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
