// Package metrics exposes the server's Prometheus series: connection and
// queue gauges, per-job counters/histograms, and the Leader-Follower
// election counter, on a small HTTP listener separate from the graph TCP
// port.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the process-wide metrics container.
type Metrics struct {
	ConnectionsActive prometheus.Gauge
	JobsTotal         *prometheus.CounterVec
	JobDuration       *prometheus.HistogramVec
	QueueDepth        *prometheus.GaugeVec
	LeaderElections   prometheus.Counter
}

var defaultMetrics *Metrics

// Init registers the series under the given namespace/subsystem.
func Init(namespace, subsystem string) *Metrics {
	m := &Metrics{
		ConnectionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connections_active",
			Help:      "Currently open client connections",
		}),
		JobsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_total",
			Help:      "Total jobs processed by kind and outcome",
		}, []string{"kind", "outcome"}),
		JobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "job_duration_seconds",
			Help:      "Time a job spends in a given pipeline stage",
			Buckets:   []float64{.0001, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"stage"}),
		QueueDepth: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_depth",
			Help:      "Current depth of a pipeline queue",
		}, []string{"queue"}),
		LeaderElections: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "lf_leader_elections_total",
			Help:      "Total number of Leader-Follower leadership handoffs",
		}),
	}

	prometheus.MustRegister(NewRuntimeCollector(namespace, subsystem))

	defaultMetrics = m
	return m
}

// Get returns the process-wide metrics, initializing defaults if necessary.
func Get() *Metrics {
	if defaultMetrics == nil {
		return Init("graphflow", "")
	}
	return defaultMetrics
}

// RecordJobOutcome increments the per-kind/outcome job counter. Stage
// duration is recorded separately by a Timer bound to JobDuration, so the
// two series stay independent of each other's call sites.
func (m *Metrics) RecordJobOutcome(kind, outcome string) {
	m.JobsTotal.WithLabelValues(kind, outcome).Inc()
}

// SetQueueDepth reports a queue's current length.
func (m *Metrics) SetQueueDepth(queue string, depth int) {
	m.QueueDepth.WithLabelValues(queue).Set(float64(depth))
}

// RecordLeaderElection increments the leadership handoff counter.
func (m *Metrics) RecordLeaderElection() {
	m.LeaderElections.Inc()
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartServer runs the metrics + health HTTP listener until it fails.
func StartServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
