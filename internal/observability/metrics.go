package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncjob"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
)

// JobMetrics exports orchestrator activity to Prometheus. It satisfies
// usecase.JobObserver.
type JobMetrics struct {
	registry *prometheus.Registry
	attempts *prometheus.CounterVec
	retries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	queue    *prometheus.GaugeVec
}

var _ usecase.JobObserver = (*JobMetrics)(nil)

func NewJobMetrics() *JobMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &JobMetrics{
		registry: registry,
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tournament_sync_job_attempts_total",
				Help: "Finished job attempts by type and outcome",
			},
			[]string{"job_type", "status"},
		),
		retries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tournament_sync_job_retries_total",
				Help: "Job attempts scheduled for retry",
			},
			[]string{"job_type"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tournament_sync_job_duration_seconds",
				Help:    "Duration of job attempts in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"job_type"},
		),
		queue: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tournament_sync_jobs",
				Help: "Jobs known to the orchestrator by state",
			},
			[]string{"state"},
		),
	}
}

func (m *JobMetrics) AttemptFinished(jobType syncjob.Type, status syncjob.Status, took time.Duration) {
	m.attempts.WithLabelValues(string(jobType), string(status)).Inc()
	m.duration.WithLabelValues(string(jobType)).Observe(took.Seconds())
}

func (m *JobMetrics) AttemptRetried(jobType syncjob.Type) {
	m.retries.WithLabelValues(string(jobType)).Inc()
}

func (m *JobMetrics) QueueChanged(stats usecase.QueueStats) {
	m.queue.WithLabelValues("waiting").Set(float64(stats.Waiting))
	m.queue.WithLabelValues("active").Set(float64(stats.Active))
	m.queue.WithLabelValues("completed").Set(float64(stats.Completed))
	m.queue.WithLabelValues("failed").Set(float64(stats.Failed))
}

func (m *JobMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
