package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redlabs-sc/telegram-media-fetch-bot/config"
	"go.uber.org/zap"
)

var (
	jobsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "media_bot_jobs_started_total",
			Help: "Number of jobs admitted and started",
		},
	)

	jobOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_bot_job_outcomes_total",
			Help: "Number of jobs reaching each terminal outcome",
		},
		[]string{"outcome"},
	)

	activeJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_bot_active_jobs",
			Help: "Number of jobs currently in flight",
		},
	)

	extractionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_bot_extraction_duration_seconds",
			Help:    "Time spent in the extraction step",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 900},
		},
	)

	admissionRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "media_bot_admission_rejected_total",
			Help: "Number of job requests rejected by the admission gate",
		},
	)
)

func init() {
	prometheus.MustRegister(jobsStarted)
	prometheus.MustRegister(jobOutcomes)
	prometheus.MustRegister(activeJobs)
	prometheus.MustRegister(extractionDuration)
	prometheus.MustRegister(admissionRejected)
}

// JobStarted marks a job entering the pipeline.
func JobStarted() {
	jobsStarted.Inc()
	activeJobs.Inc()
}

// JobFinished marks a job reaching a terminal outcome.
func JobFinished(outcome string) {
	jobOutcomes.WithLabelValues(outcome).Inc()
	activeJobs.Dec()
}

// ExtractionObserved records the extraction step duration.
func ExtractionObserved(d time.Duration) {
	extractionDuration.Observe(d.Seconds())
}

// AdmissionRejected counts a throttled request.
func AdmissionRejected() {
	admissionRejected.Inc()
}

// StartMetricsServer starts the Prometheus metrics HTTP server
func StartMetricsServer(cfg *config.Config, logger *zap.Logger) {
	// Create a new HTTP mux for metrics to avoid conflicts
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.MetricsPort)
	logger.Info("Starting metrics server", zap.String("addr", addr))

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()
}
