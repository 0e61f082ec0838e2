package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Phase labels.
const (
	PhaseGenerate = "generate"
	PhaseExpand   = "expand"
)

// Run outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

var (
	candidatesEvaluated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chopshop_candidates_evaluated_total",
		Help: "Candidate item subsets tested, by search phase",
	}, []string{"phase"})

	candidatesValid = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chopshop_candidates_valid_total",
		Help: "Candidate subsets that passed budget and constraints, by search phase",
	}, []string{"phase"})

	checkpointDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chopshop_checkpoint_duration_seconds",
		Help:    "Time spent generating or expanding one checkpoint",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 9), // 1ms to ~65s
	}, []string{"phase"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chopshop_runs_total",
		Help: "Completed search runs by outcome",
	}, []string{"outcome"})
)

// ObserveCheckpoint records one checkpoint's counters.
func ObserveCheckpoint(phase string, evaluated, valid int, elapsed time.Duration) {
	candidatesEvaluated.WithLabelValues(phase).Add(float64(evaluated))
	candidatesValid.WithLabelValues(phase).Add(float64(valid))
	checkpointDuration.WithLabelValues(phase).Observe(elapsed.Seconds())
}

// ObserveRun counts a finished run.
func ObserveRun(outcome string) {
	runsTotal.WithLabelValues(outcome).Inc()
}

// Outcome maps a run's error and result size to an outcome label.
func Outcome(err error, sequences int) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case err != nil:
		return OutcomeError
	case sequences == 0:
		return OutcomeEmpty
	}
	return OutcomeOK
}

// MetricsHandler serves the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// ServeMetrics exposes /metrics on addr until ctx is done.
func ServeMetrics(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
}
